package secrets

import (
	"fmt"
	"sync"

	kerrors "github.com/CamreshJames/fe-email-client/internal/errors"
)

var (
	probeOnce sync.Once
	probeErr  error
)

// Probe verifies once per process that key derivation and AES-GCM work in
// this runtime by sealing and reopening a throwaway value.
func Probe() error {
	probeOnce.Do(func() {
		probeErr = runProbe()
	})
	return probeErr
}

func runProbe() error {
	const sample = "tatua-probe"
	password := []byte("probe-password")

	token, err := Encrypt(sample, password)
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrCipherUnavailable, err)
	}
	got, err := Decrypt(token, password)
	if err != nil || got != sample {
		return fmt.Errorf("%w: round trip failed", kerrors.ErrCipherUnavailable)
	}
	return nil
}
