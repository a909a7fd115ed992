package secrets

import (
	"encoding/base64"
	"fmt"
	"strings"

	kerrors "github.com/CamreshJames/fe-email-client/internal/errors"
)

// Marker prefixes every protected value in the configuration document.
const Marker = "ENC:"

// minEnvelopeLength is salt + iv + an empty plaintext's tag.
const minEnvelopeLength = SaltLength + IVLength + TagLength

// Envelope is the decoded form of a protected value:
// salt[32] || iv[12] || ciphertext||tag.
type Envelope struct {
	Salt   [SaltLength]byte
	IV     [IVLength]byte
	Sealed []byte
}

// Marshal returns the marked, base64 encoded token.
func (e Envelope) Marshal() string {
	raw := make([]byte, 0, SaltLength+IVLength+len(e.Sealed))
	raw = append(raw, e.Salt[:]...)
	raw = append(raw, e.IV[:]...)
	raw = append(raw, e.Sealed...)
	return Marker + base64.StdEncoding.EncodeToString(raw)
}

// ParseEnvelope splits a token at its fixed offsets. The marker is optional.
func ParseEnvelope(token string) (Envelope, error) {
	encoded := strings.TrimPrefix(strings.TrimSpace(token), Marker)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: not valid base64", kerrors.ErrMalformedEnvelope)
	}
	if len(raw) < minEnvelopeLength {
		return Envelope{}, fmt.Errorf("%w: %d bytes, need at least %d",
			kerrors.ErrMalformedEnvelope, len(raw), minEnvelopeLength)
	}

	var env Envelope
	copy(env.Salt[:], raw[:SaltLength])
	copy(env.IV[:], raw[SaltLength:SaltLength+IVLength])
	env.Sealed = raw[SaltLength+IVLength:]
	return env, nil
}

// IsEncrypted reports whether value carries the protection marker.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, Marker)
}
