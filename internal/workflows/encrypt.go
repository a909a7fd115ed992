package workflows

import (
	"context"

	"github.com/CamreshJames/fe-email-client/internal/configs"
)

// EncryptOptions configures the encrypt workflow.
type EncryptOptions struct {
	StoreOptions
}

// EncryptResult contains the outcome of an encrypt operation.
type EncryptResult struct {
	Mode configs.Mode

	// Migrated is false when the document was already protected.
	Migrated bool

	// GeneratedPassword is true if the master password was generated.
	GeneratedPassword bool

	// Encrypted lists fields sealed by this run.
	Encrypted []string

	// Skipped lists fields left as they were.
	Skipped []string
}

// Encrypt protects a cleartext document without sending anything. On an
// already protected document it only confirms the mode.
func Encrypt(ctx context.Context, opts EncryptOptions) (*EncryptResult, error) {
	s, err := openStore(ctx, opts.StoreOptions, auditLog(opts.Settings))
	if err != nil {
		return nil, err
	}
	defer s.Close()

	m := s.Migration()
	return &EncryptResult{
		Mode:              s.Mode(),
		Migrated:          s.Migrated(),
		GeneratedPassword: s.GeneratedPassword(),
		Encrypted:         m.Encrypted,
		Skipped:           m.Skipped,
	}, nil
}
