package workflows

import (
	"context"

	"github.com/CamreshJames/fe-email-client/internal/audit"
	"github.com/CamreshJames/fe-email-client/internal/configs"
)

// VerifyOptions configures the verify workflow.
type VerifyOptions struct {
	StoreOptions
}

// VerifyResult contains the outcome of a verify operation.
type VerifyResult struct {
	Mode     configs.Mode
	Migrated bool

	// Unprotected lists credentials the document still holds in cleartext.
	Unprotected []string
}

// Verify proves the master password opens both sensitive fields. A wrong
// password yields ErrAuthenticationFailed.
func Verify(ctx context.Context, opts VerifyOptions) (*VerifyResult, error) {
	log := auditLog(opts.Settings)

	s, err := openStore(ctx, opts.StoreOptions, log)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if _, err := s.SMTPConfig(); err != nil {
		return nil, err
	}

	log.Record(audit.Entry{Operation: audit.OpVerify, Config: s.Path()})
	return &VerifyResult{
		Mode:        s.Mode(),
		Migrated:    s.Migrated(),
		Unprotected: s.UnprotectedFields(),
	}, nil
}
