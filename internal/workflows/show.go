package workflows

import (
	"context"

	"github.com/CamreshJames/fe-email-client/internal/configs"
	"github.com/CamreshJames/fe-email-client/internal/store"
	"github.com/CamreshJames/fe-email-client/internal/ui"
)

// ShowOptions configures the show workflow.
type ShowOptions struct {
	StoreOptions
}

// ShowResult is the decrypted configuration with the SMTP secret masked.
type ShowResult struct {
	Mode       configs.Mode
	Migrated   bool
	Host       string
	Port       string
	Identity   string
	Secret     string // masked
	UseSSL     bool
	UseTLS     bool
	Recipients []store.Recipient
	Templates  []store.EmailTemplate
}

// Show reveals the SMTP settings and the active recipients and templates.
func Show(ctx context.Context, opts ShowOptions) (*ShowResult, error) {
	s, err := openStore(ctx, opts.StoreOptions, auditLog(opts.Settings))
	if err != nil {
		return nil, err
	}
	defer s.Close()

	cfg, err := s.SMTPConfig()
	if err != nil {
		return nil, err
	}

	return &ShowResult{
		Mode:       s.Mode(),
		Migrated:   s.Migrated(),
		Host:       cfg.Host,
		Port:       cfg.Port,
		Identity:   cfg.Identity,
		Secret:     ui.Mask(cfg.Secret),
		UseSSL:     cfg.UseSSL,
		UseTLS:     cfg.UseTLS,
		Recipients: s.ActiveRecipients(),
		Templates:  s.ActiveTemplates(),
	}, nil
}
