package workflows

import (
	"context"
	"fmt"

	"github.com/CamreshJames/fe-email-client/internal/audit"
	"github.com/CamreshJames/fe-email-client/internal/configs"
	"github.com/CamreshJames/fe-email-client/internal/masterkey"
	"github.com/CamreshJames/fe-email-client/internal/store"
)

// StoreOptions is shared by every workflow that needs the master password.
type StoreOptions struct {
	// Settings holds resolved file locations. Required.
	Settings *configs.Settings

	// Provider supplies the master password. Required.
	Provider masterkey.Provider

	// OnGeneratedPassword receives a password generated during migration.
	OnGeneratedPassword func(password string)
}

// openStore opens the configured store and records a migration if one happened.
func openStore(ctx context.Context, opts StoreOptions, log *audit.Log) (*store.Store, error) {
	if opts.Settings == nil {
		return nil, fmt.Errorf("workflow settings not resolved")
	}

	s, err := store.Open(ctx, store.Options{
		ConfigPath:          opts.Settings.ConfigPath,
		HintPath:            opts.Settings.HintPath,
		Provider:            opts.Provider,
		OnGeneratedPassword: opts.OnGeneratedPassword,
	})
	if err != nil {
		return nil, err
	}

	if s.Migrated() {
		m := s.Migration()
		log.Record(audit.Entry{
			Operation: audit.OpMigrate,
			Config:    s.Path(),
			Fields:    m.Encrypted,
			Generated: s.GeneratedPassword(),
		})
	}
	return s, nil
}

func auditLog(settings *configs.Settings) *audit.Log {
	if settings == nil {
		return audit.New("")
	}
	return audit.New(settings.AuditPath)
}
