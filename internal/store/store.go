package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/CamreshJames/fe-email-client/internal/configs"
	kerrors "github.com/CamreshJames/fe-email-client/internal/errors"
	"github.com/CamreshJames/fe-email-client/internal/masterkey"
	"github.com/CamreshJames/fe-email-client/internal/secrets"
)

// SMTPConfig is the outbound server configuration with credentials revealed.
type SMTPConfig struct {
	Host     string
	Port     string
	Identity string
	Secret   string
	UseSSL   bool
	UseTLS   bool
}

// Recipient is one active or inactive recipient from the document.
type Recipient struct {
	Name     string
	Email    string
	Category string
	Active   bool
}

// EmailTemplate is one template record from the document.
type EmailTemplate struct {
	Name    string
	Path    string
	Subject string
	Active  bool
}

// Options configures Open.
type Options struct {
	// ConfigPath is the document location. Required.
	ConfigPath string

	// HintPath defaults to configs.HintPath(ConfigPath).
	HintPath string

	// Provider supplies the master password. Required.
	Provider masterkey.Provider

	// OnGeneratedPassword is called once with a password generated during
	// migration. It is the only chance to show it to the user.
	OnGeneratedPassword func(password string)

	// Now defaults to time.Now and stamps the hint file.
	Now func() time.Time
}

// Store holds one loaded document and the master password for a single run.
type Store struct {
	path      string
	doc       *configs.Document
	migration *configs.MigrationResult
	generated bool

	mu     sync.Mutex
	secret []byte
}

// Open loads the document at opts.ConfigPath. A CLEAR-TEXT document is
// migrated, persisted and hinted before Open returns; an ENCRYPTED one is
// left untouched.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("%w: no provider configured", kerrors.ErrNoPassword)
	}
	if err := secrets.Probe(); err != nil {
		return nil, err
	}

	doc, err := configs.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	s := &Store{path: opts.ConfigPath, doc: doc}
	if !configs.NeedsMigration(doc) {
		password, err := opts.Provider.MasterPassword(ctx, masterkey.PurposeDecrypt)
		if err != nil {
			return nil, err
		}
		s.secret = password
		s.migration = &configs.MigrationResult{From: doc.Type, To: doc.Type}
		return s, nil
	}

	if err := s.migrate(ctx, opts); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context, opts Options) error {
	password, err := opts.Provider.MasterPassword(ctx, masterkey.PurposeEncrypt)
	if err != nil {
		return err
	}

	if len(password) == 0 {
		generated, err := secrets.GeneratePassword()
		if err != nil {
			return err
		}
		password = []byte(generated)
		s.generated = true
	}

	next, result, err := configs.Migrate(s.doc, func(plaintext string) (string, error) {
		return secrets.Encrypt(plaintext, password)
	})
	if err != nil {
		secrets.Wipe(password)
		return err
	}

	if err := configs.Save(s.path, next); err != nil {
		secrets.Wipe(password)
		return err
	}

	// The document on disk is now sealed under password.
	if s.generated && opts.OnGeneratedPassword != nil {
		opts.OnGeneratedPassword(string(password))
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	hintPath := opts.HintPath
	if hintPath == "" {
		hintPath = configs.HintPath(s.path)
	}
	if err := configs.WriteHint(hintPath, now()); err != nil {
		secrets.Wipe(password)
		return fmt.Errorf("%w: writing hint: %v", kerrors.ErrPersistFailed, err)
	}

	s.doc = next
	s.migration = result
	s.secret = password
	return nil
}

// Path returns the document location.
func (s *Store) Path() string {
	return s.path
}

// Mode returns the document's current protection mode.
func (s *Store) Mode() configs.Mode {
	return s.doc.Type
}

// Migrated reports whether Open migrated the document.
func (s *Store) Migrated() bool {
	return s.migration.Migrated()
}

// Migration returns the details of the migration performed by Open.
func (s *Store) Migration() configs.MigrationResult {
	return *s.migration
}

// GeneratedPassword reports whether the master password was generated
// during migration.
func (s *Store) GeneratedPassword() bool {
	return s.generated
}

// SMTPConfig returns the server settings with identity and secret decrypted.
// Unmarked values are returned as stored.
func (s *Store) SMTPConfig() (SMTPConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.secret == nil {
		return SMTPConfig{}, kerrors.ErrStoreClosed
	}

	identity, err := s.reveal(s.doc.SMTP.Username)
	if err != nil {
		return SMTPConfig{}, fmt.Errorf("smtp username: %w", err)
	}
	secret, err := s.reveal(s.doc.SMTP.Password)
	if err != nil {
		return SMTPConfig{}, fmt.Errorf("smtp password: %w", err)
	}

	return SMTPConfig{
		Host:     s.doc.SMTP.Host,
		Port:     string(s.doc.SMTP.Port),
		Identity: identity,
		Secret:   secret,
		UseSSL:   s.doc.SMTP.UseSSL,
		UseTLS:   s.doc.SMTP.UseTLS,
	}, nil
}

func (s *Store) reveal(value string) (string, error) {
	if !secrets.IsEncrypted(value) {
		return value, nil
	}
	return secrets.Decrypt(value, s.secret)
}

// UnprotectedFields lists sensitive fields that an ENCRYPTED document still
// holds in cleartext. They are served as stored.
func (s *Store) UnprotectedFields() []string {
	return configs.UnprotectedFields(s.doc)
}

// ActiveRecipients returns active recipients in document order.
func (s *Store) ActiveRecipients() []Recipient {
	var out []Recipient
	for _, r := range s.doc.Recipients {
		if !r.Active {
			continue
		}
		out = append(out, Recipient{Name: r.Name, Email: r.Email, Category: r.Type, Active: true})
	}
	return out
}

// ActiveTemplates returns active templates in document order.
func (s *Store) ActiveTemplates() []EmailTemplate {
	var out []EmailTemplate
	for _, t := range s.doc.Templates {
		if !t.Active {
			continue
		}
		out = append(out, EmailTemplate{Name: t.Name, Path: t.Path, Subject: t.Subject, Active: true})
	}
	return out
}

// Close wipes the master password. Later credential requests fail with
// ErrStoreClosed.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets.Wipe(s.secret)
	s.secret = nil
}
