package configs

import (
	"fmt"

	"github.com/CamreshJames/fe-email-client/internal/secrets"
)

// Sealer protects a single plaintext value and returns the marked token.
type Sealer func(plaintext string) (string, error)

// SensitiveField names a document value that migration protects.
type SensitiveField struct {
	Name  string
	value func(*SMTPSettings) *string
}

// SensitiveFields lists the protected values in migration order.
var SensitiveFields = []SensitiveField{
	{Name: "username", value: func(s *SMTPSettings) *string { return &s.Username }},
	{Name: "password", value: func(s *SMTPSettings) *string { return &s.Password }},
}

// Get returns the field's stored value in doc.
func (f SensitiveField) Get(doc *Document) string {
	return *f.value(&doc.SMTP)
}

// MigrationResult contains information about what was migrated.
type MigrationResult struct {
	From Mode
	To   Mode

	// Encrypted lists fields that were sealed by this migration.
	Encrypted []string

	// Skipped lists fields left as they were: empty or already marked.
	Skipped []string
}

// Migrated reports whether the document changed mode.
func (r *MigrationResult) Migrated() bool {
	return r.From != r.To
}

// NeedsMigration reports whether doc is still in cleartext mode.
func NeedsMigration(doc *Document) bool {
	return doc.Type == ModeCleartext
}

// Migrate returns a protected copy of doc. The input is never modified, so a
// failure partway leaves the caller's snapshot intact.
//
// Each sensitive field that is non-empty and unmarked is sealed with seal;
// marked fields are copied unchanged. The copy's type becomes ENCRYPTED.
// Documents already in ENCRYPTED mode are returned as an unchanged copy.
func Migrate(doc *Document, seal Sealer) (*Document, *MigrationResult, error) {
	if err := doc.Validate(); err != nil {
		return nil, nil, err
	}

	next := doc.Clone()
	result := &MigrationResult{From: doc.Type, To: doc.Type}

	if !NeedsMigration(doc) {
		return next, result, nil
	}

	for _, field := range SensitiveFields {
		ptr := field.value(&next.SMTP)
		if *ptr == "" || secrets.IsEncrypted(*ptr) {
			result.Skipped = append(result.Skipped, field.Name)
			continue
		}

		token, err := seal(*ptr)
		if err != nil {
			return nil, nil, fmt.Errorf("encrypting smtp %s: %w", field.Name, err)
		}
		*ptr = token
		result.Encrypted = append(result.Encrypted, field.Name)
	}

	next.Type = ModeEncrypted
	result.To = ModeEncrypted
	return next, result, nil
}

// ClassifyFields splits the non-empty sensitive fields of doc into those
// holding a marked token and those still in cleartext.
func ClassifyFields(doc *Document) (protected, cleartext []string) {
	for _, field := range SensitiveFields {
		v := field.Get(doc)
		switch {
		case v == "":
		case secrets.IsEncrypted(v):
			protected = append(protected, field.Name)
		default:
			cleartext = append(cleartext, field.Name)
		}
	}
	return protected, cleartext
}

// UnprotectedFields lists sensitive fields of an ENCRYPTED document that
// still hold cleartext, for example after a manual edit.
func UnprotectedFields(doc *Document) []string {
	if doc.Type != ModeEncrypted {
		return nil
	}
	_, cleartext := ClassifyFields(doc)
	return cleartext
}
