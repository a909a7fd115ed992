package configs

import (
	"fmt"
	"strconv"

	kerrors "github.com/CamreshJames/fe-email-client/internal/errors"
)

// Mode is the document-level protection marker stored in the root "type" attribute.
type Mode string

const (
	// ModeCleartext marks a document whose sensitive fields have never been protected.
	ModeCleartext Mode = "CLEAR-TEXT"
	// ModeEncrypted marks a document whose sensitive fields carry the ENC: marker.
	ModeEncrypted Mode = "ENCRYPTED"
)

// Document is the typed form of the configuration file.
type Document struct {
	Type       Mode             `toml:"type" yaml:"type"`
	SMTP       SMTPSettings     `toml:"smtpSettings" yaml:"smtpSettings"`
	Recipients []RecipientEntry `toml:"recipient" yaml:"recipient"`
	Templates  []TemplateEntry  `toml:"template" yaml:"template"`

	// root is the XML root element name, kept so a rewrite preserves it.
	root string

	// source holds the XML bytes the document was decoded from. Encode
	// rewrites them in place when only protected values changed.
	source []byte
}

// SMTPSettings holds the outbound server settings. Username and Password are
// sensitive and are protected during migration.
type SMTPSettings struct {
	Host     string `toml:"host" yaml:"host"`
	Port     Port   `toml:"port" yaml:"port"`
	Username string `toml:"username" yaml:"username"`
	Password string `toml:"password" yaml:"password"`
	UseSSL   bool   `toml:"useSSL" yaml:"useSSL"`
	UseTLS   bool   `toml:"useTLS" yaml:"useTLS"`
}

// RecipientEntry is one recipient record as stored in the document.
type RecipientEntry struct {
	Name   string `toml:"name" yaml:"name"`
	Email  string `toml:"email" yaml:"email"`
	Type   string `toml:"type" yaml:"type"`
	Active bool   `toml:"active" yaml:"active"`
}

// TemplateEntry is one template record as stored in the document.
type TemplateEntry struct {
	Name    string `toml:"name" yaml:"name"`
	Path    string `toml:"path" yaml:"path"`
	Subject string `toml:"subject" yaml:"subject"`
	Active  bool   `toml:"active" yaml:"active"`
}

// Port accepts either a string or an integer in the source document.
type Port string

// UnmarshalTOML implements toml.Unmarshaler.
func (p *Port) UnmarshalTOML(v interface{}) error {
	switch val := v.(type) {
	case string:
		*p = Port(val)
	case int64:
		*p = Port(strconv.FormatInt(val, 10))
	default:
		return fmt.Errorf("port: unsupported value %v", v)
	}
	return nil
}

// Validate checks the root type attribute.
func (d *Document) Validate() error {
	switch d.Type {
	case ModeCleartext, ModeEncrypted:
		return nil
	default:
		return fmt.Errorf("%w: %q", kerrors.ErrUnknownMode, d.Type)
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := *d
	c.Recipients = append([]RecipientEntry(nil), d.Recipients...)
	c.Templates = append([]TemplateEntry(nil), d.Templates...)
	return &c
}
