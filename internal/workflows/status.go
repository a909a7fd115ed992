package workflows

import (
	"context"
	"fmt"

	"github.com/CamreshJames/fe-email-client/internal/configs"
	"github.com/CamreshJames/fe-email-client/internal/utils"
)

// StatusOptions configures the status workflow.
type StatusOptions struct {
	Settings *configs.Settings
}

// StatusResult describes the document without revealing anything.
type StatusResult struct {
	ConfigPath string
	Mode       configs.Mode

	// HintTimestamp is when a master key was configured, or "" if never.
	HintTimestamp string

	// NeedsMigration is true for CLEAR-TEXT documents.
	NeedsMigration bool

	// Protected lists sensitive fields holding an ENC: token.
	Protected []string

	// Unprotected lists non-empty sensitive fields still in cleartext.
	Unprotected []string

	TotalRecipients  int
	ActiveRecipients int

	// InvalidAddresses lists active recipient addresses that will be skipped.
	InvalidAddresses []string

	TotalTemplates  int
	ActiveTemplates int
}

// Status reports the protection state of the document. It never needs the
// master password and never writes anything.
func Status(ctx context.Context, opts StatusOptions) (*StatusResult, error) {
	if opts.Settings == nil {
		return nil, fmt.Errorf("workflow settings not resolved")
	}

	doc, err := configs.Load(opts.Settings.ConfigPath)
	if err != nil {
		return nil, err
	}

	hint, err := configs.ReadHint(opts.Settings.HintPath)
	if err != nil {
		return nil, fmt.Errorf("reading hint: %w", err)
	}

	result := &StatusResult{
		ConfigPath:      opts.Settings.ConfigPath,
		Mode:            doc.Type,
		HintTimestamp:   hint,
		NeedsMigration:  configs.NeedsMigration(doc),
		TotalRecipients: len(doc.Recipients),
		TotalTemplates:  len(doc.Templates),
	}

	result.Protected, result.Unprotected = configs.ClassifyFields(doc)
	for _, r := range doc.Recipients {
		if !r.Active {
			continue
		}
		result.ActiveRecipients++
		if !utils.IsValidEmail(r.Email) {
			result.InvalidAddresses = append(result.InvalidAddresses, r.Email)
		}
	}
	for _, t := range doc.Templates {
		if t.Active {
			result.ActiveTemplates++
		}
	}

	return result, nil
}
