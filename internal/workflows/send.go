package workflows

import (
	"context"
	"fmt"
	"time"

	"github.com/CamreshJames/fe-email-client/internal/audit"
	kerrors "github.com/CamreshJames/fe-email-client/internal/errors"
	"github.com/CamreshJames/fe-email-client/internal/mailer"
	"github.com/CamreshJames/fe-email-client/internal/store"
	"github.com/CamreshJames/fe-email-client/internal/templates"

	"go.uber.org/zap"
)

// SendOptions configures the send workflow.
type SendOptions struct {
	StoreOptions

	// Transport overrides SMTP delivery. Nil means SMTP from the document.
	Transport mailer.Transport

	// Logger receives delivery events. Nil discards them.
	Logger *zap.Logger

	// RetryStep overrides the linear retry wait. Zero keeps the default.
	RetryStep time.Duration

	// Metrics fills trial-expiration placeholders. Zero value means sample data.
	Metrics templates.TrialMetrics

	// OnTemplate is called before each template is sent.
	OnTemplate func(name string)
}

// TemplateReport is the delivery outcome of one template.
type TemplateReport struct {
	Name    string
	Subject string
	Report  mailer.Report
}

// SendResult contains the outcome of a send operation.
type SendResult struct {
	// Migrated is true if the document was protected during this run.
	Migrated bool

	// GeneratedPassword is true if the master password was generated.
	GeneratedPassword bool

	// Recipients is the number of active recipients.
	Recipients int

	// Templates holds one report per active template, in document order.
	Templates []TemplateReport

	// Total sums the template reports.
	Total mailer.Report
}

// Send delivers every active template to every active recipient.
//
// Bodies are personalised per recipient. A recipient with a malformed
// address or that cannot be reached is counted as failed and the run
// continues; a template that cannot be loaded stops the run.
func Send(ctx context.Context, opts SendOptions) (*SendResult, error) {
	log := auditLog(opts.Settings)

	s, err := openStore(ctx, opts.StoreOptions, log)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	result := &SendResult{Migrated: s.Migrated(), GeneratedPassword: s.GeneratedPassword()}

	cfg, err := s.SMTPConfig()
	if err != nil {
		return result, err
	}

	recipients := s.ActiveRecipients()
	result.Recipients = len(recipients)
	if len(recipients) == 0 {
		return result, kerrors.ErrNoRecipients
	}

	transport := opts.Transport
	if transport == nil {
		transport = mailer.NewSMTPTransport(cfg)
	}
	mailerOpts := []mailer.Option{}
	if opts.Logger != nil {
		mailerOpts = append(mailerOpts, mailer.WithLogger(opts.Logger))
	}
	if opts.RetryStep > 0 {
		mailerOpts = append(mailerOpts, mailer.WithRetry(mailer.DefaultAttempts, opts.RetryStep))
	}
	m := mailer.New(transport, cfg.Identity, mailerOpts...)

	metrics := opts.Metrics
	if metrics == (templates.TrialMetrics{}) {
		metrics = templates.SampleTrialMetrics
	}

	for _, tmpl := range s.ActiveTemplates() {
		if opts.OnTemplate != nil {
			opts.OnTemplate(tmpl.Name)
		}

		body, err := templates.Load(opts.Settings.TemplatesDir, tmpl.Path)
		if err != nil {
			return result, fmt.Errorf("template %s: %w", tmpl.Name, err)
		}

		tr := TemplateReport{Name: tmpl.Name, Subject: tmpl.Subject}
		tr.Report = m.SendToRecipients(ctx, recipients, tmpl.Subject, func(r store.Recipient) string {
			return templates.Personalize(tmpl.Name, body, r.Name, metrics)
		})

		log.Record(audit.Entry{
			Operation:  audit.OpSend,
			Config:     s.Path(),
			Template:   tmpl.Name,
			Recipients: len(recipients),
			Sent:       tr.Report.Sent,
			Failed:     tr.Report.Failed,
		})

		result.Templates = append(result.Templates, tr)
		result.Total.Add(tr.Report)

		if err := ctx.Err(); err != nil {
			return result, err
		}
	}

	return result, nil
}
