package mailer

import (
	"context"
	"fmt"
	"time"

	kerrors "github.com/CamreshJames/fe-email-client/internal/errors"
	"github.com/CamreshJames/fe-email-client/internal/store"
	"github.com/CamreshJames/fe-email-client/internal/utils"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	// DefaultAttempts is the number of tries per message.
	DefaultAttempts = 3

	// DefaultRetryStep grows the wait linearly: step, 2*step, ...
	DefaultRetryStep = 2 * time.Second
)

// Failure records one recipient that could not be reached.
type Failure struct {
	Email string
	Err   error
}

// Report summarizes one batch.
type Report struct {
	Sent     int
	Failed   int
	Failures []Failure
}

func (r *Report) fail(email string, err error) {
	r.Failed++
	r.Failures = append(r.Failures, Failure{Email: email, Err: err})
}

// Add folds other into r.
func (r *Report) Add(other Report) {
	r.Sent += other.Sent
	r.Failed += other.Failed
	r.Failures = append(r.Failures, other.Failures...)
}

// Mailer sends personalised messages with per-message retry.
type Mailer struct {
	transport Transport
	from      string
	logger    *zap.Logger
	attempts  int
	step      time.Duration
	now       func() time.Time
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithLogger sets the delivery logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(m *Mailer) { m.logger = l }
}

// WithRetry overrides the attempt count and the linear backoff step.
func WithRetry(attempts int, step time.Duration) Option {
	return func(m *Mailer) {
		if attempts > 0 {
			m.attempts = attempts
		}
		m.step = step
	}
}

// New returns a Mailer sending from the given address through t.
func New(t Transport, from string, opts ...Option) *Mailer {
	m := &Mailer{
		transport: t,
		from:      from,
		logger:    zap.NewNop(),
		attempts:  DefaultAttempts,
		step:      DefaultRetryStep,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// linearBackOff waits step*n before the n-th retry.
type linearBackOff struct {
	step time.Duration
	n    int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	return time.Duration(b.n) * b.step
}

func (b *linearBackOff) Reset() { b.n = 0 }

// Send delivers one message to recipient, retrying transport failures.
func (m *Mailer) Send(ctx context.Context, recipient store.Recipient, subject, html string) error {
	msg := Message{
		ID:      newMessageID(m.from),
		From:    m.from,
		To:      recipient.Email,
		Subject: subject,
		HTML:    html,
		Date:    m.now(),
	}

	attempt := 0
	operation := func() error {
		attempt++
		return m.transport.Send(ctx, msg)
	}
	notify := func(err error, wait time.Duration) {
		m.logger.Warn("retrying delivery",
			zap.String("to", recipient.Email),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(&linearBackOff{step: m.step}, uint64(m.attempts-1)),
		ctx,
	)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return fmt.Errorf("%w to %s after %d attempts: %v", kerrors.ErrSendFailed, recipient.Email, attempt, err)
	}

	m.logger.Info("email sent",
		zap.String("to", recipient.Email),
		zap.String("message_id", msg.ID),
		zap.Int("attempts", attempt))
	return nil
}

// Body renders the HTML sent to one recipient.
type Body func(recipient store.Recipient) string

// Static returns a Body that sends the same HTML to everyone.
func Static(html string) Body {
	return func(store.Recipient) string { return html }
}

// SendToRecipients sends one message per recipient with the HTML produced by
// body. Malformed addresses fail with ErrInvalidAddress without a delivery
// attempt. A failure is counted and the batch continues.
func (m *Mailer) SendToRecipients(ctx context.Context, recipients []store.Recipient, subject string, body Body) Report {
	m.logger.Info("starting batch", zap.Int("recipients", len(recipients)))

	var report Report
	for _, r := range recipients {
		if err := ctx.Err(); err != nil {
			report.fail(r.Email, err)
			continue
		}
		if !utils.IsValidEmail(r.Email) {
			report.fail(r.Email, fmt.Errorf("%w: %q", kerrors.ErrInvalidAddress, r.Email))
			m.logger.Warn("skipping invalid address", zap.String("to", r.Email))
			continue
		}
		if err := m.Send(ctx, r, subject, body(r)); err != nil {
			report.fail(r.Email, err)
			m.logger.Error("delivery failed", zap.String("to", r.Email), zap.Error(err))
			continue
		}
		report.Sent++
	}

	m.logger.Info("batch completed", zap.Int("sent", report.Sent), zap.Int("failed", report.Failed))
	return report
}
