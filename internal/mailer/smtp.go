package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/CamreshJames/fe-email-client/internal/store"
)

// DefaultTimeout bounds connecting and each SMTP exchange.
const DefaultTimeout = 30 * time.Second

// Transport delivers one message.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPTransport delivers over one fresh SMTP connection per message.
type SMTPTransport struct {
	Config  store.SMTPConfig
	Timeout time.Duration

	// TLSConfig overrides the default (server name check, TLS 1.2 minimum).
	TLSConfig *tls.Config
}

// NewSMTPTransport returns a transport for cfg with default timeouts.
func NewSMTPTransport(cfg store.SMTPConfig) *SMTPTransport {
	return &SMTPTransport{Config: cfg, Timeout: DefaultTimeout}
}

func (t *SMTPTransport) tlsConfig() *tls.Config {
	if t.TLSConfig != nil {
		return t.TLSConfig
	}
	return &tls.Config{
		ServerName: t.Config.Host,
		MinVersion: tls.VersionTLS12,
	}
}

func (t *SMTPTransport) timeout() time.Duration {
	if t.Timeout <= 0 {
		return DefaultTimeout
	}
	return t.Timeout
}

func (t *SMTPTransport) dial(ctx context.Context) (net.Conn, error) {
	addr := net.JoinHostPort(t.Config.Host, t.Config.Port)
	dialer := &net.Dialer{Timeout: t.timeout()}

	if t.Config.UseSSL {
		td := &tls.Dialer{NetDialer: dialer, Config: t.tlsConfig()}
		return td.DialContext(ctx, "tcp", addr)
	}
	return dialer.DialContext(ctx, "tcp", addr)
}

// Send connects, optionally upgrades with STARTTLS, authenticates and
// transmits msg.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	conn, err := t.dial(ctx)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", t.Config.Host, err)
	}
	_ = conn.SetDeadline(time.Now().Add(t.timeout()))

	client, err := smtp.NewClient(conn, t.Config.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp greeting: %w", err)
	}
	defer client.Close()

	if t.Config.UseTLS && !t.Config.UseSSL {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			return fmt.Errorf("server %s does not offer STARTTLS", t.Config.Host)
		}
		if err := client.StartTLS(t.tlsConfig()); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if t.Config.Identity != "" {
		auth := smtp.PlainAuth("", t.Config.Identity, t.Config.Secret, t.Config.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(msg.From); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp RCPT TO: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := w.Write(msg.Bytes()); err != nil {
		w.Close()
		return fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finishing message: %w", err)
	}

	return client.Quit()
}
