package mailer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	kerrors "github.com/CamreshJames/fe-email-client/internal/errors"
	"github.com/CamreshJames/fe-email-client/internal/store"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fakeTransport fails the first failures[email] attempts for each address.
type fakeTransport struct {
	mu       sync.Mutex
	failures map[string]int
	attempts map[string]int
	sent     []Message
}

func newFakeTransport(failures map[string]int) *fakeTransport {
	return &fakeTransport{failures: failures, attempts: map[string]int{}}
}

func (f *fakeTransport) Send(ctx context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.attempts[msg.To]++
	if f.attempts[msg.To] <= f.failures[msg.To] {
		return errors.New("451 try again later")
	}
	f.sent = append(f.sent, msg)
	return nil
}

var recipients = []store.Recipient{
	{Name: "Ann", Email: "ann@example.com", Active: true},
	{Name: "Bob", Email: "bob@example.com", Active: true},
	{Name: "Cid", Email: "cid@example.com", Active: true},
}

func TestSendToRecipients(t *testing.T) {
	transport := newFakeTransport(map[string]int{
		"bob@example.com": 2, // succeeds on the third attempt
		"cid@example.com": 5, // never succeeds
	})
	m := New(transport, "alice@example.com", WithRetry(3, 0))

	report := m.SendToRecipients(context.Background(), recipients, "Hello", Static("<p>Hi</p>"))

	if report.Sent != 2 || report.Failed != 1 {
		t.Fatalf("Expected 2 sent and 1 failed, got %+v", report)
	}
	if len(report.Failures) != 1 || report.Failures[0].Email != "cid@example.com" {
		t.Errorf("Unexpected failures: %+v", report.Failures)
	}
	if !errors.Is(report.Failures[0].Err, kerrors.ErrSendFailed) {
		t.Errorf("Expected ErrSendFailed, got %v", report.Failures[0].Err)
	}
	if transport.attempts["bob@example.com"] != 3 {
		t.Errorf("Expected 3 attempts for bob, got %d", transport.attempts["bob@example.com"])
	}
	if transport.attempts["cid@example.com"] != 3 {
		t.Errorf("Expected attempts capped at 3 for cid, got %d", transport.attempts["cid@example.com"])
	}
}

func TestSendToRecipientsPersonalizesAndSkipsInvalidAddresses(t *testing.T) {
	transport := newFakeTransport(nil)
	m := New(transport, "alice@example.com", WithRetry(1, 0))

	batch := []store.Recipient{
		{Name: "Ann", Email: "ann@example.com", Active: true},
		{Name: "Nobody", Email: "not-an-address", Active: true},
	}
	report := m.SendToRecipients(context.Background(), batch, "Hi", func(r store.Recipient) string {
		return "<p>Hello " + r.Name + "</p>"
	})

	if report.Sent != 1 || report.Failed != 1 {
		t.Fatalf("Expected 1 sent and 1 failed, got %+v", report)
	}
	if !errors.Is(report.Failures[0].Err, kerrors.ErrInvalidAddress) {
		t.Errorf("Expected ErrInvalidAddress, got %v", report.Failures[0].Err)
	}
	if transport.attempts["not-an-address"] != 0 {
		t.Error("Malformed address reached the transport")
	}
	if len(transport.sent) != 1 || transport.sent[0].HTML != "<p>Hello Ann</p>" {
		t.Errorf("Unexpected messages: %+v", transport.sent)
	}
}

func TestSendSetsHeaders(t *testing.T) {
	transport := newFakeTransport(nil)
	m := New(transport, "alice@example.com", WithRetry(1, 0))

	if err := m.Send(context.Background(), recipients[0], "Welcome!", "<p>Hi Ann</p>"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(transport.sent) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(transport.sent))
	}

	msg := transport.sent[0]
	if msg.From != "alice@example.com" || msg.To != "ann@example.com" {
		t.Errorf("Unexpected envelope: %+v", msg)
	}
	if !strings.HasPrefix(msg.ID, "<") || !strings.HasSuffix(msg.ID, "@example.com>") {
		t.Errorf("Unexpected Message-ID: %q", msg.ID)
	}

	raw := string(msg.Bytes())
	for _, want := range []string{
		"From: alice@example.com\r\n",
		"To: ann@example.com\r\n",
		"Subject: Welcome!\r\n",
		"Content-Type: text/html; charset=UTF-8\r\n",
		"X-Mailer: " + MailerName + "\r\n",
		"X-Priority: 3\r\n",
		"Importance: Normal\r\n",
		"Message-ID: " + msg.ID + "\r\n",
		"\r\n\r\n<p>Hi Ann</p>\r\n",
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("Message missing %q:\n%s", want, raw)
		}
	}
}

func TestMessageIDsAreUnique(t *testing.T) {
	a, b := newMessageID("x@example.com"), newMessageID("x@example.com")
	if a == b {
		t.Errorf("Expected distinct Message-IDs, got %q twice", a)
	}
	if !strings.HasSuffix(newMessageID("no-domain"), "@tatua.local>") {
		t.Error("Expected fallback domain for address without @")
	}
}

func TestSendStopsOnCanceledContext(t *testing.T) {
	transport := newFakeTransport(map[string]int{"ann@example.com": 10})
	m := New(transport, "alice@example.com", WithRetry(3, time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := m.Send(ctx, recipients[0], "s", "b")
	if !errors.Is(err, kerrors.ErrSendFailed) {
		t.Fatalf("Expected ErrSendFailed, got %v", err)
	}
	if time.Since(start) > 10*time.Second {
		t.Error("Retry did not stop when the context was canceled")
	}
}

func TestLinearBackOff(t *testing.T) {
	b := &linearBackOff{step: 2 * time.Second}
	if b.NextBackOff() != 2*time.Second || b.NextBackOff() != 4*time.Second {
		t.Error("Expected waits of 2s then 4s")
	}
	b.Reset()
	if b.NextBackOff() != 2*time.Second {
		t.Error("Expected Reset to restart the sequence")
	}
}

func TestDeliveryLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	transport := newFakeTransport(map[string]int{"ann@example.com": 1})
	m := New(transport, "alice@example.com", WithRetry(2, 0), WithLogger(zap.New(core)))

	m.SendToRecipients(context.Background(), recipients[:1], "s", Static("b"))

	if logs.FilterMessage("retrying delivery").Len() != 1 {
		t.Errorf("Expected one retry log, got %d", logs.FilterMessage("retrying delivery").Len())
	}
	if logs.FilterMessage("email sent").Len() != 1 {
		t.Error("Expected a sent log entry")
	}
	for _, entry := range logs.All() {
		for _, field := range entry.Context {
			if strings.Contains(field.String, "s3cret") {
				t.Errorf("Log leaks a secret: %+v", entry)
			}
		}
	}
}

func TestReportAdd(t *testing.T) {
	r := Report{Sent: 1}
	r.Add(Report{Sent: 2, Failed: 1, Failures: []Failure{{Email: "x"}}})
	if r.Sent != 3 || r.Failed != 1 || len(r.Failures) != 1 {
		t.Errorf("Unexpected report: %+v", r)
	}
}
