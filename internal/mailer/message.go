package mailer

import (
	"bytes"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MailerName is sent in the X-Mailer header.
const MailerName = "Tatua Email Client v1.0"

// Message is one outgoing HTML email to a single recipient.
type Message struct {
	ID      string
	From    string
	To      string
	Subject string
	HTML    string
	Date    time.Time
}

// newMessageID returns an RFC 5322 Message-ID for the sender's domain.
func newMessageID(from string) string {
	domain := "tatua.local"
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}

// Bytes renders the message with CRLF line endings.
func (m Message) Bytes() []byte {
	var buf bytes.Buffer
	header := func(k, v string) {
		buf.WriteString(k)
		buf.WriteString(": ")
		buf.WriteString(v)
		buf.WriteString("\r\n")
	}

	date := m.Date
	if date.IsZero() {
		date = time.Now()
	}

	header("From", m.From)
	header("To", m.To)
	header("Subject", mime.QEncoding.Encode("utf-8", m.Subject))
	header("Date", date.Format(time.RFC1123Z))
	if m.ID != "" {
		header("Message-ID", m.ID)
	}
	header("MIME-Version", "1.0")
	header("Content-Type", "text/html; charset=UTF-8")
	header("Content-Transfer-Encoding", "8bit")
	header("X-Mailer", MailerName)
	header("X-Priority", "3")
	header("X-MSMail-Priority", "Normal")
	header("Importance", "Normal")
	buf.WriteString("\r\n")

	body := strings.ReplaceAll(m.HTML, "\r\n", "\n")
	buf.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\r\n")
	}
	return buf.Bytes()
}
