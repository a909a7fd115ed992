package audit

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
)

// Operation names recorded in the log.
const (
	OpMigrate = "migrate"
	OpSend    = "send"
	OpVerify  = "verify"
)

const timestampLayout = "2006-01-02T15:04:05.000000Z"

// Entry represents a single audit log entry. It never holds credentials.
type Entry struct {
	Timestamp string `json:"ts"`     // RFC3339 with microseconds.
	RunID     string `json:"run_id"` // Shared by every entry of one process run.
	Operation string `json:"op"`

	// Optional fields depending on operation.
	Config     string   `json:"config,omitempty"`     // Document path.
	Fields     []string `json:"fields,omitempty"`     // For migrate: fields sealed.
	Generated  bool     `json:"generated,omitempty"`  // For migrate: password was generated.
	Template   string   `json:"template,omitempty"`   // For send.
	Recipients int      `json:"recipients,omitempty"` // For send.
	Sent       int      `json:"sent,omitempty"`       // For send.
	Failed     int      `json:"failed,omitempty"`     // For send.
}

// Log appends entries to one JSON-lines file.
type Log struct {
	path  string
	runID string
	now   func() time.Time
}

// New returns a Log writing to path with a fresh run ID. An empty path
// disables logging.
func New(path string) *Log {
	return &Log{path: path, runID: uuid.NewString(), now: time.Now}
}

// Path returns the log file location.
func (l *Log) Path() string {
	return l.path
}

// RunID returns the identifier stamped on this run's entries.
func (l *Log) RunID() string {
	return l.runID
}

// Record appends entry. Failures are swallowed: operations should not fail
// just because audit logging failed.
func (l *Log) Record(entry Entry) {
	if l == nil || l.path == "" {
		return
	}
	if entry.Timestamp == "" {
		entry.Timestamp = l.now().UTC().Format(timestampLayout)
	}
	entry.RunID = l.runID

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads all entries from the log at path.
// Returns an empty slice if the log doesn't exist.
func ReadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	var entries []Entry
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
