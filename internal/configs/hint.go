package configs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// HintFileName is the sidecar written next to the document after migration.
// It only records when a master key was configured and holds nothing that
// helps recover the password.
const HintFileName = ".email-master.key"

const hintPrefix = "Master key configured on: "

// HintPath returns the sidecar location for the document at configPath.
func HintPath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), HintFileName)
}

// WriteHint records the migration timestamp at path.
func WriteHint(path string, now time.Time) error {
	content := hintPrefix + now.Format(time.RFC3339)
	return os.WriteFile(path, []byte(content), 0600)
}

// ReadHint returns the recorded timestamp text, or "" if no hint exists.
func ReadHint(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.TrimPrefix(string(data), hintPrefix)), nil
}
