package templates

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/CamreshJames/fe-email-client/internal/errors"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Template names with placeholder handling.
const (
	Welcome         = "welcome"
	TrialExpiration = "trial-expiration"
	ProductUpdate   = "product-update"
)

// DefaultFirstName is used when a recipient has no name.
const DefaultFirstName = "Valued Customer"

// TrialMetrics fills the trial-expiration placeholders.
type TrialMetrics struct {
	Tickets      string // [Number]
	ResponseTime string // [Time]
	Satisfaction string // [Rating]
	TimeSaved    string // [Hours]
}

// SampleTrialMetrics are sent until real usage data is wired in.
var SampleTrialMetrics = TrialMetrics{
	Tickets:      "150",
	ResponseTime: "3.2 hours",
	Satisfaction: "4.5",
	TimeSaved:    "12.0",
}

var (
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	htmlSanitizer = bluemonday.UGCPolicy()
)

// Load reads the body at path, resolved against root when relative.
// Markdown bodies (.md) are rendered to sanitized HTML.
func Load(root, path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", kerrors.ErrTemplateNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".md") {
		return RenderMarkdown(string(data)), nil
	}
	return string(data), nil
}

// RenderMarkdown converts markdown to sanitized HTML.
func RenderMarkdown(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return htmlSanitizer.Sanitize(src)
	}
	return htmlSanitizer.Sanitize(buf.String())
}

// Personalize fills the placeholders of the named template for one
// recipient. Names are matched case-insensitively; unknown templates are
// returned unchanged.
func Personalize(name, body, fullName string, metrics TrialMetrics) string {
	firstName := FirstName(fullName)

	switch strings.ToLower(name) {
	case Welcome:
		return strings.ReplaceAll(body, "[First Name]", firstName)
	case TrialExpiration:
		return strings.NewReplacer(
			"[First Name]", firstName,
			"[Number]", metrics.Tickets,
			"[Time]", metrics.ResponseTime,
			"[Rating]", metrics.Satisfaction,
			"[Hours]", metrics.TimeSaved,
		).Replace(body)
	default:
		return body
	}
}

// FirstName returns the first whitespace-separated token of fullName.
func FirstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return DefaultFirstName
	}
	return fields[0]
}
