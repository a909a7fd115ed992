package configs

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultConfigFile is looked up in the working directory when no path is given.
	DefaultConfigFile = "email-config.xml"

	// AuditFileName is the JSON-lines audit log kept next to the document.
	AuditFileName = ".tatua-audit.jsonl"

	// ConfigPathEnv overrides the document location.
	ConfigPathEnv = "TATUA_CONFIG"

	// TemplatesDirEnv overrides the directory template paths are resolved against.
	TemplatesDirEnv = "TATUA_TEMPLATES"
)

// Settings holds the resolved file locations for one run.
type Settings struct {
	ConfigPath   string
	HintPath     string
	AuditPath    string
	TemplatesDir string
}

// ResolveSettings resolves locations from flags, then environment, then defaults.
// Empty flag values mean "not set".
func ResolveSettings(configFlag, templatesFlag string) (*Settings, error) {
	configPath := firstNonEmpty(configFlag, os.Getenv(ConfigPathEnv), DefaultConfigFile)
	configPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	configDir := filepath.Dir(configPath)
	templatesDir := firstNonEmpty(templatesFlag, os.Getenv(TemplatesDirEnv), configDir)
	templatesDir, err = filepath.Abs(templatesDir)
	if err != nil {
		return nil, fmt.Errorf("resolving templates directory: %w", err)
	}

	return &Settings{
		ConfigPath:   configPath,
		HintPath:     HintPath(configPath),
		AuditPath:    filepath.Join(configDir, AuditFileName),
		TemplatesDir: templatesDir,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
