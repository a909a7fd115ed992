// Package cmd contains testing utilities shared between command tests.
// This file provides common functions for setting up test environments
// and capturing output.
package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	logger "github.com/CamreshJames/fe-email-client/internal/logging"
	"github.com/CamreshJames/fe-email-client/internal/mailer"
	"github.com/CamreshJames/fe-email-client/internal/masterkey"

	"github.com/spf13/cobra"
)

// setupTestEnvironment writes files into a temp dir and points the command
// globals at them. Returns the directory.
func setupTestEnvironment(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	t.Setenv("NO_COLOR", "1")
	t.Setenv("TATUA_CONFIG", "")
	t.Setenv("TATUA_TEMPLATES", "")
	t.Setenv(masterkey.EnvVar, "")
	os.Unsetenv(masterkey.EnvVar)

	ResetGlobalState()
	t.Cleanup(ResetGlobalState)
	return dir
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	outputChan := make(chan string, 2)
	collect := func(r io.Reader) {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, r); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}
	go collect(stdoutReader)
	go collect(stderrReader)

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	first := <-outputChan
	second := <-outputChan
	return first + second, err
}

// createTestCLI creates a complete CLI instance for testing with the given
// arguments, master password source and transport.
func createTestCLI(args []string, provider masterkey.Provider, transport mailer.Transport) *cobra.Command {
	Logger = logger.Logger{}
	SetProvider(provider)
	SetTransport(transport)

	rootCmd := &cobra.Command{
		Use:           "tatua",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(SendCmd)
	rootCmd.AddCommand(ConfigCmd)
	rootCmd.AddCommand(VersionCmd)
	rootCmd.SetArgs(args)

	return rootCmd
}

// runCLI executes args and returns the captured output.
func runCLI(t *testing.T, args []string, provider masterkey.Provider, transport mailer.Transport) (string, error) {
	t.Helper()
	return captureOutput(func() error {
		return createTestCLI(args, provider, transport).Execute()
	})
}
