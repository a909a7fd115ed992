package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/CamreshJames/fe-email-client/internal/configs"
	kerrors "github.com/CamreshJames/fe-email-client/internal/errors"
	"github.com/CamreshJames/fe-email-client/internal/masterkey"
	"github.com/CamreshJames/fe-email-client/internal/ui"
	"github.com/CamreshJames/fe-email-client/internal/workflows"

	"github.com/briandowns/spinner"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stdout))
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		s.Start()
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if !verbose && !debug {
			log.SetOutput(os.Stderr)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if !verbose && !debug {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// paused runs fn with the spinner stopped, so prompts and notices are not overdrawn.
func paused(s *spinner.Spinner, fn func()) {
	running := s.Active()
	if running {
		s.Stop()
	}
	fn()
	if running {
		s.Start()
	}
}

// resolveSettings resolves file locations from the common flags.
func resolveSettings() (*configs.Settings, error) {
	settings, err := configs.ResolveSettings(configFlag, templatesFlag)
	if err != nil {
		return nil, err
	}
	Logger.Debugf("Config: %s, hint: %s, audit: %s, templates: %s",
		settings.ConfigPath, settings.HintPath, settings.AuditPath, settings.TemplatesDir)
	return settings, nil
}

// storeOptions builds the store options for a workflow, pausing s around prompts.
func storeOptions(settings *configs.Settings, s *spinner.Spinner) workflows.StoreOptions {
	provider := providerOverride
	if provider == nil {
		provider = masterkey.Default()
	}

	return workflows.StoreOptions{
		Settings: settings,
		Provider: masterkey.ProviderFunc(func(ctx context.Context, purpose masterkey.Purpose) ([]byte, error) {
			var (
				password []byte
				err      error
			)
			paused(s, func() {
				Logger.Debugf("Requesting master password (purpose: %s)", purpose)
				password, err = provider.MasterPassword(ctx, purpose)
			})
			return password, err
		}),
		OnGeneratedPassword: func(password string) {
			paused(s, func() {
				printGeneratedPassword(password)
			})
		},
	}
}

// printGeneratedPassword shows a generated master password. It is the only
// time the password is ever displayed.
func printGeneratedPassword(password string) {
	fmt.Println(ui.Warning.Sprint("⚠") + " A master password was generated for this configuration:")
	fmt.Println()
	fmt.Println("    " + ui.Highlight.Sprint(password))
	fmt.Println()
	fmt.Println(ui.Info.Sprint("→") + " Store it safely. It is not saved anywhere and cannot be recovered.")
	fmt.Println(ui.Info.Sprint("→") + " Provide it later via " + ui.Flag.Sprint(masterkey.EnvVar) + " or the prompt.")
}

// describeError turns a workflow error into a user-facing message.
func describeError(err error, settings *configs.Settings) string {
	path := ""
	if settings != nil {
		path = settings.ConfigPath
	}

	switch {
	case errors.Is(err, kerrors.ErrConfigNotFound):
		return "Configuration not found at " + ui.Path.Sprint(path) + "\n" +
			ui.Info.Sprint("→") + " Use " + ui.Flag.Sprint("--config") + " or " + ui.Flag.Sprint(configs.ConfigPathEnv) + " to point at it"
	case errors.Is(err, kerrors.ErrAuthenticationFailed):
		return "Wrong master password, or a protected value was tampered with"
	case errors.Is(err, kerrors.ErrNoPassword):
		return "No master password supplied\n" +
			ui.Info.Sprint("→") + " Set " + ui.Flag.Sprint(masterkey.EnvVar) + " or run in a terminal"
	case errors.Is(err, kerrors.ErrInvalidDocument),
		errors.Is(err, kerrors.ErrUnknownMode),
		errors.Is(err, kerrors.ErrUnsupportedFormat),
		errors.Is(err, kerrors.ErrMalformedEnvelope):
		return "Configuration is invalid: " + err.Error()
	case errors.Is(err, kerrors.ErrPersistFailed):
		return "Could not write the configuration: " + err.Error()
	case errors.Is(err, kerrors.ErrNoRecipients):
		return "No active recipients in " + ui.Path.Sprint(path)
	default:
		return err.Error()
	}
}

// fail reports err in the spinner's final message and returns it for the exit code.
func fail(s *spinner.Spinner, err error, settings *configs.Settings) error {
	Logger.Errorf("%v", err)
	s.FinalMSG = ui.Error.Sprint("✗") + " " + describeError(err, settings)
	return err
}
