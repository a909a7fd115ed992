package cmd

import (
	"fmt"

	"github.com/CamreshJames/fe-email-client/internal/configs"
	"github.com/CamreshJames/fe-email-client/internal/ui"
	"github.com/CamreshJames/fe-email-client/internal/workflows"

	"github.com/spf13/cobra"
)

func init() {
	addCommonFlags(SendCmd)
}

// SendCmd delivers the active templates to the active recipients.
var SendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send every active template to every active recipient",
	Long: `Sends each active template in the configuration to each active recipient.

Template bodies are personalised per recipient ([First Name], and trial
metrics for the trial-expiration template). Each message is tried up to three
times before it is counted as failed; a failed recipient never stops the run.

If the configuration is still CLEAR-TEXT it is encrypted first. You will be
asked for a new master password; leave it empty to have one generated.

Examples:
  # Send using ./email-config.xml
  tatua send

  # Use another configuration and template directory
  tatua send --config campaigns/june.toml --templates campaigns/bodies

  # Non-interactive
  TATUA_MASTER_PASSWORD=... tatua send --quiet`,
	PersistentPreRun: initLogger,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting send command")

		settings, err := resolveSettings()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to resolve settings: %v", err)
		}

		if !quiet {
			ui.PrintBanner(cmd.OutOrStdout(), nil)
		}

		spinner, cleanup := startSpinner("Sending emails...")
		defer cleanup()

		result, err := workflows.Send(cmd.Context(), workflows.SendOptions{
			StoreOptions: storeOptions(settings, spinner),
			Transport:    transportOverride,
			Logger:       Logger.Zap(),
			OnTemplate: func(name string) {
				Logger.Infof("Sending template %s", name)
				if !quiet {
					paused(spinner, func() { ui.PrintSending(cmd.OutOrStdout(), name+" Email") })
				}
				spinner.Lock()
				spinner.Suffix = " Sending " + name + "..."
				spinner.Unlock()
			},
		})
		if result != nil {
			paused(spinner, func() { printSendResult(settings, result) })
		}
		if err != nil {
			if !quiet {
				paused(spinner, func() { ui.PrintFailure(cmd.OutOrStdout()) })
			}
			return fail(spinner, err, settings)
		}

		if result.Total.Failed > 0 {
			if !quiet {
				paused(spinner, func() { ui.PrintFailure(cmd.OutOrStdout()) })
			}
			spinner.FinalMSG = ui.Warning.Sprint("⚠") + fmt.Sprintf(" Sent %d emails, %d failed", result.Total.Sent, result.Total.Failed)
			return fmt.Errorf("%d emails failed", result.Total.Failed)
		}

		if !quiet {
			paused(spinner, func() { ui.PrintSuccess(cmd.OutOrStdout()) })
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + fmt.Sprintf(" Sent %d emails to %d recipients", result.Total.Sent, result.Recipients)
		return nil
	},
}

func printSendResult(settings *configs.Settings, result *workflows.SendResult) {
	if result.Migrated {
		fmt.Println(ui.Success.Sprint("✓") + " Encrypted credentials in " + ui.Path.Sprint(settings.ConfigPath))
	}
	for _, t := range result.Templates {
		mark := ui.Success.Sprint("✓")
		if t.Report.Failed > 0 {
			mark = ui.Error.Sprint("✗")
		}
		fmt.Printf("%s %s: %d sent, %d failed\n", mark, ui.Highlight.Sprint(t.Name), t.Report.Sent, t.Report.Failed)
		for _, f := range t.Report.Failures {
			fmt.Printf("    %s %s\n", ui.Address.Sprint(f.Email), ui.Muted.Sprint(f.Err.Error()))
		}
	}
}
