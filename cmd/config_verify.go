package cmd

import (
	"strings"

	"github.com/CamreshJames/fe-email-client/internal/ui"
	"github.com/CamreshJames/fe-email-client/internal/workflows"

	"github.com/spf13/cobra"
)

func init() {
	ConfigCmd.AddCommand(configVerifyCmd)
}

var configVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that the master password decrypts the credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config verify command")

		settings, err := resolveSettings()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to resolve settings: %v", err)
		}

		spinner, cleanup := startSpinner("Verifying master password...")
		defer cleanup()

		result, err := workflows.Verify(cmd.Context(), workflows.VerifyOptions{
			StoreOptions: storeOptions(settings, spinner),
		})
		if err != nil {
			return fail(spinner, err, settings)
		}

		msg := ui.Success.Sprint("✓") + " Master password is correct"
		if len(result.Unprotected) > 0 {
			msg += "\n" + ui.Warning.Sprint("⚠") + " Still in cleartext: " + ui.Warning.Sprint(strings.Join(result.Unprotected, ", "))
		}
		spinner.FinalMSG = msg
		return nil
	},
}
