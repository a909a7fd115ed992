package cmd

import (
	"strings"

	"github.com/CamreshJames/fe-email-client/internal/ui"
	"github.com/CamreshJames/fe-email-client/internal/workflows"

	"github.com/spf13/cobra"
)

func init() {
	ConfigCmd.AddCommand(configEncryptCmd)
}

var configEncryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt the credentials of a CLEAR-TEXT configuration",
	Long: `Encrypts the SMTP username and password of a CLEAR-TEXT configuration and
marks it ENCRYPTED, without sending anything. Leave the new master password
empty to have one generated. An ENCRYPTED configuration is left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config encrypt command")

		settings, err := resolveSettings()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to resolve settings: %v", err)
		}

		spinner, cleanup := startSpinner("Encrypting configuration...")
		defer cleanup()

		result, err := workflows.Encrypt(cmd.Context(), workflows.EncryptOptions{
			StoreOptions: storeOptions(settings, spinner),
		})
		if err != nil {
			return fail(spinner, err, settings)
		}

		if !result.Migrated {
			Logger.Infof("Configuration already %s", result.Mode)
			spinner.FinalMSG = ui.Success.Sprint("✓") + " Configuration is already " + ui.Highlight.Sprint(string(result.Mode))
			return nil
		}

		msg := ui.Success.Sprint("✓") + " Encrypted " + ui.Path.Sprint(settings.ConfigPath)
		if len(result.Encrypted) > 0 {
			msg += " " + ui.Muted.Sprint(strings.Join(result.Encrypted, ", "))
		}
		spinner.FinalMSG = msg
		return nil
	},
}
