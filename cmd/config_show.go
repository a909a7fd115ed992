package cmd

import (
	"fmt"

	"github.com/CamreshJames/fe-email-client/internal/ui"
	"github.com/CamreshJames/fe-email-client/internal/workflows"

	"github.com/spf13/cobra"
)

func init() {
	ConfigCmd.AddCommand(configShowCmd)
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the decrypted configuration",
	Long: `Displays the SMTP settings with the username decrypted and the password
masked, followed by the active recipients and templates.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")

		settings, err := resolveSettings()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to resolve settings: %v", err)
		}

		spinner, cleanup := startSpinner("Decrypting configuration...")
		defer cleanup()

		result, err := workflows.Show(cmd.Context(), workflows.ShowOptions{
			StoreOptions: storeOptions(settings, spinner),
		})
		if err != nil {
			return fail(spinner, err, settings)
		}

		paused(spinner, func() { printShowResult(result) })
		return nil
	},
}

func printShowResult(result *workflows.ShowResult) {
	fmt.Println(ui.Info.Sprint("SMTP") + " " + ui.Muted.Sprint(string(result.Mode)))
	fmt.Printf("  %-10s %s\n", "Host:", ui.Address.Sprintf("%s:%s", result.Host, result.Port))
	fmt.Printf("  %-10s %s\n", "Username:", result.Identity)
	fmt.Printf("  %-10s %s\n", "Password:", result.Secret)
	fmt.Printf("  %-10s ssl=%t tls=%t\n", "Security:", result.UseSSL, result.UseTLS)

	fmt.Println()
	fmt.Printf("%s (%d active)\n", ui.Info.Sprint("Recipients"), len(result.Recipients))
	for _, r := range result.Recipients {
		fmt.Printf("  %-20s %s %s\n", r.Name, ui.Address.Sprint(r.Email), ui.Muted.Sprint(r.Category))
	}

	fmt.Println()
	fmt.Printf("%s (%d active)\n", ui.Info.Sprint("Templates"), len(result.Templates))
	for _, t := range result.Templates {
		fmt.Printf("  %-20s %s %s\n", ui.Highlight.Sprint(t.Name), ui.Path.Sprint(t.Path), ui.Muted.Sprint(t.Subject))
	}
}
