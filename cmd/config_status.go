package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/CamreshJames/fe-email-client/internal/configs"
	"github.com/CamreshJames/fe-email-client/internal/ui"
	"github.com/CamreshJames/fe-email-client/internal/workflows"

	"github.com/spf13/cobra"
)

var statusJSONOutput bool

func init() {
	configStatusCmd.Flags().BoolVar(&statusJSONOutput, "json", false, "output in JSON format")
	ConfigCmd.AddCommand(configStatusCmd)
}

func resetStatusCommandState() {
	statusJSONOutput = false
}

// statusJSON is the --json shape of config status.
type statusJSON struct {
	Config           string   `json:"config"`
	Mode             string   `json:"mode"`
	KeyConfiguredOn  string   `json:"key_configured_on,omitempty"`
	Protected        []string `json:"protected"`
	Unprotected      []string `json:"unprotected"`
	ActiveRecipients int      `json:"active_recipients"`
	TotalRecipients  int      `json:"total_recipients"`
	InvalidAddresses []string `json:"invalid_addresses,omitempty"`
	ActiveTemplates  int      `json:"active_templates"`
	TotalTemplates   int      `json:"total_templates"`
}

var configStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the credentials are protected",
	Long: `Shows the protection mode of the configuration and which credential
fields are encrypted. Never asks for the master password.

Use --json for machine-readable output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config status command")

		settings, err := resolveSettings()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to resolve settings: %v", err)
		}

		result, err := workflows.Status(cmd.Context(), workflows.StatusOptions{Settings: settings})
		if err != nil {
			if statusJSONOutput {
				return err
			}
			fmt.Println(ui.Error.Sprint("✗") + " " + describeError(err, settings))
			return err
		}

		if statusJSONOutput {
			out, err := json.MarshalIndent(statusJSON{
				Config:           result.ConfigPath,
				Mode:             string(result.Mode),
				KeyConfiguredOn:  result.HintTimestamp,
				Protected:        nonNil(result.Protected),
				Unprotected:      nonNil(result.Unprotected),
				ActiveRecipients: result.ActiveRecipients,
				TotalRecipients:  result.TotalRecipients,
				InvalidAddresses: result.InvalidAddresses,
				ActiveTemplates:  result.ActiveTemplates,
				TotalTemplates:   result.TotalTemplates,
			}, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to marshal status to JSON: %v", err)
			}
			fmt.Println(string(out))
			return nil
		}

		printStatus(result)
		return nil
	},
}

func printStatus(result *workflows.StatusResult) {
	fmt.Println("Configuration: " + ui.Path.Sprint(result.ConfigPath))
	fmt.Println()

	mode := ui.Success.Sprint(string(result.Mode))
	if result.Mode != configs.ModeEncrypted {
		mode = ui.Warning.Sprint(string(result.Mode))
	}
	fmt.Printf("  %-14s %s\n", "Mode:", mode)
	if result.HintTimestamp != "" {
		fmt.Printf("  %-14s %s\n", "Key set:", result.HintTimestamp)
	}
	if len(result.Protected) > 0 {
		fmt.Printf("  %-14s %s\n", "Protected:", strings.Join(result.Protected, ", "))
	}
	if len(result.Unprotected) > 0 {
		fmt.Printf("  %-14s %s\n", "Cleartext:", ui.Warning.Sprint(strings.Join(result.Unprotected, ", ")))
	}
	fmt.Printf("  %-14s %d of %d active\n", "Recipients:", result.ActiveRecipients, result.TotalRecipients)
	fmt.Printf("  %-14s %d of %d active\n", "Templates:", result.ActiveTemplates, result.TotalTemplates)
	for _, addr := range result.InvalidAddresses {
		fmt.Printf("  %-14s %s %s\n", "", ui.Address.Sprint(addr), ui.Warning.Sprint("invalid address, will be skipped"))
	}

	switch {
	case result.NeedsMigration:
		fmt.Println()
		fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Command.Sprint("tatua config encrypt") + " to protect the credentials")
	case len(result.Unprotected) > 0:
		fmt.Println()
		fmt.Println(ui.Warning.Sprint("⚠") + " Cleartext credentials in an ENCRYPTED document are used as-is. Re-enter them as CLEAR-TEXT to protect them.")
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
