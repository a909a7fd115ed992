package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	addCommonFlags(ConfigCmd)
}

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and protect the email configuration",
	Long: `Provides commands for the email configuration document.

Use these commands to:
  - See whether credentials are protected (config status)
  - Encrypt a cleartext configuration without sending (config encrypt)
  - Show the decrypted SMTP settings with the secret masked (config show)
  - Check a master password (config verify)

Examples:
  tatua config status
  tatua config encrypt --config email-config.xml
  tatua config verify`,
	PersistentPreRun: initLogger,
}
