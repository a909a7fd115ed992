package main

import (
	"os"

	"github.com/CamreshJames/fe-email-client/cmd"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tatua",
	Short: "Tatua - send email campaigns from a self-encrypting configuration.",
	Long: `Tatua sends HTML email campaigns described in a single configuration file.

The SMTP username and password in that file are encrypted with a master
password the first time tatua reads it, and decrypted in memory on every
later run.

Usage:
  tatua <command> [flags]

Available Commands:
  send       Send every active template to every active recipient
  config     Inspect and protect the configuration
  version    Print the version

Run 'tatua help <command>' for more details on a specific command.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(cmd.SendCmd)
	rootCmd.AddCommand(cmd.ConfigCmd)
	rootCmd.AddCommand(cmd.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
