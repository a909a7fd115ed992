package cmd

import (
	logger "github.com/CamreshJames/fe-email-client/internal/logging"
	"github.com/CamreshJames/fe-email-client/internal/mailer"
	"github.com/CamreshJames/fe-email-client/internal/masterkey"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose       bool
	debug         bool
	quiet         bool
	configFlag    string
	templatesFlag string
	Logger        logger.Logger

	// providerOverride and transportOverride replace the terminal and SMTP
	// in tests.
	providerOverride  masterkey.Provider
	transportOverride mailer.Transport
)

// addCommonFlags registers the flags shared by every command group.
func addCommonFlags(c *cobra.Command) {
	c.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	c.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	c.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress banners")
	c.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "path to the email configuration (default $TATUA_CONFIG or ./email-config.xml)")
	c.PersistentFlags().StringVar(&templatesFlag, "templates", "", "directory template paths are relative to (default $TATUA_TEMPLATES or the config directory)")
}

// initLogger is the PersistentPreRun of every command group.
func initLogger(cmd *cobra.Command, args []string) {
	Logger = logger.Logger{
		Verbose: verbose,
		Debug:   debug,
	}
	Logger.Debugf("Initializing %s command with verbose=%t, debug=%t", cmd.Name(), verbose, debug)
}

// Helper functions for testing

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	quiet = false
	configFlag = ""
	templatesFlag = ""
	providerOverride = nil
	transportOverride = nil
	resetStatusCommandState()
	resetCobraFlagState(SendCmd)
	resetCobraFlagState(ConfigCmd)
}

// resetCobraFlagState clears the Changed mark on every flag below c to prevent test pollution.
func resetCobraFlagState(c *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		flag.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetCobraFlagState(sub)
	}
}

// SetProvider replaces the master password source for testing.
func SetProvider(p masterkey.Provider) {
	providerOverride = p
}

// SetTransport replaces SMTP delivery for testing.
func SetTransport(t mailer.Transport) {
	transportOverride = t
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
