// Package ui provides semantic text formatting and banners for CLI output.
//
// Formatters render content by kind, colorized when the terminal supports it
// and decorated with plain-text markers otherwise:
//
//	ui.Command.Sprint("tatua send")          // Commands
//	ui.Path.Sprint("email-config.xml")       // File paths
//	ui.Address.Sprint("ann@example.com")     // Email addresses and hosts
//	ui.Success.Sprint("✓")                    // Success indicators
//	ui.Error.Sprint("✗")                      // Error indicators
//	ui.Highlight.Sprint("welcome")           // Template names, modes
//	ui.Muted.Sprint("inactive")              // De-emphasized text
//
// Colors are disabled when NO_COLOR is set or the terminal doesn't support
// them. Without colors, Command gets `backticks`, Address gets <angle
// brackets>, Highlight gets 'single quotes' and Muted gets (parentheses).
//
// Mask hides secrets for display. The banner helpers draw the go-figure logo
// and the framed progress boxes shown by `tatua send`.
package ui
