// Package workflows provides high-level orchestration for tatua commands.
//
// Workflows coordinate the store, templates, mailer and audit packages to
// implement complete user-facing features. The cmd package stays a thin
// layer that parses flags, calls a workflow and formats the result.
//
// # Available Workflows
//
//   - Send: delivers every active template to every active recipient
//   - Status: reports the protection state without the master password
//   - Encrypt: migrates a cleartext document and nothing else
//   - Show: reveals the SMTP settings with the secret masked
//   - Verify: proves the master password opens the protected fields
//
// Every workflow that opens the store migrates a CLEAR-TEXT document first,
// so the first command run against a new document protects it.
//
// # Error Handling
//
// Workflows return sentinel errors from internal/errors, so the CLI can map
// them with errors.Is:
//
//	result, err := workflows.Verify(ctx, opts)
//	if errors.Is(err, kerrors.ErrAuthenticationFailed) {
//	    // wrong master password
//	}
package workflows
