// Package errors provides typed error values for tatua.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Crypto errors: ErrAuthenticationFailed, ErrMalformedEnvelope, ErrCipherUnavailable
//   - Document errors: ErrConfigNotFound, ErrInvalidDocument, ErrUnknownMode, ErrPersistFailed
//   - Master password errors: ErrNoPassword, ErrNotTerminal, ErrStoreClosed
//   - Delivery errors: ErrTemplateNotFound, ErrSendFailed, ErrNoRecipients, ErrInvalidAddress
//
// None of these errors is recoverable locally. They surface to the command
// layer, which stops processing for the run.
//
// # Usage
//
// Wrap errors with additional context, never with secret material:
//
//	return fmt.Errorf("decrypting smtp %s: %w", field, kerrors.ErrAuthenticationFailed)
//
// Handle errors in the CLI layer:
//
//	if errors.Is(err, kerrors.ErrAuthenticationFailed) {
//	    // wrong master password
//	}
package errors
