package errors

import "errors"

// Cryptographic errors indicate failures while sealing or opening a protected value.
var (
	// ErrAuthenticationFailed indicates the GCM tag did not verify: wrong master
	// password, or the stored envelope was corrupted or tampered with.
	ErrAuthenticationFailed = errors.New("authentication failed: wrong master password or tampered value")

	// ErrMalformedEnvelope indicates a protected value could not be parsed.
	ErrMalformedEnvelope = errors.New("malformed encrypted value")

	// ErrCipherUnavailable indicates the key-derivation or cipher primitives failed their startup probe.
	ErrCipherUnavailable = errors.New("required cipher primitives are unavailable")
)

// Document errors indicate issues with the configuration document itself.
var (
	// ErrConfigNotFound indicates the configuration document does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidDocument indicates the configuration document could not be parsed.
	ErrInvalidDocument = errors.New("configuration file is invalid")

	// ErrUnknownMode indicates the document's type attribute is neither CLEAR-TEXT nor ENCRYPTED.
	ErrUnknownMode = errors.New("unknown configuration type")

	// ErrUnsupportedFormat indicates the document extension has no registered codec.
	ErrUnsupportedFormat = errors.New("unsupported configuration format")

	// ErrPersistFailed indicates the rewritten document could not be written back.
	ErrPersistFailed = errors.New("failed to persist configuration")
)

// Master password errors.
var (
	// ErrNoPassword indicates no master password was supplied where one is required.
	ErrNoPassword = errors.New("no master password supplied")

	// ErrNotTerminal indicates an interactive prompt was requested without a terminal.
	ErrNotTerminal = errors.New("stdin is not a terminal")

	// ErrStoreClosed indicates a credential was requested after the store wiped its master password.
	ErrStoreClosed = errors.New("configuration store is closed")
)

// Delivery errors.
var (
	// ErrTemplateNotFound indicates a template body could not be located.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrSendFailed indicates a message could not be delivered after all retries.
	ErrSendFailed = errors.New("failed to send email")

	// ErrNoRecipients indicates there are no active recipients to deliver to.
	ErrNoRecipients = errors.New("no active recipients")

	// ErrInvalidAddress indicates a recipient address is not a valid email.
	ErrInvalidAddress = errors.New("invalid email address")
)
