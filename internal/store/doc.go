// Package store serves credentials from the configuration document.
//
// Open loads the document once. A CLEAR-TEXT document is migrated to
// ENCRYPTED before any value is served: the store asks its masterkey.Provider
// for a new password (or generates one), seals the sensitive fields, rewrites
// the document and records the hint file. An ENCRYPTED document is never
// rewritten.
//
// The master password stays in memory for the life of the Store and is wiped
// by Close. Wrong passwords surface as ErrAuthenticationFailed from
// SMTPConfig, since the document carries no password check value.
package store
