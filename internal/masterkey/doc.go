// Package masterkey supplies the master password to the configuration store.
//
// The store never prompts on its own; it asks a Provider and states the
// Purpose. During migration (PurposeEncrypt) an empty answer is allowed and
// means a password should be generated. When opening an already protected
// document (PurposeDecrypt) an empty answer yields ErrNoPassword.
//
// Default returns the chain used by the CLI: the TATUA_MASTER_PASSWORD
// environment variable, then a no-echo terminal prompt, then the first line
// of a piped stdin.
package masterkey
