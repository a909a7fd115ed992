// Package configs loads, migrates and persists the email configuration document.
//
// The document is bound to a typed schema (Document) at load time. Three
// on-disk syntaxes are supported, chosen by file extension:
//
//   - .xml: the canonical layout, a root element with a type attribute
//   - .toml: [smtpSettings] table plus [[recipient]] and [[template]] arrays
//   - .yaml/.yml: the same keys as TOML
//
// # Protection Mode
//
// The root "type" is either CLEAR-TEXT or ENCRYPTED. A cleartext document is
// migrated exactly once: Migrate returns a copy in which every non-empty,
// unmarked sensitive field (smtpSettings username and password) has been
// replaced by an ENC: token, and whose type is ENCRYPTED. Fields that already
// carry the marker are copied bit for bit, which makes migration idempotent.
// There is no transition back to CLEAR-TEXT.
//
// # Persistence
//
// Save rewrites the whole document through the same codec. The write is not
// atomic. After a migration the caller also records a hint file
// (.email-master.key) holding only a timestamp; the master password itself
// is never written anywhere.
//
// # Settings
//
// ResolveSettings turns the --config and --templates flags (or TATUA_CONFIG
// and TATUA_TEMPLATES) into absolute paths for the document, hint, audit log
// and template directory.
package configs
