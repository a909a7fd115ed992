// Package secrets provides the authenticated encryption used to protect
// individual configuration values.
//
// # Scheme
//
// Each value is sealed independently:
//
//  1. A fresh 32-byte salt and 12-byte IV are drawn from crypto/rand
//  2. PBKDF2-HMAC-SHA256 (100000 rounds) stretches the master password into a 256-bit key
//  3. AES-256-GCM seals the UTF-8 plaintext with a 128-bit tag
//
// The result is stored as a single token:
//
//	ENC:base64(salt[32] || iv[12] || ciphertext||tag)
//
// Because salt and IV are random per call, encrypting the same value twice
// yields different tokens. Decryption re-derives the key from the embedded
// salt; any tag mismatch (wrong password, corrupted or tampered token) is
// reported as errors.ErrAuthenticationFailed and no plaintext is returned.
//
// # Iteration Count
//
// The round count is fixed and not recorded in the token. Raising it later
// requires a migration that re-seals every value.
package secrets
