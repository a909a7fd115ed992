package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	kerrors "github.com/CamreshJames/fe-email-client/internal/errors"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// Iterations is the fixed PBKDF2 round count. Envelopes carry no cost
	// parameter, so changing it makes every existing value undecryptable.
	Iterations = 100000

	// KeyLength is the derived key size in bytes (AES-256).
	KeyLength = 32

	// SaltLength is the per-value PBKDF2 salt size in bytes.
	SaltLength = 32

	// IVLength is the GCM nonce size in bytes.
	IVLength = 12

	// TagLength is the GCM authentication tag size in bytes.
	TagLength = 16

	// generatedPasswordBytes is the entropy of an auto-generated master password.
	generatedPasswordBytes = 32
)

// randReader is swapped in tests to exercise entropy failures.
var randReader io.Reader = rand.Reader

// DeriveKey stretches password into a 256-bit AES key with PBKDF2-HMAC-SHA256.
func DeriveKey(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, Iterations, KeyLength, sha256.New)
}

// Encrypt seals plaintext under password and returns the marked textual
// envelope. A fresh salt and IV are drawn on every call, so sealing the same
// plaintext twice never yields the same token.
func Encrypt(plaintext string, password []byte) (string, error) {
	env := Envelope{}
	if _, err := io.ReadFull(randReader, env.Salt[:]); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	if _, err := io.ReadFull(randReader, env.IV[:]); err != nil {
		return "", fmt.Errorf("generating iv: %w", err)
	}

	aead, err := newGCM(DeriveKey(password, env.Salt[:]))
	if err != nil {
		return "", err
	}

	env.Sealed = aead.Seal(nil, env.IV[:], []byte(plaintext), nil)
	return env.Marshal(), nil
}

// Decrypt opens a token produced by Encrypt. The marker prefix is optional.
// A tag that does not verify yields ErrAuthenticationFailed and no plaintext.
func Decrypt(token string, password []byte) (string, error) {
	env, err := ParseEnvelope(token)
	if err != nil {
		return "", err
	}

	aead, err := newGCM(DeriveKey(password, env.Salt[:]))
	if err != nil {
		return "", err
	}

	plaintext, err := aead.Open(nil, env.IV[:], env.Sealed, nil)
	if err != nil {
		return "", kerrors.ErrAuthenticationFailed
	}

	return string(plaintext), nil
}

// GeneratePassword returns 32 random bytes, base64 encoded, for use as a
// master password when the operator does not supply one.
func GeneratePassword() (string, error) {
	buf := make([]byte, generatedPasswordBytes)
	if _, err := io.ReadFull(randReader, buf); err != nil {
		return "", fmt.Errorf("generating master password: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// Wipe overwrites b with zeros.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func newGCM(key []byte) (cipher.AEAD, error) {
	defer Wipe(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: create cipher: %v", kerrors.ErrCipherUnavailable, err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, IVLength)
	if err != nil {
		return nil, fmt.Errorf("%w: create AEAD: %v", kerrors.ErrCipherUnavailable, err)
	}
	return aead, nil
}
