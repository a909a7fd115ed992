package secrets

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	kerrors "github.com/CamreshJames/fe-email-client/internal/errors"
)

func TestDeriveKeyIsDeterministic(t *testing.T) {
	salt := bytes.Repeat([]byte{0x42}, SaltLength)

	k1 := DeriveKey([]byte("hunter2"), salt)
	k2 := DeriveKey([]byte("hunter2"), salt)

	if len(k1) != KeyLength {
		t.Fatalf("Expected key length %d, got %d", KeyLength, len(k1))
	}
	if !bytes.Equal(k1, k2) {
		t.Error("Same password and salt produced different keys")
	}

	otherSalt := bytes.Repeat([]byte{0x43}, SaltLength)
	if bytes.Equal(k1, DeriveKey([]byte("hunter2"), otherSalt)) {
		t.Error("Different salts produced the same key")
	}
	if bytes.Equal(k1, DeriveKey([]byte("hunter3"), salt)) {
		t.Error("Different passwords produced the same key")
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	password := []byte("correct horse battery staple")

	tests := []struct {
		name      string
		plaintext string
	}{
		{"empty", ""},
		{"ascii", "s3cret"},
		{"email", "alice@example.com"},
		{"unicode", "pässwörd ✓ 密码"},
		{"long", strings.Repeat("x", 4096)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := Encrypt(tt.plaintext, password)
			if err != nil {
				t.Fatalf("Encrypt failed: %v", err)
			}
			if !IsEncrypted(token) {
				t.Errorf("Token %q does not carry the %q marker", token, Marker)
			}

			got, err := Decrypt(token, password)
			if err != nil {
				t.Fatalf("Decrypt failed: %v", err)
			}
			if got != tt.plaintext {
				t.Errorf("Round trip mismatch: got %q, want %q", got, tt.plaintext)
			}
		})
	}
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	password := []byte("pw")

	a, err := Encrypt("same value", password)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	b, err := Encrypt("same value", password)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	if a == b {
		t.Fatal("Two encryptions of the same plaintext produced identical tokens")
	}

	for _, token := range []string{a, b} {
		got, err := Decrypt(token, password)
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if got != "same value" {
			t.Errorf("Expected %q, got %q", "same value", got)
		}
	}
}

func TestDecryptWrongPassword(t *testing.T) {
	token, err := Encrypt("s3cret", []byte("right"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	got, err := Decrypt(token, []byte("wrong"))
	if !errors.Is(err, kerrors.ErrAuthenticationFailed) {
		t.Fatalf("Expected ErrAuthenticationFailed, got %v", err)
	}
	if got != "" {
		t.Errorf("Expected no plaintext on failure, got %q", got)
	}
}

func TestDecryptDetectsTampering(t *testing.T) {
	password := []byte("pw")
	token, err := Encrypt("s3cret", password)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(token, Marker))
	if err != nil {
		t.Fatalf("Failed to decode token: %v", err)
	}

	// Ciphertext starts after salt and iv; the tag is the last 16 bytes.
	offset := SaltLength + IVLength
	positions := []int{offset, offset + 3, len(raw) - TagLength, len(raw) - 1}

	for _, pos := range positions {
		for _, bit := range []byte{0x01, 0x80} {
			tampered := append([]byte(nil), raw...)
			tampered[pos] ^= bit

			_, err := Decrypt(Marker+base64.StdEncoding.EncodeToString(tampered), password)
			if !errors.Is(err, kerrors.ErrAuthenticationFailed) {
				t.Errorf("Flipping bit %#x at byte %d: expected ErrAuthenticationFailed, got %v", bit, pos, err)
			}
		}
	}
}

func TestDecryptMalformed(t *testing.T) {
	short := base64.StdEncoding.EncodeToString(make([]byte, SaltLength+IVLength))

	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "ENC:%%%not-base64%%%"},
		{"empty", "ENC:"},
		{"shorter than salt and iv", "ENC:" + short},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt(tt.token, []byte("pw"))
			if !errors.Is(err, kerrors.ErrMalformedEnvelope) {
				t.Errorf("Expected ErrMalformedEnvelope, got %v", err)
			}
		})
	}
}

func TestDecryptAcceptsUnmarkedToken(t *testing.T) {
	password := []byte("pw")
	token, err := Encrypt("value", password)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	got, err := Decrypt(strings.TrimPrefix(token, Marker), password)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if got != "value" {
		t.Errorf("Expected %q, got %q", "value", got)
	}
}

func TestDecryptFixedOffsetLayout(t *testing.T) {
	// Build an envelope by hand to pin the salt || iv || ciphertext||tag layout.
	password := []byte("layout")
	salt := bytes.Repeat([]byte{0x01}, SaltLength)
	iv := bytes.Repeat([]byte{0x02}, IVLength)

	block, err := aes.NewCipher(DeriveKey(password, salt))
	if err != nil {
		t.Fatalf("aes.NewCipher failed: %v", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		t.Fatalf("cipher.NewGCM failed: %v", err)
	}
	sealed := aead.Seal(nil, iv, []byte("hand made"), nil)

	raw := append(append(append([]byte(nil), salt...), iv...), sealed...)
	token := Marker + base64.StdEncoding.EncodeToString(raw)

	got, err := Decrypt(token, password)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if got != "hand made" {
		t.Errorf("Expected %q, got %q", "hand made", got)
	}
}

func TestEnvelopeMarshalParse(t *testing.T) {
	env := Envelope{Sealed: bytes.Repeat([]byte{0xAB}, TagLength+5)}
	env.Salt[0] = 0x11
	env.IV[11] = 0x22

	parsed, err := ParseEnvelope(env.Marshal())
	if err != nil {
		t.Fatalf("ParseEnvelope failed: %v", err)
	}
	if parsed.Salt != env.Salt || parsed.IV != env.IV || !bytes.Equal(parsed.Sealed, env.Sealed) {
		t.Errorf("Parsed envelope does not match original: %+v", parsed)
	}
}

func TestGeneratePassword(t *testing.T) {
	p1, err := GeneratePassword()
	if err != nil {
		t.Fatalf("GeneratePassword failed: %v", err)
	}
	p2, err := GeneratePassword()
	if err != nil {
		t.Fatalf("GeneratePassword failed: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(p1)
	if err != nil {
		t.Fatalf("Generated password is not base64: %v", err)
	}
	if len(raw) != 32 {
		t.Errorf("Expected 32 random bytes, got %d", len(raw))
	}
	if p1 == p2 {
		t.Error("Two generated passwords are identical")
	}
}

func TestEncryptEntropyFailure(t *testing.T) {
	original := randReader
	randReader = bytes.NewReader(nil)
	defer func() { randReader = original }()

	if _, err := Encrypt("value", []byte("pw")); err == nil {
		t.Error("Expected error when the random source is exhausted")
	}
	if _, err := GeneratePassword(); err == nil {
		t.Error("Expected error when the random source is exhausted")
	}
}

func TestIsEncrypted(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"ENC:abc", true},
		{"ENC:", true},
		{"enc:abc", false},
		{"s3cret", false},
		{"", false},
		{" ENC:abc", false},
	}
	for _, tt := range tests {
		if got := IsEncrypted(tt.value); got != tt.want {
			t.Errorf("IsEncrypted(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestProbe(t *testing.T) {
	if err := Probe(); err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
}

func TestWipe(t *testing.T) {
	b := []byte("secret")
	Wipe(b)
	if !bytes.Equal(b, make([]byte, 6)) {
		t.Errorf("Wipe left data behind: %v", b)
	}
}
