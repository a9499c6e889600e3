package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	// hkdfInfo provides domain separation so this derived key is independent
	// from keys derived for other purposes (e.g. JWT signing).
	hkdfInfo = "solera/v1/setting-encryption"

	// ciphertextPrefix is prepended to encrypted values for reliable detection.
	// Format: enc:v1:<base64(nonce+ciphertext+tag)>
	ciphertextPrefix = "enc:v1:"
)

// ErrDecryptFailed is returned when a ciphertext cannot be decrypted (wrong
// key, tampering, or a value that was never encrypted). Callers surface it as
// "configuration unavailable", never as an empty secret.
var ErrDecryptFailed = errors.New("crypto: decryption failed")

// DeriveKey derives a 32-byte AES-256 key from the given secret using
// HKDF-SHA256. The info parameter provides domain separation per NIST
// SP 800-56C.
func DeriveKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, fmt.Errorf("crypto: secret must not be empty")
	}

	hkdfReader := hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo))
	key := make([]byte, 32)
	if _, err := hkdfReader.Read(key); err != nil {
		return nil, fmt.Errorf("crypto: hkdf key derivation failed: %w", err)
	}
	return key, nil
}

// EncryptField encrypts a plaintext string and returns "enc:v1:<base64>"
// format. The empty string is a valid plaintext and produces real ciphertext;
// an absent secret is represented by an absent row, not by "".
func EncryptField(plaintext string, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("crypto: aes.NewCipher: %w", err)
	}

	gcm, err := cipher.NewGCMWithRandomNonce(block)
	if err != nil {
		return "", fmt.Errorf("crypto: NewGCMWithRandomNonce: %w", err)
	}

	// Seal encrypts and appends the authentication tag. With
	// NewGCMWithRandomNonce the nonce is generated internally and prepended
	// to the output.
	ciphertext := gcm.Seal(nil, nil, []byte(plaintext), nil)

	encoded := base64.StdEncoding.EncodeToString(ciphertext)
	return ciphertextPrefix + encoded, nil
}

// DecryptField decrypts an "enc:v1:<base64>" value back to plaintext. Any
// value without the expected envelope is rejected: settings rows are written
// exclusively through EncryptField, so an unprefixed value means corruption.
func DecryptField(value string, key []byte) (string, error) {
	if !strings.HasPrefix(value, ciphertextPrefix) {
		return "", fmt.Errorf("%w: value lacks %q envelope", ErrDecryptFailed, ciphertextPrefix)
	}

	encoded := strings.TrimPrefix(value, ciphertextPrefix)
	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: base64 decode: %v", ErrDecryptFailed, err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("crypto: aes.NewCipher: %w", err)
	}

	gcm, err := cipher.NewGCMWithRandomNonce(block)
	if err != nil {
		return "", fmt.Errorf("crypto: NewGCMWithRandomNonce: %w", err)
	}

	plaintext, err := gcm.Open(nil, nil, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: wrong key or corrupted data", ErrDecryptFailed)
	}

	return string(plaintext), nil
}
