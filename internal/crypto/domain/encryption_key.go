package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// hkdfInfo binds derived keys to their single purpose.
const hkdfInfo = "jobtracker api-key secret codec"

var keyEncodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.URLEncoding,
	base64.RawStdEncoding,
	base64.RawURLEncoding,
}

// DecodeBase64 decodes value using the standard or URL-safe alphabet, padded or not.
func DecodeBase64(value string) ([]byte, error) {
	var lastErr error
	for _, enc := range keyEncodings {
		decoded, err := enc.DecodeString(value)
		if err == nil {
			return decoded, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// DecodeEncryptionKey turns a configured secret into a 32-byte key.
//
// A base64 value (standard or URL-safe, so Fernet keys work) that decodes to exactly 32
// bytes is used as is. Any other non-empty value is stretched with HKDF-SHA256.
func DecodeEncryptionKey(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, ErrInvalidKeySize
	}

	if decoded, err := DecodeBase64(value); err == nil {
		if len(decoded) == KeySize {
			return decoded, nil
		}
		Zero(decoded)
	}

	return DeriveKey([]byte(value))
}

// DeriveKey stretches arbitrary secret material into a 32-byte key with HKDF-SHA256.
func DeriveKey(material []byte) ([]byte, error) {
	if len(material) == 0 {
		return nil, ErrInvalidKeySize
	}

	key := make([]byte, KeySize)
	reader := hkdf.New(sha256.New, material, nil, []byte(hkdfInfo))
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

// GenerateKey returns 32 bytes from crypto/rand.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return key, nil
}
