// Package service provides the symmetric encryption used to keep API key secrets at rest.
// Implements AEAD ciphers (AES-256-GCM, ChaCha20-Poly1305) behind a string codec.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/jobtracker/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)

	// NonceSize returns the nonce length expected by Decrypt.
	NonceSize() int
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// SecretCodec reversibly encrypts short text secrets into storable text.
//
// The key is fixed when the codec is built; both methods are safe for concurrent use
// and perform no I/O.
type SecretCodec interface {
	// Encrypt returns base64(nonce || ciphertext) for plaintext.
	Encrypt(plaintext string) (string, error)

	// Decrypt reverses Encrypt. Any failure returns ErrDecryptionFailed.
	Decrypt(ciphertext string) (string, error)
}

// KeyLoader resolves the process-wide encryption key at startup.
type KeyLoader interface {
	// Load returns the 32-byte key and whether it was generated for this process only.
	Load(ctx context.Context, source KeySource) (key []byte, ephemeral bool, err error)
}
