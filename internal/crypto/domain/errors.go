package domain

import (
	"github.com/allisson/jobtracker/internal/errors"
)

// Cryptographic operation error definitions.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a key that is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates a ciphertext that cannot be opened with the current key.
	//
	// This covers a wrong key, a tampered or truncated ciphertext and malformed encoding.
	// The specific cause is not disclosed.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrKeyUnwrapFailed indicates the KMS could not decrypt the configured encryption key.
	ErrKeyUnwrapFailed = errors.New("failed to unwrap encryption key")
)
