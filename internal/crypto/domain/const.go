package domain

// Algorithm represents the AEAD cipher used to encrypt API key secrets at rest.
//
// Both algorithms take a 32-byte key, a 12-byte nonce and append a 16-byte tag:
//   - Use AESGCM on CPUs with AES-NI hardware acceleration
//   - Use ChaCha20 on systems without AES-NI
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// KeySize is the size in bytes of every encryption key handled by this package.
const KeySize = 32

// ParseAlgorithm converts a configuration value into an Algorithm.
func ParseAlgorithm(value string) (Algorithm, error) {
	switch Algorithm(value) {
	case AESGCM, ChaCha20:
		return Algorithm(value), nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
