package domain

import "context"

// KMSKeeper decrypts key material wrapped by an external Key Management Service.
// *secrets.Keeper from gocloud.dev satisfies it.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
