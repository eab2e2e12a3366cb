package service

import (
	"encoding/base64"

	cryptoDomain "github.com/allisson/jobtracker/internal/crypto/domain"
)

type secretCodec struct {
	aead AEAD
}

// NewSecretCodec builds a SecretCodec over the given key. The cipher keeps its own copy
// of the key material, so callers may zero key afterwards.
func NewSecretCodec(
	key []byte,
	alg cryptoDomain.Algorithm,
	aeadManager AEADManager,
) (SecretCodec, error) {
	aead, err := aeadManager.CreateCipher(key, alg)
	if err != nil {
		return nil, err
	}
	return &secretCodec{aead: aead}, nil
}

func (c *secretCodec) Encrypt(plaintext string) (string, error) {
	ciphertext, nonce, err := c.aead.Encrypt([]byte(plaintext), nil)
	if err != nil {
		return "", err
	}

	blob := make([]byte, 0, len(nonce)+len(ciphertext))
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)
	return base64.StdEncoding.EncodeToString(blob), nil
}

func (c *secretCodec) Decrypt(ciphertext string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	nonceSize := c.aead.NonceSize()
	if len(blob) <= nonceSize {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := c.aead.Decrypt(blob[nonceSize:], blob[:nonceSize], nil)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}
	return string(plaintext), nil
}
