package service

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/jobtracker/internal/crypto/domain"
)

func randomKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestAEADManagerService_CreateCipher(t *testing.T) {
	manager := NewAEADManager()
	key := randomKey(t)

	t.Run("aes-gcm", func(t *testing.T) {
		cipher, err := manager.CreateCipher(key, cryptoDomain.AESGCM)
		require.NoError(t, err)
		_, ok := cipher.(*AESGCMCipher)
		assert.True(t, ok)
	})

	t.Run("chacha20-poly1305", func(t *testing.T) {
		cipher, err := manager.CreateCipher(key, cryptoDomain.ChaCha20)
		require.NoError(t, err)
		_, ok := cipher.(*ChaCha20Poly1305Cipher)
		assert.True(t, ok)
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := manager.CreateCipher(key, cryptoDomain.Algorithm("AES-GCM"))
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
	})

	for _, size := range []int{0, 16, 64} {
		_, err := manager.CreateCipher(make([]byte, size), cryptoDomain.AESGCM)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize, "size %d", size)
	}
}

func TestAEADCiphers(t *testing.T) {
	manager := NewAEADManager()

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			cipher, err := manager.CreateCipher(randomKey(t), alg)
			require.NoError(t, err)
			assert.Equal(t, 12, cipher.NonceSize())

			t.Run("round trip", func(t *testing.T) {
				for _, plaintext := range [][]byte{{}, []byte("secret"), bytes.Repeat([]byte("a"), 10000)} {
					ciphertext, nonce, err := cipher.Encrypt(plaintext, []byte("aad"))
					require.NoError(t, err)
					assert.Len(t, ciphertext, len(plaintext)+16)

					decrypted, err := cipher.Decrypt(ciphertext, nonce, []byte("aad"))
					require.NoError(t, err)
					assert.True(t, bytes.Equal(plaintext, decrypted))
				}
			})

			t.Run("nonce is unique per call", func(t *testing.T) {
				_, nonce1, err := cipher.Encrypt([]byte("x"), nil)
				require.NoError(t, err)
				_, nonce2, err := cipher.Encrypt([]byte("x"), nil)
				require.NoError(t, err)
				assert.NotEqual(t, nonce1, nonce2)
			})

			t.Run("wrong aad fails", func(t *testing.T) {
				ciphertext, nonce, err := cipher.Encrypt([]byte("secret"), []byte("right"))
				require.NoError(t, err)

				decrypted, err := cipher.Decrypt(ciphertext, nonce, []byte("wrong"))
				assert.Error(t, err)
				assert.Nil(t, decrypted)
			})

			t.Run("tampered ciphertext fails", func(t *testing.T) {
				ciphertext, nonce, err := cipher.Encrypt([]byte("secret"), nil)
				require.NoError(t, err)
				ciphertext[0] ^= 1

				_, err = cipher.Decrypt(ciphertext, nonce, nil)
				assert.Error(t, err)
			})

			t.Run("short nonce fails without panicking", func(t *testing.T) {
				ciphertext, _, err := cipher.Encrypt([]byte("secret"), nil)
				require.NoError(t, err)

				_, err = cipher.Decrypt(ciphertext, []byte{1, 2, 3}, nil)
				assert.Error(t, err)
			})
		})
	}
}
