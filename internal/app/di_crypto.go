package app

import (
	"context"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/jobtracker/internal/crypto/domain"
	cryptoService "github.com/allisson/jobtracker/internal/crypto/service"
)

// KMSService returns the KMS service used to unwrap API_KEY_ENC_SECRET.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KeyLoader returns the loader that resolves the API key encryption key.
func (c *Container) KeyLoader() cryptoService.KeyLoader {
	c.keyLoaderInit.Do(func() {
		c.keyLoader = cryptoService.NewKeyLoader(c.KMSService(), c.Logger())
	})
	return c.keyLoader
}

// SecretCodec returns the codec that encrypts API key secrets at rest.
// The key is loaded once; the container never keeps the raw bytes.
func (c *Container) SecretCodec() (cryptoService.SecretCodec, error) {
	var err error
	c.secretCodecInit.Do(func() {
		c.secretCodec, err = c.initSecretCodec()
		if err != nil {
			c.setInitError("secretCodec", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("secretCodec"); storedErr != nil {
		return nil, storedErr
	}
	return c.secretCodec, nil
}

func (c *Container) initSecretCodec() (cryptoService.SecretCodec, error) {
	alg, err := cryptoDomain.ParseAlgorithm(c.config.APIKeyEncAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid API_KEY_ENC_ALGORITHM %q: %w", c.config.APIKeyEncAlgorithm, err)
	}

	key, ephemeral, err := c.KeyLoader().Load(context.Background(), cryptoService.KeySource{
		Secret:      c.config.APIKeyEncSecret,
		KMSProvider: c.config.KMSProvider,
		KMSKeyURI:   c.config.KMSKeyURI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load api key encryption key: %w", err)
	}
	defer cryptoDomain.Zero(key)

	codec, err := cryptoService.NewSecretCodec(key, alg, c.AEADManager())
	if err != nil {
		return nil, fmt.Errorf("failed to create secret codec: %w", err)
	}

	c.Logger().Info("secret codec ready",
		slog.String("algorithm", string(alg)),
		slog.Bool("ephemeral_key", ephemeral))
	return codec, nil
}
