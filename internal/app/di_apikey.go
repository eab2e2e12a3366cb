package app

import (
	"fmt"
	"log/slog"
	"time"

	apikeyHTTP "github.com/allisson/jobtracker/internal/apikey/http"
	apikeyRepository "github.com/allisson/jobtracker/internal/apikey/repository"
	apikeyService "github.com/allisson/jobtracker/internal/apikey/service"
	apikeyUseCase "github.com/allisson/jobtracker/internal/apikey/usecase"
	"github.com/allisson/jobtracker/internal/database"
	"github.com/allisson/jobtracker/internal/ratelimit"
)

// KeyGenerator returns the API key token generator.
func (c *Container) KeyGenerator() apikeyService.KeyGenerator {
	c.keyGeneratorInit.Do(func() {
		c.keyGenerator = apikeyService.NewKeyGenerator()
	})
	return c.keyGenerator
}

// SignatureVerifier returns the HMAC request signature verifier.
func (c *Container) SignatureVerifier() apikeyService.SignatureVerifier {
	c.signatureVerifierInit.Do(func() {
		c.signatureVerifier = apikeyService.NewSignatureVerifier(c.config.SignatureTolerance, time.Now)
	})
	return c.signatureVerifier
}

// RateLimiter returns the per-key limiter for /api, or a pass-through limiter when
// rate limiting is off.
func (c *Container) RateLimiter() ratelimit.Limiter {
	c.rateLimiterInit.Do(func() {
		if !c.config.RateLimitActive() {
			c.Logger().Info("rate limiting disabled", slog.String("app_env", c.config.AppEnv))
			c.rateLimiter = ratelimit.Disabled()
			return
		}
		c.rateLimiter = ratelimit.NewTokenBucket(c.config.RateLimitRequestsPerSec, c.config.RateLimitBurst)
	})
	return c.rateLimiter
}

// APIKeyRepository returns the API key repository for the configured driver.
func (c *Container) APIKeyRepository() (apikeyUseCase.APIKeyRepository, error) {
	var err error
	c.apiKeyRepositoryInit.Do(func() {
		c.apiKeyRepository, err = c.initAPIKeyRepository()
		if err != nil {
			c.setInitError("apiKeyRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("apiKeyRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.apiKeyRepository, nil
}

// APIKeyUseCase returns the API key management use case.
func (c *Container) APIKeyUseCase() (apikeyUseCase.APIKeyUseCase, error) {
	var err error
	c.apiKeyUseCaseInit.Do(func() {
		c.apiKeyUseCase, err = c.initAPIKeyUseCase()
		if err != nil {
			c.setInitError("apiKeyUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("apiKeyUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.apiKeyUseCase, nil
}

// Authenticator returns the credential authenticator used by the /api middleware.
func (c *Container) Authenticator() (apikeyUseCase.Authenticator, error) {
	var err error
	c.authenticatorInit.Do(func() {
		c.authenticator, err = c.initAuthenticator()
		if err != nil {
			c.setInitError("authenticator", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("authenticator"); storedErr != nil {
		return nil, storedErr
	}
	return c.authenticator, nil
}

// APIKeyHandler returns the HTTP handler for API key management.
func (c *Container) APIKeyHandler() (*apikeyHTTP.APIKeyHandler, error) {
	var err error
	c.apiKeyHandlerInit.Do(func() {
		var useCase apikeyUseCase.APIKeyUseCase
		useCase, err = c.APIKeyUseCase()
		if err != nil {
			c.setInitError("apiKeyHandler", err)
			return
		}
		c.apiKeyHandler = apikeyHTTP.NewAPIKeyHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("apiKeyHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.apiKeyHandler, nil
}

func (c *Container) initAPIKeyRepository() (apikeyUseCase.APIKeyRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for api key repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverMySQL:
		return apikeyRepository.NewMySQLAPIKeyRepository(db), nil
	case database.DriverPostgres:
		return apikeyRepository.NewPostgreSQLAPIKeyRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initAPIKeyUseCase() (apikeyUseCase.APIKeyUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for api key use case: %w", err)
	}
	apiKeyRepo, err := c.APIKeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get api key repository for api key use case: %w", err)
	}
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for api key use case: %w", err)
	}
	secretCodec, err := c.SecretCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret codec for api key use case: %w", err)
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for api key use case: %w", err)
	}

	useCase := apikeyUseCase.NewAPIKeyUseCase(
		txManager,
		apiKeyRepo,
		userRepo,
		c.KeyGenerator(),
		secretCodec,
		c.Logger(),
	)
	return apikeyUseCase.NewAPIKeyUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initAuthenticator() (apikeyUseCase.Authenticator, error) {
	apiKeyRepo, err := c.APIKeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get api key repository for authenticator: %w", err)
	}
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for authenticator: %w", err)
	}
	secretCodec, err := c.SecretCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret codec for authenticator: %w", err)
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for authenticator: %w", err)
	}

	authenticator := apikeyUseCase.NewAuthenticator(apiKeyRepo, userRepo, secretCodec, time.Now, c.Logger())
	return apikeyUseCase.NewAuthenticatorWithMetrics(authenticator, businessMetrics), nil
}
