package app

import (
	"fmt"

	applicationHTTP "github.com/allisson/jobtracker/internal/application/http"
	applicationRepository "github.com/allisson/jobtracker/internal/application/repository"
	applicationUseCase "github.com/allisson/jobtracker/internal/application/usecase"
	"github.com/allisson/jobtracker/internal/database"
)

// ApplicationRepository returns the job application repository for the configured driver.
func (c *Container) ApplicationRepository() (applicationUseCase.ApplicationRepository, error) {
	var err error
	c.applicationRepositoryInit.Do(func() {
		c.applicationRepository, err = c.initApplicationRepository()
		if err != nil {
			c.setInitError("applicationRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("applicationRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.applicationRepository, nil
}

// ApplicationUseCase returns the job application use case.
func (c *Container) ApplicationUseCase() (applicationUseCase.ApplicationUseCase, error) {
	var err error
	c.applicationUseCaseInit.Do(func() {
		c.applicationUseCase, err = c.initApplicationUseCase()
		if err != nil {
			c.setInitError("applicationUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("applicationUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.applicationUseCase, nil
}

// ApplicationHandler returns the HTTP handler for job applications.
func (c *Container) ApplicationHandler() (*applicationHTTP.ApplicationHandler, error) {
	var err error
	c.applicationHandlerInit.Do(func() {
		var useCase applicationUseCase.ApplicationUseCase
		useCase, err = c.ApplicationUseCase()
		if err != nil {
			c.setInitError("applicationHandler", err)
			return
		}
		c.applicationHandler = applicationHTTP.NewApplicationHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("applicationHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.applicationHandler, nil
}

func (c *Container) initApplicationRepository() (applicationUseCase.ApplicationRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for application repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverMySQL:
		return applicationRepository.NewMySQLApplicationRepository(db), nil
	case database.DriverPostgres:
		return applicationRepository.NewPostgreSQLApplicationRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initApplicationUseCase() (applicationUseCase.ApplicationUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for application use case: %w", err)
	}
	applicationRepo, err := c.ApplicationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get application repository for application use case: %w", err)
	}
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for application use case: %w", err)
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for application use case: %w", err)
	}

	useCase := applicationUseCase.NewApplicationUseCase(txManager, applicationRepo, userRepo)
	return applicationUseCase.NewApplicationUseCaseWithMetrics(useCase, businessMetrics), nil
}
