package app

import (
	"fmt"

	"github.com/allisson/jobtracker/internal/database"
	userHTTP "github.com/allisson/jobtracker/internal/user/http"
	userRepository "github.com/allisson/jobtracker/internal/user/repository"
	userUseCase "github.com/allisson/jobtracker/internal/user/usecase"
)

// UserRepository returns the user repository for the configured driver.
func (c *Container) UserRepository() (userUseCase.UserRepository, error) {
	var err error
	c.userRepositoryInit.Do(func() {
		c.userRepository, err = c.initUserRepository()
		if err != nil {
			c.setInitError("userRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("userRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.userRepository, nil
}

// UserUseCase returns the user use case, decorated with business metrics.
func (c *Container) UserUseCase() (userUseCase.UserUseCase, error) {
	var err error
	c.userUseCaseInit.Do(func() {
		c.userUseCase, err = c.initUserUseCase()
		if err != nil {
			c.setInitError("userUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("userUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

// UserHandler returns the HTTP handler for user registration.
func (c *Container) UserHandler() (*userHTTP.UserHandler, error) {
	var err error
	c.userHandlerInit.Do(func() {
		var useCase userUseCase.UserUseCase
		useCase, err = c.UserUseCase()
		if err != nil {
			c.setInitError("userHandler", err)
			return
		}
		c.userHandler = userHTTP.NewUserHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("userHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.userHandler, nil
}

func (c *Container) initUserRepository() (userUseCase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverMySQL:
		return userRepository.NewMySQLUserRepository(db), nil
	case database.DriverPostgres:
		return userRepository.NewPostgreSQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initUserUseCase() (userUseCase.UserUseCase, error) {
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for user use case: %w", err)
	}

	return userUseCase.NewUserUseCaseWithMetrics(userUseCase.NewUserUseCase(userRepo), businessMetrics), nil
}
