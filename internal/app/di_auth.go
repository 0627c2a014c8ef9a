package app

import (
	"fmt"
	"sync"

	authHTTP "github.com/keygate/keygate/internal/auth/http"
	authRepository "github.com/keygate/keygate/internal/auth/repository"
	authService "github.com/keygate/keygate/internal/auth/service"
	authUsecase "github.com/keygate/keygate/internal/auth/usecase"
	"github.com/keygate/keygate/internal/metrics"
)

// authComponents holds the client and token dependencies.
type authComponents struct {
	clientRepo       authUsecase.ClientRepository
	clientSecretRepo authUsecase.ClientSecretRepository
	clientScopeRepo  authUsecase.ClientScopeRepository
	clientUseCase    authUsecase.ClientUseCase
	tokenUseCase     authUsecase.TokenUseCase
	clientHandler    *authHTTP.ClientHandler
	tokenHandler     *authHTTP.TokenHandler

	clientRepoInit       sync.Once
	clientSecretRepoInit sync.Once
	clientScopeRepoInit  sync.Once
	clientUseCaseInit    sync.Once
	tokenUseCaseInit     sync.Once
	clientHandlerInit    sync.Once
	tokenHandlerInit     sync.Once
}

// ClientRepository returns the client repository instance.
func (c *Container) ClientRepository() (authUsecase.ClientRepository, error) {
	c.auth.clientRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["clientRepo"] = fmt.Errorf("failed to get database for client repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.auth.clientRepo = authRepository.NewMySQLClientRepository(db)
		case "postgres":
			c.auth.clientRepo = authRepository.NewPostgreSQLClientRepository(db)
		default:
			c.initErrors["clientRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["clientRepo"]; exists {
		return nil, storedErr
	}
	return c.auth.clientRepo, nil
}

// ClientSecretRepository returns the client secret repository instance.
func (c *Container) ClientSecretRepository() (authUsecase.ClientSecretRepository, error) {
	c.auth.clientSecretRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["clientSecretRepo"] = fmt.Errorf("failed to get database for client secret repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.auth.clientSecretRepo = authRepository.NewMySQLClientSecretRepository(db)
		case "postgres":
			c.auth.clientSecretRepo = authRepository.NewPostgreSQLClientSecretRepository(db)
		default:
			c.initErrors["clientSecretRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["clientSecretRepo"]; exists {
		return nil, storedErr
	}
	return c.auth.clientSecretRepo, nil
}

// ClientScopeRepository returns the client scope repository instance.
func (c *Container) ClientScopeRepository() (authUsecase.ClientScopeRepository, error) {
	c.auth.clientScopeRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["clientScopeRepo"] = fmt.Errorf("failed to get database for client scope repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.auth.clientScopeRepo = authRepository.NewMySQLClientScopeRepository(db)
		case "postgres":
			c.auth.clientScopeRepo = authRepository.NewPostgreSQLClientScopeRepository(db)
		default:
			c.initErrors["clientScopeRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["clientScopeRepo"]; exists {
		return nil, storedErr
	}
	return c.auth.clientScopeRepo, nil
}

// ClientUseCase returns the client use case instance.
func (c *Container) ClientUseCase() (authUsecase.ClientUseCase, error) {
	c.auth.clientUseCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["clientUseCase"] = err
			return
		}
		clientRepo, err := c.ClientRepository()
		if err != nil {
			c.initErrors["clientUseCase"] = err
			return
		}
		clientSecretRepo, err := c.ClientSecretRepository()
		if err != nil {
			c.initErrors["clientUseCase"] = err
			return
		}
		clientScopeRepo, err := c.ClientScopeRepository()
		if err != nil {
			c.initErrors["clientUseCase"] = err
			return
		}
		apiRepo, err := c.APIRepository()
		if err != nil {
			c.initErrors["clientUseCase"] = err
			return
		}
		apiScopeRepo, err := c.ApiScopeRepository()
		if err != nil {
			c.initErrors["clientUseCase"] = err
			return
		}
		scheduler, err := c.ScheduleUseCase()
		if err != nil {
			c.initErrors["clientUseCase"] = err
			return
		}

		c.auth.clientUseCase = authUsecase.NewClientUseCase(
			txManager,
			clientRepo,
			clientSecretRepo,
			clientScopeRepo,
			apiRepo,
			apiScopeRepo,
			authService.NewSecretService(),
			scheduler,
			c.EntityCache(),
		)
	})
	if storedErr, exists := c.initErrors["clientUseCase"]; exists {
		return nil, storedErr
	}
	return c.auth.clientUseCase, nil
}

// TokenUseCase returns the token use case instance.
func (c *Container) TokenUseCase() (authUsecase.TokenUseCase, error) {
	c.auth.tokenUseCaseInit.Do(func() {
		clientRepo, err := c.ClientRepository()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
			return
		}
		clientSecretRepo, err := c.ClientSecretRepository()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
			return
		}
		clientScopeRepo, err := c.ClientScopeRepository()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
			return
		}
		apiRepo, err := c.APIRepository()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
			return
		}
		signingSecretUseCase, err := c.SigningSecretUseCase()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
			return
		}

		tokenUseCase := authUsecase.NewTokenUseCase(
			clientRepo,
			clientSecretRepo,
			clientScopeRepo,
			apiRepo,
			signingSecretUseCase,
			authService.NewSecretService(),
			authService.NewJWTService(),
			c.RateLimiter(),
			c.EntityCache(),
			c.config.TokenDefaultExpiration,
		)

		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
			return
		}
		if provider != nil {
			businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
			if err != nil {
				c.initErrors["tokenUseCase"] = fmt.Errorf("failed to create business metrics: %w", err)
				return
			}
			tokenUseCase = authUsecase.NewTokenUseCaseWithMetrics(tokenUseCase, businessMetrics)
		}

		c.auth.tokenUseCase = tokenUseCase
	})
	if storedErr, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.auth.tokenUseCase, nil
}

// ClientHandler returns the client HTTP handler.
func (c *Container) ClientHandler() (*authHTTP.ClientHandler, error) {
	c.auth.clientHandlerInit.Do(func() {
		clientUseCase, err := c.ClientUseCase()
		if err != nil {
			c.initErrors["clientHandler"] = err
			return
		}
		c.auth.clientHandler = authHTTP.NewClientHandler(clientUseCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["clientHandler"]; exists {
		return nil, storedErr
	}
	return c.auth.clientHandler, nil
}

// TokenHandler returns the token HTTP handler.
func (c *Container) TokenHandler() (*authHTTP.TokenHandler, error) {
	c.auth.tokenHandlerInit.Do(func() {
		tokenUseCase, err := c.TokenUseCase()
		if err != nil {
			c.initErrors["tokenHandler"] = err
			return
		}
		c.auth.tokenHandler = authHTTP.NewTokenHandler(tokenUseCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["tokenHandler"]; exists {
		return nil, storedErr
	}
	return c.auth.tokenHandler, nil
}
