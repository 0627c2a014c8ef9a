package app

import (
	"fmt"
	"sync"

	cryptoDomain "github.com/keygate/keygate/internal/crypto/domain"
	registryHTTP "github.com/keygate/keygate/internal/registry/http"
	registryRepository "github.com/keygate/keygate/internal/registry/repository"
	registryUsecase "github.com/keygate/keygate/internal/registry/usecase"
)

// registryComponents holds the workspace and API management dependencies.
type registryComponents struct {
	workspaceRepo    registryUsecase.WorkspaceRepository
	apiRepo          registryUsecase.APIRepository
	apiScopeRepo     registryUsecase.ApiScopeRepository
	workspaceUseCase registryUsecase.WorkspaceUseCase
	apiUseCase       registryUsecase.APIUseCase
	workspaceHandler *registryHTTP.WorkspaceHandler
	apiHandler       *registryHTTP.APIHandler

	workspaceRepoInit    sync.Once
	apiRepoInit          sync.Once
	apiScopeRepoInit     sync.Once
	workspaceUseCaseInit sync.Once
	apiUseCaseInit       sync.Once
	workspaceHandlerInit sync.Once
	apiHandlerInit       sync.Once
}

// WorkspaceRepository returns the workspace repository instance.
func (c *Container) WorkspaceRepository() (registryUsecase.WorkspaceRepository, error) {
	c.registry.workspaceRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["workspaceRepo"] = fmt.Errorf("failed to get database for workspace repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.registry.workspaceRepo = registryRepository.NewMySQLWorkspaceRepository(db)
		case "postgres":
			c.registry.workspaceRepo = registryRepository.NewPostgreSQLWorkspaceRepository(db)
		default:
			c.initErrors["workspaceRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["workspaceRepo"]; exists {
		return nil, storedErr
	}
	return c.registry.workspaceRepo, nil
}

// APIRepository returns the API repository instance.
func (c *Container) APIRepository() (registryUsecase.APIRepository, error) {
	c.registry.apiRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["apiRepo"] = fmt.Errorf("failed to get database for api repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.registry.apiRepo = registryRepository.NewMySQLAPIRepository(db)
		case "postgres":
			c.registry.apiRepo = registryRepository.NewPostgreSQLAPIRepository(db)
		default:
			c.initErrors["apiRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["apiRepo"]; exists {
		return nil, storedErr
	}
	return c.registry.apiRepo, nil
}

// ApiScopeRepository returns the API scope repository instance.
func (c *Container) ApiScopeRepository() (registryUsecase.ApiScopeRepository, error) {
	c.registry.apiScopeRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["apiScopeRepo"] = fmt.Errorf("failed to get database for api scope repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.registry.apiScopeRepo = registryRepository.NewMySQLApiScopeRepository(db)
		case "postgres":
			c.registry.apiScopeRepo = registryRepository.NewPostgreSQLApiScopeRepository(db)
		default:
			c.initErrors["apiScopeRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["apiScopeRepo"]; exists {
		return nil, storedErr
	}
	return c.registry.apiScopeRepo, nil
}

// WorkspaceUseCase returns the workspace use case instance.
func (c *Container) WorkspaceUseCase() (registryUsecase.WorkspaceUseCase, error) {
	c.registry.workspaceUseCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["workspaceUseCase"] = err
			return
		}
		workspaceRepo, err := c.WorkspaceRepository()
		if err != nil {
			c.initErrors["workspaceUseCase"] = err
			return
		}
		envelope, err := c.EnvelopeUseCase()
		if err != nil {
			c.initErrors["workspaceUseCase"] = err
			return
		}

		c.registry.workspaceUseCase = registryUsecase.NewWorkspaceUseCase(
			txManager,
			workspaceRepo,
			envelope,
			cryptoDomain.Algorithm(c.config.DataKeyAlgorithm),
		)
	})
	if storedErr, exists := c.initErrors["workspaceUseCase"]; exists {
		return nil, storedErr
	}
	return c.registry.workspaceUseCase, nil
}

// APIUseCase returns the API use case instance.
func (c *Container) APIUseCase() (registryUsecase.APIUseCase, error) {
	c.registry.apiUseCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["apiUseCase"] = err
			return
		}
		workspaceRepo, err := c.WorkspaceRepository()
		if err != nil {
			c.initErrors["apiUseCase"] = err
			return
		}
		apiRepo, err := c.APIRepository()
		if err != nil {
			c.initErrors["apiUseCase"] = err
			return
		}
		apiScopeRepo, err := c.ApiScopeRepository()
		if err != nil {
			c.initErrors["apiUseCase"] = err
			return
		}
		signingSecretUseCase, err := c.SigningSecretUseCase()
		if err != nil {
			c.initErrors["apiUseCase"] = err
			return
		}

		c.registry.apiUseCase = registryUsecase.NewAPIUseCase(
			txManager,
			workspaceRepo,
			apiRepo,
			apiScopeRepo,
			signingSecretUseCase,
		)
	})
	if storedErr, exists := c.initErrors["apiUseCase"]; exists {
		return nil, storedErr
	}
	return c.registry.apiUseCase, nil
}

// WorkspaceHandler returns the workspace HTTP handler.
func (c *Container) WorkspaceHandler() (*registryHTTP.WorkspaceHandler, error) {
	c.registry.workspaceHandlerInit.Do(func() {
		workspaceUseCase, err := c.WorkspaceUseCase()
		if err != nil {
			c.initErrors["workspaceHandler"] = err
			return
		}
		c.registry.workspaceHandler = registryHTTP.NewWorkspaceHandler(workspaceUseCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["workspaceHandler"]; exists {
		return nil, storedErr
	}
	return c.registry.workspaceHandler, nil
}

// APIHandler returns the API HTTP handler.
func (c *Container) APIHandler() (*registryHTTP.APIHandler, error) {
	c.registry.apiHandlerInit.Do(func() {
		apiUseCase, err := c.APIUseCase()
		if err != nil {
			c.initErrors["apiHandler"] = err
			return
		}
		c.registry.apiHandler = registryHTTP.NewAPIHandler(apiUseCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["apiHandler"]; exists {
		return nil, storedErr
	}
	return c.registry.apiHandler, nil
}
