package app

import (
	"fmt"
	"sync"

	signingHTTP "github.com/keygate/keygate/internal/signing/http"
	signingRepository "github.com/keygate/keygate/internal/signing/repository"
	signingService "github.com/keygate/keygate/internal/signing/service"
	signingUsecase "github.com/keygate/keygate/internal/signing/usecase"
)

// signingComponents holds the signing secret dependencies.
type signingComponents struct {
	secretRepo signingUsecase.SigningSecretRepository
	useCase    signingUsecase.SigningSecretUseCase
	handler    *signingHTTP.SigningSecretHandler

	secretRepoInit sync.Once
	useCaseInit    sync.Once
	handlerInit    sync.Once
}

// SigningSecretRepository returns the signing secret repository instance.
func (c *Container) SigningSecretRepository() (signingUsecase.SigningSecretRepository, error) {
	c.signing.secretRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["signingSecretRepo"] = fmt.Errorf("failed to get database for signing secret repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.signing.secretRepo = signingRepository.NewMySQLSigningSecretRepository(db)
		case "postgres":
			c.signing.secretRepo = signingRepository.NewPostgreSQLSigningSecretRepository(db)
		default:
			c.initErrors["signingSecretRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["signingSecretRepo"]; exists {
		return nil, storedErr
	}
	return c.signing.secretRepo, nil
}

// SigningSecretUseCase returns the signing secret use case instance.
func (c *Container) SigningSecretUseCase() (signingUsecase.SigningSecretUseCase, error) {
	c.signing.useCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["signingSecretUseCase"] = err
			return
		}
		secretRepo, err := c.SigningSecretRepository()
		if err != nil {
			c.initErrors["signingSecretUseCase"] = err
			return
		}
		apiRepo, err := c.APIRepository()
		if err != nil {
			c.initErrors["signingSecretUseCase"] = err
			return
		}
		envelope, err := c.EnvelopeUseCase()
		if err != nil {
			c.initErrors["signingSecretUseCase"] = err
			return
		}
		scheduler, err := c.ScheduleUseCase()
		if err != nil {
			c.initErrors["signingSecretUseCase"] = err
			return
		}

		c.signing.useCase = signingUsecase.NewSigningSecretUseCase(
			txManager,
			secretRepo,
			apiRepo,
			envelope,
			signingService.NewKeyManager(),
			scheduler,
			c.EntityCache(),
		)
	})
	if storedErr, exists := c.initErrors["signingSecretUseCase"]; exists {
		return nil, storedErr
	}
	return c.signing.useCase, nil
}

// SigningSecretHandler returns the signing secret HTTP handler.
func (c *Container) SigningSecretHandler() (*signingHTTP.SigningSecretHandler, error) {
	c.signing.handlerInit.Do(func() {
		useCase, err := c.SigningSecretUseCase()
		if err != nil {
			c.initErrors["signingSecretHandler"] = err
			return
		}
		c.signing.handler = signingHTTP.NewSigningSecretHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["signingSecretHandler"]; exists {
		return nil, storedErr
	}
	return c.signing.handler, nil
}
