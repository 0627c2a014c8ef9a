package app

import (
	"context"
	"fmt"
	"sync"

	cryptoDomain "github.com/keygate/keygate/internal/crypto/domain"
	cryptoRepository "github.com/keygate/keygate/internal/crypto/repository"
	cryptoService "github.com/keygate/keygate/internal/crypto/service"
	cryptoUsecase "github.com/keygate/keygate/internal/crypto/usecase"
)

// cryptoComponents holds the envelope encryption dependencies.
type cryptoComponents struct {
	keeper      cryptoDomain.Keeper
	dataKeyRepo cryptoUsecase.DataKeyRepository
	envelope    cryptoUsecase.EnvelopeUseCase

	keeperInit      sync.Once
	dataKeyRepoInit sync.Once
	envelopeInit    sync.Once
}

// Keeper returns the handle to the external key custody backend.
func (c *Container) Keeper() (cryptoDomain.Keeper, error) {
	c.crypto.keeperInit.Do(func() {
		if c.config.KMSKeyURI == "" {
			c.initErrors["keeper"] = fmt.Errorf("KMS_KEY_URI is not configured")
			return
		}
		keeper, err := cryptoService.NewKeeperService().OpenKeeper(context.Background(), c.config.KMSKeyURI)
		if err != nil {
			c.initErrors["keeper"] = fmt.Errorf("failed to open custody keeper: %w", err)
			return
		}
		c.crypto.keeper = keeper
	})
	if storedErr, exists := c.initErrors["keeper"]; exists {
		return nil, storedErr
	}
	return c.crypto.keeper, nil
}

// DataKeyRepository returns the data key repository instance.
func (c *Container) DataKeyRepository() (cryptoUsecase.DataKeyRepository, error) {
	c.crypto.dataKeyRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["dataKeyRepo"] = fmt.Errorf("failed to get database for data key repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.crypto.dataKeyRepo = cryptoRepository.NewMySQLDataKeyRepository(db)
		case "postgres":
			c.crypto.dataKeyRepo = cryptoRepository.NewPostgreSQLDataKeyRepository(db)
		default:
			c.initErrors["dataKeyRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["dataKeyRepo"]; exists {
		return nil, storedErr
	}
	return c.crypto.dataKeyRepo, nil
}

// EnvelopeUseCase returns the envelope encryption use case.
func (c *Container) EnvelopeUseCase() (cryptoUsecase.EnvelopeUseCase, error) {
	c.crypto.envelopeInit.Do(func() {
		keeper, err := c.Keeper()
		if err != nil {
			c.initErrors["envelopeUseCase"] = err
			return
		}

		dataKeyRepo, err := c.DataKeyRepository()
		if err != nil {
			c.initErrors["envelopeUseCase"] = err
			return
		}

		c.crypto.envelope = cryptoUsecase.NewEnvelopeUseCase(keeper, dataKeyRepo, cryptoService.NewAEADManager())
	})
	if storedErr, exists := c.initErrors["envelopeUseCase"]; exists {
		return nil, storedErr
	}
	return c.crypto.envelope, nil
}
