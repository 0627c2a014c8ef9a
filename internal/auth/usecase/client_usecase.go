package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/keygate/keygate/internal/auth/domain"
	authService "github.com/keygate/keygate/internal/auth/service"
	"github.com/keygate/keygate/internal/cache"
	"github.com/keygate/keygate/internal/database"
	apperrors "github.com/keygate/keygate/internal/errors"
	schedulerDomain "github.com/keygate/keygate/internal/scheduler/domain"
	schedulerUsecase "github.com/keygate/keygate/internal/scheduler/usecase"
	customValidation "github.com/keygate/keygate/internal/validation"
)

// clientUseCase implements the ClientUseCase interface.
type clientUseCase struct {
	txManager        database.TxManager
	clientRepo       ClientRepository
	clientSecretRepo ClientSecretRepository
	clientScopeRepo  ClientScopeRepository
	apiRepo          APIRepository
	apiScopeRepo     ApiScopeRepository
	secretService    authService.SecretService
	scheduler        schedulerUsecase.Scheduler
	cache            *cache.Cache
}

// NewClientUseCase creates a new client use case.
func NewClientUseCase(
	txManager database.TxManager,
	clientRepo ClientRepository,
	clientSecretRepo ClientSecretRepository,
	clientScopeRepo ClientScopeRepository,
	apiRepo APIRepository,
	apiScopeRepo ApiScopeRepository,
	secretService authService.SecretService,
	scheduler schedulerUsecase.Scheduler,
	entityCache *cache.Cache,
) ClientUseCase {
	return &clientUseCase{
		txManager:        txManager,
		clientRepo:       clientRepo,
		clientSecretRepo: clientSecretRepo,
		clientScopeRepo:  clientScopeRepo,
		apiRepo:          apiRepo,
		apiScopeRepo:     apiScopeRepo,
		secretService:    secretService,
		scheduler:        scheduler,
		cache:            entityCache,
	}
}

// Create registers a client with its first secret and scope grants.
func (c *clientUseCase) Create(ctx context.Context, input CreateClientInput) (*authDomain.Client, string, error) {
	if err := customValidation.ValidateMetadata(input.Metadata); err != nil {
		return nil, "", err
	}

	var client *authDomain.Client
	var plainSecret string

	err := c.txManager.WithTx(ctx, func(txCtx context.Context) error {
		api, err := c.apiRepo.Get(txCtx, input.APIID)
		if err != nil {
			return err
		}
		if api.WorkspaceID != input.WorkspaceID {
			return apperrors.Wrap(apperrors.ErrNotFound, "api does not belong to workspace")
		}

		plain, digest, err := c.secretService.GenerateSecret()
		if err != nil {
			return err
		}
		plainSecret = plain

		now := time.Now().UTC()
		secret := &authDomain.ClientSecret{
			ID:        uuid.Must(uuid.NewV7()),
			ClientID:  uuid.Must(uuid.NewV7()),
			Digest:    digest,
			Status:    authDomain.SecretStatusActive,
			CreatedAt: now,
		}

		client = &authDomain.Client{
			ID:                    secret.ClientID,
			APIID:                 input.APIID,
			WorkspaceID:           input.WorkspaceID,
			ForWorkspaceID:        input.ForWorkspaceID,
			Name:                  input.Name,
			CurrentClientSecretID: secret.ID,
			RateLimit:             input.RateLimit,
			Metadata:              input.Metadata,
			Version:               1,
			CreatedAt:             now,
		}

		if err := c.clientRepo.Create(txCtx, client); err != nil {
			return err
		}
		if err := c.clientSecretRepo.Create(txCtx, secret); err != nil {
			return err
		}

		for _, scopeName := range input.ScopeNames {
			if err := c.grantScope(txCtx, client, scopeName); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	return client, plainSecret, nil
}

// Get retrieves a client by ID. Soft-deleted clients are reported as absent.
func (c *clientUseCase) Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	client, err := c.clientRepo.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client.DeletedAt != nil {
		return nil, authDomain.ErrClientNotFound
	}
	return client, nil
}

// Delete soft-deletes the client.
func (c *clientUseCase) Delete(ctx context.Context, clientID uuid.UUID) error {
	client, err := c.Get(ctx, clientID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	client.DeletedAt = &now
	if err := c.clientRepo.Update(ctx, client); err != nil {
		return err
	}

	c.cache.Delete(cache.NamespaceClient, clientID.String())
	return nil
}

// RotateSecret stages a new client secret.
func (c *clientUseCase) RotateSecret(
	ctx context.Context,
	clientID uuid.UUID,
	grace time.Duration,
) (*authDomain.ClientSecret, string, error) {
	var newSecret *authDomain.ClientSecret
	var plainSecret string

	err := c.txManager.WithTx(ctx, func(txCtx context.Context) error {
		client, err := c.clientRepo.Get(txCtx, clientID)
		if err != nil {
			return err
		}
		if client.DeletedAt != nil {
			return authDomain.ErrClientNotFound
		}

		if client.NextClientSecretID != nil {
			return authDomain.ErrPendingSecretRotationExists
		}

		current, err := c.clientSecretRepo.Get(txCtx, client.CurrentClientSecretID)
		if err != nil {
			return err
		}

		plain, digest, err := c.secretService.GenerateSecret()
		if err != nil {
			return err
		}
		plainSecret = plain

		now := time.Now().UTC()
		status := authDomain.SecretStatusPending
		if grace <= 0 {
			status = authDomain.SecretStatusActive
		}

		newSecret = &authDomain.ClientSecret{
			ID:        uuid.Must(uuid.NewV7()),
			ClientID:  clientID,
			Digest:    digest,
			Status:    status,
			CreatedAt: now,
		}
		if err := c.clientSecretRepo.Create(txCtx, newSecret); err != nil {
			return err
		}

		if grace <= 0 {
			current.Status = authDomain.SecretStatusRevoked
			current.DeletedAt = &now
			if err := c.clientSecretRepo.Update(txCtx, current); err != nil {
				return err
			}

			client.CurrentClientSecretID = newSecret.ID
			return c.clientRepo.Update(txCtx, client)
		}

		client.NextClientSecretID = &newSecret.ID
		if err := c.clientRepo.Update(txCtx, client); err != nil {
			return err
		}

		payload := schedulerDomain.ClientSecretExpirePayload{
			ClientID:       clientID,
			ClientSecretID: current.ID,
		}
		return c.scheduler.CreateOneTimeSchedule(
			txCtx,
			schedulerDomain.EventClientSecretExpire,
			payload,
			now.Add(grace),
		)
	})
	if err != nil {
		return nil, "", err
	}

	c.cache.Delete(cache.NamespaceClient, clientID.String())
	return newSecret, plainSecret, nil
}

// ExpireSecret completes a graceful rotation: promotes the staged secret and
// revokes the named one. A replay after promotion is a no-op.
func (c *clientUseCase) ExpireSecret(ctx context.Context, clientID uuid.UUID, secretID uuid.UUID) error {
	err := c.txManager.WithTx(ctx, func(txCtx context.Context) error {
		client, err := c.clientRepo.Get(txCtx, clientID)
		if err != nil {
			return err
		}

		secret, err := c.clientSecretRepo.Get(txCtx, secretID)
		if err != nil {
			return err
		}

		if client.NextClientSecretID == nil {
			if secret.Status == authDomain.SecretStatusRevoked {
				return nil
			}
			return authDomain.ErrSecretRotationStateCorrupted
		}

		next, err := c.clientSecretRepo.Get(txCtx, *client.NextClientSecretID)
		if err != nil {
			return err
		}

		next.Status = authDomain.SecretStatusActive
		if err := c.clientSecretRepo.Update(txCtx, next); err != nil {
			return err
		}

		now := time.Now().UTC()
		secret.Status = authDomain.SecretStatusRevoked
		secret.DeletedAt = &now
		if err := c.clientSecretRepo.Update(txCtx, secret); err != nil {
			return err
		}

		client.CurrentClientSecretID = next.ID
		client.NextClientSecretID = nil
		return c.clientRepo.Update(txCtx, client)
	})
	if err != nil {
		return err
	}

	c.cache.Delete(cache.NamespaceClient, clientID.String())
	return nil
}

// grantScope resolves the scope name on the client's API and records the grant.
func (c *clientUseCase) grantScope(ctx context.Context, client *authDomain.Client, scopeName string) error {
	scope, err := c.apiScopeRepo.GetByName(ctx, client.APIID, scopeName)
	if err != nil {
		return err
	}

	grant := &authDomain.ClientScope{
		ID:         uuid.Must(uuid.NewV7()),
		ClientID:   client.ID,
		APIScopeID: scope.ID,
		CreatedAt:  time.Now().UTC(),
	}
	return c.clientScopeRepo.Create(ctx, grant)
}

// GrantScope grants an API scope to the client by name.
func (c *clientUseCase) GrantScope(ctx context.Context, clientID uuid.UUID, scopeName string) error {
	client, err := c.Get(ctx, clientID)
	if err != nil {
		return err
	}
	if err := c.grantScope(ctx, client, scopeName); err != nil {
		return err
	}
	c.cache.Delete(cache.NamespaceClient, clientID.String())
	return nil
}

// RevokeScope removes a scope grant from the client by name.
func (c *clientUseCase) RevokeScope(ctx context.Context, clientID uuid.UUID, scopeName string) error {
	client, err := c.Get(ctx, clientID)
	if err != nil {
		return err
	}

	scope, err := c.apiScopeRepo.GetByName(ctx, client.APIID, scopeName)
	if err != nil {
		return err
	}

	if err := c.clientScopeRepo.Delete(ctx, clientID, scope.ID); err != nil {
		return err
	}
	c.cache.Delete(cache.NamespaceClient, clientID.String())
	return nil
}
