package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/keygate/keygate/internal/database"
	registryDomain "github.com/keygate/keygate/internal/registry/domain"
)

// apiUseCase implements the APIUseCase interface.
type apiUseCase struct {
	txManager     database.TxManager
	workspaceRepo WorkspaceRepository
	apiRepo       APIRepository
	apiScopeRepo  ApiScopeRepository
	provisioner   SigningSecretProvisioner
}

// NewAPIUseCase creates a new API use case.
func NewAPIUseCase(
	txManager database.TxManager,
	workspaceRepo WorkspaceRepository,
	apiRepo APIRepository,
	apiScopeRepo ApiScopeRepository,
	provisioner SigningSecretProvisioner,
) APIUseCase {
	return &apiUseCase{
		txManager:     txManager,
		workspaceRepo: workspaceRepo,
		apiRepo:       apiRepo,
		apiScopeRepo:  apiScopeRepo,
		provisioner:   provisioner,
	}
}

// Create provisions an API with its first active signing secret. The secret
// and the API row are written in one transaction so an API never exists
// without signing material.
func (a *apiUseCase) Create(
	ctx context.Context,
	workspaceID uuid.UUID,
	name string,
	algorithm registryDomain.SigningAlgorithm,
	tokenExpiration time.Duration,
) (*registryDomain.API, error) {
	switch algorithm {
	case registryDomain.HMACSHA256, registryDomain.RSASHA256:
	default:
		return nil, registryDomain.ErrUnsupportedSigningAlgorithm
	}

	var api *registryDomain.API

	err := a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		workspace, err := a.workspaceRepo.Get(txCtx, workspaceID)
		if err != nil {
			return err
		}

		apiID := uuid.Must(uuid.NewV7())

		secretID, err := a.provisioner.ProvisionActive(txCtx, workspace.DataKeyID, apiID, algorithm)
		if err != nil {
			return err
		}

		api = &registryDomain.API{
			ID:                     apiID,
			WorkspaceID:            workspace.ID,
			Name:                   name,
			Algorithm:              algorithm,
			CurrentSigningSecretID: secretID,
			TokenExpiration:        tokenExpiration,
			CreatedAt:              time.Now().UTC(),
		}

		return a.apiRepo.Create(txCtx, api)
	})
	if err != nil {
		return nil, err
	}

	return api, nil
}

// Get retrieves an API by ID.
func (a *apiUseCase) Get(ctx context.Context, apiID uuid.UUID) (*registryDomain.API, error) {
	return a.apiRepo.Get(ctx, apiID)
}

// AddScope defines a new scope on the API.
func (a *apiUseCase) AddScope(
	ctx context.Context,
	apiID uuid.UUID,
	name, description string,
) (*registryDomain.ApiScope, error) {
	if _, err := a.apiRepo.Get(ctx, apiID); err != nil {
		return nil, err
	}

	scope := &registryDomain.ApiScope{
		ID:          uuid.Must(uuid.NewV7()),
		APIID:       apiID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := a.apiScopeRepo.Create(ctx, scope); err != nil {
		return nil, err
	}

	return scope, nil
}

// RemoveScope deletes a scope by name. Existing grants referencing the scope
// keep their records; verification treats grants on deleted scopes as not
// satisfied because the scope no longer resolves.
func (a *apiUseCase) RemoveScope(ctx context.Context, apiID uuid.UUID, name string) error {
	scope, err := a.apiScopeRepo.GetByName(ctx, apiID, name)
	if err != nil {
		return err
	}
	return a.apiScopeRepo.Delete(ctx, scope.ID)
}

// ListScopes retrieves all scopes defined on an API.
func (a *apiUseCase) ListScopes(ctx context.Context, apiID uuid.UUID) ([]*registryDomain.ApiScope, error) {
	return a.apiScopeRepo.ListByAPI(ctx, apiID)
}
