// Package usecase implements workspace and API management logic.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	registryDomain "github.com/keygate/keygate/internal/registry/domain"
)

// WorkspaceRepository defines the interface for workspace persistence.
type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *registryDomain.Workspace) error
	Get(ctx context.Context, workspaceID uuid.UUID) (*registryDomain.Workspace, error)
}

// APIRepository defines the interface for API persistence.
type APIRepository interface {
	Create(ctx context.Context, api *registryDomain.API) error
	Update(ctx context.Context, api *registryDomain.API) error
	Get(ctx context.Context, apiID uuid.UUID) (*registryDomain.API, error)
}

// ApiScopeRepository defines the interface for API scope persistence.
type ApiScopeRepository interface {
	Create(ctx context.Context, scope *registryDomain.ApiScope) error
	GetByName(ctx context.Context, apiID uuid.UUID, name string) (*registryDomain.ApiScope, error)
	ListByAPI(ctx context.Context, apiID uuid.UUID) ([]*registryDomain.ApiScope, error)
	Delete(ctx context.Context, scopeID uuid.UUID) error
}

// SigningSecretProvisioner creates the first active signing secret for a new
// API. Implemented by the signing module; defined here so API creation can
// provision signing material without a package cycle.
type SigningSecretProvisioner interface {
	ProvisionActive(
		ctx context.Context,
		dataKeyID uuid.UUID,
		apiID uuid.UUID,
		algorithm registryDomain.SigningAlgorithm,
	) (uuid.UUID, error)
}

// WorkspaceUseCase defines workspace management operations.
type WorkspaceUseCase interface {
	// Create provisions a workspace together with its data encryption key.
	Create(ctx context.Context, name string) (*registryDomain.Workspace, error)
	Get(ctx context.Context, workspaceID uuid.UUID) (*registryDomain.Workspace, error)
}

// APIUseCase defines API and scope management operations.
type APIUseCase interface {
	// Create provisions an API with its first active signing secret. A zero
	// tokenExpiration means issued tokens use the system default lifetime.
	Create(
		ctx context.Context,
		workspaceID uuid.UUID,
		name string,
		algorithm registryDomain.SigningAlgorithm,
		tokenExpiration time.Duration,
	) (*registryDomain.API, error)
	Get(ctx context.Context, apiID uuid.UUID) (*registryDomain.API, error)

	// AddScope defines a new scope on the API. Fails with
	// ErrDuplicateScopeName when the name is already taken on this API.
	AddScope(ctx context.Context, apiID uuid.UUID, name, description string) (*registryDomain.ApiScope, error)
	RemoveScope(ctx context.Context, apiID uuid.UUID, name string) error
	ListScopes(ctx context.Context, apiID uuid.UUID) ([]*registryDomain.ApiScope, error)
}
