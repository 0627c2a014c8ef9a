// Package usecase implements the OAuth2 client-credentials flows: client
// lifecycle, token issuance and token verification.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/keygate/keygate/internal/auth/domain"
	registryDomain "github.com/keygate/keygate/internal/registry/domain"
	signingDomain "github.com/keygate/keygate/internal/signing/domain"
)

// ClientRepository defines client persistence operations. Get returns
// soft-deleted clients with DeletedAt set; filtering is business logic.
type ClientRepository interface {
	Create(ctx context.Context, client *authDomain.Client) error
	Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error)
	Update(ctx context.Context, client *authDomain.Client) error
}

// ClientSecretRepository defines client secret persistence operations.
type ClientSecretRepository interface {
	Create(ctx context.Context, secret *authDomain.ClientSecret) error
	Get(ctx context.Context, secretID uuid.UUID) (*authDomain.ClientSecret, error)
	Update(ctx context.Context, secret *authDomain.ClientSecret) error
}

// ClientScopeRepository defines scope grant persistence operations.
type ClientScopeRepository interface {
	Create(ctx context.Context, grant *authDomain.ClientScope) error
	Delete(ctx context.Context, clientID, apiScopeID uuid.UUID) error
	// ListScopeNames resolves the client's grants to live scope names.
	// Grants pointing at deleted scopes drop out of the result.
	ListScopeNames(ctx context.Context, clientID uuid.UUID) ([]string, error)
}

// APIRepository is the slice of registry persistence the auth module reads.
type APIRepository interface {
	Get(ctx context.Context, apiID uuid.UUID) (*registryDomain.API, error)
}

// ApiScopeRepository resolves scope names on an API.
type ApiScopeRepository interface {
	GetByName(ctx context.Context, apiID uuid.UUID, name string) (*registryDomain.ApiScope, error)
}

// SigningKeyProvider supplies decrypted signing material. Implemented by the
// signing module.
type SigningKeyProvider interface {
	KeyMaterial(ctx context.Context, secretID uuid.UUID) (*signingDomain.KeyMaterial, error)
}

// CreateClientInput carries the parameters for registering a client.
type CreateClientInput struct {
	WorkspaceID    uuid.UUID
	APIID          uuid.UUID
	Name           string
	ForWorkspaceID *uuid.UUID
	RateLimit      *authDomain.RateLimitConfig
	Metadata       map[string]string
	ScopeNames     []string
}

// ClientUseCase defines client lifecycle operations.
type ClientUseCase interface {
	// Create registers a client with its first secret and scope grants. The
	// plaintext secret is returned once and never stored.
	Create(ctx context.Context, input CreateClientInput) (*authDomain.Client, string, error)
	Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error)

	// Delete soft-deletes the client. Issued tokens fail verification as
	// soon as the cached copy expires.
	Delete(ctx context.Context, clientID uuid.UUID) error

	// RotateSecret stages a new client secret. A zero grace revokes the old
	// secret immediately; a positive grace keeps both usable and schedules
	// the old one's expiry. Fails with ErrPendingSecretRotationExists while
	// a previous rotation is in flight.
	RotateSecret(ctx context.Context, clientID uuid.UUID, grace time.Duration) (*authDomain.ClientSecret, string, error)

	// ExpireSecret completes a graceful rotation. Idempotent under
	// at-least-once delivery.
	ExpireSecret(ctx context.Context, clientID uuid.UUID, secretID uuid.UUID) error

	GrantScope(ctx context.Context, clientID uuid.UUID, scopeName string) error
	RevokeScope(ctx context.Context, clientID uuid.UUID, scopeName string) error
}

// TokenUseCase defines token issuance and verification.
type TokenUseCase interface {
	// Issue authenticates the client secret and mints a signed access token.
	Issue(ctx context.Context, clientID uuid.UUID, clientSecret string) (*authDomain.AccessToken, error)

	// Verify checks a presented token. Business-rule failures come back as
	// Verification with Valid=false, never as an error; the error return is
	// reserved for repository and custody failures.
	Verify(ctx context.Context, token string, requiredScopes *authDomain.Query) (*authDomain.Verification, error)
}
