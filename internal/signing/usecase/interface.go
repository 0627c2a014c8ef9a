// Package usecase implements signing secret lifecycle management: initial
// provisioning, graceful rotation and scheduled expiry.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	registryDomain "github.com/keygate/keygate/internal/registry/domain"
	signingDomain "github.com/keygate/keygate/internal/signing/domain"
)

// SigningSecretRepository defines signing secret persistence operations.
type SigningSecretRepository interface {
	Create(ctx context.Context, secret *signingDomain.SigningSecret) error
	Get(ctx context.Context, secretID uuid.UUID) (*signingDomain.SigningSecret, error)
	Update(ctx context.Context, secret *signingDomain.SigningSecret) error
}

// APIRepository is the slice of registry persistence the signing module
// needs: reading an API's rotation pointers and updating them on promotion.
type APIRepository interface {
	Get(ctx context.Context, apiID uuid.UUID) (*registryDomain.API, error)
	Update(ctx context.Context, api *registryDomain.API) error
}

// SigningSecretUseCase defines signing secret lifecycle operations.
type SigningSecretUseCase interface {
	// ProvisionActive creates the first active signing secret for a new API.
	// Runs inside the API creation transaction.
	ProvisionActive(
		ctx context.Context,
		dataKeyID uuid.UUID,
		apiID uuid.UUID,
		algorithm registryDomain.SigningAlgorithm,
	) (uuid.UUID, error)

	// Rotate stages a new signing secret for the API. With a zero grace the
	// new secret becomes the signer immediately and the old one is revoked.
	// With a positive grace the new secret is staged as pending and an expiry
	// event is scheduled; the old secret keeps signing and verifying until
	// the event fires. Fails with ErrPendingRotationExists while a previous
	// rotation is still in its grace window.
	Rotate(ctx context.Context, apiID uuid.UUID, grace time.Duration) (*signingDomain.SigningSecret, error)

	// Expire completes a graceful rotation: promotes the staged secret and
	// revokes the named one. Idempotent, since the scheduler delivers
	// at-least-once: a replay after promotion is a no-op.
	Expire(ctx context.Context, apiID uuid.UUID, secretID uuid.UUID) error

	// KeyMaterial returns the decrypted signing key for a secret. The caller
	// owns the returned Secret bytes and should zero them after use.
	KeyMaterial(ctx context.Context, secretID uuid.UUID) (*signingDomain.KeyMaterial, error)

	// JWKS returns the API's published verification keys: the current secret
	// and, during a grace window, the staged one. Empty for HMAC APIs.
	JWKS(ctx context.Context, apiID uuid.UUID) (*signingDomain.JWKSet, error)
}
