package service

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/keygate/keygate/internal/crypto/domain"

	// Register all custody provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KeeperService opens a handle to the external key custody backend holding
// the customer master key.
type KeeperService interface {
	// OpenKeeper opens a keeper for the configured custody provider.
	// Returns an error if the key URI is invalid or the connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.Keeper, error)
}

// keeperService implements KeeperService using gocloud.dev/secrets.
type keeperService struct{}

// NewKeeperService creates a new keeper service instance.
func NewKeeperService() KeeperService {
	return &keeperService{}
}

// OpenKeeper opens a keeper for the custody provider identified by keyURI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func (k *keeperService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.Keeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open custody keeper: %w", err)
	}
	return keeper, nil
}
