package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/keygate/keygate/internal/cache"
	cryptoDomain "github.com/keygate/keygate/internal/crypto/domain"
	cryptoUsecase "github.com/keygate/keygate/internal/crypto/usecase"
	"github.com/keygate/keygate/internal/database"
	registryDomain "github.com/keygate/keygate/internal/registry/domain"
	schedulerDomain "github.com/keygate/keygate/internal/scheduler/domain"
	schedulerUsecase "github.com/keygate/keygate/internal/scheduler/usecase"
	signingDomain "github.com/keygate/keygate/internal/signing/domain"
	signingService "github.com/keygate/keygate/internal/signing/service"
)

// signingSecretUseCase implements the SigningSecretUseCase interface.
type signingSecretUseCase struct {
	txManager  database.TxManager
	secretRepo SigningSecretRepository
	apiRepo    APIRepository
	envelope   cryptoUsecase.EnvelopeUseCase
	keyManager signingService.KeyManager
	scheduler  schedulerUsecase.Scheduler
	cache      *cache.Cache
}

// NewSigningSecretUseCase creates a new signing secret use case.
func NewSigningSecretUseCase(
	txManager database.TxManager,
	secretRepo SigningSecretRepository,
	apiRepo APIRepository,
	envelope cryptoUsecase.EnvelopeUseCase,
	keyManager signingService.KeyManager,
	scheduler schedulerUsecase.Scheduler,
	entityCache *cache.Cache,
) SigningSecretUseCase {
	return &signingSecretUseCase{
		txManager:  txManager,
		secretRepo: secretRepo,
		apiRepo:    apiRepo,
		envelope:   envelope,
		keyManager: keyManager,
		scheduler:  scheduler,
		cache:      entityCache,
	}
}

// createSecret generates fresh key material, envelope-encrypts it under the
// workspace's data key and persists the record.
func (s *signingSecretUseCase) createSecret(
	ctx context.Context,
	dataKeyID uuid.UUID,
	apiID uuid.UUID,
	algorithm registryDomain.SigningAlgorithm,
	status signingDomain.SecretStatus,
) (*signingDomain.SigningSecret, error) {
	pair, err := s.keyManager.GenerateKeyPair(algorithm)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(pair.Secret)

	ciphertext, iv, err := s.envelope.EncryptWithDataKey(ctx, dataKeyID, pair.Secret)
	if err != nil {
		return nil, err
	}

	secret := &signingDomain.SigningSecret{
		ID:         uuid.Must(uuid.NewV7()),
		APIID:      apiID,
		DataKeyID:  dataKeyID,
		Algorithm:  algorithm,
		Ciphertext: ciphertext,
		IV:         iv,
		PublicKey:  pair.PublicKey,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.secretRepo.Create(ctx, secret); err != nil {
		return nil, err
	}
	return secret, nil
}

// ProvisionActive creates the first active signing secret for a new API.
func (s *signingSecretUseCase) ProvisionActive(
	ctx context.Context,
	dataKeyID uuid.UUID,
	apiID uuid.UUID,
	algorithm registryDomain.SigningAlgorithm,
) (uuid.UUID, error) {
	secret, err := s.createSecret(ctx, dataKeyID, apiID, algorithm, signingDomain.SecretStatusActive)
	if err != nil {
		return uuid.Nil, err
	}
	return secret.ID, nil
}

// Rotate stages a new signing secret for the API.
func (s *signingSecretUseCase) Rotate(
	ctx context.Context,
	apiID uuid.UUID,
	grace time.Duration,
) (*signingDomain.SigningSecret, error) {
	var newSecret *signingDomain.SigningSecret

	err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		api, err := s.apiRepo.Get(txCtx, apiID)
		if err != nil {
			return err
		}

		if api.NextSigningSecretID != nil {
			return signingDomain.ErrPendingRotationExists
		}

		current, err := s.secretRepo.Get(txCtx, api.CurrentSigningSecretID)
		if err != nil {
			return err
		}

		status := signingDomain.SecretStatusPending
		if grace <= 0 {
			status = signingDomain.SecretStatusActive
		}

		newSecret, err = s.createSecret(txCtx, current.DataKeyID, apiID, api.Algorithm, status)
		if err != nil {
			return err
		}

		if grace <= 0 {
			// Immediate cutover: the old secret stops verifying right away.
			now := time.Now().UTC()
			current.Status = signingDomain.SecretStatusRevoked
			current.DeletedAt = &now
			if err := s.secretRepo.Update(txCtx, current); err != nil {
				return err
			}

			api.CurrentSigningSecretID = newSecret.ID
			return s.apiRepo.Update(txCtx, api)
		}

		api.NextSigningSecretID = &newSecret.ID
		if err := s.apiRepo.Update(txCtx, api); err != nil {
			return err
		}

		payload := schedulerDomain.SigningSecretExpirePayload{
			APIID:           apiID,
			SigningSecretID: current.ID,
		}
		return s.scheduler.CreateOneTimeSchedule(
			txCtx,
			schedulerDomain.EventSigningSecretExpire,
			payload,
			time.Now().UTC().Add(grace),
		)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(apiID)
	return newSecret, nil
}

// Expire completes a graceful rotation: promotes the staged secret and
// revokes the named one.
func (s *signingSecretUseCase) Expire(ctx context.Context, apiID uuid.UUID, secretID uuid.UUID) error {
	err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		api, err := s.apiRepo.Get(txCtx, apiID)
		if err != nil {
			return err
		}

		secret, err := s.secretRepo.Get(txCtx, secretID)
		if err != nil {
			return err
		}

		if api.NextSigningSecretID == nil {
			if secret.Status == signingDomain.SecretStatusRevoked {
				// Redelivery of an already-completed rotation.
				return nil
			}
			return signingDomain.ErrRotationStateCorrupted
		}

		next, err := s.secretRepo.Get(txCtx, *api.NextSigningSecretID)
		if err != nil {
			return err
		}

		next.Status = signingDomain.SecretStatusActive
		if err := s.secretRepo.Update(txCtx, next); err != nil {
			return err
		}

		now := time.Now().UTC()
		secret.Status = signingDomain.SecretStatusRevoked
		secret.DeletedAt = &now
		if err := s.secretRepo.Update(txCtx, secret); err != nil {
			return err
		}

		api.CurrentSigningSecretID = next.ID
		api.NextSigningSecretID = nil
		return s.apiRepo.Update(txCtx, api)
	})
	if err != nil {
		return err
	}

	s.invalidate(apiID)
	s.cache.Delete(cache.NamespaceSigningSecret, secretID.String())
	return nil
}

// KeyMaterial returns the decrypted signing key for a secret.
func (s *signingSecretUseCase) KeyMaterial(
	ctx context.Context,
	secretID uuid.UUID,
) (*signingDomain.KeyMaterial, error) {
	secret, err := s.secretRepo.Get(ctx, secretID)
	if err != nil {
		return nil, err
	}

	plaintext, err := s.envelope.DecryptWithDataKey(ctx, secret.DataKeyID, secret.Ciphertext, secret.IV)
	if err != nil {
		return nil, err
	}

	return &signingDomain.KeyMaterial{
		Algorithm: secret.Algorithm,
		Status:    secret.Status,
		Secret:    plaintext,
		PublicKey: secret.PublicKey,
	}, nil
}

// JWKS returns the API's published verification keys.
func (s *signingSecretUseCase) JWKS(ctx context.Context, apiID uuid.UUID) (*signingDomain.JWKSet, error) {
	api, err := s.apiRepo.Get(ctx, apiID)
	if err != nil {
		return nil, err
	}

	set := &signingDomain.JWKSet{Keys: []signingDomain.JWK{}}
	if api.Algorithm != registryDomain.RSASHA256 {
		return set, nil
	}

	secretIDs := []uuid.UUID{api.CurrentSigningSecretID}
	if api.NextSigningSecretID != nil {
		secretIDs = append(secretIDs, *api.NextSigningSecretID)
	}

	for _, secretID := range secretIDs {
		secret, err := s.secretRepo.Get(ctx, secretID)
		if err != nil {
			return nil, err
		}
		jwk, err := signingService.RSAPublicKeyToJWK(secret.ID, secret.PublicKey)
		if err != nil {
			return nil, err
		}
		set.Keys = append(set.Keys, jwk)
	}

	return set, nil
}

// invalidate drops cached copies touched by a rotation.
func (s *signingSecretUseCase) invalidate(apiID uuid.UUID) {
	s.cache.Delete(cache.NamespaceAPI, apiID.String())
}
