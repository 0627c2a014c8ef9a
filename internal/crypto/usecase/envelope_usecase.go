package usecase

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/keygate/keygate/internal/crypto/domain"
	cryptoService "github.com/keygate/keygate/internal/crypto/service"
	apperrors "github.com/keygate/keygate/internal/errors"
)

type envelopeUseCase struct {
	keeper      cryptoDomain.Keeper
	dataKeyRepo DataKeyRepository
	aeadManager cryptoService.AEADManager
}

// NewEnvelopeUseCase creates a new EnvelopeUseCase instance.
func NewEnvelopeUseCase(
	keeper cryptoDomain.Keeper,
	dataKeyRepo DataKeyRepository,
	aeadManager cryptoService.AEADManager,
) EnvelopeUseCase {
	return &envelopeUseCase{
		keeper:      keeper,
		dataKeyRepo: dataKeyRepo,
		aeadManager: aeadManager,
	}
}

// EncryptWithCustomerKey wraps plaintext with the customer master key.
func (e *envelopeUseCase) EncryptWithCustomerKey(ctx context.Context, plaintext []byte) ([]byte, error) {
	ciphertext, err := e.keeper.Encrypt(ctx, plaintext)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, "custody encrypt failed: "+err.Error())
	}
	return ciphertext, nil
}

// DecryptWithCustomerKey unwraps ciphertext with the customer master key.
func (e *envelopeUseCase) DecryptWithCustomerKey(ctx context.Context, ciphertext []byte) ([]byte, error) {
	plaintext, err := e.keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptFailed
	}
	return plaintext, nil
}

// CreateDataKey generates, wraps and persists a new data key.
func (e *envelopeUseCase) CreateDataKey(
	ctx context.Context,
	alg cryptoDomain.Algorithm,
) (*cryptoDomain.DataKey, error) {
	switch alg {
	case cryptoDomain.AESGCM, cryptoDomain.XChaCha20:
	default:
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}

	key := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, apperrors.Wrap(err, "failed to generate data key")
	}
	defer cryptoDomain.Zero(key)

	wrapped, err := e.EncryptWithCustomerKey(ctx, key)
	if err != nil {
		return nil, err
	}

	dataKey := &cryptoDomain.DataKey{
		ID:         uuid.Must(uuid.NewV7()),
		Algorithm:  alg,
		WrappedKey: wrapped,
		CreatedAt:  time.Now(),
	}

	if err := e.dataKeyRepo.Create(ctx, dataKey); err != nil {
		return nil, err
	}

	return dataKey, nil
}

// EncryptWithDataKey encrypts plaintext under the named data key.
func (e *envelopeUseCase) EncryptWithDataKey(
	ctx context.Context,
	dataKeyID uuid.UUID,
	plaintext []byte,
) (ciphertext, iv []byte, err error) {
	aead, err := e.cipherFor(ctx, dataKeyID)
	if err != nil {
		return nil, nil, err
	}

	ciphertext, iv, err = aead.Encrypt(plaintext, nil)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternal, "encrypt failed: "+err.Error())
	}
	return ciphertext, iv, nil
}

// DecryptWithDataKey decrypts ciphertext under the named data key. A failed
// tag verification surfaces as ErrAuthenticationFailed, never as a nil result.
func (e *envelopeUseCase) DecryptWithDataKey(
	ctx context.Context,
	dataKeyID uuid.UUID,
	ciphertext, iv []byte,
) ([]byte, error) {
	aead, err := e.cipherFor(ctx, dataKeyID)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Decrypt(ciphertext, iv, nil)
	if err != nil {
		return nil, cryptoDomain.ErrAuthenticationFailed
	}
	return plaintext, nil
}

// cipherFor loads and unwraps the data key, returning a cipher for its
// algorithm. The plaintext key is zeroed before returning; the cipher keeps
// its own key schedule internally.
func (e *envelopeUseCase) cipherFor(ctx context.Context, dataKeyID uuid.UUID) (cryptoService.AEAD, error) {
	dataKey, err := e.dataKeyRepo.Get(ctx, dataKeyID)
	if err != nil {
		return nil, err
	}

	key, err := e.DecryptWithCustomerKey(ctx, dataKey.WrappedKey)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	return e.aeadManager.CreateCipher(key, dataKey.Algorithm)
}
