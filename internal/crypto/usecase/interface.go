// Package usecase implements the envelope encryption business logic.
//
// The envelope has two tiers: the customer master key in the external custody
// backend wraps per-workspace data keys, and data keys encrypt signing
// material. Decryption results live in memory only; every process restart
// re-decrypts from the envelope.
package usecase

import (
	"context"

	"github.com/google/uuid"

	cryptoDomain "github.com/keygate/keygate/internal/crypto/domain"
)

// DataKeyRepository defines the interface for data key persistence.
// Implementations participate in the caller's transaction when one is in the
// context via database.GetTx.
type DataKeyRepository interface {
	Create(ctx context.Context, dataKey *cryptoDomain.DataKey) error
	Get(ctx context.Context, dataKeyID uuid.UUID) (*cryptoDomain.DataKey, error)
}

// EnvelopeUseCase defines the envelope encryption operations.
type EnvelopeUseCase interface {
	// EncryptWithCustomerKey wraps plaintext with the customer master key in
	// the custody backend. Used only to wrap per-workspace data keys.
	EncryptWithCustomerKey(ctx context.Context, plaintext []byte) ([]byte, error)

	// DecryptWithCustomerKey unwraps ciphertext with the customer master key.
	DecryptWithCustomerKey(ctx context.Context, ciphertext []byte) ([]byte, error)

	// CreateDataKey generates a fresh 32-byte data key, wraps it via the
	// custody backend and persists only the wrapped form.
	CreateDataKey(ctx context.Context, alg cryptoDomain.Algorithm) (*cryptoDomain.DataKey, error)

	// EncryptWithDataKey unwraps the named data key and encrypts plaintext
	// under it, returning ciphertext and IV. Fails with ErrDataKeyNotFound if
	// no record exists and ErrDecryptFailed if the custody backend rejects
	// the unwrap.
	EncryptWithDataKey(ctx context.Context, dataKeyID uuid.UUID, plaintext []byte) (ciphertext, iv []byte, err error)

	// DecryptWithDataKey is the inverse of EncryptWithDataKey. Fails with
	// ErrAuthenticationFailed if the AEAD tag does not verify.
	DecryptWithDataKey(ctx context.Context, dataKeyID uuid.UUID, ciphertext, iv []byte) ([]byte, error)
}
