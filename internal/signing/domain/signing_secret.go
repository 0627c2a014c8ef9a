// Package domain defines signing secret entities and their lifecycle.
//
// A signing secret holds the key material an API signs tokens with, stored
// envelope-encrypted under the owning workspace's data key. Lifecycle:
// pending (created by rotation, not yet signing), active (the signer),
// revoked (retired, tokens signed with it no longer verify).
package domain

import (
	"time"

	"github.com/google/uuid"

	registryDomain "github.com/keygate/keygate/internal/registry/domain"
)

// SecretStatus represents the lifecycle state of a signing secret.
type SecretStatus string

const (
	// SecretStatusPending marks a secret created by a graceful rotation that
	// has not been promoted yet.
	SecretStatusPending SecretStatus = "pending"

	// SecretStatusActive marks the secret currently used for signing.
	SecretStatusActive SecretStatus = "active"

	// SecretStatusRevoked marks a retired secret.
	SecretStatusRevoked SecretStatus = "revoked"
)

// SigningSecret is an API's signing key, persisted only in encrypted form.
// For HS256 the ciphertext holds the 32-byte HMAC key. For RS256 it holds
// the PKCS#1 private key and PublicKey carries the PKIX public key, which is
// safe to store and publish in the clear.
type SigningSecret struct {
	ID         uuid.UUID
	APIID      uuid.UUID
	DataKeyID  uuid.UUID
	Algorithm  registryDomain.SigningAlgorithm
	Ciphertext []byte
	IV         []byte
	PublicKey  []byte
	Status     SecretStatus
	CreatedAt  time.Time
	DeletedAt  *time.Time
}

// KeyMaterial is a decrypted signing key. It lives in memory only and the
// Secret bytes should be zeroed after use.
type KeyMaterial struct {
	Algorithm registryDomain.SigningAlgorithm
	Status    SecretStatus
	Secret    []byte
	PublicKey []byte
}
