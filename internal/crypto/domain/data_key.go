// Package domain defines the envelope encryption domain entities.
//
// Each workspace owns one data encryption key (DEK). The DEK is wrapped by a
// customer master key held in an external custody backend and is the only key
// that ever touches signing material. A compromised DEK exposes one
// workspace's secrets, never the root key.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DataKey is a per-workspace data encryption key record. Only the wrapped
// form is persisted; the plaintext key exists in memory for the duration of
// a single encrypt or decrypt call and is zeroed afterwards.
type DataKey struct {
	ID         uuid.UUID // Unique identifier (UUIDv7)
	Algorithm  Algorithm // AEAD algorithm for payloads under this key
	WrappedKey []byte    // The DEK encrypted by the custody backend
	CreatedAt  time.Time
}
