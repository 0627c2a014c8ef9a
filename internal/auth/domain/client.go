// Package domain defines OAuth2 client entities, scope queries and token
// verification results.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// RateLimitConfig overrides the system default token bucket for one client.
type RateLimitConfig struct {
	BucketSize     int
	RefillAmount   int
	RefillInterval time.Duration
}

// Client is an OAuth2 principal registered against one API. A non-nil
// ForWorkspaceID marks a root client empowered to manage that workspace's
// resources. At most two client secrets are live at any time: the current
// one and at most one pending "next" created by rotation.
type Client struct {
	ID                    uuid.UUID
	APIID                 uuid.UUID
	WorkspaceID           uuid.UUID
	ForWorkspaceID        *uuid.UUID
	Name                  string
	CurrentClientSecretID uuid.UUID
	NextClientSecretID    *uuid.UUID
	// RateLimit overrides the system default bucket when non-nil.
	RateLimit *RateLimitConfig
	// Metadata is an opaque key-value blob, at most 1024 bytes serialized.
	Metadata map[string]string
	// Version increments on credential-invalidating changes. Tokens embed
	// the version at issuance; a mismatch at verification rejects the token.
	Version   int
	CreatedAt time.Time
	DeletedAt *time.Time
}

// ClientSecret is a hashed client credential. Only the Argon2id digest is
// persisted; the plaintext is returned once at creation time.
type ClientSecret struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	Digest    string
	Status    SecretStatus
	CreatedAt time.Time
	DeletedAt *time.Time
}

// SecretStatus represents the lifecycle state of a client secret.
type SecretStatus string

const (
	// SecretStatusPending marks a secret staged by a graceful rotation. It
	// already authenticates issue requests so callers can migrate early.
	SecretStatusPending SecretStatus = "pending"

	// SecretStatusActive marks the primary credential.
	SecretStatusActive SecretStatus = "active"

	// SecretStatusRevoked marks a retired credential.
	SecretStatusRevoked SecretStatus = "revoked"
)

// ClientScope grants one API scope to one client.
type ClientScope struct {
	ID         uuid.UUID
	ClientID   uuid.UUID
	APIScopeID uuid.UUID
	CreatedAt  time.Time
}
