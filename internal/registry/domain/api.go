package domain

import (
	"time"

	"github.com/google/uuid"
)

// SigningAlgorithm identifies how an API's tokens are signed.
type SigningAlgorithm string

const (
	// HMACSHA256 signs tokens with a shared 256-bit symmetric key (HS256).
	HMACSHA256 SigningAlgorithm = "HS256"

	// RSASHA256 signs tokens with a 2048-bit RSA key (RS256). The public key
	// is published as a JWK for external verifiers.
	RSASHA256 SigningAlgorithm = "RS256"
)

// API is a signing domain within a workspace. At most two signing secrets
// are live at any time: the current one and at most one pending "next"
// created by rotation.
type API struct {
	ID                     uuid.UUID
	WorkspaceID            uuid.UUID
	Name                   string
	Algorithm              SigningAlgorithm
	CurrentSigningSecretID uuid.UUID
	NextSigningSecretID    *uuid.UUID
	// TokenExpiration is the lifetime of issued tokens. Zero means the
	// system default applies.
	TokenExpiration time.Duration
	CreatedAt       time.Time
}

// ApiScope is a named permission unique within an API, granted to clients
// through join records.
type ApiScope struct {
	ID          uuid.UUID
	APIID       uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
}
