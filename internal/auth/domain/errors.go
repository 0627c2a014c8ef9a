package domain

import (
	"github.com/keygate/keygate/internal/errors"
)

// Auth errors.
var (
	// ErrClientNotFound indicates a client with the specified ID was not
	// found or is soft-deleted.
	ErrClientNotFound = errors.Wrap(errors.ErrNotFound, "client not found")

	// ErrClientSecretNotFound indicates a client secret with the specified ID was not found.
	ErrClientSecretNotFound = errors.Wrap(errors.ErrNotFound, "client secret not found")

	// ErrInvalidCredentials indicates the presented secret matches none of
	// the client's live credentials.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid client credentials")

	// ErrPendingSecretRotationExists indicates the client already has a
	// rotation in flight.
	ErrPendingSecretRotationExists = errors.Wrap(errors.ErrConflict, "a pending client secret rotation already exists")

	// ErrSecretRotationStateCorrupted indicates an expire event fired for a
	// secret that is still live while no successor is staged.
	ErrSecretRotationStateCorrupted = errors.Wrap(errors.ErrInternal, "client secret rotation state corrupted")
)
