package domain

import (
	"github.com/keygate/keygate/internal/errors"
)

// Signing secret errors.
var (
	// ErrSigningSecretNotFound indicates a signing secret with the specified ID was not found.
	ErrSigningSecretNotFound = errors.Wrap(errors.ErrNotFound, "signing secret not found")

	// ErrPendingRotationExists indicates the API already has a rotation in
	// flight. The pending secret must be promoted or the grace window must
	// elapse before rotating again.
	ErrPendingRotationExists = errors.Wrap(errors.ErrConflict, "a pending signing secret rotation already exists")

	// ErrRotationStateCorrupted indicates an expire event fired for a secret
	// that is still active while no successor is staged. This should never
	// happen and points at manual interference with rotation state.
	ErrRotationStateCorrupted = errors.Wrap(errors.ErrInternal, "rotation state corrupted")

	// ErrSecretNotActive indicates a signing attempt with a secret that is
	// pending or revoked.
	ErrSecretNotActive = errors.Wrap(errors.ErrInternal, "signing secret is not active")
)
