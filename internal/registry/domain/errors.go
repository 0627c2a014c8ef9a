package domain

import (
	"github.com/keygate/keygate/internal/errors"
)

// Registry errors.
var (
	// ErrWorkspaceNotFound indicates a workspace with the specified ID was not found.
	ErrWorkspaceNotFound = errors.Wrap(errors.ErrNotFound, "workspace not found")

	// ErrAPINotFound indicates an API with the specified ID was not found.
	ErrAPINotFound = errors.Wrap(errors.ErrNotFound, "api not found")

	// ErrScopeNotFound indicates a scope with the specified name was not found on the API.
	ErrScopeNotFound = errors.Wrap(errors.ErrNotFound, "scope not found")

	// ErrDuplicateScopeName indicates a scope with the same name already exists on the API.
	ErrDuplicateScopeName = errors.Wrap(errors.ErrConflict, "scope name already exists for this api")

	// ErrUnsupportedSigningAlgorithm indicates the requested signing algorithm
	// is not supported. Supported: HS256, RS256.
	ErrUnsupportedSigningAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported signing algorithm")
)
