package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/keygate/keygate/internal/database"
	apperrors "github.com/keygate/keygate/internal/errors"
	registryDomain "github.com/keygate/keygate/internal/registry/domain"
)

// MySQLAPIRepository implements API persistence for MySQL.
type MySQLAPIRepository struct {
	db *sql.DB
}

// NewMySQLAPIRepository creates a new MySQL API repository.
func NewMySQLAPIRepository(db *sql.DB) *MySQLAPIRepository {
	return &MySQLAPIRepository{db: db}
}

// Create inserts a new API.
func (m *MySQLAPIRepository) Create(ctx context.Context, api *registryDomain.API) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO apis (id, workspace_id, name, algorithm, current_signing_secret_id, next_signing_secret_id, token_expiration_seconds, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	// Convert UUIDs to bytes for MySQL BINARY(16)
	idBytes, err := api.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	workspaceIDBytes, err := api.WorkspaceID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal workspace UUID")
	}
	currentIDBytes, err := api.CurrentSigningSecretID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal signing secret UUID")
	}
	nextIDBytes, err := marshalOptionalUUID(api.NextSigningSecretID)
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		workspaceIDBytes,
		api.Name,
		api.Algorithm,
		currentIDBytes,
		nextIDBytes,
		int64(api.TokenExpiration/time.Second),
		api.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create api")
	}
	return nil
}

// Update modifies an existing API. Rotation promotion runs this inside a
// transaction so verifiers never observe a half-rotated state.
func (m *MySQLAPIRepository) Update(ctx context.Context, api *registryDomain.API) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE apis
			  SET name = ?,
			      algorithm = ?,
			      current_signing_secret_id = ?,
			      next_signing_secret_id = ?,
			      token_expiration_seconds = ?
			  WHERE id = ?`

	idBytes, err := api.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	currentIDBytes, err := api.CurrentSigningSecretID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal signing secret UUID")
	}
	nextIDBytes, err := marshalOptionalUUID(api.NextSigningSecretID)
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		api.Name,
		api.Algorithm,
		currentIDBytes,
		nextIDBytes,
		int64(api.TokenExpiration/time.Second),
		idBytes,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update api")
	}
	return nil
}

// Get retrieves an API by ID.
func (m *MySQLAPIRepository) Get(ctx context.Context, apiID uuid.UUID) (*registryDomain.API, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, workspace_id, name, algorithm, current_signing_secret_id, next_signing_secret_id, token_expiration_seconds, created_at
			  FROM apis WHERE id = ?`

	uuidBytes, err := apiID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	var api registryDomain.API
	var idBytes, workspaceIDBytes, currentIDBytes, nextIDBytes []byte
	var expirationSeconds int64

	err = querier.QueryRowContext(ctx, query, uuidBytes).Scan(
		&idBytes,
		&workspaceIDBytes,
		&api.Name,
		&api.Algorithm,
		&currentIDBytes,
		&nextIDBytes,
		&expirationSeconds,
		&api.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, registryDomain.ErrAPINotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api")
	}

	// Convert bytes back to UUIDs
	if err := api.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := api.WorkspaceID.UnmarshalBinary(workspaceIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal workspace UUID")
	}
	if err := api.CurrentSigningSecretID.UnmarshalBinary(currentIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal signing secret UUID")
	}
	if nextIDBytes != nil {
		var nextID uuid.UUID
		if err := nextID.UnmarshalBinary(nextIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal signing secret UUID")
		}
		api.NextSigningSecretID = &nextID
	}

	api.TokenExpiration = time.Duration(expirationSeconds) * time.Second
	return &api, nil
}

// marshalOptionalUUID converts a nullable UUID to BINARY(16) bytes, keeping
// nil as SQL NULL.
func marshalOptionalUUID(id *uuid.UUID) ([]byte, error) {
	if id == nil {
		return nil, nil
	}
	b, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}
	return b, nil
}
