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

// PostgreSQLAPIRepository implements API persistence for PostgreSQL.
type PostgreSQLAPIRepository struct {
	db *sql.DB
}

// NewPostgreSQLAPIRepository creates a new PostgreSQL API repository.
func NewPostgreSQLAPIRepository(db *sql.DB) *PostgreSQLAPIRepository {
	return &PostgreSQLAPIRepository{db: db}
}

// Create inserts a new API.
func (p *PostgreSQLAPIRepository) Create(ctx context.Context, api *registryDomain.API) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO apis (id, workspace_id, name, algorithm, current_signing_secret_id, next_signing_secret_id, token_expiration_seconds, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		api.ID,
		api.WorkspaceID,
		api.Name,
		api.Algorithm,
		api.CurrentSigningSecretID,
		api.NextSigningSecretID,
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
func (p *PostgreSQLAPIRepository) Update(ctx context.Context, api *registryDomain.API) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE apis
			  SET name = $1,
			      algorithm = $2,
			      current_signing_secret_id = $3,
			      next_signing_secret_id = $4,
			      token_expiration_seconds = $5
			  WHERE id = $6`

	_, err := querier.ExecContext(
		ctx,
		query,
		api.Name,
		api.Algorithm,
		api.CurrentSigningSecretID,
		api.NextSigningSecretID,
		int64(api.TokenExpiration/time.Second),
		api.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update api")
	}
	return nil
}

// Get retrieves an API by ID.
func (p *PostgreSQLAPIRepository) Get(ctx context.Context, apiID uuid.UUID) (*registryDomain.API, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, workspace_id, name, algorithm, current_signing_secret_id, next_signing_secret_id, token_expiration_seconds, created_at
			  FROM apis WHERE id = $1`

	var api registryDomain.API
	var expirationSeconds int64

	err := querier.QueryRowContext(ctx, query, apiID).Scan(
		&api.ID,
		&api.WorkspaceID,
		&api.Name,
		&api.Algorithm,
		&api.CurrentSigningSecretID,
		&api.NextSigningSecretID,
		&expirationSeconds,
		&api.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, registryDomain.ErrAPINotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api")
	}

	api.TokenExpiration = time.Duration(expirationSeconds) * time.Second
	return &api, nil
}
