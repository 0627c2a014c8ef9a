// Package repository implements data key persistence.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). PostgreSQL uses native UUID types, MySQL uses BINARY(16).
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	cryptoDomain "github.com/keygate/keygate/internal/crypto/domain"
	"github.com/keygate/keygate/internal/database"
	apperrors "github.com/keygate/keygate/internal/errors"
)

// PostgreSQLDataKeyRepository implements data key persistence for PostgreSQL.
type PostgreSQLDataKeyRepository struct {
	db *sql.DB
}

// NewPostgreSQLDataKeyRepository creates a new PostgreSQL data key repository.
func NewPostgreSQLDataKeyRepository(db *sql.DB) *PostgreSQLDataKeyRepository {
	return &PostgreSQLDataKeyRepository{db: db}
}

// Create inserts a new data key into the PostgreSQL database.
func (p *PostgreSQLDataKeyRepository) Create(ctx context.Context, dataKey *cryptoDomain.DataKey) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO data_keys (id, algorithm, wrapped_key, created_at)
			  VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(
		ctx,
		query,
		dataKey.ID,
		dataKey.Algorithm,
		dataKey.WrappedKey,
		dataKey.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create data key")
	}
	return nil
}

// Get retrieves a data key by ID from the PostgreSQL database.
func (p *PostgreSQLDataKeyRepository) Get(
	ctx context.Context,
	dataKeyID uuid.UUID,
) (*cryptoDomain.DataKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, algorithm, wrapped_key, created_at FROM data_keys WHERE id = $1`

	var dataKey cryptoDomain.DataKey

	err := querier.QueryRowContext(ctx, query, dataKeyID).Scan(
		&dataKey.ID,
		&dataKey.Algorithm,
		&dataKey.WrappedKey,
		&dataKey.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cryptoDomain.ErrDataKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get data key")
	}

	return &dataKey, nil
}
