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

// MySQLDataKeyRepository implements data key persistence for MySQL.
// Uses BINARY(16) for UUIDs and BLOB for the wrapped key.
type MySQLDataKeyRepository struct {
	db *sql.DB
}

// NewMySQLDataKeyRepository creates a new MySQL data key repository.
func NewMySQLDataKeyRepository(db *sql.DB) *MySQLDataKeyRepository {
	return &MySQLDataKeyRepository{db: db}
}

// Create inserts a new data key into the MySQL database.
func (m *MySQLDataKeyRepository) Create(ctx context.Context, dataKey *cryptoDomain.DataKey) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO data_keys (id, algorithm, wrapped_key, created_at)
			  VALUES (?, ?, ?, ?)`

	id, err := dataKey.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal data key id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		dataKey.Algorithm,
		dataKey.WrappedKey,
		dataKey.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create data key")
	}
	return nil
}

// Get retrieves a data key by ID from the MySQL database.
func (m *MySQLDataKeyRepository) Get(
	ctx context.Context,
	dataKeyID uuid.UUID,
) (*cryptoDomain.DataKey, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, algorithm, wrapped_key, created_at FROM data_keys WHERE id = ?`

	id, err := dataKeyID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal data key id")
	}

	var dataKey cryptoDomain.DataKey
	var idBytes []byte

	err = querier.QueryRowContext(ctx, query, id).Scan(
		&idBytes,
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

	if err := dataKey.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal data key id")
	}

	return &dataKey, nil
}
