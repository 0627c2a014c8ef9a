package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	authDomain "github.com/keygate/keygate/internal/auth/domain"
	"github.com/keygate/keygate/internal/database"
	apperrors "github.com/keygate/keygate/internal/errors"
)

// MySQLClientSecretRepository implements client secret persistence for MySQL.
type MySQLClientSecretRepository struct {
	db *sql.DB
}

// NewMySQLClientSecretRepository creates a new MySQL client secret repository.
func NewMySQLClientSecretRepository(db *sql.DB) *MySQLClientSecretRepository {
	return &MySQLClientSecretRepository{db: db}
}

// Create inserts a new client secret.
func (m *MySQLClientSecretRepository) Create(ctx context.Context, secret *authDomain.ClientSecret) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO client_secrets (id, client_id, digest, status, created_at, deleted_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	idBytes, err := secret.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	clientIDBytes, err := secret.ClientID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		clientIDBytes,
		secret.Digest,
		secret.Status,
		secret.CreatedAt,
		secret.DeletedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create client secret")
	}
	return nil
}

// Get retrieves a client secret by ID.
func (m *MySQLClientSecretRepository) Get(ctx context.Context, secretID uuid.UUID) (*authDomain.ClientSecret, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, client_id, digest, status, created_at, deleted_at
			  FROM client_secrets WHERE id = ?`

	uuidBytes, err := secretID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	var secret authDomain.ClientSecret
	var idBytes, clientIDBytes []byte

	err = querier.QueryRowContext(ctx, query, uuidBytes).Scan(
		&idBytes,
		&clientIDBytes,
		&secret.Digest,
		&secret.Status,
		&secret.CreatedAt,
		&secret.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrClientSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get client secret")
	}

	if err := secret.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := secret.ClientID.UnmarshalBinary(clientIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client UUID")
	}
	return &secret, nil
}

// Update modifies an existing client secret.
func (m *MySQLClientSecretRepository) Update(ctx context.Context, secret *authDomain.ClientSecret) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE client_secrets SET status = ?, deleted_at = ? WHERE id = ?`

	idBytes, err := secret.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(ctx, query, secret.Status, secret.DeletedAt, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to update client secret")
	}
	return nil
}
