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

// PostgreSQLClientSecretRepository implements client secret persistence for
// PostgreSQL. Only the Argon2id digest is stored.
type PostgreSQLClientSecretRepository struct {
	db *sql.DB
}

// NewPostgreSQLClientSecretRepository creates a new PostgreSQL client secret repository.
func NewPostgreSQLClientSecretRepository(db *sql.DB) *PostgreSQLClientSecretRepository {
	return &PostgreSQLClientSecretRepository{db: db}
}

// Create inserts a new client secret.
func (p *PostgreSQLClientSecretRepository) Create(ctx context.Context, secret *authDomain.ClientSecret) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO client_secrets (id, client_id, digest, status, created_at, deleted_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		secret.ID,
		secret.ClientID,
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
func (p *PostgreSQLClientSecretRepository) Get(ctx context.Context, secretID uuid.UUID) (*authDomain.ClientSecret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, client_id, digest, status, created_at, deleted_at
			  FROM client_secrets WHERE id = $1`

	var secret authDomain.ClientSecret
	err := querier.QueryRowContext(ctx, query, secretID).Scan(
		&secret.ID,
		&secret.ClientID,
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
	return &secret, nil
}

// Update modifies an existing client secret. Rotation only ever moves the
// status and the deletion marker.
func (p *PostgreSQLClientSecretRepository) Update(ctx context.Context, secret *authDomain.ClientSecret) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE client_secrets SET status = $1, deleted_at = $2 WHERE id = $3`

	_, err := querier.ExecContext(ctx, query, secret.Status, secret.DeletedAt, secret.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update client secret")
	}
	return nil
}
