// Package repository implements signing secret persistence.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/keygate/keygate/internal/database"
	apperrors "github.com/keygate/keygate/internal/errors"
	signingDomain "github.com/keygate/keygate/internal/signing/domain"
)

// PostgreSQLSigningSecretRepository implements signing secret persistence for PostgreSQL.
type PostgreSQLSigningSecretRepository struct {
	db *sql.DB
}

// NewPostgreSQLSigningSecretRepository creates a new PostgreSQL signing secret repository.
func NewPostgreSQLSigningSecretRepository(db *sql.DB) *PostgreSQLSigningSecretRepository {
	return &PostgreSQLSigningSecretRepository{db: db}
}

// Create inserts a new signing secret.
func (p *PostgreSQLSigningSecretRepository) Create(ctx context.Context, secret *signingDomain.SigningSecret) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO signing_secrets (id, api_id, data_key_id, algorithm, ciphertext, iv, public_key, status, created_at, deleted_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := querier.ExecContext(
		ctx,
		query,
		secret.ID,
		secret.APIID,
		secret.DataKeyID,
		secret.Algorithm,
		secret.Ciphertext,
		secret.IV,
		secret.PublicKey,
		secret.Status,
		secret.CreatedAt,
		secret.DeletedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create signing secret")
	}
	return nil
}

// Update modifies an existing signing secret's status and deletion marker.
func (p *PostgreSQLSigningSecretRepository) Update(ctx context.Context, secret *signingDomain.SigningSecret) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE signing_secrets SET status = $1, deleted_at = $2 WHERE id = $3`

	_, err := querier.ExecContext(ctx, query, secret.Status, secret.DeletedAt, secret.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update signing secret")
	}
	return nil
}

// Get retrieves a signing secret by ID.
func (p *PostgreSQLSigningSecretRepository) Get(
	ctx context.Context,
	secretID uuid.UUID,
) (*signingDomain.SigningSecret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, api_id, data_key_id, algorithm, ciphertext, iv, public_key, status, created_at, deleted_at
			  FROM signing_secrets WHERE id = $1`

	var secret signingDomain.SigningSecret

	err := querier.QueryRowContext(ctx, query, secretID).Scan(
		&secret.ID,
		&secret.APIID,
		&secret.DataKeyID,
		&secret.Algorithm,
		&secret.Ciphertext,
		&secret.IV,
		&secret.PublicKey,
		&secret.Status,
		&secret.CreatedAt,
		&secret.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, signingDomain.ErrSigningSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get signing secret")
	}

	return &secret, nil
}
