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

// MySQLSigningSecretRepository implements signing secret persistence for MySQL.
type MySQLSigningSecretRepository struct {
	db *sql.DB
}

// NewMySQLSigningSecretRepository creates a new MySQL signing secret repository.
func NewMySQLSigningSecretRepository(db *sql.DB) *MySQLSigningSecretRepository {
	return &MySQLSigningSecretRepository{db: db}
}

// Create inserts a new signing secret.
func (m *MySQLSigningSecretRepository) Create(ctx context.Context, secret *signingDomain.SigningSecret) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO signing_secrets (id, api_id, data_key_id, algorithm, ciphertext, iv, public_key, status, created_at, deleted_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	// Convert UUIDs to bytes for MySQL BINARY(16)
	idBytes, err := secret.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	apiIDBytes, err := secret.APIID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal api UUID")
	}
	dataKeyIDBytes, err := secret.DataKeyID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal data key UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		apiIDBytes,
		dataKeyIDBytes,
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
func (m *MySQLSigningSecretRepository) Update(ctx context.Context, secret *signingDomain.SigningSecret) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE signing_secrets SET status = ?, deleted_at = ? WHERE id = ?`

	idBytes, err := secret.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(ctx, query, secret.Status, secret.DeletedAt, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to update signing secret")
	}
	return nil
}

// Get retrieves a signing secret by ID.
func (m *MySQLSigningSecretRepository) Get(
	ctx context.Context,
	secretID uuid.UUID,
) (*signingDomain.SigningSecret, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, api_id, data_key_id, algorithm, ciphertext, iv, public_key, status, created_at, deleted_at
			  FROM signing_secrets WHERE id = ?`

	uuidBytes, err := secretID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	var secret signingDomain.SigningSecret
	var idBytes, apiIDBytes, dataKeyIDBytes []byte

	err = querier.QueryRowContext(ctx, query, uuidBytes).Scan(
		&idBytes,
		&apiIDBytes,
		&dataKeyIDBytes,
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

	// Convert bytes back to UUIDs
	if err := secret.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := secret.APIID.UnmarshalBinary(apiIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal api UUID")
	}
	if err := secret.DataKeyID.UnmarshalBinary(dataKeyIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal data key UUID")
	}

	return &secret, nil
}
