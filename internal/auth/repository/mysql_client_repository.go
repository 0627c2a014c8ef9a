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

// MySQLClientRepository implements client persistence for MySQL.
type MySQLClientRepository struct {
	db *sql.DB
}

// NewMySQLClientRepository creates a new MySQL client repository.
func NewMySQLClientRepository(db *sql.DB) *MySQLClientRepository {
	return &MySQLClientRepository{db: db}
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

// Create inserts a new client.
func (m *MySQLClientRepository) Create(ctx context.Context, client *authDomain.Client) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO clients (id, api_id, workspace_id, for_workspace_id, name, current_client_secret_id, next_client_secret_id,
			  rate_limit_bucket_size, rate_limit_refill_amount, rate_limit_refill_interval_ms, metadata, version, created_at, deleted_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	// Convert UUIDs to bytes for MySQL BINARY(16)
	idBytes, err := client.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	apiIDBytes, err := client.APIID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal api UUID")
	}
	workspaceIDBytes, err := client.WorkspaceID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal workspace UUID")
	}
	forWorkspaceIDBytes, err := marshalOptionalUUID(client.ForWorkspaceID)
	if err != nil {
		return err
	}
	currentIDBytes, err := client.CurrentClientSecretID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client secret UUID")
	}
	nextIDBytes, err := marshalOptionalUUID(client.NextClientSecretID)
	if err != nil {
		return err
	}

	metadata, err := marshalMetadata(client.Metadata)
	if err != nil {
		return err
	}
	size, amount, intervalMS := rateLimitColumns(client.RateLimit)

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		apiIDBytes,
		workspaceIDBytes,
		forWorkspaceIDBytes,
		client.Name,
		currentIDBytes,
		nextIDBytes,
		size,
		amount,
		intervalMS,
		metadata,
		client.Version,
		client.CreatedAt,
		client.DeletedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create client")
	}
	return nil
}

// Update modifies an existing client.
func (m *MySQLClientRepository) Update(ctx context.Context, client *authDomain.Client) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE clients
			  SET name = ?,
			      current_client_secret_id = ?,
			      next_client_secret_id = ?,
			      rate_limit_bucket_size = ?,
			      rate_limit_refill_amount = ?,
			      rate_limit_refill_interval_ms = ?,
			      metadata = ?,
			      version = ?,
			      deleted_at = ?
			  WHERE id = ?`

	idBytes, err := client.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	currentIDBytes, err := client.CurrentClientSecretID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client secret UUID")
	}
	nextIDBytes, err := marshalOptionalUUID(client.NextClientSecretID)
	if err != nil {
		return err
	}

	metadata, err := marshalMetadata(client.Metadata)
	if err != nil {
		return err
	}
	size, amount, intervalMS := rateLimitColumns(client.RateLimit)

	_, err = querier.ExecContext(
		ctx,
		query,
		client.Name,
		currentIDBytes,
		nextIDBytes,
		size,
		amount,
		intervalMS,
		metadata,
		client.Version,
		client.DeletedAt,
		idBytes,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update client")
	}
	return nil
}

// Get retrieves a client by ID, including soft-deleted records.
func (m *MySQLClientRepository) Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, api_id, workspace_id, for_workspace_id, name, current_client_secret_id, next_client_secret_id,
			  rate_limit_bucket_size, rate_limit_refill_amount, rate_limit_refill_interval_ms, metadata, version, created_at, deleted_at
			  FROM clients WHERE id = ?`

	uuidBytes, err := clientID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	var client authDomain.Client
	var idBytes, apiIDBytes, workspaceIDBytes, forWorkspaceIDBytes, currentIDBytes, nextIDBytes []byte
	var metadata *string
	var size, amount *int
	var intervalMS *int64

	err = querier.QueryRowContext(ctx, query, uuidBytes).Scan(
		&idBytes,
		&apiIDBytes,
		&workspaceIDBytes,
		&forWorkspaceIDBytes,
		&client.Name,
		&currentIDBytes,
		&nextIDBytes,
		&size,
		&amount,
		&intervalMS,
		&metadata,
		&client.Version,
		&client.CreatedAt,
		&client.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrClientNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get client")
	}

	// Convert bytes back to UUIDs
	if err := client.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := client.APIID.UnmarshalBinary(apiIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal api UUID")
	}
	if err := client.WorkspaceID.UnmarshalBinary(workspaceIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal workspace UUID")
	}
	if forWorkspaceIDBytes != nil {
		var forWorkspaceID uuid.UUID
		if err := forWorkspaceID.UnmarshalBinary(forWorkspaceIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal workspace UUID")
		}
		client.ForWorkspaceID = &forWorkspaceID
	}
	if err := client.CurrentClientSecretID.UnmarshalBinary(currentIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client secret UUID")
	}
	if nextIDBytes != nil {
		var nextID uuid.UUID
		if err := nextID.UnmarshalBinary(nextIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal client secret UUID")
		}
		client.NextClientSecretID = &nextID
	}

	client.Metadata, err = unmarshalMetadata(metadata)
	if err != nil {
		return nil, err
	}
	client.RateLimit = rateLimitFromColumns(size, amount, intervalMS)

	return &client, nil
}
