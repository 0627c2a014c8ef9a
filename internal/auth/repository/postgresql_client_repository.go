// Package repository implements auth persistence: clients, client secrets
// and scope grants.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/keygate/keygate/internal/auth/domain"
	"github.com/keygate/keygate/internal/database"
	apperrors "github.com/keygate/keygate/internal/errors"
)

// PostgreSQLClientRepository implements client persistence for PostgreSQL.
type PostgreSQLClientRepository struct {
	db *sql.DB
}

// NewPostgreSQLClientRepository creates a new PostgreSQL client repository.
func NewPostgreSQLClientRepository(db *sql.DB) *PostgreSQLClientRepository {
	return &PostgreSQLClientRepository{db: db}
}

// marshalMetadata serializes the metadata map, keeping nil as SQL NULL.
func marshalMetadata(metadata map[string]string) (*string, error) {
	if len(metadata) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal client metadata")
	}
	s := string(raw)
	return &s, nil
}

// unmarshalMetadata is the inverse of marshalMetadata.
func unmarshalMetadata(raw *string) (map[string]string, error) {
	if raw == nil {
		return nil, nil
	}
	var metadata map[string]string
	if err := json.Unmarshal([]byte(*raw), &metadata); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client metadata")
	}
	return metadata, nil
}

// rateLimitColumns flattens the optional override into nullable columns.
func rateLimitColumns(cfg *authDomain.RateLimitConfig) (size, amount *int, intervalMS *int64) {
	if cfg == nil {
		return nil, nil, nil
	}
	ms := cfg.RefillInterval.Milliseconds()
	return &cfg.BucketSize, &cfg.RefillAmount, &ms
}

// rateLimitFromColumns rebuilds the override; all-NULL means no override.
func rateLimitFromColumns(size, amount *int, intervalMS *int64) *authDomain.RateLimitConfig {
	if size == nil || amount == nil || intervalMS == nil {
		return nil
	}
	return &authDomain.RateLimitConfig{
		BucketSize:     *size,
		RefillAmount:   *amount,
		RefillInterval: time.Duration(*intervalMS) * time.Millisecond,
	}
}

// Create inserts a new client.
func (p *PostgreSQLClientRepository) Create(ctx context.Context, client *authDomain.Client) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO clients (id, api_id, workspace_id, for_workspace_id, name, current_client_secret_id, next_client_secret_id,
			  rate_limit_bucket_size, rate_limit_refill_amount, rate_limit_refill_interval_ms, metadata, version, created_at, deleted_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	metadata, err := marshalMetadata(client.Metadata)
	if err != nil {
		return err
	}
	size, amount, intervalMS := rateLimitColumns(client.RateLimit)

	_, err = querier.ExecContext(
		ctx,
		query,
		client.ID,
		client.APIID,
		client.WorkspaceID,
		client.ForWorkspaceID,
		client.Name,
		client.CurrentClientSecretID,
		client.NextClientSecretID,
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
func (p *PostgreSQLClientRepository) Update(ctx context.Context, client *authDomain.Client) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE clients
			  SET name = $1,
			      current_client_secret_id = $2,
			      next_client_secret_id = $3,
			      rate_limit_bucket_size = $4,
			      rate_limit_refill_amount = $5,
			      rate_limit_refill_interval_ms = $6,
			      metadata = $7,
			      version = $8,
			      deleted_at = $9
			  WHERE id = $10`

	metadata, err := marshalMetadata(client.Metadata)
	if err != nil {
		return err
	}
	size, amount, intervalMS := rateLimitColumns(client.RateLimit)

	_, err = querier.ExecContext(
		ctx,
		query,
		client.Name,
		client.CurrentClientSecretID,
		client.NextClientSecretID,
		size,
		amount,
		intervalMS,
		metadata,
		client.Version,
		client.DeletedAt,
		client.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update client")
	}
	return nil
}

// Get retrieves a client by ID, including soft-deleted records.
func (p *PostgreSQLClientRepository) Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, api_id, workspace_id, for_workspace_id, name, current_client_secret_id, next_client_secret_id,
			  rate_limit_bucket_size, rate_limit_refill_amount, rate_limit_refill_interval_ms, metadata, version, created_at, deleted_at
			  FROM clients WHERE id = $1`

	var client authDomain.Client
	var metadata *string
	var size, amount *int
	var intervalMS *int64

	err := querier.QueryRowContext(ctx, query, clientID).Scan(
		&client.ID,
		&client.APIID,
		&client.WorkspaceID,
		&client.ForWorkspaceID,
		&client.Name,
		&client.CurrentClientSecretID,
		&client.NextClientSecretID,
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

	client.Metadata, err = unmarshalMetadata(metadata)
	if err != nil {
		return nil, err
	}
	client.RateLimit = rateLimitFromColumns(size, amount, intervalMS)

	return &client, nil
}
