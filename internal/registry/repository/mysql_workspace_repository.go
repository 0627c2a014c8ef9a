package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/keygate/keygate/internal/database"
	apperrors "github.com/keygate/keygate/internal/errors"
	registryDomain "github.com/keygate/keygate/internal/registry/domain"
)

// MySQLWorkspaceRepository implements workspace persistence for MySQL.
type MySQLWorkspaceRepository struct {
	db *sql.DB
}

// NewMySQLWorkspaceRepository creates a new MySQL workspace repository.
func NewMySQLWorkspaceRepository(db *sql.DB) *MySQLWorkspaceRepository {
	return &MySQLWorkspaceRepository{db: db}
}

// Create inserts a new workspace.
func (m *MySQLWorkspaceRepository) Create(ctx context.Context, workspace *registryDomain.Workspace) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO workspaces (id, name, data_key_id, created_at)
			  VALUES (?, ?, ?, ?)`

	// Convert UUIDs to bytes for MySQL BINARY(16)
	idBytes, err := workspace.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	dataKeyIDBytes, err := workspace.DataKeyID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal data key UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		workspace.Name,
		dataKeyIDBytes,
		workspace.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create workspace")
	}
	return nil
}

// Get retrieves a workspace by ID.
func (m *MySQLWorkspaceRepository) Get(
	ctx context.Context,
	workspaceID uuid.UUID,
) (*registryDomain.Workspace, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, data_key_id, created_at FROM workspaces WHERE id = ?`

	// Convert UUID to bytes for MySQL BINARY(16)
	uuidBytes, err := workspaceID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	var workspace registryDomain.Workspace
	var idBytes, dataKeyIDBytes []byte

	err = querier.QueryRowContext(ctx, query, uuidBytes).Scan(
		&idBytes,
		&workspace.Name,
		&dataKeyIDBytes,
		&workspace.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, registryDomain.ErrWorkspaceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get workspace")
	}

	// Convert bytes back to UUIDs
	if err := workspace.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := workspace.DataKeyID.UnmarshalBinary(dataKeyIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal data key UUID")
	}

	return &workspace, nil
}
