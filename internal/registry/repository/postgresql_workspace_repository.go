// Package repository implements registry persistence for workspaces, APIs and scopes.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). PostgreSQL uses native UUID types, MySQL uses BINARY(16).
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

// PostgreSQLWorkspaceRepository implements workspace persistence for PostgreSQL.
type PostgreSQLWorkspaceRepository struct {
	db *sql.DB
}

// NewPostgreSQLWorkspaceRepository creates a new PostgreSQL workspace repository.
func NewPostgreSQLWorkspaceRepository(db *sql.DB) *PostgreSQLWorkspaceRepository {
	return &PostgreSQLWorkspaceRepository{db: db}
}

// Create inserts a new workspace.
func (p *PostgreSQLWorkspaceRepository) Create(ctx context.Context, workspace *registryDomain.Workspace) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO workspaces (id, name, data_key_id, created_at)
			  VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(
		ctx,
		query,
		workspace.ID,
		workspace.Name,
		workspace.DataKeyID,
		workspace.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create workspace")
	}
	return nil
}

// Get retrieves a workspace by ID.
func (p *PostgreSQLWorkspaceRepository) Get(
	ctx context.Context,
	workspaceID uuid.UUID,
) (*registryDomain.Workspace, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, data_key_id, created_at FROM workspaces WHERE id = $1`

	var workspace registryDomain.Workspace

	err := querier.QueryRowContext(ctx, query, workspaceID).Scan(
		&workspace.ID,
		&workspace.Name,
		&workspace.DataKeyID,
		&workspace.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, registryDomain.ErrWorkspaceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get workspace")
	}

	return &workspace, nil
}
