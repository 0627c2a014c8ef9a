package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/keygate/keygate/internal/database"
	apperrors "github.com/keygate/keygate/internal/errors"
	registryDomain "github.com/keygate/keygate/internal/registry/domain"
)

// PostgreSQLApiScopeRepository implements API scope persistence for PostgreSQL.
type PostgreSQLApiScopeRepository struct {
	db *sql.DB
}

// NewPostgreSQLApiScopeRepository creates a new PostgreSQL API scope repository.
func NewPostgreSQLApiScopeRepository(db *sql.DB) *PostgreSQLApiScopeRepository {
	return &PostgreSQLApiScopeRepository{db: db}
}

// Create inserts a new scope. Scope names are unique per API.
func (p *PostgreSQLApiScopeRepository) Create(ctx context.Context, scope *registryDomain.ApiScope) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO api_scopes (id, api_id, name, description, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		scope.ID,
		scope.APIID,
		scope.Name,
		scope.Description,
		scope.CreatedAt,
	)
	if err != nil {
		// Check for unique constraint violation (duplicate scope name)
		if isPostgreSQLUniqueViolation(err) {
			return registryDomain.ErrDuplicateScopeName
		}
		return apperrors.Wrap(err, "failed to create api scope")
	}
	return nil
}

// GetByName retrieves a scope by name within an API.
func (p *PostgreSQLApiScopeRepository) GetByName(
	ctx context.Context,
	apiID uuid.UUID,
	name string,
) (*registryDomain.ApiScope, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, api_id, name, description, created_at
			  FROM api_scopes WHERE api_id = $1 AND name = $2`

	var scope registryDomain.ApiScope

	err := querier.QueryRowContext(ctx, query, apiID, name).Scan(
		&scope.ID,
		&scope.APIID,
		&scope.Name,
		&scope.Description,
		&scope.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, registryDomain.ErrScopeNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api scope")
	}

	return &scope, nil
}

// ListByAPI retrieves all scopes defined on an API, ordered by name.
func (p *PostgreSQLApiScopeRepository) ListByAPI(
	ctx context.Context,
	apiID uuid.UUID,
) ([]*registryDomain.ApiScope, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, api_id, name, description, created_at
			  FROM api_scopes WHERE api_id = $1 ORDER BY name ASC`

	rows, err := querier.QueryContext(ctx, query, apiID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api scopes")
	}
	defer rows.Close()

	var scopes []*registryDomain.ApiScope
	for rows.Next() {
		var scope registryDomain.ApiScope
		err := rows.Scan(
			&scope.ID,
			&scope.APIID,
			&scope.Name,
			&scope.Description,
			&scope.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan api scope")
		}
		scopes = append(scopes, &scope)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate api scopes")
	}

	return scopes, nil
}

// Delete removes a scope by ID.
func (p *PostgreSQLApiScopeRepository) Delete(ctx context.Context, scopeID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM api_scopes WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, scopeID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete api scope")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return registryDomain.ErrScopeNotFound
	}

	return nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
