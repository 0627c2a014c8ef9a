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

// MySQLApiScopeRepository implements API scope persistence for MySQL.
type MySQLApiScopeRepository struct {
	db *sql.DB
}

// NewMySQLApiScopeRepository creates a new MySQL API scope repository.
func NewMySQLApiScopeRepository(db *sql.DB) *MySQLApiScopeRepository {
	return &MySQLApiScopeRepository{db: db}
}

// Create inserts a new scope. Scope names are unique per API.
func (m *MySQLApiScopeRepository) Create(ctx context.Context, scope *registryDomain.ApiScope) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO api_scopes (id, api_id, name, description, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	idBytes, err := scope.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	apiIDBytes, err := scope.APIID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal api UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		apiIDBytes,
		scope.Name,
		scope.Description,
		scope.CreatedAt,
	)
	if err != nil {
		// Check for unique constraint violation (duplicate scope name)
		if isMySQLUniqueViolation(err) {
			return registryDomain.ErrDuplicateScopeName
		}
		return apperrors.Wrap(err, "failed to create api scope")
	}
	return nil
}

// GetByName retrieves a scope by name within an API.
func (m *MySQLApiScopeRepository) GetByName(
	ctx context.Context,
	apiID uuid.UUID,
	name string,
) (*registryDomain.ApiScope, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, api_id, name, description, created_at
			  FROM api_scopes WHERE api_id = ? AND name = ?`

	apiIDBytes, err := apiID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal api UUID")
	}

	var scope registryDomain.ApiScope
	var idBytes, scopeAPIIDBytes []byte

	err = querier.QueryRowContext(ctx, query, apiIDBytes, name).Scan(
		&idBytes,
		&scopeAPIIDBytes,
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

	if err := scope.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := scope.APIID.UnmarshalBinary(scopeAPIIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal api UUID")
	}

	return &scope, nil
}

// ListByAPI retrieves all scopes defined on an API, ordered by name.
func (m *MySQLApiScopeRepository) ListByAPI(
	ctx context.Context,
	apiID uuid.UUID,
) ([]*registryDomain.ApiScope, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, api_id, name, description, created_at
			  FROM api_scopes WHERE api_id = ? ORDER BY name ASC`

	apiIDBytes, err := apiID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal api UUID")
	}

	rows, err := querier.QueryContext(ctx, query, apiIDBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api scopes")
	}
	defer rows.Close()

	var scopes []*registryDomain.ApiScope
	for rows.Next() {
		var scope registryDomain.ApiScope
		var idBytes, scopeAPIIDBytes []byte
		err := rows.Scan(
			&idBytes,
			&scopeAPIIDBytes,
			&scope.Name,
			&scope.Description,
			&scope.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan api scope")
		}
		if err := scope.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		if err := scope.APIID.UnmarshalBinary(scopeAPIIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal api UUID")
		}
		scopes = append(scopes, &scope)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate api scopes")
	}

	return scopes, nil
}

// Delete removes a scope by ID.
func (m *MySQLApiScopeRepository) Delete(ctx context.Context, scopeID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM api_scopes WHERE id = ?`

	idBytes, err := scopeID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(ctx, query, idBytes)
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

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}
