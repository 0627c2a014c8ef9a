package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	authDomain "github.com/keygate/keygate/internal/auth/domain"
	"github.com/keygate/keygate/internal/database"
	apperrors "github.com/keygate/keygate/internal/errors"
	registryDomain "github.com/keygate/keygate/internal/registry/domain"
)

// PostgreSQLClientScopeRepository implements scope grant persistence for
// PostgreSQL.
type PostgreSQLClientScopeRepository struct {
	db *sql.DB
}

// NewPostgreSQLClientScopeRepository creates a new PostgreSQL client scope repository.
func NewPostgreSQLClientScopeRepository(db *sql.DB) *PostgreSQLClientScopeRepository {
	return &PostgreSQLClientScopeRepository{db: db}
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}

// Create inserts a new scope grant.
func (p *PostgreSQLClientScopeRepository) Create(ctx context.Context, grant *authDomain.ClientScope) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO client_scopes (id, client_id, api_scope_id, created_at)
			  VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(ctx, query, grant.ID, grant.ClientID, grant.APIScopeID, grant.CreatedAt)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "scope already granted to client")
		}
		return apperrors.Wrap(err, "failed to create client scope grant")
	}
	return nil
}

// Delete removes a scope grant.
func (p *PostgreSQLClientScopeRepository) Delete(ctx context.Context, clientID, apiScopeID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM client_scopes WHERE client_id = $1 AND api_scope_id = $2`

	result, err := querier.ExecContext(ctx, query, clientID, apiScopeID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete client scope grant")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to delete client scope grant")
	}
	if rows == 0 {
		return registryDomain.ErrScopeNotFound
	}
	return nil
}

// ListScopeNames resolves a client's grants to live scope names. The join
// drops grants whose scope was removed from the API.
func (p *PostgreSQLClientScopeRepository) ListScopeNames(ctx context.Context, clientID uuid.UUID) ([]string, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT s.name
			  FROM client_scopes cs
			  JOIN api_scopes s ON s.id = cs.api_scope_id
			  WHERE cs.client_id = $1
			  ORDER BY s.name ASC`

	rows, err := querier.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list client scopes")
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan client scope")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list client scopes")
	}
	return names, nil
}
