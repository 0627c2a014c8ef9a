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

// MySQLClientScopeRepository implements scope grant persistence for MySQL.
type MySQLClientScopeRepository struct {
	db *sql.DB
}

// NewMySQLClientScopeRepository creates a new MySQL client scope repository.
func NewMySQLClientScopeRepository(db *sql.DB) *MySQLClientScopeRepository {
	return &MySQLClientScopeRepository{db: db}
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	return strings.Contains(errMsg, "Duplicate entry") || strings.Contains(errMsg, "1062")
}

// Create inserts a new scope grant.
func (m *MySQLClientScopeRepository) Create(ctx context.Context, grant *authDomain.ClientScope) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO client_scopes (id, client_id, api_scope_id, created_at)
			  VALUES (?, ?, ?, ?)`

	idBytes, err := grant.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	clientIDBytes, err := grant.ClientID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client UUID")
	}
	scopeIDBytes, err := grant.APIScopeID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal scope UUID")
	}

	_, err = querier.ExecContext(ctx, query, idBytes, clientIDBytes, scopeIDBytes, grant.CreatedAt)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "scope already granted to client")
		}
		return apperrors.Wrap(err, "failed to create client scope grant")
	}
	return nil
}

// Delete removes a scope grant.
func (m *MySQLClientScopeRepository) Delete(ctx context.Context, clientID, apiScopeID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM client_scopes WHERE client_id = ? AND api_scope_id = ?`

	clientIDBytes, err := clientID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client UUID")
	}
	scopeIDBytes, err := apiScopeID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal scope UUID")
	}

	result, err := querier.ExecContext(ctx, query, clientIDBytes, scopeIDBytes)
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

// ListScopeNames resolves a client's grants to live scope names.
func (m *MySQLClientScopeRepository) ListScopeNames(ctx context.Context, clientID uuid.UUID) ([]string, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT s.name
			  FROM client_scopes cs
			  JOIN api_scopes s ON s.id = cs.api_scope_id
			  WHERE cs.client_id = ?
			  ORDER BY s.name ASC`

	clientIDBytes, err := clientID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal client UUID")
	}

	rows, err := querier.QueryContext(ctx, query, clientIDBytes)
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
