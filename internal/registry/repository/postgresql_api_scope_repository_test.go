package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/keygate/keygate/internal/errors"
	registryDomain "github.com/keygate/keygate/internal/registry/domain"
)

func TestPostgreSQLApiScopeRepositoryCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLApiScopeRepository(db)

	scope := &registryDomain.ApiScope{
		ID:          uuid.Must(uuid.NewV7()),
		APIID:       uuid.Must(uuid.NewV7()),
		Name:        "payments.read",
		Description: "Read payment records",
		CreatedAt:   time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO api_scopes").
		WithArgs(scope.ID, scope.APIID, scope.Name, scope.Description, scope.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), scope)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLApiScopeRepositoryCreateDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLApiScopeRepository(db)

	scope := &registryDomain.ApiScope{
		ID:        uuid.Must(uuid.NewV7()),
		APIID:     uuid.Must(uuid.NewV7()),
		Name:      "payments.read",
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO api_scopes").
		WithArgs(scope.ID, scope.APIID, scope.Name, scope.Description, scope.CreatedAt).
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "api_scopes_api_id_name_key"`))

	err = repo.Create(context.Background(), scope)
	require.Error(t, err)
	assert.ErrorIs(t, err, registryDomain.ErrDuplicateScopeName)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLApiScopeRepositoryListByAPI(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLApiScopeRepository(db)

	apiID := uuid.Must(uuid.NewV7())
	createdAt := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "api_id", "name", "description", "created_at"}).
		AddRow(uuid.Must(uuid.NewV7()), apiID, "payments.read", "Read payment records", createdAt).
		AddRow(uuid.Must(uuid.NewV7()), apiID, "payments.write", "Create payments", createdAt)

	mock.ExpectQuery("SELECT id, api_id, name, description, created_at").
		WithArgs(apiID).
		WillReturnRows(rows)

	scopes, err := repo.ListByAPI(context.Background(), apiID)
	require.NoError(t, err)
	require.Len(t, scopes, 2)
	assert.Equal(t, "payments.read", scopes[0].Name)
	assert.Equal(t, "payments.write", scopes[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLApiScopeRepositoryDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLApiScopeRepository(db)

	scopeID := uuid.Must(uuid.NewV7())

	mock.ExpectExec("DELETE FROM api_scopes").
		WithArgs(scopeID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Delete(context.Background(), scopeID)
	require.Error(t, err)
	assert.ErrorIs(t, err, registryDomain.ErrScopeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
