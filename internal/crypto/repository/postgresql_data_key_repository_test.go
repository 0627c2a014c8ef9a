package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/keygate/keygate/internal/crypto/domain"
)

func TestPostgreSQLDataKeyRepositoryCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLDataKeyRepository(db)

	dataKey := &cryptoDomain.DataKey{
		ID:         uuid.Must(uuid.NewV7()),
		Algorithm:  cryptoDomain.AESGCM,
		WrappedKey: []byte("wrapped-key-bytes"),
		CreatedAt:  time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO data_keys").
		WithArgs(dataKey.ID, dataKey.Algorithm, dataKey.WrappedKey, dataKey.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), dataKey)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLDataKeyRepositoryGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLDataKeyRepository(db)

	dataKeyID := uuid.Must(uuid.NewV7())
	createdAt := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "algorithm", "wrapped_key", "created_at"}).
		AddRow(dataKeyID, string(cryptoDomain.XChaCha20), []byte("wrapped-key-bytes"), createdAt)

	mock.ExpectQuery("SELECT id, algorithm, wrapped_key, created_at FROM data_keys").
		WithArgs(dataKeyID).
		WillReturnRows(rows)

	dataKey, err := repo.Get(context.Background(), dataKeyID)
	require.NoError(t, err)

	assert.Equal(t, dataKeyID, dataKey.ID)
	assert.Equal(t, cryptoDomain.XChaCha20, dataKey.Algorithm)
	assert.Equal(t, []byte("wrapped-key-bytes"), dataKey.WrappedKey)
	assert.Equal(t, createdAt, dataKey.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLDataKeyRepositoryGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLDataKeyRepository(db)

	dataKeyID := uuid.Must(uuid.NewV7())

	mock.ExpectQuery("SELECT id, algorithm, wrapped_key, created_at FROM data_keys").
		WithArgs(dataKeyID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "algorithm", "wrapped_key", "created_at"}))

	_, err = repo.Get(context.Background(), dataKeyID)
	require.Error(t, err)
	assert.ErrorIs(t, err, cryptoDomain.ErrDataKeyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
