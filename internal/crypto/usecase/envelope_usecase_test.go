package usecase

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/keygate/keygate/internal/crypto/domain"
	cryptoService "github.com/keygate/keygate/internal/crypto/service"
	apperrors "github.com/keygate/keygate/internal/errors"
)

// fakeKeeper reversibly wraps plaintext by prefixing a marker, standing in
// for the external custody backend.
type fakeKeeper struct {
	failDecrypt bool
}

var wrapPrefix = []byte("wrapped:")

func (k *fakeKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	return append(append([]byte(nil), wrapPrefix...), plaintext...), nil
}

func (k *fakeKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	if k.failDecrypt {
		return nil, errors.New("custody backend rejected request")
	}
	if !bytes.HasPrefix(ciphertext, wrapPrefix) {
		return nil, errors.New("invalid ciphertext")
	}
	return append([]byte(nil), ciphertext[len(wrapPrefix):]...), nil
}

// memoryDataKeyRepository is an in-memory DataKeyRepository.
type memoryDataKeyRepository struct {
	mu   sync.Mutex
	keys map[uuid.UUID]*cryptoDomain.DataKey
}

func newMemoryDataKeyRepository() *memoryDataKeyRepository {
	return &memoryDataKeyRepository{keys: make(map[uuid.UUID]*cryptoDomain.DataKey)}
}

func (r *memoryDataKeyRepository) Create(ctx context.Context, dataKey *cryptoDomain.DataKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *dataKey
	r.keys[dataKey.ID] = &copied
	return nil
}

func (r *memoryDataKeyRepository) Get(ctx context.Context, dataKeyID uuid.UUID) (*cryptoDomain.DataKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dataKey, ok := r.keys[dataKeyID]
	if !ok {
		return nil, cryptoDomain.ErrDataKeyNotFound
	}
	copied := *dataKey
	return &copied, nil
}

func newTestEnvelope(keeper cryptoDomain.Keeper) (EnvelopeUseCase, *memoryDataKeyRepository) {
	repo := newMemoryDataKeyRepository()
	uc := NewEnvelopeUseCase(keeper, repo, cryptoService.NewAEADManager())
	return uc, repo
}

func TestCreateDataKey(t *testing.T) {
	uc, repo := newTestEnvelope(&fakeKeeper{})

	dataKey, err := uc.CreateDataKey(context.Background(), cryptoDomain.AESGCM)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, dataKey.ID)
	assert.Equal(t, cryptoDomain.AESGCM, dataKey.Algorithm)

	// Only the wrapped form is persisted.
	stored, err := repo.Get(context.Background(), dataKey.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(stored.WrappedKey, wrapPrefix))
}

func TestCreateDataKeyUnsupportedAlgorithm(t *testing.T) {
	uc, _ := newTestEnvelope(&fakeKeeper{})

	_, err := uc.CreateDataKey(context.Background(), cryptoDomain.Algorithm("des"))
	assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
}

func TestEncryptDecryptWithDataKeyRoundTrip(t *testing.T) {
	uc, _ := newTestEnvelope(&fakeKeeper{})
	ctx := context.Background()

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.XChaCha20} {
		dataKey, err := uc.CreateDataKey(ctx, alg)
		require.NoError(t, err)

		plaintexts := [][]byte{
			[]byte("hmac signing secret"),
			{},
			bytes.Repeat([]byte{0xAB}, 4096),
		}

		for _, plaintext := range plaintexts {
			ciphertext, iv, err := uc.EncryptWithDataKey(ctx, dataKey.ID, plaintext)
			require.NoError(t, err)

			decrypted, err := uc.DecryptWithDataKey(ctx, dataKey.ID, ciphertext, iv)
			require.NoError(t, err)
			assert.Equal(t, plaintext, decrypted)
		}
	}
}

func TestEncryptWithDataKeyNotFound(t *testing.T) {
	uc, _ := newTestEnvelope(&fakeKeeper{})

	_, _, err := uc.EncryptWithDataKey(context.Background(), uuid.Must(uuid.NewV7()), []byte("payload"))
	require.Error(t, err)
	assert.ErrorIs(t, err, cryptoDomain.ErrDataKeyNotFound)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDecryptWithDataKeyCustodyFailure(t *testing.T) {
	keeper := &fakeKeeper{}
	uc, _ := newTestEnvelope(keeper)
	ctx := context.Background()

	dataKey, err := uc.CreateDataKey(ctx, cryptoDomain.AESGCM)
	require.NoError(t, err)

	keeper.failDecrypt = true

	_, _, err = uc.EncryptWithDataKey(ctx, dataKey.ID, []byte("payload"))
	require.Error(t, err)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptFailed)
	assert.ErrorIs(t, err, apperrors.ErrInternal)
}

func TestDecryptWithDataKeyTamperedCiphertext(t *testing.T) {
	uc, _ := newTestEnvelope(&fakeKeeper{})
	ctx := context.Background()

	dataKey, err := uc.CreateDataKey(ctx, cryptoDomain.AESGCM)
	require.NoError(t, err)

	ciphertext, iv, err := uc.EncryptWithDataKey(ctx, dataKey.ID, []byte("payload"))
	require.NoError(t, err)

	// One flipped byte in the ciphertext fails authentication.
	tampered := append([]byte(nil), ciphertext...)
	tampered[0] ^= 0x01
	_, err = uc.DecryptWithDataKey(ctx, dataKey.ID, tampered, iv)
	require.Error(t, err)
	assert.ErrorIs(t, err, cryptoDomain.ErrAuthenticationFailed)
	assert.ErrorIs(t, err, apperrors.ErrInternal)

	// Same for a flipped byte in the IV.
	badIV := append([]byte(nil), iv...)
	badIV[0] ^= 0x01
	_, err = uc.DecryptWithDataKey(ctx, dataKey.ID, ciphertext, badIV)
	require.Error(t, err)
	assert.ErrorIs(t, err, cryptoDomain.ErrAuthenticationFailed)
}
