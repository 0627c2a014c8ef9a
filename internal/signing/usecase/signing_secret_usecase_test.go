package usecase

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keygate/keygate/internal/cache"
	cryptoDomain "github.com/keygate/keygate/internal/crypto/domain"
	cryptoService "github.com/keygate/keygate/internal/crypto/service"
	cryptoUsecase "github.com/keygate/keygate/internal/crypto/usecase"
	apperrors "github.com/keygate/keygate/internal/errors"
	registryDomain "github.com/keygate/keygate/internal/registry/domain"
	schedulerDomain "github.com/keygate/keygate/internal/scheduler/domain"
	signingDomain "github.com/keygate/keygate/internal/signing/domain"
	signingService "github.com/keygate/keygate/internal/signing/service"
)

type passthroughTxManager struct{}

func (p *passthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeKeeper struct{}

func (k *fakeKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	return append([]byte("wrapped:"), plaintext...), nil
}

func (k *fakeKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	// Fresh memory, like the real custody backend: the caller zeroes the
	// unwrapped key after use.
	return bytes.Clone(bytes.TrimPrefix(ciphertext, []byte("wrapped:"))), nil
}

type memoryDataKeyRepository struct {
	mu   sync.Mutex
	keys map[uuid.UUID]*cryptoDomain.DataKey
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

type memorySigningSecretRepository struct {
	mu      sync.Mutex
	secrets map[uuid.UUID]*signingDomain.SigningSecret
}

func (r *memorySigningSecretRepository) Create(ctx context.Context, secret *signingDomain.SigningSecret) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *secret
	r.secrets[secret.ID] = &copied
	return nil
}

func (r *memorySigningSecretRepository) Get(ctx context.Context, secretID uuid.UUID) (*signingDomain.SigningSecret, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	secret, ok := r.secrets[secretID]
	if !ok {
		return nil, signingDomain.ErrSigningSecretNotFound
	}
	copied := *secret
	return &copied, nil
}

func (r *memorySigningSecretRepository) Update(ctx context.Context, secret *signingDomain.SigningSecret) error {
	return r.Create(ctx, secret)
}

type memoryAPIRepository struct {
	mu   sync.Mutex
	apis map[uuid.UUID]*registryDomain.API
}

func (r *memoryAPIRepository) Get(ctx context.Context, apiID uuid.UUID) (*registryDomain.API, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	api, ok := r.apis[apiID]
	if !ok {
		return nil, registryDomain.ErrAPINotFound
	}
	copied := *api
	return &copied, nil
}

func (r *memoryAPIRepository) Update(ctx context.Context, api *registryDomain.API) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *api
	r.apis[api.ID] = &copied
	return nil
}

// recordingScheduler captures created one-shot schedules.
type recordingScheduler struct {
	eventType schedulerDomain.EventType
	payload   any
	fireAt    time.Time
	calls     int
}

func (r *recordingScheduler) CreateOneTimeSchedule(
	ctx context.Context,
	eventType schedulerDomain.EventType,
	payload any,
	fireAt time.Time,
) error {
	r.eventType = eventType
	r.payload = payload
	r.fireAt = fireAt
	r.calls++
	return nil
}

type testSigning struct {
	uc        SigningSecretUseCase
	apiRepo   *memoryAPIRepository
	scheduler *recordingScheduler
	dataKeyID uuid.UUID
}

func newTestSigning(t *testing.T, algorithm registryDomain.SigningAlgorithm) (*testSigning, *registryDomain.API) {
	t.Helper()

	dataKeyRepo := &memoryDataKeyRepository{keys: make(map[uuid.UUID]*cryptoDomain.DataKey)}
	envelope := cryptoUsecase.NewEnvelopeUseCase(&fakeKeeper{}, dataKeyRepo, cryptoService.NewAEADManager())

	dataKey, err := envelope.CreateDataKey(context.Background(), cryptoDomain.AESGCM)
	require.NoError(t, err)

	secretRepo := &memorySigningSecretRepository{secrets: make(map[uuid.UUID]*signingDomain.SigningSecret)}
	apiRepo := &memoryAPIRepository{apis: make(map[uuid.UUID]*registryDomain.API)}
	scheduler := &recordingScheduler{}

	uc := NewSigningSecretUseCase(
		&passthroughTxManager{},
		secretRepo,
		apiRepo,
		envelope,
		signingService.NewKeyManager(),
		scheduler,
		cache.New(time.Minute),
	)

	apiID := uuid.Must(uuid.NewV7())
	secretID, err := uc.ProvisionActive(context.Background(), dataKey.ID, apiID, algorithm)
	require.NoError(t, err)

	api := &registryDomain.API{
		ID:                     apiID,
		WorkspaceID:            uuid.Must(uuid.NewV7()),
		Name:                   "payments",
		Algorithm:              algorithm,
		CurrentSigningSecretID: secretID,
		CreatedAt:              time.Now().UTC(),
	}
	require.NoError(t, apiRepo.Update(context.Background(), api))

	return &testSigning{uc: uc, apiRepo: apiRepo, scheduler: scheduler, dataKeyID: dataKey.ID}, api
}

func TestProvisionActiveKeyMaterial(t *testing.T) {
	ts, api := newTestSigning(t, registryDomain.HMACSHA256)

	material, err := ts.uc.KeyMaterial(context.Background(), api.CurrentSigningSecretID)
	require.NoError(t, err)

	assert.Equal(t, signingDomain.SecretStatusActive, material.Status)
	assert.Equal(t, registryDomain.HMACSHA256, material.Algorithm)
	assert.Len(t, material.Secret, 32)
	assert.Nil(t, material.PublicKey)
}

func TestRotateImmediate(t *testing.T) {
	ts, api := newTestSigning(t, registryDomain.HMACSHA256)
	ctx := context.Background()
	oldSecretID := api.CurrentSigningSecretID

	newSecret, err := ts.uc.Rotate(ctx, api.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, signingDomain.SecretStatusActive, newSecret.Status)

	// The API now signs with the new secret and nothing is staged.
	updated, err := ts.apiRepo.Get(ctx, api.ID)
	require.NoError(t, err)
	assert.Equal(t, newSecret.ID, updated.CurrentSigningSecretID)
	assert.Nil(t, updated.NextSigningSecretID)

	// The old secret is revoked right away.
	old, err := ts.uc.KeyMaterial(ctx, oldSecretID)
	require.NoError(t, err)
	assert.Equal(t, signingDomain.SecretStatusRevoked, old.Status)

	assert.Zero(t, ts.scheduler.calls)
}

func TestRotateWithGraceSchedulesExpiry(t *testing.T) {
	ts, api := newTestSigning(t, registryDomain.HMACSHA256)
	ctx := context.Background()
	oldSecretID := api.CurrentSigningSecretID

	newSecret, err := ts.uc.Rotate(ctx, api.ID, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, signingDomain.SecretStatusPending, newSecret.Status)

	// The old secret keeps signing during the grace window.
	updated, err := ts.apiRepo.Get(ctx, api.ID)
	require.NoError(t, err)
	assert.Equal(t, oldSecretID, updated.CurrentSigningSecretID)
	require.NotNil(t, updated.NextSigningSecretID)
	assert.Equal(t, newSecret.ID, *updated.NextSigningSecretID)

	// An expiry event is scheduled for the old secret at the end of grace.
	require.Equal(t, 1, ts.scheduler.calls)
	assert.Equal(t, schedulerDomain.EventSigningSecretExpire, ts.scheduler.eventType)
	payload, ok := ts.scheduler.payload.(schedulerDomain.SigningSecretExpirePayload)
	require.True(t, ok)
	assert.Equal(t, api.ID, payload.APIID)
	assert.Equal(t, oldSecretID, payload.SigningSecretID)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), ts.scheduler.fireAt, 5*time.Second)
}

func TestRotateConflictWhilePending(t *testing.T) {
	ts, api := newTestSigning(t, registryDomain.HMACSHA256)
	ctx := context.Background()

	_, err := ts.uc.Rotate(ctx, api.ID, time.Hour)
	require.NoError(t, err)

	_, err = ts.uc.Rotate(ctx, api.ID, time.Hour)
	require.Error(t, err)
	assert.ErrorIs(t, err, signingDomain.ErrPendingRotationExists)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestExpirePromotesStagedSecret(t *testing.T) {
	ts, api := newTestSigning(t, registryDomain.HMACSHA256)
	ctx := context.Background()
	oldSecretID := api.CurrentSigningSecretID

	newSecret, err := ts.uc.Rotate(ctx, api.ID, time.Hour)
	require.NoError(t, err)

	require.NoError(t, ts.uc.Expire(ctx, api.ID, oldSecretID))

	updated, err := ts.apiRepo.Get(ctx, api.ID)
	require.NoError(t, err)
	assert.Equal(t, newSecret.ID, updated.CurrentSigningSecretID)
	assert.Nil(t, updated.NextSigningSecretID)

	promoted, err := ts.uc.KeyMaterial(ctx, newSecret.ID)
	require.NoError(t, err)
	assert.Equal(t, signingDomain.SecretStatusActive, promoted.Status)

	old, err := ts.uc.KeyMaterial(ctx, oldSecretID)
	require.NoError(t, err)
	assert.Equal(t, signingDomain.SecretStatusRevoked, old.Status)

	// Rotation is unblocked again after promotion.
	_, err = ts.uc.Rotate(ctx, api.ID, time.Hour)
	require.NoError(t, err)
}

func TestExpireReplayIsNoOp(t *testing.T) {
	ts, api := newTestSigning(t, registryDomain.HMACSHA256)
	ctx := context.Background()
	oldSecretID := api.CurrentSigningSecretID

	_, err := ts.uc.Rotate(ctx, api.ID, time.Hour)
	require.NoError(t, err)

	require.NoError(t, ts.uc.Expire(ctx, api.ID, oldSecretID))

	// The scheduler delivers at-least-once; a second delivery must not
	// disturb the completed rotation.
	require.NoError(t, ts.uc.Expire(ctx, api.ID, oldSecretID))

	updated, err := ts.apiRepo.Get(ctx, api.ID)
	require.NoError(t, err)
	assert.Nil(t, updated.NextSigningSecretID)
}

func TestExpireWithoutStagedSecretFails(t *testing.T) {
	ts, api := newTestSigning(t, registryDomain.HMACSHA256)

	// The current secret is still active and nothing is staged: this event
	// cannot be a replay.
	err := ts.uc.Expire(context.Background(), api.ID, api.CurrentSigningSecretID)
	require.Error(t, err)
	assert.ErrorIs(t, err, signingDomain.ErrRotationStateCorrupted)
	assert.ErrorIs(t, err, apperrors.ErrInternal)
}

func TestJWKSForRSAAPI(t *testing.T) {
	ts, api := newTestSigning(t, registryDomain.RSASHA256)
	ctx := context.Background()

	set, err := ts.uc.JWKS(ctx, api.ID)
	require.NoError(t, err)
	require.Len(t, set.Keys, 1)
	assert.Equal(t, api.CurrentSigningSecretID.String(), set.Keys[0].Kid)

	// During a grace window both the current and the staged key are
	// published so external verifiers can pre-fetch the successor.
	newSecret, err := ts.uc.Rotate(ctx, api.ID, time.Hour)
	require.NoError(t, err)

	set, err = ts.uc.JWKS(ctx, api.ID)
	require.NoError(t, err)
	require.Len(t, set.Keys, 2)
	assert.Equal(t, api.CurrentSigningSecretID.String(), set.Keys[0].Kid)
	assert.Equal(t, newSecret.ID.String(), set.Keys[1].Kid)
}

func TestJWKSForHMACAPIIsEmpty(t *testing.T) {
	ts, api := newTestSigning(t, registryDomain.HMACSHA256)

	set, err := ts.uc.JWKS(context.Background(), api.ID)
	require.NoError(t, err)
	assert.Empty(t, set.Keys)
}
