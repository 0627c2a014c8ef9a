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

	cryptoDomain "github.com/keygate/keygate/internal/crypto/domain"
	cryptoService "github.com/keygate/keygate/internal/crypto/service"
	cryptoUsecase "github.com/keygate/keygate/internal/crypto/usecase"
	apperrors "github.com/keygate/keygate/internal/errors"
	registryDomain "github.com/keygate/keygate/internal/registry/domain"
)

// passthroughTxManager runs the function without a real transaction.
type passthroughTxManager struct{}

func (p *passthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeKeeper struct{}

func (k *fakeKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	return append([]byte("wrapped:"), plaintext...), nil
}

func (k *fakeKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	return bytes.TrimPrefix(ciphertext, []byte("wrapped:")), nil
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

type memoryWorkspaceRepository struct {
	mu         sync.Mutex
	workspaces map[uuid.UUID]*registryDomain.Workspace
}

func (r *memoryWorkspaceRepository) Create(ctx context.Context, workspace *registryDomain.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *workspace
	r.workspaces[workspace.ID] = &copied
	return nil
}

func (r *memoryWorkspaceRepository) Get(ctx context.Context, workspaceID uuid.UUID) (*registryDomain.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	workspace, ok := r.workspaces[workspaceID]
	if !ok {
		return nil, registryDomain.ErrWorkspaceNotFound
	}
	copied := *workspace
	return &copied, nil
}

type memoryAPIRepository struct {
	mu   sync.Mutex
	apis map[uuid.UUID]*registryDomain.API
}

func (r *memoryAPIRepository) Create(ctx context.Context, api *registryDomain.API) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *api
	r.apis[api.ID] = &copied
	return nil
}

func (r *memoryAPIRepository) Update(ctx context.Context, api *registryDomain.API) error {
	return r.Create(ctx, api)
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

type memoryApiScopeRepository struct {
	mu     sync.Mutex
	scopes map[uuid.UUID]*registryDomain.ApiScope
}

func (r *memoryApiScopeRepository) Create(ctx context.Context, scope *registryDomain.ApiScope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.scopes {
		if existing.APIID == scope.APIID && existing.Name == scope.Name {
			return registryDomain.ErrDuplicateScopeName
		}
	}
	copied := *scope
	r.scopes[scope.ID] = &copied
	return nil
}

func (r *memoryApiScopeRepository) GetByName(
	ctx context.Context,
	apiID uuid.UUID,
	name string,
) (*registryDomain.ApiScope, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, scope := range r.scopes {
		if scope.APIID == apiID && scope.Name == name {
			copied := *scope
			return &copied, nil
		}
	}
	return nil, registryDomain.ErrScopeNotFound
}

func (r *memoryApiScopeRepository) ListByAPI(
	ctx context.Context,
	apiID uuid.UUID,
) ([]*registryDomain.ApiScope, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var scopes []*registryDomain.ApiScope
	for _, scope := range r.scopes {
		if scope.APIID == apiID {
			copied := *scope
			scopes = append(scopes, &copied)
		}
	}
	return scopes, nil
}

func (r *memoryApiScopeRepository) Delete(ctx context.Context, scopeID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.scopes[scopeID]; !ok {
		return registryDomain.ErrScopeNotFound
	}
	delete(r.scopes, scopeID)
	return nil
}

// fakeProvisioner records provision calls and returns a fresh secret ID.
type fakeProvisioner struct {
	lastDataKeyID uuid.UUID
	lastAPIID     uuid.UUID
	lastAlgorithm registryDomain.SigningAlgorithm
}

func (f *fakeProvisioner) ProvisionActive(
	ctx context.Context,
	dataKeyID uuid.UUID,
	apiID uuid.UUID,
	algorithm registryDomain.SigningAlgorithm,
) (uuid.UUID, error) {
	f.lastDataKeyID = dataKeyID
	f.lastAPIID = apiID
	f.lastAlgorithm = algorithm
	return uuid.Must(uuid.NewV7()), nil
}

type testRegistry struct {
	workspaces  WorkspaceUseCase
	apis        APIUseCase
	provisioner *fakeProvisioner
}

func newTestRegistry() *testRegistry {
	txManager := &passthroughTxManager{}
	dataKeyRepo := &memoryDataKeyRepository{keys: make(map[uuid.UUID]*cryptoDomain.DataKey)}
	envelope := cryptoUsecase.NewEnvelopeUseCase(&fakeKeeper{}, dataKeyRepo, cryptoService.NewAEADManager())

	workspaceRepo := &memoryWorkspaceRepository{workspaces: make(map[uuid.UUID]*registryDomain.Workspace)}
	apiRepo := &memoryAPIRepository{apis: make(map[uuid.UUID]*registryDomain.API)}
	scopeRepo := &memoryApiScopeRepository{scopes: make(map[uuid.UUID]*registryDomain.ApiScope)}
	provisioner := &fakeProvisioner{}

	return &testRegistry{
		workspaces:  NewWorkspaceUseCase(txManager, workspaceRepo, envelope, cryptoDomain.AESGCM),
		apis:        NewAPIUseCase(txManager, workspaceRepo, apiRepo, scopeRepo, provisioner),
		provisioner: provisioner,
	}
}

func TestWorkspaceCreateProvisionsDataKey(t *testing.T) {
	reg := newTestRegistry()
	ctx := context.Background()

	workspace, err := reg.workspaces.Create(ctx, "acme")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, workspace.ID)
	assert.NotEqual(t, uuid.Nil, workspace.DataKeyID)
	assert.Equal(t, "acme", workspace.Name)

	stored, err := reg.workspaces.Get(ctx, workspace.ID)
	require.NoError(t, err)
	assert.Equal(t, workspace.DataKeyID, stored.DataKeyID)
}

func TestAPICreateProvisionsSigningSecret(t *testing.T) {
	reg := newTestRegistry()
	ctx := context.Background()

	workspace, err := reg.workspaces.Create(ctx, "acme")
	require.NoError(t, err)

	api, err := reg.apis.Create(ctx, workspace.ID, "payments", registryDomain.HMACSHA256, 15*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, workspace.ID, api.WorkspaceID)
	assert.Equal(t, registryDomain.HMACSHA256, api.Algorithm)
	assert.NotEqual(t, uuid.Nil, api.CurrentSigningSecretID)
	assert.Nil(t, api.NextSigningSecretID)
	assert.Equal(t, 15*time.Minute, api.TokenExpiration)

	// The signing secret was provisioned under the workspace's data key.
	assert.Equal(t, workspace.DataKeyID, reg.provisioner.lastDataKeyID)
	assert.Equal(t, api.ID, reg.provisioner.lastAPIID)
	assert.Equal(t, registryDomain.HMACSHA256, reg.provisioner.lastAlgorithm)
}

func TestAPICreateUnsupportedAlgorithm(t *testing.T) {
	reg := newTestRegistry()
	ctx := context.Background()

	workspace, err := reg.workspaces.Create(ctx, "acme")
	require.NoError(t, err)

	_, err = reg.apis.Create(ctx, workspace.ID, "payments", registryDomain.SigningAlgorithm("ES256"), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, registryDomain.ErrUnsupportedSigningAlgorithm)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestAPICreateWorkspaceNotFound(t *testing.T) {
	reg := newTestRegistry()

	_, err := reg.apis.Create(context.Background(), uuid.Must(uuid.NewV7()), "payments", registryDomain.HMACSHA256, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, registryDomain.ErrWorkspaceNotFound)
}

func TestAddScopeDuplicateName(t *testing.T) {
	reg := newTestRegistry()
	ctx := context.Background()

	workspace, err := reg.workspaces.Create(ctx, "acme")
	require.NoError(t, err)

	api, err := reg.apis.Create(ctx, workspace.ID, "payments", registryDomain.HMACSHA256, 0)
	require.NoError(t, err)

	_, err = reg.apis.AddScope(ctx, api.ID, "payments.read", "Read payment records")
	require.NoError(t, err)

	_, err = reg.apis.AddScope(ctx, api.ID, "payments.read", "Duplicate")
	require.Error(t, err)
	assert.ErrorIs(t, err, registryDomain.ErrDuplicateScopeName)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestRemoveScope(t *testing.T) {
	reg := newTestRegistry()
	ctx := context.Background()

	workspace, err := reg.workspaces.Create(ctx, "acme")
	require.NoError(t, err)

	api, err := reg.apis.Create(ctx, workspace.ID, "payments", registryDomain.HMACSHA256, 0)
	require.NoError(t, err)

	_, err = reg.apis.AddScope(ctx, api.ID, "payments.read", "")
	require.NoError(t, err)

	require.NoError(t, reg.apis.RemoveScope(ctx, api.ID, "payments.read"))

	// Removing again reports not found.
	err = reg.apis.RemoveScope(ctx, api.ID, "payments.read")
	assert.ErrorIs(t, err, registryDomain.ErrScopeNotFound)

	scopes, err := reg.apis.ListScopes(ctx, api.ID)
	require.NoError(t, err)
	assert.Empty(t, scopes)
}
