package usecase

import (
	"bytes"
	"context"
	"sync"

	"github.com/google/uuid"

	authDomain "github.com/keygate/keygate/internal/auth/domain"
	cryptoDomain "github.com/keygate/keygate/internal/crypto/domain"
	registryDomain "github.com/keygate/keygate/internal/registry/domain"
	signingDomain "github.com/keygate/keygate/internal/signing/domain"
)

// In-memory repositories backing the use case tests.

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

type memoryApiScopeRepository struct {
	mu     sync.Mutex
	scopes map[uuid.UUID]*registryDomain.ApiScope
}

func (r *memoryApiScopeRepository) add(scope *registryDomain.ApiScope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *scope
	r.scopes[scope.ID] = &copied
}

func (r *memoryApiScopeRepository) remove(scopeID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.scopes, scopeID)
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

type memoryClientRepository struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*authDomain.Client
}

func (r *memoryClientRepository) Create(ctx context.Context, client *authDomain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *client
	r.clients[client.ID] = &copied
	return nil
}

func (r *memoryClientRepository) Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	client, ok := r.clients[clientID]
	if !ok {
		return nil, authDomain.ErrClientNotFound
	}
	copied := *client
	return &copied, nil
}

func (r *memoryClientRepository) Update(ctx context.Context, client *authDomain.Client) error {
	return r.Create(ctx, client)
}

type memoryClientSecretRepository struct {
	mu      sync.Mutex
	secrets map[uuid.UUID]*authDomain.ClientSecret
}

func (r *memoryClientSecretRepository) Create(ctx context.Context, secret *authDomain.ClientSecret) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *secret
	r.secrets[secret.ID] = &copied
	return nil
}

func (r *memoryClientSecretRepository) Get(ctx context.Context, secretID uuid.UUID) (*authDomain.ClientSecret, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	secret, ok := r.secrets[secretID]
	if !ok {
		return nil, authDomain.ErrClientSecretNotFound
	}
	copied := *secret
	return &copied, nil
}

func (r *memoryClientSecretRepository) Update(ctx context.Context, secret *authDomain.ClientSecret) error {
	return r.Create(ctx, secret)
}

// memoryClientScopeRepository resolves grants against the scope repository
// so deleted scopes drop out of ListScopeNames.
type memoryClientScopeRepository struct {
	mu        sync.Mutex
	grants    map[uuid.UUID]*authDomain.ClientScope
	scopeRepo *memoryApiScopeRepository
}

func (r *memoryClientScopeRepository) Create(ctx context.Context, grant *authDomain.ClientScope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *grant
	r.grants[grant.ID] = &copied
	return nil
}

func (r *memoryClientScopeRepository) Delete(ctx context.Context, clientID, apiScopeID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, grant := range r.grants {
		if grant.ClientID == clientID && grant.APIScopeID == apiScopeID {
			delete(r.grants, id)
			return nil
		}
	}
	return registryDomain.ErrScopeNotFound
}

func (r *memoryClientScopeRepository) ListScopeNames(ctx context.Context, clientID uuid.UUID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.scopeRepo.mu.Lock()
	defer r.scopeRepo.mu.Unlock()

	names := []string{}
	for _, grant := range r.grants {
		if grant.ClientID != clientID {
			continue
		}
		if scope, ok := r.scopeRepo.scopes[grant.APIScopeID]; ok {
			names = append(names, scope.Name)
		}
	}
	return names, nil
}
