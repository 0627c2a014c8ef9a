package usecase

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/keygate/keygate/internal/auth/domain"
	authService "github.com/keygate/keygate/internal/auth/service"
	"github.com/keygate/keygate/internal/cache"
	apperrors "github.com/keygate/keygate/internal/errors"
	"github.com/keygate/keygate/internal/ratelimit"
	registryDomain "github.com/keygate/keygate/internal/registry/domain"
	signingDomain "github.com/keygate/keygate/internal/signing/domain"
)

// tokenUseCase implements the TokenUseCase interface.
type tokenUseCase struct {
	clientRepo        ClientRepository
	clientSecretRepo  ClientSecretRepository
	clientScopeRepo   ClientScopeRepository
	apiRepo           APIRepository
	signingKeys       SigningKeyProvider
	secretService     authService.SecretService
	jwtService        authService.JWTService
	limiter           *ratelimit.Limiter
	cache             *cache.Cache
	defaultExpiration time.Duration
}

// NewTokenUseCase creates a new token use case.
func NewTokenUseCase(
	clientRepo ClientRepository,
	clientSecretRepo ClientSecretRepository,
	clientScopeRepo ClientScopeRepository,
	apiRepo APIRepository,
	signingKeys SigningKeyProvider,
	secretService authService.SecretService,
	jwtService authService.JWTService,
	limiter *ratelimit.Limiter,
	entityCache *cache.Cache,
	defaultExpiration time.Duration,
) TokenUseCase {
	return &tokenUseCase{
		clientRepo:        clientRepo,
		clientSecretRepo:  clientSecretRepo,
		clientScopeRepo:   clientScopeRepo,
		apiRepo:           apiRepo,
		signingKeys:       signingKeys,
		secretService:     secretService,
		jwtService:        jwtService,
		limiter:           limiter,
		cache:             entityCache,
		defaultExpiration: defaultExpiration,
	}
}

// getClient loads a client cache-first. Soft-deleted clients are reported as
// absent.
func (t *tokenUseCase) getClient(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	value, err := t.cache.Fetch(ctx, cache.NamespaceClient, clientID.String(), func(ctx context.Context) (any, error) {
		return t.clientRepo.Get(ctx, clientID)
	})
	if err != nil {
		return nil, err
	}

	client := value.(*authDomain.Client)
	if client.DeletedAt != nil {
		return nil, authDomain.ErrClientNotFound
	}
	return client, nil
}

// getAPI loads an API cache-first.
func (t *tokenUseCase) getAPI(ctx context.Context, apiID uuid.UUID) (*registryDomain.API, error) {
	value, err := t.cache.Fetch(ctx, cache.NamespaceAPI, apiID.String(), func(ctx context.Context) (any, error) {
		return t.apiRepo.Get(ctx, apiID)
	})
	if err != nil {
		return nil, err
	}
	return value.(*registryDomain.API), nil
}

// getKeyMaterial loads decrypted signing material cache-first. The plaintext
// key lives only in the short-TTL cache, never in storage.
func (t *tokenUseCase) getKeyMaterial(ctx context.Context, secretID uuid.UUID) (*signingDomain.KeyMaterial, error) {
	value, err := t.cache.Fetch(ctx, cache.NamespaceSigningSecret, secretID.String(), func(ctx context.Context) (any, error) {
		return t.signingKeys.KeyMaterial(ctx, secretID)
	})
	if err != nil {
		return nil, err
	}
	return value.(*signingDomain.KeyMaterial), nil
}

// authenticate checks the presented secret against the client's live
// credentials: the current secret, and during a grace window the staged one.
// Returns the matched credential so issuance can pin the token to it.
func (t *tokenUseCase) authenticate(
	ctx context.Context,
	client *authDomain.Client,
	plainSecret string,
) (*authDomain.ClientSecret, error) {
	current, err := t.clientSecretRepo.Get(ctx, client.CurrentClientSecretID)
	if err != nil {
		return nil, err
	}
	if t.secretService.CompareSecret(plainSecret, current.Digest) {
		return current, nil
	}

	if client.NextClientSecretID != nil {
		next, err := t.clientSecretRepo.Get(ctx, *client.NextClientSecretID)
		if err != nil {
			return nil, err
		}
		if t.secretService.CompareSecret(plainSecret, next.Digest) {
			return next, nil
		}
	}

	return nil, authDomain.ErrInvalidCredentials
}

// Issue authenticates the client secret and mints a signed access token.
func (t *tokenUseCase) Issue(ctx context.Context, clientID uuid.UUID, clientSecret string) (*authDomain.AccessToken, error) {
	client, err := t.getClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	secret, err := t.authenticate(ctx, client, clientSecret)
	if err != nil {
		return nil, err
	}

	if !t.limiter.Allow(client.ID.String(), rateLimitConfig(client)) {
		return nil, apperrors.Wrap(apperrors.ErrRateLimited, "token issuance rate limit exceeded")
	}

	api, err := t.getAPI(ctx, client.APIID)
	if err != nil {
		return nil, err
	}

	scopes, err := t.clientScopeRepo.ListScopeNames(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	material, err := t.getKeyMaterial(ctx, api.CurrentSigningSecretID)
	if err != nil {
		return nil, err
	}
	if material.Status != signingDomain.SecretStatusActive {
		return nil, signingDomain.ErrSecretNotActive
	}

	expiration := api.TokenExpiration
	if expiration <= 0 {
		expiration = t.defaultExpiration
	}

	now := time.Now().UTC()
	claims := &authDomain.TokenClaims{
		Scopes:   scopes,
		Version:  client.Version,
		SecretID: secret.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   client.ID.String(),
			Issuer:    api.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
		},
	}

	signed, err := t.jwtService.Sign(claims, api.CurrentSigningSecretID, material)
	if err != nil {
		return nil, err
	}

	return &authDomain.AccessToken{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresIn: int64(expiration / time.Second),
	}, nil
}

// Verify checks a presented token, short-circuiting on the first failure.
func (t *tokenUseCase) Verify(
	ctx context.Context,
	token string,
	requiredScopes *authDomain.Query,
) (*authDomain.Verification, error) {
	// 1. Structural validation.
	claims, kid, err := t.jwtService.ParseUnverified(token)
	if err != nil {
		return authDomain.Invalid(authDomain.ReasonBadJWT, "malformed token"), nil
	}

	// 2. Resolve the API from the issuer claim.
	apiID, err := uuid.Parse(claims.Issuer)
	if err != nil {
		return authDomain.Invalid(authDomain.ReasonBadJWT, "malformed issuer claim"), nil
	}
	api, err := t.getAPI(ctx, apiID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return authDomain.Invalid(authDomain.ReasonNotFound, "api not found"), nil
		}
		return nil, err
	}

	// A token genuinely signed by a revoked secret fails as expired rather
	// than as a bad signature: it was valid once, its signer is retired.
	// Forgeries naming a revoked kid fall through to the signature check.
	if kid != "" {
		if result, err := t.checkRevokedSigner(ctx, token, kid); result != nil || err != nil {
			return result, err
		}
	}

	// 3. Signature against the current secret, then the staged one.
	if result, err := t.verifySignature(ctx, token, api); result != nil || err != nil {
		return result, err
	}

	// 4. Expiry.
	if claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now().UTC()) {
		return authDomain.Invalid(authDomain.ReasonExpired, "token expired"), nil
	}

	// 5. Resolve the client from the subject claim.
	clientID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return authDomain.Invalid(authDomain.ReasonBadJWT, "malformed subject claim"), nil
	}
	client, err := t.getClient(ctx, clientID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return authDomain.Invalid(authDomain.ReasonNotFound, "client not found"), nil
		}
		return nil, err
	}

	// 6. The credential that authenticated issuance must still be live:
	// revoking a client secret kills its outstanding tokens.
	if result, err := t.checkIssuingSecret(ctx, claims.SecretID); result != nil || err != nil {
		return result, err
	}

	// 7. Version pinning.
	if claims.Version != client.Version {
		return authDomain.Invalid(authDomain.ReasonVersionMismatch, "token issued under an invalidated client version"), nil
	}

	// 8. Scope query against the live grants, so revocations take effect
	// before the token expires.
	scopes, err := t.clientScopeRepo.ListScopeNames(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	if requiredScopes != nil {
		held := make(map[string]struct{}, len(scopes))
		for _, scope := range scopes {
			held[scope] = struct{}{}
		}
		if ok, message := requiredScopes.Evaluate(held); !ok {
			return authDomain.Invalid(authDomain.ReasonForbidden, message), nil
		}
	}

	return &authDomain.Verification{
		Valid:     true,
		ClientID:  client.ID,
		Scopes:    scopes,
		Metadata:  client.Metadata,
		RateLimit: client.RateLimit,
	}, nil
}

// checkRevokedSigner rejects tokens genuinely signed by a revoked signing
// secret. The signature is verified against the retired material before any
// conclusion is drawn from its status; an unknown kid or a non-verifying
// signature falls through to the regular signature check.
func (t *tokenUseCase) checkRevokedSigner(ctx context.Context, token, kid string) (*authDomain.Verification, error) {
	secretID, err := uuid.Parse(kid)
	if err != nil {
		return authDomain.Invalid(authDomain.ReasonBadJWT, "malformed kid header"), nil
	}

	material, err := t.getKeyMaterial(ctx, secretID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if material.Status != signingDomain.SecretStatusRevoked {
		return nil, nil
	}
	if t.jwtService.VerifySignature(token, material) != nil {
		return nil, nil
	}
	return authDomain.Invalid(authDomain.ReasonSecretExpired, "signing secret revoked"), nil
}

// checkIssuingSecret rejects tokens whose issuing client secret has been
// revoked. The sid claim names the credential that authenticated issuance.
func (t *tokenUseCase) checkIssuingSecret(ctx context.Context, sid string) (*authDomain.Verification, error) {
	secretID, err := uuid.Parse(sid)
	if err != nil {
		return authDomain.Invalid(authDomain.ReasonBadJWT, "malformed sid claim"), nil
	}

	secret, err := t.clientSecretRepo.Get(ctx, secretID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return authDomain.Invalid(authDomain.ReasonSecretExpired, "client secret retired"), nil
		}
		return nil, err
	}

	if secret.Status == authDomain.SecretStatusRevoked || secret.DeletedAt != nil {
		return authDomain.Invalid(authDomain.ReasonSecretExpired, "client secret revoked"), nil
	}
	return nil, nil
}

// verifySignature checks the token against the API's current signing secret
// and, during a grace window, the staged one. Returns a nil Verification
// when the signature is good.
func (t *tokenUseCase) verifySignature(
	ctx context.Context,
	token string,
	api *registryDomain.API,
) (*authDomain.Verification, error) {
	current, err := t.getKeyMaterial(ctx, api.CurrentSigningSecretID)
	if err != nil {
		return nil, err
	}
	if t.jwtService.VerifySignature(token, current) == nil {
		return nil, nil
	}

	if api.NextSigningSecretID != nil {
		next, err := t.getKeyMaterial(ctx, *api.NextSigningSecretID)
		if err != nil {
			return nil, err
		}
		if t.jwtService.VerifySignature(token, next) == nil {
			return nil, nil
		}
	}

	return authDomain.Invalid(authDomain.ReasonInvalidSignature, "token signature does not verify"), nil
}

// rateLimitConfig maps a client's override to the limiter's bucket config.
func rateLimitConfig(client *authDomain.Client) *ratelimit.BucketConfig {
	if client.RateLimit == nil {
		return nil
	}
	return &ratelimit.BucketConfig{
		Size:           client.RateLimit.BucketSize,
		RefillAmount:   client.RateLimit.RefillAmount,
		RefillInterval: client.RateLimit.RefillInterval,
	}
}
