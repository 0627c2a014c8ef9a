package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/keygate/keygate/internal/auth/domain"
	"github.com/keygate/keygate/internal/metrics"
)

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Issue records metrics for token issuance operations.
func (t *tokenUseCaseWithMetrics) Issue(
	ctx context.Context,
	clientID uuid.UUID,
	clientSecret string,
) (*authDomain.AccessToken, error) {
	start := time.Now()
	token, err := t.next.Issue(ctx, clientID, clientSecret)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "tokens", "issue", status)
	t.metrics.RecordDuration(ctx, "tokens", "issue", time.Since(start), status)

	return token, err
}

// Verify records metrics for token verification operations. Rejections are
// recorded as "denied" to keep them apart from infrastructure errors.
func (t *tokenUseCaseWithMetrics) Verify(
	ctx context.Context,
	token string,
	requiredScopes *authDomain.Query,
) (*authDomain.Verification, error) {
	start := time.Now()
	verification, err := t.next.Verify(ctx, token, requiredScopes)

	status := "success"
	switch {
	case err != nil:
		status = "error"
	case verification != nil && !verification.Valid:
		status = "denied"
	}

	t.metrics.RecordOperation(ctx, "tokens", "verify", status)
	t.metrics.RecordDuration(ctx, "tokens", "verify", time.Since(start), status)

	return verification, err
}
