package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/keygate/keygate/internal/auth/domain"
	apperrors "github.com/keygate/keygate/internal/errors"
)

// recordingMetrics captures RecordOperation calls for assertions.
type recordingMetrics struct {
	operations []string
	statuses   []string
	durations  int
}

func (r *recordingMetrics) RecordOperation(_ context.Context, _, operation, status string) {
	r.operations = append(r.operations, operation)
	r.statuses = append(r.statuses, status)
}

func (r *recordingMetrics) RecordDuration(_ context.Context, _, _ string, _ time.Duration, _ string) {
	r.durations++
}

// stubTokenUseCase returns canned responses for decorator tests.
type stubTokenUseCase struct {
	token        *authDomain.AccessToken
	verification *authDomain.Verification
	err          error
}

func (s *stubTokenUseCase) Issue(context.Context, uuid.UUID, string) (*authDomain.AccessToken, error) {
	return s.token, s.err
}

func (s *stubTokenUseCase) Verify(
	context.Context,
	string,
	*authDomain.Query,
) (*authDomain.Verification, error) {
	return s.verification, s.err
}

func TestTokenMetricsDecoratorIssue(t *testing.T) {
	recorder := &recordingMetrics{}
	decorated := NewTokenUseCaseWithMetrics(&stubTokenUseCase{
		token: &authDomain.AccessToken{Token: "jwt", ExpiresIn: 3600},
	}, recorder)

	token, err := decorated.Issue(context.Background(), uuid.New(), "secret")

	require.NoError(t, err)
	assert.Equal(t, "jwt", token.Token)
	assert.Equal(t, []string{"issue"}, recorder.operations)
	assert.Equal(t, []string{"success"}, recorder.statuses)
	assert.Equal(t, 1, recorder.durations)
}

func TestTokenMetricsDecoratorIssueError(t *testing.T) {
	recorder := &recordingMetrics{}
	decorated := NewTokenUseCaseWithMetrics(&stubTokenUseCase{
		err: apperrors.ErrUnauthorized,
	}, recorder)

	_, err := decorated.Issue(context.Background(), uuid.New(), "bad-secret")

	require.Error(t, err)
	assert.Equal(t, []string{"error"}, recorder.statuses)
}

func TestTokenMetricsDecoratorVerifyDenied(t *testing.T) {
	recorder := &recordingMetrics{}
	decorated := NewTokenUseCaseWithMetrics(&stubTokenUseCase{
		verification: &authDomain.Verification{Valid: false, Reason: authDomain.ReasonExpired},
	}, recorder)

	verification, err := decorated.Verify(context.Background(), "expired-jwt", nil)

	require.NoError(t, err)
	assert.False(t, verification.Valid)
	assert.Equal(t, []string{"verify"}, recorder.operations)
	assert.Equal(t, []string{"denied"}, recorder.statuses)
}
