package usecase

import (
	"context"

	"github.com/google/uuid"

	apperrors "github.com/keygate/keygate/internal/errors"
	"github.com/keygate/keygate/internal/scheduler/domain"
)

// SigningSecretExpirer completes a signing secret rotation. Implemented by
// the signing module.
type SigningSecretExpirer interface {
	Expire(ctx context.Context, apiID uuid.UUID, secretID uuid.UUID) error
}

// ClientSecretExpirer completes a client secret rotation. Implemented by the
// auth module.
type ClientSecretExpirer interface {
	ExpireSecret(ctx context.Context, clientID uuid.UUID, secretID uuid.UUID) error
}

// RotationEventHandler dispatches delivered expiry events to the owning
// module. Both expire operations are idempotent, matching the scheduler's
// at-least-once delivery.
type RotationEventHandler struct {
	signingSecrets SigningSecretExpirer
	clientSecrets  ClientSecretExpirer
}

// NewRotationEventHandler creates a new RotationEventHandler.
func NewRotationEventHandler(
	signingSecrets SigningSecretExpirer,
	clientSecrets ClientSecretExpirer,
) *RotationEventHandler {
	return &RotationEventHandler{
		signingSecrets: signingSecrets,
		clientSecrets:  clientSecrets,
	}
}

// Register wires the expirers after construction. The processor must exist
// before the signing and auth use cases that schedule through it, so the
// handler starts empty and is completed once they do.
func (h *RotationEventHandler) Register(
	signingSecrets SigningSecretExpirer,
	clientSecrets ClientSecretExpirer,
) {
	h.signingSecrets = signingSecrets
	h.clientSecrets = clientSecrets
}

// Handle processes a delivered schedule event.
func (h *RotationEventHandler) Handle(ctx context.Context, schedule *domain.Schedule) error {
	payload, err := schedule.ParsePayload()
	if err != nil {
		return err
	}

	switch p := payload.(type) {
	case domain.SigningSecretExpirePayload:
		if h.signingSecrets == nil {
			return apperrors.Wrap(apperrors.ErrInternal, "no signing secret expirer registered")
		}
		return h.signingSecrets.Expire(ctx, p.APIID, p.SigningSecretID)
	case domain.ClientSecretExpirePayload:
		if h.clientSecrets == nil {
			return apperrors.Wrap(apperrors.ErrInternal, "no client secret expirer registered")
		}
		return h.clientSecrets.ExpireSecret(ctx, p.ClientID, p.ClientSecretID)
	default:
		return apperrors.Wrap(apperrors.ErrInvalidInput, "unhandled schedule event type")
	}
}
