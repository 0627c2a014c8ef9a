// Package domain defines the one-shot rotation schedule entities and event payloads.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/keygate/keygate/internal/errors"
)

// ScheduleStatus represents the delivery status of a scheduled event.
type ScheduleStatus string

const (
	ScheduleStatusPending   ScheduleStatus = "pending"
	ScheduleStatusDelivered ScheduleStatus = "delivered"
	ScheduleStatusFailed    ScheduleStatus = "failed"
)

// EventType identifies the kind of scheduled expiry event.
type EventType string

const (
	// EventSigningSecretExpire finalizes a signing secret rotation: the
	// pending secret is promoted and the superseded one revoked.
	EventSigningSecretExpire EventType = "signing_secret.expire"

	// EventClientSecretExpire finalizes a client secret rotation.
	EventClientSecretExpire EventType = "client_secret.expire"
)

// Schedule represents a one-shot expiry event awaiting delivery.
// Delivery is at-least-once; handlers must tolerate replays.
type Schedule struct {
	ID          uuid.UUID
	EventType   EventType
	Payload     string
	FireAt      time.Time
	Status      ScheduleStatus
	Retries     int
	LastError   *string
	DeliveredAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SigningSecretExpirePayload is the payload for EventSigningSecretExpire.
type SigningSecretExpirePayload struct {
	APIID           uuid.UUID `json:"api_id"`
	SigningSecretID uuid.UUID `json:"signing_secret_id"`
}

// ClientSecretExpirePayload is the payload for EventClientSecretExpire.
type ClientSecretExpirePayload struct {
	ClientID       uuid.UUID `json:"client_id"`
	ClientSecretID uuid.UUID `json:"client_secret_id"`
}

// ParsePayload decodes the schedule's payload according to its event type.
// Unknown event types are rejected rather than silently skipped.
func (s *Schedule) ParsePayload() (any, error) {
	switch s.EventType {
	case EventSigningSecretExpire:
		var payload SigningSecretExpirePayload
		if err := json.Unmarshal([]byte(s.Payload), &payload); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed signing secret expire payload")
		}
		return payload, nil
	case EventClientSecretExpire:
		var payload ClientSecretExpirePayload
		if err := json.Unmarshal([]byte(s.Payload), &payload); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed client secret expire payload")
		}
		return payload, nil
	default:
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "unknown event type "+string(s.EventType))
	}
}

// NewSchedule creates a pending schedule that fires at the given time.
func NewSchedule(eventType EventType, payload any, fireAt time.Time) (*Schedule, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal schedule payload")
	}

	now := time.Now()
	return &Schedule{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: eventType,
		Payload:   string(raw),
		FireAt:    fireAt,
		Status:    ScheduleStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
