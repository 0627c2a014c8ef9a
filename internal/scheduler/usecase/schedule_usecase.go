// Package usecase implements the rotation schedule processing loop.
//
// The poller delivers due one-shot expiry events at-least-once to a registered
// handler. Handlers must be idempotent: a replay after the rotation already
// completed is a benign duplicate.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/keygate/keygate/internal/database"
	"github.com/keygate/keygate/internal/scheduler/domain"
)

// Config holds schedule processor configuration.
type Config struct {
	PollInterval time.Duration
	BatchSize    int
	MaxRetries   int
}

// ScheduleRepository defines schedule persistence operations.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *domain.Schedule) error
	// GetDueSchedules returns pending schedules with FireAt <= now, oldest
	// first, locked for delivery where the store supports it.
	GetDueSchedules(ctx context.Context, now time.Time, limit int) ([]*domain.Schedule, error)
	Update(ctx context.Context, schedule *domain.Schedule) error
}

// EventHandler processes a delivered schedule event.
type EventHandler interface {
	Handle(ctx context.Context, schedule *domain.Schedule) error
}

// Scheduler creates one-shot expiry schedules. Implemented by ScheduleUseCase
// and consumed by the signing and auth use cases.
type Scheduler interface {
	CreateOneTimeSchedule(ctx context.Context, eventType domain.EventType, payload any, fireAt time.Time) error
}

// UseCase defines the schedule processor operations.
type UseCase interface {
	Scheduler
	Start(ctx context.Context) error
	ProcessDue(ctx context.Context) error
}

// ScheduleUseCase polls for due schedules and dispatches them to the handler.
type ScheduleUseCase struct {
	config       Config
	txManager    database.TxManager
	scheduleRepo ScheduleRepository
	handler      EventHandler
	logger       *slog.Logger
}

// NewScheduleUseCase creates a new ScheduleUseCase.
func NewScheduleUseCase(
	config Config,
	txManager database.TxManager,
	scheduleRepo ScheduleRepository,
	handler EventHandler,
	logger *slog.Logger,
) *ScheduleUseCase {
	return &ScheduleUseCase{
		config:       config,
		txManager:    txManager,
		scheduleRepo: scheduleRepo,
		handler:      handler,
		logger:       logger,
	}
}

// CreateOneTimeSchedule persists a pending schedule that fires at fireAt.
// Participates in the caller's transaction when one is in the context, so a
// rotation and its expiry schedule commit or roll back together.
func (uc *ScheduleUseCase) CreateOneTimeSchedule(
	ctx context.Context,
	eventType domain.EventType,
	payload any,
	fireAt time.Time,
) error {
	schedule, err := domain.NewSchedule(eventType, payload, fireAt)
	if err != nil {
		return err
	}
	return uc.scheduleRepo.Create(ctx, schedule)
}

// Start runs the polling loop until the context is cancelled.
func (uc *ScheduleUseCase) Start(ctx context.Context) error {
	if uc.logger != nil {
		uc.logger.Info("starting rotation schedule processor",
			slog.Duration("poll_interval", uc.config.PollInterval),
			slog.Int("batch_size", uc.config.BatchSize),
		)
	}

	ticker := time.NewTicker(uc.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if uc.logger != nil {
				uc.logger.Info("stopping rotation schedule processor")
			}
			return ctx.Err()
		case <-ticker.C:
			if err := uc.ProcessDue(ctx); err != nil {
				if uc.logger != nil {
					uc.logger.Error("failed to process due schedules", slog.Any("error", err))
				}
			}
		}
	}
}

// ProcessDue delivers all due schedules in a transaction. A handler failure
// increments the schedule's retry count; after MaxRetries the schedule is
// marked failed and no longer redelivered.
func (uc *ScheduleUseCase) ProcessDue(ctx context.Context) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		schedules, err := uc.scheduleRepo.GetDueSchedules(ctx, time.Now(), uc.config.BatchSize)
		if err != nil {
			return err
		}

		if len(schedules) == 0 {
			return nil
		}

		if uc.logger != nil {
			uc.logger.Info("delivering due schedules", slog.Int("count", len(schedules)))
		}

		for _, schedule := range schedules {
			if err := uc.deliver(ctx, schedule); err != nil {
				if uc.logger != nil {
					uc.logger.Error("failed to deliver schedule",
						slog.String("schedule_id", schedule.ID.String()),
						slog.String("event_type", string(schedule.EventType)),
						slog.Any("error", err),
					)
				}

				schedule.Retries++
				errorMsg := err.Error()
				schedule.LastError = &errorMsg

				if schedule.Retries >= uc.config.MaxRetries {
					schedule.Status = domain.ScheduleStatusFailed
				}

				if err := uc.scheduleRepo.Update(ctx, schedule); err != nil {
					return err
				}
				continue
			}

			now := time.Now()
			schedule.Status = domain.ScheduleStatusDelivered
			schedule.DeliveredAt = &now

			if err := uc.scheduleRepo.Update(ctx, schedule); err != nil {
				return err
			}
		}

		return nil
	})
}

// deliver dispatches a single schedule to the handler.
func (uc *ScheduleUseCase) deliver(ctx context.Context, schedule *domain.Schedule) error {
	if uc.logger != nil {
		uc.logger.Info("delivering schedule",
			slog.String("schedule_id", schedule.ID.String()),
			slog.String("event_type", string(schedule.EventType)),
		)
	}
	return uc.handler.Handle(ctx, schedule)
}
