// Package repository provides data persistence implementations for rotation schedules.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/keygate/keygate/internal/database"
	"github.com/keygate/keygate/internal/scheduler/domain"
)

// PostgreSQLScheduleRepository handles schedule persistence for PostgreSQL.
type PostgreSQLScheduleRepository struct {
	db *sql.DB
}

// NewPostgreSQLScheduleRepository creates a new PostgreSQLScheduleRepository.
func NewPostgreSQLScheduleRepository(db *sql.DB) *PostgreSQLScheduleRepository {
	return &PostgreSQLScheduleRepository{db: db}
}

// Create inserts a new schedule.
func (r *PostgreSQLScheduleRepository) Create(ctx context.Context, schedule *domain.Schedule) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO rotation_schedules (id, event_type, payload, fire_at, status, retries, last_error, delivered_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`

	_, err := querier.ExecContext(ctx, query, schedule.ID, schedule.EventType, schedule.Payload,
		schedule.FireAt, schedule.Status, schedule.Retries, schedule.LastError, schedule.DeliveredAt)

	return err
}

// GetDueSchedules retrieves pending schedules due at or before now, oldest first.
// Rows are locked with SKIP LOCKED so concurrent pollers never double-deliver
// within a single poll cycle.
func (r *PostgreSQLScheduleRepository) GetDueSchedules(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*domain.Schedule, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, event_type, payload, fire_at, status, retries, last_error, delivered_at, created_at, updated_at
			  FROM rotation_schedules
			  WHERE status = $1 AND fire_at <= $2
			  ORDER BY fire_at ASC
			  LIMIT $3
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, domain.ScheduleStatusPending, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var schedules []*domain.Schedule
	for rows.Next() {
		var schedule domain.Schedule

		err := rows.Scan(&schedule.ID, &schedule.EventType, &schedule.Payload, &schedule.FireAt,
			&schedule.Status, &schedule.Retries, &schedule.LastError, &schedule.DeliveredAt,
			&schedule.CreatedAt, &schedule.UpdatedAt)
		if err != nil {
			return nil, err
		}

		schedules = append(schedules, &schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

// Update updates a schedule.
func (r *PostgreSQLScheduleRepository) Update(ctx context.Context, schedule *domain.Schedule) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE rotation_schedules
			  SET event_type = $1, payload = $2, fire_at = $3, status = $4, retries = $5,
			      last_error = $6, delivered_at = $7, updated_at = NOW()
			  WHERE id = $8`

	_, err := querier.ExecContext(ctx, query, schedule.EventType, schedule.Payload, schedule.FireAt,
		schedule.Status, schedule.Retries, schedule.LastError, schedule.DeliveredAt, schedule.ID)

	return err
}
