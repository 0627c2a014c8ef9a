package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/keygate/keygate/internal/database"
	apperrors "github.com/keygate/keygate/internal/errors"
	"github.com/keygate/keygate/internal/scheduler/domain"
)

// MySQLScheduleRepository handles schedule persistence for MySQL.
// Uses BINARY(16) for UUID storage.
type MySQLScheduleRepository struct {
	db *sql.DB
}

// NewMySQLScheduleRepository creates a new MySQLScheduleRepository.
func NewMySQLScheduleRepository(db *sql.DB) *MySQLScheduleRepository {
	return &MySQLScheduleRepository{db: db}
}

// Create inserts a new schedule.
func (r *MySQLScheduleRepository) Create(ctx context.Context, schedule *domain.Schedule) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO rotation_schedules (id, event_type, payload, fire_at, status, retries, last_error, delivered_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	id, err := schedule.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal schedule id")
	}

	_, err = querier.ExecContext(ctx, query, id, schedule.EventType, schedule.Payload,
		schedule.FireAt, schedule.Status, schedule.Retries, schedule.LastError, schedule.DeliveredAt)

	return err
}

// GetDueSchedules retrieves pending schedules due at or before now, oldest first.
// Rows are locked with SKIP LOCKED so concurrent pollers never double-deliver
// within a single poll cycle.
func (r *MySQLScheduleRepository) GetDueSchedules(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*domain.Schedule, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, event_type, payload, fire_at, status, retries, last_error, delivered_at, created_at, updated_at
			  FROM rotation_schedules
			  WHERE status = ? AND fire_at <= ?
			  ORDER BY fire_at ASC
			  LIMIT ?
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, domain.ScheduleStatusPending, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var schedules []*domain.Schedule
	for rows.Next() {
		var schedule domain.Schedule
		var idBytes []byte

		err := rows.Scan(&idBytes, &schedule.EventType, &schedule.Payload, &schedule.FireAt,
			&schedule.Status, &schedule.Retries, &schedule.LastError, &schedule.DeliveredAt,
			&schedule.CreatedAt, &schedule.UpdatedAt)
		if err != nil {
			return nil, err
		}

		if err := schedule.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal schedule id")
		}

		schedules = append(schedules, &schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

// Update updates a schedule.
func (r *MySQLScheduleRepository) Update(ctx context.Context, schedule *domain.Schedule) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE rotation_schedules
			  SET event_type = ?, payload = ?, fire_at = ?, status = ?, retries = ?,
			      last_error = ?, delivered_at = ?, updated_at = NOW()
			  WHERE id = ?`

	id, err := schedule.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal schedule id")
	}

	_, err = querier.ExecContext(ctx, query, schedule.EventType, schedule.Payload, schedule.FireAt,
		schedule.Status, schedule.Retries, schedule.LastError, schedule.DeliveredAt, id)

	return err
}
