package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldops/scheduler/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TimeOffRepository struct {
	pool *pgxpool.Pool
}

func NewTimeOffRepository(pool *pgxpool.Pool) *TimeOffRepository {
	return &TimeOffRepository{pool: pool}
}

// ListApprovedTimeOff returns approved windows overlapping [from, to)
// that belong to the technician or apply globally (technician_id NULL).
func (r *TimeOffRepository) ListApprovedTimeOff(ctx context.Context, technicianID int64, from, to time.Time) ([]model.TimeOffWindow, error) {
	query := `
		SELECT id, technician_id, start_time, end_time, status, created_at
		FROM time_off_windows
		WHERE (technician_id = $1 OR technician_id IS NULL)
		  AND status = 'approved'
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time
	`

	rows, err := r.pool.Query(ctx, query, technicianID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list approved time off: %w", err)
	}
	defer rows.Close()

	var windows []model.TimeOffWindow
	for rows.Next() {
		var w model.TimeOffWindow
		err := rows.Scan(
			&w.ID,
			&w.TechnicianID,
			&w.StartTime,
			&w.EndTime,
			&w.Status,
			&w.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan time off window: %w", err)
		}
		windows = append(windows, w)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("list approved time off: %w", rows.Err())
	}

	return windows, nil
}
