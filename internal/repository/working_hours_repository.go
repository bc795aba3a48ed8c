package repository

import (
	"context"
	"fmt"

	"github.com/fieldops/scheduler/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WorkingHourRepository struct {
	pool *pgxpool.Pool
}

func NewWorkingHourRepository(pool *pgxpool.Pool) *WorkingHourRepository {
	return &WorkingHourRepository{pool: pool}
}

// ListWorkingHours returns the technician's active weekly templates,
// ordered by weekday and start time.
func (r *WorkingHourRepository) ListWorkingHours(ctx context.Context, technicianID int64) ([]model.WorkingHourTemplate, error) {
	query := `
		SELECT id, technician_id, weekday, start_time, end_time, is_active, created_at
		FROM working_hour_templates
		WHERE technician_id = $1 AND is_active = true
		ORDER BY weekday, start_time
	`

	rows, err := r.pool.Query(ctx, query, technicianID)
	if err != nil {
		return nil, fmt.Errorf("list working hours: %w", err)
	}
	defer rows.Close()

	var templates []model.WorkingHourTemplate
	for rows.Next() {
		var t model.WorkingHourTemplate
		err := rows.Scan(
			&t.ID,
			&t.TechnicianID,
			&t.Weekday,
			&t.StartTime,
			&t.EndTime,
			&t.IsActive,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan working hour template: %w", err)
		}
		templates = append(templates, t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("list working hours: %w", rows.Err())
	}

	return templates, nil
}
