package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"github.com/Freeeeeet/community_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

// ActivityRepository хранит экземпляры занятий, в том числе серии
type ActivityRepository struct {
	*base.Repository
}

// NewActivityRepository создаёт новый репозиторий
func NewActivityRepository(db *base.Repository) *ActivityRepository {
	return &ActivityRepository{Repository: db}
}

const activityColumns = `id, COALESCE(base_id, id), name, description, category, capacity, activity_date, start_min, end_min, status, created_at`

func scanActivity(row pgx.Row) (*model.Activity, error) {
	var (
		activity   model.Activity
		date       time.Time
		start, end int
	)
	err := row.Scan(
		&activity.ID,
		&activity.BaseID,
		&activity.Name,
		&activity.Description,
		&activity.Category,
		&activity.Capacity,
		&date,
		&start,
		&end,
		&activity.Status,
		&activity.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	activity.Date = model.DateOf(date)
	activity.StartTime = model.TimeOfDay(start)
	activity.EndTime = model.TimeOfDay(end)
	return &activity, nil
}

// Create создаёт занятие. Нулевой BaseID означает одиночное занятие
// (или основу новой серии): base_id выставляется равным id.
func (r *ActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	query := `
		INSERT INTO activities (base_id, name, description, category, capacity, activity_date, start_min, end_min, status)
		VALUES (NULLIF($1::bigint, 0), $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, COALESCE(base_id, id), created_at
	`

	if activity.Status == "" {
		activity.Status = model.ActivityStatusActive
	}

	err := r.QueryRow(
		ctx, query,
		activity.BaseID,
		activity.Name,
		activity.Description,
		activity.Category,
		activity.Capacity,
		activity.Date.Time(),
		int(activity.StartTime),
		int(activity.EndTime),
		activity.Status,
	).Scan(&activity.ID, &activity.BaseID, &activity.CreatedAt)

	if err != nil {
		return fmt.Errorf("create activity: %w", err)
	}

	if activity.BaseID == activity.ID {
		_, err = r.ExecAffected(ctx, `UPDATE activities SET base_id = id WHERE id = $1`, activity.ID)
		if err != nil {
			return fmt.Errorf("set activity base id: %w", err)
		}
	}

	return nil
}

// GetByID получает занятие по ID
func (r *ActivityRepository) GetByID(ctx context.Context, id int64) (*model.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1`

	activity, err := scanActivity(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get activity by id: %w", err)
	}

	return activity, nil
}

// GetByBaseID получает все занятия серии, включая основу
func (r *ActivityRepository) GetByBaseID(ctx context.Context, baseID int64) ([]*model.Activity, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE base_id = $1 OR id = $1
		ORDER BY activity_date, start_min
	`

	rows, err := r.Query(ctx, query, baseID)
	if err != nil {
		return nil, fmt.Errorf("get activities by base id: %w", err)
	}
	defer rows.Close()

	var activities []*model.Activity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}

	return activities, nil
}

// UpdateDetails обновляет общие поля занятия. Дата и время не трогаются.
func (r *ActivityRepository) UpdateDetails(ctx context.Context, activity *model.Activity) error {
	query := `
		UPDATE activities
		SET name = $1, description = $2, category = $3, capacity = $4
		WHERE id = $5
	`

	affected, err := r.ExecAffected(ctx, query,
		activity.Name,
		activity.Description,
		activity.Category,
		activity.Capacity,
		activity.ID,
	)
	if err != nil {
		return fmt.Errorf("update activity: %w", err)
	}

	if affected == 0 {
		return model.ErrActivityNotFound
	}

	return nil
}

// Delete удаляет занятие. Занятие с участниками удалить нельзя.
func (r *ActivityRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		if base.IsConstraint(err, base.CodeForeignKeyViolation) {
			return model.ErrActivityHasAttendees
		}
		return fmt.Errorf("delete activity: %w", err)
	}

	if affected == 0 {
		return model.ErrActivityNotFound
	}

	return nil
}
