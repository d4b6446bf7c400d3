package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"github.com/Freeeeeet/community_scheduler/internal/repository/base"
)

type AttendanceRepository struct {
	*base.Repository
}

func NewAttendanceRepository(db *base.Repository) *AttendanceRepository {
	return &AttendanceRepository{Repository: db}
}

// Create записывает пользователя на занятие
func (r *AttendanceRepository) Create(ctx context.Context, attendance *model.Attendance) error {
	query := `
		INSERT INTO attendances (activity_id, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, attendance.ActivityID, attendance.UserID).
		Scan(&attendance.ID, &attendance.CreatedAt)

	if err != nil {
		if base.IsConstraint(err, base.CodeUniqueViolation) {
			return model.ErrDuplicateAttendance
		}
		if base.IsConstraint(err, base.CodeForeignKeyViolation) {
			return model.ErrActivityNotFound
		}
		return fmt.Errorf("create attendance: %w", err)
	}

	return nil
}

// Delete удаляет запись пользователя на занятие
func (r *AttendanceRepository) Delete(ctx context.Context, activityID int64, userID string) (bool, error) {
	query := `DELETE FROM attendances WHERE activity_id = $1 AND user_id = $2`

	affected, err := r.ExecAffected(ctx, query, activityID, userID)
	if err != nil {
		return false, fmt.Errorf("delete attendance: %w", err)
	}

	return affected > 0, nil
}

// CountByActivity считает участников занятия
func (r *AttendanceRepository) CountByActivity(ctx context.Context, activityID int64) (int, error) {
	var count int
	err := r.QueryRow(ctx, `SELECT COUNT(*) FROM attendances WHERE activity_id = $1`, activityID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count attendances: %w", err)
	}

	return count, nil
}

// GetByActivity получает всех участников занятия
func (r *AttendanceRepository) GetByActivity(ctx context.Context, activityID int64) ([]*model.Attendance, error) {
	query := `
		SELECT id, activity_id, user_id, created_at
		FROM attendances
		WHERE activity_id = $1
		ORDER BY created_at
	`

	rows, err := r.Query(ctx, query, activityID)
	if err != nil {
		return nil, fmt.Errorf("get attendances by activity: %w", err)
	}
	defer rows.Close()

	var attendances []*model.Attendance
	for rows.Next() {
		var a model.Attendance
		if err := rows.Scan(&a.ID, &a.ActivityID, &a.UserID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		attendances = append(attendances, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendances: %w", err)
	}

	return attendances, nil
}
