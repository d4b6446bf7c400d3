package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"github.com/Freeeeeet/community_scheduler/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ServiceScheduleRepository управляет шаблонами регулярной доступности услуг
type ServiceScheduleRepository struct {
	*base.Repository
	logger *zap.Logger
}

// NewServiceScheduleRepository создаёт новый репозиторий
func NewServiceScheduleRepository(db *base.Repository, logger *zap.Logger) *ServiceScheduleRepository {
	return &ServiceScheduleRepository{
		Repository: db,
		logger:     logger,
	}
}

const scheduleColumns = `id, group_id, service_id, recurrence, is_active, materialized_through, created_at, updated_at`

func scanSchedule(row pgx.Row) (*model.ServiceSchedule, error) {
	var (
		schedule     model.ServiceSchedule
		recurrence   []byte
		materialized *time.Time
	)
	err := row.Scan(
		&schedule.ID,
		&schedule.GroupID,
		&schedule.ServiceID,
		&recurrence,
		&schedule.IsActive,
		&materialized,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(recurrence, &schedule.Recurrence); err != nil {
		return nil, fmt.Errorf("decode recurrence of schedule %d: %w", schedule.ID, err)
	}
	if materialized != nil {
		through := model.DateOf(*materialized)
		schedule.MaterializedThrough = &through
	}
	return &schedule, nil
}

func (r *ServiceScheduleRepository) collect(rows pgx.Rows) ([]*model.ServiceSchedule, error) {
	defer rows.Close()

	var schedules []*model.ServiceSchedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			// Битый шаблон не должен останавливать остальные
			r.logger.Warn("Skipping unreadable service schedule", zap.Error(err))
			continue
		}
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service schedules: %w", err)
	}

	return schedules, nil
}

// Create создаёт новый шаблон
func (r *ServiceScheduleRepository) Create(ctx context.Context, schedule *model.ServiceSchedule) error {
	recurrence, err := json.Marshal(schedule.Recurrence)
	if err != nil {
		return fmt.Errorf("encode recurrence: %w", err)
	}

	query := `
		INSERT INTO service_schedules (group_id, service_id, recurrence, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err = r.QueryRow(ctx, query, schedule.GroupID, schedule.ServiceID, recurrence, schedule.IsActive).
		Scan(&schedule.ID, &schedule.CreatedAt, &schedule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create service schedule: %w", err)
	}

	return nil
}

// GetByID получает шаблон по ID
func (r *ServiceScheduleRepository) GetByID(ctx context.Context, id int64) (*model.ServiceSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM service_schedules WHERE id = $1`

	schedule, err := scanSchedule(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service schedule by id: %w", err)
	}

	return schedule, nil
}

// GetAllActive получает все активные шаблоны
func (r *ServiceScheduleRepository) GetAllActive(ctx context.Context) ([]*model.ServiceSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM service_schedules
		WHERE is_active = true
		ORDER BY service_id, id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all active service schedules: %w", err)
	}

	return r.collect(rows)
}

// GetByGroupID получает все шаблоны группы
func (r *ServiceScheduleRepository) GetByGroupID(ctx context.Context, groupID uuid.UUID) ([]*model.ServiceSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM service_schedules
		WHERE group_id = $1
		ORDER BY id
	`

	rows, err := r.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("get service schedules by group_id: %w", err)
	}

	return r.collect(rows)
}

// SetMaterializedThrough сдвигает отметку материализации вперёд. Отметка никогда не уменьшается.
func (r *ServiceScheduleRepository) SetMaterializedThrough(ctx context.Context, id int64, through model.Date) error {
	query := `
		UPDATE service_schedules
		SET materialized_through = $1, updated_at = NOW()
		WHERE id = $2 AND (materialized_through IS NULL OR materialized_through < $1)
	`

	if _, err := r.ExecAffected(ctx, query, through.Time(), id); err != nil {
		return fmt.Errorf("set materialized through: %w", err)
	}

	return nil
}

// Deactivate деактивирует шаблон
func (r *ServiceScheduleRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE service_schedules SET is_active = false, updated_at = NOW() WHERE id = $1`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate service schedule: %w", err)
	}

	if affected == 0 {
		return model.ErrScheduleNotFound
	}

	return nil
}
