package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"github.com/Freeeeeet/community_scheduler/internal/repository/base"
	"go.uber.org/zap"
)

// ServiceRepository каталог услуг партнёров
type ServiceRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewServiceRepository(db *base.Repository, logger *zap.Logger) *ServiceRepository {
	return &ServiceRepository{
		Repository: db,
		logger:     logger,
	}
}

// Create создаёт новую услугу
func (r *ServiceRepository) Create(ctx context.Context, svc *model.Service) error {
	query := `
		INSERT INTO services (provider_id, name, description, price, duration_minutes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		svc.ProviderID,
		svc.Name,
		svc.Description,
		svc.Price,
		svc.DurationMinutes,
		svc.IsActive,
	).Scan(&svc.ID, &svc.CreatedAt)

	if err != nil {
		r.logger.Error("Failed to insert service into DB",
			zap.String("provider_id", svc.ProviderID),
			zap.String("name", svc.Name),
			zap.Error(err))
		return fmt.Errorf("create service: %w", err)
	}

	r.logger.Info("Service inserted successfully",
		zap.Int64("service_id", svc.ID),
		zap.String("provider_id", svc.ProviderID),
		zap.String("name", svc.Name))

	return nil
}

// GetByID получает услугу по ID
func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*model.Service, error) {
	query := `
		SELECT id, provider_id, name, description, price, duration_minutes, is_active, created_at
		FROM services
		WHERE id = $1
	`

	var svc model.Service
	err := r.QueryRow(ctx, query, id).Scan(
		&svc.ID,
		&svc.ProviderID,
		&svc.Name,
		&svc.Description,
		&svc.Price,
		&svc.DurationMinutes,
		&svc.IsActive,
		&svc.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service by id: %w", err)
	}

	return &svc, nil
}

// SetActive включает или выключает услугу
func (r *ServiceRepository) SetActive(ctx context.Context, id int64, active bool) error {
	affected, err := r.ExecAffected(ctx, `UPDATE services SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("set service active: %w", err)
	}

	if affected == 0 {
		return model.ErrServiceNotFound
	}

	return nil
}
