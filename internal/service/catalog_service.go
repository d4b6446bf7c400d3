package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"go.uber.org/zap"
)

// CatalogService управляет услугами, для которых открывается запись
type CatalogService struct {
	serviceRepo CatalogStore
	validate    Validator
	logger      *zap.Logger
}

func NewCatalogService(serviceRepo CatalogStore, validate Validator, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		serviceRepo: serviceRepo,
		validate:    validate,
		logger:      logger,
	}
}

// CreateService создаёт активную услугу от имени провайдера
func (s *CatalogService) CreateService(ctx context.Context, providerID string, svc model.Service) (*model.Service, error) {
	if providerID == "" {
		return nil, model.ErrMissingUser
	}

	if err := s.validate.Struct(svc); err != nil {
		return nil, validationError(err, model.ErrInvalidPatch)
	}

	svc.ProviderID = providerID
	svc.IsActive = true

	if err := s.serviceRepo.Create(ctx, &svc); err != nil {
		return nil, err
	}

	return &svc, nil
}

// GetService получает услугу по ID
func (s *CatalogService) GetService(ctx context.Context, serviceID int64) (*model.Service, error) {
	svc, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	if svc == nil {
		return nil, model.ErrServiceNotFound
	}
	return svc, nil
}

// SetActive включает или выключает запись на услугу. Существующие блоки не меняются.
func (s *CatalogService) SetActive(ctx context.Context, serviceID int64, active bool) (*model.Service, error) {
	if err := s.serviceRepo.SetActive(ctx, serviceID, active); err != nil {
		return nil, err
	}

	s.logger.Info("Service activity changed",
		zap.Int64("service_id", serviceID),
		zap.Bool("is_active", active),
	)

	return s.GetService(ctx, serviceID)
}
