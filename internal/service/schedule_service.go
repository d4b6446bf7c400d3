package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"github.com/Freeeeeet/community_scheduler/internal/recurrence"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BlockCreator создаёт блоки доступности; реализуется BlockService
type BlockCreator interface {
	CreateBlock(ctx context.Context, serviceID int64, date model.Date, start, end model.TimeOfDay) (*model.Block, error)
}

// ScheduleService хранит шаблоны регулярной доступности услуг
// и превращает их в блоки на несколько недель вперёд
type ScheduleService struct {
	scheduleRepo ScheduleStore
	serviceRepo  ServiceStore
	blocks       BlockCreator
	weeksAhead   int
	now          func() time.Time
	logger       *zap.Logger
}

func NewScheduleService(
	scheduleRepo ScheduleStore,
	serviceRepo ServiceStore,
	blocks BlockCreator,
	weeksAhead int,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		serviceRepo:  serviceRepo,
		blocks:       blocks,
		weeksAhead:   weeksAhead,
		now:          time.Now,
		logger:       logger,
	}
}

// CreateSchedule сохраняет шаблон и сразу создаёт блоки на weeksAhead недель
func (s *ScheduleService) CreateSchedule(ctx context.Context, serviceID int64, spec model.RecurrenceSpec) (*model.ServiceSchedule, int, error) {
	if err := recurrence.Validate(spec); err != nil {
		return nil, 0, err
	}

	svc, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, 0, fmt.Errorf("get service: %w", err)
	}

	if svc == nil {
		return nil, 0, model.ErrServiceNotFound
	}

	if !svc.IsActive {
		return nil, 0, model.ErrServiceInactive
	}

	schedule := &model.ServiceSchedule{
		GroupID:    uuid.New(),
		ServiceID:  serviceID,
		Recurrence: spec,
		IsActive:   true,
	}

	if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
		return nil, 0, fmt.Errorf("create service schedule: %w", err)
	}

	s.logger.Info("Service schedule created",
		zap.Int64("schedule_id", schedule.ID),
		zap.String("group_id", schedule.GroupID.String()),
		zap.Int64("service_id", serviceID),
	)

	count, err := s.materialize(ctx, schedule, s.weeksAhead)
	if err != nil {
		// Шаблон сохранён, блоки догенерирует планировщик
		s.logger.Warn("Failed to materialize blocks for new schedule",
			zap.Error(err),
			zap.Int64("schedule_id", schedule.ID),
		)
	}

	return schedule, count, nil
}

// materialize создаёт блоки для дат шаблона в окне [сегодня, сегодня + weeksAhead недель].
// Даты до отметки materialized_through уже обработаны и не трогаются, поэтому
// удалённый вручную блок не появляется снова. Прошедшие сегодня блоки пропускаются.
func (s *ScheduleService) materialize(ctx context.Context, schedule *model.ServiceSchedule, weeksAhead int) (int, error) {
	now := s.now()
	location := now.Location()
	today := model.DateOf(now)
	until := today.AddDays(7 * weeksAhead)

	from := today
	if mark := schedule.MaterializedThrough; mark != nil && !mark.Before(from) {
		from = mark.AddDays(1)
	}
	if from.After(until) {
		return 0, nil
	}

	occurrences, err := recurrence.ExpandWindow(schedule.Recurrence, from, until)
	if err != nil {
		return 0, err
	}

	var (
		count   int
		through = until
		stopErr error
	)

	for _, occ := range occurrences {
		// Пропускаем прошедшие слоты
		if occ.Date.In(occ.StartTime, location).Before(now) {
			continue
		}

		_, err := s.blocks.CreateBlock(ctx, schedule.ServiceID, occ.Date, occ.StartTime, occ.EndTime)
		if err == nil {
			count++
			continue
		}

		if errors.Is(err, model.ErrOverlapConflict) {
			s.logger.Debug("Block already exists, skipping",
				zap.Int64("schedule_id", schedule.ID),
				zap.Stringer("date", occ.Date),
			)
			continue
		}

		// Дату не отмечаем: следующий запуск попробует её снова
		through = occ.Date.AddDays(-1)
		if errors.Is(err, model.ErrServiceInactive) || errors.Is(err, model.ErrServiceNotFound) {
			stopErr = err
		} else {
			s.logger.Warn("Failed to create block",
				zap.Error(err),
				zap.Int64("schedule_id", schedule.ID),
				zap.Stringer("date", occ.Date),
			)
		}
		break
	}

	if !through.Before(from) {
		if err := s.scheduleRepo.SetMaterializedThrough(ctx, schedule.ID, through); err != nil {
			return count, fmt.Errorf("save materialization mark: %w", err)
		}
		schedule.MaterializedThrough = &through
	}

	return count, stopErr
}

// MaterializeAll создаёт блоки для всех активных шаблонов.
// Вызывается планировщиком периодически.
func (s *ScheduleService) MaterializeAll(ctx context.Context, weeksAhead int) (int, error) {
	schedules, err := s.scheduleRepo.GetAllActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("get all active service schedules: %w", err)
	}

	total := 0
	for _, schedule := range schedules {
		count, err := s.materialize(ctx, schedule, weeksAhead)
		if err != nil {
			s.logger.Error("Failed to materialize service schedule",
				zap.Error(err),
				zap.Int64("schedule_id", schedule.ID),
			)
		}
		total += count
	}

	s.logger.Info("Materialized blocks for all service schedules",
		zap.Int("total_schedules", len(schedules)),
		zap.Int("total_blocks_created", total),
	)

	return total, nil
}

// Deactivate выключает шаблон. Уже созданные блоки остаются.
func (s *ScheduleService) Deactivate(ctx context.Context, scheduleID int64) error {
	if err := s.scheduleRepo.Deactivate(ctx, scheduleID); err != nil {
		return err
	}

	s.logger.Info("Service schedule deactivated", zap.Int64("schedule_id", scheduleID))
	return nil
}
