package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"github.com/Freeeeeet/community_scheduler/internal/recurrence"
	"go.uber.org/zap"
)

// SeriesService создаёт серии занятий и применяет к ним массовые изменения
type SeriesService struct {
	tx           Transactor
	activityRepo ActivityStore
	validate     Validator
	notifier     Notifier
	logger       *zap.Logger
}

func NewSeriesService(
	tx Transactor,
	activityRepo ActivityStore,
	validate Validator,
	notifier Notifier,
	logger *zap.Logger,
) *SeriesService {
	return &SeriesService{
		tx:           tx,
		activityRepo: activityRepo,
		validate:     validate,
		notifier:     notifier,
		logger:       logger,
	}
}

// CreateSeries сохраняет все даты расписания как занятия одной серии.
// ID первого занятия становится BaseID серии. Создание атомарно.
func (s *SeriesService) CreateSeries(ctx context.Context, tmpl model.ActivityTemplate, spec model.RecurrenceSpec) ([]*model.Activity, error) {
	if err := s.validate.Struct(tmpl); err != nil {
		return nil, validationError(err, model.ErrInvalidPatch)
	}

	occurrences, err := recurrence.ExpandAll(spec)
	if err != nil {
		return nil, err
	}

	if len(occurrences) == 0 {
		return nil, fmt.Errorf("%w: no dates between %s and %s", model.ErrInvalidRecurrence, spec.SeriesStart, spec.SeriesEnd)
	}

	activities := make([]*model.Activity, 0, len(occurrences))

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var baseID int64
		for _, occ := range occurrences {
			occ.BaseID = baseID
			activity := &model.Activity{
				Occurrence:  occ,
				Name:        tmpl.Name,
				Description: tmpl.Description,
				Category:    tmpl.Category,
				Capacity:    tmpl.Capacity,
				Status:      model.ActivityStatusActive,
			}

			if err := s.activityRepo.Create(ctx, activity); err != nil {
				return fmt.Errorf("create occurrence %s: %w", occ.Date, err)
			}

			baseID = activity.BaseID
			activities = append(activities, activity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Series created",
		zap.Int64("base_id", activities[0].BaseID),
		zap.String("name", tmpl.Name),
		zap.Int("occurrences", len(activities)),
	)

	return activities, nil
}

// ListSeries возвращает все занятия серии по дате
func (s *SeriesService) ListSeries(ctx context.Context, baseID int64) ([]*model.Activity, error) {
	activities, err := s.activityRepo.GetByBaseID(ctx, baseID)
	if err != nil {
		return nil, fmt.Errorf("get series: %w", err)
	}

	if len(activities) == 0 {
		return nil, model.ErrSeriesNotFound
	}

	return activities, nil
}

// ApplyToSeries применяет одинаковый патч ко всем занятиям серии.
// Ошибка одного занятия не прерывает остальные; завершённые занятия пропускаются.
func (s *SeriesService) ApplyToSeries(ctx context.Context, baseID int64, patch model.ActivityPatch) (*model.BatchResult, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to change", model.ErrInvalidPatch)
	}

	if err := s.validate.Struct(patch); err != nil {
		return nil, validationError(err, model.ErrInvalidPatch)
	}

	activities, err := s.ListSeries(ctx, baseID)
	if err != nil {
		return nil, err
	}

	result := &model.BatchResult{Succeeded: []int64{}, Failures: []model.ItemFailure{}, Skipped: []model.ItemFailure{}}

	for _, activity := range activities {
		if activity.Status.IsTerminal() {
			result.Skipped = append(result.Skipped, model.ItemFailure{
				ID:     activity.ID,
				Reason: fmt.Sprintf("occurrence is %s", activity.Status),
			})
			continue
		}

		updated := *activity
		patch.Apply(&updated)

		if err := s.activityRepo.UpdateDetails(ctx, &updated); err != nil {
			s.logger.Warn("Failed to update occurrence",
				zap.Int64("base_id", baseID),
				zap.Int64("activity_id", activity.ID),
				zap.Error(err),
			)
			result.Failures = append(result.Failures, model.ItemFailure{
				ID:     activity.ID,
				Reason: err.Error(),
				Err:    err,
			})
			continue
		}

		result.Succeeded = append(result.Succeeded, activity.ID)
	}

	s.logger.Info("Series updated",
		zap.Int64("base_id", baseID),
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failures)),
		zap.Int("skipped", len(result.Skipped)),
	)

	if len(result.Succeeded) > 0 {
		event := model.NewEvent(model.EventSeriesUpdated,
			fmt.Sprintf("%d of %d occurrences of series %d updated", len(result.Succeeded), result.Total(), baseID))
		event.BaseID = baseID
		s.notifier.Notify(ctx, event)
	}

	return result, result.Err("updated")
}

// DeleteSeries удаляет все занятия серии. Удалённые занятия не восстанавливаются
// при ошибке на остальных: неудачи возвращаются списком.
func (s *SeriesService) DeleteSeries(ctx context.Context, baseID int64) (*model.BatchResult, error) {
	activities, err := s.ListSeries(ctx, baseID)
	if err != nil {
		return nil, err
	}

	result := &model.BatchResult{Succeeded: []int64{}, Failures: []model.ItemFailure{}, Skipped: []model.ItemFailure{}}

	for _, activity := range activities {
		if err := s.activityRepo.Delete(ctx, activity.ID); err != nil {
			reason := err.Error()
			if errors.Is(err, model.ErrActivityHasAttendees) {
				reason = "occurrence has attendees"
			}

			s.logger.Warn("Failed to delete occurrence",
				zap.Int64("base_id", baseID),
				zap.Int64("activity_id", activity.ID),
				zap.Error(err),
			)
			result.Failures = append(result.Failures, model.ItemFailure{
				ID:     activity.ID,
				Reason: reason,
				Err:    err,
			})
			continue
		}

		result.Succeeded = append(result.Succeeded, activity.ID)
	}

	s.logger.Info("Series deleted",
		zap.Int64("base_id", baseID),
		zap.Int("deleted", len(result.Succeeded)),
		zap.Int("failed", len(result.Failures)),
	)

	if len(result.Succeeded) > 0 {
		event := model.NewEvent(model.EventSeriesDeleted,
			fmt.Sprintf("%d of %d occurrences of series %d deleted", len(result.Succeeded), result.Total(), baseID))
		event.BaseID = baseID
		s.notifier.Notify(ctx, event)
	}

	return result, result.Err("deleted")
}
