package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"go.uber.org/zap"
)

// AttendanceService записывает пользователей на занятия
type AttendanceService struct {
	activityRepo   ActivityStore
	attendanceRepo AttendanceStore
	logger         *zap.Logger
}

func NewAttendanceService(activityRepo ActivityStore, attendanceRepo AttendanceStore, logger *zap.Logger) *AttendanceService {
	return &AttendanceService{
		activityRepo:   activityRepo,
		attendanceRepo: attendanceRepo,
		logger:         logger,
	}
}

// Add записывает пользователя на занятие.
// Вместимость проверяется мягко: параллельные записи могут её превысить.
func (s *AttendanceService) Add(ctx context.Context, activityID int64, userID string) (*model.Attendance, error) {
	if userID == "" {
		return nil, model.ErrMissingUser
	}

	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}

	if activity == nil {
		return nil, model.ErrActivityNotFound
	}

	if activity.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: activity is %s", model.ErrActivityNotFound, activity.Status)
	}

	count, err := s.attendanceRepo.CountByActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	if !activity.HasCapacityFor(count) {
		return nil, model.ErrCapacityReached
	}

	attendance := &model.Attendance{
		ActivityID: activityID,
		UserID:     userID,
	}

	if err := s.attendanceRepo.Create(ctx, attendance); err != nil {
		if errors.Is(err, model.ErrDuplicateAttendance) || errors.Is(err, model.ErrActivityNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create attendance: %w", err)
	}

	s.logger.Info("Attendance added",
		zap.Int64("activity_id", activityID),
		zap.String("user_id", userID),
		zap.Int("attendees", count+1),
	)

	return attendance, nil
}

// Remove отменяет участие пользователя в занятии
func (s *AttendanceService) Remove(ctx context.Context, activityID int64, userID string) error {
	deleted, err := s.attendanceRepo.Delete(ctx, activityID, userID)
	if err != nil {
		return err
	}

	if !deleted {
		return model.ErrAttendanceNotFound
	}

	s.logger.Info("Attendance removed",
		zap.Int64("activity_id", activityID),
		zap.String("user_id", userID),
	)

	return nil
}
