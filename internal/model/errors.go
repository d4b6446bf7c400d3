package model

import (
	"errors"
	"fmt"
	"strings"
)

// Ошибки валидации: обнаруживаются до любой записи
var (
	ErrInvalidRecurrence    = errors.New("invalid recurrence")
	ErrInvalidRange         = errors.New("start time must be before end time")
	ErrInvalidPatch         = errors.New("invalid patch")
	ErrInappropriateContent = errors.New("text contains inappropriate words")
	ErrMissingUser          = errors.New("user id is required")
)

// Конфликты состояния
var (
	ErrOverlapConflict      = errors.New("block overlaps an existing block")
	ErrBlockOccupied        = errors.New("block has an active booking")
	ErrBlockNotAvailable    = errors.New("block is not available")
	ErrDuplicateBooking     = errors.New("user already holds a booking on this block")
	ErrDuplicateAttendance  = errors.New("user already attends this activity")
	ErrCapacityReached      = errors.New("activity capacity reached")
	ErrServiceInactive      = errors.New("service is not active")
	ErrActivityHasAttendees = errors.New("activity has attendees")
)

// Отсутствующие сущности
var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrBlockNotFound      = errors.New("block not found")
	ErrActivityNotFound   = errors.New("activity not found")
	ErrSeriesNotFound     = errors.New("series not found")
	ErrServiceNotFound    = errors.New("service not found")
	ErrScheduleNotFound   = errors.New("service schedule not found")
	ErrAttendanceNotFound = errors.New("attendance not found")
)

// ItemFailure ошибка для одного элемента пакетной операции
type ItemFailure struct {
	ID     int64  `json:"id"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// BatchResult итог пакетной операции над серией
type BatchResult struct {
	Succeeded []int64       `json:"succeeded"`
	Failures  []ItemFailure `json:"failures"`
	// Skipped элементы, которые не нужно было менять (например, отменённые занятия)
	Skipped []ItemFailure `json:"skipped"`
}

// Total общее число обработанных элементов
func (r *BatchResult) Total() int {
	return len(r.Succeeded) + len(r.Failures) + len(r.Skipped)
}

// Err возвращает *PartialBatchFailure если хотя бы один элемент завершился ошибкой.
// Пропущенные элементы ошибкой не считаются.
func (r *BatchResult) Err(op string) error {
	if len(r.Failures) == 0 {
		return nil
	}
	return &PartialBatchFailure{Op: op, Result: r}
}

// PartialBatchFailure часть серии не обработана; успешные изменения не откатываются
type PartialBatchFailure struct {
	Op     string
	Result *BatchResult
}

func (e *PartialBatchFailure) Error() string {
	reasons := make([]string, 0, len(e.Result.Failures))
	for _, f := range e.Result.Failures {
		reasons = append(reasons, fmt.Sprintf("%d: %s", f.ID, f.Reason))
	}
	return fmt.Sprintf("%d of %d occurrences %s, %d failed: %s",
		len(e.Result.Succeeded), e.Result.Total(), e.Op,
		len(e.Result.Failures), strings.Join(reasons, "; "))
}

// Failures список неудачных элементов
func (e *PartialBatchFailure) Failures() []ItemFailure {
	return e.Result.Failures
}
