// Package recurrence разворачивает правило повторения в конкретные даты занятий.
//
// Недели отсчитываются от понедельника недели, в которую попадает начало серии,
// независимо от того, на какой день недели это начало приходится.
package recurrence

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/Freeeeeet/community_scheduler/internal/model"
)

// MondayOffset переводит time.Weekday (0 = Sunday) в смещение от понедельника (0 = Monday, 6 = Sunday).
// Единственное место, где происходит это преобразование.
func MondayOffset(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// WeekdayFromMondayOffset обратное преобразование к MondayOffset
func WeekdayFromMondayOffset(offset int) time.Weekday {
	return time.Weekday((offset + 1) % 7)
}

// AnchorMonday возвращает понедельник ISO-недели, содержащей date
func AnchorMonday(date model.Date) model.Date {
	return date.AddDays(-MondayOffset(date.Weekday()))
}

// day выбранный день недели с интервалом времени
type day struct {
	offset int
	start  model.TimeOfDay
	end    model.TimeOfDay
}

// Validate проверяет правило без генерации дат
func Validate(spec model.RecurrenceSpec) error {
	_, err := scheduledDays(spec)
	return err
}

// scheduledDays проверяет правило и возвращает выбранные дни, упорядоченные по смещению от понедельника
func scheduledDays(spec model.RecurrenceSpec) ([]day, error) {
	if spec.SeriesStart.IsZero() || spec.SeriesEnd.IsZero() {
		return nil, fmt.Errorf("%w: series start and end are required", model.ErrInvalidRecurrence)
	}
	if !spec.SeriesEnd.After(spec.SeriesStart) {
		return nil, fmt.Errorf("%w: series end %s must be after series start %s",
			model.ErrInvalidRecurrence, spec.SeriesEnd, spec.SeriesStart)
	}
	if spec.IntervalWeeks < 1 {
		return nil, fmt.Errorf("%w: interval must be at least one week, got %d",
			model.ErrInvalidRecurrence, spec.IntervalWeeks)
	}

	days := make([]day, 0, len(spec.WeekdaySchedule))
	for weekday, window := range spec.WeekdaySchedule {
		if weekday < time.Sunday || weekday > time.Saturday {
			return nil, fmt.Errorf("%w: unknown weekday %d", model.ErrInvalidRecurrence, weekday)
		}
		if !window.Defined() {
			continue
		}
		start, end := *window.Start, *window.End
		if !start.Valid() || end > model.EndOfDay || start >= end {
			return nil, fmt.Errorf("%w: %s window %s-%s is not a valid time range",
				model.ErrInvalidRecurrence, weekday, start, end)
		}
		days = append(days, day{offset: MondayOffset(weekday), start: start, end: end})
	}

	if len(days) == 0 {
		return nil, fmt.Errorf("%w: no weekday has both start and end time", model.ErrInvalidRecurrence)
	}

	// В пределах одной недели даты растут вместе со смещением,
	// поэтому вся последовательность получается отсортированной по (date, start).
	slices.SortFunc(days, func(a, b day) int {
		return a.offset - b.offset
	})

	return days, nil
}

// Expand проверяет правило и возвращает конечную перезапускаемую последовательность занятий,
// отсортированную по (date, start time). Пустая последовательность не является ошибкой.
func Expand(spec model.RecurrenceSpec) (iter.Seq[model.Occurrence], error) {
	days, err := scheduledDays(spec)
	if err != nil {
		return nil, err
	}

	anchor := AnchorMonday(spec.SeriesStart)
	interval := spec.IntervalWeeks

	seq := func(yield func(model.Occurrence) bool) {
		for w := 0; !anchor.AddDays(7 * w).After(spec.SeriesEnd); w++ {
			if w%interval != 0 {
				continue
			}
			weekStart := anchor.AddDays(7 * w)
			for _, d := range days {
				date := weekStart.AddDays(d.offset)
				// Граничные недели могут частично выходить за пределы серии
				if date.Before(spec.SeriesStart) || date.After(spec.SeriesEnd) {
					continue
				}
				occ := model.Occurrence{
					BaseID:    spec.BaseID,
					Date:      date,
					StartTime: d.start,
					EndTime:   d.end,
				}
				if !yield(occ) {
					return
				}
			}
		}
	}

	return seq, nil
}

// ExpandAll разворачивает правило в срез
func ExpandAll(spec model.RecurrenceSpec) ([]model.Occurrence, error) {
	seq, err := Expand(spec)
	if err != nil {
		return nil, err
	}
	occurrences := slices.Collect(seq)
	if occurrences == nil {
		occurrences = []model.Occurrence{}
	}
	return occurrences, nil
}

// ExpandWindow разворачивает правило, оставляя только занятия в [from, to].
// Отсчёт недель по-прежнему идёт от начала серии.
func ExpandWindow(spec model.RecurrenceSpec, from, to model.Date) ([]model.Occurrence, error) {
	seq, err := Expand(spec)
	if err != nil {
		return nil, err
	}

	var occurrences []model.Occurrence
	for occ := range seq {
		if occ.Date.After(to) {
			break
		}
		if occ.Date.Before(from) {
			continue
		}
		occurrences = append(occurrences, occ)
	}
	return occurrences, nil
}
