package model

import "time"

// DayWindow временной интервал для одного дня недели.
// День учитывается только если заданы оба конца.
type DayWindow struct {
	Start *TimeOfDay `json:"start,omitempty"`
	End   *TimeOfDay `json:"end,omitempty"`
}

// Defined проверяет что заданы и начало, и конец
func (w DayWindow) Defined() bool {
	return w.Start != nil && w.End != nil
}

// RecurrenceSpec правило генерации повторяющихся занятий.
// Дни недели нумеруются как time.Weekday: 0 = Sunday, 6 = Saturday.
type RecurrenceSpec struct {
	BaseID          int64                      `json:"base_id,omitempty"`
	SeriesStart     Date                       `json:"series_start"`
	SeriesEnd       Date                       `json:"series_end"`
	IntervalWeeks   int                        `json:"interval_weeks"`
	WeekdaySchedule map[time.Weekday]DayWindow `json:"weekday_schedule"`
}

// Occurrence конкретный экземпляр занятия или окна доступности
type Occurrence struct {
	BaseID    int64     `json:"base_id"`
	Date      Date      `json:"date"`
	StartTime TimeOfDay `json:"start_time"`
	EndTime   TimeOfDay `json:"end_time"`
}

// Weekday день недели занятия
func (o Occurrence) Weekday() time.Weekday {
	return o.Date.Weekday()
}
