package recurrence

import (
	"math/rand"
	"testing"
	"time"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"
)

func tod(s string) *model.TimeOfDay {
	t, err := model.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return &t
}

func date(s string) model.Date {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func mondayWednesdaySpec(interval int) model.RecurrenceSpec {
	return model.RecurrenceSpec{
		SeriesStart:   date("2024-06-03"),
		SeriesEnd:     date("2024-06-17"),
		IntervalWeeks: interval,
		WeekdaySchedule: map[time.Weekday]model.DayWindow{
			time.Monday:    {Start: tod("09:00"), End: tod("10:00")},
			time.Wednesday: {Start: tod("14:00"), End: tod("15:00")},
		},
	}
}

func occ(d, start, end string) model.Occurrence {
	return model.Occurrence{Date: date(d), StartTime: *tod(start), EndTime: *tod(end)}
}

func TestMondayOffset(t *testing.T) {
	assert.Equal(t, 0, MondayOffset(time.Monday))
	assert.Equal(t, 2, MondayOffset(time.Wednesday))
	assert.Equal(t, 6, MondayOffset(time.Sunday))

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		assert.Equal(t, wd, WeekdayFromMondayOffset(MondayOffset(wd)))
	}
}

func TestAnchorMonday(t *testing.T) {
	assert.Equal(t, date("2024-06-03"), AnchorMonday(date("2024-06-03")))
	assert.Equal(t, date("2024-06-03"), AnchorMonday(date("2024-06-05")))
	assert.Equal(t, date("2024-06-03"), AnchorMonday(date("2024-06-09")))
	assert.Equal(t, date("2024-12-30"), AnchorMonday(date("2025-01-01")))
}

func TestExpand_WeeklyMondayWednesday(t *testing.T) {
	got, err := ExpandAll(mondayWednesdaySpec(1))
	require.NoError(t, err)

	assert.Equal(t, []model.Occurrence{
		occ("2024-06-03", "09:00", "10:00"),
		occ("2024-06-05", "14:00", "15:00"),
		occ("2024-06-10", "09:00", "10:00"),
		occ("2024-06-12", "14:00", "15:00"),
		occ("2024-06-17", "09:00", "10:00"),
	}, got)
}

func TestExpand_EveryOtherWeek(t *testing.T) {
	got, err := ExpandAll(mondayWednesdaySpec(2))
	require.NoError(t, err)

	assert.Equal(t, []model.Occurrence{
		occ("2024-06-03", "09:00", "10:00"),
		occ("2024-06-05", "14:00", "15:00"),
		occ("2024-06-17", "09:00", "10:00"),
	}, got)
}

func TestExpand_StartMidWeekKeepsAnchorWeek(t *testing.T) {
	spec := mondayWednesdaySpec(2)
	spec.SeriesStart = date("2024-06-04") // вторник
	spec.SeriesEnd = date("2024-06-30")

	got, err := ExpandAll(spec)
	require.NoError(t, err)

	// Понедельник 3 июня до начала серии, но неделя всё равно нулевая
	assert.Equal(t, []model.Occurrence{
		occ("2024-06-05", "14:00", "15:00"),
		occ("2024-06-17", "09:00", "10:00"),
		occ("2024-06-19", "14:00", "15:00"),
	}, got)
}

func TestExpand_CarriesBaseID(t *testing.T) {
	spec := mondayWednesdaySpec(1)
	spec.BaseID = 42

	got, err := ExpandAll(spec)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for _, o := range got {
		assert.Equal(t, int64(42), o.BaseID)
	}
}

func TestExpand_EmptyResultIsNotAnError(t *testing.T) {
	spec := model.RecurrenceSpec{
		SeriesStart:   date("2024-06-04"),
		SeriesEnd:     date("2024-06-06"),
		IntervalWeeks: 1,
		WeekdaySchedule: map[time.Weekday]model.DayWindow{
			time.Monday: {Start: tod("09:00"), End: tod("10:00")},
		},
	}

	got, err := ExpandAll(spec)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestExpand_Invalid(t *testing.T) {
	valid := mondayWednesdaySpec(1)

	tests := []struct {
		name   string
		mutate func(s *model.RecurrenceSpec)
	}{
		{"end equals start", func(s *model.RecurrenceSpec) { s.SeriesEnd = s.SeriesStart }},
		{"end before start", func(s *model.RecurrenceSpec) { s.SeriesEnd = date("2024-06-01") }},
		{"zero interval", func(s *model.RecurrenceSpec) { s.IntervalWeeks = 0 }},
		{"negative interval", func(s *model.RecurrenceSpec) { s.IntervalWeeks = -1 }},
		{"no weekdays", func(s *model.RecurrenceSpec) { s.WeekdaySchedule = nil }},
		{"only partial windows", func(s *model.RecurrenceSpec) {
			s.WeekdaySchedule = map[time.Weekday]model.DayWindow{
				time.Monday:  {Start: tod("09:00")},
				time.Tuesday: {End: tod("10:00")},
			}
		}},
		{"inverted window", func(s *model.RecurrenceSpec) {
			s.WeekdaySchedule = map[time.Weekday]model.DayWindow{
				time.Monday: {Start: tod("11:00"), End: tod("10:00")},
			}
		}},
		{"unknown weekday", func(s *model.RecurrenceSpec) {
			s.WeekdaySchedule = map[time.Weekday]model.DayWindow{
				time.Weekday(7): {Start: tod("09:00"), End: tod("10:00")},
			}
		}},
		{"missing start", func(s *model.RecurrenceSpec) { s.SeriesStart = model.Date{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := valid
			spec.WeekdaySchedule = map[time.Weekday]model.DayWindow{}
			for k, v := range valid.WeekdaySchedule {
				spec.WeekdaySchedule[k] = v
			}
			tt.mutate(&spec)

			_, err := Expand(spec)
			assert.ErrorIs(t, err, model.ErrInvalidRecurrence)
		})
	}
}

func TestExpand_PartialWindowIgnoredWhenOtherDayDefined(t *testing.T) {
	spec := mondayWednesdaySpec(1)
	spec.WeekdaySchedule[time.Friday] = model.DayWindow{Start: tod("09:00")}

	got, err := ExpandAll(spec)
	require.NoError(t, err)
	for _, o := range got {
		assert.NotEqual(t, time.Friday, o.Weekday())
	}
}

func TestExpand_SequenceIsRestartable(t *testing.T) {
	seq, err := Expand(mondayWednesdaySpec(1))
	require.NoError(t, err)

	var first, second []model.Occurrence
	for o := range seq {
		first = append(first, o)
	}
	for o := range seq {
		second = append(second, o)
	}
	assert.Equal(t, first, second)

	// Досрочная остановка не ломает последовательность
	count := 0
	for range seq {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestExpandWindow(t *testing.T) {
	spec := mondayWednesdaySpec(2)
	spec.SeriesEnd = date("2024-07-31")

	got, err := ExpandWindow(spec, date("2024-06-10"), date("2024-06-20"))
	require.NoError(t, err)

	// Интервал считается от начала серии, а не от начала окна
	assert.Equal(t, []model.Occurrence{
		occ("2024-06-17", "09:00", "10:00"),
		occ("2024-06-19", "14:00", "15:00"),
	}, got)
}

var rruleWeekdays = []rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

func randomSpec(r *rand.Rand) model.RecurrenceSpec {
	start := date("2024-01-01").AddDays(r.Intn(400))
	spec := model.RecurrenceSpec{
		SeriesStart:     start,
		SeriesEnd:       start.AddDays(1 + r.Intn(120)),
		IntervalWeeks:   1 + r.Intn(4),
		WeekdaySchedule: map[time.Weekday]model.DayWindow{},
	}
	for len(spec.WeekdaySchedule) == 0 {
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			if r.Intn(3) == 0 {
				s := model.TimeOfDay(r.Intn(20 * 60))
				e := s + model.TimeOfDay(15+r.Intn(180))
				spec.WeekdaySchedule[wd] = model.DayWindow{Start: &s, End: &e}
			}
		}
	}
	return spec
}

func TestExpand_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(20240603))

	for i := 0; i < 300; i++ {
		spec := randomSpec(r)

		got, err := ExpandAll(spec)
		require.NoError(t, err)

		again, err := ExpandAll(spec)
		require.NoError(t, err)
		require.Equal(t, got, again, "expansion must be deterministic")

		for j, o := range got {
			assert.False(t, o.Date.Before(spec.SeriesStart), "occurrence before series start")
			assert.False(t, o.Date.After(spec.SeriesEnd), "occurrence after series end")

			window, ok := spec.WeekdaySchedule[o.Weekday()]
			require.True(t, ok, "weekday %s not scheduled", o.Weekday())
			assert.Equal(t, *window.Start, o.StartTime)
			assert.Equal(t, *window.End, o.EndTime)
			assert.True(t, o.StartTime < o.EndTime)

			if j > 0 {
				prev := got[j-1]
				ordered := prev.Date.Before(o.Date) ||
					(prev.Date == o.Date && prev.StartTime < o.StartTime)
				assert.True(t, ordered, "occurrences %v and %v out of order", prev, o)
			}
		}
	}
}

// Независимая проверка через RRULE: FREQ=WEEKLY;INTERVAL=n;WKST=MO;BYDAY=...
func TestExpand_MatchesRRule(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		spec := randomSpec(r)

		var byday []rrule.Weekday
		for wd := range spec.WeekdaySchedule {
			byday = append(byday, rruleWeekdays[wd])
		}

		rule, err := rrule.NewRRule(rrule.ROption{
			Freq:      rrule.WEEKLY,
			Interval:  spec.IntervalWeeks,
			Wkst:      rrule.MO,
			Byweekday: byday,
			Dtstart:   spec.SeriesStart.Time(),
			Until:     spec.SeriesEnd.Time(),
		})
		require.NoError(t, err)

		var want []model.Date
		for _, tm := range rule.All() {
			want = append(want, model.DateOf(tm))
		}

		got, err := ExpandAll(spec)
		require.NoError(t, err)

		gotDates := make([]model.Date, 0, len(got))
		for _, o := range got {
			gotDates = append(gotDates, o.Date)
		}

		if len(want) == 0 {
			assert.Empty(t, gotDates)
			continue
		}
		assert.Equal(t, want, gotDates, "spec %+v", spec)
	}
}
