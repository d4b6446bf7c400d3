package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlock_Overlaps(t *testing.T) {
	day := NewDate(2024, time.June, 3)
	base := &Block{ServiceID: 5, Date: day, StartTime: NewTimeOfDay(9, 0), EndTime: NewTimeOfDay(10, 0)}

	tests := []struct {
		name  string
		other Block
		want  bool
	}{
		{"partial", Block{ServiceID: 5, Date: day, StartTime: NewTimeOfDay(9, 30), EndTime: NewTimeOfDay(10, 30)}, true},
		{"inside", Block{ServiceID: 5, Date: day, StartTime: NewTimeOfDay(9, 10), EndTime: NewTimeOfDay(9, 20)}, true},
		{"adjacent", Block{ServiceID: 5, Date: day, StartTime: NewTimeOfDay(10, 0), EndTime: NewTimeOfDay(11, 0)}, false},
		{"other day", Block{ServiceID: 5, Date: day.AddDays(1), StartTime: NewTimeOfDay(9, 0), EndTime: NewTimeOfDay(10, 0)}, false},
		{"other service", Block{ServiceID: 6, Date: day, StartTime: NewTimeOfDay(9, 0), EndTime: NewTimeOfDay(10, 0)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(&tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestActivity_Capacity(t *testing.T) {
	limit := 2
	limited := &Activity{Capacity: &limit}
	assert.True(t, limited.HasCapacityFor(1))
	assert.False(t, limited.HasCapacityFor(2))

	unlimited := &Activity{}
	assert.True(t, unlimited.HasCapacityFor(1_000_000))
}

func TestActivityPatch_Apply(t *testing.T) {
	limit := 10
	activity := &Activity{
		Occurrence: Occurrence{Date: NewDate(2024, time.June, 3), StartTime: NewTimeOfDay(9, 0), EndTime: NewTimeOfDay(10, 0)},
		Name:       "Yoga",
		Category:   "sport",
		Capacity:   &limit,
	}

	name := "Evening yoga"
	patch := ActivityPatch{Name: &name, Capacity: &CapacityPatch{}}
	assert.False(t, patch.IsEmpty())
	assert.True(t, ActivityPatch{}.IsEmpty())

	patch.Apply(activity)
	assert.Equal(t, "Evening yoga", activity.Name)
	assert.Equal(t, "sport", activity.Category)
	assert.Nil(t, activity.Capacity)
	assert.Equal(t, NewTimeOfDay(9, 0), activity.StartTime)
}

func TestActivityStatus_IsTerminal(t *testing.T) {
	assert.False(t, ActivityStatusActive.IsTerminal())
	assert.True(t, ActivityStatusCancelled.IsTerminal())
	assert.True(t, ActivityStatusRejected.IsTerminal())
}

func TestBatchResult_Err(t *testing.T) {
	ok := &BatchResult{Succeeded: []int64{1, 2}}
	assert.NoError(t, ok.Err("updated"))

	skippedOnly := &BatchResult{
		Succeeded: []int64{1, 2},
		Skipped:   []ItemFailure{{ID: 3, Reason: "occurrence is cancelled"}},
	}
	assert.NoError(t, skippedOnly.Err("updated"), "skipped items are not failures")
	assert.Equal(t, 3, skippedOnly.Total())

	result := &BatchResult{
		Succeeded: []int64{42, 43},
		Failures: []ItemFailure{
			{ID: 44, Reason: "occurrence has attendees", Err: ErrActivityHasAttendees},
		},
		Skipped: []ItemFailure{{ID: 45, Reason: "occurrence is cancelled"}},
	}

	err := result.Err("deleted")
	var partial *PartialBatchFailure
	require.True(t, errors.As(err, &partial))
	assert.Equal(t, 4, result.Total())
	assert.Len(t, partial.Failures(), 1)
	assert.Equal(t,
		"2 of 4 occurrences deleted, 1 failed: 44: occurrence has attendees",
		err.Error())
}
