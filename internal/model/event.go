package model

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBlockDeleted     EventType = "block.deleted"
	EventSeriesUpdated    EventType = "series.updated"
	EventSeriesDeleted    EventType = "series.deleted"
)

// Event доменное событие для уведомлений и внешних подписчиков
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	ServiceID  int64     `json:"service_id,omitempty"`
	BlockID    int64     `json:"block_id,omitempty"`
	BookingID  int64     `json:"booking_id,omitempty"`
	BaseID     int64     `json:"base_id,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	Summary    string    `json:"summary"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent создаёт событие с новым идентификатором
func NewEvent(eventType EventType, summary string) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		Summary:    summary,
		OccurredAt: time.Now().UTC(),
	}
}
