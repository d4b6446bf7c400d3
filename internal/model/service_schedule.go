package model

import (
	"time"

	"github.com/google/uuid"
)

// ServiceSchedule шаблон регулярной доступности услуги.
// Планировщик периодически превращает его в блоки.
type ServiceSchedule struct {
	ID         int64          `json:"id"`
	GroupID    uuid.UUID      `json:"group_id"` // идентификатор группы связанных шаблонов
	ServiceID  int64          `json:"service_id"`
	Recurrence RecurrenceSpec `json:"recurrence"`
	IsActive   bool           `json:"is_active"`
	// Блоки созданы по эту дату включительно; nil пока ничего не создано
	MaterializedThrough *Date     `json:"materialized_through,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
