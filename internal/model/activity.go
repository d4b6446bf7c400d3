package model

import "time"

type ActivityStatus string

const (
	ActivityStatusActive    ActivityStatus = "active"
	ActivityStatusCancelled ActivityStatus = "cancelled"
	ActivityStatusRejected  ActivityStatus = "rejected"
)

// IsTerminal проверяет что занятие больше нельзя менять
func (s ActivityStatus) IsTerminal() bool {
	return s == ActivityStatusCancelled || s == ActivityStatusRejected
}

// Activity сохранённый экземпляр занятия. BaseID группирует серию;
// у одиночного занятия BaseID совпадает с ID.
type Activity struct {
	ID int64 `json:"id"`
	Occurrence
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Capacity    *int           `json:"capacity"` // nil = без ограничения
	Status      ActivityStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
}

// HasCapacityFor проверяет, помещается ли ещё один участник
func (a *Activity) HasCapacityFor(attendees int) bool {
	return a.Capacity == nil || attendees < *a.Capacity
}

// ActivityTemplate общие поля всех занятий серии
type ActivityTemplate struct {
	Name        string `json:"name" validate:"required,min=2,max=200,clean"`
	Description string `json:"description" validate:"max=4000,clean"`
	Category    string `json:"category" validate:"max=100"`
	Capacity    *int   `json:"capacity" validate:"omitempty,min=1"`
}

// CapacityPatch новое значение вместимости; nil Limit снимает ограничение
type CapacityPatch struct {
	Limit *int `json:"limit" validate:"omitempty,min=1"`
}

// ActivityPatch массовое изменение серии. Дата и время не входят в патч:
// они у каждого занятия свои.
type ActivityPatch struct {
	Name        *string        `json:"name,omitempty" validate:"omitempty,min=2,max=200,clean"`
	Description *string        `json:"description,omitempty" validate:"omitempty,max=4000,clean"`
	Category    *string        `json:"category,omitempty" validate:"omitempty,max=100"`
	Capacity    *CapacityPatch `json:"capacity,omitempty"`
}

// IsEmpty проверяет что патч ничего не меняет
func (p ActivityPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Category == nil && p.Capacity == nil
}

// Apply применяет патч к занятию
func (p ActivityPatch) Apply(a *Activity) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Capacity != nil {
		a.Capacity = p.Capacity.Limit
	}
}
