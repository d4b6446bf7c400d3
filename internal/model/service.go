package model

import "time"

// Service услуга партнёра, для которой создаются блоки записи
type Service struct {
	ID              int64     `json:"id"`
	ProviderID      string    `json:"provider_id"`
	Name            string    `json:"name" validate:"required,min=2,max=200,clean"`
	Description     string    `json:"description" validate:"max=4000,clean"`
	Price           int       `json:"price" validate:"min=0"`                     // в центах
	DurationMinutes int       `json:"duration_minutes" validate:"min=0,max=1440"` // типичная длительность блока
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}
