package model

import "time"

// Booking запись пользователя на блок (cita). Отмена удаляет запись.
type Booking struct {
	ID        int64     `json:"id"`
	BlockID   int64     `json:"block_id"`
	UserID    string    `json:"user_id"` // subject от провайдера идентификации
	CreatedAt time.Time `json:"created_at"`

	// Дополнительные поля для удобства (не из БД)
	Block *Block `json:"block,omitempty"`
}
