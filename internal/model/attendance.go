package model

import "time"

// Attendance запись пользователя на конкретное занятие (asistencia)
type Attendance struct {
	ID         int64     `json:"id"`
	ActivityID int64     `json:"activity_id"`
	UserID     string    `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}
