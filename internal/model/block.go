package model

import "time"

// Block атомарный интервал времени услуги, на который можно записаться
type Block struct {
	ID          int64     `json:"id"`
	ServiceID   int64     `json:"service_id"`
	Date        Date      `json:"date"`
	StartTime   TimeOfDay `json:"start_time"`
	EndTime     TimeOfDay `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
}

// Overlaps проверяет пересечение полуоткрытых интервалов в один и тот же день.
// Смежные блоки (end == otherStart) не пересекаются.
func (b *Block) Overlaps(other *Block) bool {
	if b.ServiceID != other.ServiceID || b.Date != other.Date {
		return false
	}
	return b.StartTime < other.EndTime && other.StartTime < b.EndTime
}

// BlockUpdate частичное изменение блока; nil поля не меняются
type BlockUpdate struct {
	Date      *Date      `json:"date,omitempty"`
	StartTime *TimeOfDay `json:"start_time,omitempty"`
	EndTime   *TimeOfDay `json:"end_time,omitempty"`
}
