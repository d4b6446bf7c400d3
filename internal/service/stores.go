package service

import (
	"context"

	"github.com/Freeeeeet/community_scheduler/internal/model"
)

// Интерфейсы хранилищ, которые реализует пакет repository.
// Get* методы возвращают nil, nil если запись не найдена.

// Transactor выполняет fn в одной транзакции
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type BlockStore interface {
	Create(ctx context.Context, block *model.Block) error
	GetByID(ctx context.Context, id int64) (*model.Block, error)
	GetByServiceAndDate(ctx context.Context, serviceID int64, date model.Date) ([]*model.Block, error)
	GetByService(ctx context.Context, serviceID int64, from, to model.Date) ([]*model.Block, error)
	UpdateIfAvailable(ctx context.Context, block *model.Block) (bool, error)
	DeleteIfAvailable(ctx context.Context, id int64) (bool, error)
	SetAvailability(ctx context.Context, id int64, available bool) error
	CompareAndSetAvailability(ctx context.Context, id int64, expected, available bool) (bool, error)
}

type BookingStore interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	GetByBlockID(ctx context.Context, blockID int64) (*model.Booking, error)
	GetByUserID(ctx context.Context, userID string) ([]*model.Booking, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type ServiceStore interface {
	GetByID(ctx context.Context, id int64) (*model.Service, error)
}

type CatalogStore interface {
	ServiceStore
	Create(ctx context.Context, svc *model.Service) error
	SetActive(ctx context.Context, id int64, active bool) error
}

type ActivityStore interface {
	Create(ctx context.Context, activity *model.Activity) error
	GetByID(ctx context.Context, id int64) (*model.Activity, error)
	GetByBaseID(ctx context.Context, baseID int64) ([]*model.Activity, error)
	UpdateDetails(ctx context.Context, activity *model.Activity) error
	Delete(ctx context.Context, id int64) error
}

type AttendanceStore interface {
	Create(ctx context.Context, attendance *model.Attendance) error
	Delete(ctx context.Context, activityID int64, userID string) (bool, error)
	CountByActivity(ctx context.Context, activityID int64) (int, error)
}

type ScheduleStore interface {
	Create(ctx context.Context, schedule *model.ServiceSchedule) error
	GetByID(ctx context.Context, id int64) (*model.ServiceSchedule, error)
	GetAllActive(ctx context.Context) ([]*model.ServiceSchedule, error)
	SetMaterializedThrough(ctx context.Context, id int64, through model.Date) error
	Deactivate(ctx context.Context, id int64) error
}

// Notifier доставляет доменные события. Ошибки доставки не влияют на операцию.
type Notifier interface {
	Notify(ctx context.Context, event model.Event)
}

// Validator проверяет структуры по тегам validate
type Validator interface {
	Struct(s any) error
}
