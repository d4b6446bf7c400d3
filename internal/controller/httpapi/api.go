// Package httpapi JSON API поверх движка расписаний.
// Пользователь определяется заголовком X-User-Id, который выставляет шлюз аутентификации.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type CatalogAPI interface {
	CreateService(ctx context.Context, providerID string, svc model.Service) (*model.Service, error)
	GetService(ctx context.Context, serviceID int64) (*model.Service, error)
	SetActive(ctx context.Context, serviceID int64, active bool) (*model.Service, error)
}

type BlockAPI interface {
	CreateBlock(ctx context.Context, serviceID int64, date model.Date, start, end model.TimeOfDay) (*model.Block, error)
	UpdateBlock(ctx context.Context, blockID int64, upd model.BlockUpdate) (*model.Block, error)
	DeleteBlock(ctx context.Context, blockID int64) error
	ListBlocks(ctx context.Context, serviceID int64, from, to model.Date) ([]*model.Block, error)
}

type BookingAPI interface {
	Book(ctx context.Context, blockID int64, userID string) (*model.Booking, error)
	Cancel(ctx context.Context, bookingID int64) error
	GetByID(ctx context.Context, bookingID int64) (*model.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]*model.Booking, error)
}

type SeriesAPI interface {
	CreateSeries(ctx context.Context, tmpl model.ActivityTemplate, spec model.RecurrenceSpec) ([]*model.Activity, error)
	ListSeries(ctx context.Context, baseID int64) ([]*model.Activity, error)
	ApplyToSeries(ctx context.Context, baseID int64, patch model.ActivityPatch) (*model.BatchResult, error)
	DeleteSeries(ctx context.Context, baseID int64) (*model.BatchResult, error)
}

type AttendanceAPI interface {
	Add(ctx context.Context, activityID int64, userID string) (*model.Attendance, error)
	Remove(ctx context.Context, activityID int64, userID string) error
}

type ScheduleAPI interface {
	CreateSchedule(ctx context.Context, serviceID int64, spec model.RecurrenceSpec) (*model.ServiceSchedule, int, error)
	Deactivate(ctx context.Context, scheduleID int64) error
}

// Pinger проверка доступности БД для /health
type Pinger interface {
	Ping(ctx context.Context) error
}

// Validator проверяет тела запросов по тегам validate
type Validator interface {
	Struct(s any) error
}

// Deps зависимости API
type Deps struct {
	Catalog    CatalogAPI
	Blocks     BlockAPI
	Bookings   BookingAPI
	Series     SeriesAPI
	Attendance AttendanceAPI
	Schedules  ScheduleAPI
	DB         Pinger
	Validate   Validator
	Logger     *zap.Logger
}

type API struct {
	Deps
	now func() time.Time
}

func New(deps Deps) *API {
	return &API{Deps: deps, now: time.Now}
}

// Handler собирает роутер с middleware
func (a *API) Handler() http.Handler {
	router := httprouter.New()

	router.GET("/health", a.health)
	router.POST("/recurrences/preview", a.previewRecurrence)

	router.POST("/services", a.createService)
	router.GET("/services/:id", a.getService)
	router.PATCH("/services/:id", a.setServiceActive)
	router.POST("/services/:id/blocks", a.createBlock)
	router.GET("/services/:id/blocks", a.listBlocks)
	router.GET("/services/:id/calendar.ics", a.calendar)
	router.POST("/services/:id/schedules", a.createSchedule)
	router.DELETE("/schedules/:id", a.deactivateSchedule)

	router.PATCH("/blocks/:id", a.updateBlock)
	router.DELETE("/blocks/:id", a.deleteBlock)
	router.POST("/blocks/:id/bookings", a.book)

	router.GET("/me/bookings", a.myBookings)
	router.DELETE("/bookings/:id", a.cancelBooking)

	router.POST("/series", a.createSeries)
	router.GET("/series/:id", a.getSeries)
	router.PATCH("/series/:id", a.patchSeries)
	router.DELETE("/series/:id", a.deleteSeries)

	router.POST("/activities/:id/attendance", a.attend)
	router.DELETE("/activities/:id/attendance", a.leave)

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found", Code: "not_found"})
	})

	return chain(router, withRequestID, withLogging(a.Logger), withRecovery(a.Logger))
}

// respond пишет успешный ответ или ошибку, логируя сбои записи
func (a *API) respond(w http.ResponseWriter, r *http.Request, status int, data any, err error) {
	var writeErr error
	switch {
	case err != nil:
		if s, _ := errorStatus(err); s == http.StatusInternalServerError {
			a.Logger.Error("Request failed",
				zap.String("request_id", requestID(r.Context())),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
		}
		writeErr = writeError(w, err)
	case status == http.StatusNoContent:
		w.WriteHeader(status)
	default:
		writeErr = writeJSON(w, status, successResponse{Data: data})
	}

	if writeErr != nil {
		a.Logger.Warn("Failed to write response",
			zap.String("request_id", requestID(r.Context())),
			zap.Error(writeErr),
		)
	}
}

func (a *API) health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if a.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := a.DB.Ping(ctx); err != nil {
			a.Logger.Warn("Health check failed", zap.Error(err))
			_ = writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
