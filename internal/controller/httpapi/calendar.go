package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	ical "github.com/arran4/golang-ical"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

const calendarProductID = "-//community_scheduler//availability//EN"

// calendar отдаёт блоки услуги как iCalendar, чтобы подписаться из календарного клиента.
// Время блоков интерпретируется в часовом поясе tz (по умолчанию UTC).
func (a *API) calendar(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	serviceID, err := pathID(ps, "id")
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	loc := time.UTC
	if tz := r.URL.Query().Get("tz"); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			a.respond(w, r, 0, nil, fmt.Errorf("%w: unknown time zone %q", errBadRequest, tz))
			return
		}
	}

	from, to, err := a.dateWindow(r)
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	blocks, err := a.Blocks.ListBlocks(r.Context(), serviceID, from, to)
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	body := buildCalendar(serviceID, blocks, loc, a.now())

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="service-%d.ics"`, serviceID))
	w.WriteHeader(http.StatusOK)
	// Заголовки уже отправлены: ответить ошибкой нельзя, только залогировать
	if _, err := w.Write([]byte(body)); err != nil {
		a.Logger.Warn("Failed to write calendar",
			zap.String("request_id", requestID(r.Context())),
			zap.Int64("service_id", serviceID),
			zap.Error(err),
		)
	}
}

func buildCalendar(serviceID int64, blocks []*model.Block, loc *time.Location, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetName(fmt.Sprintf("Service %d availability", serviceID))

	for _, b := range blocks {
		event := cal.AddEvent(fmt.Sprintf("block-%d@community_scheduler", b.ID))
		event.SetDtStampTime(stamp)
		event.SetStartAt(b.Date.In(b.StartTime, loc))
		event.SetEndAt(b.Date.In(b.EndTime, loc))

		if b.IsAvailable {
			event.SetSummary("Available")
			event.SetStatus(ical.ObjectStatusTentative)
		} else {
			event.SetSummary("Booked")
			event.SetStatus(ical.ObjectStatusConfirmed)
		}
	}

	return cal.Serialize()
}
