package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"github.com/julienschmidt/httprouter"
)

type createScheduleResponse struct {
	Schedule      *model.ServiceSchedule `json:"schedule"`
	BlocksCreated int                    `json:"blocks_created"`
}

func (a *API) createSchedule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	serviceID, err := pathID(ps, "id")
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	var spec model.RecurrenceSpec
	if err := decodeJSON(w, r, &spec); err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	schedule, created, err := a.Schedules.CreateSchedule(r.Context(), serviceID, spec)
	a.respond(w, r, http.StatusCreated, createScheduleResponse{Schedule: schedule, BlocksCreated: created}, err)
}

func (a *API) deactivateSchedule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	scheduleID, err := pathID(ps, "id")
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	err = a.Schedules.Deactivate(r.Context(), scheduleID)
	a.respond(w, r, http.StatusNoContent, nil, err)
}
