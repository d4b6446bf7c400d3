package httpapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (a *API) attend(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	activityID, err := pathID(ps, "id")
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	user, err := userID(r)
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	attendance, err := a.Attendance.Add(r.Context(), activityID, user)
	a.respond(w, r, http.StatusCreated, attendance, err)
}

func (a *API) leave(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	activityID, err := pathID(ps, "id")
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	user, err := userID(r)
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	err = a.Attendance.Remove(r.Context(), activityID, user)
	a.respond(w, r, http.StatusNoContent, nil, err)
}
