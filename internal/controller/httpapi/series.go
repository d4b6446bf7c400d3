package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"github.com/Freeeeeet/community_scheduler/internal/recurrence"
	"github.com/julienschmidt/httprouter"
)

// maxPreview ограничение на число дат в предпросмотре
const maxPreview = 500

type previewResponse struct {
	Occurrences []model.Occurrence `json:"occurrences"`
	Truncated   bool               `json:"truncated"`
}

// previewRecurrence разворачивает правило без записи в БД
func (a *API) previewRecurrence(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var spec model.RecurrenceSpec
	if err := decodeJSON(w, r, &spec); err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	seq, err := recurrence.Expand(spec)
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	resp := previewResponse{Occurrences: []model.Occurrence{}}
	for occ := range seq {
		if len(resp.Occurrences) == maxPreview {
			resp.Truncated = true
			break
		}
		resp.Occurrences = append(resp.Occurrences, occ)
	}

	a.respond(w, r, http.StatusOK, resp, nil)
}

type createSeriesRequest struct {
	Template   model.ActivityTemplate `json:"template"`
	Recurrence model.RecurrenceSpec   `json:"recurrence"`
}

func (a *API) createSeries(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createSeriesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	activities, err := a.Series.CreateSeries(r.Context(), req.Template, req.Recurrence)
	a.respond(w, r, http.StatusCreated, activities, err)
}

func (a *API) getSeries(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	baseID, err := pathID(ps, "id")
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	activities, err := a.Series.ListSeries(r.Context(), baseID)
	a.respond(w, r, http.StatusOK, activities, err)
}

func (a *API) patchSeries(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	baseID, err := pathID(ps, "id")
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	var patch model.ActivityPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	result, err := a.Series.ApplyToSeries(r.Context(), baseID, patch)
	a.respond(w, r, http.StatusOK, result, err)
}

func (a *API) deleteSeries(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	baseID, err := pathID(ps, "id")
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	result, err := a.Series.DeleteSeries(r.Context(), baseID)
	a.respond(w, r, http.StatusOK, result, err)
}
