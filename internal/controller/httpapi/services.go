package httpapi

import (
	"fmt"
	"net/http"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"github.com/julienschmidt/httprouter"
)

type createServiceRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           int    `json:"price"`
	DurationMinutes int    `json:"duration_minutes"`
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// createService регистрирует услугу; провайдером становится текущий пользователь
func (a *API) createService(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	provider, err := userID(r)
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	var req createServiceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	svc, err := a.Catalog.CreateService(r.Context(), provider, model.Service{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
	})
	a.respond(w, r, http.StatusCreated, svc, err)
}

func (a *API) getService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	serviceID, err := pathID(ps, "id")
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	svc, err := a.Catalog.GetService(r.Context(), serviceID)
	a.respond(w, r, http.StatusOK, svc, err)
}

func (a *API) setServiceActive(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	serviceID, err := pathID(ps, "id")
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	var req setActiveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}
	if err := a.validate(req); err != nil {
		a.respond(w, r, 0, nil, fmt.Errorf("is_active is required: %w", err))
		return
	}

	svc, err := a.Catalog.SetActive(r.Context(), serviceID, *req.IsActive)
	a.respond(w, r, http.StatusOK, svc, err)
}
