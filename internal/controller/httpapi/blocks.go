package httpapi

import (
	"fmt"
	"net/http"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"github.com/julienschmidt/httprouter"
)

// defaultListDays окно выдачи блоков, если to не задан
const defaultListDays = 28

type createBlockRequest struct {
	Date      model.Date      `json:"date"`
	StartTime model.TimeOfDay `json:"start_time" validate:"min=0,max=1439"`
	EndTime   model.TimeOfDay `json:"end_time" validate:"min=1,max=1440"`
}

func (a *API) validate(v any) error {
	if err := a.Validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func (a *API) createBlock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	serviceID, err := pathID(ps, "id")
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	var req createBlockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}
	if err := a.validate(req); err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}
	if req.Date.IsZero() {
		a.respond(w, r, 0, nil, fmt.Errorf("%w: date is required", errBadRequest))
		return
	}

	block, err := a.Blocks.CreateBlock(r.Context(), serviceID, req.Date, req.StartTime, req.EndTime)
	a.respond(w, r, http.StatusCreated, block, err)
}

func (a *API) listBlocks(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	serviceID, err := pathID(ps, "id")
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	from, to, err := a.dateWindow(r)
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	blocks, err := a.Blocks.ListBlocks(r.Context(), serviceID, from, to)
	if blocks == nil {
		blocks = []*model.Block{}
	}
	a.respond(w, r, http.StatusOK, blocks, err)
}

// dateWindow читает from/to; по умолчанию с сегодняшнего дня на defaultListDays вперёд
func (a *API) dateWindow(r *http.Request) (model.Date, model.Date, error) {
	from, err := queryDate(r, "from", model.DateOf(a.now()))
	if err != nil {
		return model.Date{}, model.Date{}, err
	}

	to, err := queryDate(r, "to", from.AddDays(defaultListDays))
	if err != nil {
		return model.Date{}, model.Date{}, err
	}

	return from, to, nil
}

func (a *API) updateBlock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	blockID, err := pathID(ps, "id")
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	var upd model.BlockUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	block, err := a.Blocks.UpdateBlock(r.Context(), blockID, upd)
	a.respond(w, r, http.StatusOK, block, err)
}

func (a *API) deleteBlock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	blockID, err := pathID(ps, "id")
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	err = a.Blocks.DeleteBlock(r.Context(), blockID)
	a.respond(w, r, http.StatusNoContent, nil, err)
}
