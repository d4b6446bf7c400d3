package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"github.com/julienschmidt/httprouter"
)

var errBadRequest = errors.New("bad request")

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	return nil
}

func pathID(ps httprouter.Params, name string) (int64, error) {
	raw := ps.ByName(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", errBadRequest, name, raw)
	}
	return id, nil
}

// userID субъект пользователя, проставленный шлюзом аутентификации
func userID(r *http.Request) (string, error) {
	id := r.Header.Get(userIDHeader)
	if id == "" {
		return "", model.ErrMissingUser
	}
	return id, nil
}

// queryDate читает дату из query, если параметра нет, возвращает def
func queryDate(r *http.Request, name string, def model.Date) (model.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	d, err := model.ParseDate(raw)
	if err != nil {
		return model.Date{}, fmt.Errorf("%w: %s: %v", errBadRequest, name, err)
	}
	return d, nil
}
