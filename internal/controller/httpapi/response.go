package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Freeeeeet/community_scheduler/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type successResponse struct {
	Data any `json:"data"`
}

// partialResponse ответ на пакетную операцию, выполненную не полностью
type partialResponse struct {
	Error string             `json:"error"`
	Data  *model.BatchResult `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

// errorStatus сопоставляет доменную ошибку HTTP статусу и коду для клиента
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, model.ErrMissingUser):
		return http.StatusUnauthorized, "missing_user"

	case errors.Is(err, model.ErrInvalidRecurrence):
		return http.StatusUnprocessableEntity, "invalid_recurrence"
	case errors.Is(err, model.ErrInvalidRange):
		return http.StatusUnprocessableEntity, "invalid_range"
	case errors.Is(err, model.ErrInvalidPatch):
		return http.StatusUnprocessableEntity, "invalid_patch"
	case errors.Is(err, model.ErrInappropriateContent):
		return http.StatusUnprocessableEntity, "inappropriate_content"

	case errors.Is(err, model.ErrOverlapConflict):
		return http.StatusConflict, "overlap_conflict"
	case errors.Is(err, model.ErrBlockOccupied):
		return http.StatusConflict, "block_occupied"
	case errors.Is(err, model.ErrBlockNotAvailable):
		return http.StatusConflict, "block_not_available"
	case errors.Is(err, model.ErrDuplicateBooking):
		return http.StatusConflict, "duplicate_booking"
	case errors.Is(err, model.ErrDuplicateAttendance):
		return http.StatusConflict, "duplicate_attendance"
	case errors.Is(err, model.ErrCapacityReached):
		return http.StatusConflict, "capacity_reached"
	case errors.Is(err, model.ErrServiceInactive):
		return http.StatusConflict, "service_inactive"
	case errors.Is(err, model.ErrActivityHasAttendees):
		return http.StatusConflict, "activity_has_attendees"

	case errors.Is(err, model.ErrBookingNotFound),
		errors.Is(err, model.ErrBlockNotFound),
		errors.Is(err, model.ErrActivityNotFound),
		errors.Is(err, model.ErrSeriesNotFound),
		errors.Is(err, model.ErrServiceNotFound),
		errors.Is(err, model.ErrScheduleNotFound),
		errors.Is(err, model.ErrAttendanceNotFound):
		return http.StatusNotFound, "not_found"
	}

	return http.StatusInternalServerError, "internal"
}

func writeError(w http.ResponseWriter, err error) error {
	var partial *model.PartialBatchFailure
	if errors.As(err, &partial) {
		return writeJSON(w, http.StatusMultiStatus, partialResponse{
			Error: partial.Error(),
			Data:  partial.Result,
		})
	}

	status, code := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal server error"
	}

	return writeJSON(w, status, errorResponse{Error: msg, Code: code})
}
