package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"github.com/julienschmidt/httprouter"
)

func (a *API) book(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	blockID, err := pathID(ps, "id")
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	user, err := userID(r)
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	booking, err := a.Bookings.Book(r.Context(), blockID, user)
	a.respond(w, r, http.StatusCreated, booking, err)
}

func (a *API) myBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user, err := userID(r)
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	bookings, err := a.Bookings.ListUserBookings(r.Context(), user)
	if bookings == nil {
		bookings = []*model.Booking{}
	}
	a.respond(w, r, http.StatusOK, bookings, err)
}

// cancelBooking отменяет запись. Чужая запись выглядит как отсутствующая.
func (a *API) cancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID, err := pathID(ps, "id")
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	user, err := userID(r)
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}

	booking, err := a.Bookings.GetByID(r.Context(), bookingID)
	if err != nil {
		a.respond(w, r, 0, nil, err)
		return
	}
	if booking.UserID != user {
		a.respond(w, r, 0, nil, model.ErrBookingNotFound)
		return
	}

	err = a.Bookings.Cancel(r.Context(), bookingID)
	a.respond(w, r, http.StatusNoContent, nil, err)
}
