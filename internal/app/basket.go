package app

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/seating-session/internal/domain"
	"github.com/metinatakli/seating-session/internal/session"
)

func (app *Application) AddSeatHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	seat, ok := app.readSeat(w, r)
	if !ok {
		return
	}

	if seat.Status == domain.SeatStatusUnavailable {
		logger.Warn("basket add rejected: seat is unavailable", "seat_id", seat.ID)
		app.editConflictResponseWithErr(w, r, errors.New("the seat is not available"))
		return
	}

	err := session.FromContext(r.Context()).AddSeat(seat)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatAlreadyInBasket):
			app.editConflictResponseWithErr(w, r, err)
		default:
			app.sessionErrorResponse(w, r, err)
		}

		return
	}

	app.metrics.recordBasketSize(r.Context(), session.FromContext(r.Context()).State())

	app.writeSessionResponse(w, r, http.StatusCreated)
}

func (app *Application) RemoveSeatHandler(w http.ResponseWriter, r *http.Request) {
	seatID := chi.URLParam(r, "seatId")
	if seatID == "" {
		app.badRequestResponse(w, r, errors.New("seat ID must not be empty"))
		return
	}

	err := session.FromContext(r.Context()).RemoveSeat(seatID)
	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return
	}

	app.writeSessionResponse(w, r, http.StatusOK)
}

func (app *Application) RecalculateBasketHandler(w http.ResponseWriter, r *http.Request) {
	session.FromContext(r.Context()).CalculateBasketTotal()

	app.writeSessionResponse(w, r, http.StatusOK)
}

func (app *Application) ClearSelectionHandler(w http.ResponseWriter, r *http.Request) {
	err := session.FromContext(r.Context()).ClearAll()
	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return
	}

	app.writeSessionResponse(w, r, http.StatusOK)
}
