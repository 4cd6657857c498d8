package app

import (
	"errors"
	"net/http"

	"github.com/metinatakli/seating-session/api"
	"github.com/metinatakli/seating-session/internal/session"
)

func (app *Application) AcquireHoldHandler(w http.ResponseWriter, r *http.Request) {
	handle := app.contextGetSession(r)

	token, err := handle.Controller.AcquireHold(r.Context())
	app.metrics.recordHold(r.Context(), "acquire", err)
	if err != nil {
		app.holdErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, api.HoldResponse{HoldToken: token}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) RefreshHoldHandler(w http.ResponseWriter, r *http.Request) {
	handle := app.contextGetSession(r)

	token, err := handle.Controller.RefreshHold(r.Context())
	app.metrics.recordHold(r.Context(), "refresh", err)
	if err != nil {
		app.holdErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, api.HoldResponse{HoldToken: token}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ReleaseHoldHandler(w http.ResponseWriter, r *http.Request) {
	handle := app.contextGetSession(r)

	err := handle.Controller.ReleaseHold(r.Context())
	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) holdErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, session.ErrStaleResponse) {
		app.editConflictResponseWithErr(w, r, err)
		return
	}

	app.sessionErrorResponse(w, r, err)
}
