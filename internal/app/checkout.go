package app

import (
	"errors"
	"net/http"

	"github.com/metinatakli/seating-session/api"
	"github.com/metinatakli/seating-session/internal/session"
)

func (app *Application) CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	handle := app.contextGetSession(r)

	result, err := handle.Controller.Checkout(r.Context())
	app.metrics.recordCheckout(r.Context(), err)
	if err != nil {
		if errors.Is(err, session.ErrStaleResponse) {
			logger.Warn("checkout response arrived after the session was reset")
			app.editConflictResponseWithErr(w, r, err)
			return
		}

		app.sessionErrorResponse(w, r, err)
		return
	}

	resp := api.CheckoutResponse{
		CheckoutId:  result.ID,
		RedirectUrl: result.RedirectURL,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
