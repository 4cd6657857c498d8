package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/metinatakli/seating-session/internal/session"
)

func (app *Application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")

				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *Application) ensureGuestSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionId := app.sessionManager.Token(r.Context())

		if sessionId == "" {
			app.sessionManager.Put(r.Context(), SessionKeyGuest.String(), true)

			_, _, err := app.sessionManager.Commit(r.Context())
			if err != nil {
				app.serverErrorResponse(w, r, err)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// loadSeatingSession binds the caller's seating session to the request
// context, creating it on the first request of the HTTP session.
func (app *Application) loadSeatingSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionId := app.sessionManager.Token(r.Context())
		if sessionId == "" {
			app.serverErrorResponse(w, r, fmt.Errorf("no HTTP session bound to request"))
			return
		}

		handle := app.sessions.Open(sessionId)

		ctx := session.NewContext(r.Context(), handle.Store)
		ctx = context.WithValue(ctx, SessionKeyHandle, handle)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
