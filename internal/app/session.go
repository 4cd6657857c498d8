package app

import (
	"net/http"

	"github.com/metinatakli/seating-session/internal/session"
)

type sessionKey string

const (
	SessionKeyGuest  = sessionKey("guest")
	SessionKeyHandle = sessionKey("seatingSession")
)

func (s sessionKey) String() string {
	return string(s)
}

func (app *Application) contextGetSession(r *http.Request) *session.Handle {
	handle, ok := r.Context().Value(SessionKeyHandle).(*session.Handle)
	if !ok {
		panic("missing seating session from context")
	}

	return handle
}
