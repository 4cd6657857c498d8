package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/seating-session/api"
	"github.com/metinatakli/seating-session/internal/domain"
	appvalidator "github.com/metinatakli/seating-session/internal/validator"
)

const (
	ErrInternalServer   = "The server encountered a problem and could not process your request"
	ErrNotFound         = "The requested resource not found"
	ErrMethodNotAllowed = "The method is not supported for this resource"
	ErrFailedValidation = "One or more fields are invalid"
)

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.Error(err.Error(), "method", method, "uri", uri, "request_id", middleware.GetReqID(r.Context()))
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.errorResponseWithKind(w, r, status, message, "")
}

func (app *Application) errorResponseWithKind(w http.ResponseWriter, r *http.Request, status int, message string, kind domain.ErrorKind) {
	resp := api.ErrorResponse{
		Message:   message,
		Kind:      string(kind),
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, ErrNotFound)
}

func (app *Application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, ErrMethodNotAllowed)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *Application) editConflictResponseWithErr(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusConflict, err.Error())
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		app.badRequestResponse(w, r, err)
		return
	}

	resp := api.ValidationErrorResponse{
		Message:   ErrFailedValidation,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	for _, fieldErr := range validationErrors {
		resp.ValidationErrors = append(resp.ValidationErrors, api.ValidationError{
			Field: fieldErr.Namespace(),
			Issue: appvalidator.ValidationMessage(fieldErr),
		})
	}

	err = app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// sessionErrorResponse maps errors raised by a seating session onto HTTP
// responses. Categorized errors keep their kind in the response body.
func (app *Application) sessionErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *domain.Error

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		app.errorResponse(w, r, http.StatusNotFound, err.Error())

	case errors.Is(err, domain.ErrCheckoutNotAllowed):
		app.errorResponse(w, r, http.StatusConflict, err.Error())

	case errors.As(err, &domainErr):
		status := http.StatusInternalServerError

		switch domainErr.Kind {
		case domain.ErrorKindSelection:
			status = http.StatusUnprocessableEntity
		case domain.ErrorKindHold, domain.ErrorKindChart:
			status = http.StatusConflict
		case domain.ErrorKindNetwork:
			status = http.StatusBadGateway
		}

		if status == http.StatusInternalServerError {
			app.logError(r, err)
		}

		app.errorResponseWithKind(w, r, status, domainErr.Error(), domainErr.Kind)

	default:
		app.serverErrorResponse(w, r, err)
	}
}
