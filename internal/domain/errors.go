package domain

import "errors"

var (
	ErrSessionNotFound     = errors.New("seating session not found or has expired")
	ErrHoldTokenMissing    = errors.New("there is no active hold for the selected seats")
	ErrHoldTokenExpired    = errors.New("your hold has expired, please select your seats again")
	ErrSeatAlreadyHeld     = errors.New("seat(s) are already held by another buyer")
	ErrSeatAlreadyInBasket = errors.New("seat is already in the basket")
	ErrCheckoutNotAllowed  = errors.New("the session is not ready for checkout")
)

type ErrorKind string

const (
	ErrorKindConfig    ErrorKind = "config"
	ErrorKindNetwork   ErrorKind = "network"
	ErrorKindChart     ErrorKind = "chart"
	ErrorKindSelection ErrorKind = "selection"
	ErrorKindHold      ErrorKind = "hold"
)

// Error is a categorized failure surfaced to the buyer. Details carries
// optional context such as the violated rules or the offending seat IDs.
type Error struct {
	Kind    ErrorKind
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind ErrorKind, message string, details any) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Details: details,
	}
}

// WrapError categorizes err, using its text as the message.
func WrapError(kind ErrorKind, err error) *Error {
	return &Error{
		Kind:    kind,
		Message: err.Error(),
		Err:     err,
	}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}

	return "", false
}
