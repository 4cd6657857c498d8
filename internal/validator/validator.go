package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/seating-session/internal/domain"
	"golang.org/x/text/language"
)

const (
	ErrRequired       = "is required"
	ErrMinLength      = "must contain at least %s item(s)"
	ErrMaxLength      = "must contain at most %s item(s)"
	ErrCurrency       = "must be a valid ISO 4217 currency code"
	ErrLocale         = "must be a valid BCP 47 language tag"
	ErrSeatKind       = "must be one of seat, table, booth, generalAdmission"
	ErrSeatStatus     = "must be one of available, unavailable, selected"
	ErrOneOf          = "must be one of %s"
	ErrDefaultInvalid = "is invalid"
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("seat_kind", validateSeatKind)
	validator.RegisterValidation("seat_status", validateSeatStatus)
	validator.RegisterValidation("locale", validateLocale)

	return validator
}

func validateSeatKind(fl validator.FieldLevel) bool {
	switch domain.SeatKind(fl.Field().String()) {
	case domain.SeatKindSeat, domain.SeatKindTable, domain.SeatKindBooth, domain.SeatKindGeneralAdmission:
		return true
	}

	return false
}

func validateSeatStatus(fl validator.FieldLevel) bool {
	switch domain.SeatStatus(fl.Field().String()) {
	case domain.SeatStatusAvailable, domain.SeatStatusUnavailable, domain.SeatStatusSelected:
		return true
	}

	return false
}

func validateLocale(fl validator.FieldLevel) bool {
	_, err := language.Parse(fl.Field().String())
	return err == nil
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return ErrRequired
	case "min":
		return fmt.Sprintf(ErrMinLength, err.Param())
	case "max":
		return fmt.Sprintf(ErrMaxLength, err.Param())
	case "iso4217":
		return ErrCurrency
	case "locale":
		return ErrLocale
	case "seat_kind":
		return ErrSeatKind
	case "seat_status":
		return ErrSeatStatus
	case "oneof":
		return fmt.Sprintf(ErrOneOf, err.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", err.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", err.Param())
	case "url":
		return "must be a valid URL"
	default:
		return ErrDefaultInvalid
	}
}
