// Package api holds the JSON contract of the seating session HTTP API.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	Kind      string    `json:"kind,omitempty"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type SeatStatus string

const (
	Available   SeatStatus = "available"
	Unavailable SeatStatus = "unavailable"
	Selected    SeatStatus = "selected"
)

type SeatKind string

const (
	KindSeat             SeatKind = "seat"
	KindTable            SeatKind = "table"
	KindBooth            SeatKind = "booth"
	KindGeneralAdmission SeatKind = "generalAdmission"
)

type TicketType string

const (
	Adult   TicketType = "adult"
	Child   TicketType = "child"
	Senior  TicketType = "senior"
	Student TicketType = "student"
)

type Seat struct {
	Id       string          `json:"id" validate:"required"`
	Label    string          `json:"label"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Status   SeatStatus      `json:"status,omitempty" validate:"omitempty,seat_status"`
	Kind     SeatKind        `json:"kind,omitempty" validate:"omitempty,seat_kind"`
	Extra    map[string]any  `json:"extra,omitempty"`
}

type BasketItem struct {
	SeatId     string          `json:"seatId"`
	Label      string          `json:"label"`
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price"`
	TicketType TicketType      `json:"ticketType"`
}

type Basket struct {
	Items          []BasketItem    `json:"items"`
	TotalPrice     decimal.Decimal `json:"totalPrice"`
	FormattedTotal string          `json:"formattedTotal"`
	Currency       string          `json:"currency"`
}

type SessionResponse struct {
	IsLoading          bool    `json:"isLoading"`
	IsInitialized      bool    `json:"isInitialized"`
	Error              *string `json:"error"`
	HoldToken          *string `json:"holdToken"`
	SelectedSeats      []Seat  `json:"selectedSeats"`
	Basket             Basket  `json:"basket"`
	IsBasketEmpty      bool    `json:"isBasketEmpty"`
	SelectedSeatsCount int     `json:"selectedSeatsCount"`
	HasError           bool    `json:"hasError"`
	IsReady            bool    `json:"isReady"`
	CanCheckout        bool    `json:"canCheckout"`
}

type InitSessionRequest struct {
	Initialized *bool `json:"initialized" validate:"required"`
}

type SeatRequest struct {
	Seat Seat `json:"seat" validate:"required"`
}

type SelectionRequest struct {
	Seats []Seat `json:"seats" validate:"dive"`
}

type ValidateSelectionResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

type SeatGroup struct {
	Category string `json:"category"`
	Seats    []Seat `json:"seats"`
}

type SeatGroupsResponse struct {
	Groups []SeatGroup `json:"groups"`
}

type HoldResponse struct {
	HoldToken string `json:"holdToken"`
}

type CheckoutResponse struct {
	CheckoutId  string `json:"checkoutId"`
	RedirectUrl string `json:"redirectUrl"`
}

type ChartCommand struct {
	Type    string   `json:"type"`
	SeatIds []string `json:"seatIds,omitempty"`
}

type ChartCommandsResponse struct {
	Commands []ChartCommand `json:"commands"`
}
