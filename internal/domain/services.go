package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Chart is the subset of the seating-chart widget's command surface the
// session drives to keep the rendered chart in sync with the basket.
type Chart interface {
	SelectSeats(ids []string) error
	DeselectSeats(ids []string) error
	ClearSelection() error
}

type HoldTokenService interface {
	GetHoldToken(ctx context.Context) (string, error)
	RefreshHoldToken(ctx context.Context, token string) (string, error)
}

// SeatLocker is implemented by hold services that can pin seats to a token.
// ReleaseHold drops the token together with every seat pinned to it and is a
// no-op for unknown tokens.
type SeatLocker interface {
	LockSeats(ctx context.Context, token string, seatIDs []string) error
	ReleaseHold(ctx context.Context, token string) error
}

type CheckoutRequest struct {
	SelectedSeats []Seat
	Items         []BasketItem
	HoldToken     string
	TotalPrice    decimal.Decimal
	Currency      string
}

type CheckoutResult struct {
	ID          string
	RedirectURL string
}

type CheckoutService interface {
	Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
}

// SelectionValidator is an optional, typically server-side, check of a
// selection beyond the local seat-count rules.
type SelectionValidator interface {
	ValidateSelection(ctx context.Context, seats []Seat) (bool, error)
}
