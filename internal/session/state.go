package session

import (
	"slices"

	"github.com/metinatakli/seating-session/internal/domain"
)

// State is a snapshot of one seating-chart session. Snapshots are never
// modified after they are published; every action yields a new one.
type State struct {
	IsLoading     bool
	IsInitialized bool
	Error         *string
	HoldToken     *string
	SelectedSeats []domain.Seat
	Basket        domain.Basket
	Chart         domain.Chart
}

func InitialState(currency string) State {
	return State{
		SelectedSeats: []domain.Seat{},
		Basket:        domain.NewBasket(currency),
	}
}

func (s State) clone() State {
	s.SelectedSeats = cloneSeats(s.SelectedSeats)
	s.Basket = s.Basket.Clone()

	return s
}

func cloneSeats(seats []domain.Seat) []domain.Seat {
	cloned := slices.Clone(seats)
	if cloned == nil {
		return []domain.Seat{}
	}

	return cloned
}

func (s State) IsBasketEmpty() bool {
	return s.Basket.IsEmpty()
}

func (s State) SelectedSeatsCount() int {
	return len(s.SelectedSeats)
}

func (s State) HasError() bool {
	return s.Error != nil
}

func (s State) IsReady() bool {
	return s.IsInitialized && !s.IsLoading && !s.HasError()
}

// CanCheckout is the only gate checkout may rely on. It never holds without
// a hold token.
func (s State) CanCheckout() bool {
	return s.IsReady() && !s.IsBasketEmpty() && s.HoldToken != nil
}
