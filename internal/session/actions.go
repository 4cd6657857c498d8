package session

import (
	"slices"

	"github.com/metinatakli/seating-session/internal/domain"
)

// Action is one of the state transitions defined in this package.
type Action interface {
	actionName() string
}

type SetLoading struct{ Loading bool }

type SetError struct{ Message *string }

type SetHoldToken struct{ Token *string }

// SetSelectedSeats replaces the selection without touching the basket.
// Prefer ApplySelection, which keeps both in step.
type SetSelectedSeats struct{ Seats []domain.Seat }

type UpdateBasket struct{ Basket domain.Basket }

type SetChartInstance struct{ Chart domain.Chart }

type SetInitialized struct{ Initialized bool }

type ClearSelection struct{}

// Reset returns to the initial state. An empty Currency keeps the basket's
// current one.
type Reset struct{ Currency string }

// AddSeatToBasket appends an adult item for Seat. The caller guarantees the
// seat is not in the basket yet.
type AddSeatToBasket struct{ Seat domain.Seat }

type RemoveSeatFromBasket struct{ SeatID string }

type CalculateBasketTotal struct{}

// ApplySelection replaces the selection and rebuilds the basket from it in a
// single transition.
type ApplySelection struct{ Seats []domain.Seat }

// Batch applies several actions as one transition.
type Batch struct{ Actions []Action }

func (SetLoading) actionName() string           { return "setLoading" }
func (SetError) actionName() string             { return "setError" }
func (SetHoldToken) actionName() string         { return "setHoldToken" }
func (SetSelectedSeats) actionName() string     { return "setSelectedSeats" }
func (UpdateBasket) actionName() string         { return "updateBasket" }
func (SetChartInstance) actionName() string     { return "setChartInstance" }
func (SetInitialized) actionName() string       { return "setInitialized" }
func (ClearSelection) actionName() string       { return "clearSelection" }
func (Reset) actionName() string                { return "reset" }
func (AddSeatToBasket) actionName() string      { return "addSeatToBasket" }
func (RemoveSeatFromBasket) actionName() string { return "removeSeatFromBasket" }
func (CalculateBasketTotal) actionName() string { return "calculateBasketTotal" }
func (ApplySelection) actionName() string       { return "applySelection" }
func (Batch) actionName() string                { return "batch" }

// Reduce returns the state that results from applying action to state. It
// never mutates state and never fails; actions that do not apply leave the
// state unchanged.
func Reduce(state State, action Action) State {
	next := state.clone()

	switch a := action.(type) {
	case SetLoading:
		next.IsLoading = a.Loading

	case SetError:
		next.Error = a.Message

	case SetHoldToken:
		next.HoldToken = a.Token

	case SetSelectedSeats:
		next.SelectedSeats = cloneSeats(a.Seats)

	case UpdateBasket:
		next.Basket = a.Basket.Clone()

	case SetChartInstance:
		next.Chart = a.Chart

	case SetInitialized:
		next.IsInitialized = a.Initialized

	case ClearSelection:
		next.SelectedSeats = []domain.Seat{}
		next.Basket = domain.NewBasket(state.Basket.Currency)

	case Reset:
		currency := a.Currency
		if currency == "" {
			currency = state.Basket.Currency
		}
		next = InitialState(currency)

	case AddSeatToBasket:
		item := domain.SeatToBasketItem(a.Seat, domain.TicketTypeAdult)
		next.Basket.Items = append(next.Basket.Items, item)
		next.Basket.TotalPrice = next.Basket.TotalPrice.Add(item.Price)

	case RemoveSeatFromBasket:
		i := slices.IndexFunc(next.Basket.Items, func(item domain.BasketItem) bool {
			return item.SeatID == a.SeatID
		})
		if i < 0 {
			return state
		}

		removed := next.Basket.Items[i]
		next.Basket.Items = slices.Delete(next.Basket.Items, i, i+1)
		next.Basket.TotalPrice = next.Basket.TotalPrice.Sub(removed.Price)

	case CalculateBasketTotal:
		next.Basket.TotalPrice = domain.SumBasketItems(next.Basket.Items)

	case ApplySelection:
		next.Basket = domain.BuildBasket(a.Seats, state.Basket.Currency, state.Basket)
		next.SelectedSeats = uniqueSeats(a.Seats)

	case Batch:
		next = state
		for _, inner := range a.Actions {
			next = Reduce(next, inner)
		}

	default:
		return state
	}

	return next
}

func uniqueSeats(seats []domain.Seat) []domain.Seat {
	unique := make([]domain.Seat, 0, len(seats))
	seen := make(map[string]bool, len(seats))

	for _, seat := range seats {
		if seen[seat.ID] {
			continue
		}
		seen[seat.ID] = true
		unique = append(unique, seat)
	}

	return unique
}
