package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

type TicketType string

const (
	TicketTypeAdult   TicketType = "adult"
	TicketTypeChild   TicketType = "child"
	TicketTypeSenior  TicketType = "senior"
	TicketTypeStudent TicketType = "student"
)

type BasketItem struct {
	SeatID     string
	Label      string
	Category   string
	Price      decimal.Decimal
	TicketType TicketType
}

type Basket struct {
	Items      []BasketItem
	TotalPrice decimal.Decimal
	Currency   string
}

func NewBasket(currency string) Basket {
	return Basket{
		Items:      []BasketItem{},
		TotalPrice: decimal.Zero,
		Currency:   currency,
	}
}

func (b Basket) IsEmpty() bool {
	return len(b.Items) == 0
}

func (b Basket) Contains(seatID string) bool {
	return b.indexOf(seatID) >= 0
}

func (b Basket) indexOf(seatID string) int {
	return slices.IndexFunc(b.Items, func(item BasketItem) bool {
		return item.SeatID == seatID
	})
}

// Clone returns a copy whose item slice does not alias b.
func (b Basket) Clone() Basket {
	items := slices.Clone(b.Items)
	if items == nil {
		items = []BasketItem{}
	}

	return Basket{
		Items:      items,
		TotalPrice: b.TotalPrice,
		Currency:   b.Currency,
	}
}

// SeatToBasketItem derives a basket item from a seat. An empty ticket type
// falls back to adult.
func SeatToBasketItem(seat Seat, ticketType TicketType) BasketItem {
	if ticketType == "" {
		ticketType = TicketTypeAdult
	}

	return BasketItem{
		SeatID:     seat.ID,
		Label:      seat.Label,
		Category:   seat.Category,
		Price:      seat.Price,
		TicketType: ticketType,
	}
}

func CalculateTotalPrice(seats []Seat) decimal.Decimal {
	total := decimal.Zero

	for _, seat := range seats {
		total = total.Add(seat.Price)
	}

	return total
}

func SumBasketItems(items []BasketItem) decimal.Decimal {
	total := decimal.Zero

	for _, item := range items {
		total = total.Add(item.Price)
	}

	return total
}

// BuildBasket derives a basket holding one item per seat, in selection order.
// Items already present in previous keep their ticket type. Repeated seat IDs
// in seats are collapsed onto the first occurrence.
func BuildBasket(seats []Seat, currency string, previous Basket) Basket {
	items := make([]BasketItem, 0, len(seats))
	seen := make(map[string]bool, len(seats))

	for _, seat := range seats {
		if seen[seat.ID] {
			continue
		}
		seen[seat.ID] = true

		var ticketType TicketType
		if i := previous.indexOf(seat.ID); i >= 0 {
			ticketType = previous.Items[i].TicketType
		}

		items = append(items, SeatToBasketItem(seat, ticketType))
	}

	return Basket{
		Items:      items,
		TotalPrice: SumBasketItems(items),
		Currency:   currency,
	}
}
