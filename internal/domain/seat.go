package domain

import "github.com/shopspring/decimal"

type SeatStatus string

const (
	SeatStatusAvailable   SeatStatus = "available"
	SeatStatusUnavailable SeatStatus = "unavailable"
	SeatStatusSelected    SeatStatus = "selected"
)

type SeatKind string

const (
	SeatKindSeat             SeatKind = "seat"
	SeatKindTable            SeatKind = "table"
	SeatKindBooth            SeatKind = "booth"
	SeatKindGeneralAdmission SeatKind = "generalAdmission"
)

// Seat is a selectable unit reported by the seating chart. Seats are treated
// as immutable values; only the set of selected seats changes.
type Seat struct {
	ID       string
	Label    string
	Category string
	Price    decimal.Decimal
	Status   SeatStatus
	Kind     SeatKind
	Extra    map[string]any
}

func SeatIDs(seats []Seat) []string {
	ids := make([]string, len(seats))

	for i, seat := range seats {
		ids[i] = seat.ID
	}

	return ids
}
