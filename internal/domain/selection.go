package domain

import "fmt"

const (
	DefaultMinSeats = 1
	DefaultMaxSeats = 10
)

// SelectionRules bounds the number of seats a buyer may select. Zero values
// fall back to DefaultMinSeats and DefaultMaxSeats.
type SelectionRules struct {
	MinSeats int `json:"minSeats" validate:"gte=0"`
	MaxSeats int `json:"maxSeats" validate:"gte=0"`
}

func (r SelectionRules) withDefaults() SelectionRules {
	if r.MinSeats == 0 {
		r.MinSeats = DefaultMinSeats
	}

	if r.MaxSeats == 0 {
		r.MaxSeats = DefaultMaxSeats
	}

	return r
}

type ValidationResult struct {
	Valid  bool
	Errors []string
}

// ValidateSelection checks seats against each rule independently, so both
// bounds may be reported at once.
func ValidateSelection(seats []Seat, rules SelectionRules) ValidationResult {
	rules = rules.withDefaults()
	errs := []string{}

	if len(seats) < rules.MinSeats {
		errs = append(errs, fmt.Sprintf("Please select at least %d %s", rules.MinSeats, pluralizeSeat(rules.MinSeats)))
	}

	if len(seats) > rules.MaxSeats {
		errs = append(errs, fmt.Sprintf("Please select no more than %d %s", rules.MaxSeats, pluralizeSeat(rules.MaxSeats)))
	}

	return ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

func pluralizeSeat(n int) string {
	if n == 1 {
		return "seat"
	}

	return "seats"
}

func IsSeatSelected(seat Seat, selectedSeats []Seat) bool {
	for _, s := range selectedSeats {
		if s.ID == seat.ID {
			return true
		}
	}

	return false
}

type SeatGroup struct {
	Category string
	Seats    []Seat
}

// GroupSeatsByCategory groups seats by category. Groups appear in the order
// their category is first seen and seats keep their input order.
func GroupSeatsByCategory(seats []Seat) []SeatGroup {
	groups := []SeatGroup{}
	index := make(map[string]int)

	for _, seat := range seats {
		i, ok := index[seat.Category]
		if !ok {
			i = len(groups)
			index[seat.Category] = i
			groups = append(groups, SeatGroup{Category: seat.Category})
		}

		groups[i].Seats = append(groups[i].Seats, seat)
	}

	return groups
}
