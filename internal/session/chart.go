package session

import (
	"fmt"
	"slices"
	"sync"

	"github.com/metinatakli/seating-session/internal/domain"
)

// OnSelect handles the chart reporting that seat was selected. Seats that are
// already selected are ignored.
func (s *Store) OnSelect(seat domain.Seat) {
	s.update(func(current State) Action {
		if domain.IsSeatSelected(seat, current.SelectedSeats) {
			return nil
		}

		return ApplySelection{Seats: append(cloneSeats(current.SelectedSeats), seat)}
	})
}

func (s *Store) OnDeselect(seat domain.Seat) {
	s.update(func(current State) Action {
		if !domain.IsSeatSelected(seat, current.SelectedSeats) {
			return nil
		}

		return ApplySelection{Seats: withoutSeat(current.SelectedSeats, seat.ID)}
	})
}

// OnSelectionChange handles the chart reporting its full selection, in the
// order the seats were picked.
func (s *Store) OnSelectionChange(seats []domain.Seat) {
	s.ApplySelection(seats)
}

// AddSeat selects seat and puts it in the basket, then mirrors the change on
// the chart. Adding a seat that is already in the basket fails with
// domain.ErrSeatAlreadyInBasket.
func (s *Store) AddSeat(seat domain.Seat) error {
	var (
		chart    domain.Chart
		conflict bool
	)

	applied := s.update(func(current State) Action {
		if current.Basket.Contains(seat.ID) {
			conflict = true
			return nil
		}

		chart = current.Chart
		selected := current.SelectedSeats
		if !domain.IsSeatSelected(seat, selected) {
			selected = append(cloneSeats(selected), seat)
		}

		return Batch{Actions: []Action{
			SetSelectedSeats{Seats: selected},
			AddSeatToBasket{Seat: seat},
		}}
	})

	if conflict {
		return domain.ErrSeatAlreadyInBasket
	}

	if !applied || chart == nil {
		return nil
	}

	return s.commandChart(chart.SelectSeats([]string{seat.ID}))
}

// RemoveSeat drops a seat from both the selection and the basket, then
// deselects it on the chart. Unknown seat IDs are a no-op.
func (s *Store) RemoveSeat(seatID string) error {
	var chart domain.Chart

	applied := s.update(func(current State) Action {
		selected := slices.ContainsFunc(current.SelectedSeats, func(seat domain.Seat) bool {
			return seat.ID == seatID
		})
		if !selected && !current.Basket.Contains(seatID) {
			return nil
		}

		chart = current.Chart

		return Batch{Actions: []Action{
			SetSelectedSeats{Seats: withoutSeat(current.SelectedSeats, seatID)},
			RemoveSeatFromBasket{SeatID: seatID},
		}}
	})

	if !applied || chart == nil {
		return nil
	}

	return s.commandChart(chart.DeselectSeats([]string{seatID}))
}

// ClearAll empties the selection and the basket and clears the chart.
func (s *Store) ClearAll() error {
	var chart domain.Chart

	applied := s.update(func(current State) Action {
		chart = current.Chart
		return ClearSelection{}
	})

	if !applied || chart == nil {
		return nil
	}

	return s.commandChart(chart.ClearSelection())
}

// SyncChart re-selects every selected seat on the chart, for example after
// the widget has been re-rendered.
func (s *Store) SyncChart() error {
	state, ok := s.current()
	if !ok || state.Chart == nil || len(state.SelectedSeats) == 0 {
		return nil
	}

	return s.commandChart(state.Chart.SelectSeats(domain.SeatIDs(state.SelectedSeats)))
}

func (s *Store) commandChart(err error) error {
	if err == nil {
		return nil
	}

	chartErr := domain.WrapError(domain.ErrorKindChart, fmt.Errorf("chart command failed: %w", err))
	message := chartErr.Error()
	s.SetError(&message)

	return chartErr
}

func withoutSeat(seats []domain.Seat, seatID string) []domain.Seat {
	remaining := make([]domain.Seat, 0, len(seats))

	for _, seat := range seats {
		if seat.ID != seatID {
			remaining = append(remaining, seat)
		}
	}

	return remaining
}

type ChartCommandType string

const (
	ChartCommandSelect   ChartCommandType = "selectSeats"
	ChartCommandDeselect ChartCommandType = "deselectSeats"
	ChartCommandClear    ChartCommandType = "clearSelection"
)

type ChartCommand struct {
	Type    ChartCommandType
	SeatIDs []string
}

// CommandQueue is a Chart that records commands for a widget running
// elsewhere, typically in the buyer's browser, to pick up and replay.
type CommandQueue struct {
	mu       sync.Mutex
	commands []ChartCommand
}

func NewCommandQueue() *CommandQueue {
	return &CommandQueue{}
}

func (q *CommandQueue) SelectSeats(ids []string) error {
	q.push(ChartCommand{Type: ChartCommandSelect, SeatIDs: slices.Clone(ids)})
	return nil
}

func (q *CommandQueue) DeselectSeats(ids []string) error {
	q.push(ChartCommand{Type: ChartCommandDeselect, SeatIDs: slices.Clone(ids)})
	return nil
}

func (q *CommandQueue) ClearSelection() error {
	q.push(ChartCommand{Type: ChartCommandClear})
	return nil
}

func (q *CommandQueue) push(cmd ChartCommand) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.commands = append(q.commands, cmd)
}

// Drain returns the queued commands in issue order and empties the queue.
func (q *CommandQueue) Drain() []ChartCommand {
	q.mu.Lock()
	defer q.mu.Unlock()

	commands := q.commands
	q.commands = nil

	if commands == nil {
		return []ChartCommand{}
	}

	return commands
}
