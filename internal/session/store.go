package session

import (
	"io"
	"log/slog"
	"sync"

	"github.com/metinatakli/seating-session/internal/domain"
)

const errClosedStore = "seating session state read after the session was closed"

// Store is the only writer of a session's State. Each Dispatch is applied
// atomically and subscribers receive every resulting snapshot in the order
// the actions were applied. When another delivery is already running, a
// Dispatch returns before its snapshot reaches the subscribers.
type Store struct {
	mu          sync.RWMutex
	state       State
	currency    string
	generation  uint64
	closed      bool
	subscribers []subscriber
	nextSubID   int
	pending     []State
	delivering  bool
	logger      *slog.Logger
}

type subscriber struct {
	id int
	fn func(State)
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func NewStore(currency string, opts ...Option) *Store {
	s := &Store{
		state:    InitialState(currency),
		currency: currency,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// State returns the current snapshot. Reading a closed store is a
// programming error and panics.
func (s *Store) State() State {
	state, ok := s.current()
	if !ok {
		panic(errClosedStore)
	}

	return state
}

func (s *Store) current() (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return State{}, false
	}

	return s.state.clone(), true
}

func (s *Store) Currency() string {
	return s.currency
}

// Generation changes every time the session is reset. Callers compare it
// before and after an asynchronous request to detect stale responses.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.generation
}

func (s *Store) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.closed
}

func (s *Store) Dispatch(action Action) {
	s.update(func(State) Action { return action })
}

// update derives an action from the current state and applies it under the
// same lock. A nil action leaves the state untouched.
func (s *Store) update(derive func(State) Action) bool {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		s.logger.Debug("ignoring action on closed session")
		return false
	}

	action := derive(s.state)
	if action == nil {
		s.mu.Unlock()
		return false
	}

	s.state = Reduce(s.state, action)
	if resets(action) {
		s.generation++
	}

	if len(s.subscribers) > 0 {
		s.pending = append(s.pending, s.state)
	}

	deliver := !s.delivering && len(s.pending) > 0
	if deliver {
		s.delivering = true
	}

	s.mu.Unlock()

	s.logger.Debug("session action applied", "action", action.actionName())

	if deliver {
		s.deliver()
	}

	return true
}

// deliver hands queued snapshots to subscribers one at a time. Only one
// goroutine delivers at once; snapshots queued meanwhile, including by
// subscribers themselves, are picked up by the same loop.
func (s *Store) deliver() {
	finished := false
	defer func() {
		if !finished {
			s.mu.Lock()
			s.pending = nil
			s.delivering = false
			s.mu.Unlock()
		}
	}()

	for {
		s.mu.Lock()
		if s.closed || len(s.pending) == 0 {
			s.pending = nil
			s.delivering = false
			s.mu.Unlock()
			finished = true
			return
		}

		snapshot := s.pending[0]
		s.pending = s.pending[1:]

		subs := make([]func(State), len(s.subscribers))
		for i, sub := range s.subscribers {
			subs[i] = sub.fn
		}
		s.mu.Unlock()

		for _, fn := range subs {
			fn(snapshot.clone())
		}
	}
}

func resets(action Action) bool {
	switch a := action.(type) {
	case Reset:
		return true
	case Batch:
		for _, inner := range a.Actions {
			if resets(inner) {
				return true
			}
		}
	}

	return false
}

// Subscribe registers fn to receive every new snapshot. The returned func
// removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Close tears the session down. Later actions are ignored and reads panic.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.subscribers = nil
	s.pending = nil
	s.state = State{}
}

func (s *Store) SetLoading(loading bool) {
	s.Dispatch(SetLoading{Loading: loading})
}

func (s *Store) SetError(message *string) {
	s.Dispatch(SetError{Message: message})
}

func (s *Store) SetHoldToken(token *string) {
	s.Dispatch(SetHoldToken{Token: token})
}

func (s *Store) SetSelectedSeats(seats []domain.Seat) {
	s.Dispatch(SetSelectedSeats{Seats: seats})
}

func (s *Store) UpdateBasket(basket domain.Basket) {
	s.Dispatch(UpdateBasket{Basket: basket})
}

func (s *Store) SetChartInstance(chart domain.Chart) {
	s.Dispatch(SetChartInstance{Chart: chart})
}

func (s *Store) SetInitialized(initialized bool) {
	s.Dispatch(SetInitialized{Initialized: initialized})
}

func (s *Store) ClearSelection() {
	s.Dispatch(ClearSelection{})
}

func (s *Store) Reset() {
	s.Dispatch(Reset{Currency: s.currency})
}

func (s *Store) AddSeatToBasket(seat domain.Seat) {
	s.Dispatch(AddSeatToBasket{Seat: seat})
}

func (s *Store) RemoveSeatFromBasket(seatID string) {
	s.Dispatch(RemoveSeatFromBasket{SeatID: seatID})
}

func (s *Store) CalculateBasketTotal() {
	s.Dispatch(CalculateBasketTotal{})
}

func (s *Store) ApplySelection(seats []domain.Seat) {
	s.Dispatch(ApplySelection{Seats: seats})
}
