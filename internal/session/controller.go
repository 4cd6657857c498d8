package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/metinatakli/seating-session/internal/domain"
)

var ErrStaleResponse = errors.New("response discarded: superseded by a newer request or a session reset")

const (
	remoteValidationFailed = "Some of the selected seats are no longer available"
	discardTimeout         = 5 * time.Second
)

type Dependencies struct {
	Holds     domain.HoldTokenService
	Checkout  domain.CheckoutService
	Validator domain.SelectionValidator
	Rules     domain.SelectionRules
	Logger    *slog.Logger
}

// Controller runs the asynchronous request cycles of a session against the
// external hold, checkout and validation services. It reports progress only
// through the store's actions and drops responses that arrive after a reset
// or after a newer request of the same kind.
type Controller struct {
	store     *Store
	holds     domain.HoldTokenService
	checkout  domain.CheckoutService
	validator domain.SelectionValidator
	rules     domain.SelectionRules
	logger    *slog.Logger

	mu      sync.Mutex
	holdSeq uint64
}

func NewController(store *Store, deps Dependencies) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Controller{
		store:     store,
		holds:     deps.Holds,
		checkout:  deps.Checkout,
		validator: deps.Validator,
		rules:     deps.Rules,
		logger:    logger,
	}
}

func (c *Controller) Store() *Store {
	return c.store
}

type pending struct {
	seq        uint64
	generation uint64
}

func (c *Controller) beginHold() pending {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.holdSeq++

	return pending{seq: c.holdSeq, generation: c.store.Generation()}
}

func (c *Controller) holdIsCurrent(p pending) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return p.seq == c.holdSeq && c.sessionUnchanged(p)
}

func (c *Controller) sessionUnchanged(p pending) bool {
	return !c.store.Closed() && c.store.Generation() == p.generation
}

// AcquireHold asks the hold service for a new token and, when the service can
// lock seats, moves the current selection from the previous hold onto it.
func (c *Controller) AcquireHold(ctx context.Context) (string, error) {
	state, ok := c.store.current()
	if !ok {
		return "", domain.ErrSessionNotFound
	}

	p := c.beginHold()
	c.store.SetLoading(true)

	token, err := c.holds.GetHoldToken(ctx)
	if err != nil {
		return c.settleHold(p, "", err, "acquire", false)
	}

	previousReleased, err := c.pinSeats(ctx, state, token)

	return c.settleHold(p, token, err, "acquire", previousReleased)
}

// pinSeats locks the selected seats under token. Seats still pinned to the
// session's previous hold are freed first, so the new token does not collide
// with them. It reports whether the previous hold was released.
func (c *Controller) pinSeats(ctx context.Context, state State, token string) (bool, error) {
	locker, ok := c.holds.(domain.SeatLocker)
	if !ok {
		return false, nil
	}

	previousReleased := false
	if state.HoldToken != nil && *state.HoldToken != token {
		err := locker.ReleaseHold(ctx, *state.HoldToken)
		if err != nil {
			c.discardToken(locker, token)
			return false, err
		}
		previousReleased = true
	}

	if len(state.SelectedSeats) == 0 {
		return previousReleased, nil
	}

	err := locker.LockSeats(ctx, token, domain.SeatIDs(state.SelectedSeats))
	if err != nil {
		c.discardToken(locker, token)
		return previousReleased, err
	}

	return previousReleased, nil
}

// discardToken gives back a token the session will never store.
func (c *Controller) discardToken(locker domain.SeatLocker, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), discardTimeout)
	defer cancel()

	err := locker.ReleaseHold(ctx, token)
	if err != nil {
		c.logger.Warn("failed to release unused hold", "error", err)
	}
}

// RefreshHold extends the active hold. An expired hold is dropped from the
// session.
func (c *Controller) RefreshHold(ctx context.Context) (string, error) {
	state, ok := c.store.current()
	if !ok {
		return "", domain.ErrSessionNotFound
	}

	if state.HoldToken == nil {
		return "", domain.WrapError(domain.ErrorKindHold, domain.ErrHoldTokenMissing)
	}

	p := c.beginHold()
	c.store.SetLoading(true)

	token, err := c.holds.RefreshHoldToken(ctx, *state.HoldToken)

	return c.settleHold(p, token, err, "refresh", false)
}

// settleHold reports the outcome of a hold request. dropToken means the
// session's previous hold no longer exists, whatever the outcome.
func (c *Controller) settleHold(p pending, token string, err error, op string, dropToken bool) (string, error) {
	if !c.holdIsCurrent(p) {
		c.logger.Info("discarding stale hold response", "operation", op)

		if locker, ok := c.holds.(domain.SeatLocker); ok && op == "acquire" && err == nil {
			c.discardToken(locker, token)
		}

		return "", ErrStaleResponse
	}

	if err != nil {
		holdErr := classifyHoldError(err)
		message := holdErr.Error()

		actions := []Action{SetLoading{Loading: false}, SetError{Message: &message}}
		if dropToken || errors.Is(err, domain.ErrHoldTokenExpired) {
			actions = append(actions, SetHoldToken{Token: nil})
		}

		c.store.Dispatch(Batch{Actions: actions})
		c.logger.Warn("hold request failed", "operation", op, "error", err)

		return "", holdErr
	}

	c.store.Dispatch(Batch{Actions: []Action{
		SetHoldToken{Token: &token},
		SetError{Message: nil},
		SetLoading{Loading: false},
	}})

	return token, nil
}

func classifyHoldError(err error) *domain.Error {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		return domainErr
	}

	switch {
	case errors.Is(err, domain.ErrHoldTokenExpired), errors.Is(err, domain.ErrSeatAlreadyHeld):
		return domain.WrapError(domain.ErrorKindHold, err)
	default:
		return domain.WrapError(domain.ErrorKindNetwork, fmt.Errorf("hold service unavailable: %w", err))
	}
}

// Validate checks the selection against the local seat-count rules and then,
// if configured, against the remote validator. Rule violations are returned
// in the result and are not recorded as session errors.
func (c *Controller) Validate(ctx context.Context) (domain.ValidationResult, error) {
	state, ok := c.store.current()
	if !ok {
		return domain.ValidationResult{}, domain.ErrSessionNotFound
	}

	result := domain.ValidateSelection(state.SelectedSeats, c.rules)
	if !result.Valid || c.validator == nil {
		return result, nil
	}

	generation := c.store.Generation()

	valid, err := c.validator.ValidateSelection(ctx, state.SelectedSeats)
	if !c.sessionUnchanged(pending{generation: generation}) {
		return domain.ValidationResult{}, ErrStaleResponse
	}

	if err != nil {
		netErr := domain.WrapError(domain.ErrorKindNetwork, fmt.Errorf("selection validation unavailable: %w", err))
		message := netErr.Error()
		c.store.SetError(&message)

		return domain.ValidationResult{}, netErr
	}

	if !valid {
		return domain.ValidationResult{Valid: false, Errors: []string{remoteValidationFailed}}, nil
	}

	return result, nil
}

// Checkout submits the basket for purchase. It refuses to run unless the
// session can check out and the selection satisfies the seat-count rules.
func (c *Controller) Checkout(ctx context.Context) (*domain.CheckoutResult, error) {
	state, ok := c.store.current()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	if state.HoldToken == nil {
		return nil, domain.WrapError(domain.ErrorKindHold, domain.ErrHoldTokenMissing)
	}

	result := domain.ValidateSelection(state.SelectedSeats, c.rules)
	if !result.Valid {
		return nil, domain.NewError(domain.ErrorKindSelection, result.Errors[0], result.Errors)
	}

	if !state.CanCheckout() {
		return nil, domain.ErrCheckoutNotAllowed
	}

	req := domain.CheckoutRequest{
		SelectedSeats: state.SelectedSeats,
		Items:         state.Basket.Items,
		HoldToken:     *state.HoldToken,
		TotalPrice:    state.Basket.TotalPrice,
		Currency:      state.Basket.Currency,
	}

	p := pending{generation: c.store.Generation()}
	c.store.SetLoading(true)

	res, err := c.checkout.Checkout(ctx, req)
	if !c.sessionUnchanged(p) {
		c.logger.Info("discarding stale checkout response")
		return nil, ErrStaleResponse
	}

	if err != nil {
		var checkoutErr *domain.Error
		if !errors.As(err, &checkoutErr) {
			checkoutErr = domain.WrapError(domain.ErrorKindNetwork, fmt.Errorf("checkout failed: %w", err))
		}
		message := checkoutErr.Error()

		c.store.Dispatch(Batch{Actions: []Action{
			SetLoading{Loading: false},
			SetError{Message: &message},
		}})
		c.logger.Error("checkout failed", "error", err)

		return nil, checkoutErr
	}

	if res == nil {
		res = &domain.CheckoutResult{}
	}

	c.store.SetLoading(false)
	c.logger.Info("checkout submitted", "checkout_id", res.ID, "seats", len(req.SelectedSeats))

	return res, nil
}

// ReleaseHold gives up the active hold together with every seat pinned to it.
// Acquire or refresh requests still in flight are superseded.
func (c *Controller) ReleaseHold(ctx context.Context) error {
	state, ok := c.store.current()
	if !ok {
		return domain.ErrSessionNotFound
	}

	if state.HoldToken == nil {
		return nil
	}

	c.beginHold()

	if locker, ok := c.holds.(domain.SeatLocker); ok {
		err := locker.ReleaseHold(ctx, *state.HoldToken)
		if err != nil {
			c.logger.Warn("failed to release hold", "error", err)
		}
	}

	c.store.Dispatch(Batch{Actions: []Action{
		SetHoldToken{Token: nil},
		SetLoading{Loading: false},
	}})

	return nil
}
