package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/metinatakli/seating-session/api"
	"github.com/metinatakli/seating-session/internal/domain"
	"github.com/metinatakli/seating-session/internal/session"
)

func (app *Application) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	app.writeSessionResponse(w, r, http.StatusOK)
}

func (app *Application) InitSessionHandler(w http.ResponseWriter, r *http.Request) {
	var input api.InitSessionRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	store := session.FromContext(r.Context())
	store.SetInitialized(*input.Initialized)

	if *input.Initialized {
		err = store.SyncChart()
		if err != nil {
			app.sessionErrorResponse(w, r, err)
			return
		}
	}

	app.writeSessionResponse(w, r, http.StatusOK)
}

func (app *Application) ChartSelectHandler(w http.ResponseWriter, r *http.Request) {
	seat, ok := app.readSeat(w, r)
	if !ok {
		return
	}

	session.FromContext(r.Context()).OnSelect(seat)

	app.writeSessionResponse(w, r, http.StatusOK)
}

func (app *Application) ChartDeselectHandler(w http.ResponseWriter, r *http.Request) {
	seat, ok := app.readSeat(w, r)
	if !ok {
		return
	}

	session.FromContext(r.Context()).OnDeselect(seat)

	app.writeSessionResponse(w, r, http.StatusOK)
}

func (app *Application) ChartSelectionChangeHandler(w http.ResponseWriter, r *http.Request) {
	var input api.SelectionRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	seats := make([]domain.Seat, len(input.Seats))
	for i, v := range input.Seats {
		seats[i], err = toDomainSeat(v)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
	}

	session.FromContext(r.Context()).OnSelectionChange(seats)

	app.writeSessionResponse(w, r, http.StatusOK)
}

func (app *Application) ChartCommandsHandler(w http.ResponseWriter, r *http.Request) {
	handle := app.contextGetSession(r)

	commands := handle.Commands.Drain()
	resp := api.ChartCommandsResponse{
		Commands: make([]api.ChartCommand, len(commands)),
	}

	for i, cmd := range commands {
		resp.Commands[i] = api.ChartCommand{
			Type:    string(cmd.Type),
			SeatIds: cmd.SeatIDs,
		}
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GroupedSeatsHandler(w http.ResponseWriter, r *http.Request) {
	state := session.FromContext(r.Context()).State()

	groups := domain.GroupSeatsByCategory(state.SelectedSeats)
	resp := api.SeatGroupsResponse{
		Groups: make([]api.SeatGroup, len(groups)),
	}

	for i, group := range groups {
		resp.Groups[i] = api.SeatGroup{
			Category: group.Category,
			Seats:    toApiSeats(group.Seats),
		}
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ValidateSelectionHandler(w http.ResponseWriter, r *http.Request) {
	handle := app.contextGetSession(r)

	result, err := handle.Controller.Validate(r.Context())
	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return
	}

	resp := api.ValidateSelectionResponse{
		Valid:  result.Valid,
		Errors: result.Errors,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ResetSessionHandler(w http.ResponseWriter, r *http.Request) {
	handle := app.contextGetSession(r)

	err := handle.Controller.ReleaseHold(r.Context())
	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return
	}

	handle.Store.Reset()
	handle.Store.SetChartInstance(handle.Commands)
	handle.Commands.ClearSelection()

	app.writeSessionResponse(w, r, http.StatusOK)
}

func (app *Application) ClearErrorHandler(w http.ResponseWriter, r *http.Request) {
	session.FromContext(r.Context()).SetError(nil)

	app.writeSessionResponse(w, r, http.StatusOK)
}

func (app *Application) EndSessionHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	handle := app.contextGetSession(r)

	err := handle.Controller.ReleaseHold(r.Context())
	if err != nil {
		logger.Warn("failed to release hold while ending session", "error", err)
	}

	app.sessions.Discard(r.Context(), app.sessionManager.Token(r.Context()))

	err = app.sessionManager.Destroy(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) readSeat(w http.ResponseWriter, r *http.Request) (domain.Seat, bool) {
	var input api.SeatRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return domain.Seat{}, false
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return domain.Seat{}, false
	}

	seat, err := toDomainSeat(input.Seat)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return domain.Seat{}, false
	}

	return seat, true
}

func (app *Application) writeSessionResponse(w http.ResponseWriter, r *http.Request, status int) {
	state := session.FromContext(r.Context()).State()

	resp, err := app.toSessionResponse(state)
	if err != nil {
		var formatErr *domain.FormatError
		if errors.As(err, &formatErr) {
			app.sessionErrorResponse(w, r, domain.WrapError(domain.ErrorKindConfig, err))
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) toSessionResponse(state session.State) (api.SessionResponse, error) {
	basket, err := app.toApiBasket(state.Basket)
	if err != nil {
		return api.SessionResponse{}, err
	}

	return api.SessionResponse{
		IsLoading:          state.IsLoading,
		IsInitialized:      state.IsInitialized,
		Error:              state.Error,
		HoldToken:          state.HoldToken,
		SelectedSeats:      toApiSeats(state.SelectedSeats),
		Basket:             basket,
		IsBasketEmpty:      state.IsBasketEmpty(),
		SelectedSeatsCount: state.SelectedSeatsCount(),
		HasError:           state.HasError(),
		IsReady:            state.IsReady(),
		CanCheckout:        state.CanCheckout(),
	}, nil
}

func (app *Application) toApiBasket(basket domain.Basket) (api.Basket, error) {
	formatted, err := domain.FormatPriceIn(app.locale, basket.TotalPrice, basket.Currency)
	if err != nil {
		return api.Basket{}, err
	}

	items := make([]api.BasketItem, len(basket.Items))
	for i, v := range basket.Items {
		items[i] = api.BasketItem{
			SeatId:     v.SeatID,
			Label:      v.Label,
			Category:   v.Category,
			Price:      v.Price,
			TicketType: api.TicketType(v.TicketType),
		}
	}

	return api.Basket{
		Items:          items,
		TotalPrice:     basket.TotalPrice,
		FormattedTotal: formatted,
		Currency:       basket.Currency,
	}, nil
}

func toDomainSeat(seat api.Seat) (domain.Seat, error) {
	if seat.Price.IsNegative() {
		return domain.Seat{}, fmt.Errorf("price of seat %s must not be negative", seat.Id)
	}

	kind := domain.SeatKind(seat.Kind)
	if kind == "" {
		kind = domain.SeatKindSeat
	}

	status := domain.SeatStatus(seat.Status)
	if status == "" {
		status = domain.SeatStatusAvailable
	}

	return domain.Seat{
		ID:       seat.Id,
		Label:    seat.Label,
		Category: seat.Category,
		Price:    seat.Price,
		Status:   status,
		Kind:     kind,
		Extra:    seat.Extra,
	}, nil
}

func toApiSeats(seats []domain.Seat) []api.Seat {
	apiSeats := make([]api.Seat, len(seats))

	for i, v := range seats {
		apiSeats[i] = api.Seat{
			Id:       v.ID,
			Label:    v.Label,
			Category: v.Category,
			Price:    v.Price,
			Status:   api.SeatStatus(v.Status),
			Kind:     api.SeatKind(v.Kind),
			Extra:    v.Extra,
		}
	}

	return apiSeats
}
