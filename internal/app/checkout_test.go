package app

import (
	"errors"
	"net/http"
	"testing"

	"github.com/metinatakli/seating-session/api"
	"github.com/metinatakli/seating-session/internal/domain"
	"github.com/metinatakli/seating-session/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CheckoutTestSuite struct {
	suite.Suite
	app      *Application
	holds    *mocks.MockSeatLockingHoldService
	checkout *mocks.MockCheckoutService
	client   *testClient
}

func (s *CheckoutTestSuite) SetupTest() {
	s.holds = new(mocks.MockSeatLockingHoldService)
	s.checkout = new(mocks.MockCheckoutService)
	s.app = newTestApplication(func(a *Application) {
		a.holds = s.holds
		a.checkout = s.checkout
	})
	s.client = newTestClient(s.T(), s.app)
}

func TestCheckoutSuite(t *testing.T) {
	suite.Run(t, new(CheckoutTestSuite))
}

// holdSeats initializes the session, selects seats and acquires a hold.
func (s *CheckoutTestSuite) holdSeats(seats ...api.Seat) {
	ids := make([]string, len(seats))
	for i, seat := range seats {
		ids[i] = seat.Id
	}

	s.holds.On("GetHoldToken", mock.Anything).Return("hold-1", nil).Once()
	s.holds.On("LockSeats", mock.Anything, "hold-1", ids).Return(nil).Once()

	s.client.do(http.MethodPost, "/session/init", api.InitSessionRequest{Initialized: ptr(true)})
	s.client.do(http.MethodPut, "/session/chart/selection", api.SelectionRequest{Seats: seats})

	w := s.client.do(http.MethodPost, "/session/hold", nil)
	s.Require().Equal(http.StatusCreated, w.Code)
}

func (s *CheckoutTestSuite) TestCheckoutHandler() {
	tests := []struct {
		name           string
		setup          func()
		wantStatus     int
		wantErrMessage string
		wantKind       domain.ErrorKind
		wantResponse   *api.CheckoutResponse
	}{
		{
			name: "should fail without a hold",
			setup: func() {
				s.client.do(http.MethodPost, "/session/init", api.InitSessionRequest{Initialized: ptr(true)})
				s.client.do(http.MethodPost, "/session/basket/seats", api.SeatRequest{Seat: testSeatA1})
			},
			wantStatus:     http.StatusConflict,
			wantErrMessage: domain.ErrHoldTokenMissing.Error(),
			wantKind:       domain.ErrorKindHold,
		},
		{
			name: "should fail when too many seats are selected",
			setup: func() {
				extra := api.Seat{Id: "B2", Label: "B-2", Category: "Balcony", Price: decimal.NewFromInt(15)}
				bonus := api.Seat{Id: "B3", Label: "B-3", Category: "Balcony", Price: decimal.NewFromInt(15)}
				s.holdSeats(testSeatA1, testSeatA2, testSeatB1, extra, bonus)
			},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "Please select no more than 4 seats",
			wantKind:       domain.ErrorKindSelection,
		},
		{
			name: "should fail when the session is not ready",
			setup: func() {
				s.holdSeats(testSeatA1)
				s.client.do(http.MethodPost, "/session/init", api.InitSessionRequest{Initialized: ptr(false)})
			},
			wantStatus:     http.StatusConflict,
			wantErrMessage: domain.ErrCheckoutNotAllowed.Error(),
		},
		{
			name: "should fail when the payment provider fails",
			setup: func() {
				s.holdSeats(testSeatA1)
				s.checkout.On("Checkout", mock.Anything, mock.Anything).Return(nil, errors.New("stripe down")).Once()
			},
			wantStatus:     http.StatusBadGateway,
			wantErrMessage: "checkout failed: stripe down",
			wantKind:       domain.ErrorKindNetwork,
		},
		{
			name: "should submit the basket to the payment provider",
			setup: func() {
				s.holdSeats(testSeatA1, testSeatA2)
				s.checkout.On("Checkout", mock.Anything, mock.MatchedBy(func(req domain.CheckoutRequest) bool {
					return req.HoldToken == "hold-1" &&
						req.Currency == "USD" &&
						req.TotalPrice.Equal(decimal.NewFromInt(55)) &&
						len(req.Items) == 2
				})).Return(&domain.CheckoutResult{ID: "cs_test_1", RedirectURL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantResponse: &api.CheckoutResponse{
				CheckoutId:  "cs_test_1",
				RedirectUrl: "https://checkout.stripe.com/c/pay/cs_test_1",
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			defer s.holds.AssertExpectations(s.T())
			defer s.checkout.AssertExpectations(s.T())

			tt.setup()

			w := s.client.do(http.MethodPost, "/checkout", nil)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantResponse != nil {
				resp := decodeResponse[api.CheckoutResponse](s.T(), w)
				s.Equal(*tt.wantResponse, resp)
				return
			}

			resp := decodeResponse[api.ErrorResponse](s.T(), w)
			s.Equal(tt.wantErrMessage, resp.Message)
			s.Equal(string(tt.wantKind), resp.Kind)
		})
	}
}
