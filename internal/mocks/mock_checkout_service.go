package mocks

import (
	"context"

	"github.com/metinatakli/seating-session/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockCheckoutService struct {
	mock.Mock
	domain.CheckoutService
}

func (m *MockCheckoutService) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutResult), args.Error(1)
}

type MockSelectionValidator struct {
	mock.Mock
	domain.SelectionValidator
}

func (m *MockSelectionValidator) ValidateSelection(ctx context.Context, seats []domain.Seat) (bool, error) {
	args := m.Called(ctx, seats)
	return args.Bool(0), args.Error(1)
}
