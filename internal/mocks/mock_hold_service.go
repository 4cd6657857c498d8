package mocks

import (
	"context"

	"github.com/metinatakli/seating-session/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockHoldTokenService struct {
	mock.Mock
}

func (m *MockHoldTokenService) GetHoldToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockHoldTokenService) RefreshHoldToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

// MockSeatLockingHoldService is a hold service that also pins seats to tokens.
type MockSeatLockingHoldService struct {
	MockHoldTokenService
}

func (m *MockSeatLockingHoldService) LockSeats(ctx context.Context, token string, seatIDs []string) error {
	args := m.Called(ctx, token, seatIDs)
	return args.Error(0)
}

func (m *MockSeatLockingHoldService) ReleaseHold(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

var (
	_ domain.HoldTokenService = (*MockHoldTokenService)(nil)
	_ domain.SeatLocker       = (*MockSeatLockingHoldService)(nil)
)
