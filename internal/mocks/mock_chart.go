package mocks

import (
	"github.com/metinatakli/seating-session/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockChart struct {
	mock.Mock
	domain.Chart
}

func (m *MockChart) SelectSeats(ids []string) error {
	args := m.Called(ids)
	return args.Error(0)
}

func (m *MockChart) DeselectSeats(ids []string) error {
	args := m.Called(ids)
	return args.Error(0)
}

func (m *MockChart) ClearSelection() error {
	args := m.Called()
	return args.Error(0)
}
