package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// mockDayRepo is a mock implementation of day.Repository.
type mockDayRepo struct {
	mock.Mock
}

func (m *mockDayRepo) Save(ctx context.Context, d *day.Day) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *mockDayRepo) FindByID(ctx context.Context, id uuid.UUID) (*day.Day, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*day.Day), args.Error(1)
}

func (m *mockDayRepo) FindByDate(ctx context.Context, date time.Time) (*day.Day, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*day.Day), args.Error(1)
}

func (m *mockDayRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
