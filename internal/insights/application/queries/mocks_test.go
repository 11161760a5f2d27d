package queries

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/daybook/internal/insights/application/services"
	"github.com/felixgeelhaar/daybook/internal/insights/domain"
	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/felixgeelhaar/daybook/pkg/clock"
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

// mockStatsRepo is a mock implementation of domain.Repository.
type mockStatsRepo struct {
	mock.Mock
}

func (m *mockStatsRepo) Save(ctx context.Context, s *domain.Statistics) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockStatsRepo) Find(ctx context.Context) (*domain.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistics), args.Error(1)
}

func (m *mockStatsRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Statistics, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistics), args.Error(1)
}

func newTestEngine() *services.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return services.NewEngine(nil, 0.8, clock.NewFixed(testNow), logger)
}
