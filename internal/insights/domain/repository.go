package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists the single per-user statistics record. Find returns
// (nil, nil) when no state exists yet so callers can create-on-first-use.
type Repository interface {
	Save(ctx context.Context, s *Statistics) error
	Find(ctx context.Context) (*Statistics, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Statistics, error)
}
