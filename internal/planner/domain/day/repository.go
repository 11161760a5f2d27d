package day

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for day persistence. Saves are
// last-write-wins; a missing day is reported as (nil, nil) so callers can
// create-on-first-access.
type Repository interface {
	Save(ctx context.Context, d *Day) error
	FindByID(ctx context.Context, id uuid.UUID) (*Day, error)
	FindByDate(ctx context.Context, date time.Time) (*Day, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
