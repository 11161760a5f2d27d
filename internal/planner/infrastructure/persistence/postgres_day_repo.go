package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDayRepository implements day.Repository using PostgreSQL.
type PostgresDayRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresDayRepository creates a new PostgreSQL day repository.
func NewPostgresDayRepository(pool *pgxpool.Pool) *PostgresDayRepository {
	return &PostgresDayRepository{pool: pool}
}

// Save persists the full aggregate, replacing task and backlog rows in
// one transaction.
func (r *PostgresDayRepository) Save(ctx context.Context, d *day.Day) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO days (id, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET updated_at = EXCLUDED.updated_at
	`, d.ID(), d.Date(), d.CreatedAt(), d.UpdatedAt())
	if err != nil {
		return fmt.Errorf("upsert day: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE day_id = $1`, d.ID()); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	for i, t := range d.Tasks() {
		_, err := tx.Exec(ctx, `
			INSERT INTO tasks (
				id, day_id, position, description, rank, reasoning,
				completed, completed_at, started_at,
				estimated_duration_seconds, actual_duration_seconds,
				rolled_from_day_id, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`,
			t.ID(), d.ID(), i, t.Description(), t.Rank(), t.Reasoning(),
			t.IsCompleted(), t.CompletedAt(), t.StartedAt(),
			int64(t.EstimatedDuration().Seconds()), int64(t.ActualDuration().Seconds()),
			t.RolledFromDayID(), t.CreatedAt(), t.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM backlog_items WHERE day_id = $1`, d.ID()); err != nil {
		return fmt.Errorf("clear backlog: %w", err)
	}
	for i, item := range d.Backlog() {
		_, err := tx.Exec(ctx, `
			INSERT INTO backlog_items (
				id, day_id, position, description, date_added,
				tags, source_context, last_reviewed, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			item.ID(), d.ID(), i, item.Description(), item.DateAdded(),
			item.Tags(), item.SourceContext(), item.LastReviewed(),
			item.CreatedAt(), item.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("insert backlog item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// FindByID retrieves a day aggregate by its identifier.
func (r *PostgresDayRepository) FindByID(ctx context.Context, id uuid.UUID) (*day.Day, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, date, created_at, updated_at FROM days WHERE id = $1`, id)
	return r.scanDay(ctx, row)
}

// FindByDate retrieves the day for a calendar date, or (nil, nil) when no
// day was planned.
func (r *PostgresDayRepository) FindByDate(ctx context.Context, date time.Time) (*day.Day, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, date, created_at, updated_at FROM days WHERE date = $1`, date.Format(dateFormat))
	return r.scanDay(ctx, row)
}

// Delete removes a day and, via cascade, its tasks and backlog items.
func (r *PostgresDayRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM days WHERE id = $1`, id)
	return err
}

func (r *PostgresDayRepository) scanDay(ctx context.Context, row pgx.Row) (*day.Day, error) {
	var (
		id                   uuid.UUID
		date                 time.Time
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &date, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan day: %w", err)
	}

	tasks, err := r.loadTasks(ctx, id)
	if err != nil {
		return nil, err
	}
	backlog, err := r.loadBacklog(ctx, id)
	if err != nil {
		return nil, err
	}

	return day.RehydrateDay(id, date, tasks, backlog, createdAt, updatedAt), nil
}

func (r *PostgresDayRepository) loadTasks(ctx context.Context, dayID uuid.UUID) ([]*day.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, description, rank, reasoning, completed, completed_at, started_at,
			estimated_duration_seconds, actual_duration_seconds, rolled_from_day_id,
			created_at, updated_at
		FROM tasks WHERE day_id = $1 ORDER BY position
	`, dayID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*day.Task, 0, day.MaxActiveTasks)
	for rows.Next() {
		var (
			id                        uuid.UUID
			description, reasoning    string
			rank                      int
			completed                 bool
			completedAt, startedAt    *time.Time
			estimatedSecs, actualSecs int64
			rolledFrom                *uuid.UUID
			createdAt, updatedAt      time.Time
		)
		if err := rows.Scan(
			&id, &description, &rank, &reasoning, &completed,
			&completedAt, &startedAt,
			&estimatedSecs, &actualSecs, &rolledFrom,
			&createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}

		tasks = append(tasks, day.RehydrateTask(
			id, description, rank, reasoning,
			completed, completedAt, startedAt,
			time.Duration(estimatedSecs)*time.Second,
			time.Duration(actualSecs)*time.Second,
			rolledFrom, createdAt, updatedAt,
		))
	}
	return tasks, rows.Err()
}

func (r *PostgresDayRepository) loadBacklog(ctx context.Context, dayID uuid.UUID) ([]*day.BacklogItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, description, date_added, tags, source_context, last_reviewed,
			created_at, updated_at
		FROM backlog_items WHERE day_id = $1 ORDER BY position
	`, dayID)
	if err != nil {
		return nil, fmt.Errorf("query backlog items: %w", err)
	}
	defer rows.Close()

	items := make([]*day.BacklogItem, 0)
	for rows.Next() {
		var (
			id                   uuid.UUID
			description          string
			dateAdded            time.Time
			tags                 []string
			sourceContext        string
			lastReviewed         *time.Time
			createdAt, updatedAt time.Time
		)
		if err := rows.Scan(
			&id, &description, &dateAdded, &tags, &sourceContext,
			&lastReviewed, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan backlog item: %w", err)
		}

		items = append(items, day.RehydrateBacklogItem(
			id, description, dateAdded, tags, sourceContext, lastReviewed,
			createdAt, updatedAt,
		))
	}
	return items, rows.Err()
}
