// Package persistence implements the planner repositories for SQLite and
// PostgreSQL. Days are stored relationally; the aggregate is saved as a
// whole, replacing its task and backlog rows inside one transaction.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/google/uuid"
)

const dateFormat = "2006-01-02"

// SQLiteDayRepository implements day.Repository using SQLite.
type SQLiteDayRepository struct {
	db *sql.DB
}

// NewSQLiteDayRepository creates a new SQLite day repository.
func NewSQLiteDayRepository(db *sql.DB) *SQLiteDayRepository {
	return &SQLiteDayRepository{db: db}
}

// Save persists the full aggregate: the day row is upserted and the task
// and backlog rows are replaced, all in one transaction.
func (r *SQLiteDayRepository) Save(ctx context.Context, d *day.Day) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO days (id, date, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at
	`,
		d.ID().String(),
		d.Date().Format(dateFormat),
		d.CreatedAt().Format(time.RFC3339Nano),
		d.UpdatedAt().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert day: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE day_id = ?`, d.ID().String()); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	for i, t := range d.Tasks() {
		if err := insertTask(ctx, tx, d.ID(), i, t); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM backlog_items WHERE day_id = ?`, d.ID().String()); err != nil {
		return fmt.Errorf("clear backlog: %w", err)
	}
	for i, item := range d.Backlog() {
		if err := insertBacklogItem(ctx, tx, d.ID(), i, item); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertTask(ctx context.Context, tx *sql.Tx, dayID uuid.UUID, position int, t *day.Task) error {
	var completedAt, startedAt, rolledFrom any
	if ts := t.CompletedAt(); ts != nil {
		completedAt = ts.Format(time.RFC3339Nano)
	}
	if ts := t.StartedAt(); ts != nil {
		startedAt = ts.Format(time.RFC3339Nano)
	}
	if id := t.RolledFromDayID(); id != nil {
		rolledFrom = id.String()
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (
			id, day_id, position, description, rank, reasoning,
			completed, completed_at, started_at,
			estimated_duration_seconds, actual_duration_seconds,
			rolled_from_day_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.ID().String(),
		dayID.String(),
		position,
		t.Description(),
		t.Rank(),
		t.Reasoning(),
		boolToInt(t.IsCompleted()),
		completedAt,
		startedAt,
		int64(t.EstimatedDuration().Seconds()),
		int64(t.ActualDuration().Seconds()),
		rolledFrom,
		t.CreatedAt().Format(time.RFC3339Nano),
		t.UpdatedAt().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func insertBacklogItem(ctx context.Context, tx *sql.Tx, dayID uuid.UUID, position int, item *day.BacklogItem) error {
	tagsJSON, err := json.Marshal(item.Tags())
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	var lastReviewed any
	if ts := item.LastReviewed(); ts != nil {
		lastReviewed = ts.Format(time.RFC3339Nano)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO backlog_items (
			id, day_id, position, description, date_added,
			tags, source_context, last_reviewed, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		item.ID().String(),
		dayID.String(),
		position,
		item.Description(),
		item.DateAdded().Format(time.RFC3339Nano),
		string(tagsJSON),
		item.SourceContext(),
		lastReviewed,
		item.CreatedAt().Format(time.RFC3339Nano),
		item.UpdatedAt().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert backlog item: %w", err)
	}
	return nil
}

// FindByID retrieves a day aggregate by its identifier.
func (r *SQLiteDayRepository) FindByID(ctx context.Context, id uuid.UUID) (*day.Day, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, created_at, updated_at FROM days WHERE id = ?`, id.String())
	return r.scanDay(ctx, row)
}

// FindByDate retrieves the day for a calendar date, or (nil, nil) when no
// day was planned.
func (r *SQLiteDayRepository) FindByDate(ctx context.Context, date time.Time) (*day.Day, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, created_at, updated_at FROM days WHERE date = ?`, date.Format(dateFormat))
	return r.scanDay(ctx, row)
}

// Delete removes a day and, via cascade, its tasks and backlog items.
func (r *SQLiteDayRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM days WHERE id = ?`, id.String())
	return err
}

func (r *SQLiteDayRepository) scanDay(ctx context.Context, row *sql.Row) (*day.Day, error) {
	var (
		idStr, dateStr, createdStr, updatedStr string
	)
	if err := row.Scan(&idStr, &dateStr, &createdStr, &updatedStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan day: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse day id: %w", err)
	}
	date, err := time.Parse(dateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parse day date: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, createdStr)
	if err != nil {
		return nil, fmt.Errorf("parse day created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, updatedStr)
	if err != nil {
		return nil, fmt.Errorf("parse day updated_at: %w", err)
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

func (r *SQLiteDayRepository) loadTasks(ctx context.Context, dayID uuid.UUID) ([]*day.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, rank, reasoning, completed, completed_at, started_at,
			estimated_duration_seconds, actual_duration_seconds, rolled_from_day_id,
			created_at, updated_at
		FROM tasks WHERE day_id = ? ORDER BY position
	`, dayID.String())
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*day.Task, 0, day.MaxActiveTasks)
	for rows.Next() {
		var (
			idStr, description, reasoning       string
			rank, completed                     int
			completedAtStr, startedAtStr        sql.NullString
			estimatedSecs, actualSecs           int64
			rolledFromStr                       sql.NullString
			createdStr, updatedStr              string
		)
		if err := rows.Scan(
			&idStr, &description, &rank, &reasoning, &completed,
			&completedAtStr, &startedAtStr,
			&estimatedSecs, &actualSecs, &rolledFromStr,
			&createdStr, &updatedStr,
		); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parse task id: %w", err)
		}
		completedAt, err := parseNullTime(completedAtStr)
		if err != nil {
			return nil, fmt.Errorf("parse task completed_at: %w", err)
		}
		startedAt, err := parseNullTime(startedAtStr)
		if err != nil {
			return nil, fmt.Errorf("parse task started_at: %w", err)
		}
		var rolledFrom *uuid.UUID
		if rolledFromStr.Valid {
			parsed, err := uuid.Parse(rolledFromStr.String)
			if err != nil {
				return nil, fmt.Errorf("parse rolled_from_day_id: %w", err)
			}
			rolledFrom = &parsed
		}
		createdAt, err := time.Parse(time.RFC3339Nano, createdStr)
		if err != nil {
			return nil, fmt.Errorf("parse task created_at: %w", err)
		}
		updatedAt, err := time.Parse(time.RFC3339Nano, updatedStr)
		if err != nil {
			return nil, fmt.Errorf("parse task updated_at: %w", err)
		}

		tasks = append(tasks, day.RehydrateTask(
			id, description, rank, reasoning,
			completed != 0, completedAt, startedAt,
			time.Duration(estimatedSecs)*time.Second,
			time.Duration(actualSecs)*time.Second,
			rolledFrom, createdAt, updatedAt,
		))
	}
	return tasks, rows.Err()
}

func (r *SQLiteDayRepository) loadBacklog(ctx context.Context, dayID uuid.UUID) ([]*day.BacklogItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, date_added, tags, source_context, last_reviewed,
			created_at, updated_at
		FROM backlog_items WHERE day_id = ? ORDER BY position
	`, dayID.String())
	if err != nil {
		return nil, fmt.Errorf("query backlog items: %w", err)
	}
	defer rows.Close()

	items := make([]*day.BacklogItem, 0)
	for rows.Next() {
		var (
			idStr, description, dateAddedStr string
			tagsJSON, sourceContext          string
			lastReviewedStr                  sql.NullString
			createdStr, updatedStr           string
		)
		if err := rows.Scan(
			&idStr, &description, &dateAddedStr, &tagsJSON, &sourceContext,
			&lastReviewedStr, &createdStr, &updatedStr,
		); err != nil {
			return nil, fmt.Errorf("scan backlog item: %w", err)
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parse backlog item id: %w", err)
		}
		dateAdded, err := time.Parse(time.RFC3339Nano, dateAddedStr)
		if err != nil {
			return nil, fmt.Errorf("parse date_added: %w", err)
		}
		var tags []string
		if err := json.Unmarshal([]byte(tagsJSON), &tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
		lastReviewed, err := parseNullTime(lastReviewedStr)
		if err != nil {
			return nil, fmt.Errorf("parse last_reviewed: %w", err)
		}
		createdAt, err := time.Parse(time.RFC3339Nano, createdStr)
		if err != nil {
			return nil, fmt.Errorf("parse backlog created_at: %w", err)
		}
		updatedAt, err := time.Parse(time.RFC3339Nano, updatedStr)
		if err != nil {
			return nil, fmt.Errorf("parse backlog updated_at: %w", err)
		}

		items = append(items, day.RehydrateBacklogItem(
			id, description, dateAdded, tags, sourceContext, lastReviewed,
			createdAt, updatedAt,
		))
	}
	return items, rows.Err()
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
