// Package persistence implements the statistics repository for SQLite and
// PostgreSQL. Statistics are a singleton row; the duration-valued maps are
// stored as JSON objects of whole seconds.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/daybook/internal/insights/domain"
	"github.com/google/uuid"
)

// SQLiteStatisticsRepository implements domain.Repository using SQLite.
type SQLiteStatisticsRepository struct {
	db *sql.DB
}

// NewSQLiteStatisticsRepository creates a new SQLite statistics repository.
func NewSQLiteStatisticsRepository(db *sql.DB) *SQLiteStatisticsRepository {
	return &SQLiteStatisticsRepository{db: db}
}

// Save upserts the singleton statistics row and replaces its insight rows
// in one transaction.
func (r *SQLiteStatisticsRepository) Save(ctx context.Context, s *domain.Statistics) error {
	rates, err := json.Marshal(s.CompletionRates)
	if err != nil {
		return fmt.Errorf("marshal completion rates: %w", err)
	}
	struggles, err := json.Marshal(s.StruggleCounts)
	if err != nil {
		return fmt.Errorf("marshal struggle counts: %w", err)
	}
	durations, err := json.Marshal(durationMapToSeconds(s.AverageDurations))
	if err != nil {
		return fmt.Errorf("marshal average durations: %w", err)
	}
	energy, err := json.Marshal(s.EnergyAccuracy)
	if err != nil {
		return fmt.Errorf("marshal energy accuracy: %w", err)
	}
	optimal, err := json.Marshal(durationMapToSeconds(s.OptimalTimes))
	if err != nil {
		return fmt.Errorf("marshal optimal times: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO statistics (
			id, singleton, completion_rates, struggle_counts, average_durations,
			estimation_accuracy, energy_accuracy, optimal_times,
			planning_streak, execution_streak, completion_streak, longest_streak,
			created_at, updated_at
		) VALUES (?, 1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(singleton) DO UPDATE SET
			completion_rates = excluded.completion_rates,
			struggle_counts = excluded.struggle_counts,
			average_durations = excluded.average_durations,
			estimation_accuracy = excluded.estimation_accuracy,
			energy_accuracy = excluded.energy_accuracy,
			optimal_times = excluded.optimal_times,
			planning_streak = excluded.planning_streak,
			execution_streak = excluded.execution_streak,
			completion_streak = excluded.completion_streak,
			longest_streak = excluded.longest_streak,
			updated_at = excluded.updated_at
	`,
		s.ID.String(),
		string(rates),
		string(struggles),
		string(durations),
		s.EstimationAccuracy,
		string(energy),
		string(optimal),
		s.PlanningStreak,
		s.ExecutionStreak,
		s.CompletionStreak,
		s.LongestStreak,
		s.CreatedAt.Format(time.RFC3339Nano),
		s.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert statistics: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM insights WHERE statistics_id = ?`, s.ID.String()); err != nil {
		return fmt.Errorf("clear insights: %w", err)
	}
	for i, ins := range s.Insights {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO insights (
				id, statistics_id, position, text, type, confidence,
				generated_at, acknowledged, actionable
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			ins.ID.String(),
			s.ID.String(),
			i,
			ins.Text,
			string(ins.Type),
			ins.Confidence,
			ins.GeneratedAt.Format(time.RFC3339Nano),
			boolToInt(ins.Acknowledged),
			boolToInt(ins.Actionable),
		)
		if err != nil {
			return fmt.Errorf("insert insight: %w", err)
		}
	}

	return tx.Commit()
}

// Find retrieves the singleton statistics record, or (nil, nil) when no
// learning has happened yet.
func (r *SQLiteStatisticsRepository) Find(ctx context.Context) (*domain.Statistics, error) {
	row := r.db.QueryRowContext(ctx, selectStatistics+` WHERE singleton = 1`)
	return r.scanStatistics(ctx, row)
}

// FindByID retrieves a statistics record by its identifier.
func (r *SQLiteStatisticsRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Statistics, error) {
	row := r.db.QueryRowContext(ctx, selectStatistics+` WHERE id = ?`, id.String())
	return r.scanStatistics(ctx, row)
}

const selectStatistics = `
	SELECT id, completion_rates, struggle_counts, average_durations,
		estimation_accuracy, energy_accuracy, optimal_times,
		planning_streak, execution_streak, completion_streak, longest_streak,
		created_at, updated_at
	FROM statistics`

func (r *SQLiteStatisticsRepository) scanStatistics(ctx context.Context, row *sql.Row) (*domain.Statistics, error) {
	var (
		idStr                                string
		ratesJSON, strugglesJSON             string
		durationsJSON, energyJSON            string
		optimalJSON                          string
		estimationAccuracy                   float64
		planning, execution, completion      int
		longest                              int
		createdStr, updatedStr               string
	)
	if err := row.Scan(
		&idStr, &ratesJSON, &strugglesJSON, &durationsJSON,
		&estimationAccuracy, &energyJSON, &optimalJSON,
		&planning, &execution, &completion, &longest,
		&createdStr, &updatedStr,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan statistics: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse statistics id: %w", err)
	}

	var rates map[string]float64
	if err := json.Unmarshal([]byte(ratesJSON), &rates); err != nil {
		return nil, fmt.Errorf("unmarshal completion rates: %w", err)
	}
	var struggles map[string]int
	if err := json.Unmarshal([]byte(strugglesJSON), &struggles); err != nil {
		return nil, fmt.Errorf("unmarshal struggle counts: %w", err)
	}
	var durationSecs map[string]int64
	if err := json.Unmarshal([]byte(durationsJSON), &durationSecs); err != nil {
		return nil, fmt.Errorf("unmarshal average durations: %w", err)
	}
	var energy map[string]float64
	if err := json.Unmarshal([]byte(energyJSON), &energy); err != nil {
		return nil, fmt.Errorf("unmarshal energy accuracy: %w", err)
	}
	var optimalSecs map[string]int64
	if err := json.Unmarshal([]byte(optimalJSON), &optimalSecs); err != nil {
		return nil, fmt.Errorf("unmarshal optimal times: %w", err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, createdStr)
	if err != nil {
		return nil, fmt.Errorf("parse statistics created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, updatedStr)
	if err != nil {
		return nil, fmt.Errorf("parse statistics updated_at: %w", err)
	}

	insights, err := r.loadInsights(ctx, id)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateStatistics(
		id, rates, struggles, secondsToDurationMap(durationSecs),
		estimationAccuracy, energy, secondsToDurationMap(optimalSecs),
		planning, execution, completion, longest,
		insights, createdAt, updatedAt,
	), nil
}

func (r *SQLiteStatisticsRepository) loadInsights(ctx context.Context, statsID uuid.UUID) ([]*domain.Insight, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, text, type, confidence, generated_at, acknowledged, actionable
		FROM insights WHERE statistics_id = ? ORDER BY position
	`, statsID.String())
	if err != nil {
		return nil, fmt.Errorf("query insights: %w", err)
	}
	defer rows.Close()

	insights := make([]*domain.Insight, 0)
	for rows.Next() {
		var (
			idStr, text, insightType  string
			confidence                float64
			generatedStr              string
			acknowledged, actionable  int
		)
		if err := rows.Scan(
			&idStr, &text, &insightType, &confidence,
			&generatedStr, &acknowledged, &actionable,
		); err != nil {
			return nil, fmt.Errorf("scan insight: %w", err)
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parse insight id: %w", err)
		}
		generatedAt, err := time.Parse(time.RFC3339Nano, generatedStr)
		if err != nil {
			return nil, fmt.Errorf("parse insight generated_at: %w", err)
		}

		insights = append(insights, &domain.Insight{
			ID:           id,
			Text:         text,
			Type:         domain.InsightType(insightType),
			Confidence:   confidence,
			GeneratedAt:  generatedAt,
			Acknowledged: acknowledged != 0,
			Actionable:   actionable != 0,
		})
	}
	return insights, rows.Err()
}

func durationMapToSeconds(m map[string]time.Duration) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = int64(v.Seconds())
	}
	return out
}

func secondsToDurationMap(m map[string]int64) map[string]time.Duration {
	out := make(map[string]time.Duration, len(m))
	for k, v := range m {
		out[k] = time.Duration(v) * time.Second
	}
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
