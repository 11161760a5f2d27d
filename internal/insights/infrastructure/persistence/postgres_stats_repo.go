package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/daybook/internal/insights/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStatisticsRepository implements domain.Repository using PostgreSQL.
type PostgresStatisticsRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresStatisticsRepository creates a new PostgreSQL statistics
// repository.
func NewPostgresStatisticsRepository(pool *pgxpool.Pool) *PostgresStatisticsRepository {
	return &PostgresStatisticsRepository{pool: pool}
}

// Save upserts the singleton statistics row and replaces its insight rows
// in one transaction.
func (r *PostgresStatisticsRepository) Save(ctx context.Context, s *domain.Statistics) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO statistics (
			id, singleton, completion_rates, struggle_counts, average_durations,
			estimation_accuracy, energy_accuracy, optimal_times,
			planning_streak, execution_streak, completion_streak, longest_streak,
			created_at, updated_at
		) VALUES ($1, 1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (singleton) DO UPDATE SET
			completion_rates = EXCLUDED.completion_rates,
			struggle_counts = EXCLUDED.struggle_counts,
			average_durations = EXCLUDED.average_durations,
			estimation_accuracy = EXCLUDED.estimation_accuracy,
			energy_accuracy = EXCLUDED.energy_accuracy,
			optimal_times = EXCLUDED.optimal_times,
			planning_streak = EXCLUDED.planning_streak,
			execution_streak = EXCLUDED.execution_streak,
			completion_streak = EXCLUDED.completion_streak,
			longest_streak = EXCLUDED.longest_streak,
			updated_at = EXCLUDED.updated_at
	`,
		s.ID,
		s.CompletionRates,
		s.StruggleCounts,
		durationMapToSeconds(s.AverageDurations),
		s.EstimationAccuracy,
		s.EnergyAccuracy,
		durationMapToSeconds(s.OptimalTimes),
		s.PlanningStreak,
		s.ExecutionStreak,
		s.CompletionStreak,
		s.LongestStreak,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert statistics: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM insights WHERE statistics_id = $1`, s.ID); err != nil {
		return fmt.Errorf("clear insights: %w", err)
	}
	for i, ins := range s.Insights {
		_, err := tx.Exec(ctx, `
			INSERT INTO insights (
				id, statistics_id, position, text, type, confidence,
				generated_at, acknowledged, actionable
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`,
			ins.ID, s.ID, i, ins.Text, string(ins.Type), ins.Confidence,
			ins.GeneratedAt, ins.Acknowledged, ins.Actionable,
		)
		if err != nil {
			return fmt.Errorf("insert insight: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Find retrieves the singleton statistics record, or (nil, nil) when no
// learning has happened yet.
func (r *PostgresStatisticsRepository) Find(ctx context.Context) (*domain.Statistics, error) {
	row := r.pool.QueryRow(ctx, selectStatistics+` WHERE singleton = 1`)
	return r.scanStatistics(ctx, row)
}

// FindByID retrieves a statistics record by its identifier.
func (r *PostgresStatisticsRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Statistics, error) {
	row := r.pool.QueryRow(ctx, selectStatistics+` WHERE id = $1`, id)
	return r.scanStatistics(ctx, row)
}

func (r *PostgresStatisticsRepository) scanStatistics(ctx context.Context, row pgx.Row) (*domain.Statistics, error) {
	var (
		id                              uuid.UUID
		rates                           map[string]float64
		struggles                       map[string]int
		durationSecs                    map[string]int64
		estimationAccuracy              float64
		energy                          map[string]float64
		optimalSecs                     map[string]int64
		planning, execution, completion int
		longest                         int
		createdAt, updatedAt            time.Time
	)
	if err := row.Scan(
		&id, &rates, &struggles, &durationSecs,
		&estimationAccuracy, &energy, &optimalSecs,
		&planning, &execution, &completion, &longest,
		&createdAt, &updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan statistics: %w", err)
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

func (r *PostgresStatisticsRepository) loadInsights(ctx context.Context, statsID uuid.UUID) ([]*domain.Insight, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, text, type, confidence, generated_at, acknowledged, actionable
		FROM insights WHERE statistics_id = $1 ORDER BY position
	`, statsID)
	if err != nil {
		return nil, fmt.Errorf("query insights: %w", err)
	}
	defer rows.Close()

	insights := make([]*domain.Insight, 0)
	for rows.Next() {
		var (
			id                       uuid.UUID
			text, insightType        string
			confidence               float64
			generatedAt              time.Time
			acknowledged, actionable bool
		)
		if err := rows.Scan(
			&id, &text, &insightType, &confidence,
			&generatedAt, &acknowledged, &actionable,
		); err != nil {
			return nil, fmt.Errorf("scan insight: %w", err)
		}

		insights = append(insights, &domain.Insight{
			ID:           id,
			Text:         text,
			Type:         domain.InsightType(insightType),
			Confidence:   confidence,
			GeneratedAt:  generatedAt,
			Acknowledged: acknowledged,
			Actionable:   actionable,
		})
	}
	return insights, rows.Err()
}
