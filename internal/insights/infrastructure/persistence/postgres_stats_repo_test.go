package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPostgresStatsRepo(t *testing.T) *PostgresStatisticsRepository {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres tests")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	schemaPath := filepath.Join("..", "..", "..", "..", "migrations", "postgres", "000001_initial_schema.up.sql")
	schema, err := os.ReadFile(schemaPath)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `TRUNCATE statistics, insights CASCADE`)
	require.NoError(t, err)

	return NewPostgresStatisticsRepository(pool)
}

func TestPostgresStatisticsRepository_SaveAndFind(t *testing.T) {
	repo := setupPostgresStatsRepo(t)
	ctx := context.Background()

	stats := buildStatistics(t)
	require.NoError(t, repo.Save(ctx, stats))

	found, err := repo.Find(ctx)
	require.NoError(t, err)
	require.NotNil(t, found)

	assert.Equal(t, stats.ID, found.ID)
	assert.Equal(t, stats.AverageDurations["writing"], found.AverageDurations["writing"])
	assert.Equal(t, 1, found.PlanningStreak)
	require.Len(t, found.Insights, 1)
}

func TestPostgresStatisticsRepository_FindMissing(t *testing.T) {
	repo := setupPostgresStatsRepo(t)

	found, err := repo.Find(context.Background())
	require.NoError(t, err)
	assert.Nil(t, found)
}
