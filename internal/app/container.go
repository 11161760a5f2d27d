// Package app wires configuration, storage, and handlers into a running
// application.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	insightsCommands "github.com/felixgeelhaar/daybook/internal/insights/application/commands"
	insightsQueries "github.com/felixgeelhaar/daybook/internal/insights/application/queries"
	"github.com/felixgeelhaar/daybook/internal/insights/application/services"
	insightsDomain "github.com/felixgeelhaar/daybook/internal/insights/domain"
	insightsPersistence "github.com/felixgeelhaar/daybook/internal/insights/infrastructure/persistence"
	"github.com/felixgeelhaar/daybook/internal/insights/infrastructure/notify"
	"github.com/felixgeelhaar/daybook/internal/planner/application/commands"
	"github.com/felixgeelhaar/daybook/internal/planner/application/queries"
	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/felixgeelhaar/daybook/internal/planner/infrastructure/persistence"
	"github.com/felixgeelhaar/daybook/internal/shared/infrastructure/database/postgres"
	"github.com/felixgeelhaar/daybook/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/daybook/migrations"
	"github.com/felixgeelhaar/daybook/pkg/clock"
	"github.com/felixgeelhaar/daybook/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Clock  clock.Clock

	// Database (one of the two is set, per config)
	SQLiteDB *sql.DB
	Pool     *pgxpool.Pool

	// Repositories
	DayRepo   day.Repository
	StatsRepo insightsDomain.Repository

	// Services
	Engine *services.Engine

	// Planner command handlers
	AddTaskHandler        *commands.AddTaskHandler
	StartTaskHandler      *commands.StartTaskHandler
	CompleteTaskHandler   *commands.CompleteTaskHandler
	PromoteBacklogHandler *commands.PromoteBacklogHandler
	DemoteTaskHandler     *commands.DemoteTaskHandler
	UpdateRankHandler     *commands.UpdateRankHandler
	AddBacklogItemHandler *commands.AddBacklogItemHandler
	ReviewBacklogHandler  *commands.ReviewBacklogItemHandler
	RolloverDayHandler    *commands.RolloverDayHandler

	// Planner query handlers
	GetDayHandler      *queries.GetDayHandler
	ListBacklogHandler *queries.ListBacklogHandler

	// Insights command handlers
	GenerateInsightsHandler   *insightsCommands.GenerateInsightsHandler
	AcknowledgeInsightHandler *insightsCommands.AcknowledgeInsightHandler
	RecordEnergyHandler       *insightsCommands.RecordEnergyAccuracyHandler
	UpdateStreaksHandler      *insightsCommands.UpdateStreaksHandler

	// Insights query handlers
	GetRecentInsightsHandler *insightsQueries.GetRecentInsightsHandler
	GetReportHandler         *insightsQueries.GetReportHandler
	SuggestEnergyHandler     *insightsQueries.SuggestEnergyAllocationHandler
}

// NewContainer connects storage, runs migrations, and wires all handlers.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
		Clock:  clock.NewSystem(),
	}

	switch cfg.DBDriver {
	case "postgres":
		pool, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, pool, migrations.PostgresSchema()); err != nil {
			pool.Close()
			return nil, err
		}
		c.Pool = pool
		c.DayRepo = persistence.NewPostgresDayRepository(pool)
		c.StatsRepo = insightsPersistence.NewPostgresStatisticsRepository(pool)
		logger.Info("connected to database", "driver", "postgres")

	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		if err := sqlite.Migrate(ctx, db, migrations.SQLiteSchema()); err != nil {
			db.Close()
			return nil, err
		}
		c.SQLiteDB = db
		c.DayRepo = persistence.NewSQLiteDayRepository(db)
		c.StatsRepo = insightsPersistence.NewSQLiteStatisticsRepository(db)
		logger.Info("connected to database", "driver", "sqlite", "path", cfg.SQLitePath)

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DBDriver)
	}

	notifier := notify.NewLogNotifier(logger)
	c.Engine = services.NewEngine(notifier, cfg.NotifyThreshold, c.Clock, logger)

	// Planner command handlers
	c.AddTaskHandler = commands.NewAddTaskHandler(c.DayRepo, c.StatsRepo, c.Engine, c.Clock)
	c.StartTaskHandler = commands.NewStartTaskHandler(c.DayRepo, c.Clock)
	c.CompleteTaskHandler = commands.NewCompleteTaskHandler(c.DayRepo, c.StatsRepo, c.Engine, c.Clock)
	c.PromoteBacklogHandler = commands.NewPromoteBacklogHandler(c.DayRepo, c.Clock)
	c.DemoteTaskHandler = commands.NewDemoteTaskHandler(c.DayRepo, c.Clock)
	c.UpdateRankHandler = commands.NewUpdateRankHandler(c.DayRepo)
	c.AddBacklogItemHandler = commands.NewAddBacklogItemHandler(c.DayRepo, c.Clock)
	c.ReviewBacklogHandler = commands.NewReviewBacklogItemHandler(c.DayRepo, c.Clock)
	c.RolloverDayHandler = commands.NewRolloverDayHandler(c.DayRepo, c.StatsRepo, c.Engine, c.Clock)

	// Planner query handlers
	c.GetDayHandler = queries.NewGetDayHandler(c.DayRepo)
	c.ListBacklogHandler = queries.NewListBacklogHandler(c.DayRepo, c.Clock)

	// Insights command handlers
	c.GenerateInsightsHandler = insightsCommands.NewGenerateInsightsHandler(c.StatsRepo, c.Engine, c.Clock)
	c.AcknowledgeInsightHandler = insightsCommands.NewAcknowledgeInsightHandler(c.StatsRepo)
	c.RecordEnergyHandler = insightsCommands.NewRecordEnergyAccuracyHandler(c.StatsRepo, c.Engine, c.Clock)
	c.UpdateStreaksHandler = insightsCommands.NewUpdateStreaksHandler(c.DayRepo, c.StatsRepo, c.Engine, c.Clock)

	// Insights query handlers
	c.GetRecentInsightsHandler = insightsQueries.NewGetRecentInsightsHandler(c.StatsRepo)
	c.GetReportHandler = insightsQueries.NewGetReportHandler(c.DayRepo, c.StatsRepo, c.Engine, c.Clock)
	c.SuggestEnergyHandler = insightsQueries.NewSuggestEnergyAllocationHandler(c.DayRepo, c.Engine)

	return c, nil
}

// Close releases database resources.
func (c *Container) Close() {
	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			c.Logger.Error("close sqlite database", "error", err)
		}
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}
