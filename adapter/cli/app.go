package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	insightsCommands "github.com/felixgeelhaar/daybook/internal/insights/application/commands"
	insightsQueries "github.com/felixgeelhaar/daybook/internal/insights/application/queries"
	"github.com/felixgeelhaar/daybook/internal/planner/application/commands"
	"github.com/felixgeelhaar/daybook/internal/planner/application/queries"
	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
	// Planner Command Handlers
	AddTaskHandler        *commands.AddTaskHandler
	StartTaskHandler      *commands.StartTaskHandler
	CompleteTaskHandler   *commands.CompleteTaskHandler
	PromoteBacklogHandler *commands.PromoteBacklogHandler
	DemoteTaskHandler     *commands.DemoteTaskHandler
	UpdateRankHandler     *commands.UpdateRankHandler
	AddBacklogItemHandler *commands.AddBacklogItemHandler
	ReviewBacklogHandler  *commands.ReviewBacklogItemHandler
	RolloverDayHandler    *commands.RolloverDayHandler

	// Planner Query Handlers
	GetDayHandler      *queries.GetDayHandler
	ListBacklogHandler *queries.ListBacklogHandler

	// Insights Command Handlers
	GenerateInsightsHandler   *insightsCommands.GenerateInsightsHandler
	AcknowledgeInsightHandler *insightsCommands.AcknowledgeInsightHandler
	RecordEnergyHandler       *insightsCommands.RecordEnergyAccuracyHandler
	UpdateStreaksHandler      *insightsCommands.UpdateStreaksHandler

	// Insights Query Handlers
	GetRecentInsightsHandler *insightsQueries.GetRecentInsightsHandler
	GetReportHandler         *insightsQueries.GetReportHandler
	SuggestEnergyHandler     *insightsQueries.SuggestEnergyAllocationHandler

	// Default number of insights surfaced by list and report commands
	InsightLimit int
}

var appInstance *App

// SetApp sets the CLI application instance.
func SetApp(a *App) {
	appInstance = a
}

// GetApp returns the CLI application instance.
func GetApp() *App {
	return appInstance
}

// requireApp returns the app or an error when the database connection
// failed at startup.
func requireApp() (*App, error) {
	if appInstance == nil {
		return nil, fmt.Errorf("daybook storage is not available; check the database configuration")
	}
	return appInstance, nil
}

// resolveDate parses the global --date flag. An empty flag means today.
func resolveDate() (time.Time, error) {
	now := time.Now()
	switch dateFlag {
	case "", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	}
	d, err := time.ParseInLocation("2006-01-02", dateFlag, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use today, yesterday, tomorrow, or YYYY-MM-DD", dateFlag)
	}
	return d, nil
}

// taskByRank resolves a queue position shown by `daybook plan` to the
// task id the handlers expect.
func (a *App) taskByRank(ctx context.Context, date time.Time, arg string) (uuid.UUID, error) {
	rank, err := strconv.Atoi(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid task number %q", arg)
	}

	view, err := a.GetDayHandler.Handle(ctx, queries.GetDayQuery{Date: date})
	if err != nil {
		return uuid.Nil, err
	}
	for _, t := range view.ActiveTasks {
		if t.Rank == rank {
			return t.ID, nil
		}
	}
	return uuid.Nil, fmt.Errorf("no active task at position %d", rank)
}

// backlogByNumber resolves a 1-based backlog listing position to an item id.
func (a *App) backlogByNumber(ctx context.Context, date time.Time, arg string) (uuid.UUID, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid backlog number %q", arg)
	}

	items, err := a.ListBacklogHandler.Handle(ctx, queries.ListBacklogQuery{Date: date})
	if err != nil {
		return uuid.Nil, err
	}
	if n < 1 || n > len(items) {
		return uuid.Nil, fmt.Errorf("no backlog item at position %d", n)
	}
	return items[n-1].ID, nil
}
