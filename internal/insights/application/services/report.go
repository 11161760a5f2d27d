package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/felixgeelhaar/daybook/internal/insights/domain"
	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
)

const reportTopCategories = 3

// AnalyticsReport is a point-in-time summary of learned behavior combined
// with the current day's queue state.
type AnalyticsReport struct {
	OverallCompletionRate float64
	EstimationAccuracy    float64
	PlanningStreak        int
	ExecutionStreak       int
	CompletionStreak      int
	LongestStreak         int
	StrugglingTaskCount   int
	TopCategories         []domain.CategoryRate
	RecentInsights        []*domain.Insight
	EnergyAccuracy        float64
}

// Report assembles an analytics report for the given day. insightLimit
// caps the recent-insight section.
func (e *Engine) Report(stats *domain.Statistics, d *day.Day, insightLimit int) AnalyticsReport {
	return AnalyticsReport{
		OverallCompletionRate: d.CompletionRate(),
		EstimationAccuracy:    stats.EstimationAccuracy,
		PlanningStreak:        stats.PlanningStreak,
		ExecutionStreak:       stats.ExecutionStreak,
		CompletionStreak:      stats.CompletionStreak,
		LongestStreak:         stats.LongestStreak,
		StrugglingTaskCount:   len(d.StrugglingTasks()),
		TopCategories:         topCategories(stats, reportTopCategories),
		RecentInsights:        stats.RecentInsights(insightLimit),
		EnergyAccuracy:        stats.AverageEnergyAccuracy(),
	}
}

// Summary renders the report headline figures as plain text.
func (r AnalyticsReport) Summary() string {
	var b strings.Builder
	b.WriteString("Analytics Report\n")
	fmt.Fprintf(&b, "Completion Rate: %d%%\n", int(r.OverallCompletionRate*100))
	fmt.Fprintf(&b, "Time Estimation: %d%% accurate\n", int(r.EstimationAccuracy*100))
	fmt.Fprintf(&b, "Longest Streak: %d days\n", r.LongestStreak)
	fmt.Fprintf(&b, "Current Streaks: Planning %d | Execution %d | Completion %d",
		r.PlanningStreak, r.ExecutionStreak, r.CompletionStreak)
	return b.String()
}

func topCategories(stats *domain.Statistics, n int) []domain.CategoryRate {
	rates := make([]domain.CategoryRate, 0, len(stats.CompletionRates))
	for cat, rate := range stats.CompletionRates {
		rates = append(rates, domain.CategoryRate{Category: cat, Rate: rate})
	}
	sort.Slice(rates, func(i, j int) bool {
		if rates[i].Rate != rates[j].Rate {
			return rates[i].Rate > rates[j].Rate
		}
		return rates[i].Category < rates[j].Category
	})
	if len(rates) > n {
		rates = rates[:n]
	}
	return rates
}
