package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Learning rates. Completion rates and struggles are recomputed from raw
// counts; durations, estimation and energy accuracy are exponentially
// weighted so recent behavior dominates without forgetting history.
const (
	durationCarryWeight   = 0.7
	durationSampleWeight  = 0.3
	accuracyCarryWeight   = 0.8
	accuracySampleWeight  = 0.2
	initialEstimationAcc  = 0.7
	initialEnergyAccuracy = 0.5
)

// CategoryRate pairs a category with its learned completion rate.
type CategoryRate struct {
	Category string
	Rate     float64
}

// Statistics is the per-user learning state the insight engine reads and
// writes. All maps are keyed by task category except EnergyAccuracy, which
// is keyed by "<predicted>_to_<actual>" transition.
type Statistics struct {
	ID                   uuid.UUID
	CompletionRates      map[string]float64
	StruggleCounts       map[string]int
	AverageDurations     map[string]time.Duration
	EstimationAccuracy   float64
	EnergyAccuracy       map[string]float64
	OptimalTimes         map[string]time.Duration // offset from midnight
	PlanningStreak       int
	ExecutionStreak      int
	CompletionStreak     int
	LongestStreak        int
	Insights             []*Insight
	CreatedAt, UpdatedAt time.Time
}

// NewStatistics creates empty learning state. Estimation accuracy starts
// optimistic so early insights do not flag a user who has no history yet.
func NewStatistics(now time.Time) *Statistics {
	return &Statistics{
		ID:                 uuid.New(),
		CompletionRates:    make(map[string]float64),
		StruggleCounts:     make(map[string]int),
		AverageDurations:   make(map[string]time.Duration),
		EstimationAccuracy: initialEstimationAcc,
		EnergyAccuracy:     make(map[string]float64),
		OptimalTimes:       make(map[string]time.Duration),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// RecordCompletion folds one completion in the given category into its
// completion rate, normalized over the day's total queue size.
func (s *Statistics) RecordCompletion(category string, totalTasksToday int, now time.Time) {
	if totalTasksToday < 1 {
		totalTasksToday = 1
	}
	s.CompletionRates[category] = (s.CompletionRates[category] + 1) / float64(totalTasksToday)
	s.UpdatedAt = now
}

// RecordStruggle counts a task that lingered in the danger-zone ranks.
func (s *Statistics) RecordStruggle(category string, now time.Time) {
	s.StruggleCounts[category]++
	s.UpdatedAt = now
}

// LearnDuration blends an observed completion time into the category's
// running average. The first observation seeds the average from the task's
// own estimate so one outlier cannot define the category.
func (s *Statistics) LearnDuration(category string, observed, seed time.Duration, now time.Time) {
	current, ok := s.AverageDurations[category]
	if !ok {
		current = seed
	}
	s.AverageDurations[category] = time.Duration(float64(current)*durationCarryWeight + float64(observed)*durationSampleWeight)
	s.UpdatedAt = now
}

// UpdateEstimationAccuracy blends the ratio of estimated to actual duration
// into the global accuracy score. A perfect estimate scores 1.0.
func (s *Statistics) UpdateEstimationAccuracy(estimated, actual time.Duration, now time.Time) {
	if estimated <= 0 || actual <= 0 {
		return
	}
	sample := float64(estimated) / float64(actual)
	if actual < estimated {
		sample = float64(actual) / float64(estimated)
	}
	s.EstimationAccuracy = s.EstimationAccuracy*accuracyCarryWeight + sample*accuracySampleWeight
	s.UpdatedAt = now
}

// UpdateEnergyAccuracy scores one predicted-vs-reported energy transition.
// Unseen transitions start at even odds.
func (s *Statistics) UpdateEnergyAccuracy(predicted, actual EnergyLevel, now time.Time) {
	key := fmt.Sprintf("%s_to_%s", predicted, actual)
	current, ok := s.EnergyAccuracy[key]
	if !ok {
		current = initialEnergyAccuracy
	}
	hit := 0.0
	if predicted == actual {
		hit = 1.0
	}
	s.EnergyAccuracy[key] = current*accuracyCarryWeight + hit*accuracySampleWeight
	s.UpdatedAt = now
}

// AverageEnergyAccuracy averages all learned transition scores; 0 when
// nothing has been learned.
func (s *Statistics) AverageEnergyAccuracy() float64 {
	if len(s.EnergyAccuracy) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.EnergyAccuracy {
		sum += v
	}
	return sum / float64(len(s.EnergyAccuracy))
}

// RecordOptimalTime remembers the time of day a category's task was last
// completed, as an offset from midnight. Last write wins.
func (s *Statistics) RecordOptimalTime(category string, completedAt time.Time, now time.Time) {
	midnight := time.Date(completedAt.Year(), completedAt.Month(), completedAt.Day(), 0, 0, 0, 0, completedAt.Location())
	s.OptimalTimes[category] = completedAt.Sub(midnight)
	s.UpdatedAt = now
}

// UpdateStreaks advances or resets the three activity streaks for one day.
// A streak extends only when yesterday also had activity of any kind;
// otherwise a day with activity restarts the counter at 1.
func (s *Statistics) UpdateStreaks(planning, execution, completion, yesterdayActive bool, now time.Time) {
	s.PlanningStreak = nextStreak(s.PlanningStreak, planning, yesterdayActive)
	s.ExecutionStreak = nextStreak(s.ExecutionStreak, execution, yesterdayActive)
	s.CompletionStreak = nextStreak(s.CompletionStreak, completion, yesterdayActive)

	if m := s.MaxStreak(); m > s.LongestStreak {
		s.LongestStreak = m
	}
	s.UpdatedAt = now
}

func nextStreak(current int, activeToday, yesterdayActive bool) int {
	switch {
	case activeToday && yesterdayActive:
		return current + 1
	case activeToday:
		return 1
	default:
		return 0
	}
}

// MaxStreak returns the longest of the three current streaks.
func (s *Statistics) MaxStreak() int {
	m := s.PlanningStreak
	if s.ExecutionStreak > m {
		m = s.ExecutionStreak
	}
	if s.CompletionStreak > m {
		m = s.CompletionStreak
	}
	return m
}

// AddInsight appends an insight unless one with identical text and type is
// already present. Returns whether the insight was added.
func (s *Statistics) AddInsight(ins *Insight, now time.Time) bool {
	for _, existing := range s.Insights {
		if existing.Text == ins.Text && existing.Type == ins.Type {
			return false
		}
	}
	s.Insights = append(s.Insights, ins)
	s.UpdatedAt = now
	return true
}

// RecentInsights returns up to limit unacknowledged insights, highest
// confidence first. Generation order breaks ties.
func (s *Statistics) RecentInsights(limit int) []*Insight {
	open := make([]*Insight, 0, len(s.Insights))
	for _, ins := range s.Insights {
		if !ins.Acknowledged {
			open = append(open, ins)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		return open[i].Confidence > open[j].Confidence
	})
	if limit > 0 && len(open) > limit {
		open = open[:limit]
	}
	return open
}

// InsightByID finds an insight by its identifier.
func (s *Statistics) InsightByID(id uuid.UUID) *Insight {
	for _, ins := range s.Insights {
		if ins.ID == id {
			return ins
		}
	}
	return nil
}

// TopCategory returns the category with the highest completion rate. Ties
// resolve to the lexicographically smallest name so results are stable.
func (s *Statistics) TopCategory() (string, float64) {
	return maxFloatEntry(s.CompletionRates)
}

// WorstStruggle returns the category with the most recorded struggles,
// with the same deterministic tie-break.
func (s *Statistics) WorstStruggle() (string, int) {
	best := ""
	bestCount := 0
	for cat, count := range s.StruggleCounts {
		if count > bestCount || (count == bestCount && bestCount > 0 && cat < best) {
			best, bestCount = cat, count
		}
	}
	return best, bestCount
}

func maxFloatEntry(m map[string]float64) (string, float64) {
	best := ""
	bestVal := 0.0
	found := false
	for k, v := range m {
		if !found || v > bestVal || (v == bestVal && k < best) {
			best, bestVal, found = k, v, true
		}
	}
	return best, bestVal
}

// RehydrateStatistics reconstructs learning state from persistence.
func RehydrateStatistics(
	id uuid.UUID,
	completionRates map[string]float64,
	struggleCounts map[string]int,
	averageDurations map[string]time.Duration,
	estimationAccuracy float64,
	energyAccuracy map[string]float64,
	optimalTimes map[string]time.Duration,
	planningStreak, executionStreak, completionStreak, longestStreak int,
	insights []*Insight,
	createdAt, updatedAt time.Time,
) *Statistics {
	if completionRates == nil {
		completionRates = make(map[string]float64)
	}
	if struggleCounts == nil {
		struggleCounts = make(map[string]int)
	}
	if averageDurations == nil {
		averageDurations = make(map[string]time.Duration)
	}
	if energyAccuracy == nil {
		energyAccuracy = make(map[string]float64)
	}
	if optimalTimes == nil {
		optimalTimes = make(map[string]time.Duration)
	}
	return &Statistics{
		ID:                 id,
		CompletionRates:    completionRates,
		StruggleCounts:     struggleCounts,
		AverageDurations:   averageDurations,
		EstimationAccuracy: estimationAccuracy,
		EnergyAccuracy:     energyAccuracy,
		OptimalTimes:       optimalTimes,
		PlanningStreak:     planningStreak,
		ExecutionStreak:    executionStreak,
		CompletionStreak:   completionStreak,
		LongestStreak:      longestStreak,
		Insights:           insights,
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
	}
}
