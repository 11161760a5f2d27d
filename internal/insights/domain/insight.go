// Package domain holds the learning state of the insight engine: per-day
// statistics accumulated from queue activity and the typed, confidence-
// scored insights generated from them.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// InsightType represents the kind of observation an insight carries.
type InsightType string

const (
	InsightTypePattern        InsightType = "pattern"
	InsightTypeTimeEstimation InsightType = "time_estimation"
	InsightTypeEnergy         InsightType = "energy"
	InsightTypeStreak         InsightType = "streak"
	InsightTypeStruggle       InsightType = "struggle"
	InsightTypeWorkflow       InsightType = "workflow"
)

// IsActionable reports whether insights of this type suggest a concrete
// action. Streak motivation is encouragement only.
func (t InsightType) IsActionable() bool {
	return t != InsightTypeStreak
}

// Insight is a generated, confidence-scored observation derived from
// accumulated statistics.
type Insight struct {
	ID           uuid.UUID
	Text         string
	Type         InsightType
	Confidence   float64 // 0.0 - 1.0
	GeneratedAt  time.Time
	Acknowledged bool
	Actionable   bool
}

// NewInsight creates a new insight; actionability derives purely from the
// type.
func NewInsight(text string, insightType InsightType, confidence float64, now time.Time) *Insight {
	return &Insight{
		ID:          uuid.New(),
		Text:        text,
		Type:        insightType,
		Confidence:  confidence,
		GeneratedAt: now,
		Actionable:  insightType.IsActionable(),
	}
}

// Acknowledge marks the insight as seen. The flag is one-way.
func (i *Insight) Acknowledge() {
	i.Acknowledged = true
}
