// ABOUTME: Derived, non-persisted views: product streaks, insights, timeline events.
// ABOUTME: Computed on demand from routines, completions, versions, notes and events.
package models

import "time"

// ProductStreak summarises consecutive-day usage of one product.
type ProductStreak struct {
	ProductName   string `json:"product_name"`
	Brand         string `json:"brand,omitempty"`
	StepLabel     string `json:"step_label"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	LastUsedDate  string `json:"last_used_date,omitempty"`
	IsActive      bool   `json:"is_active"`
}

// InsightType classifies a routine insight.
type InsightType string

const (
	InsightConsistency InsightType = "consistency"
	InsightConflict    InsightType = "conflict"
	InsightProduct     InsightType = "product"
	InsightProgress    InsightType = "progress"
)

// Severity is the tone of an insight.
type Severity string

const (
	SeverityPositive Severity = "positive"
	SeverityNeutral  Severity = "neutral"
	SeverityWarning  Severity = "warning"
)

// Insight is a rule-derived observation about the user's routines.
type Insight struct {
	ID          string      `json:"id"`
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Severity    Severity    `json:"severity"`
}

// TimelineType is the source a timeline event was built from.
type TimelineType string

const (
	TimelineFromVersion TimelineType = "version"
	TimelineFromNote    TimelineType = "note"
	TimelineFromEvent   TimelineType = "event"
)

// TimelineEvent is one entry of the merged activity feed.
type TimelineEvent struct {
	ID          string       `json:"id"`
	Type        TimelineType `json:"type"`
	Category    string       `json:"category"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Timestamp   time.Time    `json:"timestamp"`
}
