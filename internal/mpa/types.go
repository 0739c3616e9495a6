// Package mpa is the multi-pane alignment coordinator of spec.md §4.H: it
// maintains the set of active editor panes, keeps their pairwise
// alignments and synchronized cursors up to date, and runs the real-time
// quality monitor that raises issues and recommendations.
package mpa

import (
	"time"

	"github.com/tradocflow/tradocflow/internal/align"
	"github.com/tradocflow/tradocflow/internal/langcode"
)

const DefaultMaxPanes = 4

// Pane is one open editor pane.
type Pane struct {
	ID       string
	Language langcode.Code
	Content  string
}

// SyncEventType tags a SyncEvent's payload kind.
type SyncEventType string

const (
	EventCursorMove      SyncEventType = "cursor_move"
	EventTextChange      SyncEventType = "text_change"
	EventSelection       SyncEventType = "selection"
	EventScrollSync      SyncEventType = "scroll_sync"
	EventStructureChange SyncEventType = "structure_change"
	EventQualityAlert    SyncEventType = "quality_alert"
)

// SyncEvent is published to subscribers on each mutation, per spec.md
// §4.H step 3 and the §6.3 AlignmentUpdate payload shape.
type SyncEvent struct {
	Type          SyncEventType
	AffectedPanes []string
	QualityChange *float64
	Timestamp     time.Time
	Data          any
}

// IssueSeverity ranks a quality issue.
type IssueSeverity string

const (
	SeverityMedium   IssueSeverity = "medium"
	SeverityHigh     IssueSeverity = "high"
	SeverityCritical IssueSeverity = "critical"
)

// IssueKind names the quality problem detected.
type IssueKind string

const (
	IssueOverallLow     IssueKind = "overall_low"
	IssuePositionLow    IssueKind = "position_consistency_low"
	IssueLengthRatioLow IssueKind = "length_ratio_consistency_low"
)

// RecommendationAction is one of the three remediation actions spec.md
// §4.H maps issue kinds to.
type RecommendationAction string

const (
	ActionImproveAlignment RecommendationAction = "improve_alignment"
	ActionReviewTranslation RecommendationAction = "review_translation"
	ActionFixStructure      RecommendationAction = "fix_structure"
)

// Issue is one raised quality problem.
type Issue struct {
	Kind      IssueKind
	Severity  IssueSeverity
	PanePair  [2]string
	Detail    string
}

// Recommendation is a suggested remediation for an Issue.
type Recommendation struct {
	Action   RecommendationAction
	Priority int // 1 (highest) to 3
	PanePair [2]string
}

// QualityMonitoringResult is the output of perform_quality_monitoring.
type QualityMonitoringResult struct {
	Overall           float64
	PaneQualities     map[string]float64
	AlignmentQualities map[[2]string]align.QualityIndicators
	Issues            []Issue
	Recommendations   []Recommendation
}
