package mpa

import (
	"time"

	"github.com/tradocflow/tradocflow/internal/align"
)

// PerformQualityMonitoring implements spec.md §4.H's
// perform_quality_monitoring(): it recomputes quality indicators for every
// tracked pane pair and raises issues/recommendations from the threshold
// rules.
func (c *Coordinator) PerformQualityMonitoring() QualityMonitoringResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := QualityMonitoringResult{
		PaneQualities:      make(map[string]float64),
		AlignmentQualities: make(map[[2]string]align.QualityIndicators),
	}

	var sum float64
	for pair, alignments := range c.alignments {
		q := align.CalculateQualityIndicators(alignments)
		result.AlignmentQualities[pair] = q
		sum += q.Overall

		result.Issues = append(result.Issues, issuesFor(pair, q)...)
	}
	if len(c.alignments) > 0 {
		result.Overall = sum / float64(len(c.alignments))
	}
	for id := range c.panes {
		result.PaneQualities[id] = paneQuality(id, c.alignments)
	}
	result.Recommendations = recommendationsFor(result.Issues)

	if result.Overall < 0.6 {
		c.publishLocked(SyncEvent{
			Type:      EventQualityAlert,
			Timestamp: time.Now().UTC(),
			Data:      result,
		})
	}
	return result
}

// issuesFor applies spec.md §4.H's threshold rules:
// overall < 0.6 -> High/Critical; position_consistency < 0.7 -> Medium;
// length_ratio_consistency < 0.6 -> Medium.
func issuesFor(pair [2]string, q align.QualityIndicators) []Issue {
	var issues []Issue
	if q.Overall < 0.6 {
		severity := SeverityHigh
		if q.Overall < 0.3 {
			severity = SeverityCritical
		}
		issues = append(issues, Issue{Kind: IssueOverallLow, Severity: severity, PanePair: pair})
	}
	if q.PositionConsistency < 0.7 {
		issues = append(issues, Issue{Kind: IssuePositionLow, Severity: SeverityMedium, PanePair: pair})
	}
	if q.LengthRatioConsistency < 0.6 {
		issues = append(issues, Issue{Kind: IssueLengthRatioLow, Severity: SeverityMedium, PanePair: pair})
	}
	return issues
}

// recommendationsFor maps each issue kind to its remediation action and
// priority, per spec.md §4.H.
func recommendationsFor(issues []Issue) []Recommendation {
	recs := make([]Recommendation, 0, len(issues))
	for _, iss := range issues {
		var action RecommendationAction
		var priority int
		switch iss.Kind {
		case IssueOverallLow:
			action, priority = ActionReviewTranslation, 1
		case IssuePositionLow:
			action, priority = ActionImproveAlignment, 2
		case IssueLengthRatioLow:
			action, priority = ActionFixStructure, 3
		}
		recs = append(recs, Recommendation{Action: action, Priority: priority, PanePair: iss.PanePair})
	}
	return recs
}

func paneQuality(id string, alignments map[[2]string][]align.SentenceAlignment) float64 {
	var sum float64
	var n int
	for pair, als := range alignments {
		if pair[0] != id && pair[1] != id {
			continue
		}
		sum += align.CalculateQualityIndicators(als).Overall
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// publishLocked is publish() for callers that already hold c.mu; it copies
// the subscriber list before unlocking-free delivery to avoid reentrant
// locking.
func (c *Coordinator) publishLocked(ev SyncEvent) {
	subs := append([]chan SyncEvent(nil), c.subscribers...)
	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
