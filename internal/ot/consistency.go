package ot

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// ConsistencyManager implements spec.md §4.J.3: per-editor bookkeeping of
// last-seen sequence number, pending/acked operations, state hash, and a
// consistency score, with a post-execution hook that detects and
// classifies divergence.
type ConsistencyManager struct {
	mu    sync.Mutex
	state map[string]*EditorState
}

// NewConsistencyManager creates an empty manager.
func NewConsistencyManager() *ConsistencyManager {
	return &ConsistencyManager{state: make(map[string]*EditorState)}
}

func (m *ConsistencyManager) stateFor(editorID string) *EditorState {
	s, ok := m.state[editorID]
	if !ok {
		s = &EditorState{ConsistencyScore: 1.0}
		m.state[editorID] = s
	}
	return s
}

// RecordSubmission tracks a newly dispatched operation as pending.
func (m *ConsistencyManager) RecordSubmission(op QueuedOperation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stateFor(op.EditorID)
	s.PendingOps = append(s.PendingOps, op)
}

// RecordAck implements the post-execution hook: it moves op from pending to
// acked, recomputes the state hash over content, and reports any
// violations detected against the expected next sequence number.
func (m *ConsistencyManager) RecordAck(op QueuedOperation, content string) []Violation {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stateFor(op.EditorID)

	var violations []Violation
	if op.Sequence <= s.LastSeq {
		violations = append(violations, Violation{
			EditorID: op.EditorID, Kind: ViolationOpLostDuplicated,
			Severity: SeverityHigh, Recovery: RecoveryOperationReplay,
			Detail: "sequence number not greater than last acknowledged",
		})
	} else if s.LastSeq != 0 && op.Sequence != s.LastSeq+1 {
		violations = append(violations, Violation{
			EditorID: op.EditorID, Kind: ViolationSequenceBroken,
			Severity: SeverityMedium, Recovery: RecoveryOperationReplay,
			Detail: "gap in sequence numbers",
		})
	}

	newHash := hashState(content)
	if s.StateHash != "" && hasDependencyGap(op, s.AckedOps) {
		violations = append(violations, Violation{
			EditorID: op.EditorID, Kind: ViolationCausality,
			Severity: SeverityHigh, Recovery: RecoveryConflictResolution,
			Detail: "operation depends on an operation not yet acknowledged",
		})
	}

	s.StateHash = newHash
	s.LastSeq = op.Sequence
	s.PendingOps = removeOp(s.PendingOps, op.ID)
	s.AckedOps = append(s.AckedOps, op)

	if len(violations) > 0 {
		s.ConsistencyScore = decayScore(s.ConsistencyScore, violations)
	} else {
		s.ConsistencyScore = improveScore(s.ConsistencyScore)
	}
	return violations
}

// ExpectHash reports a ViolationHashMismatch when an editor's locally
// computed content hash diverges from the manager's recorded state hash —
// the cross-editor counterpart to RecordAck's own-editor checks.
func (m *ConsistencyManager) ExpectHash(editorID, localContent string) *Violation {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stateFor(editorID)
	if s.StateHash == "" {
		return nil
	}
	if got := hashState(localContent); got != s.StateHash {
		s.ConsistencyScore = decayScore(s.ConsistencyScore, []Violation{{}})
		return &Violation{
			EditorID: editorID, Kind: ViolationHashMismatch,
			Severity: SeverityCritical, Recovery: RecoveryFullStateReconciliation,
			Detail: "local state hash diverged from recorded state hash",
		}
	}
	return nil
}

// State returns a copy of editorID's tracked state.
func (m *ConsistencyManager) State(editorID string) EditorState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.stateFor(editorID)
}

func hashState(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func hasDependencyGap(op QueuedOperation, acked []QueuedOperation) bool {
	if len(op.Dependencies) == 0 {
		return false
	}
	ackedIDs := make(map[string]bool, len(acked))
	for _, a := range acked {
		ackedIDs[a.ID] = true
	}
	for _, dep := range op.Dependencies {
		if !ackedIDs[dep] {
			return true
		}
	}
	return false
}

func removeOp(ops []QueuedOperation, id string) []QueuedOperation {
	out := ops[:0]
	for _, o := range ops {
		if o.ID != id {
			out = append(out, o)
		}
	}
	return out
}

func decayScore(score float64, violations []Violation) float64 {
	penalty := 0.0
	for _, v := range violations {
		switch v.Severity {
		case SeverityCritical:
			penalty += 0.4
		case SeverityHigh:
			penalty += 0.2
		case SeverityMedium:
			penalty += 0.1
		default:
			penalty += 0.05
		}
	}
	score -= penalty
	if score < 0 {
		return 0
	}
	return score
}

func improveScore(score float64) float64 {
	score += 0.02
	if score > 1 {
		return 1
	}
	return score
}
