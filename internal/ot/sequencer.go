package ot

import (
	"sort"
	"sync"
)

// Sequencer assigns a total order to submitted operations: dispatched in
// SequenceNumber order, ties within one sequence number broken by
// priority (spec.md §4.J.1). In this implementation every operation, in
// Submit and in SubmitBatch alike, gets its own fresh sequence number, so
// no two operations share a number and the priority tie-break never
// changes the dispatch order.
type Sequencer struct {
	mu   sync.Mutex
	next SequenceNumber
}

// NewSequencer creates a Sequencer starting at sequence 1.
func NewSequencer() *Sequencer {
	return &Sequencer{next: 1}
}

// Submit assigns op the next sequence number.
func (s *Sequencer) Submit(op QueuedOperation) QueuedOperation {
	s.mu.Lock()
	defer s.mu.Unlock()
	op.Sequence = s.next
	s.next++
	return op
}

// SubmitBatch is a SPEC_FULL.md addition: it assigns consecutive sequence
// numbers, in slice order and under one lock, to a batch of operations
// submitted together (e.g. a multi-cursor edit) and returns them in
// dispatch order — ascending sequence number, ties broken by descending
// priority. Since each operation gets a distinct number, that order is the
// input order. Dependencies are not inspected.
func (s *Sequencer) SubmitBatch(ops []QueuedOperation) []QueuedOperation {
	s.mu.Lock()
	out := make([]QueuedOperation, len(ops))
	for i, op := range ops {
		op.Sequence = s.next
		s.next++
		out[i] = op
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Sequence != out[j].Sequence {
			return out[i].Sequence < out[j].Sequence
		}
		return out[i].Priority > out[j].Priority
	})
	return out
}
