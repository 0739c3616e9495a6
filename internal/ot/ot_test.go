package ot

import (
	"reflect"
	"testing"

	"github.com/tradocflow/tradocflow/internal/textproc"
)

func TestSubmitBatchOrdersBySequenceThenPriority(t *testing.T) {
	seq := NewSequencer()
	ops := []QueuedOperation{
		{ID: "a", Priority: PriorityLow},
		{ID: "b", Priority: PriorityCritical},
		{ID: "c", Priority: PriorityNormal},
	}
	out := seq.SubmitBatch(ops)
	if len(out) != 3 {
		t.Fatalf("got %d ops", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i].Sequence <= out[i-1].Sequence {
			t.Fatalf("sequence numbers not strictly increasing: %+v", out)
		}
	}
}

func TestTransformCachesByOperationPairAndContext(t *testing.T) {
	tr := NewTransformer()
	op1 := textproc.TextOperation{Kind: textproc.OpInsert, Pos: 0, New: "Hi"}
	op2 := textproc.TextOperation{Kind: textproc.OpInsert, Pos: 5, New: "Bye"}

	r1 := tr.Transform(op1, op2, "context-A")
	r2 := tr.Transform(op1, op2, "context-A")
	if !reflect.DeepEqual(r1, r2) {
		t.Fatalf("expected cached identical result, got %+v vs %+v", r1, r2)
	}

	r3 := tr.Transform(op1, op2, "context-B")
	if r3.Algorithm != r1.Algorithm {
		t.Errorf("algorithm should not depend on context, got %v vs %v", r3.Algorithm, r1.Algorithm)
	}
}

// TestTransformCommutativity is testable property #4 from spec.md §8: for
// concurrent operation pairs on the same buffer, the post-transform state
// is identical regardless of which executed first.
func TestTransformCommutativity(t *testing.T) {
	tr := NewTransformer()
	base := "Hello world"

	op1 := textproc.TextOperation{Kind: textproc.OpInsert, Pos: 0, New: "A: "}
	op2 := textproc.TextOperation{Kind: textproc.OpInsert, Pos: 6, New: "big "}

	result := tr.Transform(op1, op2, base)

	// Apply op1 then transformed op2.
	afterOp1 := applyOp(base, op1)
	afterBoth1 := applyOp(afterOp1, result.Op2)

	// Apply op2 then transformed op1.
	afterOp2 := applyOp(base, op2)
	afterBoth2 := applyOp(afterOp2, result.Op1)

	if afterBoth1 != afterBoth2 {
		t.Fatalf("non-commutative transform: %q vs %q", afterBoth1, afterBoth2)
	}
}

func applyOp(text string, op textproc.TextOperation) string {
	switch op.Kind {
	case textproc.OpInsert:
		return text[:op.Pos] + op.New + text[op.Pos:]
	case textproc.OpDelete:
		return text[:op.Pos] + text[op.Pos+len(op.Old):]
	default:
		return text[:op.Pos] + op.New + text[op.Pos+len(op.Old):]
	}
}

func TestConsistencyManagerDetectsSequenceGap(t *testing.T) {
	cm := NewConsistencyManager()
	op1 := QueuedOperation{ID: "1", EditorID: "ed1", Sequence: 1}
	op3 := QueuedOperation{ID: "3", EditorID: "ed1", Sequence: 3}

	if v := cm.RecordAck(op1, "content-1"); len(v) != 0 {
		t.Fatalf("unexpected violations on first ack: %+v", v)
	}
	violations := cm.RecordAck(op3, "content-3")
	if len(violations) == 0 {
		t.Fatalf("expected a sequence-gap violation")
	}
	if violations[0].Kind != ViolationSequenceBroken {
		t.Errorf("violation kind = %v, want %v", violations[0].Kind, ViolationSequenceBroken)
	}
}
