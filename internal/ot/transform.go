package ot

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/tradocflow/tradocflow/internal/textproc"
)

// algorithmTable dispatches a transform algorithm by (kind(op1), kind(op2)),
// per spec.md §4.J.2. The position-adjustment math below is the same
// classical OT transform for every pair; the algorithm tag records which
// named strategy governed the pairing, for observability and future
// strategy-specific tuning.
var algorithmTable = map[[2]textproc.OperationKind]TransformAlgorithm{
	{textproc.OpInsert, textproc.OpInsert}:   AlgoStandardOT,
	{textproc.OpInsert, textproc.OpDelete}:   AlgoContextPreserving,
	{textproc.OpDelete, textproc.OpInsert}:   AlgoContextPreserving,
	{textproc.OpDelete, textproc.OpDelete}:   AlgoIntentionPreserving,
	{textproc.OpInsert, textproc.OpReplace}:  AlgoSemanticAware,
	{textproc.OpReplace, textproc.OpInsert}:  AlgoSemanticAware,
	{textproc.OpDelete, textproc.OpReplace}:  AlgoSemanticAware,
	{textproc.OpReplace, textproc.OpDelete}:  AlgoSemanticAware,
	{textproc.OpReplace, textproc.OpReplace}: AlgoPriorityBased,
}

func algorithmFor(op1, op2 textproc.TextOperation) TransformAlgorithm {
	if algo, ok := algorithmTable[[2]textproc.OperationKind{op1.Kind, op2.Kind}]; ok {
		return algo
	}
	return AlgoStandardOT
}

// Transformer runs spec.md §4.J.2's transform engine, caching results by
// (hash(op1), hash(op2), hash(context)).
type Transformer struct {
	mu    sync.Mutex
	cache map[string]TransformResult
}

// NewTransformer creates an empty Transformer.
func NewTransformer() *Transformer {
	return &Transformer{cache: make(map[string]TransformResult)}
}

// Transform reconciles op1 and op2, two operations executed concurrently
// against the same context (the document state they were both derived
// from).
func (t *Transformer) Transform(op1, op2 textproc.TextOperation, context string) TransformResult {
	key := cacheKey(op1, op2, context)

	t.mu.Lock()
	if cached, ok := t.cache[key]; ok {
		t.mu.Unlock()
		return cached
	}
	t.mu.Unlock()

	result := transformPair(op1, op2)

	t.mu.Lock()
	t.cache[key] = result
	t.mu.Unlock()
	return result
}

func cacheKey(op1, op2 textproc.TextOperation, context string) string {
	h := sha256.New()
	h.Write([]byte(opSignature(op1)))
	h.Write([]byte{0})
	h.Write([]byte(opSignature(op2)))
	h.Write([]byte{0})
	h.Write([]byte(context))
	return hex.EncodeToString(h.Sum(nil))
}

func opSignature(op textproc.TextOperation) string {
	return string(op.Kind) + "|" + itoa(op.Pos) + "|" + op.Old + "|" + op.New
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// transformPair applies the classical position-adjustment OT transform:
// each operation is shifted by the length delta of the other operation
// when the other operation occurs strictly before it. Equal positions
// shift neither operation and report ConflictResolutionRequired
// precedence — the caller's tie-break policy (e.g. priority, then editor
// id per spec.md §5) decides the true winner.
func transformPair(op1, op2 textproc.TextOperation) TransformResult {
	delta1 := len(op1.New) - len(op1.Old)
	delta2 := len(op2.New) - len(op2.Old)

	t1, t2 := op1, op2
	precedence := PrecedenceSimultaneous
	var effects []SideEffect

	switch {
	case op1.Pos < op2.Pos:
		t2.Pos += delta1
		precedence = PrecedenceOp1First
		effects = append(effects, SideEffectPositionShift)
	case op2.Pos < op1.Pos:
		t1.Pos += delta2
		precedence = PrecedenceOp2First
		effects = append(effects, SideEffectPositionShift)
	default:
		precedence = PrecedenceConflictResolutionRequired
		effects = append(effects, SideEffectContentInvalidation)
	}

	if op1.Kind == textproc.OpDelete || op2.Kind == textproc.OpDelete {
		effects = append(effects, SideEffectCursorMove, SideEffectCacheInvalidation)
	}

	return TransformResult{
		Op1: t1, Op2: t2,
		Algorithm:   algorithmFor(op1, op2),
		Precedence:  precedence,
		SideEffects: effects,
	}
}
