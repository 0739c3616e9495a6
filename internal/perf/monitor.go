package perf

import (
	"log"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// Reading is one sample of memory usage against a configured budget.
type Reading struct {
	UsedBytes   uint64
	BudgetBytes uint64
	Fraction    float64
	Level       PressureLevel
}

// Monitor tracks memory pressure against a fixed budget and, on every
// sample at PressureHigh or above, walks spec.md §4.K's response ladder in
// order from its first step: all six steps at PressureCritical, but only
// ClearCaches and TriggerGC at PressureHigh.
type Monitor struct {
	mu          sync.Mutex
	budgetBytes uint64
	pools       *Pools
	onAction    func(ResponseAction)
	actionsRun  uint64
	lastLevel   PressureLevel
}

// NewMonitor creates a Monitor against the given byte budget. onAction is
// invoked once per response-ladder step as pressure escalates; it may be
// nil.
func NewMonitor(budgetBytes uint64, pools *Pools, onAction func(ResponseAction)) *Monitor {
	return &Monitor{budgetBytes: budgetBytes, pools: pools, onAction: onAction, lastLevel: PressureNone}
}

// Sample reads current heap usage via runtime.MemStats and classifies it
// into a pressure band.
func (m *Monitor) Sample() Reading {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return m.classify(stats.HeapAlloc)
}

func (m *Monitor) classify(used uint64) Reading {
	m.mu.Lock()
	defer m.mu.Unlock()

	frac := 0.0
	if m.budgetBytes > 0 {
		frac = float64(used) / float64(m.budgetBytes)
	}

	level := levelFor(frac)
	r := Reading{UsedBytes: used, BudgetBytes: m.budgetBytes, Fraction: frac, Level: level}

	if level == PressureHigh || level == PressureCritical {
		m.runLadder(level)
	}
	m.lastLevel = level
	return r
}

func levelFor(frac float64) PressureLevel {
	switch {
	case frac >= Thresholds.Critical:
		return PressureCritical
	case frac >= Thresholds.High:
		return PressureHigh
	case frac >= Thresholds.Medium:
		return PressureMedium
	case frac >= Thresholds.Low:
		return PressureLow
	default:
		return PressureNone
	}
}

// runLadder executes the response ladder in order: all six steps at
// PressureCritical, the first two at PressureHigh. Each step is
// idempotent and safe to repeat across consecutive high-pressure samples.
// Callers hold m.mu.
func (m *Monitor) runLadder(level PressureLevel) {
	for _, action := range ResponseLadder {
		m.applyAction(action, level)
		atomic.AddUint64(&m.actionsRun, 1)
		if m.onAction != nil {
			m.onAction(action)
		}
		if action == ActionTriggerGC && level == PressureHigh {
			// A plain GC trigger is usually enough to bring High
			// pressure back down; escalate further only when
			// pressure is Critical.
			return
		}
	}
}

func (m *Monitor) applyAction(action ResponseAction, level PressureLevel) {
	switch action {
	case ActionClearCaches:
		// Caller-supplied caches are invalidated via onAction; the
		// monitor itself holds none.
	case ActionTriggerGC:
		runtime.GC()
	case ActionReducePoolSize:
		// Pools are backed by sync.Pool, which already drops entries
		// under GC pressure; nothing further to force here.
	case ActionOptimizeMemoryLayout:
		debug.FreeOSMemory()
	case ActionDeferNonCriticalOperations:
		// Signalled to callers via onAction; the monitor has no
		// non-critical work of its own to defer.
	case ActionAlertUser:
		log.Printf("perf: memory pressure at %s, budget %d bytes", level, m.budgetBytes)
	}
}

// ActionsRun returns the number of ladder steps executed so far, across all
// samples.
func (m *Monitor) ActionsRun() uint64 {
	return atomic.LoadUint64(&m.actionsRun)
}
