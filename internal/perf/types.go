// Package perf is the performance optimiser of spec.md §4.K: memory pools
// for hot allocation paths, a pressure-triggered GC controller, and a
// worker pool specialised by role.
package perf

// PressureLevel names the memory-pressure band a Monitor reading falls
// into.
type PressureLevel string

const (
	PressureNone     PressureLevel = "none"
	PressureLow      PressureLevel = "low"
	PressureMedium   PressureLevel = "medium"
	PressureHigh     PressureLevel = "high"
	PressureCritical PressureLevel = "critical"
)

// Thresholds are spec.md §4.K's fixed pressure-band boundaries, as
// fractions of configured memory budget.
var Thresholds = struct {
	Low, Medium, High, Critical float64
}{Low: 0.6, Medium: 0.75, High: 0.85, Critical: 0.95}

// ResponseAction is one step of the pressure-response ladder.
type ResponseAction string

const (
	ActionClearCaches              ResponseAction = "clear_caches"
	ActionTriggerGC                ResponseAction = "trigger_gc"
	ActionReducePoolSize           ResponseAction = "reduce_pool_size"
	ActionOptimizeMemoryLayout     ResponseAction = "optimize_memory_layout"
	ActionDeferNonCriticalOperations ResponseAction = "defer_non_critical_operations"
	ActionAlertUser                ResponseAction = "alert_user"
)

// ResponseLadder is the fixed action order spec.md §4.K runs on pressure
// >= high.
var ResponseLadder = []ResponseAction{
	ActionClearCaches,
	ActionTriggerGC,
	ActionReducePoolSize,
	ActionOptimizeMemoryLayout,
	ActionDeferNonCriticalOperations,
	ActionAlertUser,
}

// WorkerRole specializes a pooled worker's duties.
type WorkerRole string

const (
	RoleMemoryOptimization  WorkerRole = "memory_optimization"
	RoleCacheManagement     WorkerRole = "cache_management"
	RoleConflictResolution  WorkerRole = "conflict_resolution"
	RoleBackgroundProcessing WorkerRole = "background_processing"
	RolePerformanceAnalysis WorkerRole = "performance_analysis"
	RoleSystemMaintenance   WorkerRole = "system_maintenance"
)

// PoolStats is a SPEC_FULL.md addition: a snapshot of one memory pool's
// hit rate, letting callers (and tests) confirm the pool is actually
// reducing allocator pressure rather than only adding bookkeeping
// overhead.
type PoolStats struct {
	Gets    uint64
	Hits    uint64
	Puts    uint64
	InUse   int64
}

// HitRate returns Hits/Gets, or 0 if there have been no Gets yet.
func (s PoolStats) HitRate() float64 {
	if s.Gets == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Gets)
}
