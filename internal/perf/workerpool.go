package perf

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// WorkerPool bounds concurrency per WorkerRole, so a flood of background
// cache-management work can never starve, say, conflict resolution of a
// goroutine slot. Each role gets its own weighted semaphore rather than one
// pool shared across roles.
type WorkerPool struct {
	limits map[WorkerRole]int64
	sems   map[WorkerRole]*semaphore.Weighted
}

// DefaultLimits is the per-role concurrency budget. Conflict resolution
// runs on the editing hot path and gets the largest share; analysis and
// maintenance are background work and get the least.
var DefaultLimits = map[WorkerRole]int64{
	RoleMemoryOptimization:   2,
	RoleCacheManagement:      2,
	RoleConflictResolution:  4,
	RoleBackgroundProcessing: 2,
	RolePerformanceAnalysis:  1,
	RoleSystemMaintenance:    1,
}

// NewWorkerPool creates a pool using limits, or DefaultLimits for any role
// not present in limits.
func NewWorkerPool(limits map[WorkerRole]int64) *WorkerPool {
	p := &WorkerPool{
		limits: make(map[WorkerRole]int64, len(DefaultLimits)),
		sems:   make(map[WorkerRole]*semaphore.Weighted, len(DefaultLimits)),
	}
	for role, n := range DefaultLimits {
		p.limits[role] = n
	}
	for role, n := range limits {
		p.limits[role] = n
	}
	for role, n := range p.limits {
		p.sems[role] = semaphore.NewWeighted(n)
	}
	return p
}

// Run blocks until a slot for role is available (or ctx is cancelled), then
// executes fn holding that slot.
func (p *WorkerPool) Run(ctx context.Context, role WorkerRole, fn func(context.Context) error) error {
	sem := p.semFor(role)
	if err := sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer sem.Release(1)
	return fn(ctx)
}

// TryRun attempts to acquire a slot for role without blocking. It returns
// false immediately if the role is already at capacity.
func (p *WorkerPool) TryRun(role WorkerRole, fn func()) bool {
	sem := p.semFor(role)
	if !sem.TryAcquire(1) {
		return false
	}
	defer sem.Release(1)
	fn()
	return true
}

func (p *WorkerPool) semFor(role WorkerRole) *semaphore.Weighted {
	if s, ok := p.sems[role]; ok {
		return s
	}
	s := semaphore.NewWeighted(1)
	p.sems[role] = s
	return s
}
