package perf

import (
	"context"
	"testing"
)

func TestBufferPoolReusesBuffers(t *testing.T) {
	p := NewBufferPool(64)
	buf := p.Get()
	*buf = append(*buf, "hello"...)
	p.Put(buf)

	buf2 := p.Get()
	if len(*buf2) != 0 {
		t.Fatalf("expected reset length 0, got %d", len(*buf2))
	}
	stats := p.Stats()
	if stats.Gets != 2 || stats.Puts != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestRecordPoolHitRateExcludesFreshAllocations(t *testing.T) {
	type record struct{ N int }
	p := NewRecordPool[record]()

	r1 := p.Get() // fresh allocation
	r1.N = 1
	p.Put(r1)

	r2 := p.Get() // should recycle r1
	p.Put(r2)

	stats := p.Stats()
	if stats.Gets != 2 {
		t.Fatalf("Gets = %d, want 2", stats.Gets)
	}
	if stats.Hits == 0 {
		t.Fatalf("expected at least one recycled Get, got Hits=0 (stats=%+v)", stats)
	}
	if stats.Hits >= stats.Gets {
		t.Fatalf("Hits (%d) should be less than Gets (%d): first Get is always fresh", stats.Hits, stats.Gets)
	}
}

func TestLevelForThresholds(t *testing.T) {
	cases := []struct {
		frac float64
		want PressureLevel
	}{
		{0.1, PressureNone},
		{0.6, PressureLow},
		{0.75, PressureMedium},
		{0.85, PressureHigh},
		{0.95, PressureCritical},
		{0.99, PressureCritical},
	}
	for _, c := range cases {
		if got := levelFor(c.frac); got != c.want {
			t.Errorf("levelFor(%v) = %v, want %v", c.frac, got, c.want)
		}
	}
}

func TestMonitorRunsLadderUnderHighPressure(t *testing.T) {
	var seen []ResponseAction
	m := NewMonitor(1000, NewPools(), func(a ResponseAction) {
		seen = append(seen, a)
	})
	r := m.classify(900) // 0.9 -> High
	if r.Level != PressureHigh {
		t.Fatalf("level = %v, want High", r.Level)
	}
	if len(seen) == 0 {
		t.Fatalf("expected ladder actions to run under High pressure")
	}
	if seen[0] != ActionClearCaches {
		t.Errorf("first action = %v, want ClearCaches", seen[0])
	}
}

func TestMonitorStaysQuietBelowHighPressure(t *testing.T) {
	var seen []ResponseAction
	m := NewMonitor(1000, NewPools(), func(a ResponseAction) {
		seen = append(seen, a)
	})
	r := m.classify(800) // 0.8 -> Medium
	if r.Level != PressureMedium {
		t.Fatalf("level = %v, want Medium", r.Level)
	}
	if len(seen) != 0 {
		t.Fatalf("expected no ladder actions below High pressure, got %v", seen)
	}
}

func TestWorkerPoolRunLimitsConcurrency(t *testing.T) {
	p := NewWorkerPool(map[WorkerRole]int64{RolePerformanceAnalysis: 1})
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = p.Run(ctx, RolePerformanceAnalysis, func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	if p.TryRun(RolePerformanceAnalysis, func() {}) {
		t.Fatalf("expected TryRun to fail while the single slot is held")
	}
	close(release)
}

func TestWorkerPoolTryRunSucceedsWhenFree(t *testing.T) {
	p := NewWorkerPool(nil)
	ran := false
	if !p.TryRun(RoleSystemMaintenance, func() { ran = true }) {
		t.Fatalf("expected TryRun to succeed on a free pool")
	}
	if !ran {
		t.Fatalf("expected fn to run")
	}
}
