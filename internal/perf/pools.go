package perf

import (
	"sync"
	"sync/atomic"
)

// BufferPool recycles []byte buffers used for temporary encode/decode
// scratch space (TOML writes, Parquet batches, diff scratch).
type BufferPool struct {
	pool  sync.Pool
	gets  uint64
	hits  uint64
	puts  uint64
	inUse int64
}

// NewBufferPool creates a pool whose buffers start at the given capacity.
func NewBufferPool(initialCap int) *BufferPool {
	p := &BufferPool{}
	p.pool.New = func() any {
		buf := make([]byte, 0, initialCap)
		return &buf
	}
	return p
}

// Get returns a zero-length buffer, reused when available.
func (p *BufferPool) Get() *[]byte {
	atomic.AddUint64(&p.gets, 1)
	v := p.pool.Get()
	buf := v.(*[]byte)
	if cap(*buf) > 0 {
		atomic.AddUint64(&p.hits, 1)
	}
	*buf = (*buf)[:0]
	atomic.AddInt64(&p.inUse, 1)
	return buf
}

// Put returns buf to the pool.
func (p *BufferPool) Put(buf *[]byte) {
	atomic.AddUint64(&p.puts, 1)
	atomic.AddInt64(&p.inUse, -1)
	p.pool.Put(buf)
}

// Stats returns a PoolStats snapshot.
func (p *BufferPool) Stats() PoolStats {
	return PoolStats{
		Gets:  atomic.LoadUint64(&p.gets),
		Hits:  atomic.LoadUint64(&p.hits),
		Puts:  atomic.LoadUint64(&p.puts),
		InUse: atomic.LoadInt64(&p.inUse),
	}
}

// RecordPool recycles fixed-shape records (e.g. TextOperation, QueuedOperation
// history entries) via a generic sync.Pool, avoiding a per-element pool type
// for every record kind that flows through the OT engine's hot path.
type RecordPool[T any] struct {
	pool      sync.Pool
	gets      uint64
	allocated uint64
	puts      uint64
	inUse     int64
}

// NewRecordPool creates a pool that allocates a fresh *T via zero value
// when empty.
func NewRecordPool[T any]() *RecordPool[T] {
	p := &RecordPool[T]{}
	p.pool.New = func() any {
		atomic.AddUint64(&p.allocated, 1)
		var v T
		return &v
	}
	return p
}

func (p *RecordPool[T]) Get() *T {
	atomic.AddUint64(&p.gets, 1)
	v := p.pool.Get().(*T)
	atomic.AddInt64(&p.inUse, 1)
	return v
}

func (p *RecordPool[T]) Put(v *T) {
	atomic.AddUint64(&p.puts, 1)
	atomic.AddInt64(&p.inUse, -1)
	var zero T
	*v = zero
	p.pool.Put(v)
}

// Stats returns a snapshot where Hits counts Gets satisfied by a recycled
// value rather than a fresh allocation from pool.New.
func (p *RecordPool[T]) Stats() PoolStats {
	gets := atomic.LoadUint64(&p.gets)
	allocated := atomic.LoadUint64(&p.allocated)
	hits := uint64(0)
	if gets > allocated {
		hits = gets - allocated
	}
	return PoolStats{
		Gets:  gets,
		Hits:  hits,
		Puts:  atomic.LoadUint64(&p.puts),
		InUse: atomic.LoadInt64(&p.inUse),
	}
}

// Pools bundles the optimiser's two named byte-buffer pools: text buffers
// and temporary byte buffers. It holds no pool for operation records or
// cache entries; RecordPool is constructed separately by its users.
type Pools struct {
	TextBuffers  *BufferPool
	TempBuffers  *BufferPool
}

// NewPools constructs the standard pool set.
func NewPools() *Pools {
	return &Pools{
		TextBuffers: NewBufferPool(4096),
		TempBuffers: NewBufferPool(512),
	}
}
