// Package bufpool pools the scratch memory used by full-transfer copies:
// fixed-size chunk buffers for pipe-style copying and OutputBuffers for
// serializing records.
//
// Chunk buffers come in three size tiers:
//   - Small (default 4KB): frame headers and small records
//   - Medium (default 64KB): the default copy chunk, one pipe buffer
//   - Large (default 1MB): bulk copies
//
// Requests above the large tier are allocated directly and never pooled,
// so an occasional huge transfer does not pin memory.
//
// All operations are safe for concurrent use. A buffer obtained from the
// pool is owned by the caller until it is returned.
//
// # Usage
//
//	buf := bufpool.Get(size)
//	defer bufpool.Put(buf)
package bufpool

import (
	"sync"
	"sync/atomic"

	"github.com/marmos91/ntstm/pkg/stream"
)

// Default buffer size classes.
const (
	DefaultSmallSize  = 4 << 10
	DefaultMediumSize = 64 << 10
	DefaultLargeSize  = 1 << 20
)

// Config holds configuration for creating a custom buffer pool.
type Config struct {
	// SmallSize is the size of small buffers (default: 4KB)
	SmallSize int

	// MediumSize is the size of medium buffers (default: 64KB)
	MediumSize int

	// LargeSize is the size of large buffers (default: 1MB)
	LargeSize int
}

// DefaultConfig returns the default pool configuration.
func DefaultConfig() Config {
	return Config{
		SmallSize:  DefaultSmallSize,
		MediumSize: DefaultMediumSize,
		LargeSize:  DefaultLargeSize,
	}
}

// tier is one size class.
type tier struct {
	size int
	pool sync.Pool
}

// Pool manages chunk buffers organized by size class.
type Pool struct {
	tiers [3]*tier

	// allocations counts buffers created because a tier was empty or the
	// request was oversized.
	allocations atomic.Int64
}

// Stats reports pool activity.
type Stats struct {
	Allocations int64
}

// NewPool creates a new buffer pool. A nil config or zero sizes use the
// defaults. Tier sizes must be increasing; a tier not larger than the one
// below it is raised to match, which effectively merges the two.
func NewPool(cfg *Config) *Pool {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.SmallSize > 0 {
			c.SmallSize = cfg.SmallSize
		}
		if cfg.MediumSize > 0 {
			c.MediumSize = cfg.MediumSize
		}
		if cfg.LargeSize > 0 {
			c.LargeSize = cfg.LargeSize
		}
	}
	c.MediumSize = max(c.MediumSize, c.SmallSize)
	c.LargeSize = max(c.LargeSize, c.MediumSize)

	p := &Pool{}
	for i, size := range [3]int{c.SmallSize, c.MediumSize, c.LargeSize} {
		t := &tier{size: size}
		t.pool.New = func() any {
			p.allocations.Add(1)
			buf := make([]byte, t.size)
			return &buf
		}
		p.tiers[i] = t
	}
	return p
}

// Get returns a byte slice of exactly size bytes. Its capacity is the
// size class it came from.
//
// The caller should call Put when finished with the buffer. Contents are
// not cleared between uses.
func (p *Pool) Get(size int) []byte {
	size = max(size, 0)
	for _, t := range p.tiers {
		if size <= t.size {
			buf := *t.pool.Get().(*[]byte)
			return buf[:size]
		}
	}

	p.allocations.Add(1)
	return make([]byte, size)
}

// Put returns a buffer to the pool. Buffers whose capacity does not match
// a size class (oversized or foreign slices) are left to the GC.
func (p *Pool) Put(buf []byte) {
	if buf == nil {
		return
	}
	for _, t := range p.tiers {
		if cap(buf) == t.size {
			full := buf[:cap(buf)]
			t.pool.Put(&full)
			return
		}
	}
}

// Sizes returns the three tier sizes, smallest first.
func (p *Pool) Sizes() [3]int {
	return [3]int{p.tiers[0].size, p.tiers[1].size, p.tiers[2].size}
}

// Stats returns a snapshot of pool activity.
func (p *Pool) Stats() Stats {
	return Stats{Allocations: p.allocations.Load()}
}

// =============================================================================
// OutputBuffer Pool
// =============================================================================

// OutputPool recycles stream.OutputBuffers that share one set of options.
//
// Buffers are Reset before reuse, so capacity reserved by earlier writes is
// kept. Buffers that grew beyond maxRetained are dropped on Put instead of
// pinning their memory.
type OutputPool struct {
	pool        sync.Pool
	maxRetained int
}

// NewOutputPool creates an OutputPool. maxRetained <= 0 means
// DefaultLargeSize.
func NewOutputPool(maxRetained int, opts ...stream.OutputOption) *OutputPool {
	if maxRetained <= 0 {
		maxRetained = DefaultLargeSize
	}
	op := &OutputPool{maxRetained: maxRetained}
	op.pool.New = func() any {
		return stream.NewOutputBuffer(opts...)
	}
	return op
}

// Get returns an empty OutputBuffer.
func (op *OutputPool) Get() *stream.OutputBuffer {
	return op.pool.Get().(*stream.OutputBuffer)
}

// Put resets b and returns it to the pool. Its contents must not be used
// afterwards.
func (op *OutputPool) Put(b *stream.OutputBuffer) {
	if b == nil || b.Cap() > op.maxRetained {
		return
	}
	b.Reset()
	op.pool.Put(b)
}

// =============================================================================
// Global Pool
// =============================================================================

var globalPool = NewPool(nil)

// Get returns a byte slice of exactly size bytes from the global pool.
func Get(size int) []byte {
	return globalPool.Get(size)
}

// Put returns a buffer to the global pool.
func Put(buf []byte) {
	globalPool.Put(buf)
}
