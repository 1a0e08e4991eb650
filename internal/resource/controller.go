package resource

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrBudgetExceeded is returned when a reservation does not fit the memory
// budget.
var ErrBudgetExceeded = errors.New("memory budget exceeded")

// Config holds resource limits. Zero values mean unlimited.
type Config struct {
	// MemoryLimitBytes caps the bytes reserved for player storage.
	MemoryLimitBytes int64

	// IOLimitBytesPerSec caps the read throughput of player files.
	IOLimitBytesPerSec int64
}

// Controller enforces the memory budget of the player database and the read
// rate of the load phase. A nil *Controller enforces nothing.
type Controller struct {
	limit    int64
	budget   *semaphore.Weighted // nil if unlimited
	reserved atomic.Int64

	reads *rate.Limiter // nil if unlimited
}

// NewController creates a Controller for cfg.
func NewController(cfg Config) *Controller {
	c := &Controller{limit: max(cfg.MemoryLimitBytes, 0)}

	if c.limit > 0 {
		c.budget = semaphore.NewWeighted(c.limit)
	}
	if cfg.IOLimitBytesPerSec > 0 {
		// One second worth of bytes may be read in a single burst.
		c.reads = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}
	return c
}

// Reserve takes n bytes from the budget without blocking.
// It has the signature of a segment allocator.
func (c *Controller) Reserve(n int64) error {
	if c == nil || n <= 0 {
		return nil
	}
	if c.budget != nil && !c.budget.TryAcquire(n) {
		return fmt.Errorf("%w: need %d bytes, %d of %d reserved", ErrBudgetExceeded, n, c.reserved.Load(), c.limit)
	}
	c.reserved.Add(n)
	return nil
}

// Release returns n bytes to the budget.
func (c *Controller) Release(n int64) {
	if c == nil || n <= 0 {
		return
	}
	if c.budget != nil {
		c.budget.Release(n)
	}
	c.reserved.Add(-n)
}

// Reserved returns the bytes currently reserved.
func (c *Controller) Reserved() int64 {
	if c == nil {
		return 0
	}
	return c.reserved.Load()
}

// Limit returns the memory budget, or 0 if unlimited.
func (c *Controller) Limit() int64 {
	if c == nil {
		return 0
	}
	return c.limit
}

// WaitRead blocks until n more bytes may be read or ctx is done.
// n must not exceed ReadBurst.
func (c *Controller) WaitRead(ctx context.Context, n int) error {
	if c == nil || c.reads == nil {
		return nil
	}
	return c.reads.WaitN(ctx, n)
}

// ReadBurst returns the largest single WaitRead request, or 0 if reads are
// unlimited.
func (c *Controller) ReadBurst() int {
	if c == nil || c.reads == nil {
		return 0
	}
	return c.reads.Burst()
}
