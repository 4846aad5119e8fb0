package resource

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimit is returned when a reservation can never fit the configured limit.
var ErrMemoryLimit = errors.New("resource: memory limit exceeded")

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes caps the element storage reserved through the controller.
	// If 0, usage is only tracked.
	MemoryLimitBytes int64

	// MaxConcurrentTransfers bounds parallel snapshot saves and loads.
	// If 0, defaults to 1.
	MaxConcurrentTransfers int64

	// IOLimitBytesPerSec throttles snapshot reads and writes.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// SystemMemoryLimit returns fraction of the total physical memory, for use as
// Config.MemoryLimitBytes. It returns 0 (no limit) when the total is unknown or
// fraction is not in (0, 1].
func SystemMemoryLimit(fraction float64) int64 {
	if fraction <= 0 || fraction > 1 {
		return 0
	}
	total := memory.TotalMemory()
	if total == 0 {
		return 0
	}
	return int64(float64(total) * fraction)
}

// Controller tracks reserved memory and gates transfers and IO.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	xferSem *semaphore.Weighted

	ioLimiter *rate.Limiter
}

// NewController creates a resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentTransfers <= 0 {
		cfg.MaxConcurrentTransfers = 1
	}

	c := &Controller{
		cfg:     cfg,
		xferSem: semaphore.NewWeighted(cfg.MaxConcurrentTransfers),
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// Config returns the effective configuration.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// AcquireMemory reserves bytes, blocking until they fit under the limit or ctx
// is done. A request larger than the whole limit fails immediately.
func (c *Controller) AcquireMemory(ctx context.Context, bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if bytes > c.cfg.MemoryLimitBytes {
			return fmt.Errorf("%w: %d bytes requested, limit is %d", ErrMemoryLimit, bytes, c.cfg.MemoryLimitBytes)
		}
		if err := c.memSem.Acquire(ctx, bytes); err != nil {
			return err
		}
	}

	c.memUsed.Add(bytes)
	return nil
}

// TryAcquireMemory reserves bytes without blocking.
// It reports false when the reservation would exceed the limit.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil || bytes <= 0 {
		return true
	}

	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		return false
	}

	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory returns a reservation.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the reserved bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// AcquireTransfer reserves a transfer slot, blocking while all are busy.
func (c *Controller) AcquireTransfer(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.xferSem.Acquire(ctx, 1)
}

// TryAcquireTransfer reserves a transfer slot without blocking.
func (c *Controller) TryAcquireTransfer() bool {
	if c == nil {
		return true
	}
	return c.xferSem.TryAcquire(1)
}

// ReleaseTransfer returns a transfer slot.
func (c *Controller) ReleaseTransfer() {
	if c == nil {
		return
	}
	c.xferSem.Release(1)
}

// AcquireIO waits until the IO limit admits n bytes. Requests larger than one
// second of budget are admitted in burst-sized steps.
func (c *Controller) AcquireIO(ctx context.Context, n int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	burst := c.ioLimiter.Burst()
	for n > 0 {
		step := min(n, burst)
		if err := c.ioLimiter.WaitN(ctx, step); err != nil {
			return err
		}
		n -= step
	}
	return nil
}
