// Package cpu averages global CPU utilization over a short sampling window.
// A single instantaneous reading is unreliable on mobile cores that idle
// between scheduler ticks, so latency is spent for stability instead.
package cpu

import (
	"context"
	"time"

	"knightd/internal/logger"
	"knightd/internal/sysinfo"
)

const (
	// DefaultSampleCount and DefaultSampleInterval put the sampling floor
	// at (count+1) * interval, ~1.8s with the defaults.
	DefaultSampleCount    = 5
	DefaultSampleInterval = 300 * time.Millisecond
)

// Refresher refreshes CPU counters and yields the resulting snapshot.
type Refresher interface {
	RefreshCPU() sysinfo.Snapshot
}

type Sampler struct {
	count    int
	interval time.Duration
	log      logger.Logger
}

func NewSampler(count int, interval time.Duration, log logger.Logger) *Sampler {
	if count <= 0 {
		count = DefaultSampleCount
	}
	if interval <= 0 {
		interval = DefaultSampleInterval
	}

	return &Sampler{count: count, interval: interval, log: log}
}

// Sample returns the arithmetic mean of count utilization readings taken
// one interval apart. The first refresh only primes the counter deltas and
// is discarded. Sample never fails: on cancellation it returns the mean of
// whatever it has gathered so far, degrading in precision rather than
// erroring.
func (s *Sampler) Sample(ctx context.Context, sys Refresher) float64 {
	sys.RefreshCPU()
	if !s.wait(ctx) {
		return 0
	}

	var total float64
	for i := 0; i < s.count; i++ {
		snap := sys.RefreshCPU()
		if !s.wait(ctx) {
			if i == 0 {
				return 0
			}
			s.log.Warn("cpu sampling interrupted", "samples", i, "wanted", s.count)
			return total / float64(i)
		}
		total += snap.GlobalCPUUsage
	}

	return total / float64(s.count)
}

func (s *Sampler) wait(ctx context.Context) bool {
	t := time.NewTimer(s.interval)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
