package cpu

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"knightd/internal/logger"
	"knightd/internal/sysinfo"
)

type scriptedRefresher struct {
	values []float64
	calls  int
}

func (s *scriptedRefresher) RefreshCPU() sysinfo.Snapshot {
	v := s.values[s.calls%len(s.values)]
	s.calls++
	return sysinfo.Snapshot{GlobalCPUUsage: v}
}

func TestSampleMeanDiscardsWarmup(t *testing.T) {
	// Warm-up value is an outlier on purpose: it must not leak into the mean.
	src := &scriptedRefresher{values: []float64{99.0, 10, 20, 30, 40, 50}}

	s := NewSampler(5, time.Millisecond, logger.Discard())
	got := s.Sample(context.Background(), src)

	assert.InDelta(t, 30.0, got, 0.001)
	assert.Equal(t, 6, src.calls)
}

func TestSamplePassesThroughMisreports(t *testing.T) {
	// Values above 100 are not clamped.
	src := &scriptedRefresher{values: []float64{0, 150, 150, 150, 150, 150}}

	s := NewSampler(5, time.Millisecond, logger.Discard())
	got := s.Sample(context.Background(), src)

	assert.InDelta(t, 150.0, got, 0.001)
}

func TestSampleDegradesOnCancellation(t *testing.T) {
	src := &scriptedRefresher{values: []float64{0, 40, 40, 40, 40, 40}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSampler(5, time.Millisecond, logger.Discard())
	got := s.Sample(ctx, src)

	assert.Zero(t, got)
}

func TestNewSamplerAppliesDefaults(t *testing.T) {
	s := NewSampler(0, 0, logger.Discard())

	assert.Equal(t, DefaultSampleCount, s.count)
	assert.Equal(t, DefaultSampleInterval, s.interval)
}
