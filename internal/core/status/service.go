// Package status assembles the host status report: smoothed CPU
// utilization, memory totals, GPU and battery probes and kernel identity,
// rendered into a single fixed-layout message.
package status

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"knightd/internal/collector/battery"
	"knightd/internal/collector/cpu"
	"knightd/internal/collector/gpu"
	"knightd/internal/config"
	"knightd/internal/domain"
	"knightd/internal/logger"
	"knightd/internal/sysinfo"
)

const bytesPerMiB = 1 << 20

// SystemInfo is the refreshable counter source behind one report. A fresh
// handle is created per invocation so no delta state crosses requests.
type SystemInfo interface {
	RefreshAll() sysinfo.Snapshot
	cpu.Refresher
}

type Service struct {
	cfg       *config.Config
	log       logger.Logger
	sampler   *cpu.Sampler
	gpu       *gpu.Probe
	battery   *battery.Probe
	messenger domain.Messenger

	newSystem func() SystemInfo
}

func NewService(cfg *config.Config, messenger domain.Messenger, log logger.Logger) *Service {
	return &Service{
		cfg:       cfg,
		log:       log,
		sampler:   cpu.NewSampler(cfg.CPUSampleCount, cfg.CPUSampleInterval, log),
		gpu:       gpu.NewProbe(cfg.GPUDevfreqPath, log),
		battery:   battery.NewProbe(cfg.PowerSupplyPath, log),
		messenger: messenger,
		newSystem: func() SystemInfo { return sysinfo.New() },
	}
}

// Report gathers one status report. Collection is total: a missing node
// degrades its own field and nothing else, so Report has no error return.
// The call suspends for the CPU sampling window (~1.8s with defaults).
func (s *Service) Report(ctx context.Context) domain.StatusReport {
	started := time.Now()

	sys := s.newSystem()
	snap := sys.RefreshAll()

	cpuUsage := s.sampler.Sample(ctx, sys)

	kernel := snap.KernelVersion
	if kernel == "" {
		kernel = "unknown"
	}

	report := domain.StatusReport{
		ID:              uuid.New(),
		CPUUsagePercent: cpuUsage,
		MemUsedMiB:      snap.UsedMemory / bytesPerMiB,
		MemTotalMiB:     snap.TotalMemory / bytesPerMiB,
		GPU:             s.gpu.Collect(),
		GPULabel:        s.cfg.GPULabel,
		Battery:         s.battery.Collect(),
		KernelVersion:   kernel,
		RecordedAt:      time.Now().UTC(),
	}

	s.log.Debug("status report assembled",
		"id", report.ID,
		"cpu_usage", report.CPUUsagePercent,
		"elapsed", time.Since(started),
	)

	return report
}

// Deliver produces a report and hands the rendered text to the messenger.
// A delivery error propagates to the caller; there is no retry.
func (s *Service) Deliver(ctx context.Context, channel string) error {
	report := s.Report(ctx)

	if err := s.messenger.Send(ctx, channel, report.Render()); err != nil {
		s.log.Error("status delivery failed", "channel", channel, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrDeliveryFailed, err)
	}

	s.log.Info("status report delivered", "channel", channel, "id", report.ID)
	return nil
}
