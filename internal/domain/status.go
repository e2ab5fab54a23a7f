package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDeliveryFailed = errors.New("report delivery failed")
	ErrNoSubscribers  = errors.New("no subscribers on channel")
)

// BatteryUnavailable is rendered when no power supply exposes a readable
// capacity node. The GPU summary has no equivalent: its sub-fields default
// to zero instead, so it always renders.
const BatteryUnavailable = "N/A"

// GPUReading is a composite devfreq reading. Each sub-field defaults to
// zero when its node cannot be read; the availability flags let callers
// tell "hardware absent" from "hardware reports zero".
type GPUReading struct {
	LoadPercent uint64 `json:"load_percent"`
	CurFreqHz   uint64 `json:"cur_freq_hz"`
	MaxFreqHz   uint64 `json:"max_freq_hz"`

	LoadAvailable    bool `json:"load_available"`
	CurFreqAvailable bool `json:"cur_freq_available"`
	MaxFreqAvailable bool `json:"max_freq_available"`
}

// Summary renders load and Hz-to-MHz converted frequencies. Zero defaults
// render as zeros rather than blanking the line.
func (g GPUReading) Summary() string {
	return fmt.Sprintf("%d%% | %d/%d MHz",
		g.LoadPercent,
		g.CurFreqHz/1_000_000,
		g.MaxFreqHz/1_000_000,
	)
}

type BatteryReading struct {
	CapacityPercent string `json:"capacity_percent"`
	Available       bool   `json:"available"`
}

func (b BatteryReading) Summary() string {
	if !b.Available {
		return BatteryUnavailable
	}
	return b.CapacityPercent + "%"
}

// StatusReport is the immutable result of one sampling invocation. It is
// created once, rendered, handed to the messenger and discarded.
type StatusReport struct {
	ID              uuid.UUID      `json:"id"`
	CPUUsagePercent float64        `json:"cpu_usage_percent"`
	MemUsedMiB      uint64         `json:"mem_used_mib"`
	MemTotalMiB     uint64         `json:"mem_total_mib"`
	GPU             GPUReading     `json:"gpu"`
	GPULabel        string         `json:"gpu_label"`
	Battery         BatteryReading `json:"battery"`
	KernelVersion   string         `json:"kernel_version"`
	RecordedAt      time.Time      `json:"recorded_at"`
}

// Render produces the fixed-layout report: title, separator, CPU, memory,
// GPU, battery, kernel. The field order is part of the contract.
func (r StatusReport) Render() string {
	var b strings.Builder

	b.WriteString("🖥 <b>System Status</b>\n")
	b.WriteString("─────────────────\n")
	fmt.Fprintf(&b, "<b>CPU:</b> %.1f%%\n", r.CPUUsagePercent)
	fmt.Fprintf(&b, "<b>Memory:</b> %d / %d MiB\n", r.MemUsedMiB, r.MemTotalMiB)
	fmt.Fprintf(&b, "<b>%s:</b> %s\n", r.GPULabel, r.GPU.Summary())
	fmt.Fprintf(&b, "<b>Battery:</b> %s\n", r.Battery.Summary())
	fmt.Fprintf(&b, "<b>Kernel:</b> %s", r.KernelVersion)

	return b.String()
}

// Messenger delivers a rendered report to the subscribers of a channel.
// It is the only outward-facing collaborator of the status core.
type Messenger interface {
	Send(ctx context.Context, channel, text string) error
}

type StatusService interface {
	Report(ctx context.Context) StatusReport
	Deliver(ctx context.Context, channel string) error
}
