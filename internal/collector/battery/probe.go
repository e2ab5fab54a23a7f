// Package battery scans the power-supply class for a charge percentage.
package battery

import (
	"os"
	"path/filepath"

	"knightd/internal/domain"
	"knightd/internal/logger"
	"knightd/internal/sysfs"
)

type Probe struct {
	root string
	log  logger.Logger
}

func NewProbe(root string, log logger.Logger) *Probe {
	return &Probe{root: root, log: log}
}

// Collect returns the capacity of the first power supply that exposes a
// readable capacity node. Entries are visited in lexicographic name order
// so multi-battery hosts pick the same supply on every run. When nothing
// is readable the reading is marked unavailable; unlike the GPU probe,
// "no battery" is a legitimate answer on plugged-in boards.
func (p *Probe) Collect() domain.BatteryReading {
	entries, err := os.ReadDir(p.root)
	if err != nil {
		p.log.Debug("power supply root unreadable", "root", p.root, "error", err)
		return domain.BatteryReading{}
	}

	for _, entry := range entries {
		capacity, ok := sysfs.ReadString(filepath.Join(p.root, entry.Name(), "capacity"))
		if !ok {
			continue
		}

		return domain.BatteryReading{CapacityPercent: capacity, Available: true}
	}

	return domain.BatteryReading{}
}
