// Package gpu probes a devfreq node group for load and frequency state.
package gpu

import (
	"path/filepath"

	"knightd/internal/domain"
	"knightd/internal/logger"
	"knightd/internal/sysfs"
)

// Probe reads a fixed devfreq node group. Kernel variants disagree on where
// the busy percentage lives, so the load read walks an ordered candidate
// list and takes the first hit.
type Probe struct {
	base string
	log  logger.Logger
}

func NewProbe(base string, log logger.Logger) *Probe {
	return &Probe{base: base, log: log}
}

// Collect always returns a renderable reading: each sub-field that cannot
// be read is zeroed independently and flagged unavailable, never failing
// the composite.
func (p *Probe) Collect() domain.GPUReading {
	var r domain.GPUReading

	for _, candidate := range []string{"device/gpu_busy", "device/load"} {
		if v, ok := sysfs.ReadUint(filepath.Join(p.base, candidate)); ok {
			r.LoadPercent = v
			r.LoadAvailable = true
			break
		}
	}

	r.CurFreqHz, r.CurFreqAvailable = sysfs.ReadUint(filepath.Join(p.base, "cur_freq"))
	r.MaxFreqHz, r.MaxFreqAvailable = sysfs.ReadUint(filepath.Join(p.base, "max_freq"))

	if !r.LoadAvailable {
		p.log.Debug("gpu load nodes unreadable, defaulting to zero", "base", p.base)
	}

	return r
}
