// Package sysinfo exposes aggregate host counters (memory, global CPU
// utilization, kernel identity) read from procfs. A System handle is
// request-scoped; refresh operations return immutable Snapshot values so no
// stale state leaks across invocations.
package sysinfo

import (
	"bufio"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Snapshot holds the counters captured by the most recent refresh. Values
// are only meaningful immediately after the refresh that produced them.
type Snapshot struct {
	TotalMemory    uint64
	UsedMemory     uint64
	GlobalCPUUsage float64
	KernelVersion  string
}

type cpuTimes struct {
	idle  uint64
	total uint64
}

type System struct {
	statPath    string
	meminfoPath string

	prev    cpuTimes
	hasPrev bool
	snap    Snapshot
}

func New() *System {
	return &System{
		statPath:    "/proc/stat",
		meminfoPath: "/proc/meminfo",
	}
}

// RefreshAll refreshes every counter class once: memory, CPU and kernel
// identity. The CPU reading it produces is delta-based, so the first call
// on a fresh handle yields 0 and serves as the warm-up prime.
func (s *System) RefreshAll() Snapshot {
	s.refreshMemory()
	s.refreshCPU()
	s.snap.KernelVersion = kernelVersion()
	return s.snap
}

// RefreshCPU refreshes only the CPU counters and returns the resulting
// snapshot. Memory and kernel fields keep their previous values.
func (s *System) RefreshCPU() Snapshot {
	s.refreshCPU()
	return s.snap
}

func (s *System) refreshCPU() {
	curr, ok := readCPUTimes(s.statPath)
	if !ok {
		return
	}

	if s.hasPrev {
		deltaTotal := float64(curr.total - s.prev.total)
		deltaIdle := float64(curr.idle - s.prev.idle)

		if deltaTotal > 0 {
			s.snap.GlobalCPUUsage = (deltaTotal - deltaIdle) / deltaTotal * 100
		}
	}

	s.prev = curr
	s.hasPrev = true
}

func (s *System) refreshMemory() {
	memTotal, memAvailable := readMemInfo(s.meminfoPath)

	s.snap.TotalMemory = memTotal
	if memTotal >= memAvailable {
		s.snap.UsedMemory = memTotal - memAvailable
	}
}

// readCPUTimes parses the aggregate "cpu " line of /proc/stat. Iowait
// counts as idle time.
func readCPUTimes(path string) (cpuTimes, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cpuTimes{}, false
	}

	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "cpu ") {
			continue
		}

		fields := strings.Fields(line)[1:]

		var t cpuTimes
		for i, val := range fields {
			v, _ := strconv.ParseUint(val, 10, 64)
			t.total += v
			if i == 3 || i == 4 {
				t.idle += v
			}
		}

		return t, true
	}

	return cpuTimes{}, false
}

func readMemInfo(path string) (memTotal, memAvailable uint64) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}

		key := strings.TrimSuffix(fields[0], ":")
		valueKB, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}

		switch key {
		case "MemTotal":
			memTotal = valueKB * 1024
		case "MemAvailable":
			memAvailable = valueKB * 1024
		}
	}

	return memTotal, memAvailable
}

func kernelVersion() string {
	out, err := exec.Command("uname", "-r").Output()
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(out))
}
