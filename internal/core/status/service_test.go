package status

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knightd/internal/config"
	"knightd/internal/domain"
	"knightd/internal/logger"
	"knightd/internal/sysinfo"
)

type fakeSystem struct {
	snap   sysinfo.Snapshot
	usages []float64
	calls  int
}

func (f *fakeSystem) RefreshAll() sysinfo.Snapshot {
	return f.snap
}

func (f *fakeSystem) RefreshCPU() sysinfo.Snapshot {
	snap := f.snap
	snap.GlobalCPUUsage = f.usages[f.calls%len(f.usages)]
	f.calls++
	return snap
}

type recordingMessenger struct {
	channel string
	text    string
	err     error
}

func (m *recordingMessenger) Send(_ context.Context, channel, text string) error {
	m.channel = channel
	m.text = text
	return m.err
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	gpuBase := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(gpuBase, "device"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(gpuBase, "device", "load"), []byte("37\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(gpuBase, "cur_freq"), []byte("800000000\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(gpuBase, "max_freq"), []byte("960000000\n"), 0o644))

	powerRoot := t.TempDir()
	battDir := filepath.Join(powerRoot, "battery")
	require.NoError(t, os.MkdirAll(battDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(battDir, "capacity"), []byte("85\n"), 0o644))

	return &config.Config{
		GPUDevfreqPath:    gpuBase,
		GPULabel:          "GPU",
		PowerSupplyPath:   powerRoot,
		CPUSampleCount:    5,
		CPUSampleInterval: time.Millisecond,
	}
}

func newTestService(t *testing.T, messenger domain.Messenger, sys *fakeSystem) *Service {
	t.Helper()

	svc := NewService(testConfig(t), messenger, logger.Discard())
	svc.newSystem = func() SystemInfo { return sys }
	return svc
}

func TestReportEndToEnd(t *testing.T) {
	sys := &fakeSystem{
		snap: sysinfo.Snapshot{
			TotalMemory:   8_589_934_592,
			UsedMemory:    4_294_967_296,
			KernelVersion: "6.6.8-knight",
		},
		usages: []float64{90, 10, 20, 30, 40, 50},
	}

	svc := newTestService(t, &recordingMessenger{}, sys)
	report := svc.Report(context.Background())

	assert.InDelta(t, 30.0, report.CPUUsagePercent, 0.001)
	assert.Equal(t, uint64(4096), report.MemUsedMiB)
	assert.Equal(t, uint64(8192), report.MemTotalMiB)
	assert.Equal(t, "37% | 800/960 MHz", report.GPU.Summary())
	assert.Equal(t, "85%", report.Battery.Summary())
	assert.Equal(t, "6.6.8-knight", report.KernelVersion)

	assert.Contains(t, report.Render(), "<b>Memory:</b> 4096 / 8192 MiB")
}

func TestReportSubstitutesUnknownKernel(t *testing.T) {
	sys := &fakeSystem{usages: []float64{0}}

	svc := newTestService(t, &recordingMessenger{}, sys)
	report := svc.Report(context.Background())

	assert.Equal(t, "unknown", report.KernelVersion)
}

func TestReportIsStableUpToCPU(t *testing.T) {
	sys := &fakeSystem{usages: []float64{5, 10, 15, 20, 25, 30}}

	svc := newTestService(t, &recordingMessenger{}, sys)
	first := svc.Report(context.Background())
	second := svc.Report(context.Background())

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.GPU, second.GPU)
	assert.Equal(t, first.Battery, second.Battery)
	assert.Equal(t, first.MemUsedMiB, second.MemUsedMiB)
	assert.Equal(t, first.MemTotalMiB, second.MemTotalMiB)
}

func TestDeliverSendsRenderedReport(t *testing.T) {
	sys := &fakeSystem{usages: []float64{0}}
	messenger := &recordingMessenger{}

	svc := newTestService(t, messenger, sys)
	err := svc.Deliver(context.Background(), "ops")

	require.NoError(t, err)
	assert.Equal(t, "ops", messenger.channel)
	assert.True(t, strings.HasPrefix(messenger.text, "🖥 <b>System Status</b>\n"))
	assert.Contains(t, messenger.text, "<b>Battery:</b> 85%")
}

func TestDeliverPropagatesTransportError(t *testing.T) {
	sys := &fakeSystem{usages: []float64{0}}
	messenger := &recordingMessenger{err: errors.New("socket closed")}

	svc := newTestService(t, messenger, sys)
	err := svc.Deliver(context.Background(), "ops")

	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
}
