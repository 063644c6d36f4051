package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyperion-agent/internal/metrics/domain"
	"hyperion-agent/internal/metrics/infrastructure"
)

// mockReader is a mock implementation of domain.SystemMetricsReader
type mockReader struct {
	load    float64
	loadErr error
	mem     domain.MemInfo
	memErr  error
	gpus    uint32
	gpuErr  error
}

func (m *mockReader) ReadLoadAvg(ctx context.Context) (float64, error) {
	return m.load, m.loadErr
}

func (m *mockReader) ReadMemInfo(ctx context.Context) (domain.MemInfo, error) {
	return m.mem, m.memErr
}

func (m *mockReader) CountGPUs(ctx context.Context) (uint32, error) {
	return m.gpus, m.gpuErr
}

// recordingLogger keeps debug messages for assertions
type recordingLogger struct {
	mu    sync.Mutex
	debug []string
}

func (l *recordingLogger) Debug(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = append(l.debug, msg)
}
func (l *recordingLogger) Info(msg string, args ...any)  {}
func (l *recordingLogger) Warn(msg string, args ...any)  {}
func (l *recordingLogger) Error(msg string, args ...any) {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedCores(n int) Option {
	return WithCoreCount(func() int { return n })
}

func TestService_Snapshot(t *testing.T) {
	errRead := errors.New("read failed")

	tests := []struct {
		name     string
		nodeName string
		reader   *mockReader
		cores    int
		want     domain.Snapshot
		debugs   int
	}{
		{
			name:     "all sources readable",
			nodeName: "node-a",
			reader: &mockReader{
				load: 2.0,
				mem:  domain.MemInfo{TotalKB: 1000, AvailableKB: 250},
				gpus: 3,
			},
			cores: 4,
			want:  domain.Snapshot{NodeName: "node-a", CPUUsagePct: 50, MemUsagePct: 75, GPUCount: 3},
		},
		{
			name:     "load clamped",
			nodeName: "node-a",
			reader:   &mockReader{load: 10.0},
			cores:    2,
			want:     domain.Snapshot{NodeName: "node-a", CPUUsagePct: 100},
		},
		{
			name:     "every source fails",
			nodeName: "",
			reader: &mockReader{
				load: 5, loadErr: errRead,
				mem: domain.MemInfo{TotalKB: 1}, memErr: errRead,
				gpus: 9, gpuErr: errRead,
			},
			cores:  4,
			want:   domain.Snapshot{NodeName: domain.DefaultNodeName},
			debugs: 3,
		},
		{
			name:     "gpu directory missing only",
			nodeName: "node-b",
			reader: &mockReader{
				load:   1.0,
				mem:    domain.MemInfo{TotalKB: 200, AvailableKB: 100},
				gpuErr: os.ErrNotExist,
			},
			cores:  1,
			want:   domain.Snapshot{NodeName: "node-b", CPUUsagePct: 100, MemUsagePct: 50},
			debugs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &recordingLogger{}
			svc := NewService(log, tt.reader, tt.nodeName, fixedCores(tt.cores))

			got := svc.Snapshot(context.Background())
			assert.Equal(t, tt.want, got)
			assert.Len(t, log.debug, tt.debugs)
		})
	}
}

func TestService_NodeName(t *testing.T) {
	assert.Equal(t, domain.DefaultNodeName, NewService(discardLogger(), &mockReader{}, "").NodeName())
	assert.Equal(t, "n1", NewService(discardLogger(), &mockReader{}, "n1").NodeName())
}

func TestService_DefaultCoreCount(t *testing.T) {
	svc := NewService(discardLogger(), &mockReader{}, "n1")
	assert.Positive(t, svc.cores())
}

func TestService_SnapshotFromFiles(t *testing.T) {
	dir := t.TempDir()
	gpuDir := filepath.Join(dir, "gpus")
	require.NoError(t, os.Mkdir(gpuDir, 0o755))
	for _, id := range []string{"0", "1", "2"} {
		require.NoError(t, os.Mkdir(filepath.Join(gpuDir, id), 0o755))
	}
	loadPath := filepath.Join(dir, "loadavg")
	memPath := filepath.Join(dir, "meminfo")
	require.NoError(t, os.WriteFile(loadPath, []byte("2.00 1.00 0.50 1/100 42\n"), 0o644))
	require.NoError(t, os.WriteFile(memPath, []byte("MemTotal:   1000 kB\nMemAvailable:  250 kB\n"), 0o644))

	reader := infrastructure.NewSystemMetricsReader(infrastructure.Paths{
		LoadAvg: loadPath,
		MemInfo: memPath,
		GPUDir:  gpuDir,
	})
	svc := NewService(discardLogger(), reader, "node-files", fixedCores(4))

	first := svc.Snapshot(context.Background())
	assert.Equal(t, domain.Snapshot{NodeName: "node-files", CPUUsagePct: 50, MemUsagePct: 75, GPUCount: 3}, first)

	// unchanged host files give identical snapshots
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, svc.Snapshot(context.Background()))
	}
}

func TestService_SnapshotMissingHost(t *testing.T) {
	dir := t.TempDir()
	reader := infrastructure.NewSystemMetricsReader(infrastructure.Paths{
		LoadAvg: filepath.Join(dir, "loadavg"),
		MemInfo: filepath.Join(dir, "meminfo"),
		GPUDir:  filepath.Join(dir, "gpus"),
	})
	svc := NewService(discardLogger(), reader, "", fixedCores(8))

	assert.Equal(t, domain.Snapshot{NodeName: domain.DefaultNodeName}, svc.Snapshot(context.Background()))
}

func TestService_SnapshotConcurrent(t *testing.T) {
	svc := NewService(discardLogger(), &mockReader{load: 1, gpus: 2}, "n", fixedCores(2))

	var wg sync.WaitGroup
	results := make([]domain.Snapshot, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.Snapshot(context.Background())
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
}
