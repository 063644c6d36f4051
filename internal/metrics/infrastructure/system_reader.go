package infrastructure

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"hyperion-agent/internal/metrics/domain"
)

// Host-mounted sources the agent reads. They are fixed at build time.
const (
	LoadAvgPath = "/host/proc/loadavg"
	MemInfoPath = "/host/proc/meminfo"
	GPUDirPath  = "/host/proc/driver/nvidia/gpus"
)

const (
	memTotalPrefix     = "MemTotal:"
	memAvailablePrefix = "MemAvailable:"
)

// Paths locates the three host sources
type Paths struct {
	LoadAvg string
	MemInfo string
	GPUDir  string
}

// DefaultPaths returns the host-mounted locations used in production
func DefaultPaths() Paths {
	return Paths{
		LoadAvg: LoadAvgPath,
		MemInfo: MemInfoPath,
		GPUDir:  GPUDirPath,
	}
}

// SystemMetricsReaderImpl implements the domain SystemMetricsReader interface over files
type SystemMetricsReaderImpl struct {
	paths Paths
}

// NewSystemMetricsReader creates a new system metrics reader over paths
func NewSystemMetricsReader(paths Paths) domain.SystemMetricsReader {
	return &SystemMetricsReaderImpl{paths: paths}
}

// ReadLoadAvg parses the first whitespace-separated field of the load-average source
func (r *SystemMetricsReaderImpl) ReadLoadAvg(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	contents, err := os.ReadFile(r.paths.LoadAvg)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", r.paths.LoadAvg, err)
	}

	values := strings.Fields(string(contents))
	if len(values) == 0 {
		return 0, fmt.Errorf("invalid format in %s: empty", r.paths.LoadAvg)
	}

	loadAvg, err := strconv.ParseFloat(values[0], 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse load average: %w", err)
	}

	return loadAvg, nil
}

// ReadMemInfo scans the memory-info source for MemTotal and MemAvailable
func (r *SystemMetricsReaderImpl) ReadMemInfo(ctx context.Context) (domain.MemInfo, error) {
	if err := ctx.Err(); err != nil {
		return domain.MemInfo{}, err
	}

	f, err := os.Open(r.paths.MemInfo)
	if err != nil {
		return domain.MemInfo{}, fmt.Errorf("failed to open %s: %w", r.paths.MemInfo, err)
	}
	defer f.Close()

	var info domain.MemInfo
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := s.Text()
		switch {
		case strings.HasPrefix(line, memTotalPrefix):
			info.TotalKB = memValue(line)
		case strings.HasPrefix(line, memAvailablePrefix):
			info.AvailableKB = memValue(line)
		}
	}
	if err := s.Err(); err != nil {
		return domain.MemInfo{}, fmt.Errorf("failed to scan %s: %w", r.paths.MemInfo, err)
	}

	return info, nil
}

// memValue returns the number after the key on a "Key:   value unit" line, or 0
func memValue(line string) float64 {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0
	}
	return v
}

// CountGPUs counts entries in the GPU device directory
func (r *SystemMetricsReaderImpl) CountGPUs(ctx context.Context) (uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	entries, err := os.ReadDir(r.paths.GPUDir)
	if err != nil {
		return 0, fmt.Errorf("failed to list %s: %w", r.paths.GPUDir, err)
	}

	return uint32(len(entries)), nil
}
