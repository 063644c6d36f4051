package application

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"hyperion-agent/internal/metrics/domain"
	sharedlogger "hyperion-agent/internal/shared/logger"
)

// Service builds host snapshots on demand
type Service struct {
	logger   sharedlogger.Logger
	reader   domain.SystemMetricsReader
	nodeName string
	cores    func() int
}

// Option customizes a Service
type Option func(*Service)

// WithCoreCount overrides the logical core count provider (default runtime.NumCPU)
func WithCoreCount(cores func() int) Option {
	return func(s *Service) {
		s.cores = cores
	}
}

// NewService creates a new snapshot service for the node named nodeName
func NewService(logger sharedlogger.Logger, reader domain.SystemMetricsReader, nodeName string, opts ...Option) *Service {
	if nodeName == "" {
		nodeName = domain.DefaultNodeName
	}
	s := &Service{
		logger:   logger,
		reader:   reader,
		nodeName: nodeName,
		cores:    runtime.NumCPU,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NodeName returns the node identity reported in every snapshot
func (s *Service) NodeName() string {
	return s.nodeName
}

// Snapshot reads every host source and computes the utilization percentages.
// Each reading is best-effort: a failed read is logged at debug level and
// contributes its zero value.
func (s *Service) Snapshot(ctx context.Context) domain.Snapshot {
	var (
		load float64
		mem  domain.MemInfo
		gpus uint32
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.reader.ReadLoadAvg(gctx)
		if err != nil {
			s.logger.Debug("Load average unavailable, using 0", "err", err)
			return nil
		}
		load = v
		return nil
	})
	g.Go(func() error {
		v, err := s.reader.ReadMemInfo(gctx)
		if err != nil {
			s.logger.Debug("Memory info unavailable, using 0", "err", err)
			return nil
		}
		mem = v
		return nil
	})
	g.Go(func() error {
		v, err := s.reader.CountGPUs(gctx)
		if err != nil {
			s.logger.Debug("GPU directory unavailable, using 0", "err", err)
			return nil
		}
		gpus = v
		return nil
	})
	_ = g.Wait()

	return domain.NewSnapshot(
		s.nodeName,
		domain.CPUUsagePct(load, s.cores()),
		domain.MemUsagePct(mem),
		gpus,
	)
}
