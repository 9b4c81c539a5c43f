// Package sysmetrics is the data source behind the system card. It uses
// gopsutil to read CPU, memory, disk, load and uptime on Darwin and Linux.
package sysmetrics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// SourceName is the registry name of the system source.
const SourceName = "system"

// Config controls the source.
type Config struct {
	// Interval is the suggested refresh rate (default 2s).
	Interval time.Duration

	// Mounts lists the mount points to report. Empty means "/".
	Mounts []string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: 2 * time.Second,
		Mounts:   []string{"/"},
	}
}

// Disk is the usage of one mount point.
type Disk struct {
	Path        string  `json:"path"`
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	UsedPercent float64 `json:"used_percent"`
}

// Snapshot is the value Fetch returns.
type Snapshot struct {
	Host          string        `json:"host"`
	CPUPercent    float64       `json:"cpu_percent"`
	CPUCount      int           `json:"cpu_count"`
	MemTotal      uint64        `json:"mem_total"`
	MemUsed       uint64        `json:"mem_used"`
	MemUsedPct    float64       `json:"mem_used_percent"`
	Disks         []Disk        `json:"disks"`
	Load1         float64       `json:"load1"`
	Load5         float64       `json:"load5"`
	Load15        float64       `json:"load15"`
	Uptime        time.Duration `json:"uptime"`
	Timestamp     time.Time     `json:"timestamp"`
	PartialErrors []string      `json:"partial_errors,omitempty"`
}

// probes are the gopsutil calls the source makes. Tests replace them.
type probes struct {
	cpuPercent func(ctx context.Context) (float64, int, error)
	memory     func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	diskUsage  func(ctx context.Context, path string) (*disk.UsageStat, error)
	loadAvg    func(ctx context.Context) (*load.AvgStat, error)
	hostInfo   func(ctx context.Context) (*host.InfoStat, error)
}

func gopsutilProbes() probes {
	return probes{
		cpuPercent: func(ctx context.Context) (float64, int, error) {
			total, err := cpu.PercentWithContext(ctx, 0, false)
			if err != nil {
				return 0, 0, err
			}
			count, err := cpu.CountsWithContext(ctx, true)
			if err != nil {
				return 0, 0, err
			}
			if len(total) == 0 {
				return 0, count, errors.New("no cpu samples")
			}
			return total[0], count, nil
		},
		memory:    mem.VirtualMemoryWithContext,
		diskUsage: disk.UsageWithContext,
		loadAvg:   load.AvgWithContext,
		hostInfo:  host.InfoWithContext,
	}
}

// Source reads system metrics. It implements collectors.Source.
type Source struct {
	cfg    Config
	probes probes

	mu      sync.Mutex
	healthy bool
}

// New creates a Source. Zero-value fields in cfg take defaults.
func New(cfg Config) *Source {
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if len(cfg.Mounts) == 0 {
		cfg.Mounts = def.Mounts
	}
	return &Source{cfg: cfg, probes: gopsutilProbes(), healthy: true}
}

// Name returns SourceName.
func (s *Source) Name() string { return SourceName }

// Interval returns the configured refresh rate.
func (s *Source) Interval() time.Duration { return s.cfg.Interval }

// Healthy reports whether the last fetch produced any data.
func (s *Source) Healthy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.healthy
}

func (s *Source) setHealthy(h bool) {
	s.mu.Lock()
	s.healthy = h
	s.mu.Unlock()
}

// Fetch takes one Snapshot; key is ignored. Failing sub-readings are listed
// in PartialErrors. Fetch fails only when ctx is done or every reading
// failed.
func (s *Source) Fetch(ctx context.Context, _ string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := Snapshot{Timestamp: time.Now()}
	readings := []struct {
		name string
		read func() error
	}{
		{"cpu", func() error {
			pct, n, err := s.probes.cpuPercent(ctx)
			snap.CPUPercent, snap.CPUCount = pct, n
			return err
		}},
		{"memory", func() error {
			vm, err := s.probes.memory(ctx)
			if err != nil {
				return err
			}
			snap.MemTotal, snap.MemUsed, snap.MemUsedPct = vm.Total, vm.Used, vm.UsedPercent
			return nil
		}},
		{"disk", func() error {
			var errs []error
			for _, mp := range s.cfg.Mounts {
				u, err := s.probes.diskUsage(ctx, mp)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", mp, err))
					continue
				}
				snap.Disks = append(snap.Disks, Disk{Path: u.Path, Total: u.Total, Used: u.Used, UsedPercent: u.UsedPercent})
			}
			if len(snap.Disks) == 0 {
				return errors.Join(errs...)
			}
			return nil
		}},
		{"load", func() error {
			avg, err := s.probes.loadAvg(ctx)
			if err != nil {
				return err
			}
			snap.Load1, snap.Load5, snap.Load15 = avg.Load1, avg.Load5, avg.Load15
			return nil
		}},
		{"host", func() error {
			info, err := s.probes.hostInfo(ctx)
			if err != nil {
				return err
			}
			snap.Host = info.Hostname
			snap.Uptime = time.Duration(info.Uptime) * time.Second
			return nil
		}},
	}

	for _, r := range readings {
		if err := r.read(); err != nil {
			snap.PartialErrors = append(snap.PartialErrors, fmt.Sprintf("%s: %v", r.name, err))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(snap.PartialErrors) == len(readings) {
		s.setHealthy(false)
		return nil, fmt.Errorf("sysmetrics: every reading failed: %v", snap.PartialErrors)
	}
	s.setHealthy(true)
	return snap, nil
}
