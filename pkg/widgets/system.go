package widgets

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/appearance"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/collectors"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/collectors/sysmetrics"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/components"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/refresh"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/theme"
)

// SystemCard shows CPU, memory and disk usage of the local host.
type SystemCard struct {
	Control
	interval time.Duration

	ctrl *refresh.Controller[sysmetrics.Snapshot]
	auto *refresh.AutoRefresh

	snap    *sysmetrics.Snapshot
	cpu     *components.Series
	errMsg  string
	samples int
}

// NewSystemCard creates a system card polling every interval. Zero polls
// only on attach and on Refresh.
func NewSystemCard(id string, interval time.Duration, env Env, opts ...Option) *SystemCard {
	s := &SystemCard{interval: interval, cpu: components.NewSeries(60)}
	s.init(id, "System", env, hooks{
		attached: s.start,
		detached: s.stop,
	}, opts)
	return s
}

// Snapshot returns the last snapshot, or nil.
func (s *SystemCard) Snapshot() *sysmetrics.Snapshot { return s.snap }

// Samples returns how many snapshots have been received.
func (s *SystemCard) Samples() int { return s.samples }

// ErrorMessage returns the last refresh error, or "".
func (s *SystemCard) ErrorMessage() string { return s.errMsg }

func (s *SystemCard) start() {
	s.ctrl = refresh.NewController[sysmetrics.Snapshot](
		refresh.WithExecutor(s.env.Exec),
		refresh.WithLogger(s.logger),
	)
	if s.interval > 0 {
		auto, err := refresh.NewAutoRefresh(s.interval, s.Refresh,
			refresh.WithExecutor(s.env.Exec),
			refresh.WithLogger(s.logger),
		)
		if err == nil {
			s.auto = auto
			auto.Start()
		}
	}
	s.Refresh()
}

func (s *SystemCard) stop() {
	if s.auto != nil {
		s.auto.Stop()
		s.auto = nil
	}
	if s.ctrl != nil {
		s.ctrl.Close()
	}
}

// Refresh takes a new snapshot. It does nothing while detached.
func (s *SystemCard) Refresh() {
	if !s.Attached() || s.ctrl == nil {
		return
	}
	sources := s.env.Sources
	s.ctrl.Start(
		func(tok *refresh.Token) (sysmetrics.Snapshot, error) {
			if sources == nil {
				return sysmetrics.Snapshot{}, collectors.ErrUnknownSource
			}
			return collectors.FetchAs[sysmetrics.Snapshot](tok.Context(), sources, sysmetrics.SourceName, "")
		},
		func(snap sysmetrics.Snapshot) {
			s.snap = &snap
			s.samples++
			s.cpu.Push(snap.CPUPercent)
			s.errMsg = ""
		},
		func(err error) {
			s.errMsg = err.Error()
			s.logger.Warn().Err(err).Msg("system refresh failed")
		},
		nil,
	)
}

// View renders gauges sized to the current tier. From Medium up a CPU
// history sparkline is shown; from Large up every disk gets a gauge.
func (s *SystemCard) View(focused bool) string {
	pal := s.palette
	if s.snap == nil {
		msg := pal.DimStyle().Render("collecting…")
		if s.errMsg != "" {
			msg = pal.StatusStyle(theme.StatusError).Render("! " + s.errMsg)
		}
		return s.frame(focused, s.sizeBadge(), msg)
	}

	inner := s.innerWidth()
	barWidth := max(inner-10, 3)
	snap := s.snap
	var lines []string

	cpu := components.DefaultGauge("cpu")
	cpu.LabelWidth = 5
	lines = append(lines, cpu.Render(snap.CPUPercent/100, barWidth, pal))

	if s.size >= appearance.Small {
		mem := components.DefaultGauge("mem")
		mem.LabelWidth = 5
		lines = append(lines, mem.Render(snap.MemUsedPct/100, barWidth, pal))
	}
	if s.size >= appearance.Medium {
		spark := components.Sparkline(s.cpu.Values(), inner-5, 0, 100, lipgloss.Color(pal.Accent))
		lines = append(lines, pal.DimStyle().Render("hist ")+spark)
	}

	disks := snap.Disks
	if s.size < appearance.Large && len(disks) > 1 {
		disks = disks[:1]
	}
	if s.size >= appearance.Small {
		for _, d := range disks {
			g := components.Gauge{Label: diskLabel(d.Path), LabelWidth: 5, ShowPercent: true, Warn: 0.8, Critical: 0.95}
			lines = append(lines, g.Render(d.UsedPercent/100, barWidth, pal))
		}
	}
	if s.size >= appearance.Large {
		lines = append(lines, pal.DimStyle().Render(fmt.Sprintf("load %.2f %.2f %.2f", snap.Load1, snap.Load5, snap.Load15)))
		lines = append(lines, pal.DimStyle().Render("up "+formatUptime(snap.Uptime)))
	}
	if s.errMsg != "" {
		lines = append(lines, pal.StatusStyle(theme.StatusWarn).Render("stale"))
	}

	title := s.sizeBadge()
	if snap.Host != "" && s.size >= appearance.Medium {
		title = snap.Host + " " + title
	}
	return s.frame(focused, title, strings.Join(lines, "\n"))
}

func diskLabel(path string) string {
	if path == "/" {
		return "disk"
	}
	if i := strings.LastIndex(path, "/"); i >= 0 && i < len(path)-1 {
		return path[i+1:]
	}
	return path
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}
