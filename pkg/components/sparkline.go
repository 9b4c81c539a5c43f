package components

import (
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders the last width values as block characters scaled
// between lo and hi. When lo >= hi the range is taken from the data.
func Sparkline(values []float64, width int, lo, hi float64, color lipgloss.TerminalColor) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	if lo >= hi {
		lo, hi = values[0], values[0]
		for _, v := range values[1:] {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}

	var b strings.Builder
	span := hi - lo
	for _, v := range values {
		idx := 3
		if span > 0 {
			idx = int(math.Round(clamp01((v-lo)/span) * 7))
		}
		b.WriteRune(sparkBlocks[idx])
	}
	if color == nil {
		return b.String()
	}
	return lipgloss.NewStyle().Foreground(color).Render(b.String())
}

// Series is a bounded history of samples, safe for concurrent use.
type Series struct {
	mu     sync.Mutex
	values []float64
	limit  int
}

// NewSeries returns a Series keeping at most limit samples.
func NewSeries(limit int) *Series {
	if limit <= 0 {
		limit = 60
	}
	return &Series{limit: limit}
}

// Push appends v, dropping the oldest sample when full.
func (s *Series) Push(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = append(s.values, v)
	if over := len(s.values) - s.limit; over > 0 {
		s.values = append(s.values[:0], s.values[over:]...)
	}
}

// Values returns a copy of the samples, oldest first.
func (s *Series) Values() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// Len returns the number of samples held.
func (s *Series) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}
