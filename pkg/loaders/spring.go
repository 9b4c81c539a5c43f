package loaders

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/components"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/theme"
)

const springFPS = 30

// springState is a spring chasing a target that flips between lo and hi
// once the spring settles near it.
type springState struct {
	spring   harmonica.Spring
	pos, vel float64
	lo, hi   float64
	target   float64
	slack    float64
}

func (s *springState) step() float64 {
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.target)
	if math.Abs(s.pos-s.target) < s.slack && math.Abs(s.vel) < s.slack*springFPS {
		if s.target == s.hi {
			s.target = s.lo
		} else {
			s.target = s.hi
		}
	}
	return s.pos
}

// newBreathe fills and drains a bar on a critically damped spring.
func newBreathe(width int, pal theme.Theme) animation {
	st := &springState{
		spring: harmonica.NewSpring(harmonica.FPS(springFPS), 4.0, 1.0),
		hi:     1,
		target: 1,
		slack:  0.005,
	}
	fill := lipgloss.Color(pal.LoaderPrimary)
	track := lipgloss.Color(pal.Track)
	return animation{
		interval: time.Second / springFPS,
		render: func(n int) string {
			if n == 0 {
				return components.Bar(0, width, fill, track)
			}
			return components.Bar(st.step(), width, fill, track)
		},
	}
}

// newBounce moves a ball between the ends of a track on an under-damped
// spring, so it overshoots and settles before turning around.
func newBounce(width int, pal theme.Theme) animation {
	end := float64(width - 1)
	st := &springState{
		spring: harmonica.NewSpring(harmonica.FPS(springFPS), 6.0, 0.35),
		hi:     end,
		target: end,
		slack:  0.5,
	}
	ball := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.LoaderPrimary))
	track := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Track))
	return animation{
		interval: time.Second / springFPS,
		render: func(n int) string {
			pos := 0.0
			if n > 0 {
				pos = st.step()
			}
			at := int(math.Round(math.Max(0, math.Min(end, pos))))
			return track.Render(strings.Repeat("·", at)) +
				ball.Render("●") +
				track.Render(strings.Repeat("·", width-1-at))
		},
	}
}
