package terminal

import (
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Capabilities summarizes the terminal for one process.
type Capabilities struct {
	Term        Terminal
	Size        Size
	Profile     termenv.Profile
	Interactive bool // stdout is a terminal
	Mouse       bool
	SSH         bool
	Mux         bool // inside tmux or screen
}

var (
	mu     sync.Mutex
	cached *Capabilities
)

// DetectCapabilities detects once and caches the result.
func DetectCapabilities() *Capabilities {
	mu.Lock()
	defer mu.Unlock()
	if cached == nil {
		cached = detect()
	}
	return cached
}

// ForceRefresh re-detects and replaces the cached value.
func ForceRefresh() *Capabilities {
	mu.Lock()
	defer mu.Unlock()
	cached = detect()
	return cached
}

func detect() *Capabilities {
	t := Detect()
	interactive := isTTY(os.Stdout)
	return &Capabilities{
		Term:        t,
		Size:        GetSize(),
		Profile:     colorProfile(t, interactive),
		Interactive: interactive,
		Mouse:       interactive && t.SupportsMouse(),
		SSH:         os.Getenv("SSH_CONNECTION") != "" || os.Getenv("SSH_TTY") != "",
		Mux:         os.Getenv("TMUX") != "" || os.Getenv("STY") != "",
	}
}

func isTTY(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// colorProfile picks the render profile. NO_COLOR and non-terminal output
// get Ascii; known true-color emulators get TrueColor even when COLORTERM
// is missing (common over ssh).
func colorProfile(t Terminal, interactive bool) termenv.Profile {
	if termenv.EnvNoColor() || !interactive {
		return termenv.Ascii
	}
	p := termenv.EnvColorProfile()
	if p == termenv.ANSI256 && t.SupportsTrueColor() {
		return termenv.TrueColor
	}
	return p
}
