package terminal

import (
	"os"
	"strconv"

	"github.com/charmbracelet/x/term"
)

// Size is a terminal size in character cells.
type Size struct {
	Cols int
	Rows int
}

// GetSize returns the terminal size, trying stdout, then stderr, then
// COLUMNS/LINES, then 80x24.
func GetSize() Size {
	for _, f := range []*os.File{os.Stdout, os.Stderr} {
		if s, ok := sizeOf(f); ok {
			return s
		}
	}
	return sizeFromEnv()
}

func sizeOf(f *os.File) (Size, bool) {
	cols, rows, err := term.GetSize(f.Fd())
	if err != nil || cols <= 0 || rows <= 0 {
		return Size{}, false
	}
	return Size{Cols: cols, Rows: rows}, true
}

func sizeFromEnv() Size {
	return Size{Cols: envInt("COLUMNS", 80), Rows: envInt("LINES", 24)}
}

// envInt reads a positive integer from name, or returns fallback.
func envInt(name string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(name))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
