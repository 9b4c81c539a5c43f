// Package layout places the gallery on screen. Split divides one axis of a
// Rect by constraints (header, body, footer) and Flow packs widget tiles of
// differing widths into rows that fit the body.
package layout

// Rect is a rectangular area in terminal cells.
type Rect struct {
	X, Y, Width, Height int
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the cell (px, py) lies inside r.
func (r Rect) Contains(px, py int) bool {
	return px >= r.X && px < r.X+r.Width && py >= r.Y && py < r.Y+r.Height
}

// Inner returns r shrunk by margin on every side, never negative.
func (r Rect) Inner(margin int) Rect {
	margin = max(margin, 0)
	return Rect{
		X:      r.X + margin,
		Y:      r.Y + margin,
		Width:  max(r.Width-2*margin, 0),
		Height: max(r.Height-2*margin, 0),
	}
}

// Direction is the axis a Split divides.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

// Constraint sizes one region of a Split.
type Constraint interface {
	constraint()
}

// Length is exactly Value cells.
type Length struct{ Value int }

// Percentage is Value percent (0-100) of the axis.
type Percentage struct{ Value int }

// Min is at least Value cells and shares surplus with Fill regions.
type Min struct{ Value int }

// Fill shares the remaining space by Weight; zero counts as one.
type Fill struct{ Weight int }

func (Length) constraint()     {}
func (Percentage) constraint() {}
func (Min) constraint()        {}
func (Fill) constraint()       {}

// Split divides area along dir. Fixed regions are allocated first, the rest
// goes to Min and Fill regions by weight. When fixed regions overflow the
// axis they are shrunk from the last one backwards.
func Split(area Rect, dir Direction, cs ...Constraint) []Rect {
	n := len(cs)
	if n == 0 {
		return nil
	}
	total := area.Width
	if dir == Vertical {
		total = area.Height
	}
	total = max(total, 0)

	sizes := make([]int, n)
	weights := make([]int, n)
	used, weightSum := 0, 0
	for i, c := range cs {
		switch v := c.(type) {
		case Length:
			sizes[i] = max(v.Value, 0)
		case Percentage:
			sizes[i] = total * min(max(v.Value, 0), 100) / 100
		case Min:
			sizes[i] = max(v.Value, 0)
			weights[i] = 1
		case Fill:
			weights[i] = max(v.Weight, 1)
		}
		used += sizes[i]
		weightSum += weights[i]
	}

	for i := n - 1; i >= 0 && used > total; i-- {
		cut := min(sizes[i], used-total)
		sizes[i] -= cut
		used -= cut
	}

	if surplus := total - used; surplus > 0 && weightSum > 0 {
		given, last := 0, -1
		for i, w := range weights {
			if w == 0 {
				continue
			}
			share := surplus * w / weightSum
			sizes[i] += share
			given += share
			last = i
		}
		sizes[last] += surplus - given
	}

	rects := make([]Rect, n)
	off := 0
	for i, s := range sizes {
		if dir == Vertical {
			rects[i] = Rect{X: area.X, Y: area.Y + off, Width: area.Width, Height: s}
		} else {
			rects[i] = Rect{X: area.X + off, Y: area.Y, Width: s, Height: area.Height}
		}
		off += s
	}
	return rects
}

// Flow packs tiles of the given widths left to right into rows no wider
// than width, with gap cells between neighbours. It returns the tile
// indexes of each row. A tile wider than width gets a row to itself.
func Flow(widths []int, width, gap int) [][]int {
	var rows [][]int
	var row []int
	used := 0
	for i, w := range widths {
		need := w
		if len(row) > 0 {
			need += gap
		}
		if len(row) > 0 && used+need > width {
			rows = append(rows, row)
			row, used, need = nil, 0, w
		}
		row = append(row, i)
		used += need
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}
