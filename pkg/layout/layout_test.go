package layout

import (
	"reflect"
	"testing"
)

func TestSplitVerticalHeaderBodyFooter(t *testing.T) {
	got := Split(Rect{Width: 80, Height: 24}, Vertical, Length{1}, Fill{1}, Length{2})
	want := []Rect{
		{X: 0, Y: 0, Width: 80, Height: 1},
		{X: 0, Y: 1, Width: 80, Height: 21},
		{X: 0, Y: 22, Width: 80, Height: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split = %+v, want %+v", got, want)
	}
}

func TestSplitFillWeights(t *testing.T) {
	got := Split(Rect{Width: 90, Height: 1}, Horizontal, Fill{1}, Fill{2})
	if got[0].Width != 30 || got[1].Width != 60 || got[1].X != 30 {
		t.Errorf("Split = %+v", got)
	}
}

func TestSplitPercentageAndMin(t *testing.T) {
	got := Split(Rect{Width: 100, Height: 1}, Horizontal, Percentage{25}, Min{10})
	if got[0].Width != 25 || got[1].Width != 75 {
		t.Errorf("Split = %+v", got)
	}
}

func TestSplitOverflowShrinksFromEnd(t *testing.T) {
	got := Split(Rect{Width: 10, Height: 3}, Vertical, Length{2}, Length{2}, Length{2})
	if got[0].Height != 2 || got[1].Height != 1 || got[2].Height != 0 {
		t.Errorf("Split = %+v", got)
	}
}

func TestSplitEmpty(t *testing.T) {
	if Split(Rect{Width: 10, Height: 10}, Vertical) != nil {
		t.Error("no constraints should give nil")
	}
	got := Split(Rect{}, Vertical, Fill{1}, Length{3})
	if got[0].Height != 0 || got[1].Height != 0 {
		t.Errorf("zero area = %+v", got)
	}
}

func TestFlow(t *testing.T) {
	tests := []struct {
		name   string
		widths []int
		width  int
		want   [][]int
	}{
		{"one row", []int{20, 20, 20}, 80, [][]int{{0, 1, 2}}},
		{"wraps", []int{30, 30, 30}, 70, [][]int{{0, 1}, {2}}},
		{"gap counts", []int{40, 40}, 80, [][]int{{0}, {1}}},
		{"too wide alone", []int{100, 10}, 50, [][]int{{0}, {1}}},
		{"none", nil, 80, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Flow(tt.widths, tt.width, 1); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Flow = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRect(t *testing.T) {
	r := Rect{X: 2, Y: 3, Width: 10, Height: 4}
	if !r.Contains(2, 3) || r.Contains(12, 3) || r.Contains(2, 7) {
		t.Error("Contains bounds wrong")
	}
	if in := r.Inner(1); in != (Rect{X: 3, Y: 4, Width: 8, Height: 2}) {
		t.Errorf("Inner = %+v", in)
	}
	if !r.Inner(5).Empty() {
		t.Error("oversized margin should give an empty rect")
	}
}
