package viz

import (
	"strings"
	"testing"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 4)

	c.Set(0, 0)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1 set, got %x", c.Grid[0][0])
	}

	c.Set(1, 3)
	if c.Grid[0][0]&0x80 == 0 {
		t.Errorf("expected dot 8 set, got %x", c.Grid[0][0])
	}
}

func TestCanvasSetOutOfBounds(t *testing.T) {
	c := NewCanvas(2, 2)
	// Must not panic.
	c.Set(-1, 0)
	c.Set(0, -5)
	c.Set(100, 100)
	c.Unset(-1, -1)
	c.Unset(100, 0)
}

func TestCanvasUnset(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(0, 0)
	c.Unset(0, 0)
	if c.Grid[0][0] != 0x2800 {
		t.Errorf("expected empty cell after unset, got %x", c.Grid[0][0])
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(3, 3)
	c.Set(1, 1)
	c.Set(4, 8)
	c.Clear()
	for i := range c.Grid {
		for j := range c.Grid[i] {
			if c.Grid[i][j] != 0x2800 {
				t.Fatalf("cell (%d,%d) not cleared: %x", i, j, c.Grid[i][j])
			}
		}
	}
}

func TestDrawLineEndpoints(t *testing.T) {
	c := NewCanvas(10, 10)
	c.DrawLine(0, 0, 15, 30)

	if c.Grid[0][0] == 0x2800 {
		t.Error("line start not set")
	}
	if c.Grid[30/4][15/2] == 0x2800 {
		t.Error("line end not set")
	}
}

func TestFillCircle(t *testing.T) {
	c := NewCanvas(20, 20)
	c.FillCircle(20, 40, 8)

	// Center and the four cardinal extremes must be lit.
	points := [][2]int{
		{20, 40}, {28, 40}, {12, 40}, {20, 48}, {20, 32},
	}
	for _, pt := range points {
		col, row := pt[0]/2, pt[1]/4
		if c.Grid[row][col] == 0x2800 {
			t.Errorf("pixel (%d,%d) not set inside circle", pt[0], pt[1])
		}
	}

	// Well outside the radius stays dark.
	if c.Grid[40/4][(20+12)/2] != 0x2800 {
		t.Error("pixel beyond the circle edge was set")
	}
}

func TestFillCircleDegenerate(t *testing.T) {
	c := NewCanvas(4, 4)
	c.FillCircle(2, 2, 0)
	if c.Grid[0][1] == 0x2800 {
		t.Error("zero radius should still mark the center")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	out := c.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	for _, line := range lines {
		if len([]rune(line)) != 3 {
			t.Errorf("expected 3 cells per row, got %d", len([]rune(line)))
		}
	}
}
