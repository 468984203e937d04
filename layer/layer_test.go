/*
NAME
  layer_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package layer

import (
	"testing"

	"github.com/ausocean/gazecomp/motion"
)

// grid builds a rows x cols grid of background macroblocks.
func grid(rows, cols int) [][]motion.Macroblock {
	g := make([][]motion.Macroblock, rows)
	for y := range g {
		g[y] = make([]motion.Macroblock, cols)
	}
	return g
}

func TestIsCornerAndIsEdge(t *testing.T) {
	const cols, rows = 4, 3
	cases := []struct {
		x, y         int
		wantCorner   bool
		wantEdgeOnly bool
	}{
		{0, 0, true, false},
		{cols - 1, 0, true, false},
		{0, rows - 1, true, false},
		{cols - 1, rows - 1, true, false},
		{1, 0, false, true},
		{0, 1, false, true},
		{1, 1, false, false},
	}
	for _, c := range cases {
		if got := isCorner(c.x, c.y, cols, rows); got != c.wantCorner {
			t.Errorf("isCorner(%d,%d) = %v, want %v", c.x, c.y, got, c.wantCorner)
		}
		edgeOnly := !isCorner(c.x, c.y, cols, rows) && isEdge(c.x, c.y, cols, rows)
		if edgeOnly != c.wantEdgeOnly {
			t.Errorf("edge-only(%d,%d) = %v, want %v", c.x, c.y, edgeOnly, c.wantEdgeOnly)
		}
	}
}

func TestCountBGNeighborsOutOfBoundsNotBackground(t *testing.T) {
	g := grid(2, 2)
	// All background. A corner cell has only 3 in-grid neighbors, all
	// background, so its count must be 3, not 8.
	if got := countBGNeighbors(g, 2, 2, 0, 0); got != 3 {
		t.Errorf("countBGNeighbors corner = %d, want 3", got)
	}
}

func TestCountBGNeighborsExcludesForeground(t *testing.T) {
	g := grid(3, 3)
	g[0][1].Foreground = true
	g[1][0].Foreground = true
	// Center (1,1) has 8 neighbors, 2 of which are foreground.
	if got := countBGNeighbors(g, 3, 3, 1, 1); got != 6 {
		t.Errorf("countBGNeighbors center = %d, want 6", got)
	}
}

func TestNeighborFilterCornerRule(t *testing.T) {
	g := grid(3, 3)
	// Corner (0,0)'s only in-grid neighbors are (1,0) and (0,1) and (1,1).
	// Mark all three background-neutral (false): bgNeighbors = 3 >=
	// cornerBGThresh(2), so corner should end up background.
	neighborFilter(g)
	if g[0][0].Foreground {
		t.Errorf("corner with %d bg neighbors should be background", cornerBGThresh+1)
	}

	g2 := grid(3, 3)
	g2[0][1].Foreground = true
	g2[1][0].Foreground = true
	g2[1][1].Foreground = true
	// Now corner (0,0) has 0 bg neighbors (< cornerBGThresh), so it
	// should become foreground.
	neighborFilter(g2)
	if !g2[0][0].Foreground {
		t.Error("corner with 0 bg neighbors should become foreground")
	}
}

func TestDilatePassExpandsToFourNeighbors(t *testing.T) {
	g := grid(3, 3)
	g[1][1].Foreground = true

	dilatePass(g)

	want := map[[2]int]bool{
		{1, 1}: true, {0, 1}: true, {2, 1}: true, {1, 0}: true, {1, 2}: true,
		{0, 0}: false, {2, 2}: false, {0, 2}: false, {2, 0}: false,
	}
	for pos, wantFG := range want {
		x, y := pos[0], pos[1]
		if got := g[y][x].Foreground; got != wantFG {
			t.Errorf("(%d,%d) foreground = %v, want %v", x, y, got, wantFG)
		}
	}
}

func TestClassifyForegroundCountWithinBounds(t *testing.T) {
	const rows, cols = 6, 6
	g := grid(rows, cols)
	// A block of macroblocks with a SAD inside the foreground band and a
	// motion vector far from the rest of a mostly-static frame.
	for y := 2; y <= 3; y++ {
		for x := 2; x <= 3; x++ {
			g[y][x].SAD = 2000
			g[y][x].DX = 20
		}
	}

	Classify(g)

	total := rows * cols
	fg := countForeground(g)
	if fg < 0 || fg > total {
		t.Fatalf("foreground count %d out of bounds [0,%d]", fg, total)
	}
	// The deviating block is a strong foreground candidate; with
	// dilation it should not end up empty.
	if fg == 0 {
		t.Error("expected at least one foreground macroblock after Classify")
	}
}

func TestClassifyEmptyGrid(t *testing.T) {
	// Must not panic on a degenerate (zero macroblock) grid.
	Classify(nil)
}
