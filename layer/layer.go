/*
NAME
  layer.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package layer classifies a frame's macroblocks into foreground and
// background, combining motion-vector deviation, SAD thresholds,
// morphological neighbor filtering, and dilation into a stable mask.
package layer

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/gazecomp/motion"
)

// Tunables, fixed per spec and not user-configurable.
const (
	sadLo       = 500
	sadHi       = 8000
	mvDiffBase  = 2.2
	mvDiffStep  = 0.33
	minFGBlocks = 7
	maxRuns     = 5

	cornerBGThresh = 2
	edgeBGThresh   = 3
	edgeFGThresh   = 1
	stdBGThresh    = 6
	stdFGThresh    = 4

	expandTarget = minFGBlocks * 3
)

// Classify sets the Foreground bit of every macroblock in grid. grid's
// DX/DY/SAD fields must already be populated (by motion.Estimator.Estimate).
func Classify(grid [][]motion.Macroblock) {
	rows := len(grid)
	if rows == 0 {
		return
	}
	cols := len(grid[0])
	n := rows * cols

	avgDX, avgDY := frameMotionAverage(grid)

	initialAssignment(grid, avgDX, avgDY)
	neighborFilter(grid)
	dilate(grid, n)
}

// frameMotionAverage computes the arithmetic mean of dx and dy across all
// macroblocks of the frame, using gonum/stat for the reduction.
func frameMotionAverage(grid [][]motion.Macroblock) (avgDX, avgDY float64) {
	var dxs, dys []float64
	for _, row := range grid {
		for _, mb := range row {
			dxs = append(dxs, float64(mb.DX))
			dys = append(dys, float64(mb.DY))
		}
	}
	if len(dxs) == 0 {
		return 0, 0
	}
	return stat.Mean(dxs, nil), stat.Mean(dys, nil)
}

// initialAssignment runs the retry loop of spec step 2: mark macroblocks
// foreground by SAD-band and motion-vector deviation, relaxing the
// deviation threshold each retry until MIN_FG_BLOCKS is reached or
// MAX_RUNS is exhausted.
func initialAssignment(grid [][]motion.Macroblock, avgDX, avgDY float64) {
	relax := 0.0
	for run := 0; run < maxRuns; run++ {
		fgCount := 0
		threshold := mvDiffBase - relax
		for _, row := range grid {
			for x := range row {
				mb := &row[x]
				sadOK := sadLo < mb.SAD && mb.SAD < sadHi
				mvDiff := absF(avgDX-float64(mb.DX)) + absF(avgDY-float64(mb.DY))
				mb.Foreground = sadOK && mvDiff > threshold
				if mb.Foreground {
					fgCount++
				}
			}
		}
		if fgCount >= minFGBlocks {
			break
		}
		relax += mvDiffStep
	}
}

// neighborFilter applies spec step 3: a single row-major, in-place pass
// that re-derives each macroblock's classification from the current
// background-neighbor count, which may itself include already-updated
// neighbors earlier in the pass. This ordering is intentional and must be
// preserved for bit-exact behavior.
func neighborFilter(grid [][]motion.Macroblock) {
	rows := len(grid)
	cols := len(grid[0])

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			bgNeighbors := countBGNeighbors(grid, rows, cols, x, y)
			corner := isCorner(x, y, cols, rows)
			edge := !corner && isEdge(x, y, cols, rows)

			mb := &grid[y][x]
			switch {
			case corner:
				mb.Foreground = bgNeighbors < cornerBGThresh
			case edge:
				if bgNeighbors >= edgeBGThresh {
					mb.Foreground = false
				} else if bgNeighbors <= edgeFGThresh {
					mb.Foreground = true
				}
				// else: retained.
			default:
				if bgNeighbors >= stdBGThresh {
					mb.Foreground = false
				} else if bgNeighbors <= stdFGThresh {
					mb.Foreground = true
				}
				// else: retained.
			}
		}
	}
}

// countBGNeighbors counts background macroblocks in the 8-neighborhood of
// (x, y). A neighbor outside the grid counts as not background.
func countBGNeighbors(grid [][]motion.Macroblock, rows, cols, x, y int) int {
	count := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= cols || ny < 0 || ny >= rows {
				continue
			}
			if !grid[ny][nx].Foreground {
				count++
			}
		}
	}
	return count
}

func isCorner(x, y, cols, rows int) bool {
	return (x == 0 || x == cols-1) && (y == 0 || y == rows-1)
}

func isEdge(x, y, cols, rows int) bool {
	return x == 0 || x == cols-1 || y == 0 || y == rows-1
}

// dilate runs spec step 4: one dilation pass if the foreground count is
// under a third of all macroblocks, then further passes while under
// EXPAND_TARGET. The conditional first pass sits outside the retry
// budget, so the combined stage can run up to MAX_RUNS+1 total passes.
func dilate(grid [][]motion.Macroblock, n int) {
	if countForeground(grid) < n/3 {
		dilatePass(grid)
	}

	for r := 0; countForeground(grid) < expandTarget && r < maxRuns; r++ {
		dilatePass(grid)
	}
}

// dilatePass produces a new mask where a cell is foreground iff it was
// foreground or any 4-neighbor was foreground. Double-buffered: it never
// reads a value it has itself written in this pass.
func dilatePass(grid [][]motion.Macroblock) {
	rows := len(grid)
	cols := len(grid[0])

	next := make([][]bool, rows)
	for y := 0; y < rows; y++ {
		next[y] = make([]bool, cols)
		for x := 0; x < cols; x++ {
			fg := grid[y][x].Foreground
			fg = fg || neighborForeground(grid, rows, cols, x, y-1)
			fg = fg || neighborForeground(grid, rows, cols, x, y+1)
			fg = fg || neighborForeground(grid, rows, cols, x-1, y)
			fg = fg || neighborForeground(grid, rows, cols, x+1, y)
			next[y][x] = fg
		}
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			grid[y][x].Foreground = next[y][x]
		}
	}
}

func neighborForeground(grid [][]motion.Macroblock, rows, cols, x, y int) bool {
	if x < 0 || x >= cols || y < 0 || y >= rows {
		return false
	}
	return grid[y][x].Foreground
}

func countForeground(grid [][]motion.Macroblock) int {
	n := 0
	for _, row := range grid {
		for _, mb := range row {
			if mb.Foreground {
				n++
			}
		}
	}
	return n
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
