/*
NAME
  motion.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package motion implements block-based motion estimation via
// logarithmic (three-step) search against the previous frame's luma plane.
package motion

import (
	"github.com/ausocean/gazecomp/config"
	"github.com/ausocean/gazecomp/plane"
)

// Macroblock holds the motion vector, SAD error, and (once the layer
// classifier has run) the foreground bit for one macroblock of one frame.
type Macroblock struct {
	DX         int16
	DY         int16
	SAD        int32
	Foreground bool
}

// Estimator performs logarithmic motion search over a plane.Store.
type Estimator struct {
	store *plane.Store
	cfg   config.Config

	mbCols uint
	mbRows uint
}

// New returns an Estimator for the given store and config. It defaults
// SearchParam via LogInvalidField if it is zero; it does not itself check
// that SearchParam is a power of two, which config.Validate enforces.
func New(store *plane.Store, cfg config.Config) *Estimator {
	if cfg.SearchParam == 0 {
		cfg.LogInvalidField("SearchParam", config.DefaultSearchParam)
		cfg.SearchParam = config.DefaultSearchParam
	}
	return &Estimator{
		store:  store,
		cfg:    cfg,
		mbCols: cfg.FrameWidthPadded / cfg.MacroblockSize,
		mbRows: cfg.FrameHeightPadded / cfg.MacroblockSize,
	}
}

// Cols and Rows return the macroblock grid dimensions.
func (e *Estimator) Cols() uint { return e.mbCols }
func (e *Estimator) Rows() uint { return e.mbRows }

// Estimate computes the macroblock grid for frame t. For t == 0 every
// macroblock is the zero value (dx=dy=sad=0), per spec.
func (e *Estimator) Estimate(t uint) [][]Macroblock {
	grid := make([][]Macroblock, e.mbRows)
	for y := range grid {
		grid[y] = make([]Macroblock, e.mbCols)
	}
	if t == 0 {
		return grid
	}

	m := e.cfg.MacroblockSize
	for mbY := uint(0); mbY < e.mbRows; mbY++ {
		for mbX := uint(0); mbX < e.mbCols; mbX++ {
			r0, c0 := mbY*m, mbX*m
			dr, dc, sad := e.search(t, r0, c0)
			grid[mbY][mbX] = Macroblock{
				DX:  int16(dc - int(c0)),
				DY:  int16(dr - int(r0)),
				SAD: int32(sad),
			}
		}
	}
	return grid
}

// search performs the three-step logarithmic search for the macroblock
// whose home origin in frame t is (r0, c0), returning the selected target
// origin and its SAD.
func (e *Estimator) search(t, r0, c0 uint) (bestR, bestC int, bestSAD int) {
	m := int(e.cfg.MacroblockSize)
	bestR, bestC = int(r0), int(c0)
	step := int(e.cfg.SearchParam)

	// bestSAD starts as the SAD at the home position; each step replaces it
	// with the SAD of the candidate that step selects. The center tie-break
	// below compares only against the best SAD seen within the same step.
	bestSAD = e.sad(t, r0, c0, uint(bestR), uint(bestC))

	for step > 1 {
		step /= 2

		var found bool
		var stepBestR, stepBestC, stepBestSAD int

		for i := -1; i <= 1; i++ {
			for j := -1; j <= 1; j++ {
				cr := bestR + i*step
				cc := bestC + j*step
				if !e.inBounds(cr, cc, m) {
					continue
				}
				s := e.sad(t, r0, c0, uint(cr), uint(cc))

				if !found {
					found = true
					stepBestR, stepBestC, stepBestSAD = cr, cc, s
					continue
				}

				if i == 0 && j == 0 {
					if s <= stepBestSAD {
						stepBestR, stepBestC, stepBestSAD = cr, cc, s
					}
				} else if s < stepBestSAD {
					stepBestR, stepBestC, stepBestSAD = cr, cc, s
				}
			}
		}

		if found {
			bestR, bestC, bestSAD = stepBestR, stepBestC, stepBestSAD
		}
	}

	return bestR, bestC, bestSAD
}

// inBounds reports whether an m x m block with top-left (r, c) lies
// entirely within the padded frame.
func (e *Estimator) inBounds(r, c, m int) bool {
	if r < 0 || c < 0 {
		return false
	}
	return uint(r+m) <= e.cfg.FrameHeightPadded && uint(c+m) <= e.cfg.FrameWidthPadded
}

// sad computes the sum of absolute differences between the home block at
// (r0, c0) in frame t and the target block at (tr, tc) in frame t-1, over
// the Y plane.
func (e *Estimator) sad(t, r0, c0, tr, tc uint) int {
	m := e.cfg.MacroblockSize
	sum := 0
	for y := uint(0); y < m; y++ {
		home := e.store.Row(t, config.Y, r0+y)[c0 : c0+m]
		target := e.store.Row(t-1, config.Y, tr+y)[tc : tc+m]
		for x := uint(0); x < m; x++ {
			d := int(home[x]) - int(target[x])
			if d < 0 {
				d = -d
			}
			sum += d
		}
	}
	return sum
}
