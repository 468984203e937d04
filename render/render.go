/*
NAME
  render.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package render composes the DCT engine's cached coefficients with the
// current macroblock mask and gaze window to reconstruct a playback frame.
package render

import (
	"image"
	"image/color"

	"github.com/ausocean/gazecomp/config"
	"github.com/ausocean/gazecomp/dct"
	"github.com/ausocean/gazecomp/motion"
	"github.com/ausocean/gazecomp/plane"
)

// Gaze describes the current gaze window in frame pixel coordinates.
type Gaze struct {
	X, Y    int
	Enabled bool
}

// Renderer reconstructs frames from cached forward-DCT coefficients.
type Renderer struct {
	cfg     config.Config
	engine  *dct.Engine
	cache   [][][]dct.Block // [frame][dctRow][dctCol]
	dctRows int
	dctCols int
}

// New precomputes the forward DCT of every block of every frame in store
// and returns a Renderer ready for playback. This is the load-time caching
// step described in spec 4.E.
func New(cfg config.Config, store *plane.Store, engine *dct.Engine) *Renderer {
	s := uint(engine.Size())
	dctRows := int(cfg.FrameHeightPadded / s)
	dctCols := int(cfg.FrameWidthPadded / s)

	cfg.Logger.Debug("caching forward DCT coefficients", "frames", cfg.NumFrames)

	cache := make([][][]dct.Block, cfg.NumFrames)
	for fr := uint(0); fr < cfg.NumFrames; fr++ {
		frame := make([][]dct.Block, dctRows)
		for by := 0; by < dctRows; by++ {
			row := make([]dct.Block, dctCols)
			for bx := 0; bx < dctCols; bx++ {
				row[bx] = engine.Forward(store, fr, uint(by)*s, uint(bx)*s)
			}
			frame[by] = row
		}
		cache[fr] = frame
	}

	cfg.Logger.Info("forward DCT coefficients cached", "frames", cfg.NumFrames)

	return &Renderer{
		cfg:     cfg,
		engine:  engine,
		cache:   cache,
		dctRows: dctRows,
		dctCols: dctCols,
	}
}

// Render reconstructs frame fr, using grid for the foreground/background
// mask and gaze for the interactive gaze override. The returned image is
// cropped to the unpadded frame dimensions.
func (r *Renderer) Render(fr uint, grid [][]motion.Macroblock, gaze Gaze) *image.RGBA {
	s := r.engine.Size()
	m := int(r.cfg.MacroblockSize)
	gazeHalf := int(r.cfg.GazeSize) / 2
	w, h := int(r.cfg.FrameWidth), int(r.cfg.FrameHeight)

	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for by := 0; by < r.dctRows; by++ {
		for bx := 0; bx < r.dctCols; bx++ {
			r0, c0 := by*s, bx*s
			cx, cy := c0+s/2, r0+s/2

			q := r.quantizerFor(cx, cy, m, gazeHalf, grid, gaze)

			patch := r.engine.Inverse(r.cache[fr][by][bx], q)
			for y := 0; y < s; y++ {
				py := r0 + y
				if py >= h {
					continue
				}
				for x := 0; x < s; x++ {
					px := c0 + x
					if px >= w {
						continue
					}
					rgb := patch[y][x]
					img.Set(px, py, color.RGBA{rgb[0], rgb[1], rgb[2], 255})
				}
			}
		}
	}

	return img
}

// quantizerFor picks the quantizer for the DCT block centered at (cx, cy):
// 1 if the gaze window covers it, else fg/bg quant from the mask.
func (r *Renderer) quantizerFor(cx, cy, m, gazeHalf int, grid [][]motion.Macroblock, gaze Gaze) uint {
	if gaze.Enabled && absInt(cx-gaze.X) <= gazeHalf && absInt(cy-gaze.Y) <= gazeHalf {
		return 1
	}

	mbX, mbY := cx/m, cy/m
	if mbY >= 0 && mbY < len(grid) && mbX >= 0 && mbX < len(grid[0]) && grid[mbY][mbX].Foreground {
		return r.cfg.FGQuant
	}
	return r.cfg.BGQuant
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
