/*
NAME
  playback.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package playback implements the playback driver: it advances the frame
// index, honors pause, loops continuously, and delegates rendering to
// render.Renderer and presentation to an external Display.
package playback

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ausocean/gazecomp/config"
	"github.com/ausocean/gazecomp/motion"
	"github.com/ausocean/gazecomp/render"
)

// pauseSleep is the polling interval while paused.
const pauseSleep = 50 * time.Millisecond

// defaultTick is the pacing delay between frames during playback. The
// spec leaves this implementation-defined.
const defaultTick = 33 * time.Millisecond

// Display is the external presentation collaborator the driver consumes.
// It owns the window, the image widget, and mouse-position polling; the
// driver and render.Renderer know nothing about how frames are displayed.
type Display interface {
	// Present shows img with the given status header string.
	Present(img image.Image, header string) error

	// GazePoint returns the current pointer position mapped into frame
	// coordinates, and whether gaze is enabled.
	GazePoint() (x, y int, enabled bool)
}

// Driver advances playback of a loaded video. paused is the only mutable
// datum shared with the Display; it is a single-writer/single-reader
// atomic cell, per spec 5 ("a single memory fence / atomic boolean is
// sufficient — no lock is required").
type Driver struct {
	cfg       config.Config
	renderer  *render.Renderer
	masks     [][][]motion.Macroblock // per-frame macroblock grid with Foreground set
	numFrames uint
	tick      time.Duration

	paused  atomic.Bool
	frameAt atomic.Uint32

	running bool
	wg      sync.WaitGroup
	stop    chan struct{}
}

// New returns a Driver for a fully loaded and classified video. masks[i]
// is the macroblock grid for frame i, as produced by motion.Estimator and
// layer.Classify.
func New(cfg config.Config, renderer *render.Renderer, masks [][][]motion.Macroblock) *Driver {
	return &Driver{
		cfg:       cfg,
		renderer:  renderer,
		masks:     masks,
		numFrames: uint(len(masks)),
		tick:      defaultTick,
	}
}

// Running reports whether the driver's playback loop is active.
func (d *Driver) Running() bool { return d.running }

// CurrentFrame returns the frame index most recently presented.
func (d *Driver) CurrentFrame() uint { return uint(d.frameAt.Load()) }

// TogglePause flips the paused flag. It is callable from the Display in
// response to user action, and is the only datum the Display writes.
func (d *Driver) TogglePause() {
	d.paused.Store(!d.paused.Load())
}

// Paused reports the current pause state.
func (d *Driver) Paused() bool { return d.paused.Load() }

// Start begins the playback loop against display, running it on its own
// goroutine. Call Stop to terminate it.
func (d *Driver) Start(display Display) error {
	if d.running {
		d.cfg.Logger.Warning("start called, but playback already running")
		return nil
	}
	if d.numFrames == 0 {
		return fmt.Errorf("playback: no frames to play")
	}

	d.cfg.Logger.Debug("starting playback loop")
	d.stop = make(chan struct{})
	d.running = true
	d.wg.Add(1)
	go d.run(display)
	d.cfg.Logger.Info("playback loop started")
	return nil
}

// Stop signals the playback loop to terminate and waits for it to exit.
func (d *Driver) Stop() {
	if !d.running {
		d.cfg.Logger.Warning("stop called but playback isn't running")
		return
	}
	d.cfg.Logger.Debug("stopping playback loop")
	close(d.stop)
	d.wg.Wait()
	d.running = false
	d.cfg.Logger.Info("playback loop stopped")
}

// run is the driver's main tick loop, per spec 4.G.
func (d *Driver) run(display Display) {
	defer d.wg.Done()

	idx := uint(0)
	for {
		select {
		case <-d.stop:
			return
		default:
		}

		for d.paused.Load() {
			select {
			case <-d.stop:
				return
			case <-time.After(pauseSleep):
			}
		}

		gx, gy, enabled := display.GazePoint()
		img := d.renderer.Render(idx, d.masks[idx], render.Gaze{X: gx, Y: gy, Enabled: enabled})

		header := fmt.Sprintf("FG Quant: %d  BG Quant: %d  Gaze On: %t  Frame: %d/%d",
			d.cfg.FGQuant, d.cfg.BGQuant, enabled, idx+1, d.numFrames)

		if err := display.Present(img, header); err != nil {
			d.cfg.Logger.Error("display present failed", "error", err.Error())
		}

		d.frameAt.Store(uint32(idx))
		idx = (idx + 1) % d.numFrames

		select {
		case <-d.stop:
			return
		case <-time.After(d.tick):
		}
	}
}
