/*
NAME
  display.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package display provides a reference implementation of the core's
// Display collaborator (spec 6) using a real gocv window: IMShow for
// presentation, PutText for the status header, and a mouse callback for
// gaze-point polling. The core package never imports this one; cmd wires
// it in as the concrete presentation layer.
package display

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"gocv.io/x/gocv"
)

var headerColor = color.RGBA{R: 255, G: 255, B: 0, A: 0}

// pauseKey is the keystroke that toggles pause, polled via WaitKey.
const pauseKey = ' '

// Window is a gocv-backed Display. It owns one OS window and tracks the
// most recent mouse position reported by gocv's mouse callback.
type Window struct {
	win    *gocv.Window
	width  int
	height int
	gaze   bool

	mu       sync.Mutex
	mouseX   int
	mouseY   int

	togglePause func()
}

// New opens a window titled title for a video of the given unpadded frame
// dimensions. togglePause is invoked when the pause key is pressed; it is
// typically playback.Driver.TogglePause.
func New(title string, width, height int, gazeEnabled bool, togglePause func()) *Window {
	w := &Window{
		win:         gocv.NewWindow(title),
		width:       width,
		height:      height,
		gaze:        gazeEnabled,
		togglePause: togglePause,
	}
	w.win.SetMouseCallback(w.onMouse)
	return w
}

// onMouse records the latest mouse position reported by gocv.
func (w *Window) onMouse(event int, x int, y int, flags int, userdata interface{}) {
	w.mu.Lock()
	w.mouseX, w.mouseY = x, y
	w.mu.Unlock()
}

// Present implements playback.Display. It draws header as overlay text
// and shows img in the window, then polls for the pause keystroke.
func (w *Window) Present(img image.Image, header string) error {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("display: converting frame to mat: %w", err)
	}
	defer mat.Close()

	gocv.PutText(&mat, header, image.Pt(8, 20), gocv.FontHersheyPlain, 1.2, headerColor, 1)
	w.win.IMShow(mat)

	if key := w.win.WaitKey(1); key == pauseKey && w.togglePause != nil {
		w.togglePause()
	}
	return nil
}

// GazePoint implements playback.Display, returning the last known mouse
// position clamped into frame coordinates.
func (w *Window) GazePoint() (x, y int, enabled bool) {
	w.mu.Lock()
	mx, my := w.mouseX, w.mouseY
	w.mu.Unlock()
	return clamp(mx, 0, w.width-1), clamp(my, 0, w.height-1), w.gaze
}

// Close releases the underlying gocv window.
func (w *Window) Close() error {
	return w.win.Close()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
