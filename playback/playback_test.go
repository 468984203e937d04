/*
NAME
  playback_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package playback

import (
	"bytes"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/ausocean/gazecomp/config"
	"github.com/ausocean/gazecomp/dct"
	"github.com/ausocean/gazecomp/motion"
	"github.com/ausocean/gazecomp/plane"
	"github.com/ausocean/gazecomp/render"
	"github.com/ausocean/utils/logging"
)

// fakeDisplay is a Display that never renders anything real; it just
// records presentations for the test to inspect.
type fakeDisplay struct {
	mu        sync.Mutex
	presented int
}

func (f *fakeDisplay) Present(img image.Image, header string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presented++
	return nil
}

func (f *fakeDisplay) GazePoint() (int, int, bool) { return 0, 0, false }

func testDriver(t *testing.T, numFrames uint) *Driver {
	t.Helper()
	cfg := config.Config{
		FrameWidth:  16,
		FrameHeight: 16,
		FGQuant:     4,
		BGQuant:     16,
		Logger:      logging.New(logging.Debug, &bytes.Buffer{}, true),
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	cfg.NumFrames = numFrames

	store := plane.New(cfg)
	engine := dct.New(cfg)
	renderer := render.New(cfg, store, engine)

	masks := make([][][]motion.Macroblock, numFrames)
	for i := range masks {
		masks[i] = [][]motion.Macroblock{}
	}

	d := New(cfg, renderer, masks)
	d.tick = time.Millisecond
	return d
}

func TestTogglePauseHaltsAdvance(t *testing.T) {
	d := testDriver(t, 5)
	disp := &fakeDisplay{}

	if err := d.Start(disp); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	time.Sleep(20 * time.Millisecond)
	d.TogglePause()
	if !d.Paused() {
		t.Fatal("Paused() = false after TogglePause")
	}

	frame := d.CurrentFrame()
	time.Sleep(60 * time.Millisecond)
	if got := d.CurrentFrame(); got != frame {
		t.Errorf("CurrentFrame advanced while paused: %d -> %d", frame, got)
	}

	d.TogglePause()
	if d.Paused() {
		t.Fatal("Paused() = true after second TogglePause")
	}

	advanced := false
	for i := 0; i < 20; i++ {
		time.Sleep(10 * time.Millisecond)
		if d.CurrentFrame() != frame {
			advanced = true
			break
		}
	}
	if !advanced {
		t.Error("playback did not resume advancing after unpause")
	}
}

func TestPlaybackLoopsOverFrames(t *testing.T) {
	d := testDriver(t, 2)
	disp := &fakeDisplay{}

	if err := d.Start(disp); err != nil {
		t.Fatalf("Start: %v", err)
	}

	seen := map[uint]bool{}
	for i := 0; i < 50; i++ {
		seen[d.CurrentFrame()] = true
		time.Sleep(2 * time.Millisecond)
	}
	d.Stop()

	if !seen[0] || !seen[1] {
		t.Errorf("expected both frame indices 0 and 1 to be observed, got %v", seen)
	}
}

func TestStartTwiceIsNoop(t *testing.T) {
	d := testDriver(t, 1)
	disp := &fakeDisplay{}

	if err := d.Start(disp); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	defer d.Stop()

	if err := d.Start(disp); err != nil {
		t.Fatalf("second Start: %v", err)
	}
}

func TestStartRejectsZeroFrames(t *testing.T) {
	d := testDriver(t, 0)
	disp := &fakeDisplay{}

	if err := d.Start(disp); err == nil {
		t.Fatal("expected error starting playback with zero frames")
	}
}
