/*
NAME
  dct_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package dct

import (
	"bytes"
	"testing"

	"github.com/ausocean/gazecomp/config"
	"github.com/ausocean/gazecomp/plane"
	"github.com/ausocean/utils/logging"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	c := config.Config{
		FrameWidth:  32,
		FrameHeight: 32,
		FGQuant:     1,
		BGQuant:     1,
		Logger:      logging.New(logging.Debug, &bytes.Buffer{}, true),
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	c.NumFrames = 1
	return c
}

func TestForwardInverseRoundTripQ1(t *testing.T) {
	cfg := testConfig(t)
	store := plane.New(cfg)
	e := New(cfg)

	// A non-trivial gradient block so the transform has real content to
	// reconstruct, not a flat DC-only block.
	for row := uint(0); row < uint(e.Size()); row++ {
		r := store.Row(0, config.R, row)
		g := store.Row(0, config.G, row)
		bl := store.Row(0, config.B, row)
		for col := uint(0); col < uint(e.Size()); col++ {
			r[col] = byte(10 + row*7 + col*3)
			g[col] = byte(200 - row*5 - col*2)
			bl[col] = byte(row * col % 256)
		}
	}

	block := e.Forward(store, 0, 0, 0)
	patch := e.Inverse(block, 1)

	for row := uint(0); row < uint(e.Size()); row++ {
		for col := uint(0); col < uint(e.Size()); col++ {
			want := [3]byte{
				store.Get(0, config.R, row, col),
				store.Get(0, config.G, row, col),
				store.Get(0, config.B, row, col),
			}
			got := patch[row][col]
			for ch := 0; ch < 3; ch++ {
				diff := int(got[ch]) - int(want[ch])
				if diff < 0 {
					diff = -diff
				}
				if diff > 1 {
					t.Fatalf("(%d,%d) ch %d = %d, want within 1 of %d", row, col, ch, got[ch], want[ch])
				}
			}
		}
	}
}

func TestQuantizeRoundHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		f    float64
		q    uint
		want float64
	}{
		{0, 4, 0},
		{2, 4, 4},   // 2/4 = 0.5 -> round away from zero -> 1 -> *4 = 4
		{-2, 4, -4}, // -0.5 -> -1 -> -4
		{1, 4, 0},   // 0.25 -> 0
		{10, 1, 10},
	}
	for _, c := range cases {
		if got := quantize(c.f, c.q); got != c.want {
			t.Errorf("quantize(%v, %d) = %v, want %v", c.f, c.q, got, c.want)
		}
	}
}

func TestClampTruncate(t *testing.T) {
	cases := []struct {
		v    float64
		want byte
	}{
		{-5, 0},
		{0, 0},
		{254.9, 254},
		{255, 255},
		{300, 255},
	}
	for _, c := range cases {
		if got := clampTruncate(c.v); got != c.want {
			t.Errorf("clampTruncate(%v) = %d, want %d", c.v, got, c.want)
		}
	}
}
