/*
NAME
  loader.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package loader reads a raw planar RGB video file into a plane.Store,
// deriving and blurring the luma (Y) plane for each frame.
package loader

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/ausocean/gazecomp/config"
	"github.com/ausocean/gazecomp/plane"
)

// bytesPerPlane is the size in bytes of one unpadded R, G, or B plane.
func bytesPerPlane(c config.Config) uint64 {
	return uint64(c.FrameWidth) * uint64(c.FrameHeight)
}

// Load opens the file at cfg.InputPath, derives cfg.NumFrames from its
// size, and returns a fully populated plane.Store. cfg is updated in place
// with NumFrames. cfg must have already passed Validate, except for
// NumFrames which this function sets.
func Load(cfg *config.Config) (*plane.Store, error) {
	cfg.Logger.Debug("opening input file", "path", cfg.InputPath)

	f, err := os.Open(cfg.InputPath)
	if err != nil {
		return nil, errors.Wrapf(err, "opening input file %s", cfg.InputPath)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "stat on input file %s", cfg.InputPath)
	}

	frameBytes := 3 * bytesPerPlane(*cfg)
	if frameBytes == 0 {
		return nil, errors.Errorf("loader: frame size is zero for %s", cfg.InputPath)
	}
	if info.Size()%int64(frameBytes) != 0 {
		return nil, errors.Errorf(
			"loader: %s size %d is not a multiple of one frame (%d bytes); partial frame at offset %d",
			cfg.InputPath, info.Size(), frameBytes, (info.Size()/int64(frameBytes))*int64(frameBytes))
	}

	cfg.NumFrames = uint(info.Size() / int64(frameBytes))
	if cfg.NumFrames == 0 {
		return nil, errors.Errorf("loader: %s contains zero frames", cfg.InputPath)
	}

	cfg.Logger.Info("input file opened", "frames", cfg.NumFrames, "size", info.Size())

	store := plane.New(*cfg)

	for fr := uint(0); fr < cfg.NumFrames; fr++ {
		cfg.Logger.Debug("loading frame", "frame", fr)
		for _, ch := range [3]config.Channel{config.R, config.G, config.B} {
			if err := readPlane(f, store, *cfg, fr, ch); err != nil {
				return nil, errors.Wrapf(err, "loading frame %d of %s", fr, cfg.InputPath)
			}
		}
		deriveY(store, *cfg, fr)
		blurY(store, *cfg, fr)
	}

	cfg.Logger.Info("input file loaded", "frames", cfg.NumFrames)
	return store, nil
}

// readPlane reads one full R, G, or B plane for frame fr from r, padding
// columns and rows by edge-replication as it goes.
func readPlane(r io.Reader, store *plane.Store, cfg config.Config, fr uint, ch config.Channel) error {
	w, wp := cfg.FrameWidth, cfg.FrameWidthPadded
	h, hp := cfg.FrameHeight, cfg.FrameHeightPadded

	for row := uint(0); row < h; row++ {
		dst := store.Row(fr, ch, row)
		if _, err := io.ReadFull(r, dst[:w]); err != nil {
			offset := (uint64(fr)*3+uint64(ch.Index()))*bytesPerPlane(cfg) + uint64(row)*uint64(w)
			return errors.Wrapf(err, "reading plane %d row %d at byte offset %d", ch.Index(), row, offset)
		}
		last := dst[w-1]
		for col := w; col < wp; col++ {
			dst[col] = last
		}
	}

	// Pad rows replicate the full padded width of the last real row.
	lastRow := append([]byte(nil), store.Row(fr, ch, h-1)...)
	for row := h; row < hp; row++ {
		copy(store.Row(fr, ch, row), lastRow)
	}

	return nil
}

// deriveY computes the luma plane for frame fr across the full padded area
// from the already-loaded R, G, B planes.
func deriveY(store *plane.Store, cfg config.Config, fr uint) {
	wp, hp := cfg.FrameWidthPadded, cfg.FrameHeightPadded
	for row := uint(0); row < hp; row++ {
		rr := store.Row(fr, config.R, row)
		gg := store.Row(fr, config.G, row)
		bb := store.Row(fr, config.B, row)
		for col := uint(0); col < wp; col++ {
			v := 0.299*float64(rr[col]) + 0.587*float64(gg[col]) + 0.114*float64(bb[col])
			store.Set(fr, config.Y, row, col, clampByte(v))
		}
	}
}

// blurY applies a single-pass 3x3 weighted box blur to the Y plane of
// frame fr. It reads from an unblurred snapshot and writes into the store,
// so the blur is non-destructive with respect to its own inputs.
func blurY(store *plane.Store, cfg config.Config, fr uint) {
	wp, hp := cfg.FrameWidthPadded, cfg.FrameHeightPadded

	snapshot := make([][]byte, hp)
	for row := uint(0); row < hp; row++ {
		snapshot[row] = append([]byte(nil), store.Row(fr, config.Y, row)...)
	}

	weights := [3][3]int{
		{1, 2, 1},
		{2, 4, 2},
		{1, 2, 1},
	}

	for row := uint(0); row < hp; row++ {
		for col := uint(0); col < wp; col++ {
			sum, total := 0, 0
			for dy := -1; dy <= 1; dy++ {
				ny := int(row) + dy
				if ny < 0 || ny >= int(hp) {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					nx := int(col) + dx
					if nx < 0 || nx >= int(wp) {
						continue
					}
					w := weights[dy+1][dx+1]
					sum += w * int(snapshot[ny][nx])
					total += w
				}
			}
			store.Set(fr, config.Y, row, col, byte(sum/total))
		}
	}
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
