/*
NAME
  plane.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package plane implements the plane store: the padded RGB+Y byte planes
// for every frame of a loaded video, addressed by (frame, channel, row,
// col).
package plane

import "github.com/ausocean/gazecomp/config"

// numChannels is the number of planes stored per frame: R, G, B, Y.
const numChannels = 4

// Store owns a single contiguous byte buffer holding the padded RGB+Y
// planes for every frame of a video. It is constructed once by the loader
// and never mutated afterwards.
type Store struct {
	buf             []byte
	widthPadded     uint
	heightPadded    uint
	frameSizePadded uint
	numFrames       uint
}

// New allocates a Store sized for cfg.NumFrames frames. cfg must already
// have its derived fields populated (i.e. Validate has been called and
// NumFrames set).
func New(cfg config.Config) *Store {
	return &Store{
		buf:             make([]byte, uint64(cfg.NumFrames)*uint64(numChannels)*uint64(cfg.FrameSizePadded)),
		widthPadded:     cfg.FrameWidthPadded,
		heightPadded:    cfg.FrameHeightPadded,
		frameSizePadded: cfg.FrameSizePadded,
		numFrames:       cfg.NumFrames,
	}
}

// NumFrames returns the number of frames held by the store.
func (s *Store) NumFrames() uint { return s.numFrames }

// WidthPadded and HeightPadded return the padded frame dimensions.
func (s *Store) WidthPadded() uint  { return s.widthPadded }
func (s *Store) HeightPadded() uint { return s.heightPadded }

// offset computes the index into buf for (frame, channel, row, col). Out of
// range coordinates are a programmer error and are not checked; callers are
// responsible for bounds.
func (s *Store) offset(frame uint, channel config.Channel, row, col uint) uint64 {
	f, c, r, co := uint64(frame), uint64(channel.Index()), uint64(row), uint64(col)
	w, h := uint64(s.widthPadded), uint64(s.heightPadded)
	return ((f*numChannels+c)*h + r) * w + co
}

// Get returns the byte at (frame, channel, row, col).
func (s *Store) Get(frame uint, channel config.Channel, row, col uint) byte {
	return s.buf[s.offset(frame, channel, row, col)]
}

// Set writes the byte at (frame, channel, row, col).
func (s *Store) Set(frame uint, channel config.Channel, row, col uint, v byte) {
	s.buf[s.offset(frame, channel, row, col)] = v
}

// Row returns a mutable slice over the widthPadded bytes of one row of one
// channel of one frame, allowing bulk row copies without per-pixel calls.
func (s *Store) Row(frame uint, channel config.Channel, row uint) []byte {
	start := s.offset(frame, channel, row, 0)
	return s.buf[start : start+uint64(s.widthPadded)]
}
