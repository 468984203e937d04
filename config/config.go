/*
NAME
  config.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration settings for gazecomp, the
// foreground/background-aware video compression simulator.
package config

import (
	"fmt"

	"github.com/ausocean/utils/logging"
)

// Channel enumerates the four planes held by the plane store. Ordering is
// load-bearing: it is the same order storage offsets are computed in.
type Channel int

const (
	R Channel = iota
	G
	B
	Y
)

// Index returns the storage offset of the channel.
func (c Channel) Index() int { return int(c) }

// Default field values, applied by Validate when a field is left at its
// zero value.
const (
	DefaultMacroblockSize = 16
	DefaultDCTBlockSize   = 8
	DefaultSearchParam    = 16
	DefaultGazeSize       = 64
)

// Config holds the parameters of a gazecomp video session. A Config must be
// constructed and validated before being passed to the loader.
type Config struct {
	// FrameWidth and FrameHeight are the unpadded input frame dimensions.
	FrameWidth  uint
	FrameHeight uint

	// MacroblockSize is the side length of a motion-estimation/classification
	// macroblock (M in the spec).
	MacroblockSize uint

	// DCTBlockSize is the side length of a DCT transform block (S in the spec).
	DCTBlockSize uint

	// SearchParam is the initial step size of the logarithmic motion search.
	// Must be a power of two >= 2.
	SearchParam uint

	// GazeSize is the side length of the gaze window in pixels.
	GazeSize uint

	// FGQuant and BGQuant are the foreground/background quantizers. Both
	// must be >= 1.
	FGQuant uint
	BGQuant uint

	// GazeEnabled turns on the interactive gaze window during playback.
	GazeEnabled bool

	// InputPath is the raw planar RGB input file.
	InputPath string

	// Logger holds the logger used across every pipeline stage. This must be
	// set before Validate is called.
	Logger logging.Logger

	// Derived fields, computed by Validate. Not set by callers directly.
	FrameWidthPadded  uint
	FrameHeightPadded uint
	FrameSizePadded   uint
	NumFrames         uint
}

// LogInvalidField logs that a field was unset or invalid and that a default
// is being substituted, matching the teacher's per-field defaulting idiom.
func (c *Config) LogInvalidField(name string, def interface{}) {
	if c.Logger != nil {
		c.Logger.Info(name+" bad or unset, defaulting", name, def)
	}
}

// Validate defaults unset fields, checks hard invariants, and computes the
// derived padded-size fields. It does not touch NumFrames, which depends on
// the input file's size and is set by the loader.
func (c *Config) Validate() error {
	if c.Logger == nil {
		return fmt.Errorf("config: Logger must be set")
	}

	if c.FrameWidth == 0 || c.FrameHeight == 0 {
		return fmt.Errorf("config: FrameWidth and FrameHeight must be positive")
	}

	if c.MacroblockSize == 0 {
		c.LogInvalidField("MacroblockSize", DefaultMacroblockSize)
		c.MacroblockSize = DefaultMacroblockSize
	}

	if c.DCTBlockSize == 0 {
		c.LogInvalidField("DCTBlockSize", DefaultDCTBlockSize)
		c.DCTBlockSize = DefaultDCTBlockSize
	}

	if c.SearchParam == 0 {
		c.LogInvalidField("SearchParam", DefaultSearchParam)
		c.SearchParam = DefaultSearchParam
	}
	if !isPowerOfTwo(c.SearchParam) || c.SearchParam < 2 {
		return fmt.Errorf("config: SearchParam must be a power of two >= 2, got %d", c.SearchParam)
	}

	if c.GazeSize == 0 {
		c.LogInvalidField("GazeSize", DefaultGazeSize)
		c.GazeSize = DefaultGazeSize
	}

	if c.FGQuant < 1 {
		return fmt.Errorf("config: FGQuant must be >= 1, got %d", c.FGQuant)
	}
	if c.BGQuant < 1 {
		return fmt.Errorf("config: BGQuant must be >= 1, got %d", c.BGQuant)
	}

	c.FrameWidthPadded = roundUp(c.FrameWidth, c.MacroblockSize)
	c.FrameHeightPadded = roundUp(c.FrameHeight, c.MacroblockSize)
	c.FrameSizePadded = c.FrameWidthPadded * c.FrameHeightPadded

	return nil
}

// roundUp rounds n up to the nearest multiple of m.
func roundUp(n, m uint) uint {
	if n%m == 0 {
		return n
	}
	return (n/m + 1) * m
}

func isPowerOfTwo(n uint) bool {
	return n != 0 && n&(n-1) == 0
}
