/*
NAME
  video.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package video ties the core pipeline stages together: load, then per
// frame motion-estimate and classify, then cache the forward DCT, ready
// for the playback driver to consume. It mirrors the reset/setupPipeline
// staging of the teacher's revid package, logging Debug before and Info
// after each stage.
package video

import (
	"fmt"

	"github.com/ausocean/gazecomp/config"
	"github.com/ausocean/gazecomp/dct"
	"github.com/ausocean/gazecomp/loader"
	"github.com/ausocean/gazecomp/layer"
	"github.com/ausocean/gazecomp/motion"
	"github.com/ausocean/gazecomp/plane"
	"github.com/ausocean/gazecomp/playback"
	"github.com/ausocean/gazecomp/render"
)

// Video holds the fully loaded, classified, and DCT-cached state of one
// input file, ready to be handed to a playback.Driver.
type Video struct {
	Config   config.Config
	Store    *plane.Store
	Masks    [][][]motion.Macroblock // per-frame macroblock grid, Foreground set
	Renderer *render.Renderer
}

// Load runs the full offline pipeline described in spec 2: ingest raw
// planes (B), motion-estimate each frame against the previous one (C),
// classify foreground/background (D), and cache the forward DCT of every
// block of every frame (E). It returns an error without partial state on
// any load failure.
func Load(cfg config.Config) (*Video, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("video: invalid config: %w", err)
	}

	cfg.Logger.Debug("loading input planes")
	store, err := loader.Load(&cfg)
	if err != nil {
		return nil, fmt.Errorf("video: load failed: %w", err)
	}
	cfg.Logger.Info("input planes loaded", "frames", cfg.NumFrames)

	cfg.Logger.Debug("estimating motion and classifying layers")
	estimator := motion.New(store, cfg)
	masks := make([][][]motion.Macroblock, cfg.NumFrames)
	for fr := uint(0); fr < cfg.NumFrames; fr++ {
		grid := estimator.Estimate(fr)
		layer.Classify(grid)
		masks[fr] = grid
	}
	cfg.Logger.Info("motion estimation and classification complete")

	cfg.Logger.Debug("building DCT engine and caching coefficients")
	engine := dct.New(cfg)
	renderer := render.New(cfg, store, engine)
	cfg.Logger.Info("DCT cache ready")

	return &Video{
		Config:   cfg,
		Store:    store,
		Masks:    masks,
		Renderer: renderer,
	}, nil
}

// NewDriver returns a playback.Driver ready to present this video.
func (v *Video) NewDriver() *playback.Driver {
	return playback.New(v.Config, v.Renderer, v.Masks)
}
