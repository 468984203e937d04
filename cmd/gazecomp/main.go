/*
NAME
  main.go

DESCRIPTION
  gazecomp is the CLI entrypoint for the foreground/background-aware
  video compression simulator. It loads a raw planar RGB file, runs the
  offline motion/classification/DCT pipeline, and plays the reconstructed
  video back through a gocv window with an interactive gaze override.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main is the gazecomp CLI.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/gazecomp/config"
	"github.com/ausocean/gazecomp/display"
	"github.com/ausocean/gazecomp/video"
	"github.com/ausocean/utils/logging"
)

// Default input resolution. The system operates at a fixed resolution and
// frame rate; this is the reference configuration from spec 5.
const (
	defaultFrameWidth  = 960
	defaultFrameHeight = 540
)

// Logging configuration, mirroring the teacher's cmd entrypoints.
const (
	logPath      = "gazecomp.log"
	logMaxSize   = 50 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = false
)

const usage = "usage: gazecomp <input.rgb> <fg_quant> <bg_quant> <gaze_on(0|1)>"

func main() {
	cfg, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	cfg.Logger = logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	v, err := video.Load(cfg)
	if err != nil {
		cfg.Logger.Error("load failed", "error", err.Error())
		fmt.Fprintln(os.Stderr, "gazecomp: load failed:", err)
		os.Exit(1)
	}

	driver := v.NewDriver()

	win := display.New("gazecomp", int(cfg.FrameWidth), int(cfg.FrameHeight), cfg.GazeEnabled, driver.TogglePause)
	defer win.Close()

	if err := driver.Start(win); err != nil {
		cfg.Logger.Error("playback failed to start", "error", err.Error())
		fmt.Fprintln(os.Stderr, "gazecomp: playback failed to start:", err)
		os.Exit(1)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	driver.Stop()
}

// parseArgs validates the four positional CLI arguments and builds a
// Config. FrameWidth/FrameHeight are fixed at the reference resolution;
// the input file's size determines the frame count.
func parseArgs(args []string) (config.Config, error) {
	if len(args) != 4 {
		return config.Config{}, fmt.Errorf("gazecomp: expected 4 arguments, got %d", len(args))
	}

	fgQuant, err := strconv.Atoi(args[1])
	if err != nil || fgQuant < 1 {
		return config.Config{}, fmt.Errorf("gazecomp: fg_quant must be an integer >= 1, got %q", args[1])
	}

	bgQuant, err := strconv.Atoi(args[2])
	if err != nil || bgQuant < 1 {
		return config.Config{}, fmt.Errorf("gazecomp: bg_quant must be an integer >= 1, got %q", args[2])
	}

	var gazeOn bool
	switch args[3] {
	case "1":
		gazeOn = true
	case "0":
		gazeOn = false
	default:
		return config.Config{}, fmt.Errorf("gazecomp: gaze_on must be 0 or 1, got %q", args[3])
	}

	return config.Config{
		FrameWidth:  defaultFrameWidth,
		FrameHeight: defaultFrameHeight,
		FGQuant:     uint(fgQuant),
		BGQuant:     uint(bgQuant),
		GazeEnabled: gazeOn,
		InputPath:   args[0],
	}, nil
}
