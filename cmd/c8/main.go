// Command c8 runs a CHIP-8 program in a window.
package main

import (
	"runtime"

	"github.com/retroenv/retrogolib/app"

	"github.com/hexaflex/chip8/internal/config"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func init() {
	runtime.LockOSThread()
}

func main() {
	ctx := app.Context()
	cfg := parseArgs()
	logger := config.CreateLogger(cfg.Debug, cfg.Quiet)

	if err := NewApp(cfg, logger).Run(ctx); err != nil {
		logger.Fatal(err.Error())
	}
}
