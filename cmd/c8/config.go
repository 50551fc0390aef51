package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// Config defines program configuration.
type Config struct {
	ROM              string // Path to the ROM image to load.
	Scale            int    // Window pixels per display pixel.
	Fullscreen       bool   // Start in fullscreen mode?
	Clock            int    // Instructions executed per second.
	Seed             int64  // Random number generator seed.
	TickWhileWaiting bool   // Keep the timers running while waiting for a key?
	Debug            bool   // Log at debug level.
	Quiet            bool   // Log errors only.
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	var c Config
	c.Scale = 10
	c.Clock = 700
	c.Seed = time.Now().UnixNano()
	c.TickWhileWaiting = true

	flag.Usage = func() {
		fmt.Printf("%s [options] [rom file]\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.StringVar(&c.ROM, "rom", c.ROM, "ROM image to run.")
	flag.IntVar(&c.Scale, "scale", c.Scale, "Pixel scale factor for the window.")
	flag.BoolVar(&c.Fullscreen, "fullscreen", c.Fullscreen, "Run the display in fullscreen or windowed mode.")
	flag.IntVar(&c.Clock, "clock", c.Clock, "CPU frequency in instructions per second.")
	flag.Int64Var(&c.Seed, "seed", c.Seed, "Seed for the random number generator.")
	flag.BoolVar(&c.TickWhileWaiting, "tick-while-waiting", c.TickWhileWaiting, "Keep the timers counting down while waiting for a key.")
	flag.BoolVar(&c.Debug, "debug", c.Debug, "Enable debug logging.")
	flag.BoolVar(&c.Quiet, "quiet", c.Quiet, "Only log errors.")

	version := flag.Bool("version", false, "Display version information.")
	flag.Parse()

	if *version {
		fmt.Println(Version())
		os.Exit(0)
	}

	if c.ROM == "" && flag.NArg() > 0 {
		c.ROM = flag.Arg(0)
	}

	if c.ROM == "" || c.Scale < 1 || c.Clock < 1 {
		flag.Usage()
		os.Exit(1)
	}

	return &c
}
