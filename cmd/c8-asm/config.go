package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// Config defines program configuration.
type Config struct {
	Includes []string // Include search paths.
	Input    string   // Input source file to build.
	Output   string   // Path to store output in.
	DumpAST  bool     // Print a human-readable dump of the unprocessed AST.
	DumpROM  bool     // Print a human-readable listing of the compiled program.
	Debug    bool     // Log at debug level.
	Quiet    bool     // Log errors only.
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	var c Config
	c.Output = "out.ch8"

	flag.Usage = func() {
		fmt.Printf("%s [options] <input source file>\n", os.Args[0])
		flag.PrintDefaults()
	}

	includes := flag.String("import", "", "Colon-separated list of include search paths.")
	flag.StringVar(&c.Output, "out", c.Output, "Output file. Leave empty to use stdout.")
	flag.BoolVar(&c.DumpAST, "dump-ast", c.DumpAST, "Print a human-readable version of the unprocessed AST.")
	flag.BoolVar(&c.DumpROM, "dump-rom", c.DumpROM, "Print a human-readable listing of the compiled program.")
	flag.BoolVar(&c.Debug, "debug", c.Debug, "Enable debug logging.")
	flag.BoolVar(&c.Quiet, "quiet", c.Quiet, "Only log errors.")
	version := flag.Bool("version", false, "Display version information.")
	flag.Parse()

	if *version {
		fmt.Println(Version())
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	if len(*includes) > 0 {
		c.Includes = filteredSplit(*includes, ":")
	}

	c.Input = flag.Arg(0)
	return &c
}

// filteredSplit splits value by sep and returns the resulting list, minus empty entries.
func filteredSplit(value, sep string) []string {
	var out []string
	for _, v := range strings.Split(value, sep) {
		if v = strings.TrimSpace(v); len(v) > 0 {
			out = append(out, v)
		}
	}
	return out
}
