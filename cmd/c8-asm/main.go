// Command c8-asm assembles CHIP-8 sources into a ROM image.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/chip8/asm"
	"github.com/hexaflex/chip8/internal/config"
	"github.com/hexaflex/chip8/rom"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	cfg := parseArgs()
	logger := config.CreateLogger(cfg.Debug, cfg.Quiet)

	if err := run(cfg, logger); err != nil {
		logger.Fatal(err.Error())
	}
}

func run(c *Config, logger *log.Logger) error {
	switch {
	case c.DumpAST:
		return dumpAST(c)
	case c.DumpROM:
		return dumpROM(c)
	default:
		return buildROM(c, logger)
	}
}

// dumpROM builds the program and writes a listing of it to the requested output.
func dumpROM(c *Config) error {
	program, err := asm.Build(c.Input, c.Includes)
	if err != nil {
		return err
	}

	w, closer, err := makeWriter(c.Output)
	if err != nil {
		return err
	}
	defer closer()

	return rom.Dump(w, program)
}

// dumpAST loads the source AST and writes a human readable version of it to the
// requested output.
func dumpAST(c *Config) error {
	ast, err := asm.BuildAST(c.Input, c.Includes)
	if err != nil {
		return err
	}

	w, closer, err := makeWriter(c.Output)
	if err != nil {
		return err
	}
	defer closer()

	_, err = fmt.Fprint(w, ast)
	return errors.Wrapf(err, "write ast")
}

// buildROM builds the program and writes it to the requested output location.
func buildROM(c *Config, logger *log.Logger) error {
	program, err := asm.Build(c.Input, c.Includes)
	if err != nil {
		return err
	}

	if c.Output == "" {
		return rom.Write(os.Stdout, program)
	}

	if err := makeDir(c.Output); err != nil {
		return err
	}

	if err := rom.Save(c.Output, program); err != nil {
		return err
	}

	logger.Info("Program assembled",
		log.String("input", c.Input),
		log.String("output", c.Output),
		log.Int("size", len(program)))
	return nil
}

// makeWriter creates an output writer and a cleanup function for it.
// An empty file name selects stdout.
func makeWriter(file string) (io.Writer, func(), error) {
	if file == "" {
		return os.Stdout, func() {}, nil
	}

	if err := makeDir(file); err != nil {
		return nil, nil, err
	}

	fd, err := os.Create(file)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "create output")
	}

	return fd, func() { _ = fd.Close() }, nil
}

// makeDir ensures the directory of the given file exists.
func makeDir(file string) error {
	dir, _ := filepath.Split(file)
	if dir == "" {
		return nil
	}
	return errors.Wrapf(os.MkdirAll(dir, 0o755), "create output directory")
}
