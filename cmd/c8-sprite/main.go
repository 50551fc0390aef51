// Command c8-sprite converts an image into sprite data for the assembler.
package main

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/internal/config"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

// These define pixel dimensions for sprites.
const (
	SpriteWidth     = 8
	MaxSpriteHeight = 15
)

func main() {
	cfg := parseArgs()
	logger := config.CreateLogger(false, false)

	if err := run(cfg); err != nil {
		logger.Fatal(err.Error())
	}
}

func run(c *Config) error {
	img, err := loadImage(c.Input, c.Height)
	if err != nil {
		return err
	}

	if c.Output == "" {
		return translate(os.Stdout, img, c.Label, c.Height)
	}

	fd, err := os.Create(c.Output)
	if err != nil {
		return errors.Wrapf(err, "create output")
	}
	defer fd.Close()

	return translate(fd, img, c.Label, c.Height)
}

// translate reads sprite data from the given image and writes it as d8
// directives. Sprites are read left to right, top to bottom.
func translate(w io.Writer, img image.Image, label string, height int) error {
	r := img.Bounds()
	cols := r.Dx() / SpriteWidth
	rows := r.Dy() / height

	out := bufio.NewWriter(w)
	fmt.Fprintf(out, "; %d sprites of %d x %d pixels\n", cols*rows, SpriteWidth, height)
	fmt.Fprintf(out, ":%s\n", label)

	line := make([]byte, 0, 16)

	for y := 0; y < rows; y++ {
		sy := r.Min.Y + y*height

		for x := 0; x < cols; x++ {
			sx := r.Min.X + x*SpriteWidth

			for py := sy; py < sy+height; py++ {
				line = append(line[:0], "\td8 2#"...)
				for px := sx; px < sx+SpriteWidth; px++ {
					if lit(img.At(px, py)) {
						line = append(line, '1')
					} else {
						line = append(line, '0')
					}
				}

				line = append(line, '\n')
				_, _ = out.Write(line)
			}

			fmt.Fprintln(out)
		}
	}

	return errors.Wrapf(out.Flush(), "write sprites")
}

// lit returns true for pixels brighter than half intensity.
func lit(c color.Color) bool {
	return color.GrayModel.Convert(c).(color.Gray).Y >= 0x80
}

// loadImage loads an image from the given file.
func loadImage(file string, height int) (image.Image, error) {
	fd, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrapf(err, "open image")
	}

	defer fd.Close()

	img, _, err := image.Decode(fd)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", file)
	}

	r := img.Bounds()
	if r.Dx() < SpriteWidth || r.Dy() < height {
		return nil, errors.Errorf("source image is too small; expected at least %d x %d pixels", SpriteWidth, height)
	}

	return img, nil
}
