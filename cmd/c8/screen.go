package main

import (
	"github.com/go-gl/gl/v4.2-core/gl"
	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices/display"
)

// Screen renders display frames as a textured quad.
type Screen struct {
	pixels      [arch.DisplayWidth * arch.DisplayHeight]byte
	shader      uint32
	vao         uint32
	vbo         uint32
	texture     uint32
	initialized bool
}

// NewScreen creates a new, uninitialized screen.
func NewScreen() *Screen {
	return &Screen{}
}

// Init creates the GL resources. It requires a current GL context.
func (s *Screen) Init() error {
	var err error

	s.shader, err = compileProgram(vertexShader, fragmentShader)
	if err != nil {
		return errors.Wrapf(err, "failed to compile shaders")
	}

	gl.UseProgram(s.shader)
	gl.Uniform4f(gl.GetUniformLocation(s.shader, glStr("background")), 0.05, 0.05, 0.05, 1)
	gl.Uniform4f(gl.GetUniformLocation(s.shader, glStr("foreground")), 0.85, 0.85, 0.85, 1)

	gl.GenVertexArrays(1, &s.vao)
	gl.BindVertexArray(s.vao)

	gl.GenBuffers(1, &s.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	vertAttrib := uint32(gl.GetAttribLocation(s.shader, glStr("vertPos")))
	texCoordAttrib := uint32(gl.GetAttribLocation(s.shader, glStr("vertTexCoord")))

	gl.EnableVertexAttribArray(vertAttrib)
	gl.VertexAttribPointer(vertAttrib, 3, gl.FLOAT, false, 5*4, gl.PtrOffset(0))

	gl.EnableVertexAttribArray(texCoordAttrib)
	gl.VertexAttribPointer(texCoordAttrib, 2, gl.FLOAT, false, 5*4, gl.PtrOffset(3*4))

	s.texture = makeTexture()
	uploadTexture(s.texture, arch.DisplayWidth, arch.DisplayHeight, s.pixels[:])

	s.initialized = true
	return nil
}

// Dispose clears up GL resources.
func (s *Screen) Dispose() {
	if !s.initialized {
		return
	}

	s.initialized = false
	gl.DeleteTextures(1, &s.texture)
	gl.DeleteBuffers(1, &s.vbo)
	gl.DeleteVertexArrays(1, &s.vao)
	gl.DeleteProgram(s.shader)
}

// Update uploads the given frame.
func (s *Screen) Update(frame *display.Frame) {
	if !s.initialized {
		return
	}

	fillPixels(s.pixels[:], frame)
	uploadTexture(s.texture, arch.DisplayWidth, arch.DisplayHeight, s.pixels[:])
}

// Draw renders the last uploaded frame.
func (s *Screen) Draw() {
	if !s.initialized {
		return
	}

	gl.UseProgram(s.shader)
	gl.BindVertexArray(s.vao)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, s.texture)

	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

// fillPixels writes one byte per display pixel into dst: 0xff for lit
// pixels and 0 otherwise. Rows are top to bottom.
func fillPixels(dst []byte, frame *display.Frame) {
	for y := 0; y < arch.DisplayHeight; y++ {
		row := dst[y*arch.DisplayWidth : (y+1)*arch.DisplayWidth]
		for x := range row {
			if frame.Pixel(x, y) {
				row[x] = 0xff
			} else {
				row[x] = 0
			}
		}
	}
}

// viewport returns the largest area with the display's aspect ratio which
// fits into a framebuffer of the given size, centered.
func viewport(width, height int) (x, y, w, h int) {
	w, h = width, width*arch.DisplayHeight/arch.DisplayWidth
	if h > height {
		w, h = height*arch.DisplayWidth/arch.DisplayHeight, height
	}
	return (width - w) / 2, (height - h) / 2, w, h
}

var quadVertices = []float32{
	//  X, Y, Z, U, V
	-1.0, -1.0, 0.0, 0.0, 1.0,
	1.0, -1.0, 0.0, 1.0, 1.0,
	-1.0, 1.0, 0.0, 0.0, 0.0,
	1.0, -1.0, 0.0, 1.0, 1.0,
	1.0, 1.0, 0.0, 1.0, 0.0,
	-1.0, 1.0, 0.0, 0.0, 0.0,
}
