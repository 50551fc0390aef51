package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/chip8/devices/cpu"
)

// loop increments v0 forever.
var loop = []byte{0x70, 0x01, 0x12, 0x00}

func newController(t *testing.T, program []byte) *CPUController {
	t.Helper()
	return newControllerLogger(t, log.NewTestLogger(t), program)
}

func newControllerLogger(t *testing.T, logger *log.Logger, program []byte) *CPUController {
	t.Helper()

	c := NewCPUController(logger, cpu.DefaultConfig(), 700)
	assert.NoError(t, c.Load(program))
	return c
}

func TestControllerTick(t *testing.T) {
	c := newController(t, loop)

	c.tick(time.Now())
	assert.Equal(t, uint64(0), c.cycleCount, "paused controllers do not run")

	c.Start()
	assert.True(t, c.Running())

	c.tick(c.start.Add(10 * time.Millisecond))
	assert.Equal(t, uint64(7), c.cycleCount)

	c.tick(c.start.Add(10 * time.Millisecond))
	assert.Equal(t, uint64(7), c.cycleCount, "no cycles are due")
}

func TestControllerBacklog(t *testing.T) {
	c := newController(t, loop)
	c.Start()

	c.tick(c.start.Add(10 * time.Second))
	assert.Equal(t, uint64(7000), c.cycleCount)
	assert.True(t, c.Running())
}

func TestControllerFatalError(t *testing.T) {
	//   ret
	var buf bytes.Buffer
	cfg := log.DefaultConfig()
	cfg.Output = &buf

	c := newControllerLogger(t, log.NewWithConfig(cfg), []byte{0x00, 0xee})
	c.Start()

	c.tick(c.start.Add(time.Second))
	assert.False(t, c.Running())
	assert.Equal(t, uint64(1), c.cycleCount, "execution stops at the failing instruction")
	assert.Contains(t, buf.String(), "CPU halted")
	assert.Contains(t, buf.String(), "stack underflow")

	err := c.Step()
	assert.Error(t, err)
	assert.True(t, cpu.IsFatal(err))
}

func TestControllerSkipsUnrecognized(t *testing.T) {
	//   0123
	//   jp 0x200
	c := newController(t, []byte{0x01, 0x23, 0x12, 0x00})
	c.Start()

	c.tick(c.start.Add(100 * time.Millisecond))
	assert.True(t, c.Running())
	assert.Equal(t, uint64(70), c.cycleCount)
}

func TestControllerToggleRun(t *testing.T) {
	c := newController(t, loop)

	c.ToggleRun()
	assert.True(t, c.Running())
	c.ToggleRun()
	assert.False(t, c.Running())
	assert.Equal(t, 0.0, c.Frequency())

	assert.NoError(t, c.Step())
	assert.NoError(t, c.Reset())
	assert.False(t, c.Running())
	assert.False(t, c.Beeping())
	assert.False(t, c.Waiting())
}

func TestControllerWaiting(t *testing.T) {
	//   ld v0, k
	c := newController(t, []byte{0xf0, 0x0a})

	assert.NoError(t, c.Step())
	assert.True(t, c.Waiting())

	c.SetKey(0x5, true)
	assert.NoError(t, c.Step())
	assert.False(t, c.Waiting())
}

func TestViewport(t *testing.T) {
	tests := []struct {
		width, height int
		x, y, w, h    int
	}{
		{640, 320, 0, 0, 640, 320},
		{640, 480, 0, 80, 640, 320},
		{1000, 320, 180, 0, 640, 320},
	}

	for _, tt := range tests {
		x, y, w, h := viewport(tt.width, tt.height)
		assert.Equal(t, tt.x, x)
		assert.Equal(t, tt.y, y)
		assert.Equal(t, tt.w, w)
		assert.Equal(t, tt.h, h)
	}
}

func TestPrettyFrequency(t *testing.T) {
	assert.Equal(t, "700 Hz", prettyFrequency(700))
	assert.Equal(t, "1.50 KHz", prettyFrequency(1500))
	assert.Equal(t, "2.00 MHz", prettyFrequency(2e6))
}
