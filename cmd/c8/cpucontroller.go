package main

import (
	"context"
	"sync"
	"time"

	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/chip8/devices/cpu"
	"github.com/hexaflex/chip8/devices/display"
)

const (
	tickInterval = 2 * time.Millisecond // How often the controller catches up on due cycles.
	maxBatch     = 1000                 // Most cycles run in one tick; the rest of a backlog is dropped.
)

// CPUController controls the execution of a CPU. It runs the CPU at a fixed
// frequency on its own goroutine. All access to the CPU goes through the
// controller, which serializes it.
type CPUController struct {
	mu         sync.Mutex
	cpu        *cpu.CPU
	logger     *log.Logger
	frequency  int
	program    []byte
	start      time.Time
	cycleCount uint64
	running    bool
}

// NewCPUController creates a new CPU controller running at the given
// frequency in instructions per second.
func NewCPUController(logger *log.Logger, config cpu.Config, frequency int) *CPUController {
	return &CPUController{
		cpu:       cpu.New(logger, config),
		logger:    logger,
		frequency: frequency,
	}
}

// Load resets the CPU and loads the given program.
func (c *CPUController) Load(program []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.program = program
	c.cpu.Reset()
	return c.cpu.Load(program)
}

// Reset resets the CPU and reloads the current program. The run state is kept.
func (c *CPUController) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cpu.Reset()
	c.setRunning(c.running)
	return c.cpu.Load(c.program)
}

// Running returns true if the CPU is currently running.
func (c *CPUController) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Frequency returns the measured clock frequency in herz.
func (c *CPUController) Frequency() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return 0
	}
	return float64(c.cycleCount) / time.Since(c.start).Seconds()
}

// ToggleRun starts or stops program execution.
func (c *CPUController) ToggleRun() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setRunning(!c.running)
}

// Start begins execution of the program.
func (c *CPUController) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setRunning(true)
}

// Stop pauses execution of the program.
func (c *CPUController) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setRunning(false)
}

// Step performs a single execution step. Fatal errors stop execution
// and are returned.
func (c *CPUController) Step() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step()
}

// SetKey forwards a key state change to the CPU.
func (c *CPUController) SetKey(key int, pressed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cpu.SetKey(key, pressed)
}

// Frame returns the current display contents and whether they changed
// since the previous call.
func (c *CPUController) Frame() (display.Frame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cpu.Frame()
}

// Beeping returns true while the sound timer is active.
func (c *CPUController) Beeping() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cpu.SoundTimer() > 0
}

// Waiting returns true while the program blocks on a key press.
func (c *CPUController) Waiting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cpu.State().Mode == cpu.AwaitingKey
}

// Run executes due cycles until the context is cancelled.
func (c *CPUController) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.tick(time.Now())
		}
	}
}

// tick runs all cycles which are due at the given time.
func (c *CPUController) tick(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}

	due := uint64(now.Sub(c.start).Seconds() * float64(c.frequency))
	if due <= c.cycleCount {
		return
	}

	n := due - c.cycleCount
	if n > maxBatch {
		c.cycleCount = due - maxBatch
		n = maxBatch
	}

	for ; n > 0 && c.running; n-- {
		if err := c.step(); err != nil {
			c.logger.Error("CPU halted", log.Err(err))
		}
	}
}

// step runs one CPU cycle. Non-fatal errors are logged and swallowed.
func (c *CPUController) step() error {
	c.cycleCount++

	err := c.cpu.Step()
	if err == nil {
		return nil
	}

	if cpu.IsFatal(err) {
		c.setRunning(false)
		return err
	}

	c.logger.Warn("Skipped instruction", log.Err(err))
	return nil
}

// setRunning determines if the CPU is running or is paused.
func (c *CPUController) setRunning(v bool) {
	c.running = v
	c.start = time.Now()
	c.cycleCount = 0
}
