// Package cpu implements the CHIP-8 CPU.
//
// A CPU owns its memory, registers, call stack and peripherals. Nothing is
// shared between instances. Step advances the machine by one cycle and is
// not safe for concurrent use; the owner serializes access.
package cpu

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices"
	"github.com/hexaflex/chip8/devices/display"
	"github.com/hexaflex/chip8/devices/keypad"
	"github.com/hexaflex/chip8/devices/timer"
)

// Config defines CPU behaviour which is left to the host.
type Config struct {
	// Seed initializes the random number generator used by RND.
	Seed int64

	// Clock returns the current time. It drives the timers.
	// Defaults to time.Now.
	Clock func() time.Time

	// TickWhileWaiting keeps the timers counting down while the CPU waits
	// for a key. When false the timers are frozen until a key arrives.
	TickWhileWaiting bool
}

// DefaultConfig returns the default configuration with a time based seed.
func DefaultConfig() Config {
	return Config{
		Seed:             time.Now().UnixNano(),
		Clock:            time.Now,
		TickWhileWaiting: true,
	}
}

// CPU implements the runtime.
type CPU struct {
	devices devices.Map      // Connected peripherals.
	logger  *log.Logger      // Diagnostics output.
	clock   func() time.Time // Time source for the timers.
	config  Config           // Host supplied behaviour.
	memory  Memory           // System memory.
	display *display.Device  // Framebuffer.
	keypad  *keypad.Device   // Input matrix.
	timer   *timer.Device    // Delay and sound timers.
	rng     *rand.Rand       // Random number generator.
	state   State            // Running or waiting for a key.

	v     [arch.RegisterCount]byte // General purpose registers; v[arch.VF] doubles as flag.
	i     uint16                   // Address register.
	pc    uint16                   // Program counter.
	sp    int                      // Number of occupied stack slots.
	stack [arch.StackSize]uint16   // Return addresses.
}

// New creates a new CPU in its power-on state. A nil logger only reports
// errors.
func New(logger *log.Logger, config Config) *CPU {
	if logger == nil {
		cfg := log.DefaultConfig()
		cfg.Level = log.ErrorLevel
		logger = log.NewWithConfig(cfg)
	}

	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	c := &CPU{
		logger:  logger,
		clock:   clock,
		config:  config,
		memory:  NewMemory(),
		display: display.New(),
		keypad:  keypad.New(),
		timer:   timer.New(),
		rng:     rand.New(rand.NewSource(config.Seed)),
	}

	c.devices.Connect(c.display)
	c.devices.Connect(c.keypad)
	c.devices.Connect(c.timer)
	c.Reset()
	return c
}

// ID returns the cpu's device ID.
func (c *CPU) ID() devices.ID {
	return devices.NewID(0x0001)
}

// Memory returns the cpu's memory bank.
func (c *CPU) Memory() devices.Memory {
	return c.memory
}

// State returns the current execution state.
func (c *CPU) State() State {
	return c.state
}

// Reset returns the CPU and its peripherals to the power-on state.
// Memory is cleared, except for the font.
func (c *CPU) Reset() {
	c.memory.clear()
	c.v = [arch.RegisterCount]byte{}
	c.i = 0
	c.pc = arch.ProgramStart
	c.sp = 0
	c.stack = [arch.StackSize]uint16{}
	c.state = State{Mode: Running}
	c.devices.Reset(c.logger)
	c.logger.Debug("CPU reset", log.String("device", c.ID().String()))
}

// Load copies the given program image to arch.ProgramStart. It does not
// reset the CPU; call Reset first when replacing a running program.
func (c *CPU) Load(program []byte) error {
	if len(program) > arch.MaxProgramSize {
		return errors.Wrapf(ErrProgramTooLarge, "%d bytes, at most %d allowed", len(program), arch.MaxProgramSize)
	}

	if err := c.memory.Write(arch.ProgramStart, program); err != nil {
		return errors.Wrap(err, "load program")
	}

	c.logger.Debug("Program loaded",
		log.Hex("address", arch.ProgramStart),
		log.Int("size", len(program)))
	return nil
}

// SetKey sets the state of the given key (0-F).
func (c *CPU) SetKey(key int, pressed bool) {
	c.keypad.Set(key, pressed)
}

// Frame returns a snapshot of the display and whether it changed since the
// previous call.
func (c *CPU) Frame() (display.Frame, bool) {
	return c.display.Swap()
}

// SoundTimer returns the sound timer value. A tone should play while it
// is not zero.
func (c *CPU) SoundTimer() byte {
	return c.timer.Sound()
}

// DelayTimer returns the delay timer value.
func (c *CPU) DelayTimer() byte {
	return c.timer.Delay()
}

// Step performs a single execution step.
//
// While the CPU waits for a key, a step only checks for a key press and
// executes nothing. Otherwise it fetches, decodes and executes one
// instruction. The returned error, if any, is a *Error; see IsFatal.
func (c *CPU) Step() error {
	now := c.clock()

	if c.state.Mode == AwaitingKey {
		if c.config.TickWhileWaiting {
			c.timer.Update(now)
		} else {
			c.timer.Hold(now)
		}
		c.resolveWait()
		return nil
	}

	c.timer.Update(now)

	word, err := c.memory.U16(int(c.pc))
	if err != nil {
		return NewError(c.pc, nil, errors.Wrap(err, "fetch"))
	}

	return c.Execute(arch.Decode(word))
}

// resolveWait stores the first key press into the waiting register and
// resumes execution.
func (c *CPU) resolveWait() {
	key, ok := c.keypad.TakePress()
	if !ok {
		return
	}

	target := c.state.Target
	c.v[target] = byte(key)
	c.state = State{Mode: Running}
	c.logger.Debug("Key wait resolved",
		log.String("register", arch.RegisterName(target)),
		log.Int("key", key))
}
