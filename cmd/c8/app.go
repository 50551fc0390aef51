package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-gl/gl/v4.2-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices/cpu"
	"github.com/hexaflex/chip8/rom"
)

// App defines application context.
type App struct {
	config       *Config        // Application configuration.
	logger       *log.Logger    // Diagnostics output.
	window       *glfw.Window   // OpenGL/GLFW context.
	cpu          *CPUController // VM with program to be run.
	screen       *Screen        // Renders the display.
	gamepad      *Gamepad       // Optional gamepad input.
	titleUpdated time.Time      // Value used to periodically update window title.

	// Window placement to restore when leaving fullscreen mode.
	windowX, windowY          int
	windowWidth, windowHeight int
}

// NewApp creates a new application instance using the given configuration.
func NewApp(config *Config, logger *log.Logger) *App {
	cfg := cpu.DefaultConfig()
	cfg.Seed = config.Seed
	cfg.TickWhileWaiting = config.TickWhileWaiting

	var a App
	a.config = config
	a.logger = logger
	a.cpu = NewCPUController(logger, cfg, config.Clock)
	a.screen = NewScreen()
	a.gamepad = NewGamepad(logger, a.cpu.SetKey)
	return &a
}

// Run runs the application and does not return until it is finished,
// the context is cancelled or an error occurred during initialization.
func (a *App) Run(ctx context.Context) error {
	program, err := rom.Load(a.config.ROM)
	if err != nil {
		return err
	}

	if err := a.cpu.Load(program); err != nil {
		return errors.Wrapf(err, "failed to load %s", a.config.ROM)
	}

	if err := a.initGL(); err != nil {
		return err
	}

	defer a.dispose()

	if err := a.screen.Init(); err != nil {
		return err
	}

	a.gamepad.Init()

	a.logger.Info(Version())
	a.logger.Info("Loaded program", log.String("file", a.config.ROM), log.Int("size", len(program)))
	a.printHelp()

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.cpu.Run(ctx)
	}()

	defer func() {
		cancel()
		wg.Wait()
	}()

	a.cpu.Start()

	for !a.window.ShouldClose() && ctx.Err() == nil {
		a.mainLoop()
	}

	return nil
}

// mainLoop performs all main loop operations.
func (a *App) mainLoop() {
	glfw.PollEvents()
	a.gamepad.Update()

	if frame, changed := a.cpu.Frame(); changed {
		a.screen.Update(&frame)
	}

	gl.Clear(gl.COLOR_BUFFER_BIT)
	a.screen.Draw()
	a.window.SwapBuffers()

	// Periodically update the window title to show the current cpu state.
	if time.Since(a.titleUpdated) >= time.Second {
		a.titleUpdated = time.Now()
		a.window.SetTitle(a.title())
	}
}

// title returns the window title for the current cpu state.
func (a *App) title() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s - %s", AppName, a.config.ROM)

	if a.cpu.Running() {
		fmt.Fprintf(&sb, " - %s", prettyFrequency(a.cpu.Frequency()))
	} else {
		sb.WriteString(" - paused")
	}

	if a.cpu.Waiting() {
		sb.WriteString(" - waiting for key")
	}

	if a.cpu.Beeping() {
		sb.WriteString(" - beep")
	}

	return sb.String()
}

// dispose ensures openGL/GLFW and other resources are cleaned up.
func (a *App) dispose() {
	a.cpu.Stop()
	a.gamepad.Dispose()
	a.screen.Dispose()

	if a.window != nil {
		a.window.Destroy()
		a.window = nil
	}

	glfw.Terminate()
}

func (a *App) keyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if k, ok := keypadKey(key); ok {
		switch action {
		case glfw.Press:
			a.cpu.SetKey(k, true)
		case glfw.Release:
			a.cpu.SetKey(k, false)
		}
		return
	}

	if action != glfw.Press {
		return
	}

	var err error

	switch key {
	case glfw.KeyEscape:
		a.window.SetShouldClose(true)
	case glfw.KeyF1:
		err = a.cpu.Reset()
	case glfw.KeyF2:
		a.cpu.ToggleRun()
	case glfw.KeyF3:
		err = a.cpu.Step()
	case glfw.KeyF11:
		a.toggleFullscreen()
	}

	if err != nil {
		a.logger.Error("Command failed", log.Err(err))
	}
}

// framebufferSizeCallback keeps the display centered at its aspect ratio.
func (a *App) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	x, y, w, h := viewport(width, height)
	gl.Viewport(int32(x), int32(y), int32(w), int32(h))
}

// toggleFullscreen switches between windowed and fullscreen mode.
func (a *App) toggleFullscreen() {
	if a.window.GetMonitor() != nil {
		a.window.SetMonitor(nil, a.windowX, a.windowY, a.windowWidth, a.windowHeight, glfw.DontCare)
		return
	}

	a.windowX, a.windowY = a.window.GetPos()
	a.windowWidth, a.windowHeight = a.window.GetSize()

	monitor := glfw.GetPrimaryMonitor()
	mode := monitor.GetVideoMode()
	a.window.SetMonitor(monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
}

// initGL initializes GLFW and openGL.
func (a *App) initGL() error {
	err := glfw.Init()
	if err != nil {
		return errors.Wrapf(err, "glfw.Init failed")
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.True)
	glfw.WindowHint(glfw.Focused, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 2)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	var monitor *glfw.Monitor

	width := arch.DisplayWidth * a.config.Scale
	height := arch.DisplayHeight * a.config.Scale
	a.windowWidth, a.windowHeight = width, height

	if a.config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		mode := monitor.GetVideoMode()

		width = mode.Width
		height = mode.Height
	}

	a.window, err = glfw.CreateWindow(width, height, AppName, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return errors.Wrapf(err, "glfw.CreateWindow failed")
	}

	a.window.MakeContextCurrent()
	a.window.SetKeyCallback(a.keyCallback)
	a.window.SetFramebufferSizeCallback(a.framebufferSizeCallback)

	glfw.SwapInterval(1)

	err = gl.Init()
	if err != nil {
		a.window.Destroy()
		a.window = nil
		glfw.Terminate()
		return errors.Wrapf(err, "gl.Init failed")
	}

	gl.ClearColor(0, 0, 0, 1.0)

	fbWidth, fbHeight := a.window.GetFramebufferSize()
	a.framebufferSizeCallback(a.window, fbWidth, fbHeight)
	return nil
}

// printHelp logs a short overview of supported shortcut keys.
func (a *App) printHelp() {
	var sb strings.Builder
	sb.WriteString("shortcut keys:\n")
	sb.WriteString(" 1234/QWER/ASDF/ZXCV  Keypad 123C/456D/789E/A0BF.\n")
	sb.WriteString(" ESC      Exit the program.\n")
	sb.WriteString(" F1       Reset the cpu and reload the program.\n")
	sb.WriteString(" F2       Start/Stop program execution.\n")
	sb.WriteString(" F3       Perform a single execution step.\n")
	sb.WriteString(" F11      Toggle fullscreen mode.")
	a.logger.Info(sb.String())
}

// prettyFrequency returns a human-readable version of the given clock frequency in herz.
func prettyFrequency(v float64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("%.2f MHz", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2f KHz", v/1e3)
	default:
		return fmt.Sprintf("%.0f Hz", v)
	}
}
