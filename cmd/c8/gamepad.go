package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/retroenv/retrogolib/log"
)

// gamepadKeys maps gamepad buttons to keypad keys. The layout follows the
// direction keys most programs use: 2, 4, 6 and 8 with 5 as action.
var gamepadKeys = map[glfw.GamepadButton]int{
	glfw.ButtonDpadUp:    0x2,
	glfw.ButtonDpadLeft:  0x4,
	glfw.ButtonDpadRight: 0x6,
	glfw.ButtonDpadDown:  0x8,
	glfw.ButtonA:         0x5,
	glfw.ButtonB:         0x0,
	glfw.ButtonX:         0x7,
	glfw.ButtonY:         0x9,
	glfw.ButtonBack:      0xa,
	glfw.ButtonStart:     0xb,
}

// Gamepad forwards the state of a connected gamepad to the keypad.
type Gamepad struct {
	logger    *log.Logger
	setKey    func(key int, pressed bool)
	joy       glfw.Joystick
	pressed   [glfw.ButtonLast + 1]bool
	connected bool
}

// NewGamepad creates a new gamepad which reports key changes to setKey.
func NewGamepad(logger *log.Logger, setKey func(key int, pressed bool)) *Gamepad {
	return &Gamepad{
		logger: logger,
		setKey: setKey,
	}
}

// Init detects any connected gamepad and watches for connection changes.
func (g *Gamepad) Init() {
	glfw.SetJoystickCallback(g.configure)

	for joy := glfw.Joystick1; joy <= glfw.JoystickLast; joy++ {
		if joy.Present() && joy.IsGamepad() {
			g.configure(joy, glfw.Connected)
			break
		}
	}
}

// Dispose stops watching for connection changes.
func (g *Gamepad) Dispose() {
	glfw.SetJoystickCallback(nil)
}

// Update polls the gamepad and reports changed buttons.
func (g *Gamepad) Update() {
	if !g.connected {
		return
	}

	state := g.joy.GetGamepadState()
	if state == nil {
		return
	}

	for btn, action := range state.Buttons {
		g.update(glfw.GamepadButton(btn), action == glfw.Press)
	}
}

// update records the state of a single button and forwards changes of
// mapped buttons.
func (g *Gamepad) update(btn glfw.GamepadButton, pressed bool) {
	if int(btn) >= len(g.pressed) || g.pressed[btn] == pressed {
		return
	}

	g.pressed[btn] = pressed

	if key, ok := gamepadKeys[btn]; ok {
		g.setKey(key, pressed)
	}
}

// configure is called whenever a joystick is connected or disconnected from the system.
func (g *Gamepad) configure(joy glfw.Joystick, event glfw.PeripheralEvent) {
	if event == glfw.Connected && !joy.IsGamepad() {
		return
	}

	// Release anything still held so no key stays stuck.
	for btn := range g.pressed {
		g.update(glfw.GamepadButton(btn), false)
	}

	g.connected = event == glfw.Connected
	g.joy = joy

	if g.connected {
		g.logger.Info("Gamepad connected", log.String("name", joy.GetGamepadName()))
	} else {
		g.logger.Info("Gamepad disconnected")
	}
}
