package main

import "github.com/go-gl/glfw/v3.3/glfw"

// keyboardKeys maps the left hand block of a QWERTY keyboard to the
// COSMAC VIP keypad:
//
//	1 2 3 4      1 2 3 C
//	Q W E R  ->  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
var keyboardKeys = map[glfw.Key]int{
	glfw.Key1: 0x1, glfw.Key2: 0x2, glfw.Key3: 0x3, glfw.Key4: 0xc,
	glfw.KeyQ: 0x4, glfw.KeyW: 0x5, glfw.KeyE: 0x6, glfw.KeyR: 0xd,
	glfw.KeyA: 0x7, glfw.KeyS: 0x8, glfw.KeyD: 0x9, glfw.KeyF: 0xe,
	glfw.KeyZ: 0xa, glfw.KeyX: 0x0, glfw.KeyC: 0xb, glfw.KeyV: 0xf,
}

// keypadKey returns the keypad key for the given keyboard key.
func keypadKey(key glfw.Key) (int, bool) {
	v, ok := keyboardKeys[key]
	return v, ok
}
