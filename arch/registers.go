package arch

import (
	"fmt"
	"strings"
)

// VF is the index of the flag register. It receives the carry, borrow,
// shifted-out bit and sprite collision results of the instructions that
// produce them, but is otherwise addressable like any other register.
const VF = 0xf

// IsRegister returns true if the given name represents a known register.
func IsRegister(name string) bool {
	return RegisterIndex(name) > -1
}

// RegisterIndex returns the index for the given register name (v0-vf).
// Returns -1 if the name is not recognized.
func RegisterIndex(name string) int {
	name = strings.ToLower(name)
	if len(name) != 2 || name[0] != 'v' {
		return -1
	}

	switch c := name[1]; {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	}
	return -1
}

// RegisterName returns the name associated with the given register index.
// Returns "" if the index is not recognized.
func RegisterName(n int) string {
	if n < 0 || n >= RegisterCount {
		return ""
	}
	return fmt.Sprintf("v%x", n)
}
