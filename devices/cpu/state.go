package cpu

import "fmt"

// Mode defines the execution mode of the CPU.
type Mode int

// Known modes.
const (
	Running     Mode = iota // Fetching and executing instructions.
	AwaitingKey             // Suspended until a key goes down.
)

// State defines the execution state of the CPU: Running, or AwaitingKey
// with the register that receives the key.
type State struct {
	Mode   Mode
	Target int // Register index receiving the key; only meaningful in AwaitingKey.
}

func (s State) String() string {
	if s.Mode == AwaitingKey {
		return fmt.Sprintf("awaiting key -> v%x", s.Target)
	}
	return "running"
}
