package process

import "fmt"

// Command is a lifecycle request sent to a session's inbox.
type Command int

const (
	// CommandStart spawns the child if the session is idle.
	CommandStart Command = iota
	// CommandStop kills the child if the session is running.
	CommandStop
)

// String returns a human-readable command name.
func (c Command) String() string {
	switch c {
	case CommandStart:
		return "start"
	case CommandStop:
		return "stop"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}

// State represents the lifecycle state of a session.
type State int32

const (
	// StateIdle indicates no child is attached to the session.
	StateIdle State = iota
	// StateRunning indicates a child was spawned and its readers are active.
	StateRunning
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}
