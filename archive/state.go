package archive

import "fmt"

// State is the lifecycle position of an Assembler.
//
//	Idle → Writing → … → Writing → Finalizing → Closed
//	any  → Failed → Closed
type State int32

const (
	// StateIdle means Assemble has not been called.
	StateIdle State = iota
	// StateWriting means an entry is open and receiving content.
	StateWriting
	// StateFinalizing means all entries are closed and the central
	// directory is being written.
	StateFinalizing
	// StateFailed means assembly stopped on an error and cleanup is running.
	StateFailed
	// StateClosed is terminal.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWriting:
		return "writing"
	case StateFinalizing:
		return "finalizing"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}
