// Package debug implements the debug controller: a single actor owning at
// most one target VM, wrapping internal/jdwp's wire client with the
// breakpoint resolution, stepping, object pinning, value rendering and
// backtrace logic spec.md §4.4 describes.
package debug

import "github.com/adamchandra/ensime/internal/jdwp"

// State is the controller's lifecycle state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// SourcePosition is a canonical (file, 1-based line) pair.
type SourcePosition struct {
	File string
	Line int
}

// Breakpoint is unique by SourcePosition; it lives in exactly one of the
// controller's active or pending sets at any time.
type Breakpoint struct {
	Pos SourcePosition
}

// LocationKind discriminates DebugLocation's tagged-variant cases.
type LocationKind int

const (
	LocObjectReference LocationKind = iota
	LocObjectField
	LocArrayElement
	LocStackSlot
)

// DebugLocation identifies a slot in the target VM spec.md §3 names:
// an object, a named field of an object, an array element, or a stack
// slot of a specific thread/frame.
type DebugLocation struct {
	Kind LocationKind

	ObjectID  int64 // ObjectReference, ObjectField, ArrayElement
	FieldName string // ObjectField
	Index     int    // ArrayElement

	ThreadID    int64 // StackSlot
	FrameIndex  int   // StackSlot
	SlotOffset  int32 // StackSlot
}

// pinnedEntry is one row of the pinned-object table: the JDWP handle plus
// the value tag it was pinned with (object, array, string, ...), so a
// lookup by pinned id can rebuild the tagged value.
type pinnedEntry struct {
	id  jdwp.ObjectID
	tag byte
}
