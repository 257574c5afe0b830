/*
Package event implements the engine's event dispatch.

Two kinds of events exist: engine events are the built-in lifecycle signals
(reset, frame begin/end, keys, ticks, window state, quit) and are delivered to
the matching Receiver method; user events carry an application-defined id and
payload and are delivered to Receiver.DispatchEvent.

All queues are double-buffered: producers append to a pending queue while a
dispatch pass drains a snapshot of it. Events and receivers added during a
pass therefore take effect in the next pass.
*/
package event

import (
	"fmt"
	"strings"
)

// Value is a tagged value carried by a user Event.
// It is implemented by String, Int, Uint, Float, Double and Bool only.
type Value interface {
	fmt.Stringer
	isValue()
}

// String is a string Value.
type String string

// Int is a signed integer Value.
type Int int

// Uint is an unsigned integer Value.
type Uint uint

// Float is a single precision Value.
type Float float32

// Double is a double precision Value.
type Double float64

// Bool is a boolean Value.
type Bool bool

func (String) isValue() {}
func (Int) isValue()    {}
func (Uint) isValue()   {}
func (Float) isValue()  {}
func (Double) isValue() {}
func (Bool) isValue()   {}

func (v String) String() string { return fmt.Sprintf("Str(%q)", string(v)) }
func (v Int) String() string    { return fmt.Sprintf("Int(%d)", int(v)) }
func (v Uint) String() string   { return fmt.Sprintf("Uint(%d)", uint(v)) }
func (v Float) String() string  { return fmt.Sprintf("Float(%g)", float32(v)) }
func (v Double) String() string { return fmt.Sprintf("Double(%g)", float64(v)) }
func (v Bool) String() string   { return fmt.Sprintf("Bool(%t)", bool(v)) }

// Event is an application-defined event. The id space belongs to the
// application; the engine never interprets it.
type Event struct {
	ID   uint32
	Data []Value
}

// New creates an event with the given id and payload. Application event id
// types must be unsigned, so that every id fits the uint32 id space.
func New[I ~uint8 | ~uint16 | ~uint32](id I, data ...Value) Event {
	return Event{ID: uint32(id), Data: data}
}

// Clone returns a copy of e whose Data can be modified without affecting e.
func (e Event) Clone() Event {
	if e.Data == nil {
		return e
	}
	data := make([]Value, len(e.Data))
	copy(data, e.Data)
	return Event{ID: e.ID, Data: data}
}

func (e Event) String() string {
	parts := make([]string, len(e.Data))
	for i, v := range e.Data {
		parts[i] = v.String()
	}
	return fmt.Sprintf("Event{id: %d, data: [%s]}", e.ID, strings.Join(parts, ", "))
}
