package event

import "github.com/v39engine/v39/keys"

// Receiver is notified of engine and user events.
//
// Every method is optional in practice: embed Nop and override the methods of
// interest. A returned error is logged by the Handler and does not stop
// delivery to other receivers.
//
// Receivers are called from the dispatching goroutine only and never
// concurrently with themselves. They may queue events and add receivers from
// within any callback.
type Receiver interface {
	// DispatchEvent receives user events queued with Handler.QueueEvent.
	DispatchEvent(e Event) error
	Reset() error
	FrameBegin() error
	FrameEnd() error
	KeyDown(k keys.Key) error
	KeyUp(k keys.Key) error
	// Tick is called once per frame with the previous frame's duration in
	// seconds.
	Tick(delta float32) error
	FixedTick(step float32) error
	Quit(reason uint32) error
	WindowClose() error
	WindowResize(width, height uint32) error
	WindowFocus() error
	WindowUnfocus() error
}

// Nop implements every Receiver method as a no-op.
type Nop struct{}

var _ Receiver = Nop{}

func (Nop) DispatchEvent(Event) error         { return nil }
func (Nop) Reset() error                      { return nil }
func (Nop) FrameBegin() error                 { return nil }
func (Nop) FrameEnd() error                   { return nil }
func (Nop) KeyDown(keys.Key) error            { return nil }
func (Nop) KeyUp(keys.Key) error              { return nil }
func (Nop) Tick(float32) error                { return nil }
func (Nop) FixedTick(float32) error           { return nil }
func (Nop) Quit(uint32) error                 { return nil }
func (Nop) WindowClose() error                { return nil }
func (Nop) WindowResize(uint32, uint32) error { return nil }
func (Nop) WindowFocus() error                { return nil }
func (Nop) WindowUnfocus() error              { return nil }
