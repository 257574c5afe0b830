package event

import (
	"fmt"

	"github.com/v39engine/v39/keys"
)

// Kind identifies the variant of an EngineEvent.
type Kind int

// Engine event kinds.
const (
	Reset Kind = iota
	FrameBegin
	FrameEnd
	KeyDown
	KeyUp
	Tick
	FixedTick
	Quit
	WindowClose
	WindowResize
	WindowFocus
	WindowUnfocus
)

var kindNames = [...]string{
	Reset:         "Reset",
	FrameBegin:    "FrameBegin",
	FrameEnd:      "FrameEnd",
	KeyDown:       "KeyDown",
	KeyUp:         "KeyUp",
	Tick:          "Tick",
	FixedTick:     "FixedTick",
	Quit:          "Quit",
	WindowClose:   "WindowClose",
	WindowResize:  "WindowResize",
	WindowFocus:   "WindowFocus",
	WindowUnfocus: "WindowUnfocus",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// EngineEvent is a built-in lifecycle signal. Only the payload fields that
// belong to Kind are meaningful.
//
// Engine events are routed by Kind alone: two KeyDown events match each other
// regardless of the key they carry.
type EngineEvent struct {
	Kind Kind
	// Key is set for KeyDown and KeyUp.
	Key keys.Key
	// Delta is the elapsed time in seconds for Tick and FixedTick.
	Delta float32
	// Reason is set for Quit.
	Reason uint32
	// Width and Height are set for WindowResize.
	Width, Height uint32
}

// Signal returns a payload-less engine event of the given kind.
func Signal(kind Kind) EngineEvent { return EngineEvent{Kind: kind} }

// KeyDownEvent returns a KeyDown event for k.
func KeyDownEvent(k keys.Key) EngineEvent { return EngineEvent{Kind: KeyDown, Key: k} }

// KeyUpEvent returns a KeyUp event for k.
func KeyUpEvent(k keys.Key) EngineEvent { return EngineEvent{Kind: KeyUp, Key: k} }

// TickEvent returns a Tick event with the given delta in seconds.
func TickEvent(delta float32) EngineEvent { return EngineEvent{Kind: Tick, Delta: delta} }

// FixedTickEvent returns a FixedTick event with the given step in seconds.
func FixedTickEvent(step float32) EngineEvent { return EngineEvent{Kind: FixedTick, Delta: step} }

// QuitEvent returns a Quit event with the given reason.
func QuitEvent(reason uint32) EngineEvent { return EngineEvent{Kind: Quit, Reason: reason} }

// ResizeEvent returns a WindowResize event for the given pixel dimensions.
func ResizeEvent(width, height uint32) EngineEvent {
	return EngineEvent{Kind: WindowResize, Width: width, Height: height}
}

func (e EngineEvent) isOneOf(kinds []Kind) bool {
	for _, k := range kinds {
		if e.Kind == k {
			return true
		}
	}
	return false
}

// Matches reports whether e and other are the same variant.
func (e EngineEvent) Matches(other EngineEvent) bool { return e.Kind == other.Kind }

func (e EngineEvent) String() string {
	switch e.Kind {
	case KeyDown, KeyUp:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Key)
	case Tick, FixedTick:
		return fmt.Sprintf("%s(%g)", e.Kind, e.Delta)
	case Quit:
		return fmt.Sprintf("%s(%d)", e.Kind, e.Reason)
	case WindowResize:
		return fmt.Sprintf("%s(%dx%d)", e.Kind, e.Width, e.Height)
	default:
		return e.Kind.String()
	}
}

// deliver invokes the Receiver method that corresponds to e's kind.
func (e EngineEvent) deliver(r Receiver) error {
	switch e.Kind {
	case Reset:
		return r.Reset()
	case FrameBegin:
		return r.FrameBegin()
	case FrameEnd:
		return r.FrameEnd()
	case KeyDown:
		return r.KeyDown(e.Key)
	case KeyUp:
		return r.KeyUp(e.Key)
	case Tick:
		return r.Tick(e.Delta)
	case FixedTick:
		return r.FixedTick(e.Delta)
	case Quit:
		return r.Quit(e.Reason)
	case WindowClose:
		return r.WindowClose()
	case WindowResize:
		return r.WindowResize(e.Width, e.Height)
	case WindowFocus:
		return r.WindowFocus()
	case WindowUnfocus:
		return r.WindowUnfocus()
	}
	return fmt.Errorf("unknown engine event kind %d", int(e.Kind))
}
