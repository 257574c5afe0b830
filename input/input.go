/*
Package input tracks keyboard state for the engine.

Key presses arrive as KeyDown/KeyUp engine events, possibly between frames.
The Manager keeps them in live sets and freezes a snapshot at the beginning of
every frame, so that all receivers observe the same state for the duration of
the frame.
*/
package input

import (
	"log/slog"
	"sync"

	"github.com/v39engine/v39/event"
	"github.com/v39engine/v39/keys"
)

// keySet is a set of keys that remembers insertion order.
type keySet []keys.Key

func (s keySet) contains(k keys.Key) bool {
	for _, v := range s {
		if v == k {
			return true
		}
	}
	return false
}

func (s *keySet) add(k keys.Key) {
	if !s.contains(k) {
		*s = append(*s, k)
	}
}

func (s *keySet) remove(k keys.Key) {
	for i, v := range *s {
		if v == k {
			*s = append((*s)[:i], (*s)[i+1:]...)
			return
		}
	}
}

func (s *keySet) merge(other keySet) {
	for _, k := range other {
		s.add(k)
	}
}

// keyState is one generation of the three key sets.
type keyState struct {
	down, up, held keySet
}

// drainInto moves all keys of s into dst.
func (s *keyState) drainInto(dst *keyState) {
	dst.down.merge(s.down)
	dst.up.merge(s.up)
	dst.held.merge(s.held)
	*s = keyState{}
}

// Manager answers whether a key is down (pressed this frame) or held
// (pressed and not yet released).
//
// Queries read the frame snapshot only. Between FrameEnd and the next
// FrameBegin the snapshot is empty.
type Manager struct {
	event.Nop
	mu       sync.Mutex
	live     keyState
	snapshot keyState
	log      *slog.Logger
}

// NewManager creates a Manager. If log is nil, slog.Default() is used.
func NewManager(log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{log: log.With("component", "input")}
	m.log.Info("input manager initialized")
	return m
}

// PushKeyDown records a key press. A press supersedes a release of the same
// key that has not been consumed by a frame yet. Safe for concurrent use.
func (m *Manager) PushKeyDown(k keys.Key) {
	m.mu.Lock()
	m.live.down.add(k)
	m.live.up.remove(k)
	m.mu.Unlock()
}

// PushKeyUp records a key release. Safe for concurrent use.
func (m *Manager) PushKeyUp(k keys.Key) {
	m.mu.Lock()
	m.live.up.add(k)
	m.mu.Unlock()
}

// IsDown reports whether k was pressed in the current frame.
func (m *Manager) IsDown(k keys.Key) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot.down.contains(k)
}

// IsHeld reports whether k is currently depressed.
func (m *Manager) IsHeld(k keys.Key) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot.held.contains(k)
}

// Held returns the keys currently depressed.
func (m *Manager) Held() []keys.Key {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]keys.Key(nil), m.snapshot.held...)
}

// EventBegin freezes the live state into the snapshot.
func (m *Manager) EventBegin() {
	m.mu.Lock()
	m.live.drainInto(&m.snapshot)
	m.mu.Unlock()
}

// EventEnd merges the snapshot back into the live state, together with any
// keys pushed since EventBegin.
func (m *Manager) EventEnd() {
	m.mu.Lock()
	m.snapshot.drainInto(&m.live)
	m.mu.Unlock()
}

// transition applies the per-frame down/up/held rule to the snapshot:
// pressed keys become held, released keys stop being held, and the released
// set is consumed. A key pressed and released before the same frame is down
// for that frame but never held.
func (m *Manager) transition() {
	var held keySet
	for _, k := range m.snapshot.held {
		if !m.snapshot.up.contains(k) {
			held = append(held, k)
		}
	}
	for _, k := range m.snapshot.down {
		if !m.snapshot.up.contains(k) {
			held.add(k)
		}
	}
	m.snapshot.held = held
	m.snapshot.up = nil
}

// FrameBegin freezes the key state for the frame and applies the held
// transition.
func (m *Manager) FrameBegin() error {
	m.mu.Lock()
	m.live.drainInto(&m.snapshot)
	m.transition()
	m.mu.Unlock()
	return nil
}

// FrameEnd forgets this frame's presses and releases the snapshot.
func (m *Manager) FrameEnd() error {
	m.mu.Lock()
	m.snapshot.down = nil
	m.snapshot.drainInto(&m.live)
	m.mu.Unlock()
	return nil
}

// KeyDown implements event.Receiver.
func (m *Manager) KeyDown(k keys.Key) error {
	m.PushKeyDown(k)
	return nil
}

// KeyUp implements event.Receiver.
func (m *Manager) KeyUp(k keys.Key) error {
	m.PushKeyUp(k)
	return nil
}
