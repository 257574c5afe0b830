/*
Package keys defines the logical keyboard keys known to the engine.

Windowing backends translate their physical key codes into Key values, so that
receivers never see platform-specific codes.
*/
package keys

import (
	"fmt"

	"golang.org/x/text/cases"
)

// Key is a logical keyboard key.
type Key int

// Keyboard keys.
const (
	Unknown Key = iota

	A
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z

	D0
	D1
	D2
	D3
	D4
	D5
	D6
	D7
	D8
	D9

	ExclamationMark
	Tilde
	DoubleQuote
	Comma
	Dot
	Colon
	Semicolon
	Hashtag
	Underscore
	Space
	Dash
	Plus
	Star
	SingleQuote
	Greater
	Less
	Equal
	Pipe
	Percent
	Ampersand

	Tab
	Caps
	Shift
	Ctrl
	Super
	Alt
	Esc
	Backspace
	Enter
	RightAlt
	RightCtrl
	RightShift
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	PrintScreen
	Pause
	ScrollLock
	Insert
	Delete
	Home
	End
	PageUp
	PageDown
	Left
	Right
	Up
	Down

	AUmlaut
	OUmlaut
	UUmlaut
	SharpS

	numKeys
)

var names = [numKeys]string{
	Unknown: "Unknown",
	A:       "A", B: "B", C: "C", D: "D", E: "E", F: "F", G: "G", H: "H",
	I: "I", J: "J", K: "K", L: "L", M: "M", N: "N", O: "O", P: "P", Q: "Q",
	R: "R", S: "S", T: "T", U: "U", V: "V", W: "W", X: "X", Y: "Y", Z: "Z",
	D0: "0", D1: "1", D2: "2", D3: "3", D4: "4", D5: "5", D6: "6", D7: "7",
	D8: "8", D9: "9",
	ExclamationMark: "!", Tilde: "~", DoubleQuote: "\"", Comma: ",", Dot: ".",
	Colon: ":", Semicolon: ";", Hashtag: "#", Underscore: "_", Space: "Space",
	Dash: "-", Plus: "+", Star: "*", SingleQuote: "'", Greater: ">", Less: "<",
	Equal: "=", Pipe: "|", Percent: "%", Ampersand: "&",
	Tab: "Tab", Caps: "CapsLock", Shift: "Shift", Ctrl: "Ctrl", Super: "Super",
	Alt: "Alt", Esc: "Escape", Backspace: "Backspace", Enter: "Return",
	RightAlt: "Right Alt", RightCtrl: "Right Ctrl", RightShift: "Right Shift",
	F1: "F1", F2: "F2", F3: "F3", F4: "F4", F5: "F5", F6: "F6", F7: "F7",
	F8: "F8", F9: "F9", F10: "F10", F11: "F11", F12: "F12",
	PrintScreen: "PrintScreen", Pause: "Pause", ScrollLock: "ScrollLock",
	Insert: "Insert", Delete: "Delete", Home: "Home", End: "End",
	PageUp: "PageUp", PageDown: "PageDown",
	Left: "Left", Right: "Right", Up: "Up", Down: "Down",
	AUmlaut: "Ä", OUmlaut: "Ö", UUmlaut: "Ü", SharpS: "ß",
}

// aliases maps alternative spellings accepted by Parse.
var aliases = map[string]Key{
	"esc":    Esc,
	"enter":  Enter,
	"caps":   Caps,
	"pgup":   PageUp,
	"pgdown": PageDown,
	"del":    Delete,
	"prtscn": PrintScreen,
	"scrlck": ScrollLock,
}

var byName map[string]Key

func init() {
	byName = make(map[string]Key, len(names)+len(aliases))
	fold := cases.Fold()
	for k := Key(1); k < numKeys; k++ {
		byName[fold.String(names[k])] = k
	}
	for name, k := range aliases {
		byName[fold.String(name)] = k
	}
}

// String returns the key's name as accepted by Parse.
func (k Key) String() string {
	if k < 0 || k >= numKeys {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return names[k]
}

// Parse returns the key with the given name. Matching ignores case, so
// "escape", "Escape" and "ESCAPE" all denote Esc.
func Parse(name string) (Key, error) {
	if k, ok := byName[cases.Fold().String(name)]; ok {
		return k, nil
	}
	return Unknown, fmt.Errorf("unknown key: %s", name)
}
