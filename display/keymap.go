package display

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/v39engine/v39/keys"
)

// SDL has no named codes for these; their keycodes are the Unicode code
// points the key produces.
const (
	kPipe    sdl.Keycode = '|'
	kTilde   sdl.Keycode = '~'
	kAUmlaut sdl.Keycode = 0xE4
	kOUmlaut sdl.Keycode = 0xF6
	kUUmlaut sdl.Keycode = 0xFC
	kSharpS  sdl.Keycode = 0xDF
)

var keymap = map[sdl.Keycode]keys.Key{
	sdl.K_a: keys.A, sdl.K_b: keys.B, sdl.K_c: keys.C, sdl.K_d: keys.D,
	sdl.K_e: keys.E, sdl.K_f: keys.F, sdl.K_g: keys.G, sdl.K_h: keys.H,
	sdl.K_i: keys.I, sdl.K_j: keys.J, sdl.K_k: keys.K, sdl.K_l: keys.L,
	sdl.K_m: keys.M, sdl.K_n: keys.N, sdl.K_o: keys.O, sdl.K_p: keys.P,
	sdl.K_q: keys.Q, sdl.K_r: keys.R, sdl.K_s: keys.S, sdl.K_t: keys.T,
	sdl.K_u: keys.U, sdl.K_v: keys.V, sdl.K_w: keys.W, sdl.K_x: keys.X,
	sdl.K_y: keys.Y, sdl.K_z: keys.Z,

	sdl.K_0: keys.D0, sdl.K_1: keys.D1, sdl.K_2: keys.D2, sdl.K_3: keys.D3,
	sdl.K_4: keys.D4, sdl.K_5: keys.D5, sdl.K_6: keys.D6, sdl.K_7: keys.D7,
	sdl.K_8: keys.D8, sdl.K_9: keys.D9,

	sdl.K_EXCLAIM:    keys.ExclamationMark,
	kTilde:           keys.Tilde,
	sdl.K_BACKQUOTE:  keys.Tilde,
	sdl.K_QUOTEDBL:   keys.DoubleQuote,
	sdl.K_COMMA:      keys.Comma,
	sdl.K_PERIOD:     keys.Dot,
	sdl.K_COLON:      keys.Colon,
	sdl.K_SEMICOLON:  keys.Semicolon,
	sdl.K_HASH:       keys.Hashtag,
	sdl.K_UNDERSCORE: keys.Underscore,
	sdl.K_SPACE:      keys.Space,
	sdl.K_MINUS:      keys.Dash,
	sdl.K_PLUS:       keys.Plus,
	sdl.K_ASTERISK:   keys.Star,
	sdl.K_QUOTE:      keys.SingleQuote,
	sdl.K_GREATER:    keys.Greater,
	sdl.K_LESS:       keys.Less,
	sdl.K_EQUALS:     keys.Equal,
	kPipe:            keys.Pipe,
	sdl.K_PERCENT:    keys.Percent,
	sdl.K_AMPERSAND:  keys.Ampersand,

	sdl.K_TAB:       keys.Tab,
	sdl.K_CAPSLOCK:  keys.Caps,
	sdl.K_LSHIFT:    keys.Shift,
	sdl.K_LCTRL:     keys.Ctrl,
	sdl.K_LGUI:      keys.Super,
	sdl.K_RGUI:      keys.Super,
	sdl.K_LALT:      keys.Alt,
	sdl.K_ESCAPE:    keys.Esc,
	sdl.K_BACKSPACE: keys.Backspace,
	sdl.K_RETURN:    keys.Enter,
	sdl.K_KP_ENTER:  keys.Enter,
	sdl.K_RALT:      keys.RightAlt,
	sdl.K_RCTRL:     keys.RightCtrl,
	sdl.K_RSHIFT:    keys.RightShift,

	sdl.K_F1: keys.F1, sdl.K_F2: keys.F2, sdl.K_F3: keys.F3, sdl.K_F4: keys.F4,
	sdl.K_F5: keys.F5, sdl.K_F6: keys.F6, sdl.K_F7: keys.F7, sdl.K_F8: keys.F8,
	sdl.K_F9: keys.F9, sdl.K_F10: keys.F10, sdl.K_F11: keys.F11, sdl.K_F12: keys.F12,

	sdl.K_PRINTSCREEN: keys.PrintScreen,
	sdl.K_PAUSE:       keys.Pause,
	sdl.K_SCROLLLOCK:  keys.ScrollLock,
	sdl.K_INSERT:      keys.Insert,
	sdl.K_DELETE:      keys.Delete,
	sdl.K_HOME:        keys.Home,
	sdl.K_END:         keys.End,
	sdl.K_PAGEUP:      keys.PageUp,
	sdl.K_PAGEDOWN:    keys.PageDown,
	sdl.K_LEFT:        keys.Left,
	sdl.K_RIGHT:       keys.Right,
	sdl.K_UP:          keys.Up,
	sdl.K_DOWN:        keys.Down,

	kAUmlaut: keys.AUmlaut,
	kOUmlaut: keys.OUmlaut,
	kUUmlaut: keys.UUmlaut,
	kSharpS:  keys.SharpS,
}

// Key returns the logical key for an SDL keycode, or keys.Unknown.
func Key(code sdl.Keycode) keys.Key {
	if k, ok := keymap[code]; ok {
		return k
	}
	return keys.Unknown
}
