package key

import (
	"strings"

	evdev "github.com/holoplot/go-evdev"
)

// names are also the canonical bindings tokens, so Combination.String output parses back.
var names = [count]string{
	Unknown: "Unknown",

	Num0: "0", Num1: "1", Num2: "2", Num3: "3", Num4: "4",
	Num5: "5", Num6: "6", Num7: "7", Num8: "8", Num9: "9",

	Dash: "-", Equal: "=", Grave: "`", Dot: ".", Comma: ",", Slash: "/",
	Semicolon: ";", Apostrophe: "'", Backslash: "\\", LeftBracket: "[", RightBracket: "]",

	A: "a", B: "b", C: "c", D: "d", E: "e", F: "f", G: "g", H: "h", I: "i",
	J: "j", K: "k", L: "l", M: "m", N: "n", O: "o", P: "p", Q: "q", R: "r",
	S: "s", T: "t", U: "u", V: "v", W: "w", X: "x", Y: "y", Z: "z",

	F1: "F1", F2: "F2", F3: "F3", F4: "F4", F5: "F5", F6: "F6",
	F7: "F7", F8: "F8", F9: "F9", F10: "F10", F11: "F11", F12: "F12",

	Up: "Up", Down: "Down", Left: "Left", Right: "Right",

	Insert: "Insert", Delete: "Delete", Home: "Home", End: "End",
	PageUp: "PageUp", PageDown: "PageDown", Print: "Print",

	Esc: "Esc", Backspace: "Backspace", Return: "Return", Space: "Space", Tab: "Tab",

	Shift: "Shift", Ctrl: "Ctrl", Alt: "Alt", Super: "Super",

	Mute:           "XF86AudioMute",
	VolumeDown:     "XF86AudioLowerVolume",
	VolumeUp:       "XF86AudioRaiseVolume",
	NextSong:       "XF86AudioNext",
	PlayPause:      "XF86AudioPlay",
	PrevSong:       "XF86AudioPrev",
	StopCD:         "XF86AudioStop",
	BrightnessDown: "XF86MonBrightnessDown",
	BrightnessUp:   "XF86MonBrightnessUp",
}

// Left/right modifier variants collapse here.
var codes = map[evdev.EvCode]Key{
	evdev.KEY_ESC: Esc,
	evdev.KEY_1:   Num1,
	evdev.KEY_2:   Num2,
	evdev.KEY_3:   Num3,
	evdev.KEY_4:   Num4,
	evdev.KEY_5:   Num5,
	evdev.KEY_6:   Num6,
	evdev.KEY_7:   Num7,
	evdev.KEY_8:   Num8,
	evdev.KEY_9:   Num9,
	evdev.KEY_0:   Num0,

	evdev.KEY_MINUS:      Dash,
	evdev.KEY_EQUAL:      Equal,
	evdev.KEY_GRAVE:      Grave,
	evdev.KEY_DOT:        Dot,
	evdev.KEY_COMMA:      Comma,
	evdev.KEY_SLASH:      Slash,
	evdev.KEY_SEMICOLON:  Semicolon,
	evdev.KEY_APOSTROPHE: Apostrophe,
	evdev.KEY_BACKSLASH:  Backslash,
	evdev.KEY_LEFTBRACE:  LeftBracket,
	evdev.KEY_RIGHTBRACE: RightBracket,

	evdev.KEY_A: A,
	evdev.KEY_B: B,
	evdev.KEY_C: C,
	evdev.KEY_D: D,
	evdev.KEY_E: E,
	evdev.KEY_F: F,
	evdev.KEY_G: G,
	evdev.KEY_H: H,
	evdev.KEY_I: I,
	evdev.KEY_J: J,
	evdev.KEY_K: K,
	evdev.KEY_L: L,
	evdev.KEY_M: M,
	evdev.KEY_N: N,
	evdev.KEY_O: O,
	evdev.KEY_P: P,
	evdev.KEY_Q: Q,
	evdev.KEY_R: R,
	evdev.KEY_S: S,
	evdev.KEY_T: T,
	evdev.KEY_U: U,
	evdev.KEY_V: V,
	evdev.KEY_W: W,
	evdev.KEY_X: X,
	evdev.KEY_Y: Y,
	evdev.KEY_Z: Z,

	evdev.KEY_F1:  F1,
	evdev.KEY_F2:  F2,
	evdev.KEY_F3:  F3,
	evdev.KEY_F4:  F4,
	evdev.KEY_F5:  F5,
	evdev.KEY_F6:  F6,
	evdev.KEY_F7:  F7,
	evdev.KEY_F8:  F8,
	evdev.KEY_F9:  F9,
	evdev.KEY_F10: F10,
	evdev.KEY_F11: F11,
	evdev.KEY_F12: F12,

	evdev.KEY_UP:       Up,
	evdev.KEY_DOWN:     Down,
	evdev.KEY_LEFT:     Left,
	evdev.KEY_RIGHT:    Right,
	evdev.KEY_INSERT:   Insert,
	evdev.KEY_DELETE:   Delete,
	evdev.KEY_HOME:     Home,
	evdev.KEY_END:      End,
	evdev.KEY_PAGEUP:   PageUp,
	evdev.KEY_PAGEDOWN: PageDown,
	evdev.KEY_SYSRQ:    Print,

	evdev.KEY_BACKSPACE: Backspace,
	evdev.KEY_ENTER:     Return,
	evdev.KEY_SPACE:     Space,
	evdev.KEY_TAB:       Tab,

	evdev.KEY_LEFTSHIFT:  Shift,
	evdev.KEY_RIGHTSHIFT: Shift,
	evdev.KEY_LEFTCTRL:   Ctrl,
	evdev.KEY_RIGHTCTRL:  Ctrl,
	evdev.KEY_LEFTALT:    Alt,
	evdev.KEY_RIGHTALT:   Alt,
	evdev.KEY_LEFTMETA:   Super,
	evdev.KEY_RIGHTMETA:  Super,

	evdev.KEY_MUTE:           Mute,
	evdev.KEY_VOLUMEDOWN:     VolumeDown,
	evdev.KEY_VOLUMEUP:       VolumeUp,
	evdev.KEY_NEXTSONG:       NextSong,
	evdev.KEY_PLAYPAUSE:      PlayPause,
	evdev.KEY_PREVIOUSSONG:   PrevSong,
	evdev.KEY_STOPCD:         StopCD,
	evdev.KEY_BRIGHTNESSDOWN: BrightnessDown,
	evdev.KEY_BRIGHTNESSUP:   BrightnessUp,
}

type char struct {
	key   Key
	shift bool
}

var (
	tokens = make(map[string]Key, count)
	chars  = make(map[rune]char, 128)
)

func init() {
	for k := Key(1); k < count; k++ {
		if len(names[k]) > 1 {
			tokens[strings.ToLower(names[k])] = k
		}
	}
	for alias, k := range map[string]Key{
		"control": Ctrl,
		"escape":  Esc,
		"enter":   Return,
		"win":     Super,
	} {
		tokens[alias] = k
	}

	// US layout: plain and shifted character on the same physical key.
	const plain = "1234567890-=`.,/;'\\[]"
	const shifted = "!@#$%^&*()_+~><?:\"|{}"
	keys := [...]Key{Num1, Num2, Num3, Num4, Num5, Num6, Num7, Num8, Num9, Num0,
		Dash, Equal, Grave, Dot, Comma, Slash, Semicolon, Apostrophe, Backslash, LeftBracket, RightBracket}
	for i, k := range keys {
		chars[rune(plain[i])] = char{key: k}
		chars[rune(shifted[i])] = char{key: k, shift: true}
	}
	for i := 0; i < 26; i++ {
		chars[rune('a'+i)] = char{key: A + Key(i)}
		chars[rune('A'+i)] = char{key: A + Key(i), shift: true}
	}
}
