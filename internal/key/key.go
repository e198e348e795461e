// Package key is the canonical key set shared by the event decoder and the bindings parser.
// Left/right physical variants of a modifier collapse into one generic Key.
package key

import (
	"strings"
	"unicode/utf8"

	evdev "github.com/holoplot/go-evdev"
)

type Key uint8

const (
	Unknown Key = iota

	Num0
	Num1
	Num2
	Num3
	Num4
	Num5
	Num6
	Num7
	Num8
	Num9

	Dash
	Equal
	Grave
	Dot
	Comma
	Slash
	Semicolon
	Apostrophe
	Backslash
	LeftBracket
	RightBracket

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

	Up
	Down
	Left
	Right

	Insert
	Delete
	Home
	End
	PageUp
	PageDown
	Print

	Esc
	Backspace
	Return
	Space
	Tab

	Shift
	Ctrl
	Alt
	Super

	Mute
	VolumeDown
	VolumeUp
	NextSong
	PlayPause
	PrevSong
	StopCD
	BrightnessDown
	BrightnessUp

	count
)

// Combination stores keys in a 128 bit set.
const _ = 128 - count

func (k Key) IsModifier() bool { return k >= Shift && k <= Super }
func (k Key) IsMedia() bool    { return k >= Mute && k <= BrightnessUp }

// IsAction reports whether k may end a chord.
func (k Key) IsAction() bool {
	return k != Unknown && k < count && !k.IsModifier() && !k.IsMedia()
}

func (k Key) String() string {
	if k < count {
		return names[k]
	}
	return names[Unknown]
}

// FromCode translates a Linux input scan code. Total: unmapped codes give Unknown.
func FromCode(code uint16) Key {
	if k, ok := codes[evdev.EvCode(code)]; ok {
		return k
	}
	return Unknown
}

// FromToken resolves one '+' delimited bindings token.
// A single character that needs Shift on a US layout resolves to {Shift, base}.
// Unresolved input gives {Unknown}, never an error.
func FromToken(token string) []Key {
	switch utf8.RuneCountInString(token) {
	case 0:
		return []Key{Unknown}
	case 1:
		r, _ := utf8.DecodeRuneInString(token)
		c, ok := chars[r]
		if !ok {
			return []Key{Unknown}
		}
		if c.shift {
			return []Key{Shift, c.key}
		}
		return []Key{c.key}
	}
	if k, ok := tokens[strings.ToLower(token)]; ok {
		return []Key{k}
	}
	return []Key{Unknown}
}
