// Package output defines the keyboard and mouse sink the mapper drives, and
// its uinput implementation.
package output

import (
	"strconv"
	"strings"
)

// Key is a Linux input event key code.
type Key int

const (
	KeyEsc        Key = 1
	Key1          Key = 2
	Key0          Key = 11
	KeyBackspace  Key = 14
	KeyTab        Key = 15
	KeyEnter      Key = 28
	KeyLeftCtrl   Key = 29
	KeyLeftShift  Key = 42
	KeyRightShift Key = 54
	KeyLeftAlt    Key = 56
	KeySpace      Key = 57
	KeyCapsLock   Key = 58
	KeyF1         Key = 59
	KeyF11        Key = 87
	KeyF12        Key = 88
	KeyRightCtrl  Key = 97
	KeyRightAlt   Key = 100
	KeyHome       Key = 102
	KeyUp         Key = 103
	KeyPageUp     Key = 104
	KeyLeft       Key = 105
	KeyRight      Key = 106
	KeyEnd        Key = 107
	KeyDown       Key = 108
	KeyPageDown   Key = 109
	KeyInsert     Key = 110
	KeyDelete     Key = 111
	KeyLeftMeta   Key = 125
	KeyRightMeta  Key = 126
	KeyBack       Key = 158
	KeyForward    Key = 159
)

// letter codes follow the QWERTY rows
var letterCodes = map[rune]Key{
	'q': 16, 'w': 17, 'e': 18, 'r': 19, 't': 20, 'y': 21, 'u': 22, 'i': 23, 'o': 24, 'p': 25,
	'a': 30, 's': 31, 'd': 32, 'f': 33, 'g': 34, 'h': 35, 'j': 36, 'k': 37, 'l': 38,
	'z': 44, 'x': 45, 'c': 46, 'v': 47, 'b': 48, 'n': 49, 'm': 50,
}

var namedKeys = map[string]Key{
	"alt":       KeyLeftAlt,
	"lalt":      KeyLeftAlt,
	"ralt":      KeyRightAlt,
	"option":    KeyLeftAlt,
	"control":   KeyLeftCtrl,
	"lcontrol":  KeyLeftCtrl,
	"rcontrol":  KeyRightCtrl,
	"shift":     KeyLeftShift,
	"lshift":    KeyLeftShift,
	"rshift":    KeyRightShift,
	"meta":      KeyLeftMeta,
	"windows":   KeyLeftMeta,
	"lwindows":  KeyLeftMeta,
	"rwindows":  KeyRightMeta,
	"backspace": KeyBackspace,
	"capslock":  KeyCapsLock,
	"delete":    KeyDelete,
	"insert":    KeyInsert,
	"end":       KeyEnd,
	"esc":       KeyEsc,
	"home":      KeyHome,
	"pagedown":  KeyPageDown,
	"pageup":    KeyPageUp,
	"enter":     KeyEnter,
	"space":     KeySpace,
	"tab":       KeyTab,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
}

func init() {
	for i := 0; i < 10; i++ {
		namedKeys["f"+strconv.Itoa(i+1)] = KeyF1 + Key(i)
	}
	namedKeys["f11"] = KeyF11
	namedKeys["f12"] = KeyF12
}

// KeyNames returns every named key accepted by LookupKey, single characters
// excluded.
func KeyNames() []string {
	names := make([]string, 0, len(namedKeys))
	for name := range namedKeys {
		names = append(names, name)
	}
	return names
}

// LookupKey resolves a key name, case-insensitively.
func LookupKey(name string) (Key, bool) {
	k, ok := namedKeys[strings.ToLower(name)]
	return k, ok
}

// CharKey resolves a single alphanumeric character.
func CharKey(c rune) (Key, bool) {
	switch {
	case c >= '1' && c <= '9':
		return Key1 + Key(c-'1'), true
	case c == '0':
		return Key0, true
	case c >= 'A' && c <= 'Z':
		c += 'a' - 'A'
	}
	k, ok := letterCodes[c]
	return k, ok
}

func (k Key) String() string {
	for c, code := range letterCodes {
		if code == k {
			return string(c)
		}
	}
	switch {
	case k >= Key1 && k < Key0:
		return strconv.Itoa(int(k-Key1) + 1)
	case k == Key0:
		return "0"
	}
	best := ""
	for name, code := range namedKeys {
		// prefer the shortest alias
		if code == k && (best == "" || len(name) < len(best) || (len(name) == len(best) && name < best)) {
			best = name
		}
	}
	if best != "" {
		return best
	}
	return "key(" + strconv.Itoa(int(k)) + ")"
}

// Button is a mouse button. Scroll directions count as buttons.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
	ButtonBack
	ButtonForward
	ButtonScrollUp
	ButtonScrollDown
	ButtonScrollLeft
	ButtonScrollRight
)

var buttonNames = map[Button]string{
	ButtonLeft:        "lmouse",
	ButtonMiddle:      "mmouse",
	ButtonRight:       "rmouse",
	ButtonBack:        "bmouse",
	ButtonForward:     "fmouse",
	ButtonScrollUp:    "scrollup",
	ButtonScrollDown:  "scrolldown",
	ButtonScrollLeft:  "scrollleft",
	ButtonScrollRight: "scrollright",
}

func (b Button) String() string {
	if s, ok := buttonNames[b]; ok {
		return s
	}
	return "button(" + strconv.Itoa(int(b)) + ")"
}

// IsScroll reports whether the button is a wheel direction.
func (b Button) IsScroll() bool {
	return b >= ButtonScrollUp
}

// LookupButton resolves a mouse button name, case-insensitively.
func LookupButton(name string) (Button, bool) {
	name = strings.ToLower(name)
	for b, s := range buttonNames {
		if s == name {
			return b, true
		}
	}
	return 0, false
}

// GamepadButton is a button of the virtual gamepad.
type GamepadButton int

const (
	GamepadA GamepadButton = iota
	GamepadB
	GamepadX
	GamepadY
	GamepadLB
	GamepadRB
	GamepadLS
	GamepadRS
	GamepadStart
	GamepadBack
	GamepadGuide
	GamepadUp
	GamepadDown
	GamepadLeft
	GamepadRight
)

var gamepadNames = map[GamepadButton]string{
	GamepadA:     "x_a",
	GamepadB:     "x_b",
	GamepadX:     "x_x",
	GamepadY:     "x_y",
	GamepadLB:    "x_lb",
	GamepadRB:    "x_rb",
	GamepadLS:    "x_ls",
	GamepadRS:    "x_rs",
	GamepadStart: "x_start",
	GamepadBack:  "x_back",
	GamepadGuide: "x_guide",
	GamepadUp:    "x_up",
	GamepadDown:  "x_down",
	GamepadLeft:  "x_left",
	GamepadRight: "x_right",
}

func (g GamepadButton) String() string {
	if s, ok := gamepadNames[g]; ok {
		return s
	}
	return "gamepad(" + strconv.Itoa(int(g)) + ")"
}

// LookupGamepadButton resolves a virtual gamepad button name.
func LookupGamepadButton(name string) (GamepadButton, bool) {
	name = strings.ToLower(name)
	for g, s := range gamepadNames {
		if s == name {
			return g, true
		}
	}
	return 0, false
}
