// Package config parses the mapping language and holds the mapper settings
// it configures.
package config

import (
	"fmt"
	"strings"

	"github.com/soar/gyromouse/internal/mapping"
	"github.com/soar/gyromouse/internal/output"
)

// Cmd is one parsed line.
type Cmd interface {
	isCmd()
}

// MapCmd binds actions to a key.
type MapCmd struct {
	Key     Key
	Actions []Action
}

// SettingCmd assigns a setting.
type SettingCmd struct {
	Setting Setting
}

// SpecialCmd is a special token standing alone on its line.
type SpecialCmd struct {
	Special SpecialKey
}

// ResetCmd is RESET_MAPPINGS.
type ResetCmd struct{}

func (MapCmd) isCmd()     {}
func (SettingCmd) isCmd() {}
func (SpecialCmd) isCmd() {}
func (ResetCmd) isCmd()   {}

// KeyKind tells how the keys of a binding combine.
type KeyKind uint8

const (
	KeySimple KeyKind = iota
	// KeySimul is K1+K2, pressed together.
	KeySimul
	// KeyChorded is K1,K2: K2 while K1 is held.
	KeyChorded
)

// Key is the left-hand side of a binding.
type Key struct {
	Kind   KeyKind
	First  mapping.MapKey
	Second mapping.MapKey
}

func (k Key) String() string {
	switch k.Kind {
	case KeySimul:
		return k.First.String() + "+" + k.Second.String()
	case KeyChorded:
		return k.First.String() + "," + k.Second.String()
	default:
		return k.First.String()
	}
}

// ActionModifier is the prefix of an action.
type ActionModifier uint8

const (
	ModNone ActionModifier = iota
	ModToggle
	ModInstant
)

// EventModifier is the suffix of an action.
type EventModifier uint8

const (
	EventNone EventModifier = iota
	EventTap
	EventHold
	EventStart
	EventRelease
	EventTurbo
)

var eventModifierStrings = map[EventModifier]string{
	EventNone:    "none",
	EventTap:     "tap",
	EventHold:    "hold",
	EventStart:   "start",
	EventRelease: "release",
	EventTurbo:   "turbo",
}

func (e EventModifier) String() string {
	return eventModifierStrings[e]
}

// SpecialKey is a reserved action word.
type SpecialKey uint8

const (
	SpecialNone SpecialKey = iota
	SpecialGyroOn
	SpecialGyroOff
	SpecialGyroInvertX
	SpecialGyroInvertY
	SpecialGyroTrackball
)

var specialNames = map[SpecialKey]string{
	SpecialNone:          "none",
	SpecialGyroOn:        "gyro_on",
	SpecialGyroOff:       "gyro_off",
	SpecialGyroInvertX:   "gyro_inv_x",
	SpecialGyroInvertY:   "gyro_inv_y",
	SpecialGyroTrackball: "gyro_trackball",
}

func (s SpecialKey) String() string {
	return specialNames[s]
}

func lookupSpecial(word string) (SpecialKey, bool) {
	for s, name := range specialNames {
		if strings.EqualFold(name, word) {
			return s, true
		}
	}
	return 0, false
}

// ActionKind is what an action emits.
type ActionKind uint8

const (
	ActionKey ActionKind = iota
	ActionMouse
	ActionSpecial
	ActionGamepad
)

// Action is one action token with its modifiers.
type Action struct {
	Modifier ActionModifier
	Event    EventModifier
	Kind     ActionKind
	Key      output.Key
	Button   output.Button
	Special  SpecialKey
	Gamepad  output.GamepadButton
}

func (a Action) String() string {
	var name string
	switch a.Kind {
	case ActionKey:
		name = a.Key.String()
	case ActionMouse:
		name = a.Button.String()
	case ActionSpecial:
		name = a.Special.String()
	case ActionGamepad:
		name = a.Gamepad.String()
	}
	prefix := map[ActionModifier]string{ModToggle: "^", ModInstant: "!"}[a.Modifier]
	suffix := map[EventModifier]string{
		EventTap: "'", EventHold: "_", EventStart: "\\", EventRelease: "/", EventTurbo: "+",
	}[a.Event]
	return fmt.Sprintf("%s%s%s", prefix, name, suffix)
}
