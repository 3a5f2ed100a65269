package mapping

import (
	"fmt"

	"github.com/soar/gyromouse/internal/output"
)

// ClickType is how an action fires.
type ClickType uint8

const (
	Press ClickType = iota
	Release
	Click
	Toggle
)

var clickTypeStrings = map[ClickType]string{
	Press:   "Press",
	Release: "Release",
	Click:   "Click",
	Toggle:  "Toggle",
}

func (c ClickType) String() string {
	return clickTypeStrings[c]
}

// ExtKind is the kind of an ExtAction.
type ExtKind uint8

const (
	ExtNone ExtKind = iota
	ExtKeyPress
	ExtMousePress
	ExtGamepadKeyPress
	ExtGyroOn
	ExtGyroOff
)

// ExtAction is an action executed outside the mapping engine.
type ExtAction struct {
	Kind    ExtKind
	Click   ClickType
	Key     output.Key
	Button  output.Button
	Gamepad output.GamepadButton
}

func KeyPress(k output.Key, c ClickType) ExtAction {
	return ExtAction{Kind: ExtKeyPress, Click: c, Key: k}
}

func MousePress(b output.Button, c ClickType) ExtAction {
	return ExtAction{Kind: ExtMousePress, Click: c, Button: b}
}

func GamepadKeyPress(b output.GamepadButton, c ClickType) ExtAction {
	return ExtAction{Kind: ExtGamepadKeyPress, Click: c, Gamepad: b}
}

func GyroOn(c ClickType) ExtAction {
	return ExtAction{Kind: ExtGyroOn, Click: c}
}

func GyroOff(c ClickType) ExtAction {
	return ExtAction{Kind: ExtGyroOff, Click: c}
}

func (a ExtAction) String() string {
	switch a.Kind {
	case ExtKeyPress:
		return fmt.Sprintf("%s %s", a.Click, a.Key)
	case ExtMousePress:
		return fmt.Sprintf("%s %s", a.Click, a.Button)
	case ExtGamepadKeyPress:
		return fmt.Sprintf("%s %s", a.Click, a.Gamepad)
	case ExtGyroOn:
		return fmt.Sprintf("%s gyro on", a.Click)
	case ExtGyroOff:
		return fmt.Sprintf("%s gyro off", a.Click)
	default:
		return "none"
	}
}

// Action is either a layer change or an ExtAction.
type Action struct {
	isLayer bool
	layer   uint8
	on      bool
	ext     ExtAction
}

// LayerAction pushes layer when on is true, and removes it otherwise.
func LayerAction(layer uint8, on bool) Action {
	return Action{isLayer: true, layer: layer, on: on}
}

// Ext wraps an ExtAction.
func Ext(a ExtAction) Action {
	return Action{ext: a}
}

// Layer returns the layer change carried by a, if any.
func (a Action) Layer() (layer uint8, on, ok bool) {
	return a.layer, a.on, a.isLayer
}

// ExtAction returns the external action carried by a, if any.
func (a Action) ExtAction() (ExtAction, bool) {
	return a.ext, !a.isLayer
}

func (a Action) String() string {
	if a.isLayer {
		if a.on {
			return fmt.Sprintf("push layer %d", a.layer)
		}
		return fmt.Sprintf("pop layer %d", a.layer)
	}
	return a.ext.String()
}

// Layer holds the actions bound to each event of one key.
type Layer struct {
	OnDown        []Action
	OnUp          []Action
	OnClick       []Action
	OnDoubleClick []Action
	OnHoldDown    []Action
	OnHoldUp      []Action
}

// IsBound reports whether any event has an action.
func (l *Layer) IsBound() bool {
	return len(l.OnDown)+len(l.OnUp)+len(l.OnClick)+len(l.OnDoubleClick)+
		len(l.OnHoldDown)+len(l.OnHoldUp) > 0
}

// IsSimpleClick reports whether clicks can fire on press, without waiting
// for hold or double-click resolution.
func (l *Layer) IsSimpleClick() bool {
	return len(l.OnHoldDown) == 0 && len(l.OnHoldUp) == 0 && len(l.OnDoubleClick) == 0
}

func (l *Layer) clone() *Layer {
	cp := func(a []Action) []Action { return append([]Action(nil), a...) }
	return &Layer{
		OnDown:        cp(l.OnDown),
		OnUp:          cp(l.OnUp),
		OnClick:       cp(l.OnClick),
		OnDoubleClick: cp(l.OnDoubleClick),
		OnHoldDown:    cp(l.OnHoldDown),
		OnHoldUp:      cp(l.OnHoldUp),
	}
}
