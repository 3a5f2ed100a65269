package gamepad

import (
	"github.com/jupiterrider/purego-sdl3/sdl"

	"github.com/soar/gyromouse/internal/device"
	"github.com/soar/gyromouse/internal/mapping"
)

// buttonMapping binds an SDL gamepad button to a physical key. SDL reports
// buttons by position, so the face buttons map to compass keys.
type buttonMapping struct {
	Button sdl.GamepadButton
	Key    mapping.JoyKey
}

var buttonMappings = []buttonMapping{
	{sdl.GamepadButtonSouth, mapping.JoyS},
	{sdl.GamepadButtonEast, mapping.JoyE},
	{sdl.GamepadButtonWest, mapping.JoyW},
	{sdl.GamepadButtonNorth, mapping.JoyN},
	{sdl.GamepadButtonBack, mapping.JoyMinus},
	{sdl.GamepadButtonGuide, mapping.JoyHome},
	{sdl.GamepadButtonStart, mapping.JoyPlus},
	{sdl.GamepadButtonMisc1, mapping.JoyCapture},
	{sdl.GamepadButtonLeftStick, mapping.JoyL3},
	{sdl.GamepadButtonRightStick, mapping.JoyR3},
	{sdl.GamepadButtonLeftShoulder, mapping.JoyL},
	{sdl.GamepadButtonRightShoulder, mapping.JoyR},
	{sdl.GamepadButtonLeftPaddle1, mapping.JoySL},
	{sdl.GamepadButtonRightPaddle1, mapping.JoySR},
	{sdl.GamepadButtonDpadUp, mapping.JoyUp},
	{sdl.GamepadButtonDpadDown, mapping.JoyDown},
	{sdl.GamepadButtonDpadLeft, mapping.JoyLeft},
	{sdl.GamepadButtonDpadRight, mapping.JoyRight},
}

// SDL3 reports triggers in 0..32767.
const triggerMax = 32767

func readReport(g *sdl.Gamepad) device.Report {
	var r device.Report
	for _, bm := range buttonMappings {
		r.Keys[bm.Key] = getGamepadButton(g, bm.Button)
	}
	r.Left.X = device.NormalizeAxis(getGamepadAxis(g, sdl.GamepadAxisLeftX))
	r.Left.Y = -device.NormalizeAxis(getGamepadAxis(g, sdl.GamepadAxisLeftY))
	r.Right.X = device.NormalizeAxis(getGamepadAxis(g, sdl.GamepadAxisRightX))
	r.Right.Y = -device.NormalizeAxis(getGamepadAxis(g, sdl.GamepadAxisRightY))
	r.LeftTrigger = device.NormalizeTrigger(int32(getGamepadAxis(g, sdl.GamepadAxisLeftTrigger)), 0, triggerMax)
	r.RightTrigger = device.NormalizeTrigger(int32(getGamepadAxis(g, sdl.GamepadAxisRightTrigger)), 0, triggerMax)
	return r
}
