package config

import (
	"strings"
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/soar/gyromouse/internal/mapping"
	"github.com/soar/gyromouse/internal/output"
)

func mustKey(t *testing.T, name string) mapping.MapKey {
	t.Helper()
	k, ok := mapping.ParseMapKey(name)
	test.That(t, ok, test.ShouldBeTrue)
	return k
}

func TestParseLines(t *testing.T) {
	valid := []string{
		"S = h'",
		"  e = space",
		"W = lmouse r_",
		"N,E = ^x",
		"ZL+ZR = a",
		"- = !esc/",
		"+ = x_start",
		"LUp = gyro_off",
		"RESET_MAPPINGS",
		"reset_mappings",
		"gyro_on",
		"GYRO_SENS = 2.5",
		"GYRO_SENS = 2 3",
		"gyro_space = world_turn",
		"LEFT_STICK_MODE = FLICK_ONLY",
		"RIGHT_STICK_AXIS = INVERTED STANDARD",
		"SCREEN_RESOLUTION_X = 2560",
		"COUNTER_OS_MOUSE_SPEED",
		"FLICK_TIME = 0.2 # seconds",
		"ZR_MODE = MAY_SKIP_R",
	}
	invalid := []string{
		"S =",
		"S h",
		"Q = h",
		"GYRO_SENS = fast",
		"GYRO_SPACE = SIDEWAYS",
		"SCREEN_RESOLUTION_X = -5",
		"S = h'g",
		"RESET_MAPPINGS now",
		"S = ??",
		"COUNTER_OS_MOUSE_SPEED = 1",
	}
	for _, line := range valid {
		t.Run(line, func(t *testing.T) {
			cmds, errs := Parse(line)
			test.That(t, errs, test.ShouldBeEmpty)
			test.That(t, cmds, test.ShouldHaveLength, 1)
		})
	}
	for _, line := range invalid {
		t.Run(line, func(t *testing.T) {
			cmds, errs := Parse(line)
			test.That(t, cmds, test.ShouldBeEmpty)
			test.That(t, errs, test.ShouldHaveLength, 1)
			test.That(t, errs[0].Line, test.ShouldEqual, 1)
			test.That(t, errs[0].Text, test.ShouldEqual, line)
		})
	}
}

func TestParseRecoversPerLine(t *testing.T) {
	content := strings.Join([]string{
		"# comment",
		"S = h'",
		"GYRO_SENS = nope",
		"",
		"E = space",
		"bogus line",
		"GYRO_SPACE = LOCAL\r",
	}, "\n")
	cmds, errs := Parse(content)
	test.That(t, cmds, test.ShouldHaveLength, 3)
	test.That(t, errs, test.ShouldHaveLength, 2)
	test.That(t, errs[0].Line, test.ShouldEqual, 3)
	test.That(t, errs[0].Column, test.ShouldEqual, 13)
	test.That(t, errs[0].Expected, test.ShouldResemble, []string{"a number"})
	test.That(t, errs[1].Line, test.ShouldEqual, 6)
	test.That(t, errs[1].Column, test.ShouldEqual, 1)
	test.That(t, errs[0].Error(), test.ShouldContainSubstring, "line 3 column 13")
}

func TestParseBinding(t *testing.T) {
	cmds, errs := Parse("N,E = ^x lmouse_ gyro_on\\")
	test.That(t, errs, test.ShouldBeEmpty)
	m, ok := cmds[0].(MapCmd)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, m.Key, test.ShouldResemble, Key{Kind: KeyChorded, First: mustKey(t, "N"), Second: mustKey(t, "E")})
	x, _ := output.CharKey('x')
	test.That(t, m.Actions, test.ShouldResemble, []Action{
		{Modifier: ModToggle, Kind: ActionKey, Key: x},
		{Event: EventHold, Kind: ActionMouse, Button: output.ButtonLeft},
		{Event: EventStart, Kind: ActionSpecial, Special: SpecialGyroOn},
	})
	test.That(t, m.Actions[0].String(), test.ShouldEqual, "^x")
	test.That(t, m.Key.String(), test.ShouldEqual, "N,E")
}

func TestParseHoldSuffixOnNamedAction(t *testing.T) {
	cmds, errs := Parse("S = x_a_ enter'")
	test.That(t, errs, test.ShouldBeEmpty)
	m := cmds[0].(MapCmd)
	test.That(t, m.Actions[0].Kind, test.ShouldEqual, ActionGamepad)
	test.That(t, m.Actions[0].Gamepad, test.ShouldEqual, output.GamepadA)
	test.That(t, m.Actions[0].Event, test.ShouldEqual, EventHold)
	test.That(t, m.Actions[1].Event, test.ShouldEqual, EventTap)
}

func TestParseSettings(t *testing.T) {
	for _, tc := range []struct {
		line string
		want Setting
	}{
		{"GYRO_SENS = 2", Setting{Kind: SetGyroSens, Float: 2}},
		{"MIN_GYRO_SENS = 1 0.5", Setting{Kind: SetMinGyroSens, Float: 1, Float2: 0.5, HasFloat2: true}},
		{"MOUSE_RING_RADIUS = 120", Setting{Kind: SetMouseRingRadius, Uint: 120}},
		{"GYRO_SMOOTH_TIME = 0.25", Setting{Kind: SetGyroSmoothTime, Duration: 250 * time.Millisecond}},
		{"HOLD_PRESS_TIME = 150", Setting{Kind: SetHoldPressTime, Duration: 150 * time.Millisecond}},
		{"MOTION_RING_MODE = inner", Setting{Kind: SetMotionRingMode, RingMode: RingInner}},
		{"LEFT_STICK_AXIS = INVERTED", Setting{Kind: SetLeftStickAxis, Invert: InvertInverted}},
		{"ZL_MODE = NO_SKIP_EXCLUSIVE", Setting{Kind: SetZLMode, TriggerMode: TriggerNoSkipExclusive}},
		{"IGNORE_OS_MOUSE_SPEED", Setting{Kind: SetIgnoreOSMouseSpeed}},
		{"STICK_ACCELERATION_CAP = 1e3", Setting{Kind: SetStickAccelerationCap, Float: 1000}},
	} {
		t.Run(tc.line, func(t *testing.T) {
			cmds, errs := Parse(tc.line)
			test.That(t, errs, test.ShouldBeEmpty)
			test.That(t, cmds, test.ShouldResemble, []Cmd{SettingCmd{Setting: tc.want}})
		})
	}
}

func TestParseEnumErrorListsChoices(t *testing.T) {
	_, errs := Parse("LEFT_RING_MODE = MIDDLE")
	test.That(t, errs, test.ShouldHaveLength, 1)
	test.That(t, errs[0].Column, test.ShouldEqual, 18)
	test.That(t, errs[0].Expected, test.ShouldResemble, []string{"INNER", "OUTER"})
}
