package engine

import (
	"testing"
	"time"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/zap/zaptest"
	"go.viam.com/test"

	"github.com/soar/gyromouse/internal/config"
	"github.com/soar/gyromouse/internal/mapping"
	"github.com/soar/gyromouse/internal/motion"
	"github.com/soar/gyromouse/internal/output"
)

type harness struct {
	engine  *Engine
	rec     *output.Recorder
	gamepad *output.Recorder
	start   time.Time
}

func newHarness(t *testing.T, mappingFile string, withGamepad bool) *harness {
	t.Helper()
	logger := zaptest.NewLogger(t).Sugar()
	settings := config.DefaultSettings()
	buttons := mapping.NewButtons()
	test.That(t, config.Load(mappingFile, &settings, buttons, logger), test.ShouldBeEmpty)

	h := &harness{rec: &output.Recorder{}, start: time.Now()}
	opts := Options{Fusion: motion.FusionSimple}
	if withGamepad {
		h.gamepad = &output.Recorder{}
		opts.Gamepad = h.gamepad
	}
	e, err := New(settings, buttons, motion.EmptyCalibration(), h.rec, opts, logger)
	test.That(t, err, test.ShouldBeNil)
	h.engine = e
	return h
}

func (h *harness) at(ms int) time.Time {
	return h.start.Add(time.Duration(ms) * time.Millisecond)
}

func (h *harness) key(t *testing.T, name string, pressed bool, ms int) {
	t.Helper()
	k, ok := mapping.ParseMapKey(name)
	test.That(t, ok, test.ShouldBeTrue)
	h.engine.Buttons().Key(k, pressed, h.at(ms))
	test.That(t, h.engine.ApplyActions(h.at(ms)), test.ShouldBeNil)
}

func TestTapEndToEnd(t *testing.T) {
	h := newHarness(t, "S = h'", false)
	h.key(t, "S", true, 0)
	h.key(t, "S", false, 50)
	test.That(t, h.engine.ApplyActions(h.at(500)), test.ShouldBeNil)
	test.That(t, h.rec.Strings(), test.ShouldResemble, []string{"key_down h", "key_up h"})
}

func TestPressAndRelease(t *testing.T) {
	h := newHarness(t, "S = lmouse\nE = a b", false)
	h.key(t, "S", true, 0)
	h.key(t, "S", false, 300)
	h.key(t, "E", true, 400)
	test.That(t, h.engine.ApplyActions(h.at(550)), test.ShouldBeNil)
	h.key(t, "E", false, 600)
	test.That(t, h.rec.Strings(), test.ShouldResemble, []string{
		"mouse_down lmouse",
		"mouse_up lmouse",
		"key_down b",
		"key_up b",
	})
}

func TestToggleAction(t *testing.T) {
	h := newHarness(t, "N = ^d", false)
	h.key(t, "N", true, 0)
	h.key(t, "N", false, 10)
	test.That(t, h.rec.Strings(), test.ShouldResemble, []string{"key_down d"})
	h.key(t, "N", true, 20)
	h.key(t, "N", false, 30)
	test.That(t, h.rec.Strings(), test.ShouldResemble, []string{"key_down d", "key_up d"})
}

func TestGyroOnOff(t *testing.T) {
	h := newHarness(t, "L = gyro_off\nR = ^gyro_on", false)
	gyro := h.engine.Gyro()
	test.That(t, gyro.Enabled(), test.ShouldBeTrue)
	h.key(t, "L", true, 0)
	test.That(t, gyro.Enabled(), test.ShouldBeFalse)
	h.key(t, "L", false, 10)
	test.That(t, gyro.Enabled(), test.ShouldBeTrue)
	h.key(t, "R", true, 20)
	test.That(t, gyro.Enabled(), test.ShouldBeFalse)
	h.key(t, "R", false, 30)
	h.key(t, "R", true, 40)
	test.That(t, gyro.Enabled(), test.ShouldBeTrue)
}

func TestGamepadActions(t *testing.T) {
	h := newHarness(t, "S = x_a", false)
	h.key(t, "S", true, 0)
	h.key(t, "S", false, 10)
	test.That(t, h.rec.Events(), test.ShouldBeEmpty)

	h = newHarness(t, "S = x_a", true)
	h.key(t, "S", true, 0)
	h.key(t, "S", false, 10)
	test.That(t, h.gamepad.Strings(), test.ShouldResemble, []string{"gamepad_down x_a", "gamepad_up x_a"})
}

func TestPauseReleasesHeldOutputs(t *testing.T) {
	h := newHarness(t, "S = a\nE = b'", false)
	h.key(t, "S", true, 0)
	test.That(t, h.engine.SetPaused(true), test.ShouldBeNil)
	test.That(t, h.engine.Paused(), test.ShouldBeTrue)
	h.key(t, "E", true, 10)
	h.engine.HandleRightStick(r2.Point{X: 1}, h.at(10), 10*time.Millisecond)
	test.That(t, h.rec.Strings(), test.ShouldResemble, []string{"key_down a", "key_up a"})

	test.That(t, h.engine.SetPaused(false), test.ShouldBeNil)
	h.key(t, "E", false, 20)
	h.key(t, "E", true, 30)
	test.That(t, h.rec.Strings(), test.ShouldResemble, []string{"key_down a", "key_up a", "key_down b", "key_up b"})
}

func TestApplyActionsReturnsSinkErrors(t *testing.T) {
	h := newHarness(t, "S = a", false)
	h.rec.Err = errors.New("device gone")
	h.engine.Buttons().KeyDown(mapping.JoyS.MapKey(), h.at(0))
	err := h.engine.ApplyActions(h.at(0))
	test.That(t, err, test.ShouldBeError, "device gone")

	h.engine.HandleRightStick(r2.Point{X: 1}, h.at(10), 100*time.Millisecond)
	test.That(t, h.engine.ApplyActions(h.at(10)), test.ShouldBeError, "device gone")
	test.That(t, h.engine.ApplyActions(h.at(20)), test.ShouldBeNil)
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	logger := zaptest.NewLogger(t).Sugar()
	for _, tc := range []struct {
		line string
		want error
	}{
		{"GYRO_CUTOFF_SPEED = 1\nGYRO_CUTOFF_RECOVERY = 1", config.ErrCutoffConflict},
		{"GYRO_SPACE = WORLD_LEAN", config.ErrUnsupportedGyroSpace},
		{"RIGHT_STICK_MODE = SCROLL_WHEEL", config.ErrUnsupportedStickMode},
	} {
		settings := config.DefaultSettings()
		buttons := mapping.NewButtons()
		config.Load(tc.line, &settings, buttons, logger)
		_, err := New(settings, buttons, motion.EmptyCalibration(), &output.Recorder{}, Options{}, logger)
		test.That(t, errors.Is(err, tc.want), test.ShouldBeTrue)
	}
}

func TestGyroFrame(t *testing.T) {
	h := newHarness(t, "GYRO_SPACE = LOCAL\nGYRO_SENS = 2", false)
	sample := motion.Sample{RotationSpeed: r3.Vector{Y: -50}, Acceleration: r3.Vector{Y: 1}}
	h.engine.HandleMotionFrame([]motion.Sample{sample, sample}, 200*time.Millisecond)
	dx, dy := h.rec.Moved()
	test.That(t, dx, test.ShouldEqual, 20)
	test.That(t, dy, test.ShouldEqual, 0)
	test.That(t, h.engine.TakeMoved(), test.ShouldResemble, r2.Point{X: 20})

	h.rec.Reset()
	h.engine.Gyro().SetEnabled(false)
	h.engine.HandleMotionFrame([]motion.Sample{sample}, 100*time.Millisecond)
	test.That(t, h.rec.Events(), test.ShouldBeEmpty)

	h.engine.Gyro().SetEnabled(true)
	test.That(t, h.engine.SetPaused(true), test.ShouldBeNil)
	h.engine.HandleMotionFrame([]motion.Sample{sample}, 100*time.Millisecond)
	test.That(t, h.rec.Events(), test.ShouldBeEmpty)
	test.That(t, h.engine.Gyro().Enabled(), test.ShouldBeTrue)
}

func TestGyroCalibrationAndInvert(t *testing.T) {
	h := newHarness(t, "GYRO_SPACE = LOCAL\nGYRO_AXIS_X = INVERTED", false)
	h.engine.SetCalibration(motion.NewCalibration(r3.Vector{Y: 10}))
	sample := motion.Sample{RotationSpeed: r3.Vector{Y: -90}, Acceleration: r3.Vector{Y: 1}}
	h.engine.HandleMotionFrame([]motion.Sample{sample}, 100*time.Millisecond)
	dx, _ := h.rec.Moved()
	test.That(t, dx, test.ShouldEqual, -10)
}
