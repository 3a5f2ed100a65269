package app

import (
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"go.uber.org/zap/zaptest"
	"go.viam.com/test"

	"github.com/soar/gyromouse/internal/config"
	"github.com/soar/gyromouse/internal/device"
	"github.com/soar/gyromouse/internal/mapping"
	"github.com/soar/gyromouse/internal/motion"
	"github.com/soar/gyromouse/internal/output"
	"github.com/soar/gyromouse/internal/telemetry"
)

type fakeController struct {
	info    device.ControllerInfo
	rumbles int
}

func (c *fakeController) Info() device.ControllerInfo { return c.info }

func (c *fakeController) Rumble(low, high uint16, d time.Duration) error {
	c.rumbles++
	return nil
}

type harness struct {
	mapper *Mapper
	rec    *output.Recorder
	ctrl   *fakeController
	start  time.Time
}

func newHarness(t *testing.T, mappingFile string, sensors bool, window time.Duration) *harness {
	t.Helper()
	logger := zaptest.NewLogger(t).Sugar()
	settings := config.DefaultSettings()
	buttons := mapping.NewButtons()
	test.That(t, config.Load(mappingFile, &settings, buttons, logger), test.ShouldBeEmpty)

	h := &harness{
		rec:   &output.Recorder{},
		ctrl:  &fakeController{info: device.ControllerInfo{ID: 3, Name: "Pro Controller", HasSensors: sensors}},
		start: time.Now(),
	}
	h.mapper = NewMapper(Config{
		Settings:          settings,
		Buttons:           buttons,
		Fusion:            motion.FusionSimple,
		CalibrationWindow: window,
	}, h.rec, nil, logger)
	return h
}

func (h *harness) at(ms int) time.Time {
	return h.start.Add(time.Duration(ms) * time.Millisecond)
}

func (h *harness) report(t *testing.T, r device.Report, ms int) {
	t.Helper()
	test.That(t, h.mapper.Report(h.ctrl.info.ID, r, h.at(ms)), test.ShouldBeNil)
}

func pressed(keys ...mapping.JoyKey) device.Report {
	var r device.Report
	for _, k := range keys {
		r.Keys[k] = true
	}
	return r
}

func TestTapThroughReports(t *testing.T) {
	h := newHarness(t, "S = h'", false, 0)
	h.mapper.Connected(h.ctrl, h.at(0))
	h.report(t, pressed(mapping.JoyS), 0)
	h.report(t, pressed(mapping.JoyS), 10)
	h.report(t, pressed(), 50)
	h.report(t, pressed(), 300)
	test.That(t, h.rec.Strings(), test.ShouldResemble, []string{"key_down h", "key_up h"})
}

func TestTriggerThreshold(t *testing.T) {
	h := newHarness(t, "ZL = lmouse\nTRIGGER_THRESHOLD = 0.4", false, 0)
	h.mapper.Connected(h.ctrl, h.at(0))

	h.report(t, device.Report{LeftTrigger: 0.3}, 0)
	test.That(t, h.rec.Events(), test.ShouldBeEmpty)

	h.report(t, device.Report{LeftTrigger: 0.4}, 10)
	h.report(t, device.Report{LeftTrigger: 0.9}, 20)
	h.report(t, device.Report{LeftTrigger: 0.1}, 30)
	test.That(t, h.rec.Strings(), test.ShouldResemble, []string{"mouse_down lmouse", "mouse_up lmouse"})
}

func TestUnknownControllerIgnored(t *testing.T) {
	h := newHarness(t, "S = h'", false, 0)
	test.That(t, h.mapper.Report(42, pressed(mapping.JoyS), h.at(0)), test.ShouldBeNil)
	test.That(t, h.rec.Events(), test.ShouldBeEmpty)
}

func TestCalibrationWindow(t *testing.T) {
	h := newHarness(t, "GYRO_SPACE = LOCAL", true, 100*time.Millisecond)
	h.mapper.Connected(h.ctrl, h.at(0))
	test.That(t, h.mapper.Status()[0].Calibrating, test.ShouldBeTrue)

	drift := motion.Sample{RotationSpeed: r3.Vector{Y: -30}, Acceleration: r3.Vector{Y: 1}}
	frame := device.Report{Motion: []motion.Sample{drift, drift}}
	h.report(t, frame, 0)
	h.report(t, frame, 60)
	test.That(t, h.ctrl.rumbles, test.ShouldEqual, 0)
	h.report(t, frame, 120)
	test.That(t, h.ctrl.rumbles, test.ShouldEqual, 1)
	test.That(t, h.rec.Events(), test.ShouldBeEmpty)

	h.report(t, frame, 140)
	test.That(t, h.rec.Events(), test.ShouldBeEmpty)

	turn := motion.Sample{RotationSpeed: r3.Vector{Y: -130}, Acceleration: r3.Vector{Y: 1}}
	h.report(t, device.Report{Motion: []motion.Sample{turn}}, 240)
	dx, _ := h.rec.Moved()
	test.That(t, dx, test.ShouldBeGreaterThan, 0)
}

func TestMotionIgnoredWithoutSensors(t *testing.T) {
	h := newHarness(t, "GYRO_SPACE = LOCAL", false, 100*time.Millisecond)
	h.mapper.Connected(h.ctrl, h.at(0))
	turn := motion.Sample{RotationSpeed: r3.Vector{Y: -130}, Acceleration: r3.Vector{Y: 1}}
	h.report(t, device.Report{Motion: []motion.Sample{turn}}, 0)
	h.report(t, device.Report{Motion: []motion.Sample{turn}}, 100)
	test.That(t, h.rec.Events(), test.ShouldBeEmpty)
	test.That(t, h.mapper.Status()[0].Calibrating, test.ShouldBeFalse)
}

func TestPause(t *testing.T) {
	h := newHarness(t, "S = h", false, 0)
	h.mapper.Connected(h.ctrl, h.at(0))
	h.report(t, pressed(mapping.JoyS), 0)
	test.That(t, h.rec.Strings(), test.ShouldResemble, []string{"key_down h"})

	h.mapper.SetPaused(true)
	test.That(t, h.mapper.Paused(), test.ShouldBeTrue)
	h.report(t, pressed(mapping.JoyS), 10)
	test.That(t, h.rec.Strings(), test.ShouldResemble, []string{"key_down h", "key_up h"})

	h.report(t, pressed(), 20)
	h.report(t, pressed(mapping.JoyS), 30)
	test.That(t, h.rec.Events(), test.ShouldHaveLength, 2)

	h.mapper.SetPaused(false)
	h.report(t, pressed(), 40)
	h.report(t, pressed(mapping.JoyS), 50)
	test.That(t, h.rec.Strings()[2:], test.ShouldResemble, []string{"key_down h"})
}

func TestDisconnectReleasesOutputs(t *testing.T) {
	h := newHarness(t, "S = h", false, 0)
	h.mapper.Connected(h.ctrl, h.at(0))
	h.report(t, pressed(mapping.JoyS), 0)
	h.mapper.Disconnected(h.ctrl.info.ID)
	test.That(t, h.rec.Strings(), test.ShouldResemble, []string{"key_down h", "key_up h"})
	test.That(t, h.mapper.Status(), test.ShouldBeEmpty)
}

func TestSnapshots(t *testing.T) {
	h := newHarness(t, "S = h", false, 0)
	updates := h.mapper.Subscribe(16)
	h.mapper.Connected(h.ctrl, h.at(0))

	u := <-updates
	test.That(t, u.Event, test.ShouldNotBeNil)
	test.That(t, u.Event.Kind, test.ShouldEqual, telemetry.EventConnected)
	test.That(t, u.Event.Controller, test.ShouldEqual, 3)
	u = <-updates
	test.That(t, u.Snapshot, test.ShouldNotBeNil)
	test.That(t, u.Snapshot.Keys, test.ShouldBeEmpty)

	r := pressed(mapping.JoyS)
	r.Left.X = 0.5
	h.report(t, r, 10)
	test.That(t, len(updates), test.ShouldEqual, 0)

	h.report(t, r, 60)
	u = <-updates
	// The default left stick is a button stick, so 0.5 right presses LRight.
	test.That(t, u.Snapshot.Keys, test.ShouldResemble, []string{"S", "LRight"})
	test.That(t, u.Snapshot.Left, test.ShouldResemble, telemetry.Vec2{X: 0.5})
	test.That(t, u.Snapshot.Layers, test.ShouldResemble, []int{0})

	status := h.mapper.Status()
	test.That(t, status, test.ShouldHaveLength, 1)
	test.That(t, status[0].Name, test.ShouldEqual, "Pro Controller")

	h.mapper.Disconnected(3)
	u = <-updates
	test.That(t, u.Event.Kind, test.ShouldEqual, telemetry.EventDisconnected)
}
