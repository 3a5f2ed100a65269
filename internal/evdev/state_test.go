//go:build linux

package evdev

import (
	"testing"

	"github.com/golang/geo/r3"
	evdev "github.com/gvalkov/golang-evdev"
	"go.viam.com/test"

	"github.com/soar/gyromouse/internal/mapping"
)

func ev(typ, code uint16, value int32) evdev.InputEvent {
	return evdev.InputEvent{Type: typ, Code: code, Value: value}
}

func TestPadState(t *testing.T) {
	p := newPadState(map[uint16]axisRange{evdev.ABS_X: {0, 255}, evdev.ABS_Y: {0, 255}})

	p.handle(ev(evdev.EV_KEY, evdev.BTN_A, 1))
	p.handle(ev(evdev.EV_KEY, evdev.BTN_X, 1))
	p.handle(ev(evdev.EV_ABS, evdev.ABS_X, 255))
	p.handle(ev(evdev.EV_ABS, evdev.ABS_Y, 0))
	p.handle(ev(evdev.EV_ABS, evdev.ABS_RY, 32767))
	p.handle(ev(evdev.EV_ABS, evdev.ABS_Z, 255))
	p.handle(ev(evdev.EV_ABS, evdev.ABS_HAT0Y, -1))

	r := p.report
	test.That(t, r.Pressed(mapping.JoyS), test.ShouldBeTrue)
	test.That(t, r.Pressed(mapping.JoyN), test.ShouldBeTrue)
	test.That(t, r.Pressed(mapping.JoyUp), test.ShouldBeTrue)
	test.That(t, r.Pressed(mapping.JoyDown), test.ShouldBeFalse)
	test.That(t, r.Left.X, test.ShouldAlmostEqual, 1.0)
	test.That(t, r.Left.Y, test.ShouldAlmostEqual, 1.0)
	test.That(t, r.Right.Y, test.ShouldAlmostEqual, -1.0)
	test.That(t, r.LeftTrigger, test.ShouldEqual, 1.0)

	p.handle(ev(evdev.EV_KEY, evdev.BTN_A, 0))
	p.handle(ev(evdev.EV_ABS, evdev.ABS_HAT0Y, 0))
	test.That(t, p.report.Pressed(mapping.JoyS), test.ShouldBeFalse)
	test.That(t, p.report.Pressed(mapping.JoyUp), test.ShouldBeFalse)
}

func TestMotionState(t *testing.T) {
	m := newMotionState(8192, 1024)

	m.handle(ev(evdev.EV_ABS, evdev.ABS_Y, 8192))
	m.handle(ev(evdev.EV_ABS, evdev.ABS_RX, 2048))
	m.handle(ev(evdev.EV_SYN, evdev.SYN_REPORT, 0))
	m.handle(ev(evdev.EV_SYN, evdev.SYN_REPORT, 0))
	m.handle(ev(evdev.EV_ABS, evdev.ABS_RZ, -1024))
	m.handle(ev(evdev.EV_SYN, evdev.SYN_REPORT, 0))

	samples := m.take()
	test.That(t, samples, test.ShouldHaveLength, 2)
	test.That(t, samples[0].Acceleration, test.ShouldResemble, r3.Vector{Y: 1})
	test.That(t, samples[0].RotationSpeed, test.ShouldResemble, r3.Vector{X: 2})
	test.That(t, samples[1].RotationSpeed, test.ShouldResemble, r3.Vector{X: 2, Z: -1})
	test.That(t, m.take(), test.ShouldBeEmpty)
}
