//go:build linux

package evdev

import (
	"github.com/golang/geo/r3"
	evdev "github.com/gvalkov/golang-evdev"

	"github.com/soar/gyromouse/internal/device"
	"github.com/soar/gyromouse/internal/mapping"
	"github.com/soar/gyromouse/internal/motion"
)

var keyMappings = map[uint16]mapping.JoyKey{
	evdev.BTN_A:          mapping.JoyS,
	evdev.BTN_B:          mapping.JoyE,
	evdev.BTN_X:          mapping.JoyN,
	evdev.BTN_Y:          mapping.JoyW,
	evdev.BTN_TL:         mapping.JoyL,
	evdev.BTN_TR:         mapping.JoyR,
	evdev.BTN_TL2:        mapping.JoyZL,
	evdev.BTN_TR2:        mapping.JoyZR,
	evdev.BTN_SELECT:     mapping.JoyMinus,
	evdev.BTN_START:      mapping.JoyPlus,
	evdev.BTN_MODE:       mapping.JoyHome,
	evdev.BTN_THUMBL:     mapping.JoyL3,
	evdev.BTN_THUMBR:     mapping.JoyR3,
	evdev.BTN_DPAD_UP:    mapping.JoyUp,
	evdev.BTN_DPAD_DOWN:  mapping.JoyDown,
	evdev.BTN_DPAD_LEFT:  mapping.JoyLeft,
	evdev.BTN_DPAD_RIGHT: mapping.JoyRight,
	evdev.BTN_Z:          mapping.JoyCapture,
}

// axisRange is the raw range of an absolute axis.
type axisRange struct {
	min, max int32
}

// defaultRanges apply when the kernel cannot be asked.
var defaultRanges = map[uint16]axisRange{
	evdev.ABS_X:     {-32768, 32767},
	evdev.ABS_Y:     {-32768, 32767},
	evdev.ABS_RX:    {-32768, 32767},
	evdev.ABS_RY:    {-32768, 32767},
	evdev.ABS_Z:     {0, 255},
	evdev.ABS_RZ:    {0, 255},
	evdev.ABS_HAT0X: {-1, 1},
	evdev.ABS_HAT0Y: {-1, 1},
}

// padState folds gamepad events into a report.
type padState struct {
	ranges map[uint16]axisRange
	report device.Report
}

func newPadState(ranges map[uint16]axisRange) *padState {
	merged := make(map[uint16]axisRange, len(defaultRanges))
	for code, r := range defaultRanges {
		merged[code] = r
	}
	for code, r := range ranges {
		merged[code] = r
	}
	return &padState{ranges: merged}
}

func (p *padState) handle(ev evdev.InputEvent) {
	switch ev.Type {
	case evdev.EV_KEY:
		if k, ok := keyMappings[ev.Code]; ok {
			p.report.Keys[k] = ev.Value != 0
		}
	case evdev.EV_ABS:
		r := p.ranges[ev.Code]
		switch ev.Code {
		case evdev.ABS_X:
			p.report.Left.X = device.NormalizeRange(ev.Value, r.min, r.max)
		case evdev.ABS_Y:
			p.report.Left.Y = -device.NormalizeRange(ev.Value, r.min, r.max)
		case evdev.ABS_RX:
			p.report.Right.X = device.NormalizeRange(ev.Value, r.min, r.max)
		case evdev.ABS_RY:
			p.report.Right.Y = -device.NormalizeRange(ev.Value, r.min, r.max)
		case evdev.ABS_Z:
			p.report.LeftTrigger = device.NormalizeTrigger(ev.Value, r.min, r.max)
		case evdev.ABS_RZ:
			p.report.RightTrigger = device.NormalizeTrigger(ev.Value, r.min, r.max)
		case evdev.ABS_HAT0X:
			p.report.Keys[mapping.JoyLeft] = ev.Value < 0
			p.report.Keys[mapping.JoyRight] = ev.Value > 0
		case evdev.ABS_HAT0Y:
			p.report.Keys[mapping.JoyUp] = ev.Value < 0
			p.report.Keys[mapping.JoyDown] = ev.Value > 0
		}
	}
}

// motionState folds a motion sensor node's events into samples, one per
// SYN_REPORT.
type motionState struct {
	// accelRes is in counts per g, gyroRes in counts per deg/s.
	accelRes, gyroRes float64
	accel, gyro       r3.Vector
	dirty             bool
	samples           []motion.Sample
}

func newMotionState(accelRes, gyroRes int32) *motionState {
	m := &motionState{accelRes: float64(accelRes), gyroRes: float64(gyroRes)}
	if m.accelRes <= 0 {
		m.accelRes = 1
	}
	if m.gyroRes <= 0 {
		m.gyroRes = 1
	}
	return m
}

func (m *motionState) handle(ev evdev.InputEvent) {
	switch ev.Type {
	case evdev.EV_ABS:
		v := float64(ev.Value)
		switch ev.Code {
		case evdev.ABS_X:
			m.accel.X = v / m.accelRes
		case evdev.ABS_Y:
			m.accel.Y = v / m.accelRes
		case evdev.ABS_Z:
			m.accel.Z = v / m.accelRes
		case evdev.ABS_RX:
			m.gyro.X = v / m.gyroRes
		case evdev.ABS_RY:
			m.gyro.Y = v / m.gyroRes
		case evdev.ABS_RZ:
			m.gyro.Z = v / m.gyroRes
		default:
			return
		}
		m.dirty = true
	case evdev.EV_SYN:
		if ev.Code == evdev.SYN_REPORT && m.dirty {
			m.samples = append(m.samples, motion.Sample{RotationSpeed: m.gyro, Acceleration: m.accel})
			m.dirty = false
		}
	}
}

func (m *motionState) take() []motion.Sample {
	s := m.samples
	m.samples = nil
	return s
}
