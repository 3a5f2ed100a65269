// Package joystick converts analog stick positions into mouse movement or
// virtual key presses. Stick vectors are in [-1, 1]² with y up.
package joystick

import (
	"math"
	"time"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/soar/gyromouse/internal/config"
	"github.com/soar/gyromouse/internal/mapping"
	"github.com/soar/gyromouse/internal/mouse"
)

// Side is the stick a strategy is driving.
type Side uint8

const (
	SideLeft Side = iota
	SideRight
	// SideMotion is the virtual stick derived from device tilt. Its input is
	// already normalized to its zones.
	SideMotion
)

var sideStrings = map[Side]string{
	SideLeft:   "left",
	SideRight:  "right",
	SideMotion: "motion",
}

func (s Side) String() string {
	return sideStrings[s]
}

// Env is what a strategy acts on.
type Env struct {
	Settings *config.Settings
	Buttons  *mapping.Buttons
	Mouse    *mouse.Mouse
}

// Stick is one stick mode. Implementations keep their own state between
// calls and are replaced when the mode changes.
type Stick interface {
	Handle(stick r2.Point, side Side, env Env, now time.Time, dt time.Duration)
}

// New builds the strategy for mode.
func New(mode config.StickMode, ring config.RingMode) (Stick, error) {
	switch mode {
	case config.StickAim:
		return &CameraStick{}, nil
	case config.StickFlick, config.StickFlickOnly, config.StickRotateOnly:
		return NewFlickStick(mode != config.StickRotateOnly, mode != config.StickFlickOnly), nil
	case config.StickMouseRing:
		return NewRingStick(), nil
	case config.StickMouseArea:
		return NewAreaStick(), nil
	case config.StickNoMouse:
		return NewButtonStick(ring), nil
	default:
		if err := config.CheckStickMode(mode); err != nil {
			return nil, err
		}
		return nil, errors.Errorf("unknown stick mode %d", mode)
	}
}

// zones returns the deadzone and fullzone applying to side.
func zones(side Side, settings *config.Settings) (deadzone, fullzone float64) {
	if side == SideMotion {
		return 0, 1
	}
	return settings.Stick.Deadzone, settings.Stick.Fullzone
}

// amplitude maps the stick magnitude between the zones to [0, 1], unclamped.
func amplitude(stick r2.Point, side Side, settings *config.Settings) float64 {
	dz, fz := zones(side, settings)
	return (stick.Norm() - dz) / (fz - dz)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// angleFromUp is the signed angle in degrees from up to stick, positive
// clockwise.
func angleFromUp(stick r2.Point) float64 {
	return math.Atan2(stick.X, stick.Y) * 180 / math.Pi
}

// wrapDegrees maps an angle to (-180, 180].
func wrapDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	switch {
	case a > 180:
		a -= 360
	case a <= -180:
		a += 360
	}
	return a
}

func (s Side) virtualKey(offset mapping.VirtualKey) mapping.MapKey {
	return (mapping.VirtualKey(s)*(mapping.MRing-mapping.MUp+1) + offset).MapKey()
}
