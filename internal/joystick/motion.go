package joystick

import (
	"math"
	"time"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// MotionStick drives a stick strategy from device tilt.
type MotionStick struct {
	stick Stick
}

func NewMotionStick(inner Stick) *MotionStick {
	return &MotionStick{stick: inner}
}

// Handle tilts the virtual stick by the angle between up and the device
// vertical axis. The tilt is normalized by the motion zones, in degrees,
// before it reaches the inner strategy.
func (m *MotionStick) Handle(up r3.Vector, env Env, now time.Time, dt time.Duration) {
	motion := env.Settings.Stick.Motion
	up = up.Normalize()
	tilt := r2.Point{X: -math.Asin(up.X), Y: math.Asin(up.Z)}.Mul(180 / math.Pi)
	tilt = motion.Invert.Apply(tilt)
	amp := clamp01((tilt.Norm() - motion.Deadzone) / (motion.Fullzone - motion.Deadzone))
	m.stick.Handle(tilt.Normalize().Mul(amp), SideMotion, env, now, dt)
}
