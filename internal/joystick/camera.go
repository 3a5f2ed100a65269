package joystick

import (
	"math"
	"time"

	"github.com/golang/geo/r2"
)

// CameraStick turns the camera at a speed proportional to deflection, with
// an acceleration that ramps while the stick is held past fullzone.
type CameraStick struct {
	currentSpeed float64
}

func (c *CameraStick) Handle(stick r2.Point, side Side, env Env, _ time.Time, dt time.Duration) {
	aim := env.Settings.Stick.Aim
	amp := amplitude(stick, side, env.Settings)
	if amp >= 1 {
		c.currentSpeed = math.Min(c.currentSpeed+aim.AccelerationRate*dt.Seconds(), aim.AccelerationCap)
	} else {
		c.currentSpeed = 0
	}
	shaped := math.Pow(clamp01(amp), aim.Power)
	offset := stick.Normalize().Mul(aim.SensDPS * dt.Seconds() * (1 + c.currentSpeed) * shaped)
	switch side {
	case SideLeft:
		offset = env.Settings.Stick.LeftInvert.Apply(offset)
	case SideRight:
		offset = env.Settings.Stick.RightInvert.Apply(offset)
	}
	env.Mouse.MoveRelative(env.Settings.Mouse, offset)
}
