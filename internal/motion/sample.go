// Package motion turns raw gyroscope and accelerometer samples into a 2D
// yaw/pitch signal: bias calibration, gravity tracking and space mapping.
package motion

import (
	"github.com/golang/geo/r3"
)

// GravityMS2 converts accelerometer readings in m/s² to g.
const GravityMS2 = 9.82

// Sample is one gyroscope/accelerometer reading.
type Sample struct {
	RotationSpeed r3.Vector // deg/s
	Acceleration  r3.Vector // g
}
