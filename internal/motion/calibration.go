package motion

import (
	"time"

	"github.com/golang/geo/r3"
)

// Calibration removes a constant gyroscope bias from samples.
type Calibration struct {
	bias r3.Vector
}

// EmptyCalibration returns the identity calibration.
func EmptyCalibration() Calibration {
	return Calibration{}
}

// NewCalibration returns a calibration subtracting bias from rotation speed.
func NewCalibration(bias r3.Vector) Calibration {
	return Calibration{bias: bias}
}

// Bias returns the rotation speed offset removed by Calibrate.
func (c Calibration) Bias() r3.Vector {
	return c.bias
}

// Calibrate subtracts the bias from the rotation speed. Acceleration is
// left untouched.
func (c Calibration) Calibrate(s Sample) Sample {
	return Sample{
		RotationSpeed: s.RotationSpeed.Sub(c.bias),
		Acceleration:  s.Acceleration,
	}
}

// Calibrator accumulates samples taken at rest and averages their rotation
// speed into a bias.
type Calibrator struct {
	start   time.Time
	started bool
	sum     r3.Vector
	count   int
}

// Push adds a sample and reports whether window has elapsed since the first
// one.
func (c *Calibrator) Push(s Sample, now time.Time, window time.Duration) bool {
	if !c.started {
		c.start = now
		c.started = true
	}
	c.sum = c.sum.Add(s.RotationSpeed)
	c.count++
	return now.Sub(c.start) >= window
}

// Samples returns how many samples were pushed.
func (c *Calibrator) Samples() int {
	return c.count
}

// Finish freezes the accumulated mean into a Calibration.
func (c *Calibrator) Finish() Calibration {
	if c.count == 0 {
		return EmptyCalibration()
	}
	return NewCalibration(c.sum.Mul(1 / float64(c.count)))
}
