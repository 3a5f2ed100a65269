// Package gyromouse turns a 2D angular velocity into mouse movement, with
// optional smoothing, tightening and acceleration.
package gyromouse

import (
	"math"
	"time"

	"github.com/golang/geo/r2"

	"github.com/soar/gyromouse/internal/config"
)

// GyroMouse holds the smoothing history of one gyro.
type GyroMouse struct {
	smoothBuffer []r2.Point
}

// Process maps rot, in degrees per second, to a movement in degrees over dt.
// Both have their origin bottom left.
func (g *GyroMouse) Process(settings config.GyroSettings, rot r2.Point, dt time.Duration) r2.Point {
	if settings.SmoothThreshold > 0 {
		rot = g.tieredSmooth(settings, rot, dt)
	}
	// cutoff speed and recovery are exclusive, see Settings.Validate
	if settings.CutoffRecovery > 0 {
		rot = tight(settings, rot)
	}
	sens := sensitivity(settings, rot)
	return r2.Point{X: rot.X * sens.X, Y: rot.Y * sens.Y}.Mul(dt.Seconds())
}

// Reset drops the smoothing history.
func (g *GyroMouse) Reset() {
	g.smoothBuffer = g.smoothBuffer[:0]
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func (g *GyroMouse) tieredSmooth(settings config.GyroSettings, rot r2.Point, dt time.Duration) r2.Point {
	high := settings.SmoothThreshold
	low := high / 2
	weight := clamp01((rot.Norm() - low) / (high - low))
	return rot.Mul(weight).Add(g.smooth(settings, rot.Mul(1-weight), dt))
}

// smooth averages rot with the samples of the last SmoothTime. The window
// is measured with the current dt, so it follows wall-clock time.
func (g *GyroMouse) smooth(settings config.GyroSettings, rot r2.Point, dt time.Duration) r2.Point {
	g.smoothBuffer = append(g.smoothBuffer, rot)
	for len(g.smoothBuffer) > 1 && dt*time.Duration(len(g.smoothBuffer)) > settings.SmoothTime {
		g.smoothBuffer = g.smoothBuffer[1:]
	}
	var sum r2.Point
	for _, v := range g.smoothBuffer {
		sum = sum.Add(v)
	}
	return sum.Mul(1 / float64(len(g.smoothBuffer)))
}

func tight(settings config.GyroSettings, rot r2.Point) r2.Point {
	if mag := rot.Norm(); mag < settings.CutoffRecovery {
		return rot.Mul(mag / settings.CutoffRecovery)
	}
	return rot
}

func sensitivity(settings config.GyroSettings, rot r2.Point) r2.Point {
	if settings.SlowSens.Norm() == 0 && settings.FastSens.Norm() == 0 {
		return settings.Sens
	}
	mag := rot.Norm()
	var factor float64
	if settings.FastThreshold > settings.SlowThreshold {
		factor = clamp01((mag - settings.SlowThreshold) / (settings.FastThreshold - settings.SlowThreshold))
	} else if mag >= settings.FastThreshold {
		factor = 1
	}
	return settings.SlowSens.Mul(1 - factor).Add(settings.FastSens.Mul(factor))
}
