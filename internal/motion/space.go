package motion

import (
	"math"
	"time"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// SpaceMapper projects a rotation speed onto a 2D yaw/pitch signal given
// the current up vector.
type SpaceMapper interface {
	Map(rot, up r3.Vector) r2.Point
}

// LocalSpace uses the device axes directly.
type LocalSpace struct{}

func (LocalSpace) Map(rot, _ r3.Vector) r2.Point {
	return r2.Point{X: -rot.Y, Y: rot.X}
}

// WorldSpace turns around gravity and pitches around the horizontal axis.
type WorldSpace struct{}

func (WorldSpace) Map(rot, up r3.Vector) r2.Point {
	flatness := math.Abs(up.Y)
	upness := math.Abs(up.Z)
	sideReduction := clamp01(math.Max(flatness, upness) - 0.125)

	yaw := -rot.Dot(up)

	pitchAxis := r3.Vector{X: 1}.Sub(up.Mul(up.X))
	pitch := 0.0
	if pitchAxis.Norm2() > 0 {
		pitch = sideReduction * rot.Dot(pitchAxis.Normalize())
	}
	return r2.Point{X: yaw, Y: pitch}
}

// PlayerSpace mixes local yaw and roll according to gravity, bounded by
// the raw yaw/roll magnitude.
type PlayerSpace struct {
	YawRelaxFactor float64
}

func NewPlayerSpace() PlayerSpace {
	return PlayerSpace{YawRelaxFactor: 1.41}
}

func (p PlayerSpace) Map(rot, up r3.Vector) r2.Point {
	worldYaw := rot.Y*up.Y + rot.Z*up.Z
	raw := math.Hypot(rot.Y, rot.Z)
	return r2.Point{
		X: -math.Copysign(1, worldYaw) * math.Min(math.Abs(worldYaw)*p.YawRelaxFactor, raw),
		Y: rot.X,
	}
}

// MapInput updates the fusion with s and maps its rotation speed.
func MapInput(s Sample, dt time.Duration, fusion SensorFusion, mapper SpaceMapper) r2.Point {
	up := fusion.ComputeUpVector(s, dt)
	return mapper.Map(s.RotationSpeed, up)
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
