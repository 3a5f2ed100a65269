package motion

import (
	"math"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// SensorFusion tracks the gravity direction in the device frame.
type SensorFusion interface {
	UpVector() r3.Vector
	ComputeUpVector(s Sample, dt time.Duration) r3.Vector
}

// FusionKind selects a SensorFusion implementation.
type FusionKind int

const (
	FusionAdaptive FusionKind = iota
	FusionSimple
)

var fusionKindStrings = map[FusionKind]string{
	FusionAdaptive: "adaptive",
	FusionSimple:   "simple",
}

func (k FusionKind) String() string {
	if s, ok := fusionKindStrings[k]; ok {
		return s
	}
	return "unknown"
}

// ParseFusionKind parses "simple" or "adaptive".
func ParseFusionKind(s string) (FusionKind, error) {
	for k, name := range fusionKindStrings {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}
	return 0, errors.Errorf("unknown fusion %q, expected simple or adaptive", s)
}

// NewFusion returns a fresh fusion state of the given kind.
func NewFusion(kind FusionKind) SensorFusion {
	if kind == FusionSimple {
		return NewSimpleFusion()
	}
	return NewAdaptiveFusion()
}

// inverseRotate rotates v by the inverse of the rotation rot*dt, rot being
// a rotation vector in deg/s.
func inverseRotate(v, rot r3.Vector, dt time.Duration) r3.Vector {
	rv := rot.Mul(dt.Seconds() * math.Pi / 180)
	angle := rv.Norm()
	if angle == 0 {
		return v
	}
	axis := rv.Mul(1 / angle)
	q := mgl64.QuatRotate(angle, mgl64.Vec3{axis.X, axis.Y, axis.Z}).Inverse()
	out := q.Rotate(mgl64.Vec3{v.X, v.Y, v.Z})
	return r3.Vector{X: out[0], Y: out[1], Z: out[2]}
}

// SimpleFusion blends the gyro-integrated up vector toward the measured
// acceleration with a fixed factor.
type SimpleFusion struct {
	upVector         r3.Vector
	correctionFactor float64
}

func NewSimpleFusion() *SimpleFusion {
	return &SimpleFusion{
		upVector:         r3.Vector{X: 0, Y: 1, Z: 0},
		correctionFactor: 0.02,
	}
}

func (f *SimpleFusion) UpVector() r3.Vector {
	return f.upVector
}

func (f *SimpleFusion) ComputeUpVector(s Sample, dt time.Duration) r3.Vector {
	f.upVector = inverseRotate(f.upVector, s.RotationSpeed, dt)
	f.upVector = f.upVector.Add(s.Acceleration.Normalize().Sub(f.upVector).Mul(f.correctionFactor))
	// Normalize returns the zero vector when degenerate.
	f.upVector = f.upVector.Normalize()
	return f.upVector
}

const (
	smoothingHalfTime          = 0.25
	shakinessMinThreshold      = 0.4
	shakinessMaxThreshold      = 0.01
	stillRate                  = 1.0
	shakyRate                  = 0.1
	correctionGyroFactor       = 0.1
	correctionGyroMinThreshold = 0.05
	correctionGyroMaxThreshold = 0.25
	correctionMinSpeed         = 0.01
)

// AdaptiveFusion lowers its trust in the accelerometer while the device is
// shaken, and never corrects faster than the current rotation allows.
type AdaptiveFusion struct {
	shakiness   float64
	smoothAccel r3.Vector
	upVector    r3.Vector
	seeded      bool
}

func NewAdaptiveFusion() *AdaptiveFusion {
	return &AdaptiveFusion{}
}

func (f *AdaptiveFusion) UpVector() r3.Vector {
	return f.upVector
}

func (f *AdaptiveFusion) ComputeUpVector(s Sample, dt time.Duration) r3.Vector {
	acc := s.Acceleration
	// The first sample seeds both estimates; from zero the up vector would
	// take seconds to reach gravity at the correction rates below.
	if !f.seeded {
		f.upVector = acc
		f.smoothAccel = acc
		f.seeded = true
		return f.upVector
	}

	f.upVector = inverseRotate(f.upVector, s.RotationSpeed, dt)
	f.smoothAccel = inverseRotate(f.smoothAccel, s.RotationSpeed, dt)

	// Fraction of the smoothed acceleration kept after dt. It halves every
	// smoothingHalfTime and stays within [0, 1] for any dt.
	smoothInterpolator := 0.0
	if smoothingHalfTime > 0 {
		smoothInterpolator = math.Exp2(-dt.Seconds() / smoothingHalfTime)
	}
	f.shakiness = math.Max(f.shakiness*smoothInterpolator, acc.Sub(f.smoothAccel).Norm())
	f.smoothAccel = acc.Add(f.smoothAccel.Sub(acc).Mul(smoothInterpolator))

	upDelta := acc.Sub(f.upVector)
	upDirection := upDelta.Normalize()
	shakeFactor := normalize(f.shakiness, shakinessMinThreshold, shakinessMaxThreshold)
	correctionRate := stillRate + (shakyRate-stillRate)*shakeFactor

	angleRate := s.RotationSpeed.Mul(dt.Seconds()).Norm() * math.Pi / 180
	correctionLimit := angleRate * f.upVector.Norm() * correctionGyroFactor
	if correctionRate > correctionLimit {
		closeEnough := normalize(upDelta.Norm(), correctionGyroMinThreshold, correctionGyroMaxThreshold)
		correctionRate += (correctionLimit - correctionRate) * closeEnough
	}
	correctionRate = math.Max(correctionRate, correctionMinSpeed)

	correction := upDirection.Mul(correctionRate * dt.Seconds())
	if correction.Norm2() < upDelta.Norm2() {
		f.upVector = f.upVector.Add(correction)
	} else {
		f.upVector = f.upVector.Add(upDelta)
	}
	return f.upVector
}

// normalize maps val to 0..1 between min and max. When min >= max it is a
// step at max.
func normalize(val, min, max float64) float64 {
	var n float64
	if min >= max {
		if val > max {
			n = 1
		}
	} else {
		n = (val - min) / (max - min)
	}
	return math.Min(math.Max(n, 0), 1)
}
