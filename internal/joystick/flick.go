package joystick

import (
	"math"
	"time"

	"github.com/golang/geo/r2"
)

type flickState uint8

const (
	flickCenter flickState = iota
	flickFlicking
	flickRotating
)

// FlickStick turns instantly toward the direction the stick is pushed, then
// follows the stick rotation one to one.
type FlickStick struct {
	doFlick  bool
	doRotate bool

	state flickState
	// flicking
	flickStart time.Time
	last       float64
	target     float64
	origin     float64
	// rotating
	oldRotation float64
}

func NewFlickStick(flick, rotate bool) *FlickStick {
	return &FlickStick{doFlick: flick, doRotate: rotate}
}

func (f *FlickStick) Handle(stick r2.Point, side Side, env Env, now time.Time, _ time.Duration) {
	settings := env.Settings.Stick.Flick
	_, fullzone := zones(side, env.Settings)
	var offset float64
	switch {
	case f.state != flickFlicking && stick.Norm() < fullzone:
		f.state = flickCenter
		return
	case f.state == flickCenter:
		angle := angleFromUp(stick)
		if !f.doFlick {
			f.state, f.oldRotation = flickRotating, angle
			return
		}
		target := angle
		if math.Abs(target) < settings.ForwardDeadzoneArc/2 {
			target = 0
		}
		f.state = flickFlicking
		f.flickStart, f.last, f.target, f.origin = now, 0, target, angle
		return
	case f.state == flickFlicking:
		factor := 1.0
		if duration := settings.FlickTime.Seconds() * math.Abs(f.target) / 180; duration > 0 {
			factor = now.Sub(f.flickStart).Seconds() / duration
		}
		current := f.target * ease(math.Min(factor, 1), settings.Exponent)
		offset = current - f.last
		if factor >= 1 {
			f.state, f.oldRotation = flickRotating, f.origin
		} else {
			f.last = current
		}
	default:
		if !f.doRotate {
			return
		}
		angle := angleFromUp(stick)
		offset = angle - f.oldRotation
		f.oldRotation = angle
	}
	env.Mouse.MoveRelative(env.Settings.Mouse, r2.Point{X: wrapDegrees(offset)})
}

// ease is the flick progress at normalized time t. Exponent 0 is linear.
func ease(t, exponent float64) float64 {
	return 1 - math.Pow(1-t, 1+exponent)
}
