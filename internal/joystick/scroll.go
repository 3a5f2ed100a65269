package joystick

import (
	"math"
	"time"

	"github.com/golang/geo/r2"
)

// ScrollStick scrolls by rotating the stick around its rim. Fractions of a
// tick carry over to the next call.
type ScrollStick struct {
	scrolling bool
	lastAngle float64
	acc       float64
}

func (s *ScrollStick) Handle(stick r2.Point, side Side, env Env, _ time.Time, _ time.Duration) {
	_, fullzone := zones(side, env.Settings)
	if stick.Norm() < fullzone {
		s.scrolling = false
		return
	}
	angle := angleFromUp(stick)
	if !s.scrolling {
		s.scrolling, s.lastAngle, s.acc = true, angle, 0
		return
	}
	s.acc += wrapDegrees(angle-s.lastAngle) / env.Settings.Stick.Scroll.Sens
	s.lastAngle = angle
	ticks := math.Trunc(s.acc)
	s.acc -= ticks
	// clockwise scrolls down
	env.Mouse.Scroll(-int(ticks))
}
