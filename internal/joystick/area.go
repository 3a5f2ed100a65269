package joystick

import (
	"math"
	"time"

	"github.com/golang/geo/r2"
)

// AreaStick maps the stick onto a disc of screen pixels around the screen
// center. In ring mode the cursor snaps to the edge of the disc; in area mode
// it moves relatively to follow the stick inside it.
type AreaStick struct {
	ring bool

	hasLast bool
	lastX   int
	lastY   int
}

func NewRingStick() *AreaStick {
	return &AreaStick{ring: true}
}

func NewAreaStick() *AreaStick {
	return &AreaStick{}
}

func (a *AreaStick) Handle(stick r2.Point, side Side, env Env, _ time.Time, _ time.Duration) {
	area := env.Settings.Stick.Area
	amp := clamp01(amplitude(stick, side, env.Settings))
	dir := stick.Normalize()
	radius := float64(area.ScreenRadius)

	if a.ring {
		if amp <= 0 {
			a.hasLast = false
			return
		}
		x := int(math.Round(float64(area.ScreenResolutionX)/2 + dir.X*radius))
		y := int(math.Round(float64(area.ScreenResolutionY)/2 - dir.Y*radius))
		if a.hasLast && x == a.lastX && y == a.lastY {
			return
		}
		a.hasLast, a.lastX, a.lastY = true, x, y
		env.Mouse.MoveAbsolute(x, y)
		return
	}

	target := dir.Mul(amp * radius)
	x := int(math.Round(target.X))
	y := int(math.Round(-target.Y))
	env.Mouse.MovePixels(x-a.lastX, y-a.lastY)
	a.lastX, a.lastY = x, y
}
