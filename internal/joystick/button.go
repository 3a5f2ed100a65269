package joystick

import (
	"math"
	"time"

	"github.com/golang/geo/r2"

	"github.com/soar/gyromouse/internal/config"
	"github.com/soar/gyromouse/internal/mapping"
)

// ButtonStick presses the direction and ring virtual keys of its side.
type ButtonStick struct {
	ring config.RingMode
	// epsilon is the half width of a direction sector, in degrees.
	epsilon float64
}

func NewButtonStick(ring config.RingMode) *ButtonStick {
	const halfAngle = 30
	return &ButtonStick{ring: ring, epsilon: 90 - halfAngle}
}

func (b *ButtonStick) Handle(stick r2.Point, side Side, env Env, now time.Time, _ time.Duration) {
	amp := clamp01(amplitude(stick, side, env.Settings))
	keys := env.Buttons
	if amp <= 0 {
		for _, k := range []mapping.VirtualKey{mapping.LUp, mapping.LDown, mapping.LLeft, mapping.LRight, mapping.LRing} {
			keys.KeyUp(side.virtualKey(k), now)
		}
		return
	}
	ring := amp >= 1
	if b.ring == config.RingInner {
		ring = amp < 1
	}
	keys.Key(side.virtualKey(mapping.LRing), ring, now)

	up := angleFromUp(stick)
	keys.Key(side.virtualKey(mapping.LUp), b.within(up), now)
	keys.Key(side.virtualKey(mapping.LDown), b.within(wrapDegrees(up-180)), now)
	keys.Key(side.virtualKey(mapping.LRight), b.within(up-90), now)
	keys.Key(side.virtualKey(mapping.LLeft), b.within(up+90), now)
}

func (b *ButtonStick) within(angle float64) bool {
	return math.Abs(wrapDegrees(angle)) <= b.epsilon
}
