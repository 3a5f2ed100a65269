// Package mouse converts angular movement into pixel-exact mouse output.
package mouse

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/soar/gyromouse/internal/config"
	"github.com/soar/gyromouse/internal/output"
)

// Mouse forwards moves to a sink. Relative moves are rounded to whole counts
// and the rounding error is carried to the next move.
//
// Sink errors do not interrupt the caller; the first one is kept until Err.
type Mouse struct {
	sink             output.Sink
	errorAccumulator r2.Point
	moved            r2.Point
	err              error
}

func New(sink output.Sink) *Mouse {
	return &Mouse{sink: sink}
}

// Sink returns the underlying output.
func (m *Mouse) Sink() output.Sink {
	return m.sink
}

// MoveRelative moves by offset, in degrees with the origin bottom left.
func (m *Mouse) MoveRelative(settings config.MouseSettings, offset r2.Point) {
	offset = offset.Mul(settings.RealWorldCalibration * settings.InGameSens)
	sum := offset.Add(m.errorAccumulator)
	rounded := r2.Point{X: math.Round(sum.X), Y: math.Round(sum.Y)}
	m.errorAccumulator = sum.Sub(rounded)
	if rounded.X == 0 && rounded.Y == 0 {
		return
	}
	m.moved = m.moved.Add(rounded)
	m.keep(m.sink.MoveRelative(int(rounded.X), -int(rounded.Y)))
}

// MovePixels moves by whole pixels in screen orientation, bypassing
// calibration.
func (m *Mouse) MovePixels(dx, dy int) {
	if dx == 0 && dy == 0 {
		return
	}
	m.moved = m.moved.Add(r2.Point{X: float64(dx), Y: float64(-dy)})
	m.keep(m.sink.MoveRelative(dx, dy))
}

// MoveAbsolute places the cursor on screen coordinates.
func (m *Mouse) MoveAbsolute(x, y int) {
	m.keep(m.sink.MoveAbsolute(x, y))
}

// Scroll emits wheel ticks, positive up.
func (m *Mouse) Scroll(ticks int) {
	if ticks == 0 {
		return
	}
	m.keep(m.sink.Scroll(ticks))
}

// TakeMoved returns the counts moved since the last call, y up.
func (m *Mouse) TakeMoved() r2.Point {
	moved := m.moved
	m.moved = r2.Point{}
	return moved
}

// Err returns and clears the first sink error since the last call.
func (m *Mouse) Err() error {
	err := m.err
	m.err = nil
	return err
}

func (m *Mouse) keep(err error) {
	if err != nil && m.err == nil {
		m.err = err
	}
}
