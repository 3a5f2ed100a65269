package mouse

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/soar/gyromouse/internal/config"
	"github.com/soar/gyromouse/internal/output"
)

func TestMoveRelativeCarriesError(t *testing.T) {
	var rec output.Recorder
	m := New(&rec)
	settings := config.DefaultSettings().Mouse

	for i := 0; i < 10; i++ {
		m.MoveRelative(settings, r2.Point{X: 0.3, Y: -0.25})
	}
	dx, dy := rec.Moved()
	test.That(t, dx, test.ShouldEqual, 3)
	// y is flipped to screen orientation
	test.That(t, dy, test.ShouldBeBetweenOrEqual, 2, 3)
	for _, e := range rec.Events() {
		test.That(t, e.X == 0 && e.Y == 0, test.ShouldBeFalse)
	}
}

func TestMoveRelativeScales(t *testing.T) {
	var rec output.Recorder
	m := New(&rec)
	settings := config.MouseSettings{RealWorldCalibration: 5, InGameSens: 2}
	m.MoveRelative(settings, r2.Point{X: 1, Y: 1})
	test.That(t, rec.Strings(), test.ShouldResemble, []string{"move_relative 10 -10"})
	test.That(t, m.TakeMoved(), test.ShouldResemble, r2.Point{X: 10, Y: 10})
	test.That(t, m.TakeMoved(), test.ShouldResemble, r2.Point{})
}

func TestErrKeepsFirst(t *testing.T) {
	rec := output.Recorder{Err: errors.New("device gone")}
	m := New(&rec)
	m.MovePixels(1, 1)
	m.MoveAbsolute(4, 4)
	test.That(t, m.Err(), test.ShouldBeError, "device gone")
	test.That(t, m.Err(), test.ShouldBeNil)
}

func TestScrollSkipsZero(t *testing.T) {
	var rec output.Recorder
	m := New(&rec)
	m.Scroll(0)
	m.Scroll(-2)
	test.That(t, rec.Strings(), test.ShouldResemble, []string{"scroll -2"})
}
