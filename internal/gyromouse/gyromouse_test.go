package gyromouse

import (
	"testing"
	"time"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"github.com/soar/gyromouse/internal/config"
)

const tick = 10 * time.Millisecond

func TestFlatSensitivity(t *testing.T) {
	settings := config.DefaultSettings().Gyro
	settings.Sens = r2.Point{X: 2, Y: 3}
	var g GyroMouse
	out := g.Process(settings, r2.Point{X: 100, Y: -50}, tick)
	test.That(t, out.X, test.ShouldAlmostEqual, 2.0, 1e-9)
	test.That(t, out.Y, test.ShouldAlmostEqual, -1.5, 1e-9)
}

func TestTightening(t *testing.T) {
	settings := config.DefaultSettings().Gyro
	settings.CutoffRecovery = 10
	var g GyroMouse

	out := g.Process(settings, r2.Point{X: 5}, time.Second)
	test.That(t, out.X, test.ShouldAlmostEqual, 2.5, 1e-9)
	out = g.Process(settings, r2.Point{}, time.Second)
	test.That(t, out, test.ShouldResemble, r2.Point{})
	out = g.Process(settings, r2.Point{X: 20}, time.Second)
	test.That(t, out.X, test.ShouldAlmostEqual, 20.0, 1e-9)
}

func TestAcceleration(t *testing.T) {
	settings := config.DefaultSettings().Gyro
	settings.SlowSens = r2.Point{X: 1, Y: 1}
	settings.FastSens = r2.Point{X: 3, Y: 3}
	settings.SlowThreshold = 10
	settings.FastThreshold = 30
	for _, tc := range []struct {
		speed float64
		sens  float64
	}{
		{0, 1},
		{10, 1},
		{20, 2},
		{30, 3},
		{100, 3},
	} {
		test.That(t, sensitivity(settings, r2.Point{X: tc.speed}).X, test.ShouldAlmostEqual, tc.sens, 1e-9)
	}

	settings.FastThreshold = settings.SlowThreshold
	test.That(t, sensitivity(settings, r2.Point{X: 5}).X, test.ShouldEqual, 1.0)
	test.That(t, sensitivity(settings, r2.Point{X: 15}).X, test.ShouldEqual, 3.0)
}

func TestSmoothingConvergesAboveThreshold(t *testing.T) {
	settings := config.DefaultSettings().Gyro
	settings.SmoothThreshold = 10
	var g GyroMouse
	rot := r2.Point{X: 40, Y: 0}
	var out r2.Point
	for i := 0; i < 50; i++ {
		out = g.Process(settings, rot, tick)
	}
	test.That(t, out.X, test.ShouldAlmostEqual, rot.X*tick.Seconds(), 1e-9)
}

func TestSmoothingAveragesSlowMotion(t *testing.T) {
	settings := config.DefaultSettings().Gyro
	settings.SmoothThreshold = 10
	settings.SmoothTime = 40 * time.Millisecond
	var g GyroMouse

	// below half the threshold the signal is fully smoothed
	out := g.Process(settings, r2.Point{X: 4}, tick)
	test.That(t, out.X, test.ShouldAlmostEqual, 4*tick.Seconds(), 1e-9)
	out = g.Process(settings, r2.Point{}, tick)
	test.That(t, out.X, test.ShouldAlmostEqual, 2*tick.Seconds(), 1e-9)
	for i := 0; i < 3; i++ {
		out = g.Process(settings, r2.Point{}, tick)
	}
	test.That(t, out.X, test.ShouldAlmostEqual, 0.0, 1e-12)
	test.That(t, len(g.smoothBuffer), test.ShouldEqual, 4)
}

func TestSmoothBufferKeepsOneSample(t *testing.T) {
	settings := config.DefaultSettings().Gyro
	settings.SmoothThreshold = 10
	settings.SmoothTime = time.Millisecond
	var g GyroMouse
	out := g.Process(settings, r2.Point{Y: 2}, tick)
	test.That(t, out.Y, test.ShouldAlmostEqual, 2*tick.Seconds(), 1e-9)
	test.That(t, len(g.smoothBuffer), test.ShouldEqual, 1)

	g.Reset()
	test.That(t, g.smoothBuffer, test.ShouldBeEmpty)
}
