package motion

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestLocalSpaceIgnoresUpVector(t *testing.T) {
	rot := r3.Vector{X: 3, Y: -7, Z: 11}
	for _, up := range []r3.Vector{{}, {Y: 1}, {X: 1}, {X: 0.3, Y: -0.4, Z: 0.86}} {
		test.That(t, LocalSpace{}.Map(rot, up), test.ShouldResemble, r2.Point{X: 7, Y: 3})
	}
}

func TestWorldSpace(t *testing.T) {
	flat := r3.Vector{Y: 1}

	yaw := WorldSpace{}.Map(r3.Vector{Y: 10}, flat)
	test.That(t, yaw.X, test.ShouldAlmostEqual, -10, 1e-9)
	test.That(t, yaw.Y, test.ShouldAlmostEqual, 0, 1e-9)

	pitch := WorldSpace{}.Map(r3.Vector{X: 10}, flat)
	test.That(t, pitch.X, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, pitch.Y, test.ShouldAlmostEqual, 8.75, 1e-9)

	// up along x leaves no horizontal pitch axis
	degenerate := WorldSpace{}.Map(r3.Vector{X: 10}, r3.Vector{X: 1})
	test.That(t, degenerate.Y, test.ShouldEqual, 0)
}

func TestPlayerSpace(t *testing.T) {
	p := NewPlayerSpace()
	flat := r3.Vector{Y: 1}

	out := p.Map(r3.Vector{Y: 10}, flat)
	test.That(t, out.X, test.ShouldAlmostEqual, -10, 1e-9)
	test.That(t, out.Y, test.ShouldAlmostEqual, 0, 1e-9)

	// tilted 45°: world yaw is relaxed up to the raw yaw/roll magnitude
	tilted := r3.Vector{Y: 0.7071067811865476, Z: 0.7071067811865476}
	out = p.Map(r3.Vector{Y: 10}, tilted)
	test.That(t, out.X, test.ShouldAlmostEqual, -7.0710678*1.41, 1e-6)

	out = p.Map(r3.Vector{X: 5}, flat)
	test.That(t, out.Y, test.ShouldAlmostEqual, 5, 1e-9)
	test.That(t, out.X, test.ShouldAlmostEqual, 0, 1e-9)
}

func TestMapInput(t *testing.T) {
	f := NewSimpleFusion()
	out := MapInput(Sample{RotationSpeed: r3.Vector{Y: 20}, Acceleration: r3.Vector{Y: 1}}, 0, f, NewPlayerSpace())
	test.That(t, out.X, test.ShouldAlmostEqual, -20, 1e-9)
}
