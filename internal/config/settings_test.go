package config

import (
	"testing"
	"time"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestApplyConversions(t *testing.T) {
	s := DefaultSettings()
	s.Apply(Setting{Kind: SetStickDeadzoneOuter, Float: 0.2})
	test.That(t, s.Stick.Fullzone, test.ShouldAlmostEqual, 0.8, 1e-9)
	s.Apply(Setting{Kind: SetFlickDeadzoneAngle, Float: 10})
	test.That(t, s.Stick.Flick.ForwardDeadzoneArc, test.ShouldEqual, 20.0)
	s.Apply(Setting{Kind: SetGyroSens, Float: 3})
	test.That(t, s.Gyro.Sens, test.ShouldResemble, r2.Point{X: 3, Y: 3})
	s.Apply(Setting{Kind: SetMaxGyroSens, Float: 4, Float2: 2, HasFloat2: true})
	test.That(t, s.Gyro.FastSens, test.ShouldResemble, r2.Point{X: 4, Y: 2})
	s.Apply(Setting{Kind: SetRightStickAxis, Invert: InvertInverted})
	test.That(t, s.Stick.RightInvert, test.ShouldResemble, Invert{X: true, Y: true})
	s.Apply(Setting{Kind: SetMotionStickAxis, Invert: InvertStandard, Invert2: InvertInverted, HasInvert2: true})
	test.That(t, s.Stick.Motion.Invert, test.ShouldResemble, Invert{Y: true})
	s.Apply(Setting{Kind: SetCounterOSMouseSpeed})
	test.That(t, s.Mouse.CounterOSSpeed, test.ShouldBeTrue)
	s.Apply(Setting{Kind: SetDblPressWindow, Duration: 300 * time.Millisecond})
	test.That(t, s.DoubleClickInterval, test.ShouldEqual, 300*time.Millisecond)

	s.Reset()
	test.That(t, s, test.ShouldResemble, DefaultSettings())
}

func TestInvertApply(t *testing.T) {
	test.That(t, Invert{X: true}.Apply(r2.Point{X: 1, Y: 2}), test.ShouldResemble, r2.Point{X: -1, Y: 2})
	test.That(t, Invert{}.Apply(r2.Point{X: 1, Y: 2}), test.ShouldResemble, r2.Point{X: 1, Y: 2})
}

func TestValidate(t *testing.T) {
	s := DefaultSettings()
	test.That(t, s.Validate(), test.ShouldBeEmpty)

	s.Gyro.CutoffSpeed = 1
	s.Gyro.CutoffRecovery = 2
	s.Stick.Left = StickScrollWheel
	s.Gyro.Space = SpacePlayerLean
	errs := s.Validate()
	test.That(t, errs, test.ShouldHaveLength, 3)
	test.That(t, errors.Is(errs[0], ErrCutoffConflict), test.ShouldBeTrue)
	test.That(t, errors.Is(errs[1], ErrUnsupportedStickMode), test.ShouldBeTrue)
	test.That(t, errs[1].Error(), test.ShouldContainSubstring, "LEFT_STICK_MODE")
	test.That(t, errors.Is(errs[2], ErrUnsupportedGyroSpace), test.ShouldBeTrue)

	s = DefaultSettings()
	s.Stick.Deadzone = 0.95
	test.That(t, s.Validate(), test.ShouldHaveLength, 1)
}
