package config

import (
	"time"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/soar/gyromouse/internal/mapping"
)

var (
	// ErrUnsupportedStickMode is returned for stick modes that have no strategy.
	ErrUnsupportedStickMode = errors.New("unsupported stick mode")
	// ErrUnsupportedGyroSpace is returned for gyro spaces that have no mapper.
	ErrUnsupportedGyroSpace = errors.New("unsupported gyro space")
	// ErrCutoffConflict is returned when cutoff speed and recovery are both set.
	ErrCutoffConflict = errors.New("GYRO_CUTOFF_SPEED and GYRO_CUTOFF_RECOVERY cannot both be nonzero")
)

// Invert flags each axis of a 2D signal for negation.
type Invert struct {
	X, Y bool
}

// Apply negates the flagged components of p.
func (i Invert) Apply(p r2.Point) r2.Point {
	if i.X {
		p.X = -p.X
	}
	if i.Y {
		p.Y = -p.Y
	}
	return p
}

type AimStickSettings struct {
	// SensDPS is the rotation speed at full deflection, degrees per second.
	SensDPS          float64
	Power            float64
	AccelerationRate float64
	AccelerationCap  float64
}

type FlickStickSettings struct {
	FlickTime time.Duration
	Exponent  float64
	// ForwardDeadzoneArc is the arc around forward, in degrees, that snaps to
	// a zero flick.
	ForwardDeadzoneArc float64
}

type ScrollStickSettings struct {
	// Sens is the stick rotation, in degrees, of one wheel tick.
	Sens float64
}

type AreaStickSettings struct {
	ScreenResolutionX int
	ScreenResolutionY int
	ScreenRadius      int
}

// MotionStickSettings configure the virtual stick driven by device tilt.
// Zones are in degrees.
type MotionStickSettings struct {
	Mode     StickMode
	Ring     RingMode
	Deadzone float64
	Fullzone float64
	Invert   Invert
}

type StickSettings struct {
	Deadzone float64
	Fullzone float64

	Left      StickMode
	Right     StickMode
	LeftRing  RingMode
	RightRing RingMode

	LeftInvert  Invert
	RightInvert Invert

	Aim    AimStickSettings
	Flick  FlickStickSettings
	Scroll ScrollStickSettings
	Area   AreaStickSettings
	Motion MotionStickSettings
}

type GyroSettings struct {
	// Sens is the mouse-to-gyro degree ratio per axis.
	Sens   r2.Point
	Invert Invert
	Space  GyroSpace

	CutoffSpeed     float64
	CutoffRecovery  float64
	SmoothThreshold float64
	SmoothTime      time.Duration

	SlowSens      r2.Point
	SlowThreshold float64
	FastSens      r2.Point
	FastThreshold float64
}

type MouseSettings struct {
	RealWorldCalibration float64
	InGameSens           float64
	CounterOSSpeed       bool
}

// Settings is everything a mapping file configures besides bindings.
type Settings struct {
	Stick StickSettings
	Gyro  GyroSettings
	Mouse MouseSettings

	TriggerThreshold float64
	ZLMode           TriggerMode
	ZRMode           TriggerMode

	HoldDelay           time.Duration
	DoubleClickInterval time.Duration
}

// DefaultSettings returns the settings in effect before any line applies.
func DefaultSettings() Settings {
	return Settings{
		Stick: StickSettings{
			Deadzone:  0.15,
			Fullzone:  0.9,
			Left:      StickNoMouse,
			Right:     StickAim,
			LeftRing:  RingOuter,
			RightRing: RingOuter,
			Aim: AimStickSettings{
				SensDPS:          360,
				Power:            1,
				AccelerationRate: 0,
				AccelerationCap:  1000000,
			},
			Flick: FlickStickSettings{
				FlickTime: 100 * time.Millisecond,
			},
			Scroll: ScrollStickSettings{Sens: 10},
			Area: AreaStickSettings{
				ScreenResolutionX: 1920,
				ScreenResolutionY: 1080,
				ScreenRadius:      50,
			},
			Motion: MotionStickSettings{
				Mode:     StickNoMouse,
				Ring:     RingOuter,
				Deadzone: 15,
				Fullzone: 45,
			},
		},
		Gyro: GyroSettings{
			Sens:       r2.Point{X: 1, Y: 1},
			Space:      SpacePlayerTurn,
			SmoothTime: 125 * time.Millisecond,
		},
		Mouse: MouseSettings{
			RealWorldCalibration: 1,
			InGameSens:           1,
		},
		TriggerThreshold:    0.5,
		ZLMode:              TriggerNoFull,
		ZRMode:              TriggerNoFull,
		HoldDelay:           mapping.DefaultHoldDelay,
		DoubleClickInterval: mapping.DefaultDoubleClickInterval,
	}
}

// Reset restores the defaults.
func (s *Settings) Reset() {
	*s = DefaultSettings()
}

func pair(v, v2 float64, has bool) r2.Point {
	if !has {
		v2 = v
	}
	return r2.Point{X: v, Y: v2}
}

func invertPair(st Setting) Invert {
	second := st.Invert
	if st.HasInvert2 {
		second = st.Invert2
	}
	return Invert{X: st.Invert == InvertInverted, Y: second == InvertInverted}
}

// Apply updates the field a parsed setting names.
func (s *Settings) Apply(st Setting) {
	switch st.Kind {
	case SetTriggerThreshold:
		s.TriggerThreshold = st.Float
	case SetZLMode:
		s.ZLMode = st.TriggerMode
	case SetZRMode:
		s.ZRMode = st.TriggerMode
	case SetLeftStickMode:
		s.Stick.Left = st.StickMode
	case SetRightStickMode:
		s.Stick.Right = st.StickMode
	case SetMotionStickMode:
		s.Stick.Motion.Mode = st.StickMode
	case SetLeftRingMode:
		s.Stick.LeftRing = st.RingMode
	case SetRightRingMode:
		s.Stick.RightRing = st.RingMode
	case SetMotionRingMode:
		s.Stick.Motion.Ring = st.RingMode
	case SetStickDeadzoneInner:
		s.Stick.Deadzone = st.Float
	case SetStickDeadzoneOuter:
		s.Stick.Fullzone = 1 - st.Float
	case SetMotionDeadzoneInner:
		s.Stick.Motion.Deadzone = st.Float
	case SetMotionDeadzoneOuter:
		s.Stick.Motion.Fullzone = st.Float
	case SetStickSens:
		s.Stick.Aim.SensDPS = st.Float
	case SetStickPower:
		s.Stick.Aim.Power = st.Float
	case SetLeftStickAxis:
		s.Stick.LeftInvert = invertPair(st)
	case SetRightStickAxis:
		s.Stick.RightInvert = invertPair(st)
	case SetMotionStickAxis:
		s.Stick.Motion.Invert = invertPair(st)
	case SetStickAccelerationRate:
		s.Stick.Aim.AccelerationRate = st.Float
	case SetStickAccelerationCap:
		s.Stick.Aim.AccelerationCap = st.Float
	case SetFlickTimeExponent:
		s.Stick.Flick.Exponent = st.Float
	case SetFlickTime:
		s.Stick.Flick.FlickTime = st.Duration
	case SetFlickDeadzoneAngle:
		s.Stick.Flick.ForwardDeadzoneArc = st.Float * 2
	case SetScrollSens:
		s.Stick.Scroll.Sens = st.Float
	case SetScreenResolutionX:
		s.Stick.Area.ScreenResolutionX = int(st.Uint)
	case SetScreenResolutionY:
		s.Stick.Area.ScreenResolutionY = int(st.Uint)
	case SetMouseRingRadius:
		s.Stick.Area.ScreenRadius = int(st.Uint)
	case SetGyroSens:
		s.Gyro.Sens = pair(st.Float, st.Float2, st.HasFloat2)
	case SetMinGyroSens:
		s.Gyro.SlowSens = pair(st.Float, st.Float2, st.HasFloat2)
	case SetMinGyroThreshold:
		s.Gyro.SlowThreshold = st.Float
	case SetMaxGyroSens:
		s.Gyro.FastSens = pair(st.Float, st.Float2, st.HasFloat2)
	case SetMaxGyroThreshold:
		s.Gyro.FastThreshold = st.Float
	case SetGyroSpace:
		s.Gyro.Space = st.GyroSpace
	case SetGyroCutoffSpeed:
		s.Gyro.CutoffSpeed = st.Float
	case SetGyroCutoffRecovery:
		s.Gyro.CutoffRecovery = st.Float
	case SetGyroSmoothThreshold:
		s.Gyro.SmoothThreshold = st.Float
	case SetGyroSmoothTime:
		s.Gyro.SmoothTime = st.Duration
	case SetGyroAxisX:
		s.Gyro.Invert.X = st.Invert == InvertInverted
	case SetGyroAxisY:
		s.Gyro.Invert.Y = st.Invert == InvertInverted
	case SetRealWorldCalibration:
		s.Mouse.RealWorldCalibration = st.Float
	case SetInGameSens:
		s.Mouse.InGameSens = st.Float
	case SetCounterOSMouseSpeed:
		s.Mouse.CounterOSSpeed = true
	case SetIgnoreOSMouseSpeed:
		s.Mouse.CounterOSSpeed = false
	case SetHoldPressTime:
		s.HoldDelay = st.Duration
	case SetDblPressWindow:
		s.DoubleClickInterval = st.Duration
	}
}

// CheckStickMode reports whether a stick strategy exists for mode.
func CheckStickMode(mode StickMode) error {
	if mode == StickScrollWheel {
		return errors.Wrap(ErrUnsupportedStickMode, mode.String())
	}
	return nil
}

// Validate reports settings that cannot be run. All problems are returned.
func (s *Settings) Validate() []error {
	var errs []error
	if s.Gyro.CutoffSpeed != 0 && s.Gyro.CutoffRecovery != 0 {
		errs = append(errs, ErrCutoffConflict)
	}
	for _, side := range []struct {
		name string
		mode StickMode
	}{
		{"LEFT_STICK_MODE", s.Stick.Left},
		{"RIGHT_STICK_MODE", s.Stick.Right},
		{"MOTION_STICK_MODE", s.Stick.Motion.Mode},
	} {
		if err := CheckStickMode(side.mode); err != nil {
			errs = append(errs, errors.Wrap(err, side.name))
		}
	}
	if s.Gyro.Space == SpaceWorldLean || s.Gyro.Space == SpacePlayerLean {
		errs = append(errs, errors.Wrap(ErrUnsupportedGyroSpace, s.Gyro.Space.String()))
	}
	if s.Stick.Deadzone >= s.Stick.Fullzone {
		errs = append(errs, errors.Errorf("stick deadzone %v must be below fullzone %v", s.Stick.Deadzone, s.Stick.Fullzone))
	}
	if s.Stick.Motion.Deadzone >= s.Stick.Motion.Fullzone {
		errs = append(errs, errors.Errorf("motion deadzone %v must be below fullzone %v", s.Stick.Motion.Deadzone, s.Stick.Motion.Fullzone))
	}
	if s.TriggerThreshold < 0 || s.TriggerThreshold > 1 {
		errs = append(errs, errors.Errorf("TRIGGER_THRESHOLD %v must be within [0, 1]", s.TriggerThreshold))
	}
	return errs
}
