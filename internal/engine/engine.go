// Package engine runs one controller's mapping: it feeds sticks, gyro and
// buttons, and dispatches the resulting actions to the output sinks.
package engine

import (
	"time"

	"github.com/golang/geo/r2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/soar/gyromouse/internal/config"
	"github.com/soar/gyromouse/internal/joystick"
	"github.com/soar/gyromouse/internal/mapping"
	"github.com/soar/gyromouse/internal/motion"
	"github.com/soar/gyromouse/internal/mouse"
	"github.com/soar/gyromouse/internal/output"
)

// Options are engine choices made outside the mapping file.
type Options struct {
	Fusion motion.FusionKind
	// Gamepad executes virtual gamepad actions. Nil drops them.
	Gamepad output.GamepadSink
}

// Engine is the mapping state of one controller. It is driven from a single
// goroutine: every Handle call and ApplyActions must come from the same loop.
type Engine struct {
	settings    config.Settings
	left        joystick.Stick
	right       joystick.Stick
	motionStick *joystick.MotionStick
	buttons     *mapping.Buttons
	mouse       *mouse.Mouse
	gyro        *Gyro
	gamepad     output.GamepadSink
	logger      *zap.SugaredLogger

	// held are the outputs pressed and not yet released.
	held          map[heldOutput]struct{}
	paused        bool
	warnedGamepad bool
}

// New builds an engine. settings must pass Validate; buttons is owned by the
// engine from now on.
func New(
	settings config.Settings,
	buttons *mapping.Buttons,
	calibration motion.Calibration,
	sink output.Sink,
	opts Options,
	logger *zap.SugaredLogger,
) (*Engine, error) {
	if err := multierr.Combine(settings.Validate()...); err != nil {
		return nil, err
	}
	left, err := joystick.New(settings.Stick.Left, settings.Stick.LeftRing)
	if err != nil {
		return nil, err
	}
	right, err := joystick.New(settings.Stick.Right, settings.Stick.RightRing)
	if err != nil {
		return nil, err
	}
	inner, err := joystick.New(settings.Stick.Motion.Mode, settings.Stick.Motion.Ring)
	if err != nil {
		return nil, err
	}
	gyro, err := NewGyro(settings.Gyro, calibration, opts.Fusion)
	if err != nil {
		return nil, err
	}
	return &Engine{
		settings:    settings,
		left:        left,
		right:       right,
		motionStick: joystick.NewMotionStick(inner),
		buttons:     buttons,
		mouse:       mouse.New(sink),
		gyro:        gyro,
		gamepad:     opts.Gamepad,
		logger:      logger,
		held:        make(map[heldOutput]struct{}),
	}, nil
}

// Buttons exposes the key state machine for key_down and key_up.
func (e *Engine) Buttons() *mapping.Buttons {
	return e.buttons
}

func (e *Engine) Settings() *config.Settings {
	return &e.settings
}

func (e *Engine) Gyro() *Gyro {
	return e.gyro
}

func (e *Engine) env() joystick.Env {
	return joystick.Env{Settings: &e.settings, Buttons: e.buttons, Mouse: e.mouse}
}

func (e *Engine) HandleLeftStick(stick r2.Point, now time.Time, dt time.Duration) {
	if e.paused {
		return
	}
	e.left.Handle(stick, joystick.SideLeft, e.env(), now, dt)
}

func (e *Engine) HandleRightStick(stick r2.Point, now time.Time, dt time.Duration) {
	if e.paused {
		return
	}
	e.right.Handle(stick, joystick.SideRight, e.env(), now, dt)
}

// HandleMotionFrame feeds the motion samples received since the last frame.
// Orientation tracking continues while paused.
func (e *Engine) HandleMotionFrame(samples []motion.Sample, dt time.Duration) {
	enabled := e.gyro.Enabled()
	if e.paused {
		e.gyro.SetEnabled(false)
	}
	e.gyro.HandleFrame(&e.settings, samples, e.mouse, dt)
	e.gyro.SetEnabled(enabled)
}

// HandleMotionStick drives the tilt stick from the current orientation. It
// follows HandleMotionFrame.
func (e *Engine) HandleMotionStick(now time.Time, dt time.Duration) {
	if e.paused {
		return
	}
	e.motionStick.Handle(e.gyro.UpVector(), e.env(), now, dt)
}

func (e *Engine) SetCalibration(c motion.Calibration) {
	e.gyro.SetCalibration(c)
}

// TakeMoved returns the mouse counts moved since the last call.
func (e *Engine) TakeMoved() r2.Point {
	return e.mouse.TakeMoved()
}

// Paused reports whether output is suspended.
func (e *Engine) Paused() bool {
	return e.paused
}

// SetPaused suspends or resumes output. Pausing releases every held output.
func (e *Engine) SetPaused(paused bool) error {
	if paused == e.paused {
		return nil
	}
	e.paused = paused
	if !paused {
		return nil
	}
	var err error
	for h := range e.held {
		err = multierr.Append(err, e.release(h))
	}
	return err
}

// Close releases held outputs.
func (e *Engine) Close() error {
	return e.SetPaused(true)
}
