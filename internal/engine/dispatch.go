package engine

import (
	"time"

	"go.uber.org/multierr"

	"github.com/soar/gyromouse/internal/mapping"
	"github.com/soar/gyromouse/internal/output"
)

type heldOutput struct {
	kind mapping.ExtKind
	code int
}

func heldFor(a mapping.ExtAction) heldOutput {
	switch a.Kind {
	case mapping.ExtKeyPress:
		return heldOutput{kind: a.Kind, code: int(a.Key)}
	case mapping.ExtMousePress:
		return heldOutput{kind: a.Kind, code: int(a.Button)}
	default:
		return heldOutput{kind: a.Kind, code: int(a.Gamepad)}
	}
}

// ApplyActions resolves button timeouts and executes the resulting
// actions. It must be called every loop iteration. The errors of every
// failed output are returned together.
func (e *Engine) ApplyActions(now time.Time) error {
	actions := e.buttons.Tick(now)
	err := e.mouse.Err()
	if e.paused {
		return err
	}
	for _, a := range actions {
		switch a.Kind {
		case mapping.ExtGyroOn, mapping.ExtGyroOff:
			e.applyGyro(a)
		case mapping.ExtKeyPress, mapping.ExtMousePress, mapping.ExtGamepadKeyPress:
			err = multierr.Append(err, e.press(a))
		}
	}
	return err
}

func (e *Engine) applyGyro(a mapping.ExtAction) {
	on := a.Kind == mapping.ExtGyroOn
	switch a.Click {
	case mapping.Press:
		e.gyro.SetEnabled(on)
	case mapping.Release:
		e.gyro.SetEnabled(!on)
	case mapping.Toggle:
		e.gyro.SetEnabled(!e.gyro.Enabled())
	case mapping.Click:
		e.logger.Warnw("click has no effect on gyro on/off", "action", a)
	}
}

func (e *Engine) press(a mapping.ExtAction) error {
	if a.Kind == mapping.ExtGamepadKeyPress && e.gamepad == nil {
		if !e.warnedGamepad {
			e.warnedGamepad = true
			e.logger.Warnw("virtual gamepad actions need the virtual gamepad enabled", "action", a)
		}
		return nil
	}
	h := heldFor(a)
	_, held := e.held[h]
	switch a.Click {
	case mapping.Press:
		return e.down(h)
	case mapping.Release:
		if !held {
			return nil
		}
		return e.release(h)
	case mapping.Toggle:
		if held {
			return e.release(h)
		}
		return e.down(h)
	default:
		return e.click(h)
	}
}

func (e *Engine) down(h heldOutput) error {
	e.held[h] = struct{}{}
	sink := e.mouse.Sink()
	switch h.kind {
	case mapping.ExtKeyPress:
		return sink.KeyDown(output.Key(h.code))
	case mapping.ExtMousePress:
		return sink.MouseDown(output.Button(h.code))
	default:
		return e.gamepad.GamepadDown(output.GamepadButton(h.code))
	}
}

func (e *Engine) release(h heldOutput) error {
	delete(e.held, h)
	sink := e.mouse.Sink()
	switch h.kind {
	case mapping.ExtKeyPress:
		return sink.KeyUp(output.Key(h.code))
	case mapping.ExtMousePress:
		return sink.MouseUp(output.Button(h.code))
	default:
		return e.gamepad.GamepadUp(output.GamepadButton(h.code))
	}
}

func (e *Engine) click(h heldOutput) error {
	if h.kind == mapping.ExtMousePress {
		return e.mouse.Sink().MouseClick(output.Button(h.code))
	}
	return multierr.Append(e.down(h), e.release(h))
}
