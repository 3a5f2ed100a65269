package config

import (
	"go.uber.org/zap"

	"github.com/soar/gyromouse/internal/mapping"
)

// Load parses content and applies every parsed line to settings and
// buttons, in order. Lines that failed to parse are returned.
func Load(content string, settings *Settings, buttons *mapping.Buttons, logger *zap.SugaredLogger) []ParseError {
	cmds, errs := Parse(content)
	Apply(cmds, settings, buttons, logger)
	return errs
}

// Apply runs parsed commands against settings and buttons. Unsupported
// features are logged and skipped.
func Apply(cmds []Cmd, settings *Settings, buttons *mapping.Buttons, logger *zap.SugaredLogger) {
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case MapCmd:
			bind(c, buttons, logger)
		case SettingCmd:
			settings.Apply(c.Setting)
			switch c.Setting.Kind {
			case SetHoldPressTime:
				buttons.HoldDelay = settings.HoldDelay
			case SetDblPressWindow:
				buttons.DoubleClickInterval = settings.DoubleClickInterval
			case SetCounterOSMouseSpeed:
				logger.Warnw("countering the OS mouse speed is not supported", "setting", c.Setting.Kind)
			case SetZLMode, SetZRMode:
				if c.Setting.TriggerMode != TriggerNoFull {
					logger.Warnw("trigger modes other than NO_FULL are not supported, full pulls are ignored",
						"setting", c.Setting.Kind, "mode", c.Setting.TriggerMode)
				}
			}
		case SpecialCmd:
			logger.Warnw("standalone special keys have no effect", "key", c.Special)
		case ResetCmd:
			settings.Reset()
			buttons.Reset()
		}
	}
}

func bind(c MapCmd, buttons *mapping.Buttons, logger *zap.SugaredLogger) {
	switch c.Key.Kind {
	case KeySimple:
		bindLayer(buttons.Get(c.Key.First, 0), c.Actions, logger)
	case KeySimul:
		logger.Warnw("simultaneous key bindings are not supported", "key", c.Key)
	case KeyChorded:
		if c.Key.First == c.Key.Second {
			bindDoubleClick(buttons.Get(c.Key.First, 0), c.Actions, logger)
			return
		}
		layer := c.Key.First.Layer()
		modifier := buttons.Get(c.Key.First, 0)
		modifier.OnDown = append(modifier.OnDown, mapping.LayerAction(layer, true))
		modifier.OnUp = append(modifier.OnUp, mapping.LayerAction(layer, false))
		bindLayer(buttons.Get(c.Key.Second, layer), c.Actions, logger)
	}
}

// extAction converts a parsed action to what the engine executes. ok is
// false when the action binds nothing.
func extAction(a Action, click mapping.ClickType, logger *zap.SugaredLogger) (mapping.Action, bool) {
	var ext mapping.ExtAction
	switch a.Kind {
	case ActionKey:
		ext = mapping.KeyPress(a.Key, click)
	case ActionMouse:
		ext = mapping.MousePress(a.Button, click)
	case ActionGamepad:
		ext = mapping.GamepadKeyPress(a.Gamepad, click)
	case ActionSpecial:
		switch a.Special {
		case SpecialNone:
			return mapping.Action{}, false
		case SpecialGyroOn:
			ext = mapping.GyroOn(click)
		case SpecialGyroOff:
			ext = mapping.GyroOff(click)
		default:
			logger.Warnw("special action is not supported", "action", a.Special)
			return mapping.Action{}, false
		}
	}
	return mapping.Ext(ext), true
}

func modifierClick(m ActionModifier) mapping.ClickType {
	if m == ModToggle {
		return mapping.Toggle
	}
	return mapping.Click
}

// bindLayer infers the event of each action lacking a suffix: a lone action
// starts on press and stops on release, otherwise the first is a tap and the
// rest are holds. A prefix replaces the press and release pair by a single
// action of that click type.
func bindLayer(l *mapping.Layer, actions []Action, logger *zap.SugaredLogger) {
	for i, a := range actions {
		event := a.Event
		if event == EventNone {
			switch {
			case len(actions) == 1:
				event = EventStart
			case i == 0:
				event = EventTap
			default:
				event = EventHold
			}
		}
		if event == EventTurbo {
			logger.Warnw("turbo actions are not supported", "action", a)
			continue
		}
		if a.Modifier != ModNone {
			act, ok := extAction(a, modifierClick(a.Modifier), logger)
			if !ok {
				continue
			}
			switch event {
			case EventStart:
				l.OnDown = append(l.OnDown, act)
			case EventRelease:
				l.OnUp = append(l.OnUp, act)
			case EventTap:
				l.OnClick = append(l.OnClick, act)
			case EventHold:
				l.OnHoldDown = append(l.OnHoldDown, act)
			}
			continue
		}
		switch event {
		case EventStart:
			press, ok := extAction(a, mapping.Press, logger)
			if !ok {
				continue
			}
			release, _ := extAction(a, mapping.Release, logger)
			l.OnDown = append(l.OnDown, press)
			l.OnUp = append(l.OnUp, release)
		case EventRelease:
			if act, ok := extAction(a, mapping.Click, logger); ok {
				l.OnUp = append(l.OnUp, act)
			}
		case EventTap:
			if act, ok := extAction(a, mapping.Click, logger); ok {
				l.OnClick = append(l.OnClick, act)
			}
		case EventHold:
			press, ok := extAction(a, mapping.Press, logger)
			if !ok {
				continue
			}
			release, _ := extAction(a, mapping.Release, logger)
			l.OnHoldDown = append(l.OnHoldDown, press)
			l.OnHoldUp = append(l.OnHoldUp, release)
		}
	}
}

// bindDoubleClick binds K,K: every action fires on the second press.
func bindDoubleClick(l *mapping.Layer, actions []Action, logger *zap.SugaredLogger) {
	for _, a := range actions {
		if a.Event == EventTurbo {
			logger.Warnw("turbo actions are not supported", "action", a)
			continue
		}
		if act, ok := extAction(a, modifierClick(a.Modifier), logger); ok {
			l.OnDoubleClick = append(l.OnDoubleClick, act)
		}
	}
}
