package output

import (
	"github.com/bendahl/uinput"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// DefaultDevice is the uinput control node.
const DefaultDevice = "/dev/uinput"

// Uinput is a Sink backed by virtual uinput keyboard, mouse and touchpad
// devices. The touchpad serves absolute moves and spans the screen.
type Uinput struct {
	keyboard uinput.Keyboard
	mouse    uinput.Mouse
	touchpad uinput.TouchPad
}

// NewUinput creates the virtual devices on path.
func NewUinput(path string, width, height int32) (*Uinput, error) {
	keyboard, err := uinput.CreateKeyboard(path, []byte("gyromouse keyboard"))
	if err != nil {
		return nil, errors.Wrap(err, "creating virtual keyboard")
	}
	mouse, err := uinput.CreateMouse(path, []byte("gyromouse mouse"))
	if err != nil {
		keyboard.Close()
		return nil, errors.Wrap(err, "creating virtual mouse")
	}
	touchpad, err := uinput.CreateTouchPad(path, []byte("gyromouse touchpad"), 0, width-1, 0, height-1)
	if err != nil {
		keyboard.Close()
		mouse.Close()
		return nil, errors.Wrap(err, "creating virtual touchpad")
	}
	return &Uinput{keyboard: keyboard, mouse: mouse, touchpad: touchpad}, nil
}

func (u *Uinput) KeyDown(k Key) error {
	return errors.Wrapf(u.keyboard.KeyDown(int(k)), "key down %s", k)
}

func (u *Uinput) KeyUp(k Key) error {
	return errors.Wrapf(u.keyboard.KeyUp(int(k)), "key up %s", k)
}

func (u *Uinput) MouseDown(b Button) error {
	var err error
	switch b {
	case ButtonLeft:
		err = u.mouse.LeftPress()
	case ButtonMiddle:
		err = u.mouse.MiddlePress()
	case ButtonRight:
		err = u.mouse.RightPress()
	case ButtonBack:
		err = u.keyboard.KeyDown(int(KeyBack))
	case ButtonForward:
		err = u.keyboard.KeyDown(int(KeyForward))
	default:
		// a held wheel direction scrolls once
		err = u.wheel(b)
	}
	return errors.Wrapf(err, "mouse down %s", b)
}

func (u *Uinput) MouseUp(b Button) error {
	var err error
	switch b {
	case ButtonLeft:
		err = u.mouse.LeftRelease()
	case ButtonMiddle:
		err = u.mouse.MiddleRelease()
	case ButtonRight:
		err = u.mouse.RightRelease()
	case ButtonBack:
		err = u.keyboard.KeyUp(int(KeyBack))
	case ButtonForward:
		err = u.keyboard.KeyUp(int(KeyForward))
	}
	return errors.Wrapf(err, "mouse up %s", b)
}

func (u *Uinput) MouseClick(b Button) error {
	var err error
	switch b {
	case ButtonLeft:
		err = u.mouse.LeftClick()
	case ButtonMiddle:
		err = u.mouse.MiddleClick()
	case ButtonRight:
		err = u.mouse.RightClick()
	case ButtonBack:
		err = u.keyboard.KeyPress(int(KeyBack))
	case ButtonForward:
		err = u.keyboard.KeyPress(int(KeyForward))
	default:
		err = u.wheel(b)
	}
	return errors.Wrapf(err, "mouse click %s", b)
}

func (u *Uinput) wheel(b Button) error {
	switch b {
	case ButtonScrollUp:
		return u.mouse.Wheel(false, 1)
	case ButtonScrollDown:
		return u.mouse.Wheel(false, -1)
	case ButtonScrollLeft:
		return u.mouse.Wheel(true, -1)
	case ButtonScrollRight:
		return u.mouse.Wheel(true, 1)
	}
	return errors.Errorf("unknown mouse button %d", int(b))
}

func (u *Uinput) MoveRelative(dx, dy int) error {
	return errors.Wrap(u.mouse.Move(int32(dx), int32(dy)), "relative move")
}

func (u *Uinput) MoveAbsolute(x, y int) error {
	return errors.Wrap(u.touchpad.MoveTo(int32(x), int32(y)), "absolute move")
}

func (u *Uinput) Scroll(delta int) error {
	return errors.Wrap(u.mouse.Wheel(false, int32(delta)), "scroll")
}

func (u *Uinput) Close() error {
	return multierr.Combine(u.keyboard.Close(), u.mouse.Close(), u.touchpad.Close())
}

var gamepadCodes = map[GamepadButton]int{
	GamepadA:     uinput.ButtonSouth,
	GamepadB:     uinput.ButtonEast,
	GamepadX:     uinput.ButtonWest,
	GamepadY:     uinput.ButtonNorth,
	GamepadLB:    uinput.ButtonBumperLeft,
	GamepadRB:    uinput.ButtonBumperRight,
	GamepadLS:    uinput.ButtonThumbLeft,
	GamepadRS:    uinput.ButtonThumbRight,
	GamepadStart: uinput.ButtonStart,
	GamepadBack:  uinput.ButtonSelect,
	GamepadGuide: uinput.ButtonMode,
	GamepadUp:    uinput.ButtonDpadUp,
	GamepadDown:  uinput.ButtonDpadDown,
	GamepadLeft:  uinput.ButtonDpadLeft,
	GamepadRight: uinput.ButtonDpadRight,
}

// UinputGamepad is a GamepadSink backed by a virtual uinput gamepad.
type UinputGamepad struct {
	pad uinput.Gamepad
}

// NewUinputGamepad creates the virtual gamepad on path.
func NewUinputGamepad(path string) (*UinputGamepad, error) {
	pad, err := uinput.CreateGamepad(path, []byte("gyromouse virtual gamepad"), 0x045e, 0x028e)
	if err != nil {
		return nil, errors.Wrap(err, "creating virtual gamepad")
	}
	return &UinputGamepad{pad: pad}, nil
}

func (g *UinputGamepad) GamepadDown(b GamepadButton) error {
	code, ok := gamepadCodes[b]
	if !ok {
		return errors.Errorf("unknown gamepad button %d", int(b))
	}
	return errors.Wrapf(g.pad.ButtonDown(code), "gamepad down %s", b)
}

func (g *UinputGamepad) GamepadUp(b GamepadButton) error {
	code, ok := gamepadCodes[b]
	if !ok {
		return errors.Errorf("unknown gamepad button %d", int(b))
	}
	return errors.Wrapf(g.pad.ButtonUp(code), "gamepad up %s", b)
}

func (g *UinputGamepad) Close() error {
	return g.pad.Close()
}
