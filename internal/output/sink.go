package output

// Sink receives synthesized keyboard and mouse events.
//
// Relative moves use screen orientation: positive dy moves down.
type Sink interface {
	KeyDown(k Key) error
	KeyUp(k Key) error
	MouseDown(b Button) error
	MouseUp(b Button) error
	MouseClick(b Button) error
	MoveRelative(dx, dy int) error
	MoveAbsolute(x, y int) error
	// Scroll emits vertical wheel ticks, positive up.
	Scroll(delta int) error
	Close() error
}

// GamepadSink receives virtual gamepad button events.
type GamepadSink interface {
	GamepadDown(b GamepadButton) error
	GamepadUp(b GamepadButton) error
	Close() error
}
