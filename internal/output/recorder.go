package output

import (
	"fmt"
	"sync"
)

// Event is one call recorded by Recorder.
type Event struct {
	Kind    string
	Key     Key
	Button  Button
	Gamepad GamepadButton
	X, Y    int
}

func (e Event) String() string {
	switch e.Kind {
	case "key_down", "key_up":
		return fmt.Sprintf("%s %s", e.Kind, e.Key)
	case "mouse_down", "mouse_up", "mouse_click":
		return fmt.Sprintf("%s %s", e.Kind, e.Button)
	case "gamepad_down", "gamepad_up":
		return fmt.Sprintf("%s %s", e.Kind, e.Gamepad)
	case "scroll":
		return fmt.Sprintf("scroll %d", e.Y)
	default:
		return fmt.Sprintf("%s %d %d", e.Kind, e.X, e.Y)
	}
}

// Recorder is an in-memory Sink and GamepadSink. Err, when set, is returned
// by every call.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

func (r *Recorder) record(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Strings returns the recorded events formatted with Event.String.
func (r *Recorder) Strings() []string {
	events := r.Events()
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.String()
	}
	return out
}

// Reset forgets recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Moved sums every relative move.
func (r *Recorder) Moved() (dx, dy int) {
	for _, e := range r.Events() {
		if e.Kind == "move_relative" {
			dx += e.X
			dy += e.Y
		}
	}
	return dx, dy
}

func (r *Recorder) KeyDown(k Key) error { return r.record(Event{Kind: "key_down", Key: k}) }
func (r *Recorder) KeyUp(k Key) error   { return r.record(Event{Kind: "key_up", Key: k}) }

func (r *Recorder) MouseDown(b Button) error  { return r.record(Event{Kind: "mouse_down", Button: b}) }
func (r *Recorder) MouseUp(b Button) error    { return r.record(Event{Kind: "mouse_up", Button: b}) }
func (r *Recorder) MouseClick(b Button) error { return r.record(Event{Kind: "mouse_click", Button: b}) }

func (r *Recorder) MoveRelative(dx, dy int) error {
	return r.record(Event{Kind: "move_relative", X: dx, Y: dy})
}

func (r *Recorder) MoveAbsolute(x, y int) error {
	return r.record(Event{Kind: "move_absolute", X: x, Y: y})
}

func (r *Recorder) Scroll(delta int) error { return r.record(Event{Kind: "scroll", Y: delta}) }

func (r *Recorder) GamepadDown(b GamepadButton) error {
	return r.record(Event{Kind: "gamepad_down", Gamepad: b})
}

func (r *Recorder) GamepadUp(b GamepadButton) error {
	return r.record(Event{Kind: "gamepad_up", Gamepad: b})
}

func (r *Recorder) Close() error { return nil }
