package mapping

import (
	"time"
)

const (
	DefaultHoldDelay           = 100 * time.Millisecond
	DefaultDoubleClickInterval = 200 * time.Millisecond
)

// KeyStatus is the state of one key.
type KeyStatus uint8

const (
	StatusUp KeyStatus = iota
	StatusDown
	StatusHold
	StatusDoubleUp
	StatusDoubleDown
)

var keyStatusStrings = map[KeyStatus]string{
	StatusUp:         "up",
	StatusDown:       "down",
	StatusHold:       "hold",
	StatusDoubleUp:   "double_up",
	StatusDoubleDown: "double_down",
}

func (s KeyStatus) String() string {
	return keyStatusStrings[s]
}

// IsDown reports whether the key is physically pressed in this status.
func (s KeyStatus) IsDown() bool {
	return s == StatusDown || s == StatusHold || s == StatusDoubleDown
}

// KeyState is a key status and when it last changed.
type KeyState struct {
	Status     KeyStatus
	LastUpdate time.Time
}

// Buttons owns the bindings, key states and layer stack of one controller.
// It is not safe for concurrent use.
type Buttons struct {
	bindings [MapKeyCount]map[uint8]*Layer
	state    [MapKeyCount]KeyState
	// pressedOn is the binding each key resolved to on its last press.
	pressedOn     [MapKeyCount]*Layer
	currentLayers []uint8
	extActions    []ExtAction

	HoldDelay           time.Duration
	DoubleClickInterval time.Duration
}

func NewButtons() *Buttons {
	return &Buttons{
		currentLayers:       []uint8{0},
		HoldDelay:           DefaultHoldDelay,
		DoubleClickInterval: DefaultDoubleClickInterval,
	}
}

// Reset drops every binding and state.
func (b *Buttons) Reset() {
	*b = *NewButtons()
}

// Clone copies the bindings and timings into a fresh instance with every
// key up.
func (b *Buttons) Clone() *Buttons {
	c := NewButtons()
	c.HoldDelay = b.HoldDelay
	c.DoubleClickInterval = b.DoubleClickInterval
	for key, layers := range b.bindings {
		if layers == nil {
			continue
		}
		c.bindings[key] = make(map[uint8]*Layer, len(layers))
		for id, l := range layers {
			c.bindings[key][id] = l.clone()
		}
	}
	return c
}

// Get returns the binding of key on layer, creating it when missing.
func (b *Buttons) Get(key MapKey, layer uint8) *Layer {
	if b.bindings[key] == nil {
		b.bindings[key] = make(map[uint8]*Layer)
	}
	l, ok := b.bindings[key][layer]
	if !ok {
		l = &Layer{}
		b.bindings[key][layer] = l
	}
	return l
}

// State returns the current state of key.
func (b *Buttons) State(key MapKey) KeyState {
	return b.state[key]
}

// Layers returns a copy of the active layer stack, bottom first.
func (b *Buttons) Layers() []uint8 {
	return append([]uint8(nil), b.currentLayers...)
}

// Key dispatches to KeyDown or KeyUp.
func (b *Buttons) Key(key MapKey, pressed bool, now time.Time) {
	if pressed {
		b.KeyDown(key, now)
	} else {
		b.KeyUp(key, now)
	}
}

func (b *Buttons) KeyDown(key MapKey, now time.Time) {
	st := &b.state[key]
	if st.Status.IsDown() {
		return
	}
	previous := b.resolved(key)
	binding := b.findBinding(key)
	b.pressedOn[key] = binding
	b.run(binding.OnDown)
	if binding.IsSimpleClick() {
		b.run(binding.OnClick)
	}
	switch {
	case st.Status == StatusDoubleUp && now.Sub(st.LastUpdate) < b.DoubleClickInterval:
		st.Status = StatusDoubleDown
	case st.Status == StatusDoubleUp:
		// the pending single click expired without a tick
		b.run(previous.OnClick)
		st.Status = StatusDown
	default:
		st.Status = StatusDown
	}
	st.LastUpdate = now
}

func (b *Buttons) KeyUp(key MapKey, now time.Time) {
	st := &b.state[key]
	if !st.Status.IsDown() {
		return
	}
	binding := b.resolved(key)
	b.run(binding.OnUp)
	next := StatusUp
	if !binding.IsSimpleClick() {
		held := st.Status == StatusHold || now.Sub(st.LastUpdate) >= b.HoldDelay
		switch {
		case st.Status == StatusHold || (held && len(binding.OnHoldUp) > 0):
			b.run(binding.OnHoldUp)
		case len(binding.OnDoubleClick) > 0:
			if st.Status == StatusDoubleDown {
				b.run(binding.OnDoubleClick)
			} else {
				next = StatusDoubleUp
			}
		default:
			b.run(binding.OnClick)
		}
	}
	st.Status = next
	st.LastUpdate = now
}

// Tick resolves hold and double-click timeouts and drains the pending
// external actions. It must run every frame.
func (b *Buttons) Tick(now time.Time) []ExtAction {
	for key := range b.state {
		st := &b.state[key]
		switch st.Status {
		case StatusDown:
			binding := b.resolved(MapKey(key))
			if len(binding.OnHoldDown) > 0 && now.Sub(st.LastUpdate) >= b.HoldDelay {
				b.run(binding.OnHoldDown)
				st.Status = StatusHold
			}
		case StatusDoubleUp:
			if now.Sub(st.LastUpdate) >= b.DoubleClickInterval {
				b.run(b.resolved(MapKey(key)).OnClick)
				st.Status = StatusUp
			}
		}
	}
	actions := b.extActions
	b.extActions = nil
	return actions
}

var emptyLayer = &Layer{}

func (b *Buttons) findBinding(key MapKey) *Layer {
	layers := b.bindings[key]
	for i := len(b.currentLayers) - 1; i >= 0; i-- {
		if l, ok := layers[b.currentLayers[i]]; ok && l.IsBound() {
			return l
		}
	}
	return emptyLayer
}

// resolved is the binding of key's current press, so a release still runs
// on the layer the press started on after that layer is popped.
func (b *Buttons) resolved(key MapKey) *Layer {
	if l := b.pressedOn[key]; l != nil {
		return l
	}
	return b.findBinding(key)
}

func (b *Buttons) run(actions []Action) {
	for _, a := range actions {
		if layer, on, ok := a.Layer(); ok {
			b.removeLayer(layer)
			if on {
				b.currentLayers = append(b.currentLayers, layer)
			}
			continue
		}
		ext, _ := a.ExtAction()
		b.extActions = append(b.extActions, ext)
	}
}

func (b *Buttons) removeLayer(layer uint8) {
	kept := b.currentLayers[:0]
	for _, l := range b.currentLayers {
		if l != layer {
			kept = append(kept, l)
		}
	}
	b.currentLayers = kept
}
