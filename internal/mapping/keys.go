// Package mapping resolves key presses into actions through a per-key
// tap/hold/double-click state machine and a stack of binding layers.
package mapping

import (
	"strconv"
	"strings"
)

// JoyKey is a physical gamepad key.
type JoyKey uint8

const (
	JoyUp JoyKey = iota
	JoyDown
	JoyLeft
	JoyRight
	JoyL
	JoyR
	JoyZL
	JoyZR
	JoySL
	JoySR
	JoyL3
	JoyR3
	JoyN
	JoyS
	JoyE
	JoyW
	JoyMinus
	JoyPlus
	JoyCapture
	JoyHome
	JoyKeyCount int = iota
)

var joyKeyNames = [JoyKeyCount]string{
	"Up", "Down", "Left", "Right", "L", "R", "ZL", "ZR", "SL", "SR",
	"L3", "R3", "N", "S", "E", "W", "Minus", "Plus", "Capture", "Home",
}

func (k JoyKey) String() string {
	if int(k) < JoyKeyCount {
		return joyKeyNames[k]
	}
	return "joykey(" + strconv.Itoa(int(k)) + ")"
}

// VirtualKey is a key synthesized from a stick position.
type VirtualKey uint8

const (
	LUp VirtualKey = iota
	LDown
	LLeft
	LRight
	LRing
	RUp
	RDown
	RLeft
	RRight
	RRing
	MUp
	MDown
	MLeft
	MRight
	MRing
	VirtualKeyCount int = iota
)

var virtualKeyNames = [VirtualKeyCount]string{
	"LUp", "LDown", "LLeft", "LRight", "LRing",
	"RUp", "RDown", "RLeft", "RRight", "RRing",
	"MUp", "MDown", "MLeft", "MRight", "MRing",
}

func (k VirtualKey) String() string {
	if int(k) < VirtualKeyCount {
		return virtualKeyNames[k]
	}
	return "virtualkey(" + strconv.Itoa(int(k)) + ")"
}

// MapKey is the dense index of a physical or virtual key: physical keys
// first, then virtual keys.
type MapKey uint8

// MapKeyCount is the size of the key space.
const MapKeyCount = JoyKeyCount + VirtualKeyCount

func (k JoyKey) MapKey() MapKey {
	return MapKey(k)
}

func (k VirtualKey) MapKey() MapKey {
	return MapKey(JoyKeyCount + int(k))
}

// Physical returns the physical key for k, if it is one.
func (k MapKey) Physical() (JoyKey, bool) {
	if int(k) < JoyKeyCount {
		return JoyKey(k), true
	}
	return 0, false
}

// Virtual returns the virtual key for k, if it is one.
func (k MapKey) Virtual() (VirtualKey, bool) {
	if int(k) >= JoyKeyCount && int(k) < MapKeyCount {
		return VirtualKey(int(k) - JoyKeyCount), true
	}
	return 0, false
}

// Layer returns the layer id a chord on k pushes. Layer 0 is reserved for
// the base layer.
func (k MapKey) Layer() uint8 {
	return uint8(k) + 1
}

func (k MapKey) String() string {
	if j, ok := k.Physical(); ok {
		return j.String()
	}
	if v, ok := k.Virtual(); ok {
		return v.String()
	}
	return "mapkey(" + strconv.Itoa(int(k)) + ")"
}

var keyAliases = map[string]MapKey{
	"-": JoyMinus.MapKey(),
	"+": JoyPlus.MapKey(),
}

// ParseMapKey resolves a key name, case-insensitively.
func ParseMapKey(name string) (MapKey, bool) {
	if k, ok := keyAliases[name]; ok {
		return k, true
	}
	for i, n := range joyKeyNames {
		if strings.EqualFold(n, name) {
			return JoyKey(i).MapKey(), true
		}
	}
	for i, n := range virtualKeyNames {
		if strings.EqualFold(n, name) {
			return VirtualKey(i).MapKey(), true
		}
	}
	return 0, false
}
