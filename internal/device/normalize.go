package device

import "math"

// NormalizeAxis converts a raw axis value (-32768..32767) to -1.0..1.0.
func NormalizeAxis(raw int16) float64 {
	v := float64(raw) / math.MaxInt16
	if v < -1.0 {
		v = -1.0
	}
	return v
}

// NormalizeRange maps raw from [rawMin, rawMax] onto -1.0..1.0.
func NormalizeRange(raw, rawMin, rawMax int32) float64 {
	if rawMax == rawMin {
		return 0
	}
	v := 2*float64(raw-rawMin)/float64(rawMax-rawMin) - 1
	return math.Max(-1, math.Min(1, v))
}

// NormalizeTrigger converts a raw trigger value to 0.0..1.0.
func NormalizeTrigger(raw, rawMin, rawMax int32) float64 {
	if rawMax == rawMin {
		return 0
	}
	v := float64(raw-rawMin) / float64(rawMax-rawMin)
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v
}

// Known vendor ids.
const (
	vendorMicrosoft = 0x045E
	vendorSony      = 0x054C
	vendorNintendo  = 0x057E
	vendorValve     = 0x28DE
)

var families = map[uint16]string{
	vendorMicrosoft: "xbox",
	vendorSony:      "playstation",
	vendorNintendo:  "nintendo",
	vendorValve:     "steam",
}

// Family names the controller family from its USB vendor id, falling back
// to "generic".
func Family(vendorID uint16) string {
	if f, ok := families[vendorID]; ok {
		return f
	}
	return "generic"
}
