package config

import (
	"strings"
	"time"
)

// StickMode selects the strategy driving a stick.
type StickMode uint8

const (
	StickAim StickMode = iota
	StickFlick
	StickFlickOnly
	StickRotateOnly
	StickMouseRing
	StickMouseArea
	StickNoMouse
	StickScrollWheel
)

var stickModeNames = map[StickMode]string{
	StickAim:         "AIM",
	StickFlick:       "FLICK",
	StickFlickOnly:   "FLICK_ONLY",
	StickRotateOnly:  "ROTATE_ONLY",
	StickMouseRing:   "MOUSE_RING",
	StickMouseArea:   "MOUSE_AREA",
	StickNoMouse:     "NO_MOUSE",
	StickScrollWheel: "SCROLL_WHEEL",
}

func (m StickMode) String() string { return stickModeNames[m] }

// RingMode selects when a ring virtual key is pressed.
type RingMode uint8

const (
	RingOuter RingMode = iota
	RingInner
)

var ringModeNames = map[RingMode]string{RingOuter: "OUTER", RingInner: "INNER"}

func (m RingMode) String() string { return ringModeNames[m] }

// TriggerMode is how analog triggers combine soft and full pulls.
type TriggerMode uint8

const (
	TriggerNoFull TriggerMode = iota
	TriggerNoSkip
	TriggerNoSkipExclusive
	TriggerMustSkip
	TriggerMaySkip
	TriggerMustSkipR
	TriggerMaySkipR
)

var triggerModeNames = map[TriggerMode]string{
	TriggerNoFull:          "NO_FULL",
	TriggerNoSkip:          "NO_SKIP",
	TriggerNoSkipExclusive: "NO_SKIP_EXCLUSIVE",
	TriggerMustSkip:        "MUST_SKIP",
	TriggerMaySkip:         "MAY_SKIP",
	TriggerMustSkipR:       "MUST_SKIP_R",
	TriggerMaySkipR:        "MAY_SKIP_R",
}

func (m TriggerMode) String() string { return triggerModeNames[m] }

// GyroSpace is the reference frame gyro motion is mapped in.
type GyroSpace uint8

const (
	SpaceLocal GyroSpace = iota
	SpaceWorldTurn
	SpaceWorldLean
	SpacePlayerTurn
	SpacePlayerLean
)

var gyroSpaceNames = map[GyroSpace]string{
	SpaceLocal:      "LOCAL",
	SpaceWorldTurn:  "WORLD_TURN",
	SpaceWorldLean:  "WORLD_LEAN",
	SpacePlayerTurn: "PLAYER_TURN",
	SpacePlayerLean: "PLAYER_LEAN",
}

func (s GyroSpace) String() string { return gyroSpaceNames[s] }

// InvertMode is STANDARD or INVERTED.
type InvertMode uint8

const (
	InvertStandard InvertMode = iota
	InvertInverted
)

var invertModeNames = map[InvertMode]string{InvertStandard: "STANDARD", InvertInverted: "INVERTED"}

func (m InvertMode) String() string { return invertModeNames[m] }

// SettingKind names a setting.
type SettingKind uint8

const (
	SetTriggerThreshold SettingKind = iota
	SetZLMode
	SetZRMode
	SetLeftStickMode
	SetRightStickMode
	SetMotionStickMode
	SetLeftRingMode
	SetRightRingMode
	SetMotionRingMode
	SetStickDeadzoneInner
	SetStickDeadzoneOuter
	SetMotionDeadzoneInner
	SetMotionDeadzoneOuter
	SetStickSens
	SetStickPower
	SetLeftStickAxis
	SetRightStickAxis
	SetMotionStickAxis
	SetStickAccelerationRate
	SetStickAccelerationCap
	SetFlickTimeExponent
	SetFlickTime
	SetFlickDeadzoneAngle
	SetScrollSens
	SetScreenResolutionX
	SetScreenResolutionY
	SetMouseRingRadius
	SetGyroSens
	SetMinGyroSens
	SetMinGyroThreshold
	SetMaxGyroSens
	SetMaxGyroThreshold
	SetGyroSpace
	SetGyroCutoffSpeed
	SetGyroCutoffRecovery
	SetGyroSmoothThreshold
	SetGyroSmoothTime
	SetGyroAxisX
	SetGyroAxisY
	SetRealWorldCalibration
	SetInGameSens
	SetCounterOSMouseSpeed
	SetIgnoreOSMouseSpeed
	SetHoldPressTime
	SetDblPressWindow
)

// valueType is the right-hand side grammar of a setting.
type valueType uint8

const (
	valFlag valueType = iota
	valFloat
	valFloatPair
	valUint
	valSeconds
	valMillis
	valStickMode
	valRingMode
	valTriggerMode
	valGyroSpace
	valInvert
	valInvertPair
)

type settingDef struct {
	name  string
	value valueType
}

var settingDefs = map[SettingKind]settingDef{
	SetTriggerThreshold:      {"TRIGGER_THRESHOLD", valFloat},
	SetZLMode:                {"ZL_MODE", valTriggerMode},
	SetZRMode:                {"ZR_MODE", valTriggerMode},
	SetLeftStickMode:         {"LEFT_STICK_MODE", valStickMode},
	SetRightStickMode:        {"RIGHT_STICK_MODE", valStickMode},
	SetMotionStickMode:       {"MOTION_STICK_MODE", valStickMode},
	SetLeftRingMode:          {"LEFT_RING_MODE", valRingMode},
	SetRightRingMode:         {"RIGHT_RING_MODE", valRingMode},
	SetMotionRingMode:        {"MOTION_RING_MODE", valRingMode},
	SetStickDeadzoneInner:    {"STICK_DEADZONE_INNER", valFloat},
	SetStickDeadzoneOuter:    {"STICK_DEADZONE_OUTER", valFloat},
	SetMotionDeadzoneInner:   {"MOTION_DEADZONE_INNER", valFloat},
	SetMotionDeadzoneOuter:   {"MOTION_DEADZONE_OUTER", valFloat},
	SetStickSens:             {"STICK_SENS", valFloat},
	SetStickPower:            {"STICK_POWER", valFloat},
	SetLeftStickAxis:         {"LEFT_STICK_AXIS", valInvertPair},
	SetRightStickAxis:        {"RIGHT_STICK_AXIS", valInvertPair},
	SetMotionStickAxis:       {"MOTION_STICK_AXIS", valInvertPair},
	SetStickAccelerationRate: {"STICK_ACCELERATION_RATE", valFloat},
	SetStickAccelerationCap:  {"STICK_ACCELERATION_CAP", valFloat},
	SetFlickTimeExponent:     {"FLICK_TIME_EXPONENT", valFloat},
	SetFlickTime:             {"FLICK_TIME", valSeconds},
	SetFlickDeadzoneAngle:    {"FLICK_DEADZONE_ANGLE", valFloat},
	SetScrollSens:            {"SCROLL_SENS", valFloat},
	SetScreenResolutionX:     {"SCREEN_RESOLUTION_X", valUint},
	SetScreenResolutionY:     {"SCREEN_RESOLUTION_Y", valUint},
	SetMouseRingRadius:       {"MOUSE_RING_RADIUS", valUint},
	SetGyroSens:              {"GYRO_SENS", valFloatPair},
	SetMinGyroSens:           {"MIN_GYRO_SENS", valFloatPair},
	SetMinGyroThreshold:      {"MIN_GYRO_THRESHOLD", valFloat},
	SetMaxGyroSens:           {"MAX_GYRO_SENS", valFloatPair},
	SetMaxGyroThreshold:      {"MAX_GYRO_THRESHOLD", valFloat},
	SetGyroSpace:             {"GYRO_SPACE", valGyroSpace},
	SetGyroCutoffSpeed:       {"GYRO_CUTOFF_SPEED", valFloat},
	SetGyroCutoffRecovery:    {"GYRO_CUTOFF_RECOVERY", valFloat},
	SetGyroSmoothThreshold:   {"GYRO_SMOOTH_THRESHOLD", valFloat},
	SetGyroSmoothTime:        {"GYRO_SMOOTH_TIME", valSeconds},
	SetGyroAxisX:             {"GYRO_AXIS_X", valInvert},
	SetGyroAxisY:             {"GYRO_AXIS_Y", valInvert},
	SetRealWorldCalibration:  {"REAL_WORLD_CALIBRATION", valFloat},
	SetInGameSens:            {"IN_GAME_SENS", valFloat},
	SetCounterOSMouseSpeed:   {"COUNTER_OS_MOUSE_SPEED", valFlag},
	SetIgnoreOSMouseSpeed:    {"IGNORE_OS_MOUSE_SPEED", valFlag},
	SetHoldPressTime:         {"HOLD_PRESS_TIME", valMillis},
	SetDblPressWindow:        {"DBL_PRESS_WINDOW", valMillis},
}

func (k SettingKind) String() string {
	return settingDefs[k].name
}

func lookupSetting(word string) (SettingKind, settingDef, bool) {
	for k, def := range settingDefs {
		if strings.EqualFold(def.name, word) {
			return k, def, true
		}
	}
	return 0, settingDef{}, false
}

// Setting is one parsed assignment. Only the fields matching the setting's
// value grammar are meaningful.
type Setting struct {
	Kind SettingKind

	Float     float64
	Float2    float64
	HasFloat2 bool
	Uint      uint32
	Duration  time.Duration

	StickMode   StickMode
	RingMode    RingMode
	TriggerMode TriggerMode
	GyroSpace   GyroSpace

	Invert     InvertMode
	Invert2    InvertMode
	HasInvert2 bool
}
