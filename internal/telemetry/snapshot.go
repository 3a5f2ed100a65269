// Package telemetry describes the per-controller state published to the
// status page, the websocket hub and MQTT.
package telemetry

import (
	"math"
	"slices"
	"time"
)

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Triggers struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

// Snapshot is the state of one controller's mapping at one instant.
type Snapshot struct {
	Controller  int      `json:"controller"`
	Name        string   `json:"name"`
	Family      string   `json:"family"`
	Connected   bool     `json:"connected"`
	Calibrating bool     `json:"calibrating"`
	GyroEnabled bool     `json:"gyroEnabled"`
	Paused      bool     `json:"paused"`
	Keys        []string `json:"keys"`
	Left        Vec2     `json:"left"`
	Right       Vec2     `json:"right"`
	Triggers    Triggers `json:"triggers"`
	UpVector    Vec3     `json:"upVector"`
	Layers      []int    `json:"layers"`
	// Mouse is the pointer motion accumulated since the previous snapshot.
	Mouse     Vec2      `json:"mouse"`
	Timestamp time.Time `json:"timestamp"`
}

// Delta holds the fields of a Snapshot that changed.
type Delta struct {
	Controller  int       `json:"controller"`
	Connected   *bool     `json:"connected,omitempty"`
	Name        *string   `json:"name,omitempty"`
	Calibrating *bool     `json:"calibrating,omitempty"`
	GyroEnabled *bool     `json:"gyroEnabled,omitempty"`
	Paused      *bool     `json:"paused,omitempty"`
	Keys        *[]string `json:"keys,omitempty"`
	Left        *Vec2     `json:"left,omitempty"`
	Right       *Vec2     `json:"right,omitempty"`
	Triggers    *Triggers `json:"triggers,omitempty"`
	UpVector    *Vec3     `json:"upVector,omitempty"`
	Layers      *[]int    `json:"layers,omitempty"`
	Mouse       *Vec2     `json:"mouse,omitempty"`
}

func (d *Delta) IsEmpty() bool {
	return d.Connected == nil &&
		d.Name == nil &&
		d.Calibrating == nil &&
		d.GyroEnabled == nil &&
		d.Paused == nil &&
		d.Keys == nil &&
		d.Left == nil &&
		d.Right == nil &&
		d.Triggers == nil &&
		d.UpVector == nil &&
		d.Layers == nil &&
		d.Mouse == nil
}

const analogThreshold = 0.01

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < analogThreshold
}

func (v Vec2) near(o Vec2) bool {
	return floatEqual(v.X, o.X) && floatEqual(v.Y, o.Y)
}

func (v Vec3) near(o Vec3) bool {
	return floatEqual(v.X, o.X) && floatEqual(v.Y, o.Y) && floatEqual(v.Z, o.Z)
}

// ComputeDelta returns what changed from old to new_. Analog values count as
// changed past analogThreshold. An emptied key or layer list is reported as
// an empty list rather than omitted.
func ComputeDelta(old, new_ Snapshot) *Delta {
	d := &Delta{Controller: new_.Controller}

	if old.Connected != new_.Connected {
		d.Connected = &new_.Connected
	}
	if old.Name != new_.Name {
		d.Name = &new_.Name
	}
	if old.Calibrating != new_.Calibrating {
		d.Calibrating = &new_.Calibrating
	}
	if old.GyroEnabled != new_.GyroEnabled {
		d.GyroEnabled = &new_.GyroEnabled
	}
	if old.Paused != new_.Paused {
		d.Paused = &new_.Paused
	}
	if !slices.Equal(old.Keys, new_.Keys) {
		d.Keys = nonNil(new_.Keys)
	}
	if !slices.Equal(old.Layers, new_.Layers) {
		d.Layers = nonNil(new_.Layers)
	}

	if !old.Left.near(new_.Left) {
		d.Left = &new_.Left
	}
	if !old.Right.near(new_.Right) {
		d.Right = &new_.Right
	}
	if !floatEqual(old.Triggers.Left, new_.Triggers.Left) ||
		!floatEqual(old.Triggers.Right, new_.Triggers.Right) {
		d.Triggers = &new_.Triggers
	}
	if !old.UpVector.near(new_.UpVector) {
		d.UpVector = &new_.UpVector
	}
	if !old.Mouse.near(new_.Mouse) {
		d.Mouse = &new_.Mouse
	}

	return d
}

func nonNil[T any](s []T) *[]T {
	if s == nil {
		s = []T{}
	}
	return &s
}
