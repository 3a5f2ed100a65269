// Package device defines what the mapper consumes from a controller backend:
// one Report per poll per connected controller.
package device

import (
	"context"
	"time"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/soar/gyromouse/internal/mapping"
	"github.com/soar/gyromouse/internal/motion"
)

// ErrClosed is returned by a Source that was stopped by its owner.
var ErrClosed = errors.New("device source closed")

// Report is the state of one controller at one poll.
type Report struct {
	Keys         [mapping.JoyKeyCount]bool
	Left         r2.Point // y up
	Right        r2.Point
	LeftTrigger  float64 // 0..1
	RightTrigger float64
	// Motion holds the sensor samples received since the previous report,
	// oldest first.
	Motion []motion.Sample
	// Frequency is the sensor sample rate in Hz, 0 when unknown.
	Frequency float64
}

// Pressed reports whether key k is held.
func (r *Report) Pressed(k mapping.JoyKey) bool {
	return int(k) < len(r.Keys) && r.Keys[k]
}

// ControllerInfo describes a connected controller.
type ControllerInfo struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Family     string `json:"family"`
	HasSensors bool   `json:"has_sensors"`
	Path       string `json:"path,omitempty"`
}

// Controller is a connected controller as seen by a Handler.
type Controller interface {
	Info() ControllerInfo
	// Rumble runs both motors for d. Controllers without motors return nil.
	Rumble(low, high uint16, d time.Duration) error
}

// Handler receives controller events. Calls come from the source's poll
// goroutine, one at a time.
type Handler interface {
	Connected(c Controller, now time.Time)
	Report(id int, r Report, now time.Time) error
	Disconnected(id int)
}

// Source polls controllers until ctx is done or a device fails.
type Source interface {
	// Run delivers events to h until ctx is canceled. A Handler error stops
	// the loop and is returned.
	Run(ctx context.Context, h Handler) error
	// List returns the controllers currently attached.
	List(ctx context.Context) ([]ControllerInfo, error)
}
