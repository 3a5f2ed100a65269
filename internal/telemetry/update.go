package telemetry

import "time"

const (
	EventConnected    = "connected"
	EventDisconnected = "disconnected"
)

// Event marks a controller joining or leaving.
type Event struct {
	Kind       string    `json:"kind"`
	Controller int       `json:"controller"`
	Name       string    `json:"name"`
	Timestamp  time.Time `json:"timestamp"`
}

// Update carries either a snapshot or an event to a subscriber.
type Update struct {
	Snapshot *Snapshot
	Event    *Event
}
