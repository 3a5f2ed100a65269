package hub

import (
	"time"

	"github.com/soar/gyromouse/internal/telemetry"
)

const (
	TypeFull               = "full"
	TypeDelta              = "delta"
	TypeEvent              = "event"
	TypeControllerSelected = "controller_selected"
	TypeSelectController   = "select_controller"
)

// WSMessage represents a WebSocket message sent from server to client.
type WSMessage struct {
	Type       string              `json:"type"`
	Seq        int64               `json:"seq"`
	Timestamp  int64               `json:"timestamp"` // Unix milliseconds
	Event      *telemetry.Event    `json:"event,omitempty"`
	Data       *telemetry.Snapshot `json:"data,omitempty"`
	Changes    *telemetry.Delta    `json:"changes,omitempty"`
	Controller int                 `json:"controller"`
}

// NewFullMessage creates a "full" message carrying a whole snapshot.
func NewFullMessage(seq int64, s *telemetry.Snapshot) *WSMessage {
	return &WSMessage{
		Type:       TypeFull,
		Seq:        seq,
		Timestamp:  time.Now().UnixMilli(),
		Data:       s,
		Controller: s.Controller,
	}
}

// NewDeltaMessage creates a "delta" message carrying only changed fields.
func NewDeltaMessage(seq int64, changes *telemetry.Delta) *WSMessage {
	return &WSMessage{
		Type:       TypeDelta,
		Seq:        seq,
		Timestamp:  time.Now().UnixMilli(),
		Changes:    changes,
		Controller: changes.Controller,
	}
}

func NewEventMessage(seq int64, e *telemetry.Event) *WSMessage {
	return &WSMessage{
		Type:       TypeEvent,
		Seq:        seq,
		Timestamp:  time.Now().UnixMilli(),
		Event:      e,
		Controller: e.Controller,
	}
}

// NewControllerSelectedMessage confirms a select_controller request.
func NewControllerSelectedMessage(controller int) *WSMessage {
	return &WSMessage{
		Type:       TypeControllerSelected,
		Timestamp:  time.Now().UnixMilli(),
		Controller: controller,
	}
}

// ClientMessage represents a message sent from the client to the server.
type ClientMessage struct {
	Type       string `json:"type"`
	Controller int    `json:"controller"`
}
