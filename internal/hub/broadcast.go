package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/soar/gyromouse/internal/telemetry"
)

const (
	fullSyncInterval = 5 * time.Second
	deltaCountSync   = 100
)

type stream struct {
	last       telemetry.Snapshot
	deltaCount int
}

// Broadcaster turns mapper updates into full, delta and event messages.
type Broadcaster struct {
	hub     *Hub
	updates <-chan telemetry.Update
	logger  *zap.SugaredLogger

	mu      sync.Mutex
	streams map[int]*stream
	seq     int64
}

func NewBroadcaster(h *Hub, updates <-chan telemetry.Update, logger *zap.SugaredLogger) *Broadcaster {
	return &Broadcaster{
		hub:     h,
		updates: updates,
		logger:  logger,
		streams: make(map[int]*stream),
	}
}

// Run forwards updates until ctx is done or the update channel closes.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(fullSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case u, ok := <-b.updates:
			if !ok {
				return
			}
			switch {
			case u.Event != nil:
				b.handleEvent(u.Event)
			case u.Snapshot != nil:
				b.handleSnapshot(*u.Snapshot)
			}

		case <-ticker.C:
			b.mu.Lock()
			for _, s := range b.streams {
				b.sendFull(s.last)
				s.deltaCount = 0
			}
			b.mu.Unlock()
		}
	}
}

func (b *Broadcaster) handleEvent(e *telemetry.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e.Kind == telemetry.EventDisconnected {
		delete(b.streams, e.Controller)
	}
	b.seq++
	if data, ok := b.marshal(NewEventMessage(b.seq, e)); ok {
		b.hub.Broadcast(data)
	}
}

func (b *Broadcaster) handleSnapshot(snap telemetry.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.streams[snap.Controller]
	if !ok {
		b.streams[snap.Controller] = &stream{last: snap}
		b.sendFull(snap)
		return
	}
	delta := telemetry.ComputeDelta(s.last, snap)
	s.last = snap
	if delta.IsEmpty() {
		return
	}

	s.deltaCount++
	if s.deltaCount >= deltaCountSync {
		b.sendFull(snap)
		s.deltaCount = 0
		return
	}
	b.seq++
	if data, ok := b.marshal(NewDeltaMessage(b.seq, delta)); ok {
		b.hub.BroadcastToController(data, snap.Controller)
	}
}

// SendInitialState sends the watched controller's state to a new client.
func (b *Broadcaster) SendInitialState(c *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sendStateTo(c)
}

// SelectController implements ControllerSelector.
func (b *Broadcaster) SelectController(c *Client, controller int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.streams[controller]; !ok {
		return false
	}
	c.SetController(controller)
	if data, ok := b.marshal(NewControllerSelectedMessage(controller)); ok {
		b.hub.SendTo(c, data)
	}
	b.sendStateTo(c)
	return true
}

func (b *Broadcaster) sendStateTo(c *Client) {
	s, ok := b.streams[c.Controller()]
	if !ok {
		return
	}
	b.seq++
	if data, ok := b.marshal(NewFullMessage(b.seq, &s.last)); ok {
		b.hub.SendTo(c, data)
	}
}

func (b *Broadcaster) sendFull(snap telemetry.Snapshot) {
	b.seq++
	if data, ok := b.marshal(NewFullMessage(b.seq, &snap)); ok {
		b.hub.BroadcastToController(data, snap.Controller)
	}
}

func (b *Broadcaster) marshal(msg *WSMessage) ([]byte, bool) {
	data, err := json.Marshal(msg)
	if err != nil {
		b.logger.Errorw("marshaling message", "type", msg.Type, "error", err)
		return nil, false
	}
	return data, true
}
