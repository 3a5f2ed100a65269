package hub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
	"go.viam.com/test"

	"github.com/soar/gyromouse/internal/telemetry"
)

func newTestClient(h *Hub) *Client {
	c := &Client{hub: h, send: make(chan []byte, 16)}
	h.Register(c)
	return c
}

func receive(t *testing.T, c *Client) WSMessage {
	t.Helper()
	select {
	case data := <-c.send:
		var msg WSMessage
		test.That(t, json.Unmarshal(data, &msg), test.ShouldBeNil)
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message")
		return WSMessage{}
	}
}

func TestBroadcaster(t *testing.T) {
	logger := zaptest.NewLogger(t).Sugar()
	h := NewHub(logger)
	c := newTestClient(h)
	b := NewBroadcaster(h, nil, logger)

	first := telemetry.Snapshot{Controller: 0, Name: "Pro Controller", Connected: true}
	b.handleSnapshot(first)
	msg := receive(t, c)
	test.That(t, msg.Type, test.ShouldEqual, TypeFull)
	test.That(t, msg.Data.Name, test.ShouldEqual, "Pro Controller")

	b.handleSnapshot(first)
	test.That(t, c.send, test.ShouldBeEmpty)

	moved := first
	moved.Left = telemetry.Vec2{X: 0.5}
	b.handleSnapshot(moved)
	msg = receive(t, c)
	test.That(t, msg.Type, test.ShouldEqual, TypeDelta)
	test.That(t, *msg.Changes.Left, test.ShouldResemble, telemetry.Vec2{X: 0.5})
	test.That(t, msg.Changes.Name, test.ShouldBeNil)

	other := telemetry.Snapshot{Controller: 1, Name: "DualSense", Connected: true}
	b.handleSnapshot(other)
	test.That(t, c.send, test.ShouldBeEmpty)

	test.That(t, b.SelectController(c, 7), test.ShouldBeFalse)
	test.That(t, b.SelectController(c, 1), test.ShouldBeTrue)
	test.That(t, c.Controller(), test.ShouldEqual, 1)
	msg = receive(t, c)
	test.That(t, msg.Type, test.ShouldEqual, TypeControllerSelected)
	test.That(t, msg.Controller, test.ShouldEqual, 1)
	msg = receive(t, c)
	test.That(t, msg.Type, test.ShouldEqual, TypeFull)
	test.That(t, msg.Data.Name, test.ShouldEqual, "DualSense")

	b.handleEvent(&telemetry.Event{Kind: telemetry.EventDisconnected, Controller: 1, Name: "DualSense"})
	msg = receive(t, c)
	test.That(t, msg.Type, test.ShouldEqual, TypeEvent)
	test.That(t, msg.Event.Kind, test.ShouldEqual, telemetry.EventDisconnected)
	test.That(t, b.SelectController(c, 1), test.ShouldBeFalse)
}

func TestBroadcasterFullSyncAfterDeltas(t *testing.T) {
	logger := zaptest.NewLogger(t).Sugar()
	h := NewHub(logger)
	c := newTestClient(h)
	b := NewBroadcaster(h, nil, logger)

	snap := telemetry.Snapshot{Connected: true}
	b.handleSnapshot(snap)
	receive(t, c)
	for i := 1; i < deltaCountSync; i++ {
		snap.Left.X = float64(i%2) * 0.5
		b.handleSnapshot(snap)
		test.That(t, receive(t, c).Type, test.ShouldEqual, TypeDelta)
	}
	snap.Left.X = 0.25
	b.handleSnapshot(snap)
	test.That(t, receive(t, c).Type, test.ShouldEqual, TypeFull)
}

func TestBroadcasterRun(t *testing.T) {
	logger := zaptest.NewLogger(t).Sugar()
	h := NewHub(logger)
	c := newTestClient(h)
	updates := make(chan telemetry.Update, 4)
	b := NewBroadcaster(h, updates, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()

	updates <- telemetry.Update{Event: &telemetry.Event{Kind: telemetry.EventConnected, Name: "Pro Controller"}}
	updates <- telemetry.Update{Snapshot: &telemetry.Snapshot{Name: "Pro Controller"}}
	test.That(t, receive(t, c).Type, test.ShouldEqual, TypeEvent)
	test.That(t, receive(t, c).Type, test.ShouldEqual, TypeFull)

	cancel()
	<-done
}

func TestHubUnregisterOnFullBuffer(t *testing.T) {
	logger := zaptest.NewLogger(t).Sugar()
	h := NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := &Client{hub: h, send: make(chan []byte, 1)}
	h.Register(c)
	test.That(t, h.Clients(), test.ShouldEqual, 1)
	h.Broadcast([]byte("a"))
	h.Broadcast([]byte("b"))

	deadline := time.Now().Add(time.Second)
	for h.Clients() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	test.That(t, h.Clients(), test.ShouldEqual, 0)
}

func TestHubUnregisterAfterRun(t *testing.T) {
	h := NewHub(zaptest.NewLogger(t).Sugar())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	c := newTestClient(h)
	cancel()
	<-stopped
	_, open := <-c.send
	test.That(t, open, test.ShouldBeFalse)

	unregistered := make(chan struct{})
	go func() {
		h.Unregister(c)
		close(unregistered)
	}()
	select {
	case <-unregistered:
	case <-time.After(time.Second):
		t.Fatal("Unregister blocked after the hub stopped")
	}
}
