// Package mqtt publishes controller snapshots to an MQTT broker.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/soar/gyromouse/internal/telemetry"
)

const (
	// DefaultInterval caps publishing at 10Hz per controller.
	DefaultInterval = 100 * time.Millisecond
	publishTimeout  = time.Second
	connectTimeout  = 5 * time.Second
)

// Client is the part of paho.Client the publisher uses.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

// Connect dials broker.
func Connect(broker, clientID string) (paho.Client, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetConnectTimeout(connectTimeout).
		SetAutoReconnect(true)
	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, errors.Wrapf(token.Error(), "connect to %s", broker)
	}
	return client, nil
}

// Publisher writes each controller's snapshot to <topic>/<controller>/state.
type Publisher struct {
	client   Client
	topic    string
	interval time.Duration
	logger   *zap.SugaredLogger
	last     map[int]time.Time
}

func NewPublisher(client Client, topic string, interval time.Duration, logger *zap.SugaredLogger) *Publisher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Publisher{
		client:   client,
		topic:    topic,
		interval: interval,
		logger:   logger,
		last:     make(map[int]time.Time),
	}
}

// StateTopic is where controller's snapshots go.
func (p *Publisher) StateTopic(controller int) string {
	return fmt.Sprintf("%s/%d/state", p.topic, controller)
}

// Run publishes updates until ctx is done or updates closes, then
// disconnects.
func (p *Publisher) Run(ctx context.Context, updates <-chan telemetry.Update) {
	defer p.client.Disconnect(250)
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			switch {
			case u.Snapshot != nil:
				p.publish(u.Snapshot)
			case u.Event != nil && u.Event.Kind == telemetry.EventDisconnected:
				delete(p.last, u.Event.Controller)
			}
		}
	}
}

func (p *Publisher) publish(s *telemetry.Snapshot) {
	if last, ok := p.last[s.Controller]; ok && s.Timestamp.Sub(last) < p.interval {
		return
	}
	p.last[s.Controller] = s.Timestamp

	payload, err := json.Marshal(s)
	if err != nil {
		p.logger.Errorw("marshaling snapshot", "error", err)
		return
	}
	token := p.client.Publish(p.StateTopic(s.Controller), 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		p.logger.Debugw("MQTT publish timed out", "controller", s.Controller)
		return
	}
	if err := token.Error(); err != nil {
		p.logger.Warnw("MQTT publish failed", "controller", s.Controller, "error", err)
	}
}
