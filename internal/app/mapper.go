// Package app connects a device source to one mapping engine per controller
// and publishes their state.
package app

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/geo/r2"
	"go.uber.org/zap"

	"github.com/soar/gyromouse/internal/config"
	"github.com/soar/gyromouse/internal/device"
	"github.com/soar/gyromouse/internal/engine"
	"github.com/soar/gyromouse/internal/mapping"
	"github.com/soar/gyromouse/internal/motion"
	"github.com/soar/gyromouse/internal/output"
	"github.com/soar/gyromouse/internal/telemetry"
)

const (
	DefaultSnapshotInterval  = 50 * time.Millisecond
	DefaultCalibrationWindow = 2 * time.Second

	rumbleLow      = 220
	rumbleHigh     = 440
	rumbleDuration = 100 * time.Millisecond
)

// Config is what every controller's engine is built from.
type Config struct {
	Settings config.Settings
	// Buttons holds the bindings; each controller gets a clone.
	Buttons           *mapping.Buttons
	Fusion            motion.FusionKind
	CalibrationWindow time.Duration
	SnapshotInterval  time.Duration
}

type controllerState struct {
	controller  device.Controller
	info        device.ControllerInfo
	engine      *engine.Engine
	calibrator  motion.Calibrator
	calibrating bool

	lastReport   time.Time
	lastSnapshot time.Time
	keys         [mapping.JoyKeyCount]bool
	report       device.Report
	moved        r2.Point
}

// Mapper implements device.Handler. Its handler methods must be called from
// one goroutine; Status, SetPaused and Subscribe are safe from any.
type Mapper struct {
	cfg     Config
	sink    output.Sink
	gamepad output.GamepadSink
	logger  *zap.SugaredLogger

	controllers map[int]*controllerState
	paused      atomic.Bool

	mu          sync.RWMutex
	latest      map[int]telemetry.Snapshot
	subscribers []chan telemetry.Update
}

func NewMapper(cfg Config, sink output.Sink, gamepad output.GamepadSink, logger *zap.SugaredLogger) *Mapper {
	if cfg.SnapshotInterval <= 0 {
		cfg.SnapshotInterval = DefaultSnapshotInterval
	}
	if cfg.Buttons == nil {
		cfg.Buttons = mapping.NewButtons()
	}
	return &Mapper{
		cfg:         cfg,
		sink:        sink,
		gamepad:     gamepad,
		logger:      logger,
		controllers: make(map[int]*controllerState),
		latest:      make(map[int]telemetry.Snapshot),
	}
}

// Subscribe returns a channel receiving snapshots and events. Updates are
// dropped when the channel is full.
func (m *Mapper) Subscribe(buffer int) <-chan telemetry.Update {
	ch := make(chan telemetry.Update, buffer)
	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()
	return ch
}

// SetPaused suspends output on every controller from the next report on.
func (m *Mapper) SetPaused(paused bool) {
	m.paused.Store(paused)
	m.logger.Infow("mapping paused", "paused", paused)
}

func (m *Mapper) Paused() bool {
	return m.paused.Load()
}

// Status returns the latest snapshot of every connected controller.
func (m *Mapper) Status() []telemetry.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]telemetry.Snapshot, 0, len(m.latest))
	for _, s := range m.latest {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Controller < out[j].Controller })
	return out
}

func (m *Mapper) Connected(c device.Controller, now time.Time) {
	info := c.Info()
	e, err := engine.New(
		m.cfg.Settings,
		m.cfg.Buttons.Clone(),
		motion.EmptyCalibration(),
		m.sink,
		engine.Options{Fusion: m.cfg.Fusion, Gamepad: m.gamepad},
		m.logger.With("controller", info.ID),
	)
	if err != nil {
		m.logger.Errorw("cannot map controller", "name", info.Name, "error", err)
		return
	}
	st := &controllerState{
		controller:  c,
		info:        info,
		engine:      e,
		calibrating: info.HasSensors && m.cfg.CalibrationWindow > 0,
	}
	m.controllers[info.ID] = st
	if st.calibrating {
		m.logger.Infow("calibrating, keep the controller still", "name", info.Name, "window", m.cfg.CalibrationWindow)
	}
	m.publish(telemetry.Update{Event: &telemetry.Event{
		Kind: telemetry.EventConnected, Controller: info.ID, Name: info.Name, Timestamp: now,
	}})
	m.snapshot(st, now)
}

func (m *Mapper) Disconnected(id int) {
	st, ok := m.controllers[id]
	if !ok {
		return
	}
	if err := st.engine.Close(); err != nil {
		m.logger.Warnw("releasing outputs failed", "controller", id, "error", err)
	}
	delete(m.controllers, id)

	m.mu.Lock()
	delete(m.latest, id)
	m.mu.Unlock()
	m.publish(telemetry.Update{Event: &telemetry.Event{
		Kind: telemetry.EventDisconnected, Controller: id, Name: st.info.Name, Timestamp: time.Now(),
	}})
}

// Report runs one control-loop iteration for a controller. The returned
// error comes from the output sink and is terminal.
func (m *Mapper) Report(id int, r device.Report, now time.Time) error {
	st, ok := m.controllers[id]
	if !ok {
		return nil
	}
	var dt time.Duration
	if !st.lastReport.IsZero() {
		dt = now.Sub(st.lastReport)
	}
	st.lastReport = now
	st.report = r
	e := st.engine

	if err := e.SetPaused(m.paused.Load()); err != nil {
		return err
	}

	settings := e.Settings()
	for k := range mapping.JoyKeyCount {
		key := mapping.JoyKey(k)
		pressed := r.Pressed(key)
		switch key {
		case mapping.JoyZL:
			pressed = pressed || r.LeftTrigger >= settings.TriggerThreshold
		case mapping.JoyZR:
			pressed = pressed || r.RightTrigger >= settings.TriggerThreshold
		}
		if pressed != st.keys[k] {
			st.keys[k] = pressed
			e.Buttons().Key(key.MapKey(), pressed, now)
		}
	}

	e.HandleLeftStick(r.Left, now, dt)
	e.HandleRightStick(r.Right, now, dt)

	if st.info.HasSensors {
		if st.calibrating {
			m.calibrate(st, r.Motion, now)
		} else if len(r.Motion) > 0 {
			e.HandleMotionFrame(r.Motion, dt)
			e.HandleMotionStick(now, dt)
		}
	}

	if err := e.ApplyActions(now); err != nil {
		return err
	}

	st.moved = st.moved.Add(e.TakeMoved())
	if now.Sub(st.lastSnapshot) >= m.cfg.SnapshotInterval {
		m.snapshot(st, now)
	}
	return nil
}

func (m *Mapper) calibrate(st *controllerState, samples []motion.Sample, now time.Time) {
	done := false
	for _, s := range samples {
		done = st.calibrator.Push(s, now, m.cfg.CalibrationWindow) || done
	}
	if !done {
		return
	}
	c := st.calibrator.Finish()
	st.engine.SetCalibration(c)
	st.calibrating = false
	m.logger.Infow("calibration done",
		"name", st.info.Name, "samples", st.calibrator.Samples(), "bias", c.Bias())
	if err := st.controller.Rumble(rumbleLow, rumbleHigh, rumbleDuration); err != nil {
		m.logger.Debugw("rumble failed", "name", st.info.Name, "error", err)
	}
}

func (m *Mapper) snapshot(st *controllerState, now time.Time) {
	e := st.engine
	buttons := e.Buttons()

	var keys []string
	for k := range mapping.MapKeyCount {
		if buttons.State(mapping.MapKey(k)).Status.IsDown() {
			keys = append(keys, mapping.MapKey(k).String())
		}
	}
	var layers []int
	for _, l := range buttons.Layers() {
		layers = append(layers, int(l))
	}
	up := e.Gyro().UpVector()

	s := telemetry.Snapshot{
		Controller:  st.info.ID,
		Name:        st.info.Name,
		Family:      st.info.Family,
		Connected:   true,
		Calibrating: st.calibrating,
		GyroEnabled: e.Gyro().Enabled(),
		Paused:      e.Paused(),
		Keys:        keys,
		Left:        telemetry.Vec2{X: st.report.Left.X, Y: st.report.Left.Y},
		Right:       telemetry.Vec2{X: st.report.Right.X, Y: st.report.Right.Y},
		Triggers:    telemetry.Triggers{Left: st.report.LeftTrigger, Right: st.report.RightTrigger},
		UpVector:    telemetry.Vec3{X: up.X, Y: up.Y, Z: up.Z},
		Layers:      layers,
		Mouse:       telemetry.Vec2{X: st.moved.X, Y: st.moved.Y},
		Timestamp:   now,
	}
	st.moved = r2.Point{}
	st.lastSnapshot = now

	m.mu.Lock()
	m.latest[s.Controller] = s
	m.mu.Unlock()
	m.publish(telemetry.Update{Snapshot: &s})
}

func (m *Mapper) publish(u telemetry.Update) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, ch := range m.subscribers {
		select {
		case ch <- u:
		default:
		}
	}
}

// Close releases every controller's held outputs.
func (m *Mapper) Close() {
	for id := range m.controllers {
		m.Disconnected(id)
	}
}
