// Package gamepad reads controllers through the SDL3 gamepad API, including
// gyroscope and accelerometer sensors.
package gamepad

import (
	"context"
	"math"
	"runtime"
	"time"

	"github.com/golang/geo/r3"
	"github.com/jupiterrider/purego-sdl3/sdl"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/soar/gyromouse/internal/device"
	"github.com/soar/gyromouse/internal/motion"
)

// steamVirtual is the name Steam gives the gamepads it synthesizes from the
// controllers it already exposes to us.
const steamVirtual = "Steam Virtual Gamepad"

const degPerRad = 180 / math.Pi

type controller struct {
	gamepad  *sdl.Gamepad
	joystick *sdl.Joystick
	instance sdl.JoystickID
	info     device.ControllerInfo
	accel    r3.Vector
	pending  []motion.Sample
	rate     float64
}

func (c *controller) Info() device.ControllerInfo {
	return c.info
}

func (c *controller) Rumble(low, high uint16, d time.Duration) error {
	if !sdl.RumbleJoystick(c.joystick, low, high, uint32(d.Milliseconds())) {
		return errors.Errorf("rumble %q: %s", c.info.Name, sdl.GetError())
	}
	return nil
}

// Reader polls SDL gamepads on a locked OS thread and implements
// device.Source.
type Reader struct {
	poll   time.Duration
	logger *zap.SugaredLogger
	// AfterInit runs on the SDL thread right after SDL is initialized.
	AfterInit func()

	controllers map[sdl.JoystickID]*controller
	nextID      int
}

// NewReader returns a reader that polls every poll.
func NewReader(poll time.Duration, logger *zap.SugaredLogger) *Reader {
	return &Reader{
		poll:        poll,
		logger:      logger,
		controllers: make(map[sdl.JoystickID]*controller),
	}
}

func initSDL() error {
	if err := bindGamepadFuncs(); err != nil {
		return err
	}
	if !sdl.Init(sdl.InitGamepad) {
		return errors.Errorf("SDL init failed: %s", sdl.GetError())
	}
	return nil
}

// Run initializes SDL and runs the event and polling loop on the current
// thread until ctx is done.
func (r *Reader) Run(ctx context.Context, h device.Handler) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := initSDL(); err != nil {
		return err
	}
	defer sdl.Quit()
	if r.AfterInit != nil {
		r.AfterInit()
	}
	r.logger.Info("SDL3 gamepad subsystem initialized")
	defer r.closeAll(h)

	for _, id := range sdl.GetGamepads() {
		r.open(id, h)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		r.processEvents(h)
		if err := r.pollState(h); err != nil {
			return err
		}
		sdl.DelayNS(uint64(r.poll.Nanoseconds()))
	}
}

// List opens every attached gamepad once to describe it.
func (r *Reader) List(ctx context.Context) ([]device.ControllerInfo, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := initSDL(); err != nil {
		return nil, err
	}
	defer sdl.Quit()

	var infos []device.ControllerInfo
	for i, id := range sdl.GetGamepads() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g := sdl.OpenGamepad(id)
		if g == nil {
			r.logger.Warnw("failed to open gamepad", "instance", id, "error", sdl.GetError())
			continue
		}
		infos = append(infos, describe(g, sdl.GetJoystickFromID(id), i))
		sdl.CloseGamepad(g)
	}
	return infos, nil
}

func describe(g *sdl.Gamepad, j *sdl.Joystick, id int) device.ControllerInfo {
	return device.ControllerInfo{
		ID:     id,
		Name:   sdl.GetGamepadName(g),
		Family: device.Family(sdl.GetJoystickVendor(j)),
		HasSensors: gamepadHasSensor(g, sdl.SensorGyro) &&
			gamepadHasSensor(g, sdl.SensorAccel),
		Path: sdl.GetJoystickPath(j),
	}
}

func (r *Reader) processEvents(h device.Handler) {
	var event sdl.Event
	for sdl.PollEvent(&event) {
		switch event.Type() {
		case sdl.EventGamepadAdded:
			r.open(event.GDevice().Which, h)

		case sdl.EventGamepadRemoved:
			r.remove(event.GDevice().Which, h)

		case sdl.EventGamepadSensorUpdate:
			se := event.GSensor()
			c, ok := r.controllers[se.Which]
			if !ok {
				continue
			}
			v := r3.Vector{X: float64(se.Data[0]), Y: float64(se.Data[1]), Z: float64(se.Data[2])}
			switch sdl.SensorType(se.Sensor) {
			case sdl.SensorAccel:
				c.accel = v.Mul(1 / motion.GravityMS2)
			case sdl.SensorGyro:
				c.pending = append(c.pending, motion.Sample{
					RotationSpeed: v.Mul(degPerRad),
					Acceleration:  c.accel,
				})
			}
		}
	}
}

func (r *Reader) open(instance sdl.JoystickID, h device.Handler) {
	if _, exists := r.controllers[instance]; exists {
		return
	}

	name := sdl.GetGamepadNameForID(instance)
	if name == steamVirtual {
		r.logger.Debugw("skipping Steam virtual gamepad", "instance", instance)
		return
	}
	for _, c := range r.controllers {
		if c.info.Name == name {
			r.logger.Infow("skipping duplicate controller", "name", name)
			return
		}
	}

	g := sdl.OpenGamepad(instance)
	if g == nil {
		r.logger.Warnw("failed to open gamepad", "instance", instance, "error", sdl.GetError())
		return
	}

	j := sdl.GetJoystickFromID(instance)
	c := &controller{
		gamepad:  g,
		joystick: j,
		instance: instance,
		info:     describe(g, j, r.nextID),
	}
	r.nextID++
	if c.info.HasSensors {
		if !setGamepadSensorEnabled(g, sdl.SensorAccel, true) ||
			!setGamepadSensorEnabled(g, sdl.SensorGyro, true) {
			r.logger.Warnw("failed to enable motion sensors", "name", c.info.Name, "error", sdl.GetError())
			c.info.HasSensors = false
		} else {
			c.rate = float64(getGamepadSensorDataRate(g, sdl.SensorGyro))
		}
	}
	r.controllers[instance] = c

	r.logger.Infow("controller connected",
		"id", c.info.ID, "name", c.info.Name, "family", c.info.Family,
		"sensors", c.info.HasSensors, "rate", c.rate)
	h.Connected(c, time.Now())
}

func (r *Reader) remove(instance sdl.JoystickID, h device.Handler) {
	c, exists := r.controllers[instance]
	if !exists {
		return
	}
	r.logger.Infow("controller disconnected", "id", c.info.ID, "name", c.info.Name)
	sdl.CloseGamepad(c.gamepad)
	delete(r.controllers, instance)
	h.Disconnected(c.info.ID)
}

func (r *Reader) closeAll(h device.Handler) {
	for instance := range r.controllers {
		r.remove(instance, h)
	}
}

func (r *Reader) pollState(h device.Handler) error {
	now := time.Now()
	for _, c := range r.controllers {
		if !sdl.JoystickConnected(c.joystick) {
			continue
		}
		report := readReport(c.gamepad)
		report.Motion = c.pending
		report.Frequency = c.rate
		c.pending = nil
		if err := h.Report(c.info.ID, report, now); err != nil {
			return errors.Wrapf(err, "controller %q", c.info.Name)
		}
	}
	return nil
}
