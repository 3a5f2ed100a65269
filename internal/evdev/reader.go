//go:build linux

// Package evdev reads a controller from Linux input event nodes.
package evdev

import (
	"context"
	"strings"
	"time"

	evdev "github.com/gvalkov/golang-evdev"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/soar/gyromouse/internal/device"
)

// motionSuffix is appended by the kernel HID drivers to the name of a
// controller's sensor node.
const motionSuffix = " Motion Sensors"

type controller struct {
	info device.ControllerInfo
}

func (c *controller) Info() device.ControllerInfo {
	return c.info
}

// Rumble is not supported through evdev.
func (c *controller) Rumble(low, high uint16, d time.Duration) error {
	return nil
}

// Reader implements device.Source for one gamepad node and an optional
// motion sensor node. Empty paths are discovered.
type Reader struct {
	devicePath string
	gyroPath   string
	poll       time.Duration
	logger     *zap.SugaredLogger
}

func NewReader(devicePath, gyroPath string, poll time.Duration, logger *zap.SugaredLogger) *Reader {
	return &Reader{devicePath: devicePath, gyroPath: gyroPath, poll: poll, logger: logger}
}

type inputEvent struct {
	motion bool
	ev     evdev.InputEvent
}

// Run reports the controller state every poll interval until ctx is done.
func (r *Reader) Run(ctx context.Context, h device.Handler) error {
	pad, sensors, err := r.open()
	if err != nil {
		return err
	}
	defer pad.File.Close()
	if sensors != nil {
		defer sensors.File.Close()
	}

	pads := newPadState(readRanges(pad))
	var motion *motionState
	c := &controller{info: describe(pad, 0)}
	if sensors != nil {
		accel, aerr := readAbsInfo(sensors.File, evdev.ABS_X)
		gyro, gerr := readAbsInfo(sensors.File, evdev.ABS_RX)
		if aerr != nil || gerr != nil {
			r.logger.Warnw("motion sensor resolution unavailable", "path", sensors.Fn, "error", multierr.Combine(aerr, gerr))
		} else {
			motion = newMotionState(accel.Resolution, gyro.Resolution)
			c.info.HasSensors = true
		}
	}

	events := make(chan inputEvent, 256)
	readErrs := make(chan error, 2)
	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go pump(readCtx, pad, false, events, readErrs)
	if motion != nil {
		go pump(readCtx, sensors, true, events, readErrs)
	}

	r.logger.Infow("controller connected", "name", c.info.Name, "path", c.info.Path, "sensors", c.info.HasSensors)
	h.Connected(c, time.Now())
	defer h.Disconnected(c.info.ID)

	ticker := time.NewTicker(r.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErrs:
			return errors.Wrapf(err, "read %s", c.info.Path)
		case ie := <-events:
			if ie.motion {
				motion.handle(ie.ev)
			} else {
				pads.handle(ie.ev)
			}
		case now := <-ticker.C:
			report := pads.report
			if motion != nil {
				report.Motion = motion.take()
			}
			if err := h.Report(c.info.ID, report, now); err != nil {
				return errors.Wrapf(err, "controller %q", c.info.Name)
			}
		}
	}
}

func pump(ctx context.Context, dev *evdev.InputDevice, isMotion bool, out chan<- inputEvent, errs chan<- error) {
	for {
		evs, err := dev.Read()
		if err != nil {
			if ctx.Err() == nil {
				errs <- err
			}
			return
		}
		for _, ev := range evs {
			select {
			case out <- inputEvent{motion: isMotion, ev: ev}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (r *Reader) open() (*evdev.InputDevice, *evdev.InputDevice, error) {
	devicePath, gyroPath := r.devicePath, r.gyroPath
	if devicePath == "" || gyroPath == "" {
		found, err := discover()
		if err != nil {
			return nil, nil, err
		}
		if devicePath == "" {
			devicePath = found.pad
		}
		if gyroPath == "" {
			gyroPath = found.sensors
		}
	}
	if devicePath == "" {
		return nil, nil, errors.New("no gamepad found in /dev/input")
	}

	pad, err := evdev.Open(devicePath)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open %s", devicePath)
	}
	if gyroPath == "" {
		return pad, nil, nil
	}
	sensors, err := evdev.Open(gyroPath)
	if err != nil {
		r.logger.Warnw("motion sensors unavailable", "path", gyroPath, "error", err)
		return pad, nil, nil
	}
	return pad, sensors, nil
}

type discovered struct {
	pad, sensors string
}

// discover returns the first gamepad node and the sensor node sharing its
// name.
func discover() (discovered, error) {
	devices, err := evdev.ListInputDevices()
	if err != nil {
		return discovered{}, errors.Wrap(err, "list input devices")
	}
	defer closeAll(devices)

	var found discovered
	var padName string
	for _, dev := range devices {
		if found.pad == "" && isGamepad(dev) {
			found.pad, padName = dev.Fn, dev.Name
		}
	}
	for _, dev := range devices {
		if padName != "" && dev.Name == padName+motionSuffix {
			found.sensors = dev.Fn
		}
	}
	return found, nil
}

// List describes every gamepad node.
func (r *Reader) List(ctx context.Context) ([]device.ControllerInfo, error) {
	devices, err := evdev.ListInputDevices()
	if err != nil {
		return nil, errors.Wrap(err, "list input devices")
	}
	defer closeAll(devices)

	sensorNames := make(map[string]bool)
	for _, dev := range devices {
		if strings.HasSuffix(dev.Name, motionSuffix) {
			sensorNames[strings.TrimSuffix(dev.Name, motionSuffix)] = true
		}
	}
	var infos []device.ControllerInfo
	for _, dev := range devices {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !isGamepad(dev) {
			continue
		}
		info := describe(dev, len(infos))
		info.HasSensors = sensorNames[dev.Name]
		infos = append(infos, info)
	}
	return infos, nil
}

func describe(dev *evdev.InputDevice, id int) device.ControllerInfo {
	return device.ControllerInfo{
		ID:     id,
		Name:   dev.Name,
		Family: device.Family(dev.Vendor),
		Path:   dev.Fn,
	}
}

func isGamepad(dev *evdev.InputDevice) bool {
	for ct, codes := range dev.Capabilities {
		if ct.Type != evdev.EV_KEY {
			continue
		}
		for _, code := range codes {
			if code.Code == evdev.BTN_GAMEPAD {
				return true
			}
		}
	}
	return false
}

func readRanges(dev *evdev.InputDevice) map[uint16]axisRange {
	ranges := make(map[uint16]axisRange)
	for code := range defaultRanges {
		info, err := readAbsInfo(dev.File, code)
		if err != nil || info.Maximum == info.Minimum {
			continue
		}
		ranges[code] = axisRange{min: info.Minimum, max: info.Maximum}
	}
	return ranges
}

func closeAll(devices []*evdev.InputDevice) {
	for _, dev := range devices {
		dev.File.Close()
	}
}
