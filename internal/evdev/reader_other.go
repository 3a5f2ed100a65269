//go:build !linux

// Package evdev reads a controller from Linux input event nodes.
package evdev

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/soar/gyromouse/internal/device"
)

var errUnsupported = errors.New("evdev backend is only available on Linux")

type Reader struct{}

func NewReader(devicePath, gyroPath string, poll time.Duration, logger *zap.SugaredLogger) *Reader {
	return &Reader{}
}

func (r *Reader) Run(ctx context.Context, h device.Handler) error {
	return errUnsupported
}

func (r *Reader) List(ctx context.Context) ([]device.ControllerInfo, error) {
	return nil, errUnsupported
}
