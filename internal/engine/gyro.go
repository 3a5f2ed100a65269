package engine

import (
	"time"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/soar/gyromouse/internal/config"
	"github.com/soar/gyromouse/internal/gyromouse"
	"github.com/soar/gyromouse/internal/motion"
	"github.com/soar/gyromouse/internal/mouse"
)

// Gyro turns calibrated motion samples into mouse movement.
type Gyro struct {
	enabled     bool
	calibration motion.Calibration
	fusion      motion.SensorFusion
	mapper      motion.SpaceMapper
	gyromouse   gyromouse.GyroMouse
}

func newSpaceMapper(space config.GyroSpace) (motion.SpaceMapper, error) {
	switch space {
	case config.SpaceLocal:
		return motion.LocalSpace{}, nil
	case config.SpaceWorldTurn:
		return motion.WorldSpace{}, nil
	case config.SpacePlayerTurn:
		return motion.NewPlayerSpace(), nil
	default:
		return nil, errors.Wrap(config.ErrUnsupportedGyroSpace, space.String())
	}
}

// NewGyro builds an enabled gyro for the configured space.
func NewGyro(settings config.GyroSettings, calibration motion.Calibration, fusion motion.FusionKind) (*Gyro, error) {
	mapper, err := newSpaceMapper(settings.Space)
	if err != nil {
		return nil, err
	}
	return &Gyro{
		enabled:     true,
		calibration: calibration,
		fusion:      motion.NewFusion(fusion),
		mapper:      mapper,
	}, nil
}

// HandleFrame processes the samples received since the last frame, dt
// being split evenly between them. The summed movement is sent once when the
// gyro is enabled; fusion runs regardless.
func (g *Gyro) HandleFrame(settings *config.Settings, samples []motion.Sample, m *mouse.Mouse, dt time.Duration) {
	if len(samples) == 0 {
		return
	}
	dt /= time.Duration(len(samples))
	var delta r2.Point
	for _, s := range samples {
		s = g.calibration.Calibrate(s)
		rot := motion.MapInput(s, dt, g.fusion, g.mapper)
		rot = settings.Gyro.Invert.Apply(rot)
		delta = delta.Add(g.gyromouse.Process(settings.Gyro, rot, dt))
	}
	if g.enabled {
		m.MoveRelative(settings.Mouse, delta)
	}
}

func (g *Gyro) Enabled() bool {
	return g.enabled
}

func (g *Gyro) SetEnabled(on bool) {
	g.enabled = on
}

// UpVector is the current gravity estimate in device coordinates.
func (g *Gyro) UpVector() r3.Vector {
	return g.fusion.UpVector()
}

func (g *Gyro) SetCalibration(c motion.Calibration) {
	g.calibration = c
}
