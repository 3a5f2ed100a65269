package app

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/soar/gyromouse/internal/config"
	"github.com/soar/gyromouse/internal/mapping"
	"github.com/soar/gyromouse/internal/motion"
)

// MappingFile is a parsed mapping file. Lines that failed to parse are kept
// in ParseErrors and skipped.
type MappingFile struct {
	Settings    config.Settings
	Buttons     *mapping.Buttons
	ParseErrors []config.ParseError
}

// ReadMapping reads and parses the mapping file at path.
func ReadMapping(path string, logger *zap.SugaredLogger) (MappingFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return MappingFile{}, errors.Wrap(err, "read mapping")
	}
	m := MappingFile{Settings: config.DefaultSettings(), Buttons: mapping.NewButtons()}
	m.ParseErrors = config.Load(string(content), &m.Settings, m.Buttons, logger)
	return m, nil
}

// Validate combines every reason the settings cannot run.
func (m MappingFile) Validate() error {
	return multierr.Combine(m.Settings.Validate()...)
}

// Config returns the mapper configuration for these bindings. Settings that
// cannot run are an error here rather than when a controller connects.
func (m MappingFile) Config(fusion motion.FusionKind, calibration time.Duration) (Config, error) {
	if err := m.Validate(); err != nil {
		return Config{}, err
	}
	return Config{
		Settings:          m.Settings,
		Buttons:           m.Buttons,
		Fusion:            fusion,
		CalibrationWindow: calibration,
	}, nil
}
