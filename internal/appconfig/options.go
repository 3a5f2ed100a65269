// Package appconfig loads process options from flags, environment and an
// optional config file.
package appconfig

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/soar/gyromouse/internal/motion"
)

const (
	CommandRun      = "run"
	CommandValidate = "validate"
	CommandList     = "list"

	BackendSDL   = "sdl"
	BackendEvdev = "evdev"

	envPrefix      = "GYROMOUSE"
	defaultMapping = "default.txt"
)

var commands = map[string]bool{CommandRun: true, CommandValidate: true, CommandList: true}

type MQTTOptions struct {
	Broker   string `mapstructure:"broker"`
	Topic    string `mapstructure:"topic"`
	ClientID string `mapstructure:"client_id"`
}

type EvdevOptions struct {
	Device string `mapstructure:"device"`
	Gyro   string `mapstructure:"gyro"`
}

type LogOptions struct {
	Level string `mapstructure:"level"`
	Dev   bool   `mapstructure:"dev"`
}

// Options are the process settings. The mapping file holds everything
// about how input is mapped.
type Options struct {
	Command        string        `mapstructure:"command"`
	Mapping        string        `mapstructure:"mapping"`
	Backend        string        `mapstructure:"backend"`
	Evdev          EvdevOptions  `mapstructure:"evdev"`
	Fusion         string        `mapstructure:"fusion"`
	Calibration    time.Duration `mapstructure:"calibration"`
	Poll           time.Duration `mapstructure:"poll"`
	HTTP           string        `mapstructure:"http"`
	MQTT           MQTTOptions   `mapstructure:"mqtt"`
	Tray           bool          `mapstructure:"tray"`
	Uinput         string        `mapstructure:"uinput"`
	VirtualGamepad bool          `mapstructure:"virtual_gamepad"`
	Log            LogOptions    `mapstructure:"log"`
}

// flag name to config key, for flags whose key is nested.
var flagKeys = map[string]string{
	"evdev-device":    "evdev.device",
	"evdev-gyro":      "evdev.gyro",
	"mqtt-broker":     "mqtt.broker",
	"mqtt-topic":      "mqtt.topic",
	"mqtt-client-id":  "mqtt.client_id",
	"virtual-gamepad": "virtual_gamepad",
	"log-level":       "log.level",
	"log-dev":         "log.dev",
	"calibration":     "calibration",
	"poll":            "poll",
	"backend":         "backend",
	"fusion":          "fusion",
	"http":            "http",
	"tray":            "tray",
	"uinput":          "uinput",
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("gyromouse", pflag.ContinueOnError)
	fs.Usage = func() {}
	fs.String("config", "", "YAML file with process options")
	fs.String("backend", BackendSDL, "controller backend: sdl or evdev")
	fs.String("evdev-device", "", "evdev gamepad node, discovered when empty")
	fs.String("evdev-gyro", "", "evdev motion sensor node, discovered when empty")
	fs.String("fusion", motion.FusionAdaptive.String(), "gravity tracking: simple or adaptive")
	fs.Duration("calibration", 2*time.Second, "gyro calibration window after connect, 0 disables")
	fs.Duration("poll", 2*time.Millisecond, "controller poll interval")
	fs.String("http", ":8080", "status page address, empty disables")
	fs.String("mqtt-broker", "", "MQTT broker URL, empty disables")
	fs.String("mqtt-topic", "gyromouse", "MQTT topic prefix")
	fs.String("mqtt-client-id", "gyromouse", "MQTT client id")
	fs.Bool("tray", false, "show a system tray icon")
	fs.String("uinput", "/dev/uinput", "uinput device path")
	fs.Bool("virtual-gamepad", false, "create a virtual gamepad for x_* actions")
	fs.String("log-level", "info", "log level")
	fs.Bool("log-dev", false, "human readable logs")
	return fs
}

// Usage returns the flag help text.
func Usage() string {
	return "usage: gyromouse [run|validate|list] [mapping file] [flags]\n" + newFlagSet().FlagUsages()
}

// Load reads options from args (without the program name), GYROMOUSE_*
// environment variables and the --config file, in that precedence.
func Load(args []string) (Options, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return Options{}, errors.Wrapf(err, "bind flag %s", name)
		}
	}
	// Nested keys with no flag must be known for env lookup while
	// unmarshaling.
	v.SetDefault("command", CommandRun)
	v.SetDefault("mapping", "")

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Options{}, errors.Wrapf(err, "read config %s", path)
		}
	}

	positional := fs.Args()
	if len(positional) > 0 && commands[positional[0]] {
		v.Set("command", positional[0])
		positional = positional[1:]
	}
	if len(positional) > 1 {
		return Options{}, errors.Errorf("unexpected arguments %q", positional[1:])
	}
	if len(positional) == 1 {
		v.Set("mapping", positional[0])
	}

	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return Options{}, errors.Wrap(err, "decode options")
	}
	if opts.Mapping == "" {
		opts.Mapping = defaultMappingPath()
	}
	return opts, nil
}

func defaultMappingPath() string {
	exe, err := os.Executable()
	if err != nil {
		return defaultMapping
	}
	return filepath.Join(filepath.Dir(exe), defaultMapping)
}

// FusionKind parses the fusion option.
func (o Options) FusionKind() (motion.FusionKind, error) {
	return motion.ParseFusionKind(o.Fusion)
}

// Validate reports every invalid option.
func (o Options) Validate() error {
	var err error
	if !commands[o.Command] {
		err = multierr.Append(err, errors.Errorf("unknown command %q", o.Command))
	}
	if o.Backend != BackendSDL && o.Backend != BackendEvdev {
		err = multierr.Append(err, errors.Errorf("unknown backend %q", o.Backend))
	}
	if _, ferr := o.FusionKind(); ferr != nil {
		err = multierr.Append(err, ferr)
	}
	if o.Calibration < 0 {
		err = multierr.Append(err, errors.Errorf("calibration window %v is negative", o.Calibration))
	}
	if o.Poll <= 0 {
		err = multierr.Append(err, errors.Errorf("poll interval %v must be positive", o.Poll))
	}
	if _, lerr := zap.ParseAtomicLevel(o.Log.Level); lerr != nil {
		err = multierr.Append(err, errors.Wrapf(lerr, "log level %q", o.Log.Level))
	}
	if o.MQTT.Broker != "" && o.MQTT.Topic == "" {
		err = multierr.Append(err, errors.New("mqtt topic must be set with a broker"))
	}
	return err
}
