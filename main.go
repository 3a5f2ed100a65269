package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/soar/gyromouse/internal/app"
	"github.com/soar/gyromouse/internal/appconfig"
	"github.com/soar/gyromouse/internal/device"
	"github.com/soar/gyromouse/internal/evdev"
	"github.com/soar/gyromouse/internal/gamepad"
	"github.com/soar/gyromouse/internal/logging"
)

// Cross-platform signal handling: os.Interrupt is Ctrl+C everywhere.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := appconfig.Load(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, appconfig.Usage())
		return 2
	}
	if err := opts.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	logger, err := logging.New(opts.Log.Level, opts.Log.Dev)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer cancel()

	switch opts.Command {
	case appconfig.CommandValidate:
		return validateMapping(opts.Mapping, logger)
	case appconfig.CommandList:
		return listControllers(ctx, opts, logger)
	default:
		return runMapper(ctx, cancel, opts, logger)
	}
}

func validateMapping(path string, logger *zap.SugaredLogger) int {
	m, err := app.ReadMapping(path, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	failed := false
	for _, pe := range m.ParseErrors {
		fmt.Printf("%s: %v\n", path, pe)
		failed = true
	}
	for _, verr := range m.Settings.Validate() {
		fmt.Printf("%s: %v\n", path, verr)
		failed = true
	}
	if failed {
		return 1
	}
	fmt.Printf("%s: ok\n", path)
	return 0
}

func newSource(opts appconfig.Options, afterInit func(), logger *zap.SugaredLogger) device.Source {
	if opts.Backend == appconfig.BackendEvdev {
		return evdev.NewReader(opts.Evdev.Device, opts.Evdev.Gyro, opts.Poll, logger)
	}
	r := gamepad.NewReader(opts.Poll, logger)
	r.AfterInit = afterInit
	return r
}

func listControllers(ctx context.Context, opts appconfig.Options, logger *zap.SugaredLogger) int {
	infos, err := newSource(opts, nil, logger).List(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(infos) == 0 {
		fmt.Println("no controllers found")
		return 0
	}
	for _, info := range infos {
		sensors := "no motion sensors"
		if info.HasSensors {
			sensors = "motion sensors"
		}
		fmt.Printf("%d\t%s\t%s\t%s\t%s\n", info.ID, info.Name, info.Family, sensors, info.Path)
	}
	return 0
}
