package main

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/soar/gyromouse/internal/app"
	"github.com/soar/gyromouse/internal/appconfig"
	"github.com/soar/gyromouse/internal/console"
	"github.com/soar/gyromouse/internal/hub"
	"github.com/soar/gyromouse/internal/mqtt"
	"github.com/soar/gyromouse/internal/output"
	"github.com/soar/gyromouse/internal/server"
	"github.com/soar/gyromouse/internal/tray"
)

const (
	hubBuffer      = 256
	mqttBuffer     = 64
	shutdownPeriod = 5 * time.Second
)

func statusURL(addr string) string {
	if addr == "" {
		return ""
	}
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func runMapper(ctx context.Context, cancel context.CancelFunc, opts appconfig.Options, logger *zap.SugaredLogger) int {
	reregister := console.SetupConsoleHandler(cancel, logger)

	m, err := app.ReadMapping(opts.Mapping, logger)
	if err != nil {
		logger.Errorw("cannot read mapping file", "path", opts.Mapping, "error", err)
		return 1
	}
	for _, pe := range m.ParseErrors {
		logger.Warnw("mapping line ignored", "path", opts.Mapping, "error", pe)
	}
	fusion, err := opts.FusionKind()
	if err != nil {
		logger.Error(err)
		return 1
	}
	cfg, err := m.Config(fusion, opts.Calibration)
	if err != nil {
		logger.Errorw("invalid mapping", "path", opts.Mapping, "error", err)
		return 1
	}

	area := cfg.Settings.Stick.Area
	sink, err := output.NewUinput(opts.Uinput, int32(area.ScreenResolutionX), int32(area.ScreenResolutionY))
	if err != nil {
		logger.Errorw("cannot create virtual input devices", "error", err)
		return 1
	}
	defer sink.Close()

	var pad output.GamepadSink
	if opts.VirtualGamepad {
		up, err := output.NewUinputGamepad(opts.Uinput)
		if err != nil {
			logger.Errorw("cannot create virtual gamepad", "error", err)
			return 1
		}
		defer up.Close()
		pad = up
	}

	mapper := app.NewMapper(cfg, sink, pad, logger)

	var wg sync.WaitGroup
	failures := make(chan error, 2)

	var srv *server.Server
	if opts.HTTP != "" {
		h := hub.NewHub(logger)
		b := hub.NewBroadcaster(h, mapper.Subscribe(hubBuffer), logger)
		srv, err = server.New(h, b, mapper, statusPage, opts.HTTP, logger)
		if err != nil {
			logger.Error(err)
			return 1
		}
		wg.Add(3)
		go func() {
			defer wg.Done()
			h.Run(ctx)
		}()
		go func() {
			defer wg.Done()
			b.Run(ctx)
		}()
		go func() {
			defer wg.Done()
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				failures <- errors.Wrap(err, "HTTP server")
			}
		}()
		logger.Infow("status page", "url", statusURL(opts.HTTP))
	}

	if opts.MQTT.Broker != "" {
		client, err := mqtt.Connect(opts.MQTT.Broker, opts.MQTT.ClientID)
		if err != nil {
			logger.Errorw("MQTT disabled", "error", err)
		} else {
			pub := mqtt.NewPublisher(client, opts.MQTT.Topic, mqtt.DefaultInterval, logger)
			updates := mapper.Subscribe(mqttBuffer)
			wg.Add(1)
			go func() {
				defer wg.Done()
				pub.Run(ctx, updates)
			}()
		}
	}

	if opts.Tray || !console.IsRunningFromConsole() {
		t := tray.New(mapper, statusURL(opts.HTTP), tray.ShutdownFunc(cancel), logger)
		go t.Run()
		defer t.Quit()
	} else {
		logger.Info("press Ctrl+C to exit")
	}

	source := newSource(opts, reregister, logger)
	sourceDone := make(chan error, 1)
	go func() {
		sourceDone <- source.Run(ctx, mapper)
	}()

	code := 0
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		err = <-sourceDone
	case err = <-sourceDone:
	case err = <-failures:
		cancel()
		<-sourceDone
	}
	if err != nil {
		logger.Errorw("stopped", "error", err)
		code = 1
	}
	cancel()
	mapper.Close()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownPeriod)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warnw("HTTP server shutdown", "error", err)
		}
	}
	wg.Wait()
	logger.Info("gyromouse stopped")
	return code
}
