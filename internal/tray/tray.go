// Package tray shows a system tray menu to pause mapping, open the status
// page and exit.
package tray

import (
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"

	"fyne.io/systray"
	"go.uber.org/zap"
)

// ShutdownFunc is called when "Exit" is clicked
type ShutdownFunc func()

// Controls is what the tray can switch.
type Controls interface {
	Paused() bool
	SetPaused(bool)
}

// Tray manages the system tray icon and menu
type Tray struct {
	controls     Controls
	statusURL    string
	shutdownFunc ShutdownFunc
	logger       *zap.SugaredLogger
	once         sync.Once
	shuttingDown atomic.Bool
	menuPause    *systray.MenuItem
	menuOpen     *systray.MenuItem
	menuExit     *systray.MenuItem
}

// New creates a tray. An empty statusURL hides "Open status page".
func New(controls Controls, statusURL string, shutdownFn ShutdownFunc, logger *zap.SugaredLogger) *Tray {
	return &Tray{
		controls:     controls,
		statusURL:    statusURL,
		shutdownFunc: shutdownFn,
		logger:       logger,
	}
}

// Run initializes and runs the system tray (blocks until Quit())
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	t.shuttingDown.Store(true)
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetIcon(Icon())
	systray.SetTitle("gyromouse")
	systray.SetTooltip("gyromouse")

	t.menuPause = systray.AddMenuItemCheckbox("Pause mapping", "Stop sending mouse and keyboard input", t.controls.Paused())
	t.menuOpen = systray.AddMenuItem("Open status page", t.statusURL)
	if t.statusURL == "" {
		t.menuOpen.Hide()
	}
	systray.AddSeparator()
	t.menuExit = systray.AddMenuItem("Exit", "Quit application")

	go t.handleMenuClicks()

	t.logger.Debug("system tray initialized")
}

func (t *Tray) handleMenuClicks() {
	for {
		select {
		case <-t.menuPause.ClickedCh:
			if t.togglePause() {
				t.menuPause.Check()
			} else {
				t.menuPause.Uncheck()
			}
		case <-t.menuOpen.ClickedCh:
			if !t.shuttingDown.Load() {
				t.openBrowser()
			}
		case <-t.menuExit.ClickedCh:
			if t.shuttingDown.CompareAndSwap(false, true) {
				t.once.Do(t.shutdownFunc)
				systray.Quit()
				return
			}
		}
	}
}

// togglePause flips the pause state and returns the new one.
func (t *Tray) togglePause() bool {
	paused := !t.controls.Paused()
	t.controls.SetPaused(paused)
	return paused
}

func (t *Tray) onExit() {
	t.shuttingDown.Store(true)
	t.logger.Debug("system tray exiting")
}

func (t *Tray) openBrowser() {
	if err := browserCommand(runtime.GOOS, t.statusURL).Start(); err != nil {
		t.logger.Warnw("failed to open browser", "url", t.statusURL, "error", err)
	}
}

func browserCommand(goos, url string) *exec.Cmd {
	switch goos {
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		return exec.Command("open", url)
	default:
		return exec.Command("xdg-open", url)
	}
}
