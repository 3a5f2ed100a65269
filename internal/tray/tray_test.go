package tray

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"testing"

	"go.uber.org/zap/zaptest"
	"go.viam.com/test"
)

type fakeControls struct{ paused bool }

func (f *fakeControls) Paused() bool     { return f.paused }
func (f *fakeControls) SetPaused(p bool) { f.paused = p }

func TestTogglePause(t *testing.T) {
	controls := &fakeControls{}
	tr := New(controls, "http://localhost:8080", func() {}, zaptest.NewLogger(t).Sugar())
	test.That(t, tr.togglePause(), test.ShouldBeTrue)
	test.That(t, controls.paused, test.ShouldBeTrue)
	test.That(t, tr.togglePause(), test.ShouldBeFalse)
	test.That(t, controls.paused, test.ShouldBeFalse)
}

func TestBrowserCommand(t *testing.T) {
	cmd := browserCommand("linux", "http://localhost:8080")
	test.That(t, cmd.Args, test.ShouldResemble, []string{"xdg-open", "http://localhost:8080"})
	cmd = browserCommand("windows", "http://x")
	test.That(t, cmd.Args[0], test.ShouldEqual, "rundll32")
}

func TestIcon(t *testing.T) {
	data := drawIcon()
	img, err := png.Decode(bytes.NewReader(data))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.Bounds().Dx(), test.ShouldEqual, iconSize)

	ico := wrapICO(data, iconSize)
	test.That(t, binary.LittleEndian.Uint16(ico[2:4]), test.ShouldEqual, uint16(1))
	test.That(t, binary.LittleEndian.Uint32(ico[18:22]), test.ShouldEqual, uint32(22))
	test.That(t, ico[22:], test.ShouldResemble, data)
}
