//go:build !windows

package gamepad

import (
	"runtime"

	"github.com/ebitengine/purego"
)

func loadSDL() (uintptr, error) {
	name := "libSDL3.so.0"
	if runtime.GOOS == "darwin" {
		name = "libSDL3.dylib"
	}
	return purego.Dlopen(name, purego.RTLD_LAZY)
}
