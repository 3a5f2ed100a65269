package gamepad

import (
	"sync"

	"github.com/ebitengine/purego"
	"github.com/jupiterrider/purego-sdl3/sdl"
	"github.com/pkg/errors"
)

// Gamepad state and sensor calls that purego-sdl3 leaves unbound.
var (
	getGamepadButton         func(*sdl.Gamepad, sdl.GamepadButton) bool
	getGamepadAxis           func(*sdl.Gamepad, sdl.GamepadAxis) int16
	gamepadHasSensor         func(*sdl.Gamepad, sdl.SensorType) bool
	setGamepadSensorEnabled  func(*sdl.Gamepad, sdl.SensorType, bool) bool
	getGamepadSensorDataRate func(*sdl.Gamepad, sdl.SensorType) float32

	bindOnce sync.Once
	bindErr  error
)

func bindGamepadFuncs() error {
	bindOnce.Do(func() {
		lib, err := loadSDL()
		if err != nil {
			bindErr = errors.Wrap(err, "load SDL3")
			return
		}
		defer func() {
			// RegisterLibFunc panics on a missing symbol.
			if r := recover(); r != nil {
				bindErr = errors.Errorf("bind SDL3 gamepad functions: %v", r)
			}
		}()
		purego.RegisterLibFunc(&getGamepadButton, lib, "SDL_GetGamepadButton")
		purego.RegisterLibFunc(&getGamepadAxis, lib, "SDL_GetGamepadAxis")
		purego.RegisterLibFunc(&gamepadHasSensor, lib, "SDL_GamepadHasSensor")
		purego.RegisterLibFunc(&setGamepadSensorEnabled, lib, "SDL_SetGamepadSensorEnabled")
		purego.RegisterLibFunc(&getGamepadSensorDataRate, lib, "SDL_GetGamepadSensorDataRate")
	})
	return bindErr
}
