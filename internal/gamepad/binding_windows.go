package gamepad

import "syscall"

func loadSDL() (uintptr, error) {
	h, err := syscall.LoadLibrary("SDL3.dll")
	return uintptr(h), err
}
