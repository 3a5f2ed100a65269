//go:build linux

package evdev

import (
	"os"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// absInfo mirrors struct input_absinfo.
type absInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// eviocgabs is EVIOCGABS(0): _IOR('E', 0x40, struct input_absinfo).
const eviocgabs = 2<<30 | uint32(unsafe.Sizeof(absInfo{}))<<16 | 'E'<<8 | 0x40

func readAbsInfo(f *os.File, code uint16) (absInfo, error) {
	var info absInfo
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), uintptr(eviocgabs+uint32(code)), uintptr(unsafe.Pointer(&info)))
	if errno != 0 {
		return absInfo{}, errors.Wrapf(errno, "EVIOCGABS %#x", code)
	}
	return info, nil
}
