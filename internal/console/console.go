//go:build windows

// Package console handles the Windows console: detecting a double-click
// launch and keeping Ctrl+C working after SDL installs its own handler.
package console

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"unsafe"

	"go.uber.org/zap"
)

var (
	kernel32                       = syscall.NewLazyDLL("kernel32.dll")
	procGetConsoleWindow           = kernel32.NewProc("GetConsoleWindow")
	procAllocConsole               = kernel32.NewProc("AllocConsole")
	procFreeConsole                = kernel32.NewProc("FreeConsole")
	procGetStdHandle               = kernel32.NewProc("GetStdHandle")
	procCreateToolhelp32Snapshot   = kernel32.NewProc("CreateToolhelp32Snapshot")
	procProcess32First             = kernel32.NewProc("Process32FirstW")
	procProcess32Next              = kernel32.NewProc("Process32NextW")
	procOpenProcess                = kernel32.NewProc("OpenProcess")
	procQueryFullProcessImageNameW = kernel32.NewProc("QueryFullProcessImageNameW")
	procSetConsoleCtrlHandler      = kernel32.NewProc("SetConsoleCtrlHandler")
)

const (
	th32csSnapProcess       = 0x00000002
	processQueryLimitedInfo = 0x1000
	maxPath                 = 260
	ctrlCEvent              = 0
	ctrlBreakEvent          = 1
	ctrlCloseEvent          = 2
)

// Standard handle ids, as the uint32 bit patterns of -10, -11 and -12.
const (
	stdInputHandle  = ^uint32(9)
	stdOutputHandle = ^uint32(10)
	stdErrorHandle  = ^uint32(11)
)

type processEntry32 struct {
	Size            uint32
	Usage           uint32
	ProcessID       uint32
	DefaultHeapID   uintptr
	ModuleID        uint32
	Threads         uint32
	ParentProcessID uint32
	PriClassBase    int32
	Flags           uint32
	ExeFile         [maxPath]uint16
}

// IsRunningFromConsole reports whether the process was started from a
// terminal. A double-clicked executable frees the console Windows created
// for it; a GUI build started from a terminal gets a console of its own.
func IsRunningFromConsole() bool {
	fromExplorer := parentIsExplorer()
	hasConsole := isConsoleWindow()
	switch {
	case hasConsole && fromExplorer:
		procFreeConsole.Call()
		return false
	case hasConsole:
		return true
	case fromExplorer:
		return false
	}
	procAllocConsole.Call()
	redirectStdStreams()
	return true
}

func isConsoleWindow() bool {
	hwnd, _, _ := procGetConsoleWindow.Call()
	return hwnd != 0
}

func redirectStdStreams() {
	stdout, _, _ := procGetStdHandle.Call(uintptr(stdOutputHandle))
	stderr, _, _ := procGetStdHandle.Call(uintptr(stdErrorHandle))
	stdin, _, _ := procGetStdHandle.Call(uintptr(stdInputHandle))
	if stdout == 0 || stderr == 0 {
		return
	}
	os.Stdout = os.NewFile(stdout, "/dev/stdout")
	os.Stderr = os.NewFile(stderr, "/dev/stderr")
	if stdin != 0 {
		os.Stdin = os.NewFile(stdin, "/dev/stdin")
	}
}

func parentIsExplorer() bool {
	parent := parentProcessID(uint32(os.Getpid()))
	if parent == 0 {
		return false
	}
	return strings.EqualFold(filepath.Base(processImageName(parent)), "explorer.exe")
}

func parentProcessID(pid uint32) uint32 {
	snapshot, _, _ := procCreateToolhelp32Snapshot.Call(th32csSnapProcess, 0)
	if snapshot == uintptr(syscall.InvalidHandle) {
		return 0
	}
	defer syscall.CloseHandle(syscall.Handle(snapshot))

	var entry processEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	ok, _, _ := procProcess32First.Call(snapshot, uintptr(unsafe.Pointer(&entry)))
	for ok != 0 {
		if entry.ProcessID == pid {
			return entry.ParentProcessID
		}
		ok, _, _ = procProcess32Next.Call(snapshot, uintptr(unsafe.Pointer(&entry)))
	}
	return 0
}

func processImageName(pid uint32) string {
	process, _, _ := procOpenProcess.Call(processQueryLimitedInfo, 0, uintptr(pid))
	if process == 0 {
		return ""
	}
	defer syscall.CloseHandle(syscall.Handle(process))

	var name [maxPath]uint16
	size := uint32(maxPath)
	ok, _, _ := procQueryFullProcessImageNameW.Call(process, 0, uintptr(unsafe.Pointer(&name[0])), uintptr(unsafe.Pointer(&size)))
	if ok == 0 {
		return ""
	}
	return syscall.UTF16ToString(name[:size])
}

var (
	interruptOnce sync.Once
	onInterrupt   func()
	handlerFn     uintptr
)

// SetupConsoleHandler calls interrupt once on Ctrl+C, Ctrl+Break or console
// close. The returned function registers the handler again; SDL replaces
// console handlers when it initializes.
func SetupConsoleHandler(interrupt func(), logger *zap.SugaredLogger) func() {
	onInterrupt = interrupt
	handlerFn = syscall.NewCallback(func(ctrlType uint32) uintptr {
		switch ctrlType {
		case ctrlCEvent, ctrlBreakEvent, ctrlCloseEvent:
			interruptOnce.Do(onInterrupt)
			return 1
		}
		return 0
	})

	register := func() {
		if ok, _, err := procSetConsoleCtrlHandler.Call(handlerFn, 1); ok == 0 {
			logger.Warnw("failed to set console control handler", "error", err)
		}
	}
	register()
	return register
}
