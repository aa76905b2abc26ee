//go:build windows

package overlay

import (
	"context"
	"errors"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
	"golang.org/x/sys/windows"
)

const platformSupported = true

const (
	_GWL_EXSTYLE int32 = -20

	_LWA_ALPHA = 0x00000002

	_SWP_NOSIZE     = 0x0001
	_SWP_NOMOVE     = 0x0002
	_SWP_SHOWWINDOW = 0x0040
)

// HWND_TOPMOST is (HWND)-1.
const _HWND_TOPMOST = ^uintptr(0)

var (
	user32                         = windows.NewLazySystemDLL("user32.dll")
	procGetWindowLongW             = user32.NewProc("GetWindowLongW")
	procSetWindowLongW             = user32.NewProc("SetWindowLongW")
	procSetLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")
	procSetWindowPos               = user32.NewProc("SetWindowPos")
)

type win32Backend struct{}

func newPlatformBackend() Backend {
	return win32Backend{}
}

// The OS accepts a bounded number of Go callbacks per process, so a
// single one is registered and dispatches to the visitor of the current
// enumeration.
var (
	enumLocker  sync.Mutex
	enumVisitor func(windows.HWND) bool
	enumProc    = windows.NewCallback(func(hwnd windows.HWND, _ uintptr) uintptr {
		if enumVisitor(hwnd) {
			return 1
		}
		return 0
	})
)

// enumTopLevelWindows calls visit for each top-level window until it
// returns false.
func enumTopLevelWindows(visit func(windows.HWND) bool) {
	enumLocker.Lock()
	defer enumLocker.Unlock()
	enumVisitor = visit
	defer func() { enumVisitor = nil }()

	// EnumWindows reports an error when the visitor stops it early.
	_ = windows.EnumWindows(enumProc, nil)
}

func (win32Backend) LocateSelf(ctx context.Context) (Handle, bool) {
	pid := windows.GetCurrentProcessId()

	var found windows.HWND
	enumTopLevelWindows(func(hwnd windows.HWND) bool {
		var owner uint32
		if _, err := windows.GetWindowThreadProcessId(hwnd, &owner); err != nil {
			return true
		}
		if owner != pid {
			return true
		}
		found = hwnd
		return false
	})

	if found == 0 {
		return 0, false
	}
	logger.Tracef(ctx, "own window: 0x%X (pid %d)", uintptr(found), pid)
	return Handle(found), true
}

func (win32Backend) ExStyle(h Handle) (Style, error) {
	idx := _GWL_EXSTYLE
	r, _, err := procGetWindowLongW.Call(uintptr(h), uintptr(idx))
	if r == 0 && !isSuccess(err) {
		return 0, err
	}
	return Style(uint32(r)), nil
}

func (win32Backend) SetExStyle(h Handle, style Style) error {
	idx := _GWL_EXSTYLE
	r, _, err := procSetWindowLongW.Call(uintptr(h), uintptr(idx), uintptr(uint32(style)))
	if r == 0 && !isSuccess(err) {
		return err
	}
	return nil
}

func (win32Backend) SetOpaque(h Handle) error {
	r, _, err := procSetLayeredWindowAttributes.Call(uintptr(h), 0, 255, _LWA_ALPHA)
	if r == 0 {
		return err
	}
	return nil
}

func (win32Backend) RaiseTopmost(h Handle) error {
	r, _, err := procSetWindowPos.Call(
		uintptr(h),
		_HWND_TOPMOST,
		0, 0, 0, 0,
		_SWP_NOMOVE|_SWP_NOSIZE|_SWP_SHOWWINDOW,
	)
	if r == 0 {
		return err
	}
	return nil
}

// GetWindowLongW and SetWindowLongW return 0 both on failure and for a
// legitimately empty style; only the last error tells them apart.
func isSuccess(err error) bool {
	var errno windows.Errno
	if errors.As(err, &errno) {
		return errno == 0
	}
	return err == nil
}
