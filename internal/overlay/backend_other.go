//go:build !windows

package overlay

import (
	"context"
)

const platformSupported = false

// unsupportedBackend never finds a window, which turns every controller
// command into a successful no-op.
type unsupportedBackend struct{}

func newPlatformBackend() Backend {
	return unsupportedBackend{}
}

func (unsupportedBackend) LocateSelf(context.Context) (Handle, bool) { return 0, false }
func (unsupportedBackend) ExStyle(Handle) (Style, error)             { return 0, nil }
func (unsupportedBackend) SetExStyle(Handle, Style) error            { return nil }
func (unsupportedBackend) SetOpaque(Handle) error                    { return nil }
func (unsupportedBackend) RaiseTopmost(Handle) error                 { return nil }
