package overlay

import (
	"context"
	"fmt"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/pkg/errors"
)

// DefaultRetryDelay is the pause between the two restack requests of
// ForceTopmost.
const DefaultRetryDelay = 50 * time.Millisecond

// Handle is an opaque reference to an OS top-level window.
type Handle uintptr

// Style is the extended window style bit-field.
type Style uint32

// Extended style bits touched by the controller. Values match the Win32
// WS_EX_* constants.
const (
	StyleTopmost     Style = 0x00000008
	StyleTransparent Style = 0x00000020
	StyleLayered     Style = 0x00080000
)

func (s Style) String() string {
	return fmt.Sprintf("0x%08X", uint32(s))
}

// Backend is the platform window API. Each platform provides one.
type Backend interface {
	// LocateSelf returns the first top-level window owned by the current
	// process. Enumeration order is OS-defined; the application is
	// expected to own a single top-level window.
	LocateSelf(ctx context.Context) (Handle, bool)
	ExStyle(h Handle) (Style, error)
	SetExStyle(h Handle, style Style) error
	// SetOpaque makes a layered window fully opaque.
	SetOpaque(h Handle) error
	// RaiseTopmost asks the window manager to restack the window above
	// every other surface, exclusive-fullscreen ones included.
	RaiseTopmost(h Handle) error
}

// Controller applies overlay presentation commands to the application's
// own window. The window is located afresh on every call because it may
// not exist yet at startup.
type Controller struct {
	backend    Backend
	supported  bool
	retryDelay time.Duration
	sleep      func(time.Duration)
}

// New creates a controller for the current platform
func New(retryDelay time.Duration) *Controller {
	return NewWithBackend(newPlatformBackend(), platformSupported, retryDelay)
}

// NewWithBackend creates a controller over an explicit backend.
func NewWithBackend(backend Backend, supported bool, retryDelay time.Duration) *Controller {
	if retryDelay < 0 {
		retryDelay = DefaultRetryDelay
	}
	return &Controller{
		backend:    backend,
		supported:  supported,
		retryDelay: retryDelay,
		sleep:      time.Sleep,
	}
}

// Supported reports whether window styling is available on this platform.
// When it is not, every command is a no-op that succeeds.
func (c *Controller) Supported() bool {
	return c.supported
}

// ForceTopmost makes the window layered, always-on-top, opaque and
// clickable, then restacks it above everything, twice, since a single
// request can be dropped by the window manager under contention.
// It is idempotent and succeeds without doing anything if the window
// cannot be located.
func (c *Controller) ForceTopmost(ctx context.Context) error {
	h, ok := c.backend.LocateSelf(ctx)
	if !ok {
		logger.Debugf(ctx, "ForceTopmost: own window not found, skipping")
		return nil
	}

	cur, err := c.backend.ExStyle(h)
	if err != nil {
		return errors.Wrap(err, "unable to read the window style")
	}

	// Topmost must never silently leave the overlay click-through.
	next := (cur | StyleLayered | StyleTopmost) &^ StyleTransparent
	if next != cur {
		if err := c.backend.SetExStyle(h, next); err != nil {
			return errors.Wrapf(err, "unable to set the window style %v", next)
		}
	}
	logger.Tracef(ctx, "ForceTopmost: style %v -> %v", cur, next)

	if err := c.backend.SetOpaque(h); err != nil {
		return errors.Wrap(err, "unable to set the window opacity")
	}

	if err := c.backend.RaiseTopmost(h); err != nil {
		return errors.Wrap(err, "unable to raise the window")
	}
	c.sleep(c.retryDelay)
	if err := c.backend.RaiseTopmost(h); err != nil {
		return errors.Wrap(err, "unable to raise the window (second attempt)")
	}
	return nil
}

// SetInteractive toggles input transparency only. With interactive=false
// mouse and keyboard input passes through to the window beneath.
func (c *Controller) SetInteractive(ctx context.Context, interactive bool) error {
	h, ok := c.backend.LocateSelf(ctx)
	if !ok {
		logger.Debugf(ctx, "SetInteractive(%v): own window not found, skipping", interactive)
		return nil
	}

	cur, err := c.backend.ExStyle(h)
	if err != nil {
		return errors.Wrap(err, "unable to read the window style")
	}

	next := cur | StyleTransparent
	if interactive {
		next = cur &^ StyleTransparent
	}
	if next == cur {
		return nil
	}

	logger.Tracef(ctx, "SetInteractive(%v): style %v -> %v", interactive, cur, next)
	if err := c.backend.SetExStyle(h, next); err != nil {
		return errors.Wrapf(err, "unable to set the window style %v", next)
	}
	return nil
}
