package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// Provider bundles all platform backends for the current OS.
type Provider struct {
	Processes     ProcessFinder
	Windows       WindowManager
	Accessibility AccessibilityReader
	Screenshotter Screenshotter
	Inputter      Inputter
}

// ErrUnsupported is returned on unsupported platforms.
var ErrUnsupported = fmt.Errorf("desktop-locate is not supported on %s/%s; a cgo build for darwin, linux or windows is required", runtime.GOOS, runtime.GOARCH)

// Error kinds raised by platform backends. Backends wrap these with
// fmt.Errorf("...: %w") so callers can classify failures with errors.Is.
var (
	// ErrPermissionDenied means screen recording or accessibility access has
	// not been granted. It is fatal and never retried.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrWindowNotFound means no running application or window matched.
	ErrWindowNotFound = errors.New("window not found")
	// ErrActuationFailed means a pointer or keyboard action failed.
	ErrActuationFailed = errors.New("actuation failed")
)

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/desktop/init.go for the registration.
var NewProviderFunc func() (*Provider, error)

// RequestPermissionsFunc is set by platform-specific packages via init().
// It triggers OS permission prompts (e.g. screen recording) at startup.
var RequestPermissionsFunc func()

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}
