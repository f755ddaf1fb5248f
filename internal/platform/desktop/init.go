//go:build cgo

package desktop

import "github.com/mj1618/desktop-locate/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		return &platform.Provider{
			Processes:     NewProcessFinder(),
			Windows:       NewWindowManager(),
			Accessibility: NewAccessibilityReader(),
			Screenshotter: NewScreenshotter(),
			Inputter:      NewInputter(),
		}, nil
	}
	platform.RequestPermissionsFunc = requestPermissions
}
