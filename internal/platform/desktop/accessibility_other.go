//go:build !darwin

package desktop

import (
	"context"
	"fmt"

	"github.com/mj1618/desktop-locate/internal/platform"
)

// AccessibilityReader reports the accessibility tree as unavailable outside
// macOS; detection falls through to the screenshot strategies.
type AccessibilityReader struct{}

// NewAccessibilityReader creates an accessibility reader.
func NewAccessibilityReader() *AccessibilityReader {
	return &AccessibilityReader{}
}

func (r *AccessibilityReader) ReadNodes(ctx context.Context, pid int) ([]platform.AXNode, error) {
	return nil, fmt.Errorf("accessibility tree of pid %d: %w", pid, platform.ErrUnsupported)
}
