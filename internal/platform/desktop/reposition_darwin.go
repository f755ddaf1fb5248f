//go:build darwin && cgo

package desktop

import (
	"context"
	"fmt"
)

func reposition(ctx context.Context, run scriptRunner, pid int, x, y int) error {
	script := fmt.Sprintf(
		`tell application "System Events" to set position of window 1 of (first process whose unix id is %d) to {%d, %d}`,
		pid, x, y)
	if _, err := run(ctx, "-e", script); err != nil {
		return fmt.Errorf("failed to reposition window of pid %d: %w", pid, err)
	}
	return nil
}
