package desktop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mj1618/desktop-locate/internal/platform"
)

// scriptRunner runs an osascript program and returns its stdout.
// Tests replace it with a fake.
type scriptRunner func(ctx context.Context, args ...string) ([]byte, error)

func runOSAScript(ctx context.Context, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, "osascript", args...)
	c.Stdout = &stdout
	c.Stderr = &stderr
	if err := c.Run(); err != nil {
		return nil, classifyScriptError(strings.TrimSpace(stderr.String()), err)
	}
	return stdout.Bytes(), nil
}

// permissionMarkers are fragments of osascript error text that mean the
// calling process has not been granted accessibility (assistive) access.
var permissionMarkers = []string{
	"not allowed assistive access",
	"assistive access",
	"(-1719)",
	"(-25211)",
	"not authorized to send apple events",
	"(-1743)",
}

// classifyScriptError wraps a failed osascript run, mapping permission
// failures to platform.ErrPermissionDenied.
func classifyScriptError(stderr string, err error) error {
	lower := strings.ToLower(stderr)
	for _, m := range permissionMarkers {
		if strings.Contains(lower, m) {
			return fmt.Errorf("%w: accessibility access required\n\n"+
				"Grant permission at: System Settings > Privacy & Security > Accessibility\n"+
				"Add your terminal app (e.g. Terminal.app, iTerm2, or the IDE running this command).\n"+
				"Then restart the terminal and try again. (%s)", platform.ErrPermissionDenied, stderr)
		}
	}
	if stderr != "" {
		return fmt.Errorf("osascript failed: %s: %w", stderr, err)
	}
	return fmt.Errorf("osascript failed: %w", err)
}

// parseAXNodes decodes the JSON array emitted by axTreeScript.
func parseAXNodes(data []byte) ([]platform.AXNode, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []platform.AXNode{}, nil
	}
	var nodes []platform.AXNode
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("failed to decode accessibility tree: %w", err)
	}
	if nodes == nil {
		nodes = []platform.AXNode{}
	}
	return nodes, nil
}
