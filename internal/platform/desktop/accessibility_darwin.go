//go:build darwin

package desktop

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mj1618/desktop-locate/internal/platform"
)

// maxAXNodes bounds the tree walk; large web views can expose many
// thousands of nodes.
const maxAXNodes = 1500

// axTreeScript walks the front window of a process through System Events
// and prints a flat JSON array of nodes with screen-absolute bounds.
const axTreeScript = `
function run(argv) {
  var pid = parseInt(argv[0], 10);
  var limit = parseInt(argv[1], 10);
  var se = Application("System Events");
  var procs = se.processes.whose({unixId: pid});
  if (procs.length === 0) { return "[]"; }
  var proc = procs[0];
  if (proc.windows.length === 0) { return "[]"; }
  var out = [];
  function str(f) { try { var v = f(); return v === null || v === undefined ? "" : String(v); } catch (e) { return ""; } }
  function walk(el, depth) {
    if (out.length >= limit) { return; }
    var pos = [0, 0], size = [0, 0], enabled = true;
    try { pos = el.position(); } catch (e) {}
    try { size = el.size(); } catch (e) {}
    try { enabled = el.enabled(); } catch (e) {}
    out.push({
      role: str(function () { return el.role(); }),
      title: str(function () { return el.title(); }),
      description: str(function () { return el.description(); }),
      value: str(function () { return el.value(); }),
      x: pos ? pos[0] : 0, y: pos ? pos[1] : 0,
      width: size ? size[0] : 0, height: size ? size[1] : 0,
      enabled: enabled !== false,
      depth: depth
    });
    var kids = [];
    try { kids = el.uiElements(); } catch (e) {}
    for (var i = 0; i < kids.length; i++) { walk(kids[i], depth + 1); }
  }
  walk(proc.windows[0], 0);
  return JSON.stringify(out);
}
`

// AccessibilityReader implements platform.AccessibilityReader via JXA.
type AccessibilityReader struct {
	run scriptRunner
}

// NewAccessibilityReader creates an accessibility reader.
func NewAccessibilityReader() *AccessibilityReader {
	return &AccessibilityReader{run: runOSAScript}
}

// ReadNodes returns the flattened element tree of pid's front window.
func (r *AccessibilityReader) ReadNodes(ctx context.Context, pid int) ([]platform.AXNode, error) {
	out, err := r.run(ctx, "-l", "JavaScript", "-e", axTreeScript, strconv.Itoa(pid), strconv.Itoa(maxAXNodes))
	if err != nil {
		return nil, fmt.Errorf("failed to read accessibility tree of pid %d: %w", pid, err)
	}
	return parseAXNodes(out)
}
