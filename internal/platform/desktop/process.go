package desktop

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/mj1618/desktop-locate/internal/platform"
)

// ProcessFinder implements platform.ProcessFinder with gopsutil.
type ProcessFinder struct{}

// NewProcessFinder creates a process finder.
func NewProcessFinder() *ProcessFinder {
	return &ProcessFinder{}
}

// procEntry is the part of a process the matcher looks at.
type procEntry struct {
	PID  int
	Name string
}

// FindApp returns the PID of the running process that best matches app.
func (f *ProcessFinder) FindApp(ctx context.Context, app string) (int, error) {
	if strings.TrimSpace(app) == "" {
		return 0, fmt.Errorf("%w: empty application name", platform.ErrWindowNotFound)
	}
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list processes: %w", err)
	}
	entries := make([]procEntry, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil || name == "" {
			continue
		}
		entries = append(entries, procEntry{PID: int(p.Pid), Name: name})
	}
	pid, ok := bestProcessMatch(entries, app)
	if !ok {
		return 0, fmt.Errorf("%w: no running application matches %q", platform.ErrWindowNotFound, app)
	}
	return pid, nil
}

// bestProcessMatch picks the best candidate for app: an exact
// case-insensitive name match, then a prefix match, then a substring match.
// ".app" and ".exe" suffixes are ignored on both sides.
func bestProcessMatch(entries []procEntry, app string) (int, bool) {
	want := trimAppSuffix(strings.ToLower(strings.TrimSpace(app)))
	const (
		none = iota
		contains
		prefix
		exact
	)
	bestRank, bestPID := none, 0
	for _, e := range entries {
		name := trimAppSuffix(strings.ToLower(e.Name))
		rank := none
		switch {
		case name == want:
			rank = exact
		case strings.HasPrefix(name, want):
			rank = prefix
		case strings.Contains(name, want):
			rank = contains
		}
		if rank > bestRank {
			bestRank, bestPID = rank, e.PID
		}
	}
	return bestPID, bestRank != none
}

func trimAppSuffix(s string) string {
	s = strings.TrimSuffix(s, ".app")
	return strings.TrimSuffix(s, ".exe")
}
