package games

import (
	"context"
	"strings"
)

// Snapshot is the set of executable base-names running at one instant.
// The zero value is an empty snapshot.
type Snapshot struct {
	names map[string]struct{}
}

// NewSnapshot builds a snapshot from raw process names. Entries are
// normalized with NormalizeName; empty or malformed ones are dropped.
func NewSnapshot(names ...string) Snapshot {
	set := make(map[string]struct{}, len(names))
	for _, raw := range names {
		if name := NormalizeName(raw); name != "" {
			set[name] = struct{}{}
		}
	}
	return Snapshot{names: set}
}

// Contains reports whether the executable is in the snapshot.
// The name is expected in normalized (lowercase base-name) form.
func (s Snapshot) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of distinct executables in the snapshot.
func (s Snapshot) Len() int {
	return len(s.names)
}

// NormalizeName reduces a raw process entry to a lowercase executable
// base-name: "C:\Games\VALORANT.exe" becomes "valorant.exe".
func NormalizeName(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.Trim(name, `"`)
	if i := strings.LastIndexAny(name, `\/`); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// SnapshotProvider captures the set of running executables.
// Implementations return an empty snapshot instead of an error.
type SnapshotProvider interface {
	Capture(ctx context.Context) Snapshot
}
