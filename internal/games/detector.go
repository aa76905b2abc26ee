package games

import (
	"context"
)

// Detector runs one capture and matches it against the profile table.
type Detector struct {
	provider SnapshotProvider
	profiles Profiles
}

// NewDetector creates a detector over the given provider and table.
// Process names in the table are normalized once here.
func NewDetector(provider SnapshotProvider, profiles Profiles) *Detector {
	return &Detector{
		provider: provider,
		profiles: profiles.Normalized(),
	}
}

// Detect returns the currently running game, or None.
func (d *Detector) Detect(ctx context.Context) ID {
	return d.profiles.Match(d.provider.Capture(ctx))
}

// Profiles returns the normalized profile table.
func (d *Detector) Profiles() Profiles {
	return d.profiles
}
