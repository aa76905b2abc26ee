package games

import (
	"github.com/pkg/errors"
)

// ID identifies a tracked game. None means no tracked game is running.
type ID string

const None ID = ""

// Profile maps a game id to the executables that indicate it is running.
// Two profiles may share an executable (distinct modes of one client).
type Profile struct {
	ID        ID       `json:"id"`
	Processes []string `json:"processes"`
}

// Profiles is an ordered profile table. Order is the tie-break when a
// snapshot satisfies more than one profile.
type Profiles []Profile

// DefaultProfiles returns the built-in game table.
// Only the game processes are listed, never the launchers.
func DefaultProfiles() Profiles {
	return Profiles{
		{ID: "valorant", Processes: []string{"valorant.exe", "valorant-win64-shipping.exe"}},
		{ID: "lol", Processes: []string{"league of legends.exe"}},
		{ID: "tft", Processes: []string{"league of legends.exe"}},
		{ID: "cs2", Processes: []string{"cs2.exe"}},
	}
}

// Match returns the id of the first profile with at least one process
// present in the snapshot, or None.
func (p Profiles) Match(snapshot Snapshot) ID {
	for _, profile := range p {
		for _, name := range profile.Processes {
			if snapshot.Contains(name) {
				return profile.ID
			}
		}
	}
	return None
}

// Normalized returns a copy of the table with every process name reduced
// to a lowercase base name.
func (p Profiles) Normalized() Profiles {
	out := make(Profiles, 0, len(p))
	for _, profile := range p {
		names := make([]string, 0, len(profile.Processes))
		for _, name := range profile.Processes {
			if n := NormalizeName(name); n != "" {
				names = append(names, n)
			}
		}
		out = append(out, Profile{ID: profile.ID, Processes: names})
	}
	return out
}

// Validate checks the profile table for validity
func (p Profiles) Validate() error {
	if len(p) == 0 {
		return errors.New("at least one game profile is required")
	}

	seen := make(map[ID]struct{}, len(p))
	for i, profile := range p {
		if profile.ID == None {
			return errors.Errorf("game profile #%d has an empty id", i)
		}
		if _, dup := seen[profile.ID]; dup {
			return errors.Errorf("game profile id %q is declared twice", profile.ID)
		}
		seen[profile.ID] = struct{}{}

		hasName := false
		for _, name := range profile.Processes {
			if NormalizeName(name) != "" {
				hasName = true
				break
			}
		}
		if !hasName {
			return errors.Errorf("game profile %q has no process names", profile.ID)
		}
	}

	return nil
}

// IDs returns the profile ids in declaration order.
func (p Profiles) IDs() []ID {
	ids := make([]ID, len(p))
	for i, profile := range p {
		ids[i] = profile.ID
	}
	return ids
}
