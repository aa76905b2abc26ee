package tracker

import (
	"prophase-overlay/internal/games"
)

// Thresholds holds the number of consecutive identical detections needed
// before a change is announced.
type Thresholds struct {
	// Enter applies when the pending detection is a game.
	Enter int
	// Leave applies when the pending detection is None. It is normally
	// larger than Enter so a noisy process list does not flicker the overlay.
	Leave int
}

// DefaultThresholds returns the standard debounce: 2 ticks to enter a
// game, 3 ticks to leave it.
func DefaultThresholds() Thresholds {
	return Thresholds{Enter: 2, Leave: 3}
}

func (t Thresholds) required(pending games.ID) int {
	if pending != games.None {
		return t.Enter
	}
	return t.Leave
}

// State is the debounce state machine. The zero value is the initial
// Idle state with nothing pending.
type State struct {
	Current      games.ID // last announced value
	Pending      games.ID // most recent raw detection
	ConfirmCount int      // consecutive ticks Pending has been stable
}

// Step applies one raw detection and reports whether Current changed.
// Current changes only once ConfirmCount reaches the threshold for the
// direction of the change.
func (s *State) Step(detected games.ID, th Thresholds) bool {
	if detected == s.Pending {
		s.ConfirmCount++
	} else {
		s.Pending = detected
		s.ConfirmCount = 1
	}

	required := th.required(s.Pending)
	if s.ConfirmCount > required {
		s.ConfirmCount = required
	}

	if s.ConfirmCount >= required && s.Pending != s.Current {
		s.Current = s.Pending
		return true
	}
	return false
}

// Active reports whether a game is currently announced.
func (s State) Active() bool {
	return s.Current != games.None
}
