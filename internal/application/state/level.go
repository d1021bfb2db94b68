package state

import "github.com/younwookim/shine/internal/domain/entity"

// Level tracks the progress of one stage. The stage is cleared once every
// registered character touched an exit.
type Level struct {
	state   GameState
	party   []*entity.Body
	arrived map[*entity.Body]bool

	OnClear func()
}

// NewLevel creates a level that is still loading
func NewLevel() *Level {
	return &Level{
		state:   StateLoading,
		arrived: make(map[*entity.Body]bool),
	}
}

// State returns the current game state
func (l *Level) State() GameState { return l.state }

// Register adds a character that has to reach the exit
func (l *Level) Register(b *entity.Body) {
	for _, p := range l.party {
		if p == b {
			return
		}
	}
	l.party = append(l.party, b)
}

// Start switches a loaded level to playing
func (l *Level) Start() {
	if l.state == StateLoading {
		l.state = StatePlaying
	}
}

// TogglePause pauses a running level or resumes a paused one
func (l *Level) TogglePause() {
	switch l.state {
	case StatePlaying:
		l.state = StatePaused
	case StatePaused:
		l.state = StatePlaying
	}
}

// Fail ends the level
func (l *Level) Fail() {
	if l.state == StatePlaying || l.state == StatePaused {
		l.state = StateGameOver
	}
}

// ReachedExit records that b touched an exit. Repeated contacts and
// bodies outside the party are ignored.
func (l *Level) ReachedExit(b *entity.Body) {
	if l.state != StatePlaying || l.arrived[b] || !l.member(b) {
		return
	}
	l.arrived[b] = true
	if l.Remaining() == 0 {
		l.state = StateStageClear
		if l.OnClear != nil {
			l.OnClear()
		}
	}
}

// Arrived reports whether b already reached the exit
func (l *Level) Arrived(b *entity.Body) bool { return l.arrived[b] }

// Remaining returns how many characters still have to reach the exit
func (l *Level) Remaining() int { return len(l.party) - len(l.arrived) }

func (l *Level) member(b *entity.Body) bool {
	for _, p := range l.party {
		if p == b {
			return true
		}
	}
	return false
}
