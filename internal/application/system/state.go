package system

import "github.com/younwookim/shine/internal/domain/entity"

// State is what a body is visibly doing, derived from its physics flags
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePushing
	StateAirborne
	StateFalling
	StateOnLadder
	StateSpecial
)

var stateNames = [...]string{
	StateIdle:     "idle",
	StateRunning:  "running",
	StatePushing:  "pushing",
	StateAirborne: "airborne",
	StateFalling:  "falling",
	StateOnLadder: "on_ladder",
	StateSpecial:  "special",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// ClassifyState derives the state of b. A body falling faster than
// fallSpeed is falling rather than airborne; zero disables the check.
func ClassifyState(b *entity.Body, fallSpeed float64) State {
	if b.Ladder.Locked() {
		return StateOnLadder
	}
	if b.Special {
		return StateSpecial
	}
	if fallSpeed > 0 && b.VY > fallSpeed {
		return StateFalling
	}
	if b.VY != 0 {
		return StateAirborne
	}

	cmd, _ := b.Commands()
	if cmd.Left != cmd.Right {
		if b.AtWall {
			return StatePushing
		}
		return StateRunning
	}
	if b.VX != 0 {
		return StateRunning
	}
	return StateIdle
}
