// Package state tracks the progress of a stage.
package state

// GameState represents the current state of a stage
type GameState int

const (
	StateLoading GameState = iota
	StatePlaying
	StatePaused
	StateGameOver
	StateStageClear
)

// String returns the string representation of the game state
func (s GameState) String() string {
	switch s {
	case StateLoading:
		return "Loading"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateGameOver:
		return "GameOver"
	case StateStageClear:
		return "StageClear"
	default:
		return "Unknown"
	}
}

// Running reports whether the simulation advances in this state
func (s GameState) Running() bool { return s == StatePlaying }

// Over reports whether the stage ended, cleared or failed
func (s GameState) Over() bool { return s == StateGameOver || s == StateStageClear }
