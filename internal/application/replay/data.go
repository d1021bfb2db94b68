package replay

import "github.com/younwookim/shine/internal/domain/entity"

// Version is written into every recording
const Version = "2.0"

// BodyInput records the command snapshot one body received
type BodyInput struct {
	L bool `json:"l,omitempty" msgpack:"l,omitempty"` // Left
	R bool `json:"r,omitempty" msgpack:"r,omitempty"` // Right
	U bool `json:"u,omitempty" msgpack:"u,omitempty"` // Up
	D bool `json:"d,omitempty" msgpack:"d,omitempty"` // Down
	J bool `json:"j,omitempty" msgpack:"j,omitempty"` // Jump
}

// FromCommands converts a command snapshot
func FromCommands(cmd entity.Commands) BodyInput {
	return BodyInput{L: cmd.Left, R: cmd.Right, U: cmd.Up, D: cmd.Down, J: cmd.Jump}
}

// Commands converts back into a command snapshot
func (in BodyInput) Commands() entity.Commands {
	return entity.Commands{Left: in.L, Right: in.R, Up: in.U, Down: in.D, Jump: in.J}
}

// FrameInput records every body's commands for a single frame.
// Bodies that received no commands are left out. Fire lists the bodies
// that shot an arrow before the frame was simulated.
type FrameInput struct {
	F      int                  `json:"f" msgpack:"f"` // Frame number
	Bodies map[string]BodyInput `json:"b,omitempty" msgpack:"b,omitempty"`
	Fire   []string             `json:"x,omitempty" msgpack:"x,omitempty"`
}

// ReplayData contains all data needed to replay a game session
type ReplayData struct {
	Version   string       `json:"version" msgpack:"version"`
	Stage     string       `json:"stage" msgpack:"stage"`
	StartTime string       `json:"startTime" msgpack:"startTime"`
	Frames    []FrameInput `json:"frames" msgpack:"frames"`
}
