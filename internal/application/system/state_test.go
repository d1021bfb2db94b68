package system

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/younwookim/shine/internal/domain/entity"
)

func TestClassifyState(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *entity.Body, cmd *entity.Commands)
		want  State
	}{
		{name: "idle", setup: func(*entity.Body, *entity.Commands) {}, want: StateIdle},
		{
			name:  "running",
			setup: func(b *entity.Body, cmd *entity.Commands) { b.VX = 40; cmd.Right = true },
			want:  StateRunning,
		},
		{
			name:  "sliding",
			setup: func(b *entity.Body, _ *entity.Commands) { b.VX = 40 },
			want:  StateRunning,
		},
		{
			name:  "pushing",
			setup: func(b *entity.Body, cmd *entity.Commands) { b.AtWall = true; cmd.Left = true },
			want:  StatePushing,
		},
		{
			name:  "both keys",
			setup: func(b *entity.Body, cmd *entity.Commands) { cmd.Left = true; cmd.Right = true },
			want:  StateIdle,
		},
		{
			name:  "airborne",
			setup: func(b *entity.Body, cmd *entity.Commands) { b.VY = -100; cmd.Right = true },
			want:  StateAirborne,
		},
		{
			name:  "falling",
			setup: func(b *entity.Body, _ *entity.Commands) { b.VY = 300 },
			want:  StateFalling,
		},
		{
			name:  "special wins over airborne",
			setup: func(b *entity.Body, _ *entity.Commands) { b.Special = true; b.VY = 300 },
			want:  StateSpecial,
		},
		{
			name:  "ladder wins",
			setup: func(b *entity.Body, _ *entity.Commands) { b.Ladder = 40; b.Special = true; b.VY = -70 },
			want:  StateOnLadder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, brain := newCharacter("erik", 0, 0)
			tt.setup(b, &brain.cmd)
			assert.Equal(t, tt.want, ClassifyState(b, 200))
		})
	}
}

func TestClassifyState_NoFallThreshold(t *testing.T) {
	b := entity.NewBody("rock", entity.KindDefault, 0, 0, 16, 16, entity.Props{})
	b.VY = 1000
	assert.Equal(t, StateAirborne, ClassifyState(b, 0))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "on_ladder", StateOnLadder.String())
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "unknown", State(42).String())
}
