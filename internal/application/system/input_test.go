package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/shine/internal/domain/entity"
)

func TestNewInputSystem(t *testing.T) {
	sys := NewInputSystem()

	require.NotNil(t, sys)
	assert.Nil(t, sys.Active())
}

func TestInputState_Commands(t *testing.T) {
	in := InputState{Left: true, Jump: true, Switch: true}
	cmd := in.Commands()

	assert.True(t, cmd.Left)
	assert.True(t, cmd.Jump)
	assert.False(t, cmd.Right)
	assert.False(t, cmd.Up)
	assert.False(t, cmd.Down)
}

func TestInputSystem_OnlyActiveBodyGetsCommands(t *testing.T) {
	sys := NewInputSystem()
	erik := entity.NewBody("erik", entity.KindFriendly, 0, 0, 16, 16, entity.DefaultProps())
	olaf := entity.NewBody("olaf", entity.KindFriendly, 0, 0, 16, 16, entity.DefaultProps())
	sys.Join(erik)
	sys.Join(olaf)

	assert.Same(t, erik, sys.Active())

	sys.Apply(InputState{Right: true})
	cmd, ok := erik.Commands()
	require.True(t, ok)
	assert.True(t, cmd.Right)

	cmd, ok = olaf.Commands()
	require.True(t, ok)
	assert.False(t, cmd.Right)
}

func TestInputSystem_Switch(t *testing.T) {
	sys := NewInputSystem()
	names := []string{"erik", "baleog", "olaf"}
	for _, n := range names {
		sys.Join(entity.NewBody(n, entity.KindFriendly, 0, 0, 16, 16, entity.DefaultProps()))
	}

	var got []string
	for i := 0; i < 4; i++ {
		got = append(got, sys.Active().Name)
		sys.Apply(InputState{Switch: true})
	}
	assert.Equal(t, []string{"erik", "baleog", "olaf", "erik"}, got)
}
