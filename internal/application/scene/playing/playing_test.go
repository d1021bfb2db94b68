package playing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/shine/internal/application/replay"
	"github.com/younwookim/shine/internal/application/state"
	"github.com/younwookim/shine/internal/application/system"
	"github.com/younwookim/shine/internal/domain/entity"
	"github.com/younwookim/shine/internal/infrastructure/config"
)

const (
	configsDir = "../../../../cmd/game/configs"
	frame      = 1.0 / 60
)

// copyConfigs copies the shipped configs into a temp dir tests may edit
func copyConfigs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"physics.json", "profiles.yaml", "scripts/guard.tengo", "stages/demo.tmx"} {
		data, err := os.ReadFile(filepath.Join(configsDir, name))
		require.NoError(t, err)
		dst := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
		require.NoError(t, os.WriteFile(dst, data, 0o644))
	}
	return dir
}

func newTestScene(t *testing.T, dir, recordPath string) *Playing {
	t.Helper()
	loader := config.NewLoader(dir)
	cfg, err := loader.LoadAll()
	require.NoError(t, err)
	stage, err := loader.LoadStage("demo")
	require.NoError(t, err)

	p, err := New(cfg, loader, stage, recordPath)
	require.NoError(t, err)
	return p
}

func TestNew(t *testing.T) {
	p := newTestScene(t, configsDir, "")

	require.NotNil(t, p.Session())
	require.NotNil(t, p.input.Active())
	assert.Equal(t, "erik", p.input.Active().Name)
	assert.Equal(t, 3, p.Session().Level().Remaining())
	assert.Equal(t, state.StatePlaying, p.Session().Level().State())

	w, h := p.Layout(0, 0)
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)
}

func TestPlaying_StepMovesActiveCharacter(t *testing.T) {
	p := newTestScene(t, configsDir, "")
	erik := p.Session().Body("erik")
	baleog := p.Session().Body("baleog")
	startX, baleogX := erik.X, baleog.X

	for i := 0; i < 60; i++ {
		p.step(system.InputState{Right: true}, false, frame)
	}

	assert.Greater(t, erik.X, startX)
	assert.Equal(t, baleogX, baleog.X, "only the active character follows the keyboard")
	assert.Equal(t, 60, p.Session().Frame())
}

func TestPlaying_StepSwitchAndFire(t *testing.T) {
	p := newTestScene(t, configsDir, "")

	p.step(system.InputState{Switch: true}, true, frame)

	assert.Equal(t, "baleog", p.input.Active().Name)
	// olaf stands right next to baleog
	combat := p.Session().Combat()
	assert.Equal(t, 1, combat.InFlight()+combat.Hits(p.Session().Body("olaf")))
}

func TestPlaying_StepPaused(t *testing.T) {
	p := newTestScene(t, configsDir, "")
	p.Session().Level().TogglePause()

	p.step(system.InputState{Right: true}, true, frame)

	assert.Zero(t, p.Session().Frame())
	assert.Zero(t, p.Session().Combat().InFlight())
}

func TestPlaying_ApplyChange(t *testing.T) {
	dir := copyConfigs(t)
	p := newTestScene(t, dir, "")

	t.Run("profiles", func(t *testing.T) {
		path := filepath.Join(dir, "profiles.yaml")
		profiles, err := config.NewLoader(dir).LoadProfiles()
		require.NoError(t, err)
		erik := profiles.Characters["erik"]
		erik.MaxSpeed = 400
		profiles.Characters["erik"] = erik
		p.Session().ReloadProfiles(profiles)
		assert.Equal(t, 400.0, p.Session().Body("erik").Props.MaxSpeed)

		require.NoError(t, p.applyChange(path))
		assert.Equal(t, 150.0, p.Session().Body("erik").Props.MaxSpeed, "file contents win")
	})

	t.Run("script", func(t *testing.T) {
		guard := p.Session().Body("guard")
		before := guard.Brain
		path := filepath.Join(dir, "scripts", "guard.tengo")
		require.NoError(t, os.WriteFile(path, []byte("left = true"), 0o644))

		require.NoError(t, p.applyChange(path))
		assert.NotSame(t, before, guard.Brain)
		assert.Equal(t, entity.Commands{Left: true}, guard.Brain.Commands(guard))
	})

	t.Run("broken profiles", func(t *testing.T) {
		path := filepath.Join(dir, "profiles.yaml")
		require.NoError(t, os.WriteFile(path, []byte("characters: ["), 0o644))
		assert.Error(t, p.applyChange(path))
	})

	t.Run("other files", func(t *testing.T) {
		assert.NoError(t, p.applyChange(filepath.Join(dir, "physics.json")))
	})
}

func TestPlaying_Recording(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.msgpack")
	p := newTestScene(t, configsDir, path)

	for i := 0; i < 10; i++ {
		p.step(system.InputState{Right: true}, false, frame)
	}
	p.saveRecording()

	data, err := replay.LoadReplay(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", data.Stage)
	require.Len(t, data.Frames, 10)
	assert.True(t, data.Frames[0].Bodies["erik"].R)
}

func TestClampView(t *testing.T) {
	tests := []struct {
		name     string
		v, limit float64
		want     float64
	}{
		{name: "inside", v: 50, limit: 320, want: 50},
		{name: "before the stage", v: -20, limit: 320, want: 0},
		{name: "past the stage", v: 400, limit: 320, want: 320},
		{name: "stage smaller than the screen", v: 10, limit: -40, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clampView(tt.v, tt.limit))
		})
	}
}

func TestTileColor(t *testing.T) {
	tests := []struct {
		name  string
		props entity.TileProps
		want  any
	}{
		{name: "solid", props: entity.TileProps{Strength: 1}, want: colorSolid},
		{name: "exit", props: entity.TileProps{Strength: 1, Exit: true}, want: colorExit},
		{name: "water", props: entity.TileProps{Strength: 1, Liquid: entity.LiquidWater}, want: colorWater},
		{name: "quicksand", props: entity.TileProps{Strength: 1, Liquid: entity.LiquidQuicksand}, want: colorQuicksand},
		{name: "ramp", props: entity.TileProps{Strength: 1, Slope: 2, Offset: 1}, want: colorSlope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tileColor(tt.props))
		})
	}
}

func TestBodyColor(t *testing.T) {
	erik := entity.NewBody("erik", entity.KindFriendly, 0, 0, 16, 16, entity.DefaultProps())
	guard := entity.NewBody("guard", entity.KindEnemy, 0, 0, 16, 16, entity.DefaultProps())
	rock := entity.NewBody("rock", entity.KindDefault, 0, 0, 16, 16, entity.Props{})

	assert.Equal(t, colorActive, bodyColor(erik, true))
	assert.Equal(t, colorFriendly, bodyColor(erik, false))
	assert.Equal(t, colorEnemy, bodyColor(guard, false))
	assert.Equal(t, colorScenery, bodyColor(rock, false))
}

func TestOnEnter_WatchesConfigsOnDisk(t *testing.T) {
	p := newTestScene(t, copyConfigs(t), "")

	p.OnEnter()
	require.NotNil(t, p.watcher)

	p.OnExit()
	assert.Nil(t, p.watcher)
}

func TestOnEnter_EmbeddedConfigsAreNotWatched(t *testing.T) {
	loader := config.NewFSLoader(os.DirFS(configsDir), "configs")
	cfg, err := loader.LoadAll()
	require.NoError(t, err)
	stage, err := loader.LoadStage("demo")
	require.NoError(t, err)

	p, err := New(cfg, loader, stage, "")
	require.NoError(t, err)

	p.OnEnter()
	assert.Nil(t, p.watcher)
	p.OnExit()
}
