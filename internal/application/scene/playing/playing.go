// Package playing provides the main gameplay scene.
package playing

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/younwookim/shine/internal/application/replay"
	"github.com/younwookim/shine/internal/application/scene"
	"github.com/younwookim/shine/internal/application/session"
	"github.com/younwookim/shine/internal/application/state"
	"github.com/younwookim/shine/internal/application/system"
	"github.com/younwookim/shine/internal/domain/entity"
	"github.com/younwookim/shine/internal/infrastructure/config"
)

// Colors for rendering
var (
	colorBG        = color.RGBA{26, 26, 46, 255}
	colorSolid     = colornames.Slategray
	colorSlope     = colornames.Lightslategray
	colorWater     = colornames.Steelblue
	colorQuicksand = colornames.Burlywood
	colorExit      = colornames.Gold
	colorLadder    = colornames.Sienna
	colorFriendly  = colornames.Mediumseagreen
	colorActive    = colornames.Lime
	colorEnemy     = colornames.Indianred
	colorScenery   = colornames.Darkkhaki
	colorArrow     = colornames.Orange
	colorOverlay   = color.RGBA{0, 0, 0, 128}
)

// Playing is the main gameplay scene
type Playing struct {
	cfg    *config.GameConfig
	loader *config.Loader
	stage  *config.StageData

	session *session.Session
	input   *system.InputSystem
	watcher *config.Watcher

	// Input recording
	recorder       *replay.Recorder
	recordFilename string

	screenW int
	screenH int
}

// New creates a new Playing scene.
// If recordPath is not empty, gameplay will be recorded.
func New(cfg *config.GameConfig, loader *config.Loader, stage *config.StageData, recordPath string) (*Playing, error) {
	p := &Playing{
		cfg:            cfg,
		loader:         loader,
		stage:          stage,
		recordFilename: recordPath,
		screenW:        cfg.Physics.Display.ScreenWidth,
		screenH:        cfg.Physics.Display.ScreenHeight,
	}
	if err := p.start(); err != nil {
		return nil, err
	}
	return p, nil
}

// start (re)builds the session from the loaded stage
func (p *Playing) start() error {
	p.input = system.NewInputSystem()
	if p.recordFilename != "" {
		p.recorder = replay.NewRecorder(p.stage.Name)
		log.Printf("Recording enabled: %s", p.recordFilename)
	}

	s, err := session.New(p.cfg, p.stage, session.Options{
		Scripts:  p.loader.LoadScript,
		Player:   p.input,
		Recorder: p.recorder,
		OnScriptError: func(name string, err error) {
			log.Printf("script %s: %v", name, err)
		},
	})
	if err != nil {
		return err
	}
	p.session = s
	return nil
}

// Session returns the running simulation
func (p *Playing) Session() *session.Session { return p.session }

// Update proceeds the game state (implements scene.Scene)
func (p *Playing) Update(dt float64) (scene.Scene, error) {
	p.pollWatcher()

	level := p.session.Level()
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		level.TogglePause()
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		p.saveRecording()
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter) && level.State().Over():
		p.saveRecording()
		if err := p.start(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	in := p.input.GetInput()
	fire := inpututil.IsKeyJustPressed(ebiten.KeyF)
	p.step(in, fire, dt)

	return nil, nil // nil = stay on this scene
}

// step feeds one frame of input into the session
func (p *Playing) step(in system.InputState, fire bool, dt float64) {
	if !p.session.Level().State().Running() {
		return
	}
	p.input.Apply(in)
	if active := p.input.Active(); fire && active != nil {
		if _, err := p.session.Fire(active.Name); err != nil {
			log.Printf("fire: %v", err)
		}
	}
	p.session.Step(dt)
}

// saveRecording saves the current recording to file
func (p *Playing) saveRecording() {
	if p.recorder == nil {
		return
	}

	filename := p.recordFilename
	if filename == "" {
		filename = replay.GenerateFilename(".json")
	}

	if err := p.recorder.Save(filename); err != nil {
		log.Printf("Failed to save recording: %v", err)
	} else {
		log.Printf("Recording saved: %s (%d frames)", filename, p.recorder.FrameCount())
	}
}

// pollWatcher applies file changes without blocking the frame
func (p *Playing) pollWatcher() {
	if p.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-p.watcher.Events:
			if !ok {
				p.watcher = nil
				return
			}
			if err := p.applyChange(path); err != nil {
				log.Printf("reload %s: %v", path, err)
			} else {
				log.Printf("reloaded %s", path)
			}
		case err, ok := <-p.watcher.Errors:
			if ok {
				log.Printf("watch: %v", err)
			}
			return
		default:
			return
		}
	}
}

// applyChange reloads a changed profile or script file
func (p *Playing) applyChange(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		profiles, err := p.loader.LoadProfiles()
		if err != nil {
			return err
		}
		p.session.ReloadProfiles(profiles)
		return nil
	case ".tengo":
		return p.session.ReloadScript(filepath.Base(path))
	}
	return nil
}

// Draw renders the game screen
func (p *Playing) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)

	camX, camY := p.camera()
	sx, sy := p.session.Shake().Offset()
	camX -= sx
	camY -= sy

	p.drawTiles(screen, camX, camY)
	p.drawBodies(screen, camX, camY)
	p.drawUI(screen)

	switch p.session.Level().State() {
	case state.StatePaused:
		p.drawOverlay(screen, "PAUSED\n\nPress ESC to resume")
	case state.StateStageClear:
		p.drawOverlay(screen, "STAGE CLEAR\n\nPress ENTER to play again")
	case state.StateGameOver:
		p.drawOverlay(screen, "GAME OVER\n\nPress ENTER to retry")
	}
}

// camera returns the top-left world position of the view, following the
// active character and clamped to the stage
func (p *Playing) camera() (float64, float64) {
	st := p.stage.Stage
	var cx, cy float64
	if b := p.input.Active(); b != nil {
		cx, cy = b.CenterX(), b.Y+b.H/2
	}
	return clampView(cx-float64(p.screenW)/2, st.PixelWidth()-float64(p.screenW)),
		clampView(cy-float64(p.screenH)/2, st.PixelHeight()-float64(p.screenH))
}

func clampView(v, limit float64) float64 {
	if v > limit {
		v = limit
	}
	if v < 0 {
		v = 0
	}
	return v
}

func (p *Playing) drawTiles(screen *ebiten.Image, camX, camY float64) {
	for _, layer := range p.stage.Stage.Layers {
		grid, ok := layer.Source.(*entity.Grid)
		if !ok {
			continue
		}
		for row := 0; row < grid.Rows; row++ {
			for col := 0; col < grid.Cols; col++ {
				props, ok := grid.TileProps(col, row)
				if !ok {
					continue
				}
				r := layer.TileRect(col, row)
				x, y := r.X-camX, r.Y-camY
				if x+r.W < 0 || y+r.H < 0 || x > float64(p.screenW) || y > float64(p.screenH) {
					continue
				}
				p.drawTile(screen, props, x, y, r.W, r.H)
			}
		}
	}
}

func (p *Playing) drawTile(screen *ebiten.Image, props entity.TileProps, x, y, w, h float64) {
	c := tileColor(props)
	if props.Slope == 0 {
		vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), c, false)
		return
	}
	// ramp surface from the low to the high edge of this tile
	steep := float64(props.Steepness())
	low := y + h - h*float64(props.Offset-1)/steep
	high := low - h/steep
	if props.SlopeSign() > 0 {
		vector.StrokeLine(screen, float32(x), float32(low), float32(x+w), float32(high), 2, c, false)
	} else {
		vector.StrokeLine(screen, float32(x), float32(high), float32(x+w), float32(low), 2, c, false)
	}
}

// tileColor picks the debug color of a tile
func tileColor(props entity.TileProps) color.Color {
	switch {
	case props.Exit:
		return colorExit
	case props.Liquid == entity.LiquidWater:
		return colorWater
	case props.Liquid == entity.LiquidQuicksand:
		return colorQuicksand
	case props.Slope != 0:
		return colorSlope
	}
	return colorSolid
}

func (p *Playing) drawBodies(screen *ebiten.Image, camX, camY float64) {
	active := p.input.Active()
	for _, b := range p.session.World().Bodies() {
		x, y := float32(b.X-camX), float32(b.Y-camY)
		c := bodyColor(b, b == active)
		if b.Kind.Has(entity.KindLadder) {
			vector.StrokeRect(screen, x, y, float32(b.W), float32(b.H), 1, c, false)
			continue
		}
		vector.DrawFilledRect(screen, x, y, float32(b.W), float32(b.H), c, false)
	}
}

// bodyColor picks the debug color of a body
func bodyColor(b *entity.Body, active bool) color.Color {
	switch {
	case active:
		return colorActive
	case b.Kind.Has(entity.KindLadder):
		return colorLadder
	case b.Kind.Has(entity.KindParticle):
		return colorArrow
	case b.Kind.Has(entity.KindFriendly):
		return colorFriendly
	case b.Kind.Has(entity.KindEnemy):
		return colorEnemy
	}
	return colorScenery
}

func (p *Playing) drawUI(screen *ebiten.Image) {
	text := "Arrows: Move/Climb | Space: Jump | F: Fire | Tab: Switch | ESC: Pause | F5: Save replay"
	if b := p.input.Active(); b != nil {
		st := system.ClassifyState(b, b.Props.MaxFallSpeed)
		text += fmt.Sprintf("\n%s: %s  exit %d left", b.Name, st, p.session.Level().Remaining())
	}
	ebitenutil.DebugPrint(screen, text)
}

func (p *Playing) drawOverlay(screen *ebiten.Image, text string) {
	vector.DrawFilledRect(screen, 0, 0, float32(p.screenW), float32(p.screenH), colorOverlay, false)
	ebitenutil.DebugPrintAt(screen, text, p.screenW/2-60, p.screenH/2-20)
}

// OnEnter starts watching the config directory when it lives on disk
func (p *Playing) OnEnter() {
	if !p.loader.OnDisk() {
		return
	}
	base := p.loader.BasePath()
	w, err := config.NewWatcher(base, filepath.Join(base, "scripts"))
	if err != nil {
		log.Printf("hot reload disabled: %v", err)
		return
	}
	p.watcher = w
}

// OnExit is called when leaving this scene
func (p *Playing) OnExit() {
	if p.watcher != nil {
		_ = p.watcher.Close()
		p.watcher = nil
	}
	p.saveRecording()
}

// Layout returns the game's screen dimensions (used by game.Game)
func (p *Playing) Layout(outsideWidth, outsideHeight int) (int, int) {
	return p.screenW, p.screenH
}
