package main

import (
	"fmt"
	"io"
	"log"
	"sort"

	"github.com/younwookim/shine/internal/application/replay"
	"github.com/younwookim/shine/internal/application/session"
	"github.com/younwookim/shine/internal/application/state"
	"github.com/younwookim/shine/internal/domain/entity"
	"github.com/younwookim/shine/internal/infrastructure/config"
)

// BodyResult is where a character ended up
type BodyResult struct {
	Name string
	X, Y float64
}

// ReplayResult summarizes a headless replay
type ReplayResult struct {
	Stage  string
	Frames int
	State  state.GameState
	Bodies []BodyResult
}

// runReplay plays a recording back without a window, one fixed step per
// recorded frame
func runReplay(cfg *config.GameConfig, loader *config.Loader, path string) (*ReplayResult, error) {
	data, err := replay.LoadReplay(path)
	if err != nil {
		return nil, err
	}
	replayer := replay.NewReplayer(*data)

	stage, err := loader.LoadStage(replayer.Stage())
	if err != nil {
		return nil, err
	}
	s, err := session.New(cfg, stage, session.Options{
		Scripts:  loader.LoadScript,
		Override: replayer,
	})
	if err != nil {
		return nil, err
	}

	dt := 1.0 / float64(cfg.Physics.Display.Framerate)
	for s.PlayFrame(replayer, dt) {
	}
	log.Printf("replayed %s: %d/%d frames", path, replayer.CurrentFrame(), replayer.TotalFrames())

	result := &ReplayResult{
		Stage:  s.Name(),
		Frames: s.Frame(),
		State:  s.Level().State(),
	}
	for _, b := range s.World().Bodies() {
		if !b.Kind.Has(entity.KindCharacter) {
			continue
		}
		result.Bodies = append(result.Bodies, BodyResult{Name: b.Name, X: b.X, Y: b.Y})
	}
	sort.Slice(result.Bodies, func(i, j int) bool {
		return result.Bodies[i].Name < result.Bodies[j].Name
	})
	return result, nil
}

// Print writes the result in a diffable form
func (r *ReplayResult) Print(w io.Writer) {
	fmt.Fprintf(w, "stage %s: %d frames, %s\n", r.Stage, r.Frames, r.State)
	for _, b := range r.Bodies {
		fmt.Fprintf(w, "%-8s %8.2f %8.2f\n", b.Name, b.X, b.Y)
	}
}
