package main

import (
	"embed"
	"flag"
	"io/fs"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/shine/internal/application/game"
	"github.com/younwookim/shine/internal/application/scene/playing"
	"github.com/younwookim/shine/internal/infrastructure/config"
)

//go:embed configs
var configFS embed.FS

func main() {
	// Parse command line flags
	recordFlag := flag.String("record", "", "Record input to file (e.g., -record run.msgpack or run.json)")
	replayFlag := flag.String("replay", "", "Replay a recording headless and print where every body ended up")
	stageFlag := flag.String("stage", "demo", "Stage to load from configs/stages")
	configFlag := flag.String("config", "", "Read configs from this directory and hot reload profiles and scripts")
	flag.Parse()

	loader, err := newLoader(*configFlag)
	if err != nil {
		log.Fatalf("Failed to open configs: %v", err)
	}
	cfg, err := loader.LoadAll()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *replayFlag != "" {
		result, err := runReplay(cfg, loader, *replayFlag)
		if err != nil {
			log.Fatalf("Replay failed: %v", err)
		}
		result.Print(os.Stdout)
		return
	}

	stage, err := loader.LoadStage(*stageFlag)
	if err != nil {
		log.Fatalf("Failed to load stage: %v", err)
	}

	scene, err := playing.New(cfg, loader, stage, *recordFlag)
	if err != nil {
		log.Fatalf("Failed to start stage: %v", err)
	}

	display := cfg.Physics.Display
	g := game.New(scene, display.ScreenWidth, display.ScreenHeight, display.Framerate)
	defer g.Close()

	ebiten.SetWindowSize(display.ScreenWidth*display.Scale, display.ScreenHeight*display.Scale)
	ebiten.SetWindowTitle("Shine")
	ebiten.SetTPS(display.Framerate)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

// newLoader reads configs from dir, or from the embedded copy when dir is empty
func newLoader(dir string) (*config.Loader, error) {
	if dir != "" {
		return config.NewLoader(dir), nil
	}
	fsys, err := fs.Sub(configFS, "configs")
	if err != nil {
		return nil, err
	}
	return config.NewFSLoader(fsys, "configs"), nil
}
