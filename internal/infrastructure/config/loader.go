package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
)

// GameConfig holds all loaded configurations
type GameConfig struct {
	Physics  *PhysicsConfig
	Profiles *ProfilesConfig
}

// Loader loads game configuration using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
	onDisk   bool

	// Diagnostics receives non-fatal stage problems, log.Printf by default
	Diagnostics Diagnostics
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	l := NewFSLoader(os.DirFS(basePath), basePath)
	l.onDisk = true
	return l
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
		Diagnostics: func(err error) {
			log.Printf("config: %v", err)
		},
	}
}

// BasePath returns the directory the loader reads from
func (l *Loader) BasePath() string { return l.basePath }

// OnDisk reports whether BasePath is a real directory that can be watched
func (l *Loader) OnDisk() bool { return l.onDisk }

// LoadPhysics loads physics.json, fills unset tuning knobs and validates it
func (l *Loader) LoadPhysics() (*PhysicsConfig, error) {
	data, err := fs.ReadFile(l.fsys, "physics.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read physics.json: %w", err)
	}

	var cfg PhysicsConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse physics.json: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("physics.json: %w", err)
	}

	return &cfg, nil
}

// LoadProfiles loads profiles.yaml
func (l *Loader) LoadProfiles() (*ProfilesConfig, error) {
	data, err := fs.ReadFile(l.fsys, "profiles.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles.yaml: %w", err)
	}
	cfg, err := ParseProfiles(data)
	if err != nil {
		return nil, fmt.Errorf("profiles.yaml: %w", err)
	}
	return cfg, nil
}

// LoadScript reads a tengo script referenced by a profile
func (l *Loader) LoadScript(name string) ([]byte, error) {
	data, err := fs.ReadFile(l.fsys, path.Join("scripts", name))
	if err != nil {
		return nil, fmt.Errorf("failed to read script %s: %w", name, err)
	}
	return data, nil
}

// LoadStage loads a stage TMX file
func (l *Loader) LoadStage(name string) (*StageData, error) {
	data, err := LoadStage(l.fsys, "stages/"+name+".tmx", l.Diagnostics)
	if err != nil {
		return nil, err
	}
	data.Name = name
	return data, nil
}

// LoadAll loads all base configurations (physics, profiles)
func (l *Loader) LoadAll() (*GameConfig, error) {
	physics, err := l.LoadPhysics()
	if err != nil {
		return nil, err
	}

	profiles, err := l.LoadProfiles()
	if err != nil {
		return nil, err
	}

	return &GameConfig{
		Physics:  physics,
		Profiles: profiles,
	}, nil
}
