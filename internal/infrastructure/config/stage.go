package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/lafriks/go-tiled"

	"github.com/younwookim/shine/internal/domain/entity"
	"github.com/younwookim/shine/internal/domain/geom"
)

// ErrInvalidStage is returned for maps the physics core cannot use
var ErrInvalidStage = errors.New("invalid stage")

// Map structure names
const (
	CollisionLayerPrefix = "collision" // tile layers named collision* take part in collisions
	LaddersGroup         = "Ladders"
	SpawnsGroup          = "Spawns"
	PlatformsGroup       = "Platforms"
)

// Diagnostics receives problems that do not stop loading
type Diagnostics func(err error)

// StageData is a loaded stage plus the dynamic objects placed in it
type StageData struct {
	Name      string
	Stage     *entity.Stage
	Bodies    []BodySpawn
	Platforms []PlatformSpawn
}

// BodySpawn places a profile-driven body
type BodySpawn struct {
	Name    string
	Profile string
	X, Y    float64
}

// PlatformSpawn places a moving platform travelling (DX, DY) and back
type PlatformSpawn struct {
	Name       string
	X, Y, W, H float64
	DX, DY     float64
	Duration   float64 // seconds per leg
}

// LoadStage reads a TMX map from fsys. Tiles with malformed properties are
// reported to diag and left empty.
func LoadStage(fsys fs.FS, path string, diag Diagnostics) (*StageData, error) {
	m, err := tiled.LoadFile(path, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("failed to load stage %s: %w", path, err)
	}
	if m.TileWidth <= 0 || m.TileWidth != m.TileHeight {
		return nil, fmt.Errorf("%w: %s: tiles must be square, got %dx%d", ErrInvalidStage, path, m.TileWidth, m.TileHeight)
	}

	stage := &entity.Stage{
		Width:    m.Width,
		Height:   m.Height,
		TileSize: m.TileWidth,
	}
	for _, layer := range m.Layers {
		if !strings.HasPrefix(layer.Name, CollisionLayerPrefix) {
			continue
		}
		stage.Layers = append(stage.Layers, collisionLayer(m, layer, path, diag))
	}
	if len(stage.Layers) == 0 {
		return nil, fmt.Errorf("%w: %s: no %s layer", ErrInvalidStage, path, CollisionLayerPrefix)
	}

	data := &StageData{Name: path, Stage: stage}
	for _, og := range m.ObjectGroups {
		switch og.Name {
		case LaddersGroup:
			for _, o := range og.Objects {
				stage.Ladders = append(stage.Ladders, geom.Rect{X: o.X, Y: o.Y, W: o.Width, H: o.Height})
			}
		case SpawnsGroup:
			for _, o := range og.Objects {
				stage.Spawns = append(stage.Spawns, entity.Spawn{Name: o.Name, X: o.X, Y: o.Y})
				profile := o.Properties.GetString("profile")
				if profile == "" {
					profile = o.Name
				}
				data.Bodies = append(data.Bodies, BodySpawn{Name: o.Name, Profile: profile, X: o.X, Y: o.Y})
			}
		case PlatformsGroup:
			for _, o := range og.Objects {
				data.Platforms = append(data.Platforms, PlatformSpawn{
					Name:     o.Name,
					X:        o.X,
					Y:        o.Y,
					W:        o.Width,
					H:        o.Height,
					DX:       o.Properties.GetFloat("dx"),
					DY:       o.Properties.GetFloat("dy"),
					Duration: o.Properties.GetFloat("duration"),
				})
			}
		}
	}
	return data, nil
}

func collisionLayer(m *tiled.Map, layer *tiled.Layer, path string, diag Diagnostics) *entity.TileLayer {
	grid := entity.NewGrid(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			tile := layer.Tiles[y*m.Width+x]
			if tile.IsNil() {
				continue
			}
			props, err := entity.ParseTileProps(tileProperties(tile))
			if err != nil {
				if diag != nil {
					diag(fmt.Errorf("%s: layer %s: tile (%d,%d): %w", path, layer.Name, x, y, err))
				}
				continue
			}
			grid.Set(x, y, props)
		}
	}

	tl := entity.NewTileLayer(layer.Name, grid, float64(m.TileWidth), float64(m.TileHeight))
	tl.OffsetX = float64(layer.OffsetX)
	tl.OffsetY = float64(layer.OffsetY)
	return tl
}

func tileProperties(tile *tiled.LayerTile) map[string]string {
	raw := make(map[string]string)
	if tile.Tileset == nil {
		return raw
	}
	ts, err := tile.Tileset.GetTilesetTile(tile.ID)
	if err != nil {
		return raw
	}
	for _, p := range ts.Properties {
		raw[p.Name] = p.Value
	}
	return raw
}
