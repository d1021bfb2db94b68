package entity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/younwookim/shine/internal/domain/geom"
)

// EntityID is a unique identifier for an entity
type EntityID uint64

var (
	// ErrBadTileProp is returned for tile properties that cannot be parsed
	ErrBadTileProp = errors.New("bad tile property")
	// ErrBadSlope is returned for slope codes outside -3..3 or bad offsets
	ErrBadSlope = errors.New("bad slope")
)

// LiquidKind identifies liquid ground
type LiquidKind uint8

const (
	LiquidNone LiquidKind = iota
	LiquidWater
	LiquidQuicksand
)

// String returns the liquid name as used in map files
func (l LiquidKind) String() string {
	switch l {
	case LiquidWater:
		return "water"
	case LiquidQuicksand:
		return "quicksand"
	default:
		return "none"
	}
}

// ParseLiquid parses a liquid name
func ParseLiquid(s string) (LiquidKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "false", "0":
		return LiquidNone, nil
	case "water":
		return LiquidWater, nil
	case "quicksand":
		return LiquidQuicksand, nil
	}
	return LiquidNone, fmt.Errorf("%w: liquid %q", ErrBadTileProp, s)
}

// MaxSlope is the largest slope steepness code
const MaxSlope = 3

// TileProps is the immutable metadata of one map cell
type TileProps struct {
	Strength int // collision strength, 0 = not colliding
	Liquid   LiquidKind
	Exit     bool
	Slope    int // sign = rising direction (+1 rises to the right), magnitude = tiles per full rise
	Offset   int // 1-based position of this tile within its ramp
}

// Colliding reports whether the tile takes part in collisions
func (p TileProps) Colliding() bool { return p.Strength > 0 }

// Special reports whether the tile is liquid or an exit
func (p TileProps) Special() bool { return p.Liquid != LiquidNone || p.Exit }

// Steepness returns the absolute slope code
func (p TileProps) Steepness() int {
	if p.Slope < 0 {
		return -p.Slope
	}
	return p.Slope
}

// SlopeSign returns -1, 0 or +1
func (p TileProps) SlopeSign() int {
	switch {
	case p.Slope > 0:
		return 1
	case p.Slope < 0:
		return -1
	}
	return 0
}

// Validate checks slope and offset ranges
func (p TileProps) Validate() error {
	if p.Slope < -MaxSlope || p.Slope > MaxSlope {
		return fmt.Errorf("%w: code %d", ErrBadSlope, p.Slope)
	}
	if p.Slope == 0 {
		return nil
	}
	if p.Offset < 1 || p.Offset > p.Steepness() {
		return fmt.Errorf("%w: offset %d for code %d", ErrBadSlope, p.Offset, p.Slope)
	}
	return nil
}

// ParseTileProps builds validated properties from raw string key/values.
// A tile without a "collision" key collides with strength 1.
func ParseTileProps(raw map[string]string) (TileProps, error) {
	p := TileProps{Strength: 1}

	if v, ok := raw["collision"]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return TileProps{}, fmt.Errorf("%w: collision %q", ErrBadTileProp, v)
		}
		p.Strength = n
	}
	if v, ok := raw["liquid"]; ok {
		l, err := ParseLiquid(v)
		if err != nil {
			return TileProps{}, err
		}
		p.Liquid = l
	}
	if v, ok := raw["exit"]; ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return TileProps{}, fmt.Errorf("%w: exit %q", ErrBadTileProp, v)
		}
		p.Exit = b
	}
	if v, ok := raw["slope"]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return TileProps{}, fmt.Errorf("%w: slope %q", ErrBadSlope, v)
		}
		p.Slope = n
	}
	if v, ok := raw["offset"]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return TileProps{}, fmt.Errorf("%w: offset %q", ErrBadSlope, v)
		}
		p.Offset = n
	}
	if p.Slope != 0 && p.Offset == 0 {
		p.Offset = 1
	}

	if err := p.Validate(); err != nil {
		return TileProps{}, err
	}
	return p, nil
}

// TileSource is the read-only per-cell property lookup supplied by the map loader
type TileSource interface {
	TileProps(col, row int) (TileProps, bool)
}

// Grid is an in-memory TileSource
type Grid struct {
	Cols, Rows int
	cells      []TileProps
	present    []bool
}

// NewGrid creates an empty grid
func NewGrid(cols, rows int) *Grid {
	return &Grid{
		Cols:    cols,
		Rows:    rows,
		cells:   make([]TileProps, cols*rows),
		present: make([]bool, cols*rows),
	}
}

// Set stores properties for a cell. Out-of-range cells are ignored.
func (g *Grid) Set(col, row int, p TileProps) {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return
	}
	i := row*g.Cols + col
	g.cells[i] = p
	g.present[i] = true
}

// Clear removes a cell's properties
func (g *Grid) Clear(col, row int) {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return
	}
	i := row*g.Cols + col
	g.cells[i] = TileProps{}
	g.present[i] = false
}

// TileProps implements TileSource
func (g *Grid) TileProps(col, row int) (TileProps, bool) {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return TileProps{}, false
	}
	i := row*g.Cols + col
	return g.cells[i], g.present[i]
}

// TileLayer is a collision layer: a tile source laid out on a regular grid
type TileLayer struct {
	Name         string
	Source       TileSource
	TileW, TileH float64
	OffsetX      float64
	OffsetY      float64
	Mask         Kind // body kinds this layer collides with
}

// NewTileLayer creates a layer colliding with every non-ladder kind
func NewTileLayer(name string, src TileSource, tileW, tileH float64) *TileLayer {
	return &TileLayer{
		Name:   name,
		Source: src,
		TileW:  tileW,
		TileH:  tileH,
		Mask:   KindDefault | KindCharacter | KindParticle,
	}
}

// MountKind implements Mount
func (l *TileLayer) MountKind() Kind { return KindDefault }

// TileRect returns the world rectangle of a cell
func (l *TileLayer) TileRect(col, row int) geom.Rect {
	return geom.Rect{
		X: l.OffsetX + float64(col)*l.TileW,
		Y: l.OffsetY + float64(row)*l.TileH,
		W: l.TileW,
		H: l.TileH,
	}
}

// Spawn is a named start position
type Spawn struct {
	Name string
	X, Y float64
}

// Stage is the static part of a level
type Stage struct {
	Width    int // tiles
	Height   int // tiles
	TileSize int
	Layers   []*TileLayer
	Ladders  []geom.Rect
	Spawns   []Spawn
}

// PixelWidth returns the stage width in pixels
func (s *Stage) PixelWidth() float64 { return float64(s.Width * s.TileSize) }

// PixelHeight returns the stage height in pixels
func (s *Stage) PixelHeight() float64 { return float64(s.Height * s.TileSize) }

// Spawn returns the named spawn point
func (s *Stage) Spawn(name string) (Spawn, bool) {
	for _, sp := range s.Spawns {
		if sp.Name == name {
			return sp, true
		}
	}
	return Spawn{}, false
}
