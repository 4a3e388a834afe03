package scene

import (
	"math/rand"
	"sync"

	"github.com/Carmen-Shannon/neon-chess/engine/board"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// DrawItem is one object as the scene pass uploads it.
type DrawItem struct {
	Model    mgl32.Mat4
	Material material.Material
	Center   mgl32.Vec3
	Radius   float32
}

func itemOf(o *RenderObject, mat material.Material) DrawItem {
	return DrawItem{Model: o.Model, Material: mat, Center: o.Position, Radius: o.BoundingRadius()}
}

// World holds every RenderObject of the scene grouped by collection: static city and board trim,
// one tile per square, the pieces of the current position and the rain.
type World struct {
	mu *sync.Mutex

	rng     *rand.Rand
	builder *Builder

	static []*RenderObject
	tiles  [64]*RenderObject
	pieces []*RenderObject
	rain   []*RainDrop
}

// NewWorld builds the city, the board and the rain from seed. Pieces stay empty until RebuildPieces.
//
// Parameters:
//   - seed: the random seed of the layout
//   - boardHeight: the height of the board surface
//   - rainDrops: the number of rain streaks
//
// Returns:
//   - *World: the populated world
func NewWorld(seed int64, boardHeight float32, rainDrops int) *World {
	rng := rand.New(rand.NewSource(seed))
	b := NewBuilder(rng, boardHeight)

	w := &World{
		mu:      &sync.Mutex{},
		rng:     rng,
		builder: b,
	}
	w.static = b.Environment()
	boardStatics, tiles := b.Board()
	w.static = append(w.static, boardStatics...)
	w.tiles = tiles
	w.rain = b.Rain(rainDrops)
	return w
}

// Pulse re-derives the material of every pulsing static object at elapsed seconds.
func (w *World) Pulse(elapsed float32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, o := range w.static {
		o.Pulse(elapsed)
	}
}

// StepRain advances every drop by dt seconds.
//
// Returns:
//   - int: the number of drops that respawned
func (w *World) StepRain(dt float32) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, d := range w.rain {
		if d.Step(dt, w.rng) {
			n++
		}
	}
	return n
}

// RebuildPieces replaces the piece collection with the placement of bd.
func (w *World) RebuildPieces(bd board.Board, selected board.Square) {
	objs := w.builder.Pieces(bd, selected)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pieces = objs
}

// TileMaterial resolves what a tile draws with: the selection highlight on the selected square,
// the legal marker on a legal destination, else the tile's own material.
//
// Parameters:
//   - sq: the tile square
//   - selected: the selected square, or board.NoSquare
//   - legal: reports whether a square is a legal destination of the selection; may be nil
//
// Returns:
//   - material.Material: the effective material
func (w *World) TileMaterial(sq board.Square, selected board.Square, legal func(board.Square) bool) material.Material {
	switch {
	case sq == selected:
		return material.PieceSelection
	case legal != nil && legal(sq):
		return material.LegalMarker
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tiles[sq].Material
}

// ShadowCasters returns the model matrices drawn into the shadow map: static casters, every tile, then piece casters.
func (w *World) ShadowCasters() []mgl32.Mat4 {
	w.mu.Lock()
	defer w.mu.Unlock()
	models := make([]mgl32.Mat4, 0, len(w.static)+len(w.tiles)+len(w.pieces))
	for _, o := range w.static {
		if o.CastShadow {
			models = append(models, o.Model)
		}
	}
	for _, t := range w.tiles {
		models = append(models, t.Model)
	}
	for _, o := range w.pieces {
		if o.CastShadow {
			models = append(models, o.Model)
		}
	}
	return models
}

// DrawList returns every object of the scene pass in draw order: static objects, tiles with their effective
// material, pieces, then rain.
func (w *World) DrawList(selected board.Square, legal func(board.Square) bool) []DrawItem {
	tileMats := make([]material.Material, len(w.tiles))
	for sq := range w.tiles {
		tileMats[sq] = w.TileMaterial(board.Square(sq), selected, legal)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	items := make([]DrawItem, 0, len(w.static)+len(w.tiles)+len(w.pieces)+len(w.rain))
	for _, o := range w.static {
		items = append(items, itemOf(o, o.Material))
	}
	for sq, t := range w.tiles {
		items = append(items, itemOf(t, tileMats[sq]))
	}
	for _, o := range w.pieces {
		items = append(items, itemOf(o, o.Material))
	}
	for _, d := range w.rain {
		items = append(items, itemOf(d.Object, d.Object.Material))
	}
	return items
}

// Static returns the city and board trim objects.
func (w *World) Static() []*RenderObject {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.static
}

// Tile returns the tile of sq.
func (w *World) Tile(sq board.Square) *RenderObject {
	if !sq.Valid() {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tiles[sq]
}

func (w *World) Pieces() []*RenderObject {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pieces
}

func (w *World) Rain() []*RainDrop {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rain
}
