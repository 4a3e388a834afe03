package scene

import (
	"math/rand"

	"github.com/Carmen-Shannon/neon-chess/engine/board"
	"github.com/Carmen-Shannon/neon-chess/engine/picking"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/material"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// BoardHeight is the height of the top face of the tiles.
	BoardHeight float32 = 2.4

	// DefaultSeed seeds the city layout, the pulse timing and the rain.
	DefaultSeed int64 = 3441

	// DefaultRainDrops is the number of rain streaks in the air at once.
	DefaultRainDrops = 320

	towerAttempts = 185
	streetExtent  = 70
	streetStep    = 5
)

// Part is one box of a piece, relative to the piece base.
type Part struct {
	Offset mgl32.Vec3
	Scale  mgl32.Vec3
}

var pieceBase = []Part{
	{mgl32.Vec3{0, 0.05, 0}, mgl32.Vec3{0.5, 0.08, 0.5}},
	{mgl32.Vec3{0, 0.11, 0}, mgl32.Vec3{0.36, 0.03, 0.36}},
}

var pieceBodies = map[board.PieceKind][]Part{
	board.Pawn: {
		{mgl32.Vec3{0, 0.24, 0}, mgl32.Vec3{0.25, 0.24, 0.25}},
		{mgl32.Vec3{0, 0.47, 0}, mgl32.Vec3{0.18, 0.18, 0.18}},
	},
	board.Rook: {
		{mgl32.Vec3{0, 0.33, 0}, mgl32.Vec3{0.38, 0.48, 0.38}},
		{mgl32.Vec3{0, 0.61, 0}, mgl32.Vec3{0.48, 0.1, 0.48}},
	},
	board.Knight: {
		{mgl32.Vec3{0, 0.28, 0}, mgl32.Vec3{0.3, 0.3, 0.3}},
		{mgl32.Vec3{0, 0.56, 0}, mgl32.Vec3{0.22, 0.46, 0.22}},
		{mgl32.Vec3{0, 0.74, 0.08}, mgl32.Vec3{0.2, 0.2, 0.2}},
	},
	board.Bishop: {
		{mgl32.Vec3{0, 0.38, 0}, mgl32.Vec3{0.32, 0.56, 0.32}},
		{mgl32.Vec3{0, 0.68, 0}, mgl32.Vec3{0.18, 0.18, 0.18}},
	},
	board.Queen: {
		{mgl32.Vec3{0, 0.31, 0}, mgl32.Vec3{0.32, 0.36, 0.32}},
		{mgl32.Vec3{0, 0.58, 0}, mgl32.Vec3{0.44, 0.3, 0.44}},
		{mgl32.Vec3{0, 0.8, 0}, mgl32.Vec3{0.16, 0.16, 0.16}},
	},
	board.King: {
		{mgl32.Vec3{0, 0.32, 0}, mgl32.Vec3{0.34, 0.44, 0.34}},
		{mgl32.Vec3{0, 0.63, 0}, mgl32.Vec3{0.22, 0.24, 0.22}},
		{mgl32.Vec3{0, 0.84, 0}, mgl32.Vec3{0.08, 0.3, 0.08}},
		{mgl32.Vec3{0, 0.84, 0}, mgl32.Vec3{0.3, 0.08, 0.08}},
	},
}

// PieceParts returns the boxes a piece of kind is stacked from: a two-part base, then the body.
// Unknown kinds get the base alone.
func PieceParts(kind board.PieceKind) []Part {
	parts := make([]Part, 0, len(pieceBase)+4)
	parts = append(parts, pieceBase...)
	return append(parts, pieceBodies[kind]...)
}

// uniform draws from [lo, hi).
func uniform(rng *rand.Rand, lo, hi float32) float32 {
	return lo + (hi-lo)*rng.Float32()
}

// Builder constructs the procedural scene. Every random draw comes from rng in a fixed order,
// so a given seed always yields the same city and rain.
type Builder struct {
	rng         *rand.Rand
	boardHeight float32
}

// NewBuilder creates a Builder drawing from rng for a board whose tiles sit at boardHeight.
func NewBuilder(rng *rand.Rand, boardHeight float32) *Builder {
	return &Builder{rng: rng, boardHeight: boardHeight}
}

// Environment builds the ground, the neon street grid and the towers with their accent strips.
func (b *Builder) Environment() []*RenderObject {
	objs := []*RenderObject{
		NewRenderObject(mgl32.Vec3{0, -1.35, 0}, mgl32.Vec3{160, 0.1, 160}, material.WetGround),
	}

	for lane := -streetExtent; lane <= streetExtent; lane += streetStep {
		l := float32(lane)
		cyanSpeed, cyanPhase := uniform(b.rng, 1.4, 2.6), uniform(b.rng, 0, 2*math32.Pi)
		pinkSpeed, pinkPhase := uniform(b.rng, 1.2, 2.2), uniform(b.rng, 0, 2*math32.Pi)
		objs = append(objs,
			NewRenderObject(mgl32.Vec3{l, -1.3, 0}, mgl32.Vec3{0.03, 0.01, 150}, material.CityNeonCyan,
				WithPulse(cyanSpeed, cyanPhase, 0.35)),
			NewRenderObject(mgl32.Vec3{0, -1.3, l}, mgl32.Vec3{150, 0.01, 0.03}, material.CityNeonPink,
				WithPulse(pinkSpeed, pinkPhase, 0.3)),
		)
	}

	accents := []material.Material{material.CityNeonCyan, material.CityNeonPink, material.CityNeonPurple}
	for range towerAttempts {
		x := uniform(b.rng, -40, 40)
		z := uniform(b.rng, -40, 40)
		// keep the plaza around the board clear
		if math32.Abs(x) < 10 && math32.Abs(z) < 10 {
			continue
		}
		w := uniform(b.rng, 1.2, 3.6)
		h := uniform(b.rng, 5, 30)
		objs = append(objs, NewRenderObject(mgl32.Vec3{x, h*0.5 - 1.25, z}, mgl32.Vec3{w, h, w}, material.CityBuilding,
			WithCastShadow(true)))

		accent := accents[b.rng.Intn(len(accents))]
		speed := uniform(b.rng, 1.4, 3.3)
		phase := uniform(b.rng, 0, 2*math32.Pi)
		strength := uniform(b.rng, 0.2, 0.55)
		objs = append(objs, NewRenderObject(mgl32.Vec3{x, h*0.6 - 1.25, z + w*0.5 + 0.03}, mgl32.Vec3{w * 0.9, 0.12, 0.04}, accent,
			WithPulse(speed, phase, strength)))
	}
	return objs
}

// Board builds the frame and pulsing edge strips, plus one tile per square indexed by square.
func (b *Builder) Board() (statics []*RenderObject, tiles [64]*RenderObject) {
	bh := b.boardHeight
	statics = []*RenderObject{
		NewRenderObject(mgl32.Vec3{0, bh - 0.28, 0}, mgl32.Vec3{10.6, 0.18, 10.6}, material.BoardFrame, WithCastShadow(true)),
		NewRenderObject(mgl32.Vec3{0, bh - 0.2, 0}, mgl32.Vec3{9.8, 0.04, 9.8}, material.BoardEdgePink),
		NewRenderObject(mgl32.Vec3{0, bh - 0.16, 0}, mgl32.Vec3{9.3, 0.03, 9.3}, material.BoardEdgeCyan),
	}

	edges := []struct {
		pos, scale mgl32.Vec3
		mat        material.Material
	}{
		{mgl32.Vec3{0, bh + 0.08, -4.02}, mgl32.Vec3{8.25, 0.03, 0.04}, material.BoardEdgeCyan},
		{mgl32.Vec3{0, bh + 0.08, 4.02}, mgl32.Vec3{8.25, 0.03, 0.04}, material.BoardEdgeCyan},
		{mgl32.Vec3{-4.02, bh + 0.08, 0}, mgl32.Vec3{0.04, 0.03, 8.25}, material.BoardEdgePink},
		{mgl32.Vec3{4.02, bh + 0.08, 0}, mgl32.Vec3{0.04, 0.03, 8.25}, material.BoardEdgePink},
	}
	for _, e := range edges {
		statics = append(statics, NewRenderObject(e.pos, e.scale, e.mat, WithPulse(2, 0, 0.2)))
	}

	for sq := board.Square(0); sq < 64; sq++ {
		x, z := picking.SquareCenter(sq)
		mat := material.BoardDark
		if (sq.File()+sq.Rank())%2 == 0 {
			mat = material.BoardLight
		}
		tiles[sq] = NewRenderObject(mgl32.Vec3{x, bh, z}, mgl32.Vec3{1, 0.08, 1}, mat, WithCastShadow(true))
	}
	return statics, tiles
}

// Rain scatters count drops through the air above the city.
func (b *Builder) Rain(count int) []*RainDrop {
	drops := make([]*RainDrop, 0, max(count, 0))
	for range max(count, 0) {
		d := &RainDrop{
			X:      uniform(b.rng, -rainBounds, rainBounds),
			Y:      uniform(b.rng, 5, 25),
			Z:      uniform(b.rng, -rainBounds, rainBounds),
			Speed:  uniform(b.rng, 10, 16),
			Drift:  uniform(b.rng, -0.55, 0.55),
			Length: uniform(b.rng, 0.32, 0.72),
		}
		d.Object = NewRenderObject(d.Position(), d.Size(), material.RainStreak)
		drops = append(drops, d)
	}
	return drops
}

// Pieces builds the boxes of every piece on bd, plus a ring under the piece on selected.
//
// Parameters:
//   - bd: the board to read placement from
//   - selected: the selected square, or board.NoSquare
//
// Returns:
//   - []*RenderObject: the piece boxes in square order
func (b *Builder) Pieces(bd board.Board, selected board.Square) []*RenderObject {
	baseY := b.boardHeight + 0.05
	var objs []*RenderObject
	for sq := board.Square(0); sq < 64; sq++ {
		p := bd.PieceAt(sq)
		if p.Empty() {
			continue
		}
		x, z := picking.SquareCenter(sq)
		mat := material.BlackPiece
		if p.Color == board.White {
			mat = material.WhitePiece
		}
		for _, part := range PieceParts(p.Kind) {
			pos := mgl32.Vec3{x + part.Offset.X(), baseY + part.Offset.Y(), z + part.Offset.Z()}
			objs = append(objs, NewRenderObject(pos, part.Scale, mat, WithCastShadow(true)))
		}
		if sq == selected {
			objs = append(objs, NewRenderObject(mgl32.Vec3{x, baseY + 0.02, z}, mgl32.Vec3{0.72, 0.04, 0.72}, material.PieceSelection))
		}
	}
	return objs
}
