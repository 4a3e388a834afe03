package scene

import (
	"math/rand"
	"testing"

	"github.com/Carmen-Shannon/neon-chess/engine/board"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/material"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countNamed(objs []*RenderObject, m material.Material) int {
	n := 0
	for _, o := range objs {
		if o.Base.Name == m.Name {
			n++
		}
	}
	return n
}

func startingBoard(t *testing.T) board.Board {
	t.Helper()
	b, err := board.NewChessBoard()
	require.NoError(t, err)
	return b
}

func TestWorldIsDeterministic(t *testing.T) {
	a := NewWorld(DefaultSeed, BoardHeight, 20)
	b := NewWorld(DefaultSeed, BoardHeight, 20)
	c := NewWorld(DefaultSeed+1, BoardHeight, 20)

	require.Equal(t, len(a.Static()), len(b.Static()))
	for i := range a.Static() {
		assert.Equal(t, a.Static()[i].Model, b.Static()[i].Model)
		assert.Equal(t, a.Static()[i].PulsePhase, b.Static()[i].PulsePhase)
	}
	for i := range a.Rain() {
		assert.Equal(t, a.Rain()[i].Position(), b.Rain()[i].Position())
	}
	assert.NotEqual(t, a.Static()[1].PulseSpeed, c.Static()[1].PulseSpeed)
}

func TestEnvironmentLayout(t *testing.T) {
	w := NewWorld(DefaultSeed, BoardHeight, 0)
	static := w.Static()

	ground := static[0]
	assert.Equal(t, material.WetGround.Name, ground.Base.Name)
	assert.False(t, ground.CastShadow)
	assert.Equal(t, mgl32.Vec3{160, 0.1, 160}, ground.Scale)

	// 29 lanes each way
	assert.Equal(t, 29, countNamed(static[1:59], material.CityNeonCyan))
	assert.Equal(t, 29, countNamed(static[1:59], material.CityNeonPink))
	assert.Equal(t, float32(0.35), static[1].PulseStrength)
	assert.Equal(t, float32(0.3), static[2].PulseStrength)

	towers := countNamed(static, material.CityBuilding)
	assert.Greater(t, towers, 100)
	assert.LessOrEqual(t, towers, towerAttempts)
	for _, o := range static {
		if o.Base.Name != material.CityBuilding.Name {
			continue
		}
		assert.True(t, o.CastShadow)
		assert.False(t, math32.Abs(o.Position.X()) < 10 && math32.Abs(o.Position.Z()) < 10, "tower in the plaza")
		// towers stand on the street
		assert.InDelta(t, -1.25, o.Position.Y()-o.Scale.Y()*0.5, 1e-4)
	}

	assert.Empty(t, w.Rain())
}

func TestBoardTiles(t *testing.T) {
	w := NewWorld(DefaultSeed, BoardHeight, 0)

	a1 := w.Tile(board.NewSquare(0, 0))
	b1 := w.Tile(board.NewSquare(1, 0))
	h8 := w.Tile(board.NewSquare(7, 7))
	assert.Equal(t, material.BoardLight.Name, a1.Base.Name)
	assert.Equal(t, material.BoardDark.Name, b1.Base.Name)
	assert.Equal(t, material.BoardLight.Name, h8.Base.Name)
	assert.Equal(t, mgl32.Vec3{-3.5, BoardHeight, -3.5}, a1.Position)
	assert.Equal(t, mgl32.Vec3{3.5, BoardHeight, 3.5}, h8.Position)
	assert.True(t, a1.CastShadow)
	assert.Nil(t, w.Tile(board.NoSquare))

	edges := 0
	for _, o := range w.Static() {
		if o.PulseSpeed == 2 && o.PulseStrength == 0.2 {
			edges++
		}
	}
	assert.Equal(t, 4, edges)
}

func TestPieceParts(t *testing.T) {
	assert.Len(t, PieceParts(board.Pawn), 4)
	assert.Len(t, PieceParts(board.Rook), 4)
	assert.Len(t, PieceParts(board.Knight), 5)
	assert.Len(t, PieceParts(board.Bishop), 4)
	assert.Len(t, PieceParts(board.Queen), 5)
	assert.Len(t, PieceParts(board.King), 6)
	assert.Len(t, PieceParts(board.NoKind), 2)

	// the shared base is not aliased between calls
	p := PieceParts(board.Pawn)
	p[0].Scale = mgl32.Vec3{}
	assert.Equal(t, mgl32.Vec3{0.5, 0.08, 0.5}, PieceParts(board.King)[0].Scale)
}

func TestRebuildPieces(t *testing.T) {
	w := NewWorld(DefaultSeed, BoardHeight, 0)
	b := startingBoard(t)

	w.RebuildPieces(b, board.NoSquare)
	pieces := w.Pieces()
	// 16 pawns, 4 rooks, 4 knights, 4 bishops, 2 queens and 2 kings
	assert.Len(t, pieces, 16*4+4*4+4*5+4*4+2*5+2*6)
	assert.Equal(t, 16*4+4*4+4*5+4*4+2*5+2*6, countNamed(pieces, material.WhitePiece)+countNamed(pieces, material.BlackPiece))

	e2, err := board.ParseSquare("e2")
	require.NoError(t, err)
	w.RebuildPieces(b, e2)
	require.Len(t, w.Pieces(), len(pieces)+1)
	assert.Equal(t, 1, countNamed(w.Pieces(), material.PieceSelection))

	var ring *RenderObject
	for _, o := range w.Pieces() {
		if o.Base.Name == material.PieceSelection.Name {
			ring = o
		}
	}
	require.NotNil(t, ring)
	assert.False(t, ring.CastShadow)
	assert.InDelta(t, 0.5, ring.Position.X(), 1e-6)
	assert.InDelta(t, -2.5, ring.Position.Z(), 1e-6)
	assert.InDelta(t, BoardHeight+0.07, ring.Position.Y(), 1e-6)
}

func TestTileMaterialPrecedence(t *testing.T) {
	w := NewWorld(DefaultSeed, BoardHeight, 0)
	sel := board.NewSquare(4, 1)
	target := board.NewSquare(4, 3)
	legal := func(sq board.Square) bool { return sq == target || sq == sel }

	assert.Equal(t, material.PieceSelection, w.TileMaterial(sel, sel, legal))
	assert.Equal(t, material.LegalMarker, w.TileMaterial(target, sel, legal))
	assert.Equal(t, w.Tile(0).Material, w.TileMaterial(0, sel, legal))
	assert.Equal(t, w.Tile(0).Material, w.TileMaterial(0, board.NoSquare, nil))
}

func TestPulseLeavesBaseUntouched(t *testing.T) {
	w := NewWorld(DefaultSeed, BoardHeight, 0)
	strip := w.Static()[1]
	require.True(t, strip.Pulsing())
	base := strip.Base

	w.Pulse(1.3)
	want := material.PulseFactor(1.3, strip.PulseSpeed, strip.PulsePhase, strip.PulseStrength)
	assert.Equal(t, base, strip.Base)
	assert.Equal(t, material.CityNeonCyan, strip.Base)
	assert.InDelta(t, base.Emissive.X()*want, strip.Material.Emissive.X(), 1e-5)
	assert.Equal(t, base.Albedo, strip.Material.Albedo)

	ground := w.Static()[0]
	w.Pulse(2)
	assert.Equal(t, ground.Base, ground.Material)
}

func TestRainStep(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	d := &RainDrop{X: 1, Y: 10, Z: 2, Speed: 10, Drift: 0.5, Length: 0.5}
	d.Object = NewRenderObject(d.Position(), d.Size(), material.RainStreak)

	assert.False(t, d.Step(0.5, rng))
	assert.InDelta(t, 5, d.Y, 1e-6)
	assert.InDelta(t, 1.25, d.X, 1e-6)
	assert.Equal(t, mgl32.Vec3{1.25, 5, 2}, d.Object.Position)
	assert.Equal(t, mgl32.Vec3{rainThickness, 0.5, rainThickness}, d.Object.Scale)

	assert.True(t, d.Step(1, rng))
	assert.GreaterOrEqual(t, d.Y, rainRespawnMin)
	assert.Less(t, d.Y, rainRespawnMax)
	assert.LessOrEqual(t, math32.Abs(d.X), rainBounds)
	assert.LessOrEqual(t, math32.Abs(d.Z), rainBounds)
	assert.Equal(t, d.Position(), d.Object.Position)
}

func TestWorldStepRainRespawns(t *testing.T) {
	w := NewWorld(DefaultSeed, BoardHeight, 50)
	require.Len(t, w.Rain(), 50)
	for _, d := range w.Rain() {
		assert.GreaterOrEqual(t, d.Y, float32(5))
		assert.Less(t, d.Y, float32(25))
	}
	// 3 seconds at 10+ units/s drops everything below the street at least once
	respawned := 0
	for range 30 {
		respawned += w.StepRain(0.1)
	}
	assert.GreaterOrEqual(t, respawned, 50)
	for _, d := range w.Rain() {
		assert.GreaterOrEqual(t, d.Y, rainFloor)
	}
}

func TestDrawListOrderAndCasters(t *testing.T) {
	w := NewWorld(DefaultSeed, BoardHeight, 7)
	b := startingBoard(t)
	w.RebuildPieces(b, board.NoSquare)

	items := w.DrawList(board.NoSquare, nil)
	require.Len(t, items, len(w.Static())+64+len(w.Pieces())+7)
	assert.Equal(t, w.Static()[0].Model, items[0].Model)
	assert.Equal(t, w.Tile(0).Model, items[len(w.Static())].Model)
	assert.Equal(t, w.Pieces()[0].Model, items[len(w.Static())+64].Model)
	assert.Equal(t, material.RainStreak, items[len(items)-1].Material)

	sel := board.NewSquare(4, 1)
	items = w.DrawList(sel, func(sq board.Square) bool { return false })
	assert.Equal(t, material.PieceSelection, items[len(w.Static())+int(sel)].Material)

	staticCasters := 0
	for _, o := range w.Static() {
		if o.CastShadow {
			staticCasters++
		}
	}
	casters := w.ShadowCasters()
	assert.Len(t, casters, staticCasters+64+len(w.Pieces()))
	assert.Equal(t, w.Tile(0).Model, casters[staticCasters])
}
