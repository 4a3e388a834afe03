package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGame(t *testing.T, options ...ChessBoardBuilderOption) *GameState {
	t.Helper()
	return NewGameState(newBoard(t, options...))
}

func click(t *testing.T, g *GameState, name string) (Update, error) {
	t.Helper()
	return g.Click(sq(t, name))
}

func TestSelection(t *testing.T) {
	g := newGame(t)

	u, err := click(t, g, "e2")
	require.NoError(t, err)
	assert.True(t, u.SelectionChanged)
	assert.Equal(t, sq(t, "e2"), u.Focus)
	assert.Equal(t, sq(t, "e2"), g.Selected())
	assert.Equal(t, []Square{sq(t, "e3"), sq(t, "e4")}, g.LegalTargets())
	assert.True(t, g.IsLegalTarget(sq(t, "e4")))
	assert.False(t, g.IsLegalTarget(sq(t, "e5")))

	u, err = click(t, g, "d2")
	require.NoError(t, err)
	assert.True(t, u.SelectionChanged)
	assert.Equal(t, sq(t, "d2"), g.Selected())
}

func TestClicksThatDoNothing(t *testing.T) {
	g := newGame(t)
	for _, name := range []string{"e7", "e4"} {
		u, err := click(t, g, name)
		require.NoError(t, err)
		assert.Equal(t, noUpdate(), u, name)
		assert.Equal(t, NoSquare, g.Selected())
	}
	for _, s := range []Square{-1, 64, 999} {
		u, err := g.Click(s)
		require.NoError(t, err)
		assert.Equal(t, noUpdate(), u)
	}
	assert.Empty(t, g.LegalTargets())
}

func TestMoveCommits(t *testing.T) {
	g := newGame(t)
	_, err := click(t, g, "e2")
	require.NoError(t, err)
	u, err := click(t, g, "e4")
	require.NoError(t, err)

	assert.True(t, u.Moved)
	assert.True(t, u.BoardChanged)
	assert.True(t, u.RefreshTurnPose)
	assert.False(t, u.Captured)
	assert.Equal(t, NoSquare, u.Focus)
	assert.Equal(t, Black, g.Board().Turn())
	assert.Equal(t, NoSquare, g.Selected())
	assert.Empty(t, g.LegalTargets())
}

func TestIllegalMoveDeselects(t *testing.T) {
	g := newGame(t)
	_, err := click(t, g, "e2")
	require.NoError(t, err)
	u, err := click(t, g, "e5")
	assert.ErrorIs(t, err, ErrIllegalMove)
	assert.True(t, u.SelectionChanged)
	assert.True(t, u.RefreshTurnPose)
	assert.False(t, u.Moved)
	assert.Equal(t, NoSquare, g.Selected())
	assert.Equal(t, White, g.Board().Turn())
}

func TestCaptureFlags(t *testing.T) {
	g := newGame(t, WithFEN("rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2"))
	_, err := click(t, g, "e4")
	require.NoError(t, err)
	u, err := click(t, g, "d5")
	require.NoError(t, err)
	assert.True(t, u.Captured)
	assert.True(t, u.Moved)

	ep := newGame(t, WithFEN("rnbqkbnr/pppp1ppp/8/4pP2/8/8/PPPPP1PP/RNBQKBNR w KQkq e6 0 3"))
	_, err = click(t, ep, "f5")
	require.NoError(t, err)
	u, err = click(t, ep, "e6")
	require.NoError(t, err)
	assert.True(t, u.Captured)
}

func TestAutoPromotion(t *testing.T) {
	g := newGame(t, WithFEN("8/4P3/8/8/8/8/8/4K2k w - - 0 1"))
	_, err := click(t, g, "e7")
	require.NoError(t, err)
	u, err := click(t, g, "e8")
	require.NoError(t, err)
	assert.True(t, u.Moved)
	assert.Equal(t, Piece{Kind: Queen, Color: White}, g.Board().PieceAt(sq(t, "e8")))
}

func TestGameOverBlocksClicks(t *testing.T) {
	g := newGame(t, WithFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"))
	u, err := click(t, g, "e2")
	assert.ErrorIs(t, err, ErrGameOver)
	assert.Equal(t, noUpdate(), u)

	_, err = g.PlayFirstLegal()
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestReset(t *testing.T) {
	g := newGame(t)
	_, _ = click(t, g, "e2")
	_, _ = click(t, g, "e4")
	_, _ = click(t, g, "e7")

	u := g.Reset()
	assert.True(t, u.BoardChanged)
	assert.True(t, u.SelectionChanged)
	assert.True(t, u.RefreshTurnPose)
	assert.Equal(t, StartingFEN, g.Board().FEN())
	assert.Equal(t, NoSquare, g.Selected())
	assert.Empty(t, g.LegalTargets())
}

func TestPlayFirstLegal(t *testing.T) {
	g := newGame(t)
	_, _ = click(t, g, "e2")

	u, err := g.PlayFirstLegal()
	require.NoError(t, err)
	assert.True(t, u.Moved)
	assert.Equal(t, NoSquare, g.Selected())
	// "a2a3" sorts first among the opening moves
	assert.True(t, g.Board().PieceAt(sq(t, "a2")).Empty())
	assert.Equal(t, Piece{Kind: Pawn, Color: White}, g.Board().PieceAt(sq(t, "a3")))
}
