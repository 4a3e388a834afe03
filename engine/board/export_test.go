package board

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportInitial(t *testing.T) {
	p := newGame(t).Export()
	assert.Equal(t, StartingFEN, p.FEN)
	assert.Equal(t, "white", p.Turn)
	assert.Nil(t, p.SelectedSquare)
	assert.Empty(t, p.LegalTargets)
	assert.False(t, p.IsGameOver)
	assert.Len(t, p.LegalMovesUCI, 20)
	assert.IsNonDecreasing(t, p.LegalMovesUCI)

	data, err := p.MarshalIndent()
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Nil(t, raw["selected_square"])
	assert.Equal(t, []any{}, raw["legal_targets"])
	assert.Equal(t, "White to move", raw["status_text"])
}

func TestExportSelectionAndTurn(t *testing.T) {
	g := newGame(t)
	_, _ = click(t, g, "e2")
	p := g.Export()
	require.NotNil(t, p.SelectedSquare)
	assert.Equal(t, "e2", *p.SelectedSquare)
	assert.Equal(t, []string{"e3", "e4"}, p.LegalTargets)

	_, _ = click(t, g, "e4")
	assert.Equal(t, "black", g.Export().Turn)
}

func TestApplyUCI(t *testing.T) {
	b := newBoard(t)
	require.NoError(t, ApplyUCI(b, ParseMoveList(" e2e4, e7e5 ,,g1f3")))
	assert.Equal(t, Black, b.Turn())
	assert.Equal(t, Piece{Kind: Knight, Color: White}, b.PieceAt(sq(t, "f3")))

	err := ApplyUCI(newBoard(t), []string{"e2e4", "e2e4"})
	assert.ErrorIs(t, err, ErrIllegalMove)
	assert.ErrorContains(t, err, "index 2")

	err = ApplyUCI(newBoard(t), []string{"zz"})
	assert.ErrorContains(t, err, "index 1")
}

func TestParseMoveListEmpty(t *testing.T) {
	assert.Nil(t, ParseMoveList("  "))
}
