package board

import (
	"errors"
	"slices"
	"sync"
)

// Update describes what a GameState transition changed, so the renderer knows what to rebuild.
type Update struct {
	BoardChanged     bool
	SelectionChanged bool
	Moved            bool
	Captured         bool
	RefreshTurnPose  bool

	// Focus is the square to frame, NoSquare when the camera should return to the board center.
	Focus Square
}

func noUpdate() Update {
	return Update{Focus: NoSquare}
}

// GameState is the click state machine over a Board: a selected square and the legal targets from it.
type GameState struct {
	mu *sync.Mutex

	board    Board
	selected Square
	targets  []Square
}

// NewGameState wraps b with an empty selection.
func NewGameState(b Board) *GameState {
	return &GameState{mu: &sync.Mutex{}, board: b, selected: NoSquare}
}

// Board returns the rules collaborator.
func (g *GameState) Board() Board {
	return g.board
}

// Selected returns the selected square, or NoSquare.
func (g *GameState) Selected() Square {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selected
}

// LegalTargets returns the destinations of the selected piece in ascending order.
func (g *GameState) LegalTargets() []Square {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.targets)
}

// IsLegalTarget reports whether sq is a destination of the selected piece.
func (g *GameState) IsLegalTarget(sq Square) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := slices.BinarySearch(g.targets, sq)
	return ok
}

// Reset restores the starting position and clears the selection.
func (g *GameState) Reset() Update {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.board.Reset()
	g.clearSelection()
	u := noUpdate()
	u.BoardChanged, u.SelectionChanged, u.RefreshTurnPose = true, true, true
	return u
}

// Click advances the machine for a click on sq.
//
// Clicking a piece of the side to move selects it. With a selection, any other square attempts the move,
// retrying as a queen promotion when a pawn reaches the last rank. Invalid squares are ignored.
//
// Parameters:
//   - sq: the clicked square
//
// Returns:
//   - Update: what changed
//   - error: ErrGameOver after the game ended, ErrIllegalMove when an attempted move was rejected
func (g *GameState) Click(sq Square) (Update, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.board.IsGameOver() {
		return noUpdate(), ErrGameOver
	}
	if !sq.Valid() {
		return noUpdate(), nil
	}

	clicked := g.board.PieceAt(sq)
	turn := g.board.Turn()
	if !clicked.Empty() && clicked.Color == turn {
		g.selectSquare(sq)
		u := noUpdate()
		u.SelectionChanged, u.Focus = true, sq
		return u, nil
	}
	if g.selected == NoSquare {
		return noUpdate(), nil
	}

	move := Move{From: g.selected, To: sq}
	if !g.board.IsLegal(move) {
		if p := g.board.PieceAt(g.selected); p.Kind == Pawn && (sq.Rank() == 0 || sq.Rank() == 7) {
			move.Promotion = Queen
		}
	}

	u, err := g.commit(move)
	if errors.Is(err, ErrIllegalMove) {
		g.clearSelection()
		u = noUpdate()
		u.SelectionChanged, u.RefreshTurnPose = true, true
	}
	return u, err
}

// PlayFirstLegal plays the first legal move in UCI order, clearing any selection.
//
// Returns:
//   - Update: what changed
//   - error: ErrGameOver when no move is available
func (g *GameState) PlayFirstLegal() (Update, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.board.IsGameOver() {
		return noUpdate(), ErrGameOver
	}
	moves := g.board.LegalMoves()
	if len(moves) == 0 {
		return noUpdate(), ErrGameOver
	}
	slices.SortFunc(moves, func(a, b Move) int {
		switch {
		case a.UCI() < b.UCI():
			return -1
		case a.UCI() > b.UCI():
			return 1
		}
		return 0
	})
	return g.commit(moves[0])
}

// commit plays move if legal. Caller holds mu.
func (g *GameState) commit(move Move) (Update, error) {
	if !g.board.IsLegal(move) {
		return noUpdate(), ErrIllegalMove
	}
	captured := g.board.IsCapture(move)
	if err := g.board.Push(move); err != nil {
		return noUpdate(), err
	}
	g.clearSelection()
	u := noUpdate()
	u.BoardChanged, u.SelectionChanged, u.Moved, u.Captured, u.RefreshTurnPose = true, true, true, captured, true
	return u, nil
}

func (g *GameState) selectSquare(sq Square) {
	g.selected = sq
	g.targets = g.targets[:0]
	for _, m := range g.board.LegalMovesFrom(sq) {
		if _, ok := slices.BinarySearch(g.targets, m.To); !ok {
			g.targets = append(g.targets, m.To)
			slices.Sort(g.targets)
		}
	}
}

func (g *GameState) clearSelection() {
	g.selected = NoSquare
	g.targets = nil
}
