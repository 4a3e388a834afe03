package board

import (
	"fmt"
	"sync"

	"github.com/notnil/chess"
)

// StartingFEN is the standard initial position.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// chessBoard is the implementation of the Board interface over a notnil/chess game.
type chessBoard struct {
	mu   *sync.Mutex
	game *chess.Game

	fen string
}

var _ Board = &chessBoard{}

// NewChessBoard creates a Board backed by github.com/notnil/chess.
//
// Parameters:
//   - options: variadic list of ChessBoardBuilderOption functions
//
// Returns:
//   - Board: the board at the configured position
//   - error: an error if the configured FEN cannot be parsed
func NewChessBoard(options ...ChessBoardBuilderOption) (Board, error) {
	b := &chessBoard{mu: &sync.Mutex{}}
	for _, opt := range options {
		opt(b)
	}
	if b.fen == "" {
		b.game = chess.NewGame()
		return b, nil
	}
	if err := b.SetFEN(b.fen); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *chessBoard) SetFEN(fen string) error {
	opt, err := chess.FEN(fen)
	if err != nil {
		return fmt.Errorf("board: invalid fen %q: %w", fen, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.game = chess.NewGame(opt)
	b.fen = fen
	return nil
}

func (b *chessBoard) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.game = chess.NewGame()
	b.fen = ""
}

func (b *chessBoard) FEN() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.game.Position().String()
}

func (b *chessBoard) Turn() Color {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fromColor(b.game.Position().Turn())
}

func (b *chessBoard) PieceAt(sq Square) Piece {
	if !sq.Valid() {
		return Piece{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return fromPiece(b.game.Position().Board().Piece(chess.Square(sq)))
}

func (b *chessBoard) LegalMoves() []Move {
	b.mu.Lock()
	defer b.mu.Unlock()
	valid := b.game.ValidMoves()
	moves := make([]Move, 0, len(valid))
	for _, m := range valid {
		moves = append(moves, fromMove(m))
	}
	return moves
}

func (b *chessBoard) LegalMovesFrom(sq Square) []Move {
	var moves []Move
	for _, m := range b.LegalMoves() {
		if m.From == sq {
			moves = append(moves, m)
		}
	}
	return moves
}

func (b *chessBoard) IsLegal(m Move) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.find(m) != nil
}

func (b *chessBoard) IsCapture(m Move) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	valid := b.find(m)
	if valid == nil {
		return false
	}
	if valid.HasTag(chess.Capture) || valid.HasTag(chess.EnPassant) {
		return true
	}
	return b.game.Position().Board().Piece(valid.S2()) != chess.NoPiece
}

func (b *chessBoard) Push(m Move) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	valid := b.find(m)
	if valid == nil {
		return fmt.Errorf("%w: %s", ErrIllegalMove, m.UCI())
	}
	if err := b.game.Move(valid); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrIllegalMove, m.UCI(), err)
	}
	return nil
}

func (b *chessBoard) IsGameOver() bool {
	return b.Outcome().Termination != NotOver
}

func (b *chessBoard) IsCheck() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return inCheck(b.game.Position())
}

func (b *chessBoard) Outcome() Outcome {
	b.mu.Lock()
	defer b.mu.Unlock()
	pos := b.game.Position()
	loser := fromColor(pos.Turn())

	method := b.game.Method()
	if b.game.Outcome() == chess.NoOutcome {
		// claimable draws are not automatic; only the position status ends the game here
		method = pos.Status()
	}
	switch method {
	case chess.Checkmate:
		return Outcome{Termination: Checkmate, Winner: loser.Other()}
	case chess.Stalemate:
		return Outcome{Termination: Stalemate}
	case chess.InsufficientMaterial, chess.SeventyFiveMoveRule, chess.FivefoldRepetition:
		return Outcome{Termination: Draw}
	}
	if insufficientMaterial(pos.Board()) {
		return Outcome{Termination: Draw}
	}
	return Outcome{Termination: NotOver}
}

// find returns the legal move matching m. Caller holds mu.
func (b *chessBoard) find(m Move) *chess.Move {
	for _, v := range b.game.ValidMoves() {
		if Square(v.S1()) == m.From && Square(v.S2()) == m.To && fromKind(v.Promo()) == m.Promotion {
			return v
		}
	}
	return nil
}

func fromColor(c chess.Color) Color {
	if c == chess.Black {
		return Black
	}
	return White
}

func fromKind(t chess.PieceType) PieceKind {
	switch t {
	case chess.Pawn:
		return Pawn
	case chess.Knight:
		return Knight
	case chess.Bishop:
		return Bishop
	case chess.Rook:
		return Rook
	case chess.Queen:
		return Queen
	case chess.King:
		return King
	}
	return NoKind
}

func fromPiece(p chess.Piece) Piece {
	if p == chess.NoPiece {
		return Piece{}
	}
	return Piece{Kind: fromKind(p.Type()), Color: fromColor(p.Color())}
}

func fromMove(m *chess.Move) Move {
	return Move{From: Square(m.S1()), To: Square(m.S2()), Promotion: fromKind(m.Promo())}
}
