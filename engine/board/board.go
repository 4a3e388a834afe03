// Package board is the chess collaborator of the renderer: the rules interface it reads,
// an adapter over github.com/notnil/chess, and the click state machine driving selection and moves.
package board

import (
	"errors"
	"fmt"
	"strings"
)

// Square indexes the board file-major from a1 = 0 to h8 = 63.
type Square int

// NoSquare marks an absent square.
const NoSquare Square = -1

// NewSquare returns the square at file and rank, both 0-based.
func NewSquare(file, rank int) Square {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return Square(rank*8 + file)
}

func (s Square) Valid() bool { return s >= 0 && s < 64 }
func (s Square) File() int   { return int(s) % 8 }
func (s Square) Rank() int   { return int(s) / 8 }

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string(rune('a'+s.File())) + string(rune('1'+s.Rank()))
}

// ParseSquare parses algebraic coordinates such as "e4".
func ParseSquare(name string) (Square, error) {
	if len(name) != 2 {
		return NoSquare, fmt.Errorf("board: invalid square %q", name)
	}
	sq := NewSquare(int(name[0]-'a'), int(name[1]-'1'))
	if !sq.Valid() {
		return NoSquare, fmt.Errorf("board: invalid square %q", name)
	}
	return sq, nil
}

// Color is a side.
type Color int

const (
	White Color = iota
	Black
)

func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Title returns the capitalized side name used in status lines.
func (c Color) Title() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// PieceKind is a piece type without color.
type PieceKind int

const (
	NoKind PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindLetters = map[PieceKind]string{Pawn: "p", Knight: "n", Bishop: "b", Rook: "r", Queen: "q", King: "k"}

func (k PieceKind) String() string {
	return kindLetters[k]
}

// Piece is a colored piece. The zero value is no piece.
type Piece struct {
	Kind  PieceKind
	Color Color
}

func (p Piece) Empty() bool { return p.Kind == NoKind }

// Move is a from/to pair with an optional promotion.
type Move struct {
	From      Square
	To        Square
	Promotion PieceKind
}

// UCI returns the move in long algebraic notation, e.g. "e7e8q".
func (m Move) UCI() string {
	return m.From.String() + m.To.String() + m.Promotion.String()
}

func (m Move) String() string { return m.UCI() }

// ParseUCI parses a move in long algebraic notation.
func ParseUCI(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("board: invalid uci move %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("board: invalid uci move %q: %w", s, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("board: invalid uci move %q: %w", s, err)
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		for kind, letter := range kindLetters {
			if letter == s[4:] && kind != Pawn && kind != King {
				m.Promotion = kind
			}
		}
		if m.Promotion == NoKind {
			return Move{}, fmt.Errorf("board: invalid promotion in %q", s)
		}
	}
	return m, nil
}

// Termination is how a game ended.
type Termination int

const (
	NotOver Termination = iota
	Checkmate
	Stalemate
	Draw
)

// Outcome summarises a finished or ongoing game. Winner is meaningful only for Checkmate.
type Outcome struct {
	Termination Termination
	Winner      Color
}

var (
	// ErrGameOver is returned for input arriving after the game has ended.
	ErrGameOver = errors.New("board: game is over")

	// ErrIllegalMove is returned when a move is not legal in the current position.
	ErrIllegalMove = errors.New("board: illegal move")
)

// Board is the rules collaborator. Implementations own legality; callers only observe and push.
type Board interface {
	// Turn returns the side to move.
	Turn() Color

	// PieceAt returns the piece on sq, or the zero Piece.
	PieceAt(sq Square) Piece

	// LegalMoves returns every legal move in the current position.
	LegalMoves() []Move

	// LegalMovesFrom returns the legal moves starting on sq.
	LegalMovesFrom(sq Square) []Move

	// IsLegal reports whether m is legal in the current position.
	IsLegal(m Move) bool

	// IsCapture reports whether the legal move m takes a piece, en passant included.
	IsCapture(m Move) bool

	// Push plays m, returning ErrIllegalMove if it is not legal.
	Push(m Move) error

	IsGameOver() bool
	IsCheck() bool
	Outcome() Outcome

	// Reset restores the starting position.
	Reset()

	// SetFEN replaces the position.
	SetFEN(fen string) error

	// FEN returns the current position in Forsyth-Edwards notation.
	FEN() string
}
