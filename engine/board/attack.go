package board

import "github.com/notnil/chess"

var (
	knightSteps   = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps     = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	straightSteps = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonalSteps = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// inCheck reports whether the side to move has its king attacked.
func inCheck(pos *chess.Position) bool {
	us := pos.Turn()
	bd := pos.Board()
	for sq, p := range bd.SquareMap() {
		if p.Type() == chess.King && p.Color() == us {
			return attacked(bd, sq, us.Other())
		}
	}
	return false
}

// attacked reports whether any piece of color by attacks sq.
func attacked(bd *chess.Board, sq chess.Square, by chess.Color) bool {
	f, r := int(sq.File()), int(sq.Rank())
	at := func(df, dr int) chess.Piece {
		nf, nr := f+df, r+dr
		if nf < 0 || nf > 7 || nr < 0 || nr > 7 {
			return chess.NoPiece
		}
		return bd.Piece(chess.Square(nr*8 + nf))
	}
	is := func(p chess.Piece, kinds ...chess.PieceType) bool {
		if p == chess.NoPiece || p.Color() != by {
			return false
		}
		for _, k := range kinds {
			if p.Type() == k {
				return true
			}
		}
		return false
	}

	for _, s := range knightSteps {
		if is(at(s[0], s[1]), chess.Knight) {
			return true
		}
	}
	for _, s := range kingSteps {
		if is(at(s[0], s[1]), chess.King) {
			return true
		}
	}

	// pawns attack toward the opponent
	dr := -1
	if by == chess.Black {
		dr = 1
	}
	if is(at(-1, dr), chess.Pawn) || is(at(1, dr), chess.Pawn) {
		return true
	}

	slide := func(steps [4][2]int, kinds ...chess.PieceType) bool {
		for _, s := range steps {
			for n := 1; n < 8; n++ {
				nf, nr := f+s[0]*n, r+s[1]*n
				if nf < 0 || nf > 7 || nr < 0 || nr > 7 {
					break
				}
				p := bd.Piece(chess.Square(nr*8 + nf))
				if p == chess.NoPiece {
					continue
				}
				if is(p, kinds...) {
					return true
				}
				break
			}
		}
		return false
	}
	return slide(straightSteps, chess.Rook, chess.Queen) || slide(diagonalSteps, chess.Bishop, chess.Queen)
}

// insufficientMaterial reports bare kings, or kings with a single minor piece.
func insufficientMaterial(bd *chess.Board) bool {
	minors := 0
	for _, p := range bd.SquareMap() {
		switch p.Type() {
		case chess.King:
		case chess.Knight, chess.Bishop:
			minors++
		default:
			return false
		}
	}
	return minors <= 1
}
