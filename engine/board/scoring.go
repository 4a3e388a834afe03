package board

import "fmt"

// StartingMaterial is the material of one side in the initial position.
const StartingMaterial = 39

// PieceValues are the conventional material values. The king counts zero.
var PieceValues = map[PieceKind]int{
	Pawn:   1,
	Knight: 3,
	Bishop: 3,
	Rook:   5,
	Queen:  9,
	King:   0,
}

// Score is a material snapshot of a position.
type Score struct {
	WhiteMaterial int
	BlackMaterial int
	WhiteCaptured int
	BlackCaptured int
	Advantage     int
}

// ScoreOf counts material in one pass over the board.
func ScoreOf(b Board) Score {
	var white, black int
	for sq := Square(0); sq < 64; sq++ {
		p := b.PieceAt(sq)
		if p.Empty() {
			continue
		}
		if p.Color == White {
			white += PieceValues[p.Kind]
		} else {
			black += PieceValues[p.Kind]
		}
	}
	return Score{
		WhiteMaterial: white,
		BlackMaterial: black,
		WhiteCaptured: max(0, StartingMaterial-black),
		BlackCaptured: max(0, StartingMaterial-white),
		Advantage:     white - black,
	}
}

func (s Score) String() string {
	eval := "Even"
	switch {
	case s.Advantage > 0:
		eval = fmt.Sprintf("White +%d", s.Advantage)
	case s.Advantage < 0:
		eval = fmt.Sprintf("Black +%d", -s.Advantage)
	}
	return fmt.Sprintf("Mat W:%d B:%d | Caps W:%d B:%d | %s",
		s.WhiteMaterial, s.BlackMaterial, s.WhiteCaptured, s.BlackCaptured, eval)
}

// StatusText describes whose turn it is or how the game ended.
func StatusText(b Board) string {
	o := b.Outcome()
	switch o.Termination {
	case Checkmate:
		return "Checkmate | " + o.Winner.Title() + " wins"
	case Stalemate:
		return "Stalemate"
	case Draw:
		return "Draw"
	}
	text := b.Turn().Title() + " to move"
	if b.IsCheck() {
		text += " (Check)"
	}
	return text
}

// ScoreText is the material line shown beside the status.
func ScoreText(b Board) string {
	return ScoreOf(b).String()
}
