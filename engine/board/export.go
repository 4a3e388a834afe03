package board

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Payload is the JSON snapshot of a game consumed by external front ends.
type Payload struct {
	FEN            string   `json:"fen"`
	Turn           string   `json:"turn"`
	SelectedSquare *string  `json:"selected_square"`
	LegalTargets   []string `json:"legal_targets"`
	IsGameOver     bool     `json:"is_game_over"`
	StatusText     string   `json:"status_text"`
	ScoreText      string   `json:"score_text"`
	LegalMovesUCI  []string `json:"legal_moves_uci"`
}

// Export snapshots the game state.
func (g *GameState) Export() Payload {
	b := g.board
	p := Payload{
		FEN:           b.FEN(),
		Turn:          b.Turn().String(),
		LegalTargets:  []string{},
		IsGameOver:    b.IsGameOver(),
		StatusText:    StatusText(b),
		ScoreText:     ScoreText(b),
		LegalMovesUCI: []string{},
	}
	if sel := g.Selected(); sel != NoSquare {
		name := sel.String()
		p.SelectedSquare = &name
	}
	for _, sq := range g.LegalTargets() {
		p.LegalTargets = append(p.LegalTargets, sq.String())
	}
	for _, m := range b.LegalMoves() {
		p.LegalMovesUCI = append(p.LegalMovesUCI, m.UCI())
	}
	slices.Sort(p.LegalMovesUCI)
	return p
}

// MarshalIndent encodes the payload with two-space indentation.
func (p Payload) MarshalIndent() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("board: encode payload: %w", err)
	}
	return data, nil
}

// ParseMoveList splits a comma separated UCI list, dropping empty entries.
func ParseMoveList(raw string) []string {
	var moves []string
	for _, tok := range strings.Split(raw, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			moves = append(moves, tok)
		}
	}
	return moves
}

// ApplyUCI plays moves on b in order. Indices in errors are 1-based.
func ApplyUCI(b Board, moves []string) error {
	for i, s := range moves {
		m, err := ParseUCI(s)
		if err != nil {
			return fmt.Errorf("invalid uci move at index %d: %s: %w", i+1, s, err)
		}
		if !b.IsLegal(m) {
			return fmt.Errorf("%w at index %d: %s on position %s", ErrIllegalMove, i+1, s, b.FEN())
		}
		if err := b.Push(m); err != nil {
			return fmt.Errorf("move at index %d: %w", i+1, err)
		}
	}
	return nil
}
