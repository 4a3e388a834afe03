package board

// ChessBoardBuilderOption is a function that configures a chessBoard during construction via NewChessBoard.
type ChessBoardBuilderOption func(*chessBoard)

// WithFEN starts the board from a position instead of the standard setup.
//
// Parameters:
//   - fen: the position in Forsyth-Edwards notation
//
// Returns:
//   - ChessBoardBuilderOption: a function that applies the position option to a board
func WithFEN(fen string) ChessBoardBuilderOption {
	return func(b *chessBoard) {
		b.fen = fen
	}
}
