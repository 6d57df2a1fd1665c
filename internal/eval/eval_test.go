package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talonchess/talon/internal/board"
	"github.com/talonchess/talon/internal/eval"
	"github.com/talonchess/talon/internal/fen"
)

func TestEvaluateSymmetricStartingPositionIsZero(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := board.NewBoard(zt)
	require.NoError(t, fen.Load(b, fen.Initial))

	assert.Equal(t, eval.Score(0), eval.Evaluate(b))
}

func TestEvaluateFavorsMaterialAdvantage(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := board.NewBoard(zt)
	require.NoError(t, b.Reset([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.D1, Color: board.White, Piece: board.Queen},
	}, board.White, 0, board.NoSquare, 0, 1))

	assert.Greater(t, int(eval.Evaluate(b)), 800)
}

func TestEvaluateIsAntisymmetricUnderSideToMove(t *testing.T) {
	zt := board.NewZobristTable(1)
	white := board.NewBoard(zt)
	require.NoError(t, white.Reset([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.D1, Color: board.White, Piece: board.Rook},
	}, board.White, 0, board.NoSquare, 0, 1))

	black := board.NewBoard(zt)
	require.NoError(t, black.Reset([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.D1, Color: board.White, Piece: board.Rook},
	}, board.Black, 0, board.NoSquare, 0, 1))

	assert.Equal(t, eval.Evaluate(white), -eval.Evaluate(black))
}

func TestMaterialValueOrdering(t *testing.T) {
	assert.Less(t, eval.MaterialValue(board.Pawn), eval.MaterialValue(board.Knight))
	assert.Less(t, eval.MaterialValue(board.Bishop), eval.MaterialValue(board.Rook))
	assert.Less(t, eval.MaterialValue(board.Rook), eval.MaterialValue(board.Queen))
	assert.Less(t, eval.MaterialValue(board.Queen), eval.MaterialValue(board.King))
}
