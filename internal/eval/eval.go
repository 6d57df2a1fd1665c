// Package eval scores a position in centipawns from the side-to-move
// perspective: material plus piece-square tables.
package eval

import "github.com/talonchess/talon/internal/board"

// Score is a signed centipawn evaluation. Positive favors the side to move.
type Score int32

const (
	// Mate is the base magnitude used to encode forced-mate scores: a mate
	// found at ply p is reported as Mate-p, so shorter mates always outscore
	// longer ones.
	Mate Score = 1000000
	Inf  Score = Mate + 1
	Draw Score = 0
)

// MaterialValue is the nominal value of a piece type in centipawns.
func MaterialValue(p board.Piece) Score {
	switch p {
	case board.Pawn:
		return 100
	case board.Knight:
		return 320
	case board.Bishop:
		return 330
	case board.Rook:
		return 500
	case board.Queen:
		return 900
	case board.King:
		return 20000
	default:
		return 0
	}
}

// psqt tables are written rank-8-down-to-rank-1, a-to-h across, matching the
// conventional layout these values are always quoted in.
var pawnPSQT = visualTable([64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
})

var knightPSQT = visualTable([64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
})

var bishopPSQT = visualTable([64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
})

var rookPSQT = visualTable([64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
})

var queenPSQT = visualTable([64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
})

var kingMidgamePSQT = visualTable([64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
})

// visualTable converts a rank-8-first, file-a-first flat array into one
// indexed by Square (a1=0 .. h8=63).
func visualTable(v [64]int) [64]Score {
	var out [64]Score
	for rank := board.Rank(0); rank < board.NumRanks; rank++ {
		for file := board.File(0); file < board.NumFiles; file++ {
			sq := board.NewSquare(file, rank)
			out[sq] = Score(v[int(7-rank)*8+int(file)])
		}
	}
	return out
}

func psqt(p board.Piece, c board.Color, sq board.Square) Score {
	// mirror() flips the square's rank for Black, so every table is written
	// once from White's perspective.
	if c == board.Black {
		sq = mirror(sq)
	}
	switch p {
	case board.Pawn:
		return pawnPSQT[sq]
	case board.Knight:
		return knightPSQT[sq]
	case board.Bishop:
		return bishopPSQT[sq]
	case board.Rook:
		return rookPSQT[sq]
	case board.Queen:
		return queenPSQT[sq]
	case board.King:
		return kingMidgamePSQT[sq]
	default:
		return 0
	}
}

// mirror flips a square's rank, leaving its file unchanged: a1 <-> a8, e4 <-> e5.
func mirror(sq board.Square) board.Square {
	return sq ^ 56
}

func sideScore(b *board.Board, c board.Color) Score {
	var s Score
	for p := board.Piece(board.Pawn); p <= board.King; p++ {
		bb := b.Pieces(c, p)
		count := bb.PopCount()
		s += Score(count) * MaterialValue(p)
		for bb != 0 {
			var sq board.Square
			sq, bb = bb.PopLSB()
			s += psqt(p, c, sq)
		}
	}
	return s
}

// Evaluate scores b from the side-to-move's perspective: own total minus
// opponent total, each the sum over all six piece types of count times
// material value plus the per-square table contribution.
func Evaluate(b *board.Board) Score {
	side := b.SideToMove()
	return sideScore(b, side) - sideScore(b, side.Opponent())
}
