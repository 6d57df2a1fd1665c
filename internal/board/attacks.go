package board

// Precomputed leaper attack tables (pawn, knight, king), built once at package
// init from explicit file/rank deltas rather than whole-board shifts, so no
// file-wrap masking is needed.
var (
	knightAttacks [NumSquares]Bitboard
	kingAttacks   [NumSquares]Bitboard
	pawnAttacks   [NumColors][NumSquares]Bitboard
)

var knightDeltas = [8][2]int{
	{1, 2}, {2, 1}, {2, -1}, {1, -2},
	{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
}

var kingDeltas = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

var rookDeltas = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
var bishopDeltas = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

func init() {
	for sq := Square(0); sq < NumSquares; sq++ {
		f, r := int(sq.File()), int(sq.Rank())

		var knight, king Bitboard
		for _, d := range knightDeltas {
			if nf, nr := f+d[0], r+d[1]; inBounds(nf, nr) {
				knight = knight.Set(NewSquare(File(nf), Rank(nr)))
			}
		}
		for _, d := range kingDeltas {
			if nf, nr := f+d[0], r+d[1]; inBounds(nf, nr) {
				king = king.Set(NewSquare(File(nf), Rank(nr)))
			}
		}
		knightAttacks[sq] = knight
		kingAttacks[sq] = king

		if r < 7 {
			var w Bitboard
			if f > 0 {
				w = w.Set(NewSquare(File(f-1), Rank(r+1)))
			}
			if f < 7 {
				w = w.Set(NewSquare(File(f+1), Rank(r+1)))
			}
			pawnAttacks[White][sq] = w
		}
		if r > 0 {
			var b Bitboard
			if f > 0 {
				b = b.Set(NewSquare(File(f-1), Rank(r-1)))
			}
			if f < 7 {
				b = b.Set(NewSquare(File(f+1), Rank(r-1)))
			}
			pawnAttacks[Black][sq] = b
		}
	}
}

func inBounds(f, r int) bool {
	return f >= 0 && f < 8 && r >= 0 && r < 8
}

// KnightAttacks returns the knight attack/move mask from sq.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack/move mask from sq.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the diagonal capture mask for a pawn of color c on sq.
func PawnAttacks(c Color, sq Square) Bitboard {
	return pawnAttacks[c][sq]
}

// slidingAttacks walks each ray from sq until the board edge or the first
// occupied square, which is included in the mask; the caller must filter out
// same-side blockers via occupancy. Simple ray-scan, no magic bitboards.
func slidingAttacks(sq Square, occ Bitboard, deltas [4][2]int) Bitboard {
	var attacks Bitboard
	f0, r0 := int(sq.File()), int(sq.Rank())
	for _, d := range deltas {
		f, r := f0+d[0], r0+d[1]
		for inBounds(f, r) {
			t := NewSquare(File(f), Rank(r))
			attacks = attacks.Set(t)
			if occ.IsSet(t) {
				break
			}
			f += d[0]
			r += d[1]
		}
	}
	return attacks
}

// RookAttacks returns the rook attack/move mask from sq given total board occupancy.
func RookAttacks(sq Square, occ Bitboard) Bitboard {
	return slidingAttacks(sq, occ, rookDeltas)
}

// BishopAttacks returns the bishop attack/move mask from sq given total board occupancy.
func BishopAttacks(sq Square, occ Bitboard) Bitboard {
	return slidingAttacks(sq, occ, bishopDeltas)
}

// QueenAttacks returns the queen attack/move mask from sq given total board occupancy.
func QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}
