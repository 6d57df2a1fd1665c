// Package board implements the bitboard position representation, pseudo-legal
// move generation, and make/unmake move application for a chess position.
package board

import "fmt"

// Placement describes a single piece sitting on a square, used to initialize
// a Board from a decoded FEN or a hand-built test position.
type Placement struct {
	Square Square
	Color  Color
	Piece  Piece
}

// occupant is a per-square mailbox cache kept in sync with the piece
// bitboards, so callers don't need to probe all 6 piece masks to answer
// "what's on e4?".
type occupant struct {
	color Color
	piece Piece // NoPiece if the square is empty
}

// undo captures everything needed to restore a Board to the state it had
// immediately before a given move was made.
type undo struct {
	move         Move
	prevCastling Castling
	prevEP       Square
	prevHalfmove int
	prevFullmove int
	prevHash     ZobristHash
}

// Board is the single mutable chess position: piece-set bitboards per side,
// occupancy, side to move, castling rights, en-passant target, halfmove and
// fullmove counters, an incrementally maintained Zobrist hash, and an
// append-only undo stack. Not safe for concurrent use: a searcher may read it
// only while the owning goroutine is not mutating it.
type Board struct {
	zt *ZobristTable

	pieces    [NumColors][NumPieces]Bitboard
	occupancy [NumColors]Bitboard
	all       Bitboard
	squares   [NumSquares]occupant

	sideToMove      Color
	castlingRights  Castling
	epTarget        Square
	halfmoveClock   int
	fullmoveCounter int
	hash            ZobristHash

	history     []undo
	repetitions map[ZobristHash]int
}

// NewBoard returns an empty board bound to the given Zobrist table. Call
// Reset to populate it with a position before use.
func NewBoard(zt *ZobristTable) *Board {
	b := &Board{zt: zt}
	b.Reset(nil, White, 0, NoSquare, 0, 1)
	return b
}

// Reset re-initializes the board to the given position, discarding all
// history. Returns an error if the placements violate the basic invariants
// (exactly one king per side, kings not adjacent).
func (b *Board) Reset(pieces []Placement, turn Color, castling Castling, ep Square, halfmove, fullmove int) error {
	*b = Board{
		zt:              b.zt,
		sideToMove:      turn,
		castlingRights:  castling,
		epTarget:        ep,
		halfmoveClock:   halfmove,
		fullmoveCounter: fullmove,
		repetitions:     map[ZobristHash]int{},
	}

	seen := map[Square]bool{}
	for _, p := range pieces {
		if seen[p.Square] {
			return fmt.Errorf("duplicate placement on %v", p.Square)
		}
		seen[p.Square] = true
		b.place(p.Color, p.Piece, p.Square)
	}

	if b.pieces[White][King].PopCount() != 1 {
		return fmt.Errorf("invalid number of white kings: %v", b.pieces[White][King].PopCount())
	}
	if b.pieces[Black][King].PopCount() != 1 {
		return fmt.Errorf("invalid number of black kings: %v", b.pieces[Black][King].PopCount())
	}
	if KingAttacks(b.KingSquare(White))&b.pieces[Black][King] != 0 {
		return fmt.Errorf("kings cannot be adjacent")
	}

	b.hash = b.computeHash()
	b.repetitions[b.hash] = 1
	return nil
}

// computeHash recomputes the Zobrist hash from scratch. Used at Reset and by
// tests asserting that the incremental updates never drift.
func (b *Board) computeHash() ZobristHash {
	var h ZobristHash
	for c := Color(0); c < NumColors; c++ {
		for p := Piece(Pawn); p <= King; p++ {
			bb := b.pieces[c][p]
			for bb != 0 {
				var sq Square
				sq, bb = bb.PopLSB()
				h ^= b.zt.Piece(c, p, sq)
			}
		}
	}
	h ^= b.zt.Castling(b.castlingRights)
	if b.epTarget.IsValid() {
		h ^= b.zt.EnPassant(b.epTarget)
	}
	h ^= b.zt.Turn(b.sideToMove)
	return h
}

func (b *Board) SideToMove() Color          { return b.sideToMove }
func (b *Board) CastlingRights() Castling   { return b.castlingRights }
func (b *Board) EnPassant() Square          { return b.epTarget }
func (b *Board) HalfmoveClock() int         { return b.halfmoveClock }
func (b *Board) FullmoveCounter() int       { return b.fullmoveCounter }
func (b *Board) Hash() ZobristHash          { return b.hash }
func (b *Board) Occupancy(c Color) Bitboard { return b.occupancy[c] }
func (b *Board) AllOccupied() Bitboard      { return b.all }
func (b *Board) Pieces(c Color, p Piece) Bitboard {
	return b.pieces[c][p]
}

// KingSquare returns the square of c's king. Exactly one bit is set in every
// reachable position.
func (b *Board) KingSquare(c Color) Square {
	return b.pieces[c][King].LSB()
}

// PieceAt returns the occupant of sq, if any.
func (b *Board) PieceAt(sq Square) (Color, Piece, bool) {
	o := b.squares[sq]
	return o.color, o.piece, o.piece != NoPiece
}

// IsAttacked reports whether sq is attacked by any piece of color `by`.
func (b *Board) IsAttacked(sq Square, by Color) bool {
	if KnightAttacks(sq)&b.pieces[by][Knight] != 0 {
		return true
	}
	if KingAttacks(sq)&b.pieces[by][King] != 0 {
		return true
	}
	if bishops := b.pieces[by][Bishop] | b.pieces[by][Queen]; bishops != 0 && BishopAttacks(sq, b.all)&bishops != 0 {
		return true
	}
	if rooks := b.pieces[by][Rook] | b.pieces[by][Queen]; rooks != 0 && RookAttacks(sq, b.all)&rooks != 0 {
		return true
	}
	return PawnAttacks(by.Opponent(), sq)&b.pieces[by][Pawn] != 0
}

// IsInCheck reports whether c's king is currently attacked.
func (b *Board) IsInCheck(c Color) bool {
	return b.IsAttacked(b.KingSquare(c), c.Opponent())
}

// IsFiftyMoveDraw reports whether the 50-move (100-ply) rule allows claiming
// a draw at the current position.
func (b *Board) IsFiftyMoveDraw() bool {
	return b.halfmoveClock >= 100
}

// IsRepetitionDraw reports whether the current position has occurred three
// or more times in the game so far (including the current occurrence).
func (b *Board) IsRepetitionDraw() bool {
	return b.repetitions[b.hash] >= 3
}

// HistoryLen returns the number of moves made since the last Reset.
func (b *Board) HistoryLen() int {
	return len(b.history)
}

func (b *Board) String() string {
	var out [8]string
	for r := Rank(7); r >= 0; r-- {
		row := ""
		for f := File(0); f < NumFiles; f++ {
			c, p, ok := b.PieceAt(NewSquare(f, r))
			if !ok {
				row += "."
				continue
			}
			s := p.String()
			if c == White {
				s = fmt.Sprintf("%c", s[0]-32)
			}
			row += s
		}
		out[7-r] = row
	}
	return fmt.Sprintf("%v/%v/%v/%v/%v/%v/%v/%v turn=%v castling=%v ep=%v hash=%x",
		out[0], out[1], out[2], out[3], out[4], out[5], out[6], out[7],
		b.sideToMove, b.castlingRights, b.epTarget, b.hash)
}

func (b *Board) place(c Color, p Piece, sq Square) {
	b.pieces[c][p] = b.pieces[c][p].Set(sq)
	b.occupancy[c] = b.occupancy[c].Set(sq)
	b.all = b.all.Set(sq)
	b.squares[sq] = occupant{color: c, piece: p}
	b.hash ^= b.zt.Piece(c, p, sq)
}

func (b *Board) remove(c Color, p Piece, sq Square) {
	b.pieces[c][p] = b.pieces[c][p].Clear(sq)
	b.occupancy[c] = b.occupancy[c].Clear(sq)
	b.all = b.all.Clear(sq)
	b.squares[sq] = occupant{}
	b.hash ^= b.zt.Piece(c, p, sq)
}

func (b *Board) relocate(c Color, p Piece, from, to Square) {
	b.remove(c, p, from)
	b.place(c, p, to)
}

// placeNoHash/removeNoHash/relocateNoHash update only the piece bitboards,
// occupancy and mailbox, not the hash. Unmake uses these, since it restores
// the hash field directly from the undo snapshot rather than re-deriving it
// through a second, inverse round of XORs.
func (b *Board) placeNoHash(c Color, p Piece, sq Square) {
	b.pieces[c][p] = b.pieces[c][p].Set(sq)
	b.occupancy[c] = b.occupancy[c].Set(sq)
	b.all = b.all.Set(sq)
	b.squares[sq] = occupant{color: c, piece: p}
}

func (b *Board) removeNoHash(c Color, p Piece, sq Square) {
	b.pieces[c][p] = b.pieces[c][p].Clear(sq)
	b.occupancy[c] = b.occupancy[c].Clear(sq)
	b.all = b.all.Clear(sq)
	b.squares[sq] = occupant{}
}

func (b *Board) relocateNoHash(c Color, p Piece, from, to Square) {
	b.removeNoHash(c, p, from)
	b.placeNoHash(c, p, to)
}
