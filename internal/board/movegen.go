package board

// pawnPushDelta returns the forward direction, in squares, for a single pawn
// push by c.
func pawnPushDelta(c Color) int {
	if c == White {
		return 8
	}
	return -8
}

// promotionPieces is the fixed Queen, Rook, Bishop, Knight emission order.
var promotionPieces = [4]Piece{Queen, Rook, Bishop, Knight}

// Generate returns all pseudo-legal moves for side on b: legality of leaving
// the own king in check is deferred to MakeMove.
func Generate(b *Board, side Color) []Move {
	moves := make([]Move, 0, 48)
	moves = genPawnPushes(b, side, moves)
	moves = genPawnCaptures(b, side, moves)
	moves = genLeaperMoves(b, side, Knight, KnightAttacks, moves, false)
	moves = genSliderMoves(b, side, Bishop, moves, false)
	moves = genSliderMoves(b, side, Rook, moves, false)
	moves = genSliderMoves(b, side, Queen, moves, false)
	moves = genLeaperMoves(b, side, King, KingAttacks, moves, false)
	moves = genCastling(b, side, moves)
	return moves
}

// GenerateCaptures returns only capturing pseudo-legal moves (including
// en-passant and capture-promotions), used by quiescence search.
func GenerateCaptures(b *Board, side Color) []Move {
	moves := make([]Move, 0, 24)
	moves = genPawnCaptures(b, side, moves)
	moves = genLeaperMoves(b, side, Knight, KnightAttacks, moves, true)
	moves = genSliderMoves(b, side, Bishop, moves, true)
	moves = genSliderMoves(b, side, Rook, moves, true)
	moves = genSliderMoves(b, side, Queen, moves, true)
	moves = genLeaperMoves(b, side, King, KingAttacks, moves, true)
	return moves
}

func genPawnPushes(b *Board, side Color, moves []Move) []Move {
	opp := side.Opponent()
	empty := ^(b.occupancy[side] | b.occupancy[opp])
	promoRank, startRank := Rank7, Rank2
	if side == Black {
		promoRank, startRank = Rank2, Rank7
	}

	pawns := b.pieces[side][Pawn]
	for pawns != 0 {
		var from Square
		from, pawns = pawns.PopLSB()

		to := from + Square(pawnPushDelta(side))
		if !to.IsValid() || !empty.IsSet(to) {
			continue
		}

		if from.Rank() == promoRank {
			for _, p := range promotionPieces {
				moves = append(moves, Move{From: from, To: to, Piece: Pawn, Capture: NoPiece, Promotion: p, Type: Promotion})
			}
			continue
		}

		moves = append(moves, Move{From: from, To: to, Piece: Pawn, Type: Quiet})

		if from.Rank() == startRank {
			dbl := to + Square(pawnPushDelta(side))
			if dbl.IsValid() && empty.IsSet(dbl) {
				moves = append(moves, Move{From: from, To: dbl, Piece: Pawn, Type: DoublePush})
			}
		}
	}
	return moves
}

func genPawnCaptures(b *Board, side Color, moves []Move) []Move {
	opp := side.Opponent()
	promoRank := Rank7
	if side == Black {
		promoRank = Rank2
	}

	pawns := b.pieces[side][Pawn]
	for pawns != 0 {
		var from Square
		from, pawns = pawns.PopLSB()

		targets := PawnAttacks(side, from)

		captures := targets & b.occupancy[opp]
		for captures != 0 {
			var to Square
			to, captures = captures.PopLSB()
			_, captured, _ := b.PieceAt(to)

			if from.Rank() == promoRank {
				for _, p := range promotionPieces {
					moves = append(moves, Move{From: from, To: to, Piece: Pawn, Capture: captured, Promotion: p, Type: CapturePromotion})
				}
				continue
			}
			moves = append(moves, Move{From: from, To: to, Piece: Pawn, Capture: captured, Type: Capture})
		}

		if b.epTarget.IsValid() && targets.IsSet(b.epTarget) {
			moves = append(moves, Move{From: from, To: b.epTarget, Piece: Pawn, Capture: Pawn, Type: EnPassant})
		}
	}
	return moves
}

type attackFunc func(Square) Bitboard

func genLeaperMoves(b *Board, side Color, piece Piece, attacks attackFunc, moves []Move, capturesOnly bool) []Move {
	opp := side.Opponent()
	bb := b.pieces[side][piece]
	for bb != 0 {
		var from Square
		from, bb = bb.PopLSB()

		targets := attacks(from) &^ b.occupancy[side]
		if capturesOnly {
			targets &= b.occupancy[opp]
		}
		for targets != 0 {
			var to Square
			to, targets = targets.PopLSB()

			if b.occupancy[opp].IsSet(to) {
				_, captured, _ := b.PieceAt(to)
				moves = append(moves, Move{From: from, To: to, Piece: piece, Capture: captured, Type: Capture})
			} else {
				moves = append(moves, Move{From: from, To: to, Piece: piece, Type: Quiet})
			}
		}
	}
	return moves
}

func genSliderMoves(b *Board, side Color, piece Piece, moves []Move, capturesOnly bool) []Move {
	opp := side.Opponent()
	bb := b.pieces[side][piece]
	for bb != 0 {
		var from Square
		from, bb = bb.PopLSB()

		var targets Bitboard
		switch piece {
		case Bishop:
			targets = BishopAttacks(from, b.all)
		case Rook:
			targets = RookAttacks(from, b.all)
		case Queen:
			targets = QueenAttacks(from, b.all)
		}
		targets &^= b.occupancy[side]
		if capturesOnly {
			targets &= b.occupancy[opp]
		}

		for targets != 0 {
			var to Square
			to, targets = targets.PopLSB()

			if b.occupancy[opp].IsSet(to) {
				_, captured, _ := b.PieceAt(to)
				moves = append(moves, Move{From: from, To: to, Piece: piece, Capture: captured, Type: Capture})
			} else {
				moves = append(moves, Move{From: from, To: to, Piece: piece, Type: Quiet})
			}
		}
	}
	return moves
}

// genCastling emits king-side/queen-side castling moves whose right is set,
// king/rook sit on their home squares, and the intervening squares are
// empty. Attacked-square legality is checked by MakeMove.
func genCastling(b *Board, side Color, moves []Move) []Move {
	occ := b.all

	if side == White {
		if !b.pieces[White][King].IsSet(E1) {
			return moves
		}
		if b.castlingRights.Has(WhiteKingside) {
			if _, p, ok := b.PieceAt(H1); ok && p == Rook && b.occupancy[White].IsSet(H1) {
				if !occ.IsSet(F1) && !occ.IsSet(G1) {
					moves = append(moves, Move{From: E1, To: G1, Piece: King, Type: KingCastle})
				}
			}
		}
		if b.castlingRights.Has(WhiteQueenside) {
			if _, p, ok := b.PieceAt(A1); ok && p == Rook && b.occupancy[White].IsSet(A1) {
				if !occ.IsSet(B1) && !occ.IsSet(C1) && !occ.IsSet(D1) {
					moves = append(moves, Move{From: E1, To: C1, Piece: King, Type: QueenCastle})
				}
			}
		}
		return moves
	}

	if !b.pieces[Black][King].IsSet(E8) {
		return moves
	}
	if b.castlingRights.Has(BlackKingside) {
		if _, p, ok := b.PieceAt(H8); ok && p == Rook && b.occupancy[Black].IsSet(H8) {
			if !occ.IsSet(F8) && !occ.IsSet(G8) {
				moves = append(moves, Move{From: E8, To: G8, Piece: King, Type: KingCastle})
			}
		}
	}
	if b.castlingRights.Has(BlackQueenside) {
		if _, p, ok := b.PieceAt(A8); ok && p == Rook && b.occupancy[Black].IsSet(A8) {
			if !occ.IsSet(B8) && !occ.IsSet(C8) && !occ.IsSet(D8) {
				moves = append(moves, Move{From: E8, To: C8, Piece: King, Type: QueenCastle})
			}
		}
	}
	return moves
}
