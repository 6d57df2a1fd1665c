package board

// MakeMove applies m to b, updating all board state and the Zobrist hash
// incrementally. It returns false, leaving b unmodified, if m would leave
// the moving side's own king attacked, or if a castle's safety preconditions
// fail. The move is otherwise assumed pseudo-legal, as produced by
// Generate/GenerateCaptures.
func MakeMove(b *Board, m Move) bool {
	side := b.sideToMove
	opp := side.Opponent()

	b.history = append(b.history, undo{
		move:         m,
		prevCastling: b.castlingRights,
		prevEP:       b.epTarget,
		prevHalfmove: b.halfmoveClock,
		prevFullmove: b.fullmoveCounter,
		prevHash:     b.hash,
	})

	oldEP := b.epTarget
	oldCastling := b.castlingRights

	switch m.Type {
	case Quiet, DoublePush:
		b.relocate(side, m.Piece, m.From, m.To)
	case Capture:
		b.remove(opp, m.Capture, m.To)
		b.relocate(side, m.Piece, m.From, m.To)
	case EnPassant:
		capSq := m.To - Square(pawnPushDelta(side))
		b.remove(opp, Pawn, capSq)
		b.relocate(side, Pawn, m.From, m.To)
	case KingCastle, QueenCastle:
		if !b.tryCastle(side, m) {
			b.history = b.history[:len(b.history)-1]
			return false
		}
	case Promotion:
		b.remove(side, Pawn, m.From)
		b.place(side, m.Promotion, m.To)
	case CapturePromotion:
		b.remove(opp, m.Capture, m.To)
		b.remove(side, Pawn, m.From)
		b.place(side, m.Promotion, m.To)
	}

	if m.Piece == Pawn || m.IsCapture() {
		b.halfmoveClock = 0
	} else {
		b.halfmoveClock++
	}

	b.epTarget = NoSquare
	if m.Type == DoublePush {
		b.epTarget = m.From + Square(pawnPushDelta(side))
	}

	// Whenever a rook leaves, or is captured on, its home corner, or the
	// king leaves its home square, clear the matching right.
	b.castlingRights &^= castlingRightLostAt(m.From)
	b.castlingRights &^= castlingRightLostAt(m.To)

	if oldEP.IsValid() {
		b.hash ^= b.zt.EnPassant(oldEP)
	}
	if b.epTarget.IsValid() {
		b.hash ^= b.zt.EnPassant(b.epTarget)
	}
	b.hash ^= b.zt.Castling(oldCastling)
	b.hash ^= b.zt.Castling(b.castlingRights)

	if b.IsInCheck(side) {
		b.unmakeInternal()
		return false
	}

	b.hash ^= b.zt.Turn(side)
	b.sideToMove = opp
	b.hash ^= b.zt.Turn(opp)

	if opp == White {
		b.fullmoveCounter++
	}

	b.repetitions[b.hash]++
	return true
}

// tryCastle verifies the check-safety preconditions before a castle touches
// the board, and performs the king/rook relocation if they hold: the king may
// not castle out of, through, or into check, and the rook's path must be
// clear.
func (b *Board) tryCastle(side Color, m Move) bool {
	if b.IsInCheck(side) {
		return false
	}

	opp := side.Opponent()

	var kingFrom, kingTo, rookFrom, rookTo, transit, bFile Square
	switch {
	case side == White && m.Type == KingCastle:
		kingFrom, kingTo, rookFrom, rookTo, transit, bFile = E1, G1, H1, F1, F1, NoSquare
	case side == White && m.Type == QueenCastle:
		kingFrom, kingTo, rookFrom, rookTo, transit, bFile = E1, C1, A1, D1, D1, B1
	case side == Black && m.Type == KingCastle:
		kingFrom, kingTo, rookFrom, rookTo, transit, bFile = E8, G8, H8, F8, F8, NoSquare
	default:
		kingFrom, kingTo, rookFrom, rookTo, transit, bFile = E8, C8, A8, D8, D8, B8
	}

	if b.all.IsSet(kingTo) || b.all.IsSet(transit) {
		return false
	}
	if bFile.IsValid() && b.all.IsSet(bFile) {
		return false
	}
	if b.IsAttacked(transit, opp) || b.IsAttacked(kingTo, opp) {
		return false
	}

	b.relocate(side, King, kingFrom, kingTo)
	b.relocate(side, Rook, rookFrom, rookTo)
	return true
}

// unmakeInternal is MakeMove's own failure path (check left on own king): it
// pops the undo record just pushed, reverses the piece-layout effects, and
// restores the scalar fields and hash from that record. Repetitions and side
// to move are not touched, since MakeMove has not updated them yet.
func (b *Board) unmakeInternal() {
	rec := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]

	side := b.sideToMove
	opp := side.Opponent()
	m := rec.move

	switch m.Type {
	case Quiet, DoublePush:
		b.relocateNoHash(side, m.Piece, m.To, m.From)
	case Capture:
		b.relocateNoHash(side, m.Piece, m.To, m.From)
		b.placeNoHash(opp, m.Capture, m.To)
	case EnPassant:
		b.relocateNoHash(side, Pawn, m.To, m.From)
		capSq := m.To - Square(pawnPushDelta(side))
		b.placeNoHash(opp, Pawn, capSq)
	case Promotion:
		b.removeNoHash(side, m.Promotion, m.To)
		b.placeNoHash(side, Pawn, m.From)
	case CapturePromotion:
		b.removeNoHash(side, m.Promotion, m.To)
		b.placeNoHash(side, Pawn, m.From)
		b.placeNoHash(opp, m.Capture, m.To)
	}
	// KingCastle/QueenCastle never reach here: tryCastle only mutates the
	// board after its own check-safety test has already passed.

	b.castlingRights = rec.prevCastling
	b.epTarget = rec.prevEP
	b.halfmoveClock = rec.prevHalfmove
	b.fullmoveCounter = rec.prevFullmove
	b.hash = rec.prevHash
}

// UnmakeMove pops the last undo record and restores every snapshotted field
// and the piece layout exactly. Returns false without effect if history is
// empty.
func UnmakeMove(b *Board) bool {
	if len(b.history) == 0 {
		return false
	}

	postHash := b.hash
	b.repetitions[postHash]--
	if b.repetitions[postHash] <= 0 {
		delete(b.repetitions, postHash)
	}

	rec := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]

	mover := b.sideToMove.Opponent()
	opp := mover.Opponent()
	m := rec.move

	switch m.Type {
	case Quiet, DoublePush:
		b.relocateNoHash(mover, m.Piece, m.To, m.From)
	case Capture:
		b.relocateNoHash(mover, m.Piece, m.To, m.From)
		b.placeNoHash(opp, m.Capture, m.To)
	case EnPassant:
		b.relocateNoHash(mover, Pawn, m.To, m.From)
		capSq := m.To - Square(pawnPushDelta(mover))
		b.placeNoHash(opp, Pawn, capSq)
	case KingCastle:
		if mover == White {
			b.relocateNoHash(mover, King, G1, E1)
			b.relocateNoHash(mover, Rook, F1, H1)
		} else {
			b.relocateNoHash(mover, King, G8, E8)
			b.relocateNoHash(mover, Rook, F8, H8)
		}
	case QueenCastle:
		if mover == White {
			b.relocateNoHash(mover, King, C1, E1)
			b.relocateNoHash(mover, Rook, D1, A1)
		} else {
			b.relocateNoHash(mover, King, C8, E8)
			b.relocateNoHash(mover, Rook, D8, A8)
		}
	case Promotion:
		b.removeNoHash(mover, m.Promotion, m.To)
		b.placeNoHash(mover, Pawn, m.From)
	case CapturePromotion:
		b.removeNoHash(mover, m.Promotion, m.To)
		b.placeNoHash(mover, Pawn, m.From)
		b.placeNoHash(opp, m.Capture, m.To)
	}

	b.sideToMove = mover
	b.castlingRights = rec.prevCastling
	b.epTarget = rec.prevEP
	b.halfmoveClock = rec.prevHalfmove
	b.fullmoveCounter = rec.prevFullmove
	b.hash = rec.prevHash
	return true
}
