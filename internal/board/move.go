package board

import "fmt"

// MoveType is a closed enumeration of move kinds. The four promotion pieces
// are not separate enum values; they ride in Move.Promotion alongside
// Promotion/CapturePromotion.
type MoveType uint8

const (
	Quiet MoveType = iota
	DoublePush
	KingCastle
	QueenCastle
	Capture
	EnPassant
	Promotion
	CapturePromotion
)

// IsCapture reports whether the move type captures a piece.
func (t MoveType) IsCapture() bool {
	return t == Capture || t == EnPassant || t == CapturePromotion
}

// Move is a compact record of a not-necessarily-legal move.
type Move struct {
	From, To  Square
	Piece     Piece // moving piece type
	Capture   Piece // captured piece type, NoPiece if none
	Promotion Piece // NoPiece unless Type is Promotion/CapturePromotion
	Type      MoveType
}

func (m Move) IsCapture() bool {
	return m.Type.IsCapture()
}

func (m Move) IsPromotion() bool {
	return m.Type == Promotion || m.Type == CapturePromotion
}

// Equals compares moves by from/to/promotion, as used to match a UCI move
// string against a generated pseudo-legal move.
func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

func (m Move) String() string {
	if m.IsPromotion() {
		return fmt.Sprintf("%v%v%v", m.From, m.To, m.Promotion)
	}
	return fmt.Sprintf("%v%v", m.From, m.To)
}

// ParseMove parses pure algebraic coordinate notation, e.g. "a2a4" or "a7a8q".
// The result carries no contextual information (capture/castle/en-passant
// type); the caller must match it against a generated pseudo-legal move to
// recover that.
func ParseMove(str string) (Move, error) {
	runes := []rune(str)
	if len(runes) != 4 && len(runes) != 5 {
		return Move{}, fmt.Errorf("invalid move %q", str)
	}

	from, err := ParseSquare(runes[0], runes[1])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", str, err)
	}
	to, err := ParseSquare(runes[2], runes[3])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", str, err)
	}

	m := Move{From: from, To: to}
	if len(runes) == 5 {
		promo, ok := ParsePiece(runes[4])
		if !ok || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("invalid promotion in move %q", str)
		}
		m.Promotion = promo
	}
	return m, nil
}
