// Package fen encodes and decodes chess positions in Forsyth-Edwards
// Notation, the wire format for positions in the UCI protocol.
package fen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/talonchess/talon/internal/board"
)

// Initial is the FEN of the standard starting position.
const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Position is a decoded FEN: everything needed to reset a Board.
type Position struct {
	Placements []board.Placement
	Turn       board.Color
	Castling   board.Castling
	EnPassant  board.Square
	Halfmove   int
	Fullmove   int
}

// Decode parses the 6 space-separated FEN fields, rejecting malformed input:
// wrong field count, rank runs not summing to 8, or out-of-range clock/move
// values.
func Decode(s string) (Position, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 6 {
		return Position{}, fmt.Errorf("fen: expected 6 fields, got %d: %q", len(fields), s)
	}

	placements, err := decodePlacement(fields[0])
	if err != nil {
		return Position{}, fmt.Errorf("fen: %w", err)
	}

	turn, ok := decodeColor(fields[1])
	if !ok {
		return Position{}, fmt.Errorf("fen: invalid active color: %q", fields[1])
	}

	castling, ok := decodeCastling(fields[2])
	if !ok {
		return Position{}, fmt.Errorf("fen: invalid castling rights: %q", fields[2])
	}

	ep := board.NoSquare
	if fields[3] != "-" {
		sq, err := board.ParseSquareStr(fields[3])
		if err != nil {
			return Position{}, fmt.Errorf("fen: invalid en-passant target: %q", fields[3])
		}
		ep = sq
	}

	halfmove, err := strconv.Atoi(fields[4])
	if err != nil || halfmove < 0 {
		return Position{}, fmt.Errorf("fen: invalid halfmove clock: %q", fields[4])
	}

	fullmove, err := strconv.Atoi(fields[5])
	if err != nil || fullmove < 1 {
		return Position{}, fmt.Errorf("fen: invalid fullmove number: %q", fields[5])
	}

	return Position{
		Placements: placements,
		Turn:       turn,
		Castling:   castling,
		EnPassant:  ep,
		Halfmove:   halfmove,
		Fullmove:   fullmove,
	}, nil
}

// Load decodes s and resets b in place.
func Load(b *board.Board, s string) error {
	pos, err := Decode(s)
	if err != nil {
		return err
	}
	return b.Reset(pos.Placements, pos.Turn, pos.Castling, pos.EnPassant, pos.Halfmove, pos.Fullmove)
}

func decodePlacement(field string) ([]board.Placement, error) {
	var placements []board.Placement

	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("expected 8 ranks, got %d: %q", len(ranks), field)
	}

	for i, rankStr := range ranks {
		rank := board.Rank(7 - i)
		file := board.FileA

		for _, r := range rankStr {
			if int(file) >= board.NumFiles {
				return nil, fmt.Errorf("rank %q does not sum to 8 files", rankStr)
			}
			if r >= '1' && r <= '8' {
				file += board.File(r - '0')
				continue
			}
			p, ok := board.ParsePiece(r)
			if !ok {
				return nil, fmt.Errorf("invalid piece %q in rank %q", r, rankStr)
			}
			color := board.Black
			if r >= 'A' && r <= 'Z' {
				color = board.White
			}
			placements = append(placements, board.Placement{
				Square: board.NewSquare(file, rank),
				Color:  color,
				Piece:  p,
			})
			file++
		}
		if int(file) != board.NumFiles {
			return nil, fmt.Errorf("rank %q does not sum to 8 files", rankStr)
		}
	}
	return placements, nil
}

func decodeColor(s string) (board.Color, bool) {
	switch s {
	case "w":
		return board.White, true
	case "b":
		return board.Black, true
	default:
		return 0, false
	}
}

func decodeCastling(s string) (board.Castling, bool) {
	if s == "-" {
		return 0, true
	}
	var c board.Castling
	for _, r := range s {
		switch r {
		case 'K':
			c |= board.WhiteKingside
		case 'Q':
			c |= board.WhiteQueenside
		case 'k':
			c |= board.BlackKingside
		case 'q':
			c |= board.BlackQueenside
		default:
			return 0, false
		}
	}
	return c, true
}

// Encode renders b as a FEN string.
func Encode(b *board.Board) string {
	var sb strings.Builder
	for r := board.Rank(7); r >= 0; r-- {
		blanks := 0
		for f := board.File(0); f < board.NumFiles; f++ {
			c, p, ok := b.PieceAt(board.NewSquare(f, r))
			if !ok {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteString(printPiece(c, p))
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if r > 0 {
			sb.WriteByte('/')
		}
	}

	return fmt.Sprintf("%s %s %s %s %d %d",
		sb.String(),
		b.SideToMove(),
		b.CastlingRights(),
		encodeEnPassant(b.EnPassant()),
		b.HalfmoveClock(),
		b.FullmoveCounter())
}

func encodeEnPassant(sq board.Square) string {
	if !sq.IsValid() {
		return "-"
	}
	return sq.String()
}

func printPiece(c board.Color, p board.Piece) string {
	s := p.String()
	if c == board.White {
		return strings.ToUpper(s)
	}
	return s
}
