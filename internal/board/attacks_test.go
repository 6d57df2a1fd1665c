package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnightAttacksCorner(t *testing.T) {
	assert.Equal(t, Mask(B3)|Mask(C2), KnightAttacks(A1))
}

func TestKnightAttacksCenter(t *testing.T) {
	assert.Equal(t, 8, KnightAttacks(E4).PopCount())
}

func TestKingAttacksEdgeAndCenter(t *testing.T) {
	assert.Equal(t, 3, KingAttacks(A1).PopCount())
	assert.Equal(t, 5, KingAttacks(E1).PopCount())
	assert.Equal(t, 8, KingAttacks(E4).PopCount())
}

func TestPawnAttacksDirectionAndWrap(t *testing.T) {
	assert.Equal(t, Mask(D5)|Mask(F5), PawnAttacks(White, E4))
	assert.Equal(t, Mask(D3)|Mask(F3), PawnAttacks(Black, E4))

	// No file wrap from the edges.
	assert.Equal(t, Mask(B3), PawnAttacks(White, A2))
	assert.Equal(t, Mask(G6), PawnAttacks(Black, H7))

	// No attacks off the board from the last rank.
	assert.Equal(t, EmptyBitboard, PawnAttacks(White, E8))
	assert.Equal(t, EmptyBitboard, PawnAttacks(Black, E1))
}

func TestRookAttacksStopAtBlockerInclusive(t *testing.T) {
	occ := Mask(E6) | Mask(C4)
	attacks := RookAttacks(E4, occ)

	// The first blocker square is included; squares beyond it are not.
	assert.True(t, attacks.IsSet(E5))
	assert.True(t, attacks.IsSet(E6))
	assert.False(t, attacks.IsSet(E7))
	assert.True(t, attacks.IsSet(C4))
	assert.False(t, attacks.IsSet(B4))
	assert.True(t, attacks.IsSet(H4))
	assert.True(t, attacks.IsSet(E1))
}

func TestBishopAttacksOpenBoard(t *testing.T) {
	attacks := BishopAttacks(E4, EmptyBitboard)
	assert.Equal(t, 13, attacks.PopCount())
	assert.True(t, attacks.IsSet(A8))
	assert.True(t, attacks.IsSet(H1))
	assert.True(t, attacks.IsSet(B1))
	assert.True(t, attacks.IsSet(H7))
}

func TestQueenAttacksIsRookPlusBishop(t *testing.T) {
	occ := Mask(E6) | Mask(G6)
	assert.Equal(t, RookAttacks(D4, occ)|BishopAttacks(D4, occ), QueenAttacks(D4, occ))
}
