package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSetClear(t *testing.T) {
	var bb Bitboard
	bb = bb.Set(E4)
	assert.True(t, bb.IsSet(E4))
	assert.False(t, bb.IsSet(E5))

	bb = bb.Clear(E4)
	assert.Equal(t, EmptyBitboard, bb)
}

func TestPopCount(t *testing.T) {
	assert.Equal(t, 0, EmptyBitboard.PopCount())
	assert.Equal(t, 8, MaskRank(Rank2).PopCount())
	assert.Equal(t, 8, MaskFile(FileD).PopCount())
	assert.Equal(t, 64, Bitboard(^uint64(0)).PopCount())
}

func TestLSB(t *testing.T) {
	assert.Equal(t, NoSquare, EmptyBitboard.LSB())
	assert.Equal(t, A1, Bitboard(1).LSB())
	assert.Equal(t, C2, (Mask(C2) | Mask(H8)).LSB())
}

func TestPopLSBDrainsAllBits(t *testing.T) {
	bb := Mask(A1) | Mask(D4) | Mask(H8)

	var squares []Square
	for bb != 0 {
		var sq Square
		sq, bb = bb.PopLSB()
		squares = append(squares, sq)
	}
	assert.Equal(t, []Square{A1, D4, H8}, squares)
}

func TestMaskRankAndFileIntersect(t *testing.T) {
	assert.Equal(t, Mask(D4), MaskRank(Rank4)&MaskFile(FileD))
}
