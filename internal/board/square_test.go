package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquareFileRank(t *testing.T) {
	assert.Equal(t, FileA, A1.File())
	assert.Equal(t, Rank1, A1.Rank())
	assert.Equal(t, FileH, H8.File())
	assert.Equal(t, Rank8, H8.Rank())
	assert.Equal(t, FileE, E4.File())
	assert.Equal(t, Rank4, E4.Rank())
}

func TestNewSquareRoundTrip(t *testing.T) {
	for sq := Square(0); sq < NumSquares; sq++ {
		assert.Equal(t, sq, NewSquare(sq.File(), sq.Rank()))
	}
}

func TestParseSquareStr(t *testing.T) {
	sq, err := ParseSquareStr("e4")
	require.NoError(t, err)
	assert.Equal(t, E4, sq)

	// Case-insensitive on the file letter.
	sq, err = ParseSquareStr("E4")
	require.NoError(t, err)
	assert.Equal(t, E4, sq)

	_, err = ParseSquareStr("i4")
	assert.Error(t, err)
	_, err = ParseSquareStr("e9")
	assert.Error(t, err)
	_, err = ParseSquareStr("e")
	assert.Error(t, err)
}

func TestSquareString(t *testing.T) {
	assert.Equal(t, "a1", A1.String())
	assert.Equal(t, "h8", H8.String())
	assert.Equal(t, "-", NoSquare.String())
}

func TestParseMoveWithPromotion(t *testing.T) {
	m, err := ParseMove("a7a8q")
	require.NoError(t, err)
	assert.Equal(t, A7, m.From)
	assert.Equal(t, A8, m.To)
	assert.Equal(t, Queen, m.Promotion)

	_, err = ParseMove("a7a8k")
	assert.Error(t, err)
	_, err = ParseMove("a7a8qq")
	assert.Error(t, err)
}
