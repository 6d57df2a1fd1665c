package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talonchess/talon/internal/board"
	"github.com/talonchess/talon/internal/eval"
	"github.com/talonchess/talon/internal/fen"
	"github.com/talonchess/talon/internal/search"
)

func newBoard(t *testing.T, f string) *board.Board {
	t.Helper()
	zt := board.NewZobristTable(1)
	b := board.NewBoard(zt)
	require.NoError(t, fen.Load(b, f))
	return b
}

func TestSearchFindsBackRankMate(t *testing.T) {
	b := newBoard(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	s := search.New(search.NewTable(1))

	pv := s.Run(context.Background(), b, search.Options{DepthLimit: lang.Some(4)}, nil)
	require.NotEmpty(t, pv.Moves)
	assert.Greater(t, int(pv.Score), int(eval.Mate)-100)
}

func TestSearchFindsScholarsMate(t *testing.T) {
	b := newBoard(t, "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4")
	s := search.New(search.NewTable(1))

	pv := s.Run(context.Background(), b, search.Options{DepthLimit: lang.Some(2)}, nil)
	require.NotEmpty(t, pv.Moves)

	best := pv.Moves[0]
	assert.Equal(t, board.H5, best.From)
	assert.Equal(t, board.F7, best.To)
}

func TestSearchDepth1PicksFreeCapture(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := board.NewBoard(zt)
	require.NoError(t, b.Reset([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.D4, Color: board.White, Piece: board.Queen},
		{Square: board.A7, Color: board.Black, Piece: board.Pawn},
	}, board.White, 0, board.NoSquare, 0, 1))

	s := search.New(search.NewTable(1))
	pv := s.Run(context.Background(), b, search.Options{DepthLimit: lang.Some(1)}, nil)

	require.NotEmpty(t, pv.Moves)
	assert.True(t, pv.Moves[0].IsCapture())
}

func TestSearchLeavesBoardUnchanged(t *testing.T) {
	b := newBoard(t, fen.Initial)
	before := fen.Encode(b)

	s := search.New(search.NewTable(1))
	s.Run(context.Background(), b, search.Options{DepthLimit: lang.Some(3)}, nil)

	assert.Equal(t, before, fen.Encode(b))
}

func TestSearchStopIsHonoredPromptly(t *testing.T) {
	b := newBoard(t, fen.Initial)
	s := search.New(search.NewTable(1))

	done := make(chan struct{})
	go func() {
		s.Run(context.Background(), b, search.Options{DepthLimit: lang.Some(64)}, nil)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	s.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("search did not honor Stop")
	}
}

func TestTableProbeStoreRoundTrip(t *testing.T) {
	tt := search.NewTable(1)
	e := search.Entry{Key: 0x1234, Depth: 4, Score: 55, Move: board.Move{From: board.E2, To: board.E4}, Bound: search.Exact}
	tt.Store(e)

	got, ok := tt.Probe(0x1234)
	require.True(t, ok)
	assert.Equal(t, e.Score, got.Score)
	assert.Equal(t, e.Bound, got.Bound)
}

func TestTableStoreKeepsDeeperEntry(t *testing.T) {
	tt := search.NewTable(1)
	shallow := search.Entry{Key: 7, Depth: 2, Score: 10, Bound: search.Exact}
	deep := search.Entry{Key: 7, Depth: 8, Score: 99, Bound: search.Exact}

	tt.Store(deep)
	tt.Store(shallow)

	got, ok := tt.Probe(7)
	require.True(t, ok)
	assert.Equal(t, deep.Score, got.Score)
}

func TestSearchReturnsDrawAtFiftyMoveRoot(t *testing.T) {
	b := newBoard(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 100 80")
	s := search.New(search.NewTable(1))

	pv := s.Run(context.Background(), b, search.Options{DepthLimit: lang.Some(3)}, nil)
	assert.Equal(t, eval.Draw, pv.Score)
	assert.Empty(t, pv.Moves)
}

func TestSearchHonorsNodeLimit(t *testing.T) {
	b := newBoard(t, fen.Initial)
	s := search.New(search.NewTable(1))

	pv := s.Run(context.Background(), b, search.Options{NodeLimit: lang.Some(uint64(500))}, nil)
	assert.NotEmpty(t, pv.Moves)
}

func TestTimeControlBudgetSharesClock(t *testing.T) {
	tc := search.TimeControl{Remaining: 40 * time.Second, Moves: 40}
	assert.Equal(t, time.Second-50*time.Millisecond, tc.Budget())
}

func TestTimeControlBudgetAddsIncrement(t *testing.T) {
	tc := search.TimeControl{Remaining: 40 * time.Second, Increment: 2 * time.Second, Moves: 40}
	assert.Equal(t, time.Second-50*time.Millisecond+1500*time.Millisecond, tc.Budget())
}

func TestTimeControlBudgetClampsToMinimum(t *testing.T) {
	tc := search.TimeControl{Remaining: 10 * time.Millisecond, Moves: 40}
	assert.Equal(t, 100*time.Millisecond, tc.Budget())
}

func TestTimeControlBudgetDefaultsMovesToGo(t *testing.T) {
	tc := search.TimeControl{Remaining: 80 * time.Second}
	assert.Equal(t, 2*time.Second-50*time.Millisecond, tc.Budget())
}

func TestKillersRecordAndMatch(t *testing.T) {
	var k search.Killers
	m := board.Move{From: board.G1, To: board.F3, Piece: board.Knight}
	k.Update(3, m)
	assert.True(t, k.Match(3, m))
	assert.False(t, k.Match(3, board.Move{From: board.B1, To: board.C3}))
}

func TestHistoryBumpAccumulates(t *testing.T) {
	var h search.History
	m := board.Move{From: board.E2, To: board.E4}
	h.Bump(board.White, m, 3)
	h.Bump(board.White, m, 2)
	assert.Equal(t, 13, h.Score(board.White, m))
}
