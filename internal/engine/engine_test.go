package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talonchess/talon/internal/board"
	"github.com/talonchess/talon/internal/engine"
	"github.com/talonchess/talon/internal/fen"
	"github.com/talonchess/talon/internal/search"
)

func newDispatcher(t *testing.T) *engine.Dispatcher {
	t.Helper()
	ctx := context.Background()
	e := engine.New(ctx, "talon", "test", engine.WithOptions(engine.Options{Hash: 1}))
	go e.Run(ctx)
	t.Cleanup(e.Quit)
	return e
}

func TestDispatcherResetAndMove(t *testing.T) {
	ctx := context.Background()
	e := newDispatcher(t)

	require.NoError(t, e.Reset(ctx, fen.Initial))
	assert.Equal(t, board.White, e.SideToMove(ctx))

	require.NoError(t, e.Move(ctx, "e2e4"))
	assert.Equal(t, board.Black, e.SideToMove(ctx))
}

func TestDispatcherRejectsInvalidMove(t *testing.T) {
	ctx := context.Background()
	e := newDispatcher(t)

	require.NoError(t, e.Reset(ctx, fen.Initial))
	assert.Error(t, e.Move(ctx, "e2e5"))
	assert.Error(t, e.Move(ctx, "zzzz"))
}

func TestDispatcherRejectsInvalidFEN(t *testing.T) {
	ctx := context.Background()
	e := newDispatcher(t)

	assert.Error(t, e.Reset(ctx, "not a position"))
	// State is unchanged: the prior position still accepts moves.
	require.NoError(t, e.Move(ctx, "e2e4"))
}

func TestDispatcherAnalyzeCompletes(t *testing.T) {
	ctx := context.Background()
	e := newDispatcher(t)

	out, err := e.Analyze(ctx, search.Options{DepthLimit: lang.Some(3)})
	require.NoError(t, err)

	var last search.PV
	for pv := range out {
		last = pv
	}
	require.NotEmpty(t, last.Moves)
	assert.Equal(t, 3, last.Depth)

	// A completed search does not block the next one.
	out, err = e.Analyze(ctx, search.Options{DepthLimit: lang.Some(1)})
	require.NoError(t, err)
	for range out {
	}
}

func TestDispatcherHaltStopsSearch(t *testing.T) {
	ctx := context.Background()
	e := newDispatcher(t)

	out, err := e.Analyze(ctx, search.Options{})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	pv, err := e.Halt(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, pv.Moves)

	for range out {
	}
}

func TestDispatcherHaltWithoutSearchFails(t *testing.T) {
	ctx := context.Background()
	e := newDispatcher(t)

	_, err := e.Halt(ctx)
	assert.Error(t, err)
}
