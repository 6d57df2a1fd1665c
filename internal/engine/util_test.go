package engine_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talonchess/talon/internal/engine"
)

func TestInputLinesSplitsAndCloses(t *testing.T) {
	in := engine.InputLines(context.Background(), strings.NewReader("uci\nisready\nquit\n"))

	var lines []string
	for line := range in {
		lines = append(lines, line)
	}
	assert.Equal(t, []string{"uci", "isready", "quit"}, lines)
}

func TestOutputLinesWritesEachLine(t *testing.T) {
	lines := make(chan string, 3)
	lines <- "id name talon"
	lines <- "uciok"
	close(lines)

	var buf bytes.Buffer
	engine.OutputLines(context.Background(), &buf, lines)

	require.Equal(t, "id name talon\nuciok\n", buf.String())
}
