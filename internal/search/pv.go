package search

import (
	"fmt"
	"time"

	"github.com/talonchess/talon/internal/board"
	"github.com/talonchess/talon/internal/eval"
)

// PV is a completed iteration's principal variation, the unit Search reports
// after each iterative-deepening pass.
type PV struct {
	Depth int
	Score eval.Score
	Moves []board.Move
	Nodes uint64
	Time  time.Duration
}

func (p PV) String() string {
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v pv=%v", p.Depth, p.Score, p.Nodes, p.Time, p.Moves)
}

// pvTable is a triangular table of move slices, one per ply, used to build
// up the principal variation as the search unwinds: a move that improves
// alpha at ply p is prepended to the child line from ply p+1.
type pvTable struct {
	lines [maxPly][]board.Move
}

func (t *pvTable) set(ply int, m board.Move, child []board.Move) {
	if ply >= maxPly {
		return
	}
	line := make([]board.Move, 0, len(child)+1)
	line = append(line, m)
	line = append(line, child...)
	t.lines[ply] = line
}

func (t *pvTable) clear(ply int) {
	if ply < maxPly {
		t.lines[ply] = nil
	}
}

func (t *pvTable) get(ply int) []board.Move {
	if ply >= maxPly {
		return nil
	}
	return t.lines[ply]
}
