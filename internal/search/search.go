// Package search implements iterative-deepening principal-variation search
// with quiescence, move ordering, and a shared transposition table.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"

	"github.com/talonchess/talon/internal/board"
	"github.com/talonchess/talon/internal/eval"
)

// Options hold dynamic search options. The user may change these on a
// particular search. The zero value means unlimited in every dimension.
type Options struct {
	// DepthLimit, if set, limits the search to the given ply depth.
	DepthLimit lang.Optional[int]
	// NodeLimit, if set, stops the search once it has visited that many nodes.
	NodeLimit lang.Optional[uint64]
	// MoveTime, if set, fixes the exact time to spend on this move.
	MoveTime lang.Optional[time.Duration]
	// TimeControl, if set, derives a move-time budget from the clock.
	TimeControl lang.Optional[TimeControl]
}

func (o Options) String() string {
	var ret []string
	if v, ok := o.DepthLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.NodeLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("nodes=%v", v))
	}
	if v, ok := o.MoveTime.V(); ok {
		ret = append(ret, fmt.Sprintf("movetime=%v", v))
	}
	if v, ok := o.TimeControl.V(); ok {
		ret = append(ret, fmt.Sprintf("time=%v", v))
	}
	return fmt.Sprintf("[%v]", strings.Join(ret, ", "))
}

// Search runs iterative-deepening PVS against a single Board owned
// exclusively by the caller for the run's duration. Not safe for concurrent
// Run calls against the same Search.
type Search struct {
	tt      *Table
	killers Killers
	history History

	nodes     uint64
	nodeLimit uint64
	stop      atomic.Bool
	deadline  time.Time
	hasClock  bool
}

// New returns a Search backed by the given transposition table. A nil table
// disables TT probing and storing.
func New(tt *Table) *Search {
	return &Search{tt: tt}
}

// Stop requests the active Run to return as soon as possible. Idempotent and
// safe to call from another goroutine.
func (s *Search) Stop() {
	s.stop.Store(true)
}

// Run executes iterative deepening from depth 1 up to opt.DepthLimit (or
// maxPly-1 if unset), committing each completed iteration's PV to the returned value.
// The board is left exactly as given: every explored line is unmade before
// Run returns.
func (s *Search) Run(ctx context.Context, b *board.Board, opt Options, out chan<- PV) PV {
	s.stop.Store(false)
	s.nodes = 0
	s.killers = Killers{}
	s.history = History{}

	limit := maxPly - 1
	if d, ok := opt.DepthLimit.V(); ok && d > 0 && d < limit {
		limit = d
	}
	s.nodeLimit = 0
	if n, ok := opt.NodeLimit.V(); ok {
		s.nodeLimit = n
	}

	s.hasClock = false
	if mt, ok := opt.MoveTime.V(); ok {
		s.deadline = time.Now().Add(mt)
		s.hasClock = true
	} else if tc, ok := opt.TimeControl.V(); ok {
		s.deadline = time.Now().Add(tc.Budget())
		s.hasClock = true
	}

	var best PV
	start := time.Now()

	for depth := 1; depth <= limit; depth++ {
		if s.shouldAbort() {
			break
		}

		var pvt pvTable
		score, aborted := s.pvs(ctx, b, -eval.Inf, eval.Inf, depth, 0, &pvt, true)
		if aborted {
			break
		}

		best = PV{
			Depth: depth,
			Score: score,
			Moves: append([]board.Move(nil), pvt.get(0)...),
			Nodes: s.nodes,
			Time:  time.Since(start),
		}
		logw.Infof(ctx, "info depth %v score cp %v nodes %v time %v pv %v",
			best.Depth, int(best.Score), best.Nodes, best.Time.Milliseconds(), best.Moves)

		if out != nil {
			select {
			case out <- best:
			default:
			}
		}

		if s.nodeLimit > 0 && s.nodes >= s.nodeLimit {
			break
		}
	}

	return best
}

// shouldAbort reports whether the search should stop before starting (or
// continuing into) the next iteration.
func (s *Search) shouldAbort() bool {
	if s.stop.Load() {
		return true
	}
	if s.nodeLimit > 0 && s.nodes >= s.nodeLimit {
		return true
	}
	if s.hasClock && time.Now().After(s.deadline) {
		return true
	}
	return false
}

// pollInterval bounds how many nodes pass between node-limit and clock checks
// inside the recursive search. The stop flag itself is checked at every node.
const pollInterval = 2048

func (s *Search) aborted() bool {
	if s.stop.Load() {
		return true
	}
	if s.nodes%pollInterval == 0 {
		if s.nodeLimit > 0 && s.nodes >= s.nodeLimit {
			return true
		}
		if s.hasClock && time.Now().After(s.deadline) {
			return true
		}
	}
	return false
}

// pvs is principal variation search at one node: window (alpha, beta), the
// given depth remaining, ply from the root, and whether this node is on the
// principal variation.
func (s *Search) pvs(ctx context.Context, b *board.Board, alpha, beta eval.Score, depth, ply int, pvt *pvTable, isPV bool) (eval.Score, bool) {
	pvt.clear(ply)

	if s.aborted() {
		return 0, true
	}

	if depth == 0 {
		score, aborted := s.quiescence(b, alpha, beta, ply)
		return score, aborted
	}

	if b.IsFiftyMoveDraw() || b.IsRepetitionDraw() {
		return eval.Draw, false
	}

	side := b.SideToMove()
	hash := b.Hash()

	var ttMove board.Move
	hasTTMove := false
	if s.tt != nil {
		if e, ok := s.tt.Probe(hash); ok {
			hasTTMove = true
			ttMove = e.Move
			if e.Depth >= depth {
				if !isPV {
					switch e.Bound {
					case Exact:
						return e.Score, false
					case Lower:
						if e.Score >= beta {
							return e.Score, false
						}
					case Upper:
						if e.Score <= alpha {
							return e.Score, false
						}
					}
				} else if e.Bound == Exact {
					return e.Score, false
				}
			}
		}
	}

	moves := board.Generate(b, side)
	orderMoves(moves, side, ttMove, hasTTMove, &s.killers, ply, &s.history)

	origAlpha := alpha
	best := -eval.Inf
	var bestMove board.Move
	haveBestMove := false
	legal := 0

	for _, m := range moves {
		if !board.MakeMove(b, m) {
			continue
		}
		legal++
		s.nodes++

		var childScore eval.Score
		var aborted bool
		if legal == 1 {
			childScore, aborted = s.pvs(ctx, b, -beta, -alpha, depth-1, ply+1, pvt, isPV)
			childScore = -childScore
		} else {
			childScore, aborted = s.pvs(ctx, b, -alpha-1, -alpha, depth-1, ply+1, pvt, false)
			childScore = -childScore
			if !aborted && childScore > alpha && childScore < beta {
				childScore, aborted = s.pvs(ctx, b, -beta, -alpha, depth-1, ply+1, pvt, isPV)
				childScore = -childScore
			}
		}

		board.UnmakeMove(b)

		if aborted {
			return 0, true
		}

		if childScore > best {
			best = childScore
			bestMove = m
			haveBestMove = true
		}
		if childScore > alpha {
			alpha = childScore
			pvt.set(ply, m, pvt.get(ply+1))
		}
		if alpha >= beta {
			if !m.IsCapture() {
				s.killers.Update(ply, m)
				s.history.Bump(side, m, depth)
			}
			break
		}
	}

	if legal == 0 {
		if b.IsInCheck(side) {
			return -(eval.Mate - eval.Score(ply)), false
		}
		return eval.Draw, false
	}

	if s.tt != nil && haveBestMove {
		bound := Exact
		switch {
		case best <= origAlpha:
			bound = Upper
		case best >= beta:
			bound = Lower
		}
		s.tt.Store(Entry{Key: hash, Depth: depth, Score: best, Move: bestMove, Bound: bound})
	}

	return best, false
}

// quiescence extends the search with captures only, to avoid misjudging a
// position mid-exchange.
func (s *Search) quiescence(b *board.Board, alpha, beta eval.Score, ply int) (eval.Score, bool) {
	if s.aborted() {
		return 0, true
	}

	if b.IsFiftyMoveDraw() || b.IsRepetitionDraw() {
		return eval.Draw, false
	}

	standPat := eval.Evaluate(b)
	if standPat >= beta {
		return beta, false
	}
	if standPat > alpha {
		alpha = standPat
	}

	side := b.SideToMove()
	captures := board.GenerateCaptures(b, side)
	orderCaptures(captures)

	best := standPat
	for _, m := range captures {
		if !board.MakeMove(b, m) {
			continue
		}
		s.nodes++

		childScore, aborted := s.quiescence(b, -beta, -alpha, ply+1)
		childScore = -childScore

		board.UnmakeMove(b)

		if aborted {
			return 0, true
		}

		if childScore > best {
			best = childScore
		}
		if childScore > alpha {
			alpha = childScore
		}
		if alpha >= beta {
			break
		}
	}

	return best, false
}
