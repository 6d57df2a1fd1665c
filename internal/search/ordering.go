package search

import (
	"sort"

	"github.com/talonchess/talon/internal/board"
)

// maxPly bounds the killer-move and PV tables; deeper killer lookups reuse
// the last slot, and PV lines beyond it are not recorded.
const maxPly = 128

// captureBias lifts every capture's ordering score above the quiet-move
// range, so MVV-LVA captures are always tried before killers or history.
const captureBias = 1_000_000

// ttMoveBias lifts the transposition table's move above everything else.
const ttMoveBias = 2_000_000

// mvvLvaValue ranks piece types for MVV-LVA purposes; higher is more valuable.
func mvvLvaValue(p board.Piece) int {
	switch p {
	case board.Pawn:
		return 1
	case board.Knight:
		return 3
	case board.Bishop:
		return 3
	case board.Rook:
		return 5
	case board.Queen:
		return 9
	case board.King:
		return 20
	default:
		return 0
	}
}

// Killers holds, per ply, the two most recent quiet moves that caused a beta
// cutoff.
type Killers struct {
	slots [maxPly][2]board.Move
}

func (k *Killers) clampPly(ply int) int {
	if ply >= maxPly {
		return maxPly - 1
	}
	return ply
}

// Update records m as the newest killer at ply, displacing the older slot.
func (k *Killers) Update(ply int, m board.Move) {
	ply = k.clampPly(ply)
	if k.slots[ply][0].Equals(m) {
		return
	}
	k.slots[ply][1] = k.slots[ply][0]
	k.slots[ply][0] = m
}

// Match reports whether m is a killer move recorded at ply.
func (k *Killers) Match(ply int, m board.Move) bool {
	ply = k.clampPly(ply)
	return k.slots[ply][0].Equals(m) || k.slots[ply][1].Equals(m)
}

// History is the per-(side, from, to) cutoff counter used to order quiet
// moves that are not killers.
type History struct {
	counts [board.NumColors][board.NumSquares][board.NumSquares]int
}

// Bump increments the counter for (side, m.From, m.To) by depth squared, so
// cutoffs near the root weigh more than deep ones.
func (h *History) Bump(side board.Color, m board.Move, depth int) {
	h.counts[side][m.From][m.To] += depth * depth
}

func (h *History) score(side board.Color, m board.Move) int {
	return h.counts[side][m.From][m.To]
}

// Score returns the current history-heuristic counter for (side, m.From, m.To).
func (h *History) Score(side board.Color, m board.Move) int {
	return h.score(side, m)
}

// orderMoves sorts moves in place, highest-scoring first: the TT move, then
// captures by MVV-LVA plus captureBias, then killer moves, then history
// heuristic for the remaining quiet moves.
func orderMoves(moves []board.Move, side board.Color, ttMove board.Move, hasTTMove bool, killers *Killers, ply int, history *History) {
	scores := make([]int, len(moves))
	for i, m := range moves {
		switch {
		case hasTTMove && m.Equals(ttMove):
			scores[i] = ttMoveBias
		case m.IsCapture():
			scores[i] = captureBias + mvvLvaValue(m.Capture)*16 - mvvLvaValue(m.Piece)
		case killers.Match(ply, m):
			scores[i] = captureBias - 32
		default:
			scores[i] = history.score(side, m)
		}
	}

	idx := make([]int, len(moves))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	ordered := make([]board.Move, len(moves))
	for i, j := range idx {
		ordered[i] = moves[j]
	}
	copy(moves, ordered)
}

// orderCaptures sorts a captures-only list by MVV-LVA, for quiescence search.
func orderCaptures(moves []board.Move) {
	sort.SliceStable(moves, func(a, b int) bool {
		sa := mvvLvaValue(moves[a].Capture)*16 - mvvLvaValue(moves[a].Piece)
		sb := mvvLvaValue(moves[b].Capture)*16 - mvvLvaValue(moves[b].Piece)
		return sa > sb
	})
}
