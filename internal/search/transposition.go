package search

import (
	"sync"

	"github.com/talonchess/talon/internal/board"
	"github.com/talonchess/talon/internal/eval"
)

// BoundType classifies a stored score relative to the window it was found in.
type BoundType uint8

const (
	// Exact means the stored score is the node's true minimax value.
	Exact BoundType = iota
	// Lower means the stored score is a lower bound: the real value is at
	// least this (a beta cutoff occurred).
	Lower
	// Upper means the stored score is an upper bound: the real value is at
	// most this (the node failed low).
	Upper
)

func (b BoundType) String() string {
	switch b {
	case Exact:
		return "exact"
	case Lower:
		return "lower"
	case Upper:
		return "upper"
	default:
		return "?"
	}
}

// Entry is one transposition table slot.
type Entry struct {
	Key   board.ZobristHash
	Depth int
	Score eval.Score
	Move  board.Move
	Bound BoundType
}

// entrySize approximates the memory footprint of one Entry, used to size the
// table from a megabyte budget.
const entrySize = 32

// Table is a fixed-capacity, hash-indexed transposition table. Probe and
// store both use key % capacity; store replaces the incumbent only when the
// new entry's depth is at least as deep.
type Table struct {
	mu      sync.Mutex
	entries []Entry
	filled  []bool
}

// NewTable allocates a table sized from a megabyte budget. A zero or
// negative budget yields a table with a single slot.
func NewTable(megabytes int) *Table {
	capacity := (megabytes << 20) / entrySize
	if capacity < 1 {
		capacity = 1
	}
	return &Table{
		entries: make([]Entry, capacity),
		filled:  make([]bool, capacity),
	}
}

func (t *Table) slot(key board.ZobristHash) int {
	return int(uint64(key) % uint64(len(t.entries)))
}

// Probe returns the entry stored for key, if its key matches exactly
// (collisions simply miss).
func (t *Table) Probe(key board.ZobristHash) (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.slot(key)
	if !t.filled[i] || t.entries[i].Key != key {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Store writes e into its slot, replacing the incumbent only if e is at
// least as deep.
func (t *Table) Store(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.slot(e.Key)
	if t.filled[i] && t.entries[i].Depth > e.Depth {
		return
	}
	t.entries[i] = e
	t.filled[i] = true
}

// Clear empties the table without reallocating.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.filled {
		t.filled[i] = false
	}
}

// Len returns the table's entry capacity.
func (t *Table) Len() int {
	return len(t.entries)
}

// Used returns the fraction of slots currently occupied, in [0,1].
func (t *Table) Used() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	var n int
	for _, f := range t.filled {
		if f {
			n++
		}
	}
	return float64(n) / float64(len(t.filled))
}
