// Package engine ties the board, transposition table and searcher together
// behind a single dispatcher goroutine, reachable through a bounded message
// queue rather than direct mutex-guarded calls.
package engine

import (
	"context"
	"fmt"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/talonchess/talon/internal/board"
	"github.com/talonchess/talon/internal/fen"
	"github.com/talonchess/talon/internal/mq"
	"github.com/talonchess/talon/internal/search"
)

var version = build.NewVersion(0, 1, 0)

// DefaultHash is the transposition table size in MB used when no "setoption
// name Hash" has been received yet.
const DefaultHash = 256

// Options are the engine's mutable runtime defaults.
type Options struct {
	Depth int // 0 == no limit
	Hash  int // MB
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%vMB}", o.Depth, o.Hash)
}

// Option configures a Dispatcher at construction time.
type Option func(*Dispatcher)

// WithOptions seeds the dispatcher's default search options.
func WithOptions(opts Options) Option {
	return func(d *Dispatcher) {
		d.opts = opts
	}
}

type kind uint8

const (
	cmdReset kind = iota
	cmdNewGame
	cmdMove
	cmdAnalyze
	cmdHalt
	cmdSetHash
	cmdSideToMove
)

// command is the single message type the dispatcher goroutine pops off its
// queue; only the fields relevant to kind are populated.
type command struct {
	kind kind

	fen     string
	moveStr string
	opts    search.Options
	hashMB  int

	reply  chan error
	launch chan launchResult
	halt   chan search.PV
	color  chan board.Color
}

type launchResult struct {
	out <-chan search.PV
	err error
}

// active tracks the in-flight search so Halt can stop it and retrieve its
// final PV without racing the search goroutine's writes.
type active struct {
	s    *search.Search
	done chan struct{}
	pv   search.PV
}

// Dispatcher owns the Board and transposition table exclusively: only its
// Run goroutine ever touches them, with all access serialized through cmds.
type Dispatcher struct {
	name, author string
	opts         Options

	zt *board.ZobristTable
	b  *board.Board
	tt *search.Table

	// active is read and written only by the Run goroutine while handling
	// commands, so it needs no lock of its own.
	active *active

	cmds *mq.Queue[command]
}

// New constructs a Dispatcher at the standard starting position.
func New(ctx context.Context, name, author string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		name:   name,
		author: author,
		opts:   Options{Hash: DefaultHash},
		cmds:   mq.New[command](64),
	}
	for _, fn := range opts {
		fn(d)
	}

	d.zt = board.NewZobristTable(0)
	d.b = board.NewBoard(d.zt)
	d.tt = search.NewTable(d.opts.Hash)
	if err := fen.Load(d.b, fen.Initial); err != nil {
		logw.Exitf(ctx, "Failed to load initial position: %v", err)
	}

	logw.Infof(ctx, "Initialized engine: %v, options=%v", d.Name(), d.opts)
	return d
}

// Name returns the engine name and version, for the UCI "id name" line.
func (d *Dispatcher) Name() string {
	return fmt.Sprintf("%v %v", d.name, version)
}

// Author returns the UCI "id author" value.
func (d *Dispatcher) Author() string {
	return d.author
}

// Run pops commands off the queue and executes them until the queue closes.
// It must be the only goroutine that ever touches d.b or d.tt.
func (d *Dispatcher) Run(ctx context.Context) {
	logw.Infof(ctx, "Dispatcher started")
	for {
		cmd, ok := d.cmds.Pop()
		if !ok {
			logw.Infof(ctx, "Dispatcher queue closed, exiting")
			return
		}
		d.handle(ctx, cmd)
	}
}

// Quit closes the command queue, causing Run to return once it is drained.
func (d *Dispatcher) Quit() {
	d.cmds.Close()
}

func (d *Dispatcher) push(ctx context.Context, cmd command) error {
	return d.cmds.Push(cmd)
}

// Reset loads a new position, halting any active search first.
func (d *Dispatcher) Reset(ctx context.Context, position string) error {
	reply := make(chan error, 1)
	if err := d.push(ctx, command{kind: cmdReset, fen: position, reply: reply}); err != nil {
		return err
	}
	return <-reply
}

// NewGame reloads the position and clears the transposition table, for the
// UCI "ucinewgame" transition.
func (d *Dispatcher) NewGame(ctx context.Context, position string) error {
	reply := make(chan error, 1)
	if err := d.push(ctx, command{kind: cmdNewGame, fen: position, reply: reply}); err != nil {
		return err
	}
	return <-reply
}

// Move applies a single pure-coordinate move (e.g. "e2e4", "a7a8q") to the
// current position, halting any active search first.
func (d *Dispatcher) Move(ctx context.Context, moveStr string) error {
	reply := make(chan error, 1)
	if err := d.push(ctx, command{kind: cmdMove, moveStr: moveStr, reply: reply}); err != nil {
		return err
	}
	return <-reply
}

// SetHash resizes the transposition table, halting any active search first.
func (d *Dispatcher) SetHash(ctx context.Context, mb int) error {
	reply := make(chan error, 1)
	if err := d.push(ctx, command{kind: cmdSetHash, hashMB: mb, reply: reply}); err != nil {
		return err
	}
	return <-reply
}

// Analyze starts a search over the current position and returns a channel
// of successively deeper PVs, closed when the search completes. Returns an
// error if a search is already active.
func (d *Dispatcher) Analyze(ctx context.Context, opt search.Options) (<-chan search.PV, error) {
	launch := make(chan launchResult, 1)
	if err := d.push(ctx, command{kind: cmdAnalyze, opts: opt, launch: launch}); err != nil {
		return nil, err
	}
	res := <-launch
	return res.out, res.err
}

// Halt stops the active search and returns its final PV. Returns an error if
// no search is active.
func (d *Dispatcher) Halt(ctx context.Context) (search.PV, error) {
	halt := make(chan search.PV, 1)
	reply := make(chan error, 1)
	if err := d.push(ctx, command{kind: cmdHalt, halt: halt, reply: reply}); err != nil {
		return search.PV{}, err
	}
	if err := <-reply; err != nil {
		return search.PV{}, err
	}
	return <-halt, nil
}

// SideToMove reports the side to move in the current position, used by a
// UCI driver to attribute wtime/btime and winc/binc to this engine.
func (d *Dispatcher) SideToMove(ctx context.Context) board.Color {
	color := make(chan board.Color, 1)
	if err := d.push(ctx, command{kind: cmdSideToMove, color: color}); err != nil {
		return board.White
	}
	return <-color
}

func (d *Dispatcher) handle(ctx context.Context, cmd command) {
	switch cmd.kind {
	case cmdReset, cmdNewGame:
		d.haltActive(ctx)
		logw.Infof(ctx, "Reset %v", cmd.fen)

		pos, err := fen.Decode(cmd.fen)
		if err != nil {
			cmd.reply <- err
			return
		}
		if cmd.kind == cmdNewGame {
			d.tt.Clear()
		}
		err = d.b.Reset(pos.Placements, pos.Turn, pos.Castling, pos.EnPassant, pos.Halfmove, pos.Fullmove)
		cmd.reply <- err

	case cmdMove:
		d.haltActive(ctx)
		logw.Infof(ctx, "Move %v", cmd.moveStr)

		candidate, err := board.ParseMove(cmd.moveStr)
		if err != nil {
			cmd.reply <- fmt.Errorf("invalid move: %w", err)
			return
		}

		side := d.b.SideToMove()
		for _, m := range board.Generate(d.b, side) {
			if !candidate.Equals(m) {
				continue
			}
			if !board.MakeMove(d.b, m) {
				cmd.reply <- fmt.Errorf("illegal move: %v", m)
				return
			}
			cmd.reply <- nil
			return
		}
		cmd.reply <- fmt.Errorf("invalid move: %v", candidate)

	case cmdSetHash:
		d.haltActive(ctx)
		d.opts.Hash = cmd.hashMB
		d.tt = search.NewTable(cmd.hashMB)
		logw.Infof(ctx, "Hash resized to %vMB", cmd.hashMB)
		cmd.reply <- nil

	case cmdAnalyze:
		if d.active != nil {
			// Reap a search that ran to completion on its own; only a search
			// still in flight blocks a new one.
			select {
			case <-d.active.done:
				d.active = nil
			default:
				cmd.launch <- launchResult{err: fmt.Errorf("search already active")}
				return
			}
		}
		if _, ok := cmd.opts.DepthLimit.V(); !ok && d.opts.Depth > 0 {
			cmd.opts.DepthLimit = lang.Some(d.opts.Depth)
		}

		out := make(chan search.PV, 400)
		a := &active{s: search.New(d.tt), done: make(chan struct{})}
		d.active = a

		logw.Infof(ctx, "Analyze %v", cmd.opts)

		go func() {
			pv := a.s.Run(ctx, d.b, cmd.opts, out)
			a.pv = pv
			close(out)
			close(a.done)
		}()

		cmd.launch <- launchResult{out: out}

	case cmdHalt:
		if d.active == nil {
			cmd.reply <- fmt.Errorf("no active search")
			return
		}
		pv := d.stopActive(ctx)
		cmd.reply <- nil
		cmd.halt <- pv

	case cmdSideToMove:
		cmd.color <- d.b.SideToMove()
	}
}

// haltActive stops any in-flight search and discards its result. Every
// board-mutating command goes through here first, so the searcher never sees
// the board change under it.
func (d *Dispatcher) haltActive(ctx context.Context) {
	if d.active == nil {
		return
	}
	d.stopActive(ctx)
}

func (d *Dispatcher) stopActive(ctx context.Context) search.PV {
	a := d.active
	a.s.Stop()
	<-a.done
	logw.Infof(ctx, "Search halted: %v", a.pv)
	d.active = nil
	return a.pv
}
