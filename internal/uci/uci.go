// Package uci contains a driver for using the engine under the UCI protocol.
//
// See: http://wbec-ridderkerk.nl/html/UCIProtocol.html
package uci

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"

	"github.com/talonchess/talon/internal/board"
	"github.com/talonchess/talon/internal/engine"
	"github.com/talonchess/talon/internal/eval"
	"github.com/talonchess/talon/internal/fen"
	"github.com/talonchess/talon/internal/search"
)

// ProtocolName is the line a GUI sends to select this protocol.
const ProtocolName = "uci"

// Driver implements a UCI driver for an engine. It is activated if sent "uci".
type Driver struct {
	e *engine.Dispatcher

	out chan<- string

	active       atomic.Bool // user is waiting for engine to move
	ponder       chan search.PV
	lastPosition string // last "position" line (empty if none yet)

	quit   chan struct{}
	closed atomic.Bool
}

// NewDriver starts the driver's processing loop and returns its output
// channel. The loop stops when in is closed or "quit" is received.
func NewDriver(ctx context.Context, e *engine.Dispatcher, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:      e,
		out:    out,
		ponder: make(chan search.PV, 400),
		quit:   make(chan struct{}),
	}
	go d.process(ctx, in)

	return d, out
}

// Close stops the driver's processing loop, if still running.
func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

// Closed reports when the driver has stopped.
func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "UCI protocol initialized")

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())
	d.out <- "option name Threads type spin default 1 min 1 max 1"
	d.out <- fmt.Sprintf("option name Hash type spin default %v min 1 max 4096", engine.DefaultHash)
	d.out <- "uciok"

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}
			if !d.dispatch(ctx, line) {
				return
			}

		case pv := <-d.ponder:
			if d.active.Load() {
				d.out <- printPV(pv)
			}

		case <-d.quit:
			d.ensureInactive(ctx)
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

// dispatch handles one input line. It returns false if the driver should
// stop processing further input, which happens only on quit.
func (d *Driver) dispatch(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	cmd := fields[0]
	args := fields[1:]

	switch strings.ToLower(cmd) {
	case "isready":
		d.out <- "readyok"

	case "debug":
		// Accepted, no-op: the dispatcher logs unconditionally via logw.

	case "setoption":
		d.handleSetOption(ctx, args)

	case "register":
		// Registration is not required by this engine.

	case "ucinewgame":
		d.ensureInactive(ctx)
		d.lastPosition = ""
		if err := d.e.NewGame(ctx, fen.Initial); err != nil {
			logw.Errorf(ctx, "ucinewgame reset failed: %v", err)
		}

	case "position":
		d.handlePosition(ctx, line, args)

	case "go":
		d.handleGo(ctx, line, args)

	case "stop":
		pv, err := d.e.Halt(ctx)
		if err == nil {
			d.searchCompleted(ctx, pv)
		}

	case "ponderhit":
		// Pondering is treated as infinite search; nothing to switch.

	case "quit":
		return false

	default:
		logw.Warningf(ctx, "Unknown command %q: %v", cmd, args)
	}

	return true
}

func (d *Driver) handleSetOption(ctx context.Context, args []string) {
	var name, value string
	if len(args) > 1 {
		name = args[1]
	}
	if len(args) > 3 {
		value = strings.Join(args[3:], " ")
	}

	switch name {
	case "Hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb <= 0 {
			d.out <- fmt.Sprintf("info string invalid Hash value %q", value)
			return
		}
		if err := d.e.SetHash(ctx, mb); err != nil {
			d.out <- fmt.Sprintf("info string %v", err)
		}
	case "Threads":
		// Advisory in this single-threaded core: accepted and ignored.
	default:
		d.out <- fmt.Sprintf("info string unknown option %q", name)
	}
}

func (d *Driver) handlePosition(ctx context.Context, line string, args []string) {
	d.ensureInactive(ctx)

	if d.lastPosition != "" && strings.HasPrefix(line, d.lastPosition) {
		moves := strings.TrimSpace(strings.TrimPrefix(line, d.lastPosition))
		for _, arg := range strings.Fields(moves) {
			if arg == "moves" {
				continue
			}
			if err := d.e.Move(ctx, arg); err != nil {
				logw.Errorf(ctx, "Invalid position move %q: %v: %v", arg, line, err)
				return
			}
		}
		d.lastPosition = line
		return
	}

	position := fen.Initial
	if len(args) >= 7 && args[0] == "fen" {
		position = strings.Join(args[1:7], " ")
	}

	if err := d.e.Reset(ctx, position); err != nil {
		logw.Errorf(ctx, "Invalid position %q: %v", line, err)
		return
	}

	move := false
	for _, arg := range args {
		if arg == "moves" {
			move = true
			continue
		}
		if !move {
			continue
		}
		if err := d.e.Move(ctx, arg); err != nil {
			logw.Errorf(ctx, "Invalid position move %q: %v: %v", arg, line, err)
			return
		}
	}
	d.lastPosition = line
}

func (d *Driver) handleGo(ctx context.Context, line string, args []string) {
	d.ensureInactive(ctx)

	var opt search.Options
	var tc search.TimeControl
	hasClock := false
	hasMoveTime := false
	var moveTime time.Duration
	infinite := false

	engineColor := d.e.SideToMove(ctx)

	for i := 0; i < len(args); i++ {
		cmd := args[i]
		switch cmd {
		case "wtime", "btime", "winc", "binc", "movestogo", "depth", "nodes", "movetime", "mate":
			i++
			if i == len(args) {
				logw.Errorf(ctx, "No argument for %v: %v", cmd, line)
				return
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				logw.Errorf(ctx, "Invalid argument for %v: %v", line, err)
				return
			}

			switch cmd {
			case "depth":
				opt.DepthLimit = lang.Some(n)
			case "nodes":
				opt.NodeLimit = lang.Some(uint64(n))
			case "mate":
				// Treated as a depth hint: search deep enough to find short mates.
				if cur, ok := opt.DepthLimit.V(); !ok || cur < n*2 {
					opt.DepthLimit = lang.Some(n * 2)
				}
			case "movetime":
				hasMoveTime = true
				moveTime = time.Millisecond * time.Duration(n)
			case "wtime":
				if engineColor == board.White {
					hasClock = true
					tc.Remaining = time.Millisecond * time.Duration(n)
				}
			case "btime":
				if engineColor == board.Black {
					hasClock = true
					tc.Remaining = time.Millisecond * time.Duration(n)
				}
			case "winc":
				if engineColor == board.White {
					tc.Increment = time.Millisecond * time.Duration(n)
				}
			case "binc":
				if engineColor == board.Black {
					tc.Increment = time.Millisecond * time.Duration(n)
				}
			case "movestogo":
				tc.Moves = n
			}

		case "infinite":
			infinite = true

		case "ponder":
			infinite = true

		default:
			// searchmoves and anything else unhandled: silently ignored.
		}
	}

	if !infinite {
		if hasMoveTime {
			opt.MoveTime = lang.Some(moveTime)
		}
		if hasClock {
			opt.TimeControl = lang.Some(tc)
		}
	}

	out, err := d.e.Analyze(ctx, opt)
	if err != nil {
		logw.Errorf(ctx, "Analyze failed: %v", err)
		return
	}
	d.active.Store(true)

	go func() {
		var last search.PV
		for pv := range out {
			last = pv
			d.ponder <- pv
		}
		if !infinite {
			d.searchCompleted(ctx, last)
		}
	}()
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

func (d *Driver) searchCompleted(ctx context.Context, pv search.PV) {
	if d.active.CAS(true, false) {
		if len(pv.Moves) > 0 {
			d.out <- printPV(pv)
			d.out <- fmt.Sprintf("bestmove %v", pv.Moves[0])
		} else {
			d.out <- "bestmove 0000"
		}
	} // else: stale or duplicate result
}

func printPV(pv search.PV) string {
	parts := []string{"info"}
	parts = append(parts, fmt.Sprintf("depth %v", pv.Depth))
	if eval.IsMate(pv.Score) {
		parts = append(parts, fmt.Sprintf("score mate %v", eval.MateIn(pv.Score)))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %v", int(pv.Score)))
	}
	parts = append(parts, fmt.Sprintf("nodes %v", pv.Nodes))
	parts = append(parts, fmt.Sprintf("time %v", pv.Time.Milliseconds()))
	if pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %v", uint64(time.Second)*pv.Nodes/uint64(pv.Time)))
	}
	if len(pv.Moves) > 0 {
		moves := make([]string, len(pv.Moves))
		for i, m := range pv.Moves {
			moves[i] = m.String()
		}
		parts = append(parts, "pv")
		parts = append(parts, strings.Join(moves, " "))
	}

	return strings.Join(parts, " ")
}
