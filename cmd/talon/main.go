package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/seekerror/logw"

	"github.com/talonchess/talon/internal/engine"
	"github.com/talonchess/talon/internal/uci"
)

var (
	hash  = flag.Int("hash", engine.DefaultHash, "Transposition table size in MB")
	depth = flag.Int("depth", 0, "Maximum search depth (zero if unlimited)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: talon [options]

TALON is a UCI chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	e := engine.New(ctx, "talon", "talonchess", engine.WithOptions(engine.Options{
		Depth: *depth,
		Hash:  *hash,
	}))
	go e.Run(ctx)

	in := engine.InputLines(ctx, os.Stdin)
	switch <-in {
	case uci.ProtocolName:
		// Use UCI protocol.

		driver, out := uci.NewDriver(ctx, e, in)
		go engine.OutputLines(ctx, os.Stdout, out)

		<-driver.Closed()
		e.Quit()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
