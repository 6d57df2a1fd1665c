package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/seekerror/logw"
)

// InputLines scans r line by line into a channel, closed on EOF or read
// error. Async.
func InputLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string, 1)
	go func() {
		defer close(lines)

		sc := bufio.NewScanner(r)
		for sc.Scan() {
			logw.Debugf(ctx, "<< %v", sc.Text())
			lines <- sc.Text()
		}
	}()
	return lines
}

// OutputLines drains the channel into w, one write per line, until the
// channel is closed.
func OutputLines(ctx context.Context, w io.Writer, lines <-chan string) {
	for line := range lines {
		logw.Debugf(ctx, ">> %v", line)
		_, _ = fmt.Fprintln(w, line)
	}
}
