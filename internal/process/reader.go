package process

import (
	"bufio"
	"context"
	"io"
	"strings"
	"unicode"
)

// readLines forwards every line read from r to out, trailing whitespace
// stripped, until r reaches end of stream or fails. A read error is not
// reported: closing the pipe is how a reader learns its process stopped.
//
// Sends block while out is full. The send is abandoned when ctx is done so
// a reader never outlives the supervisor.
func readLines(ctx context.Context, r io.Reader, out chan<- string) {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			select {
			case out <- strings.TrimRightFunc(line, unicode.IsSpace):
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			return
		}
	}
}
