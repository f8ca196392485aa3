package main

import (
	"fmt"
	"io"

	"github.com/daystram/rulebook/bench"
)

func perft(w io.Writer, depth int, fen string, parallel bool) error {
	out := make(chan string, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for s := range out {
			fmt.Fprintln(w, s)
		}
	}()

	_, err := bench.Perft(depth, fen, parallel, true, out)
	close(out)
	<-done
	return err
}
