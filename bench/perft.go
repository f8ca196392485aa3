package bench

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/daystram/rulebook/board"
)

// Stats counts leaf nodes and the kind of move that produced each one.
type Stats struct {
	Nodes      uint64
	Captures   uint64
	Castles    uint64
	Promotions uint64
	Checks     uint64
}

func (s *Stats) add(o *Stats) {
	atomic.AddUint64(&s.Nodes, o.Nodes)
	atomic.AddUint64(&s.Captures, o.Captures)
	atomic.AddUint64(&s.Castles, o.Castles)
	atomic.AddUint64(&s.Promotions, o.Promotions)
	atomic.AddUint64(&s.Checks, o.Checks)
}

// Perft walks every safe move sequence to depth and reports the totals on out. With
// verbose, each root move's subtree size is reported first.
func Perft(depth int, fen string, parallel, verbose bool, out chan string) (*Stats, error) {
	b, err := board.NewBoard(
		board.WithFEN(fen),
	)
	if err != nil {
		return nil, err
	}

	var run perftFunc
	if parallel {
		run = runPerftParallel
	} else {
		run = runPerft
	}

	st := &Stats{}
	start := time.Now()
	run(b, depth, true, verbose, out, st)
	elapsed := time.Since(start)

	emit(out, message.NewPrinter(language.English).
		Sprintf("d=%d nodes=%d rate=%dn/s cap=%d cas=%d pro=%d chk=%d (%.3fs elapsed)",
			depth, st.Nodes, int(float64(st.Nodes)/(elapsed.Seconds()+1e-9)), st.Captures, st.Castles, st.Promotions, st.Checks, elapsed.Seconds()))

	return st, nil
}

type perftFunc func(b *board.Board, d int, root, verbose bool, out chan string, st *Stats) uint64

func runPerft(b *board.Board, d int, root, verbose bool, out chan string, st *Stats) uint64 {
	if d == 0 {
		st.Nodes++
		return 1
	}

	var sum uint64
	for _, req := range b.SafeMoves(b.Turn()) {
		mv, unApply, err := b.Apply(req.From, req.To, req.Promote)
		if err != nil {
			continue
		}
		var child uint64
		if d == 1 {
			child = 1
			st.Nodes++
			countLeaf(b, mv, st)
		} else {
			child = runPerft(b, d-1, false, verbose, out, st)
		}
		unApply()

		if verbose && root {
			emit(out, fmt.Sprintf("%s: %d", mv.UCI(), child))
		}
		sum += child
	}
	return sum
}

// runPerftParallel fans the root moves out, one cloned board per goroutine.
func runPerftParallel(b *board.Board, d int, root, verbose bool, out chan string, st *Stats) uint64 {
	if d <= 1 {
		return runPerft(b, d, root, verbose, out, st)
	}

	var sum uint64
	var wg sync.WaitGroup
	for _, req := range b.SafeMoves(b.Turn()) {
		req := req
		wg.Add(1)
		go func() {
			defer wg.Done()
			bb := b.Clone()
			mv, _, err := bb.Apply(req.From, req.To, req.Promote)
			if err != nil {
				return
			}
			local := &Stats{}
			child := runPerft(bb, d-1, false, verbose, out, local)
			st.add(local)
			if verbose && root {
				emit(out, fmt.Sprintf("%s: %d", mv.UCI(), child))
			}
			atomic.AddUint64(&sum, child)
		}()
	}
	wg.Wait()
	return sum
}

func countLeaf(b *board.Board, mv *board.Move, st *Stats) {
	if mv.IsCapture {
		st.Captures++
	}
	if mv.IsCastle != board.CastleDirectionUnknown {
		st.Castles++
	}
	if mv.IsPromote != board.KindUnknown {
		st.Promotions++
	}
	if b.IsUnderAttack(mv.IsTurn.Opposite()) {
		st.Checks++
	}
}

func emit(out chan string, line string) {
	if out != nil {
		out <- line
	}
}
