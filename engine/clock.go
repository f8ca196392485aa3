package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/daystram/rulebook/board"
)

const (
	DefaultDepth uint8 = 2

	MaxMovetime       = 24 * time.Hour
	MaxDepth    uint8 = 64

	minMovetime = 50 * time.Millisecond

	expectedGameMoves         uint16 = 40
	movetimeAccumulationRatio        = 0.8
	movetimeMargin                   = 20 * time.Millisecond
)

type ClockMode uint8

const (
	ClockModeDepth ClockMode = iota
	ClockModeMovetime
	ClockModeInfinite
)

type Clock struct {
	mode              ClockMode
	allocatedMovetime time.Duration
	targetDepth       uint8

	done   *atomic.Bool
	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewClock() *Clock {
	c := &Clock{done: &atomic.Bool{}}
	c.done.Store(true)
	return c
}

type ClockConfig struct {
	WhiteTime      time.Duration
	BlackTime      time.Duration
	WhiteIncrement time.Duration
	BlackIncrement time.Duration

	Movetime time.Duration

	Depth    uint8
	Infinite bool
}

// Start arms the clock for one search. Time limits win over depth; with neither the
// search stops at DefaultDepth.
func (c *Clock) Start(ctx context.Context, turn board.Side, fullMoveClock uint16, cfg *ClockConfig) {
	c.Stop()
	c.allocatedMovetime = MaxMovetime
	c.targetDepth = MaxDepth
	// fresh flag per run, earlier timers keep their own
	done := &atomic.Bool{}
	c.done = done

	switch {
	case cfg.Movetime != 0 || cfg.WhiteTime != 0 || cfg.BlackTime != 0:
		c.mode = ClockModeMovetime
		if cfg.Movetime != 0 {
			c.allocatedMovetime = cfg.Movetime
		} else {
			phase := max(int64(expectedGameMoves)-int64(fullMoveClock), 1)
			if turn == board.SideWhite {
				c.allocatedMovetime = time.Duration(float64(cfg.WhiteTime)/float64(phase)) + time.Duration(float64(cfg.WhiteIncrement)*(1-movetimeAccumulationRatio))
			} else {
				c.allocatedMovetime = time.Duration(float64(cfg.BlackTime)/float64(phase)) + time.Duration(float64(cfg.BlackIncrement)*(1-movetimeAccumulationRatio))
			}
		}
		c.allocatedMovetime = max(c.allocatedMovetime, minMovetime)
		if cfg.Depth != 0 {
			c.targetDepth = min(cfg.Depth, MaxDepth)
		}
	case cfg.Infinite:
		c.mode = ClockModeInfinite
	default:
		c.mode = ClockModeDepth
		c.targetDepth = DefaultDepth
		if cfg.Depth != 0 {
			c.targetDepth = min(cfg.Depth, MaxDepth)
		}
	}

	var cctx context.Context
	c.mu.Lock()
	if c.mode == ClockModeMovetime {
		cctx, c.cancel = context.WithTimeout(ctx, c.allocatedMovetime-movetimeMargin)
	} else {
		cctx, c.cancel = context.WithCancel(ctx)
	}
	c.mu.Unlock()
	go func() {
		<-cctx.Done()
		done.Store(true)
	}()
}

// Stop may be called from any goroutine.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Clock) Mode() ClockMode {
	return c.mode
}

func (c *Clock) DoneByMovetime() bool {
	return c.done.Load()
}

func (c *Clock) DoneByDepth(depth uint8) bool {
	return depth > c.targetDepth
}
