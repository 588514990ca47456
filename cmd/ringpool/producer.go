package main

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/randomizedcoder/ringpool/internal/config"
	"github.com/randomizedcoder/ringpool/internal/pool"
	"github.com/randomizedcoder/ringpool/internal/tick"
)

type stats struct {
	accepted atomic.Int64
	executed atomic.Int64
	shed     atomic.Int64
}

// produce submits cfg.Tasks tasks. Producers share one ticker; whichever
// wins a tick logs progress for all of them.
func produce(ctx context.Context, p *pool.Pool, cfg config.Config, id int, ticker *tick.AtomicTicker, st *stats, logger zerolog.Logger) error {
	var limiter *rate.Limiter
	if cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}

	task := func() {
		if cfg.TaskDuration > 0 {
			time.Sleep(cfg.TaskDuration)
		}
		st.executed.Add(1)
	}

	for i := 0; i < cfg.Tasks; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return fmt.Errorf("producer %d: %w", id, err)
			}
		}

		var err error
		if cfg.Retry {
			err = p.SubmitWait(ctx, task)
		} else {
			err = p.Submit(task)
		}
		switch {
		case err == nil:
			st.accepted.Add(1)
		case errors.Is(err, pool.ErrQueueFull):
			st.shed.Add(1)
		default:
			return fmt.Errorf("producer %d: %w", id, err)
		}

		if ticker.Tick() {
			logger.Info().
				Int64("accepted", st.accepted.Load()).
				Int64("executed", st.executed.Load()).
				Int64("shed", st.shed.Load()).
				Msg("progress")
		}
	}
	return nil
}

func (st *stats) print(elapsed time.Duration, panics int) {
	executed := st.executed.Load()

	fmt.Printf("\nResults:\n")
	fmt.Printf("  Accepted:  %d\n", st.accepted.Load())
	fmt.Printf("  Executed:  %d\n", executed)
	fmt.Printf("  Shed:      %d\n", st.shed.Load())
	fmt.Printf("  Panicked:  %d\n", panics)
	fmt.Printf("  Elapsed:   %v\n", elapsed)

	if elapsed > 0 {
		fmt.Printf("\nThroughput:\n")
		fmt.Printf("  %.2f K tasks/sec\n", float64(executed)/elapsed.Seconds()/1000)
	}
}
