package engine

import (
	"context"
	"time"

	"github.com/lattice-dev/lattice/internal/result"
	"github.com/lattice-dev/lattice/internal/suite"
)

// unitOutcome is what a runnable settles to: nothing, or a thrown value.
type unitOutcome struct {
	thrown any
	failed bool
}

// runUnit executes one runnable under the timeout protocol: the function
// races the clock, and exactly one of pass, fail, or timeout results.
//
// A timeout does not abort the function. The goroutine's eventual write
// lands in the buffered channel and is discarded; the engine never acts
// on a late completion.
func (r *Runner) runUnit(ctx context.Context, name []string, filename string, fn suite.Func, limit time.Duration, mark result.Mark) *result.RunResult {
	t := suite.NewT(ctx, r.config)
	done := make(chan unitOutcome, 1)
	go func() {
		defer func() {
			if v := recover(); v != nil {
				done <- unitOutcome{thrown: v, failed: true}
			}
		}()
		if err := fn(t); err != nil {
			done <- unitOutcome{thrown: err, failed: true}
			return
		}
		done <- unitOutcome{}
	}()

	select {
	case out := <-done:
		if out.failed {
			return result.Fail(name, filename, out.thrown, mark, r.renderFn)
		}
		return result.Pass(name, filename)
	case <-r.clock.After(limit):
		return result.Timeout(name, filename, limit)
	case <-ctx.Done():
		return result.Fail(name, filename, ctx.Err(), mark, r.renderFn)
	}
}
