package convert

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/mpkio/internal/operator"
)

// Result is the outcome of one operator in a batch.
type Result struct {
	Op     operator.Operator
	Status operator.Status
	Err    error
	Dur    time.Duration
}

// Batch executes ops with at most limit in flight. Every op runs to
// completion; failures are reported per result rather than cancelling the
// rest. Results keep the order of ops.
func Batch(ctx context.Context, loader operator.Loader, ops []operator.Operator, limit int) []Result {
	if limit < 1 {
		limit = 1
	}
	results := make([]Result, len(ops))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, op := range ops {
		g.Go(func() error {
			start := time.Now()
			status, err := operator.Execute(ctx, op, loader)
			results[i] = Result{Op: op, Status: status, Err: err, Dur: time.Since(start)}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
