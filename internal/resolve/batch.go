package resolve

import (
	"context"
	"time"

	"github.com/overcite/overcite/internal/bibtex"
)

// DefaultDelay is the inter-request pause between entries in a batch, a
// client-side throttle on top of whatever rate limiting the capability
// itself performs.
const DefaultDelay = 150 * time.Millisecond

// ProgressFunc is called after each entry completes, with the number done,
// the batch total, and the entry's result.
type ProgressFunc func(done, total int, latest Result)

// BatchOptions configures Batch. The zero value uses DefaultDelay and no
// progress reporting.
type BatchOptions struct {
	// Delay is the minimum pause between consecutive entries. Zero means
	// DefaultDelay; negative means no pause.
	Delay time.Duration

	OnProgress ProgressFunc
}

// Batch resolves entries one at a time, in input order, pausing between
// entries. Output order equals input order. Per-entry failures land in the
// corresponding Result; a context cancellation or a contract violation
// stops the batch and returns the results accumulated so far along with
// the error.
func Batch(ctx context.Context, entries []bibtex.Entry, lk Lookup, opts BatchOptions) ([]Result, error) {
	delay := opts.Delay
	if delay == 0 {
		delay = DefaultDelay
	}

	results := make([]Result, 0, len(entries))
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := One(ctx, e, lk)
		if err != nil {
			return results, err
		}
		results = append(results, res)

		if opts.OnProgress != nil {
			opts.OnProgress(i+1, len(entries), res)
		}

		if delay > 0 && i < len(entries)-1 {
			if err := sleep(ctx, delay); err != nil {
				return results, err
			}
		}
	}

	return results, nil
}

// sleep pauses for d or until the context is done.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
