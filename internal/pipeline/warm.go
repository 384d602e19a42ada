package pipeline

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/ice-climatology-map/internal/domain"
)

// Failure is one selection Warm could not produce.
type Failure struct {
	Selection domain.Selection `json:"selection"`
	Err       error            `json:"-"`
	Message   string           `json:"error"`
}

// WarmReport summarizes a Warm run.
type WarmReport struct {
	Generated int           `json:"generated"`
	Cached    int           `json:"cached"`
	Failed    []Failure     `json:"failed"`
	Duration  time.Duration `json:"duration_ns"`
}

// Warm ensures an artifact exists for every selection, running at most
// concurrency renders at once. Individual failures are collected in the
// report rather than stopping the run; only cancellation of ctx is returned
// as an error.
func (d *Dispatcher) Warm(ctx context.Context, selections []domain.Selection, concurrency int) (WarmReport, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	start := time.Now()

	var (
		mu     sync.Mutex
		report WarmReport
	)
	g := new(errgroup.Group)
	g.SetLimit(concurrency)

	for _, sel := range selections {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := d.EnsureMap(ctx, sel)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				report.Failed = append(report.Failed, Failure{Selection: sel, Err: err, Message: err.Error()})
			case res.Cached:
				report.Cached++
			default:
				report.Generated++
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(report.Failed, func(i, j int) bool {
		return report.Failed[i].Selection.Key() < report.Failed[j].Selection.Key()
	})
	report.Duration = time.Since(start)

	d.logger.Info("warm complete",
		"selections", len(selections),
		"generated", report.Generated,
		"cached", report.Cached,
		"failed", len(report.Failed),
		"duration", report.Duration,
	)
	return report, ctx.Err()
}
