// Package runner executes queries on a worker goroutine so the interactive
// context is never blocked by a slow network round-trip.
//
// The design supports exactly one outstanding query at a time. The guard is
// a capacity-1 channel rather than an assumption: a second Run while one is
// in flight fails immediately with errs.ErrKindBusy.
package runner

import (
	"context"
	"time"

	"github.com/hawkdb/hawkdb/internal/errs"
	"github.com/hawkdb/hawkdb/internal/logger"
	"github.com/hawkdb/hawkdb/internal/result"
	"github.com/hawkdb/hawkdb/internal/session"
)

// Outcome is the single terminal message of one query run. Exactly one of
// Set or Err is meaningful: Err == nil means success and Set is the
// materialized result.
type Outcome struct {
	Set     *result.Set
	Elapsed time.Duration
	Err     error
}

// Runner dispatches queries to short-lived worker goroutines.
type Runner struct {
	log      *logger.Logger
	inFlight chan struct{}
}

// New returns a Runner allowing one query in flight.
func New(log *logger.Logger) *Runner {
	return &Runner{
		log:      log,
		inFlight: make(chan struct{}, 1),
	}
}

// Busy reports whether a query is currently in flight.
func (r *Runner) Busy() bool {
	return len(r.inFlight) == 1
}

// Run submits the query to sess on a worker goroutine and returns a channel
// that delivers exactly one Outcome, then closes. The channel is buffered,
// so the worker never blocks on delivery and an abandoned handle leaks
// nothing.
//
// If a query is already in flight, Run fails immediately with
// errs.ErrKindBusy and starts nothing.
func (r *Runner) Run(ctx context.Context, sess session.Session, query string) (<-chan Outcome, error) {
	select {
	case r.inFlight <- struct{}{}:
	default:
		return nil, errs.New(errs.ErrKindBusy, "a query is already in flight")
	}

	out := make(chan Outcome, 1)

	go func() {
		defer func() { <-r.inFlight }()

		start := time.Now()
		set, err := sess.ExecuteQuery(ctx, query)
		elapsed := time.Since(start)

		if err != nil {
			r.log.ErrorWith("query failed", err)
			out <- Outcome{Elapsed: elapsed, Err: err}
		} else {
			r.log.Infof("query returned %d row(s) in %s", set.RowCount(), elapsed)
			out <- Outcome{Set: set, Elapsed: elapsed}
		}
		close(out)
	}()

	return out, nil
}
