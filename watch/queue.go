package watch

import (
	"context"

	"go.uber.org/zap"
)

// RunFunc performs single pipeline run.
type RunFunc func(ctx context.Context) error

// Queue runs at most one RunFunc at a time. Requests made while a run is in
// flight collapse into a single follow-up run.
type Queue struct {
	log     *zap.Logger
	run     RunFunc
	pending chan struct{}
}

// NewQueue creates queue for run.
func NewQueue(log *zap.Logger, run RunFunc) *Queue {
	if log == nil {
		log = zap.NewNop()
	}
	return &Queue{
		log:     log.Named("queue"),
		run:     run,
		pending: make(chan struct{}, 1),
	}
}

// Schedule requests a run. It never blocks.
func (q *Queue) Schedule() {
	select {
	case q.pending <- struct{}{}:
	default:
		q.log.Debug("Run already pending")
	}
}

// Serve executes scheduled runs until context is done. Run errors are logged
// and do not stop the queue.
func (q *Queue) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.pending:
		}
		if err := q.run(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			q.log.Error("Run failed", zap.Error(err))
		}
	}
}
