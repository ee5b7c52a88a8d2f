package notify

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/talentbridge/internal/logging"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
)

// ErrPermanent marks a delivery failure that retrying cannot fix.
var ErrPermanent = errors.New("permanent delivery failure")

// Worker drains a Source and delivers messages through a Sender.
type Worker struct {
	source Source
	sender Sender
	logger logging.Logger

	maxRetries uint64
	baseDelay  time.Duration
	pollWait   time.Duration
}

type WorkerOption func(*Worker)

// WithBackoff overrides the retry budget and the first backoff delay.
func WithBackoff(maxRetries uint64, base time.Duration) WorkerOption {
	return func(w *Worker) {
		w.maxRetries = maxRetries
		w.baseDelay = base
	}
}

// WithPollWait sets how long a single Dequeue may block.
func WithPollWait(d time.Duration) WorkerOption {
	return func(w *Worker) { w.pollWait = d }
}

func NewWorker(source Source, sender Sender, logger logging.Logger, opts ...WorkerOption) *Worker {
	w := &Worker{
		source:     source,
		sender:     sender,
		logger:     logger.With("module", "notify"),
		maxRetries: 3,
		baseDelay:  time.Second,
		pollWait:   time.Second,
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Run starts n consumers and blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context, n int) error {
	if n < 1 {
		n = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			w.loop(ctx)
			return nil
		})
	}
	return g.Wait()
}

func (w *Worker) loop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		msg, err := w.source.Dequeue(ctx, w.pollWait)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Warn(ctx, "dequeue failed", "error", err)
			sleep(ctx, w.pollWait)
			continue
		}
		if msg == nil {
			continue
		}

		w.Deliver(ctx, *msg)
	}
}

// Deliver sends msg with exponential backoff. Exhausted or permanently
// failed messages are dead-lettered.
func (w *Worker) Deliver(ctx context.Context, msg Message) {
	backoff := retry.WithMaxRetries(w.maxRetries, retry.NewExponential(w.baseDelay))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := w.sender.Send(ctx, msg)
		if err == nil || errors.Is(err, ErrPermanent) {
			return err
		}
		w.logger.Debug(ctx, "delivery attempt failed", "to", msg.To, "kind", msg.Kind, "attempt", attempt, "error", err)
		return retry.RetryableError(err)
	})

	if err == nil {
		w.logger.Info(ctx, "notification delivered", "to", msg.To, "kind", msg.Kind, "attempts", attempt)
		return
	}

	w.logger.Error(ctx, "notification undeliverable", "to", msg.To, "kind", msg.Kind, "attempts", attempt, "error", err)
	if dlErr := w.source.DeadLetter(context.WithoutCancel(ctx), msg); dlErr != nil {
		w.logger.Error(ctx, "dead-letter failed", "to", msg.To, "error", dlErr)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
