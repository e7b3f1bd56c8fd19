package meili

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/petal-labs/meili/core"
)

// Defaults for Wait.
const (
	DefaultWaitTimeout     = 5 * time.Second
	DefaultWaitInterval    = 50 * time.Millisecond
	DefaultWaitMaxInterval = time.Second
)

// ErrTaskTimeout is returned by Wait when the task is still pending after
// the timeout.
var ErrTaskTimeout = errors.New("meili: timed out waiting for task")

var errTaskPending = errors.New("task pending")

// TasksService reads and waits on asynchronous tasks.
type TasksService service

// Get returns the task uid.
func (s *TasksService) Get(ctx context.Context, uid int64) (*Task, error) {
	var t Task
	if err := s.client.get(ctx, "/tasks/"+strconv.FormatInt(uid, 10), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns tasks matching q, most recent first. q may be nil.
func (s *TasksService) List(ctx context.Context, q *TasksQuery) (*TasksResults, error) {
	query, err := queryOf(q)
	if err != nil {
		return nil, err
	}
	var res TasksResults
	if err := s.client.get(ctx, "/tasks", query, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Cancel enqueues cancellation of the tasks matching q. At least one filter
// is required by the server.
func (s *TasksService) Cancel(ctx context.Context, q *TasksQuery) (*TaskInfo, error) {
	query, err := queryOf(q)
	if err != nil {
		return nil, err
	}
	return s.client.task(ctx, http.MethodPost, "/tasks/cancel", core.NoBody(), query)
}

// WaitOptions tune Wait. Zero values use the package defaults.
type WaitOptions struct {
	// Timeout bounds the total wait.
	Timeout time.Duration

	// Interval is the first delay between polls. Delays grow up to MaxInterval.
	Interval    time.Duration
	MaxInterval time.Duration
}

func (o WaitOptions) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = DefaultWaitInterval
	b.MaxInterval = DefaultWaitMaxInterval
	b.MaxElapsedTime = DefaultWaitTimeout
	b.RandomizationFactor = 0
	if o.Interval > 0 {
		b.InitialInterval = o.Interval
	}
	if o.MaxInterval > 0 {
		b.MaxInterval = o.MaxInterval
	}
	if b.MaxInterval < b.InitialInterval {
		b.MaxInterval = b.InitialInterval
	}
	if o.Timeout > 0 {
		b.MaxElapsedTime = o.Timeout
	}
	return b
}

// Wait polls the task until it succeeds, fails or is canceled, and returns
// its final state. A failed task is not an error: check Task.Status.
// Request errors stop the wait immediately.
func (s *TasksService) Wait(ctx context.Context, uid int64, opts WaitOptions) (*Task, error) {
	log := s.client.logger.With("task_uid", uid)
	attempt := 0

	poll := func() (*Task, error) {
		attempt++
		t, err := s.Get(ctx, uid)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		log.Trace("polled task", "status", t.Status, "attempt", attempt)
		if !t.Status.IsTerminal() {
			return nil, errTaskPending
		}
		return t, nil
	}
	notify := func(_ error, next time.Duration) {
		log.Debug("task not finished, retrying", "attempt", attempt, "next", next)
	}

	t, err := backoff.RetryNotifyWithData(poll, backoff.WithContext(opts.backOff(), ctx), notify)
	if errors.Is(err, errTaskPending) {
		return nil, fmt.Errorf("%w %d after %d polls", ErrTaskTimeout, uid, attempt)
	}
	if err != nil {
		return nil, err
	}
	log.Debug("task finished", "status", t.Status, "attempt", attempt)
	return t, nil
}
