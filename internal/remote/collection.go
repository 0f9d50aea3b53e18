// Package remote keeps a client-side view of a backend collection.
//
// Every list in the client goes through Collection: one fetch in flight at a time,
// superseded responses dropped, mutations followed by exactly one re-fetch.
package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shester1kov/go-online-workout-tracker/internal/observability"
)

// ErrStale is returned by Fetch when a newer fetch replaced this one before it finished.
var ErrStale = errors.New("fetch superseded by a newer request")

type Page[T any] struct {
	Items []T
	Total int
}

type FetchFunc[T, Q any] func(ctx context.Context, q Q) (Page[T], error)

// Snapshot is a copy of the collection state at one instant.
type Snapshot[T any] struct {
	Items   []T
	Total   int
	Loading bool
	Err     string
}

// ResyncError means a mutation was applied but the list could not be reloaded, so
// the local view is behind the backend.
type ResyncError struct {
	Collection string
	Err        error
}

func (e *ResyncError) Error() string {
	return fmt.Sprintf("change saved but reloading %s failed: %v", e.Collection, e.Err)
}

func (e *ResyncError) Unwrap() error { return e.Err }

type options struct {
	label   string
	emptyOn func(error) bool
	metrics *observability.Metrics
	logger  *slog.Logger
}

type Option func(*options)

// WithLabel sets the prefix of the error string stored after a failed fetch.
func WithLabel(label string) Option {
	return func(o *options) { o.label = label }
}

// WithEmptyOn treats errors matching fn as an empty result rather than a failure.
// The backend answers 404 for some empty lists.
func WithEmptyOn(fn func(error) bool) Option {
	return func(o *options) { o.emptyOn = fn }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

type Collection[T, Q any] struct {
	name  string
	fetch FetchFunc[T, Q]
	opts  options

	mu      sync.Mutex
	epoch   uint64
	cancel  context.CancelFunc
	items   []T
	total   int
	loading bool
	errMsg  string
	query   Q
}

func New[T, Q any](name string, fetch FetchFunc[T, Q], opts ...Option) *Collection[T, Q] {
	o := options{label: "failed to load " + name, logger: observability.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Collection[T, Q]{name: name, fetch: fetch, opts: o, items: []T{}}
}

func (c *Collection[T, Q]) Name() string { return c.name }

// Fetch loads q, cancelling whatever fetch was still in flight. On failure the
// previous items stay in place and Snapshot().Err describes the problem.
func (c *Collection[T, Q]) Fetch(ctx context.Context, q Q) error {
	c.mu.Lock()
	c.epoch++
	epoch := c.epoch
	if c.cancel != nil {
		c.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.loading = true
	c.query = q
	c.mu.Unlock()
	defer cancel()

	page, err := c.fetch(fetchCtx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		c.opts.metrics.RecordFetch(c.name, observability.OutcomeStale)
		return ErrStale
	}
	c.cancel = nil
	c.loading = false

	if err != nil && c.opts.emptyOn != nil && c.opts.emptyOn(err) {
		page, err = Page[T]{}, nil
	}
	if err != nil {
		c.errMsg = fmt.Sprintf("%s: %v", c.opts.label, err)
		c.opts.metrics.RecordFetch(c.name, observability.OutcomeError)
		c.opts.logger.Debug("collection fetch failed", "collection", c.name, "error", err)
		return err
	}

	c.items = page.Items
	if c.items == nil {
		c.items = []T{}
	}
	c.total = page.Total
	c.errMsg = ""
	outcome := observability.OutcomeOK
	if len(c.items) == 0 {
		outcome = observability.OutcomeEmpty
	}
	c.opts.metrics.RecordFetch(c.name, outcome)
	return nil
}

// Refresh re-runs the last query.
func (c *Collection[T, Q]) Refresh(ctx context.Context) error {
	return c.Fetch(ctx, c.Query())
}

// Query returns the most recent query passed to Fetch, or the zero value.
func (c *Collection[T, Q]) Query() Q {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Mutate runs op and, if it succeeds, re-fetches the last query exactly once.
// No optimistic update is made: a failed op leaves the items untouched.
func (c *Collection[T, Q]) Mutate(ctx context.Context, op func(ctx context.Context) error) error {
	return c.MutateQuery(ctx, c.Query(), op)
}

// MutateQuery is Mutate with an explicit query for the re-fetch, for callers whose
// collection may not have been loaded yet.
func (c *Collection[T, Q]) MutateQuery(ctx context.Context, q Q, op func(ctx context.Context) error) error {
	if err := op(ctx); err != nil {
		c.mu.Lock()
		c.errMsg = err.Error()
		c.mu.Unlock()
		return err
	}
	err := c.Fetch(ctx, q)
	switch {
	case err == nil, errors.Is(err, ErrStale):
		return nil
	default:
		return &ResyncError{Collection: c.name, Err: err}
	}
}

// Cancel aborts the in-flight fetch, if any. Its result will be discarded.
func (c *Collection[T, Q]) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
		c.epoch++
		c.loading = false
	}
}

func (c *Collection[T, Q]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot[T]{
		Items:   append([]T(nil), c.items...),
		Total:   c.total,
		Loading: c.loading,
		Err:     c.errMsg,
	}
}
