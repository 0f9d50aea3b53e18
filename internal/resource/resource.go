// Package resource binds backend endpoints to remote collections, one type per entity.
package resource

import (
	"log/slog"
	"time"

	"github.com/shester1kov/go-online-workout-tracker/internal/api"
	"github.com/shester1kov/go-online-workout-tracker/internal/observability"
	"github.com/shester1kov/go-online-workout-tracker/internal/remote"
)

type Options struct {
	Metrics  *observability.Metrics
	Logger   *slog.Logger
	Debounce time.Duration
}

func (o Options) collection(label string, notFoundIsEmpty bool) []remote.Option {
	opts := []remote.Option{remote.WithLabel(label), remote.WithMetrics(o.Metrics)}
	if o.Logger != nil {
		opts = append(opts, remote.WithLogger(o.Logger))
	}
	if notFoundIsEmpty {
		opts = append(opts, remote.WithEmptyOn(api.IsNotFound))
	}
	return opts
}

// none is the query type of collections that take no parameters.
type none struct{}
