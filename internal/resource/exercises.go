package resource

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shester1kov/go-online-workout-tracker/internal/api"
	"github.com/shester1kov/go-online-workout-tracker/internal/model"
	"github.com/shester1kov/go-online-workout-tracker/internal/remote"
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

type ExerciseFilters struct {
	Name       string
	CategoryID *int
	Order      string
}

func (f ExerciseFilters) Validate() error {
	switch f.Order {
	case "", OrderAsc, OrderDesc:
	default:
		return fmt.Errorf("order must be %q or %q", OrderAsc, OrderDesc)
	}
	if f.CategoryID != nil && *f.CategoryID <= 0 {
		return fmt.Errorf("category id must be > 0")
	}
	return nil
}

type Exercises struct {
	client   *api.Client
	list     *remote.Collection[model.Exercise, api.ExerciseQuery]
	debounce *remote.Debouncer

	mu      sync.Mutex
	filters ExerciseFilters
	pager   *remote.Pager
}

func NewExercises(client *api.Client, opts Options) *Exercises {
	fetch := func(ctx context.Context, q api.ExerciseQuery) (remote.Page[model.Exercise], error) {
		list, err := client.ListExercises(ctx, q)
		if err != nil {
			return remote.Page[model.Exercise]{}, err
		}
		return remote.Page[model.Exercise]{Items: list.Exercises, Total: list.Total}, nil
	}
	return &Exercises{
		client:   client,
		list:     remote.New("exercises", fetch, opts.collection("failed to load exercises", true)...),
		debounce: remote.NewDebouncer(opts.Debounce),
		filters:  ExerciseFilters{Order: OrderAsc},
		pager:    remote.NewPager(remote.DefaultLimit),
	}
}

// Query is the request the current filters and page translate to.
func (e *Exercises) Query() api.ExerciseQuery {
	e.mu.Lock()
	defer e.mu.Unlock()
	return api.ExerciseQuery{
		Page:       e.pager.Page(),
		Limit:      e.pager.Limit(),
		Search:     strings.TrimSpace(e.filters.Name),
		SortOrder:  e.filters.Order,
		CategoryID: e.filters.CategoryID,
	}
}

func (e *Exercises) Filters() ExerciseFilters {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filters
}

// SetFilters replaces the filters and goes back to page 1.
func (e *Exercises) SetFilters(f ExerciseFilters) error {
	if err := f.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filters = f
	e.pager.SetPage(1)
	return nil
}

func (e *Exercises) SetPage(page int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pager.SetPage(page)
}

// SetLimit changes the page size; the page always resets to 1.
func (e *Exercises) SetLimit(limit int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pager.SetLimit(limit)
}

// Next moves to the following page if there is one.
func (e *Exercises) Next() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pager.Next()
}

func (e *Exercises) Prev() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pager.Prev()
}

// Pages returns the current page and the page count for the last known total.
func (e *Exercises) Pages() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pager.Page(), e.pager.TotalPages()
}

func (e *Exercises) Load(ctx context.Context) error {
	if err := e.list.Fetch(ctx, e.Query()); err != nil {
		return err
	}
	e.syncTotal()
	return nil
}

func (e *Exercises) syncTotal() {
	total := e.list.Snapshot().Total
	e.mu.Lock()
	e.pager.SetTotal(total)
	e.mu.Unlock()
}

// Filter applies f through the debouncer: a burst of edits produces one fetch,
// issued after the window, and each new edit cancels the previous fetch. done
// receives the result of the fetch that actually ran, including remote.ErrStale
// for a fetch superseded mid-flight.
func (e *Exercises) Filter(ctx context.Context, f ExerciseFilters, done func(error)) error {
	if err := e.SetFilters(f); err != nil {
		return err
	}
	e.Reload(ctx, done)
	return nil
}

// Reload schedules a debounced Load with the current filters and page.
func (e *Exercises) Reload(ctx context.Context, done func(error)) {
	e.debounce.Trigger(ctx, func(ctx context.Context) {
		err := e.Load(ctx)
		if done != nil {
			done(err)
		}
	})
}

func (e *Exercises) Close() {
	e.debounce.Stop()
	e.list.Cancel()
}

func (e *Exercises) Snapshot() remote.Snapshot[model.Exercise] {
	return e.list.Snapshot()
}

func (e *Exercises) Get(ctx context.Context, id int) (model.Exercise, error) {
	return e.client.GetExercise(ctx, id)
}

func (e *Exercises) Create(ctx context.Context, in model.ExerciseInput) (model.Exercise, error) {
	var created model.Exercise
	err := e.mutate(ctx, func(ctx context.Context) error {
		var err error
		created, err = e.client.CreateExercise(ctx, in)
		return err
	})
	return created, err
}

func (e *Exercises) Update(ctx context.Context, id int, in model.ExerciseInput) (model.Exercise, error) {
	var updated model.Exercise
	err := e.mutate(ctx, func(ctx context.Context) error {
		var err error
		updated, err = e.client.UpdateExercise(ctx, id, in)
		return err
	})
	return updated, err
}

func (e *Exercises) Delete(ctx context.Context, id int) error {
	return e.mutate(ctx, func(ctx context.Context) error {
		return e.client.DeleteExercise(ctx, id)
	})
}

func (e *Exercises) mutate(ctx context.Context, op func(context.Context) error) error {
	err := e.list.MutateQuery(ctx, e.Query(), op)
	if err == nil {
		e.syncTotal()
	}
	return err
}
