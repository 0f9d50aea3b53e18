package resource

import (
	"context"

	"github.com/shester1kov/go-online-workout-tracker/internal/api"
	"github.com/shester1kov/go-online-workout-tracker/internal/model"
	"github.com/shester1kov/go-online-workout-tracker/internal/remote"
)

type Categories struct {
	client *api.Client
	list   *remote.Collection[model.Category, none]
}

func NewCategories(client *api.Client, opts Options) *Categories {
	fetch := func(ctx context.Context, _ none) (remote.Page[model.Category], error) {
		items, err := client.ListCategories(ctx)
		return remote.Page[model.Category]{Items: items, Total: len(items)}, err
	}
	return &Categories{
		client: client,
		list:   remote.New("categories", fetch, opts.collection("failed to load categories", true)...),
	}
}

func (c *Categories) Load(ctx context.Context) error {
	return c.list.Fetch(ctx, none{})
}

func (c *Categories) Snapshot() remote.Snapshot[model.Category] {
	return c.list.Snapshot()
}

// Names maps category id to name, for labelling exercise rows.
func (c *Categories) Names() map[int]string {
	out := map[int]string{}
	for _, cat := range c.list.Snapshot().Items {
		out[cat.ID] = cat.Name
	}
	return out
}

func (c *Categories) Create(ctx context.Context, in model.CategoryInput) (model.Category, error) {
	var created model.Category
	err := c.list.Mutate(ctx, func(ctx context.Context) error {
		var err error
		created, err = c.client.CreateCategory(ctx, in)
		return err
	})
	return created, err
}

func (c *Categories) Update(ctx context.Context, id int, in model.CategoryInput) (model.Category, error) {
	var updated model.Category
	err := c.list.Mutate(ctx, func(ctx context.Context) error {
		var err error
		updated, err = c.client.UpdateCategory(ctx, id, in)
		return err
	})
	return updated, err
}

func (c *Categories) Delete(ctx context.Context, id int) error {
	return c.list.Mutate(ctx, func(ctx context.Context) error {
		return c.client.DeleteCategory(ctx, id)
	})
}
