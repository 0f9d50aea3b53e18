package resource

import (
	"context"

	"github.com/shester1kov/go-online-workout-tracker/internal/api"
	"github.com/shester1kov/go-online-workout-tracker/internal/model"
	"github.com/shester1kov/go-online-workout-tracker/internal/remote"
)

type Roles struct {
	list *remote.Collection[model.Role, int]
}

func NewRoles(client *api.Client, opts Options) *Roles {
	fetch := func(ctx context.Context, userID int) (remote.Page[model.Role], error) {
		items, err := client.UserRoles(ctx, userID)
		return remote.Page[model.Role]{Items: items, Total: len(items)}, err
	}
	return &Roles{
		list: remote.New("roles", fetch, opts.collection("failed to load roles", false)...),
	}
}

func (r *Roles) Load(ctx context.Context, userID int) error {
	return r.list.Fetch(ctx, userID)
}

func (r *Roles) Items() []model.Role {
	return r.list.Snapshot().Items
}
