package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/shester1kov/go-online-workout-tracker/internal/model"
)

func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	items := make([]model.Category, 0)
	if err := c.do(ctx, request{method: http.MethodGet, route: "/categories", path: "/categories"}, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Category{}
	}
	return items, nil
}

func (c *Client) GetCategory(ctx context.Context, id int) (model.Category, error) {
	var cat model.Category
	if id <= 0 {
		return cat, fmt.Errorf("category id must be > 0")
	}
	err := c.do(ctx, request{method: http.MethodGet, route: "/categories/{id}", path: fmt.Sprintf("/categories/%d", id)}, &cat)
	return cat, err
}

func (c *Client) CreateCategory(ctx context.Context, in model.CategoryInput) (model.Category, error) {
	var cat model.Category
	if strings.TrimSpace(in.Name) == "" {
		return cat, fmt.Errorf("category name is required")
	}
	err := c.do(ctx, request{method: http.MethodPost, route: "/categories", path: "/categories", body: in}, &cat)
	return cat, err
}

func (c *Client) UpdateCategory(ctx context.Context, id int, in model.CategoryInput) (model.Category, error) {
	var cat model.Category
	if id <= 0 {
		return cat, fmt.Errorf("category id must be > 0")
	}
	if strings.TrimSpace(in.Name) == "" {
		return cat, fmt.Errorf("category name is required")
	}
	err := c.do(ctx, request{method: http.MethodPut, route: "/categories/{id}", path: fmt.Sprintf("/categories/%d", id), body: in}, &cat)
	return cat, err
}

func (c *Client) DeleteCategory(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("category id must be > 0")
	}
	return c.do(ctx, request{method: http.MethodDelete, route: "/categories/{id}", path: fmt.Sprintf("/categories/%d", id)}, nil)
}
