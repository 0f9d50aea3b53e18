package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shester1kov/go-online-workout-tracker/internal/model"
)

// ExerciseQuery maps onto the backend's list parameters. Zero values are omitted.
type ExerciseQuery struct {
	Page       int
	Limit      int
	Search     string
	SortOrder  string
	CategoryID *int
}

func (q ExerciseQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}
	if q.SortOrder != "" {
		v.Set("sort_order", q.SortOrder)
	}
	if q.CategoryID != nil {
		v.Set("category_id", strconv.Itoa(*q.CategoryID))
	}
	return v
}

// exerciseListBody accepts both the paginated object and a bare array.
type exerciseListBody struct {
	list model.ExerciseList
}

func (b *exerciseListBody) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		var items []model.Exercise
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		b.list = model.ExerciseList{Exercises: items, Total: len(items)}
		return nil
	}
	if bytes.Equal(trimmed, []byte("null")) {
		b.list = model.ExerciseList{}
		return nil
	}
	return json.Unmarshal(trimmed, &b.list)
}

func (c *Client) ListExercises(ctx context.Context, q ExerciseQuery) (model.ExerciseList, error) {
	var body exerciseListBody
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/exercises",
		path:   "/exercises",
		query:  q.Values(),
	}, &body)
	if err != nil {
		return model.ExerciseList{}, err
	}
	out := body.list
	if out.Exercises == nil {
		out.Exercises = []model.Exercise{}
	}
	return out, nil
}

func (c *Client) GetExercise(ctx context.Context, id int) (model.Exercise, error) {
	var ex model.Exercise
	if id <= 0 {
		return ex, fmt.Errorf("exercise id must be > 0")
	}
	err := c.do(ctx, request{method: http.MethodGet, route: "/exercises/{id}", path: fmt.Sprintf("/exercises/%d", id)}, &ex)
	return ex, err
}

func (c *Client) CreateExercise(ctx context.Context, in model.ExerciseInput) (model.Exercise, error) {
	var ex model.Exercise
	if err := validateExercise(in); err != nil {
		return ex, err
	}
	err := c.do(ctx, request{method: http.MethodPost, route: "/exercises", path: "/exercises", body: in}, &ex)
	return ex, err
}

func (c *Client) UpdateExercise(ctx context.Context, id int, in model.ExerciseInput) (model.Exercise, error) {
	var ex model.Exercise
	if id <= 0 {
		return ex, fmt.Errorf("exercise id must be > 0")
	}
	if err := validateExercise(in); err != nil {
		return ex, err
	}
	err := c.do(ctx, request{method: http.MethodPut, route: "/exercises/{id}", path: fmt.Sprintf("/exercises/%d", id), body: in}, &ex)
	return ex, err
}

func (c *Client) DeleteExercise(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("exercise id must be > 0")
	}
	return c.do(ctx, request{method: http.MethodDelete, route: "/exercises/{id}", path: fmt.Sprintf("/exercises/%d", id)}, nil)
}

func validateExercise(in model.ExerciseInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("exercise name is required")
	}
	if in.CategoryID <= 0 {
		return fmt.Errorf("exercise category id must be > 0")
	}
	return nil
}
