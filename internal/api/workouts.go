package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shester1kov/go-online-workout-tracker/internal/model"
)

func (c *Client) ListWorkouts(ctx context.Context) ([]model.Workout, error) {
	items := make([]model.Workout, 0)
	if err := c.do(ctx, request{method: http.MethodGet, route: "/workouts", path: "/workouts"}, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Workout{}
	}
	return items, nil
}

func (c *Client) GetWorkout(ctx context.Context, id int) (model.Workout, error) {
	var w model.Workout
	if id <= 0 {
		return w, fmt.Errorf("workout id must be > 0")
	}
	err := c.do(ctx, request{method: http.MethodGet, route: "/workouts/{id}", path: fmt.Sprintf("/workouts/%d", id)}, &w)
	return w, err
}

func (c *Client) CreateWorkout(ctx context.Context, in model.WorkoutInput) (model.Workout, error) {
	var w model.Workout
	if in.Date.IsZero() {
		return w, fmt.Errorf("workout date is required")
	}
	err := c.do(ctx, request{method: http.MethodPost, route: "/workouts", path: "/workouts", body: in}, &w)
	return w, err
}

func (c *Client) UpdateWorkout(ctx context.Context, id int, in model.WorkoutInput) (model.Workout, error) {
	var w model.Workout
	if id <= 0 {
		return w, fmt.Errorf("workout id must be > 0")
	}
	if in.Date.IsZero() {
		return w, fmt.Errorf("workout date is required")
	}
	err := c.do(ctx, request{method: http.MethodPut, route: "/workouts/{id}", path: fmt.Sprintf("/workouts/%d", id), body: in}, &w)
	return w, err
}

func (c *Client) DeleteWorkout(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("workout id must be > 0")
	}
	return c.do(ctx, request{method: http.MethodDelete, route: "/workouts/{id}", path: fmt.Sprintf("/workouts/%d", id)}, nil)
}

func (c *Client) ListWorkoutExercises(ctx context.Context, workoutID int) ([]model.WorkoutExercise, error) {
	if workoutID <= 0 {
		return nil, fmt.Errorf("workout id must be > 0")
	}
	items := make([]model.WorkoutExercise, 0)
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/workouts/{id}/exercises",
		path:   fmt.Sprintf("/workouts/%d/exercises", workoutID),
	}, &items)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.WorkoutExercise{}
	}
	return items, nil
}

func (c *Client) AddWorkoutExercise(ctx context.Context, workoutID int, in model.WorkoutExerciseInput) (model.WorkoutExercise, error) {
	var we model.WorkoutExercise
	if workoutID <= 0 {
		return we, fmt.Errorf("workout id must be > 0")
	}
	if err := validateWorkoutExercise(in); err != nil {
		return we, err
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		route:  "/workouts/{id}/exercises",
		path:   fmt.Sprintf("/workouts/%d/exercises", workoutID),
		body:   in,
	}, &we)
	return we, err
}

func (c *Client) UpdateWorkoutExercise(ctx context.Context, workoutID, exerciseID int, in model.WorkoutExerciseInput) (model.WorkoutExercise, error) {
	var we model.WorkoutExercise
	if workoutID <= 0 || exerciseID <= 0 {
		return we, fmt.Errorf("workout id and exercise id must be > 0")
	}
	if err := validateWorkoutExercise(in); err != nil {
		return we, err
	}
	err := c.do(ctx, request{
		method: http.MethodPut,
		route:  "/workouts/{id}/exercises/{exerciseId}",
		path:   fmt.Sprintf("/workouts/%d/exercises/%d", workoutID, exerciseID),
		body:   in,
	}, &we)
	return we, err
}

func (c *Client) DeleteWorkoutExercise(ctx context.Context, workoutID, exerciseID int) error {
	if workoutID <= 0 || exerciseID <= 0 {
		return fmt.Errorf("workout id and exercise id must be > 0")
	}
	return c.do(ctx, request{
		method: http.MethodDelete,
		route:  "/workouts/{id}/exercises/{exerciseId}",
		path:   fmt.Sprintf("/workouts/%d/exercises/%d", workoutID, exerciseID),
	}, nil)
}

func validateWorkoutExercise(in model.WorkoutExerciseInput) error {
	if in.ExerciseID <= 0 {
		return fmt.Errorf("exercise id must be > 0")
	}
	if in.Sets <= 0 {
		return fmt.Errorf("sets must be > 0")
	}
	if in.Reps <= 0 {
		return fmt.Errorf("reps must be > 0")
	}
	if in.Weight < 0 {
		return fmt.Errorf("weight must be >= 0")
	}
	return nil
}
