package resource

import (
	"context"
	"fmt"
	"sync"

	"github.com/shester1kov/go-online-workout-tracker/internal/api"
	"github.com/shester1kov/go-online-workout-tracker/internal/model"
	"github.com/shester1kov/go-online-workout-tracker/internal/remote"
)

type Workouts struct {
	client *api.Client
	list   *remote.Collection[model.Workout, none]
}

func NewWorkouts(client *api.Client, opts Options) *Workouts {
	fetch := func(ctx context.Context, _ none) (remote.Page[model.Workout], error) {
		items, err := client.ListWorkouts(ctx)
		return remote.Page[model.Workout]{Items: items, Total: len(items)}, err
	}
	return &Workouts{
		client: client,
		list:   remote.New("workouts", fetch, opts.collection("failed to load workouts", true)...),
	}
}

func (w *Workouts) Load(ctx context.Context) error {
	return w.list.Fetch(ctx, none{})
}

func (w *Workouts) Snapshot() remote.Snapshot[model.Workout] {
	return w.list.Snapshot()
}

func (w *Workouts) Create(ctx context.Context, in model.WorkoutInput) (model.Workout, error) {
	var created model.Workout
	err := w.list.Mutate(ctx, func(ctx context.Context) error {
		var err error
		created, err = w.client.CreateWorkout(ctx, in)
		return err
	})
	return created, err
}

func (w *Workouts) Update(ctx context.Context, id int, in model.WorkoutInput) (model.Workout, error) {
	var updated model.Workout
	err := w.list.Mutate(ctx, func(ctx context.Context) error {
		var err error
		updated, err = w.client.UpdateWorkout(ctx, id, in)
		return err
	})
	return updated, err
}

func (w *Workouts) Delete(ctx context.Context, id int) error {
	return w.list.Mutate(ctx, func(ctx context.Context) error {
		return w.client.DeleteWorkout(ctx, id)
	})
}

// WorkoutDetail is one workout and its exercise sets.
type WorkoutDetail struct {
	client    *api.Client
	workoutID int
	sets      *remote.Collection[model.WorkoutExercise, int]

	mu      sync.Mutex
	workout *model.Workout
}

func NewWorkoutDetail(client *api.Client, workoutID int, opts Options) *WorkoutDetail {
	fetch := func(ctx context.Context, id int) (remote.Page[model.WorkoutExercise], error) {
		items, err := client.ListWorkoutExercises(ctx, id)
		return remote.Page[model.WorkoutExercise]{Items: items, Total: len(items)}, err
	}
	return &WorkoutDetail{
		client:    client,
		workoutID: workoutID,
		sets:      remote.New("workout_exercises", fetch, opts.collection("failed to load workout exercises", true)...),
	}
}

// Load fetches the workout, then its sets. A workout without sets is not an error.
func (d *WorkoutDetail) Load(ctx context.Context) error {
	if d.workoutID <= 0 {
		return fmt.Errorf("workout id must be > 0")
	}
	workout, err := d.client.GetWorkout(ctx, d.workoutID)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.workout = &workout
	d.mu.Unlock()
	return d.sets.Fetch(ctx, d.workoutID)
}

// Workout returns the loaded workout, or nil before a successful Load.
func (d *WorkoutDetail) Workout() *model.Workout {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.workout == nil {
		return nil
	}
	w := *d.workout
	return &w
}

func (d *WorkoutDetail) Sets() remote.Snapshot[model.WorkoutExercise] {
	return d.sets.Snapshot()
}

func (d *WorkoutDetail) AddSet(ctx context.Context, in model.WorkoutExerciseInput) (model.WorkoutExercise, error) {
	var created model.WorkoutExercise
	err := d.mutate(ctx, func(ctx context.Context) error {
		var err error
		created, err = d.client.AddWorkoutExercise(ctx, d.workoutID, in)
		return err
	})
	return created, err
}

func (d *WorkoutDetail) UpdateSet(ctx context.Context, setID int, in model.WorkoutExerciseInput) (model.WorkoutExercise, error) {
	var updated model.WorkoutExercise
	err := d.mutate(ctx, func(ctx context.Context) error {
		var err error
		updated, err = d.client.UpdateWorkoutExercise(ctx, d.workoutID, setID, in)
		return err
	})
	return updated, err
}

func (d *WorkoutDetail) RemoveSet(ctx context.Context, setID int) error {
	return d.mutate(ctx, func(ctx context.Context) error {
		return d.client.DeleteWorkoutExercise(ctx, d.workoutID, setID)
	})
}

// mutate pins the re-fetch to this workout even if Load never ran.
func (d *WorkoutDetail) mutate(ctx context.Context, op func(context.Context) error) error {
	return d.sets.MutateQuery(ctx, d.workoutID, op)
}
