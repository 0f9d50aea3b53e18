package resource_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shester1kov/go-online-workout-tracker/internal/api"
	"github.com/shester1kov/go-online-workout-tracker/internal/model"
	"github.com/shester1kov/go-online-workout-tracker/internal/remote"
	"github.com/shester1kov/go-online-workout-tracker/internal/resource"
	"github.com/shester1kov/go-online-workout-tracker/internal/testsupport"
)

func loggedIn(t *testing.T) (*testsupport.FakeAPI, *api.Client, model.User) {
	t.Helper()
	fake := testsupport.NewFakeAPI(t)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := api.New(fake.URL(), jar, 2*time.Second)
	user := fake.AddUser("ann@example.com", "secret", "ann", "admin")
	_, err = client.Login(context.Background(), "ann@example.com", "secret")
	require.NoError(t, err)
	return fake, client, user
}

func TestExerciseFiltersMapToQuery(t *testing.T) {
	fake, client, _ := loggedIn(t)
	cat := fake.AddCategory("Legs", "")
	fake.AddExercise("Back squat", cat.ID)
	fake.AddExercise("Front squat", cat.ID)
	fake.AddExercise("Bench press", cat.ID)

	ex := resource.NewExercises(client, resource.Options{})
	require.NoError(t, ex.SetFilters(resource.ExerciseFilters{Name: "squat", Order: resource.OrderAsc}))
	ex.SetLimit(10)
	require.NoError(t, ex.Load(context.Background()))

	assert.Equal(t, url.Values{
		"page":       {"1"},
		"limit":      {"10"},
		"search":     {"squat"},
		"sort_order": {"asc"},
	}, fake.LastQuery(http.MethodGet, "/exercises"))

	snap := ex.Snapshot()
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "Back squat", snap.Items[0].Name)
	assert.Equal(t, 2, snap.Total)
}

func TestExerciseCategoryFilterIsSent(t *testing.T) {
	fake, client, _ := loggedIn(t)
	legs := fake.AddCategory("Legs", "")
	arms := fake.AddCategory("Arms", "")
	fake.AddExercise("Squat", legs.ID)
	fake.AddExercise("Curl", arms.ID)

	ex := resource.NewExercises(client, resource.Options{})
	require.NoError(t, ex.SetFilters(resource.ExerciseFilters{CategoryID: &arms.ID, Order: resource.OrderDesc}))
	require.NoError(t, ex.Load(context.Background()))

	q := fake.LastQuery(http.MethodGet, "/exercises")
	assert.Equal(t, "desc", q.Get("sort_order"))
	assert.NotEmpty(t, q.Get("category_id"))
	assert.False(t, q.Has("search"))
	snap := ex.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "Curl", snap.Items[0].Name)
}

func TestExerciseNotFoundIsEmptyList(t *testing.T) {
	fake, client, _ := loggedIn(t)
	fake.AddExercise("Squat", 1)

	ex := resource.NewExercises(client, resource.Options{})
	require.NoError(t, ex.Load(context.Background()))
	require.Len(t, ex.Snapshot().Items, 1)

	require.NoError(t, ex.SetFilters(resource.ExerciseFilters{Name: "deadlift"}))
	require.NoError(t, ex.Load(context.Background()))
	snap := ex.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Zero(t, snap.Total)
	assert.Empty(t, snap.Err)
}

func TestExerciseServerErrorKeepsItems(t *testing.T) {
	fake, client, _ := loggedIn(t)
	fake.AddExercise("Squat", 1)
	ex := resource.NewExercises(client, resource.Options{})
	require.NoError(t, ex.Load(context.Background()))

	fake.FailNext(http.MethodGet, "/exercises", http.StatusInternalServerError)
	err := ex.Load(context.Background())
	require.True(t, api.HasStatus(err, http.StatusInternalServerError))
	snap := ex.Snapshot()
	assert.Len(t, snap.Items, 1)
	assert.Contains(t, snap.Err, "failed to load exercises")
}

func TestFilterChangeAndLimitResetPage(t *testing.T) {
	_, client, _ := loggedIn(t)
	ex := resource.NewExercises(client, resource.Options{})

	ex.SetPage(3)
	require.Equal(t, 3, ex.Query().Page)
	require.NoError(t, ex.SetFilters(resource.ExerciseFilters{Name: "row"}))
	assert.Equal(t, 1, ex.Query().Page)

	for _, limit := range []int{5, 10, 10, 50} {
		ex.SetPage(4)
		ex.SetLimit(limit)
		assert.Equal(t, 1, ex.Query().Page)
		assert.Equal(t, limit, ex.Query().Limit)
	}
}

func TestExerciseFiltersRejectBadOrder(t *testing.T) {
	_, client, _ := loggedIn(t)
	ex := resource.NewExercises(client, resource.Options{})
	require.Error(t, ex.SetFilters(resource.ExerciseFilters{Order: "sideways"}))
	zero := 0
	require.Error(t, ex.SetFilters(resource.ExerciseFilters{CategoryID: &zero}))
}

func TestExercisePagingFollowsTotal(t *testing.T) {
	fake, client, _ := loggedIn(t)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		fake.AddExercise(name, 1)
	}
	ex := resource.NewExercises(client, resource.Options{})
	ex.SetLimit(2)
	require.NoError(t, ex.Load(context.Background()))

	page, pages := ex.Pages()
	assert.Equal(t, 1, page)
	assert.Equal(t, 3, pages)
	require.True(t, ex.Next())
	require.True(t, ex.Next())
	require.False(t, ex.Next())
	require.NoError(t, ex.Load(context.Background()))
	snap := ex.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "e", snap.Items[0].Name)
}

func TestDebouncedFilterFetchesOnce(t *testing.T) {
	fake, client, _ := loggedIn(t)
	fake.AddExercise("Squat", 1)
	fake.AddExercise("Split squat", 1)
	ex := resource.NewExercises(client, resource.Options{Debounce: 40 * time.Millisecond})
	defer ex.Close()

	done := make(chan error, 4)
	for _, name := range []string{"s", "sq", "squ", "split"} {
		require.NoError(t, ex.Filter(context.Background(), resource.ExerciseFilters{Name: name}, func(err error) { done <- err }))
	}

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced load never ran")
	}
	assert.Equal(t, 1, fake.Hits(http.MethodGet, "/exercises"))
	assert.Equal(t, "split", fake.LastQuery(http.MethodGet, "/exercises").Get("search"))
	require.Len(t, ex.Snapshot().Items, 1)
}

func TestExerciseCreateRefetches(t *testing.T) {
	fake, client, _ := loggedIn(t)
	cat := fake.AddCategory("Legs", "")
	ex := resource.NewExercises(client, resource.Options{})
	require.NoError(t, ex.Load(context.Background()))
	require.Empty(t, ex.Snapshot().Items)

	created, err := ex.Create(context.Background(), model.ExerciseInput{Name: "Lunge", CategoryID: cat.ID})
	require.NoError(t, err)
	assert.Equal(t, "Lunge", created.Name)
	assert.Equal(t, 2, fake.Hits(http.MethodGet, "/exercises"))
	assert.Len(t, ex.Snapshot().Items, 1)

	require.NoError(t, ex.Delete(context.Background(), created.ID))
	assert.Empty(t, ex.Snapshot().Items)
}

func TestCategoriesLifecycle(t *testing.T) {
	fake, client, _ := loggedIn(t)
	cats := resource.NewCategories(client, resource.Options{})
	require.NoError(t, cats.Load(context.Background()))
	assert.Empty(t, cats.Snapshot().Items)

	created, err := cats.Create(context.Background(), model.CategoryInput{Name: "Core"})
	require.NoError(t, err)
	assert.Equal(t, map[int]string{created.ID: "Core"}, cats.Names())

	_, err = cats.Update(context.Background(), created.ID, model.CategoryInput{Name: "Abs"})
	require.NoError(t, err)
	assert.Equal(t, "Abs", cats.Snapshot().Items[0].Name)

	require.NoError(t, cats.Delete(context.Background(), created.ID))
	assert.Empty(t, cats.Snapshot().Items)
	assert.Equal(t, 4, fake.Hits(http.MethodGet, "/categories"))
}

func TestWorkoutsCreateUpdateDelete(t *testing.T) {
	_, client, _ := loggedIn(t)
	w := resource.NewWorkouts(client, resource.Options{})
	require.NoError(t, w.Load(context.Background()))
	assert.Empty(t, w.Snapshot().Items)
	assert.Empty(t, w.Snapshot().Err)

	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	created, err := w.Create(context.Background(), model.WorkoutInput{Date: date, Notes: "legs"})
	require.NoError(t, err)
	require.Len(t, w.Snapshot().Items, 1)

	_, err = w.Update(context.Background(), created.ID, model.WorkoutInput{Date: date, Notes: "legs and core"})
	require.NoError(t, err)
	assert.Equal(t, "legs and core", w.Snapshot().Items[0].Notes)

	require.NoError(t, w.Delete(context.Background(), created.ID))
	assert.Empty(t, w.Snapshot().Items)
	assert.Empty(t, w.Snapshot().Err)
}

func TestEmptyWorkoutsAndNutritionDayAreNotErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Workouts not found","code":404}`))
	}))
	defer ts.Close()
	client := &api.Client{BaseURL: ts.URL, HTTPClient: ts.Client()}

	w := resource.NewWorkouts(client, resource.Options{})
	require.NoError(t, w.Load(context.Background()))
	assert.Empty(t, w.Snapshot().Items)
	assert.Empty(t, w.Snapshot().Err)

	n := resource.NewNutrition(client, resource.Options{})
	require.NoError(t, n.SetDate(context.Background(), "2025-04-02"))
	assert.Empty(t, n.Snapshot().Items)
	assert.Empty(t, n.Snapshot().Err)
	assert.Empty(t, n.Snapshot().Err)
	assert.Zero(t, n.Totals().Calories)
}

func TestWorkoutDetailEmptySetsAndSingleRefetch(t *testing.T) {
	fake, client, user := loggedIn(t)
	squat := fake.AddExercise("Squat", 1)
	workout := fake.AddWorkout(user.ID, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), "")
	detail := resource.NewWorkoutDetail(client, workout.ID, resource.Options{})

	require.NoError(t, detail.Load(context.Background()))
	require.NotNil(t, detail.Workout())
	assert.Equal(t, workout.ID, detail.Workout().ID)
	assert.Empty(t, detail.Sets().Items)
	assert.Empty(t, detail.Sets().Err)

	pattern := "/workouts/{id}/exercises"
	before := fake.Hits(http.MethodGet, pattern)
	_, err := detail.AddSet(context.Background(), model.WorkoutExerciseInput{ExerciseID: squat.ID, Sets: 3, Reps: 5, Weight: 100})
	require.NoError(t, err)
	assert.Equal(t, before+1, fake.Hits(http.MethodGet, pattern))
	sets := detail.Sets().Items
	require.Len(t, sets, 1)
	require.NotNil(t, sets[0].Exercise)
	assert.Equal(t, "Squat", sets[0].Exercise.Name)

	_, err = detail.UpdateSet(context.Background(), sets[0].ID, model.WorkoutExerciseInput{ExerciseID: squat.ID, Sets: 5, Reps: 5, Weight: 110})
	require.NoError(t, err)
	assert.Equal(t, 5, detail.Sets().Items[0].Sets)

	require.NoError(t, detail.RemoveSet(context.Background(), sets[0].ID))
	assert.Empty(t, detail.Sets().Items)
}

func TestWorkoutDetailFailedAddLeavesList(t *testing.T) {
	fake, client, user := loggedIn(t)
	squat := fake.AddExercise("Squat", 1)
	workout := fake.AddWorkout(user.ID, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), "")
	detail := resource.NewWorkoutDetail(client, workout.ID, resource.Options{})
	require.NoError(t, detail.Load(context.Background()))
	_, err := detail.AddSet(context.Background(), model.WorkoutExerciseInput{ExerciseID: squat.ID, Sets: 3, Reps: 5})
	require.NoError(t, err)

	pattern := "/workouts/{id}/exercises"
	before := fake.Hits(http.MethodGet, pattern)
	fake.FailNext(http.MethodPost, pattern, http.StatusInternalServerError)
	_, err = detail.AddSet(context.Background(), model.WorkoutExerciseInput{ExerciseID: squat.ID, Sets: 1, Reps: 1})
	require.Error(t, err)

	assert.Equal(t, before, fake.Hits(http.MethodGet, pattern))
	sets := detail.Sets()
	assert.Len(t, sets.Items, 1)
	assert.NotEmpty(t, sets.Err)
}

func TestWorkoutDetailResyncError(t *testing.T) {
	fake, client, user := loggedIn(t)
	squat := fake.AddExercise("Squat", 1)
	workout := fake.AddWorkout(user.ID, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), "")
	detail := resource.NewWorkoutDetail(client, workout.ID, resource.Options{})
	require.NoError(t, detail.Load(context.Background()))

	fake.FailNext(http.MethodGet, "/workouts/{id}/exercises", http.StatusBadGateway)
	_, err := detail.AddSet(context.Background(), model.WorkoutExerciseInput{ExerciseID: squat.ID, Sets: 3, Reps: 5})
	var resync *remote.ResyncError
	require.True(t, errors.As(err, &resync))
	assert.Len(t, fake.WorkoutExercises(workout.ID), 1)
}

func TestWorkoutDetailAddWithoutLoad(t *testing.T) {
	fake, client, user := loggedIn(t)
	squat := fake.AddExercise("Squat", 1)
	workout := fake.AddWorkout(user.ID, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), "")
	detail := resource.NewWorkoutDetail(client, workout.ID, resource.Options{})

	_, err := detail.AddSet(context.Background(), model.WorkoutExerciseInput{ExerciseID: squat.ID, Sets: 3, Reps: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, fake.Hits(http.MethodGet, "/workouts/{id}/exercises"))
	assert.Len(t, detail.Sets().Items, 1)
}

func TestNutritionByDate(t *testing.T) {
	fake, client, _ := loggedIn(t)
	fake.AddNutrition("2025-04-01", model.NutritionEntry{FoodName: "Oats", Calories: 150, Protein: 5, Carbs: 27, Fat: 3})
	fake.AddNutrition("2025-04-01", model.NutritionEntry{FoodName: "Eggs", Calories: 140, Protein: 12, Fat: 10})

	n := resource.NewNutrition(client, resource.Options{})
	require.NoError(t, n.SetDate(context.Background(), "2025-04-01"))
	assert.Equal(t, "2025-04-01", n.Date())
	assert.Len(t, n.Snapshot().Items, 2)
	totals := n.Totals()
	assert.InDelta(t, 290, totals.Calories, 0.001)
	assert.InDelta(t, 17, totals.Protein, 0.001)

	require.NoError(t, n.SetDate(context.Background(), "2025-04-02"))
	assert.Empty(t, n.Snapshot().Items)
	assert.Empty(t, n.Snapshot().Err)

	require.Error(t, n.SetDate(context.Background(), "04/02/2025"))
	assert.Equal(t, 2, fake.Hits(http.MethodGet, "/nutritions/{date}"))
}

func TestRolesLoad(t *testing.T) {
	_, client, user := loggedIn(t)
	roles := resource.NewRoles(client, resource.Options{})
	require.NoError(t, roles.Load(context.Background(), user.ID))
	require.Len(t, roles.Items(), 1)
	assert.Equal(t, "admin", roles.Items()[0].Name)
}
