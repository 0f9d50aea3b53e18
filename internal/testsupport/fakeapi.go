// Package testsupport provides an in-memory stand-in for the tracker backend.
//
// Routes, cookie name and error bodies follow the real /api/v1 server closely enough
// for client tests: empty collections answer 404, protected routes need the
// access_token cookie, and errors are {"message","code"} JSON.
package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/shester1kov/go-online-workout-tracker/internal/model"
)

const (
	CookieName = "access_token"
	jwtSecret  = "fake-api-secret-for-tests-only-0123456789"
	tokenTTL   = 15 * time.Minute
)

type account struct {
	user     model.User
	password string
	roles    []model.Role
}

type FakeAPI struct {
	Server *httptest.Server
	// FatSecretURL is where /connect/fatsecret redirects.
	FatSecretURL string

	mu               sync.Mutex
	nextID           int
	accounts         map[string]*account
	exercises        []model.Exercise
	categories       []model.Category
	workouts         []model.Workout
	workoutExercises map[int][]model.WorkoutExercise
	nutrition        map[string][]model.NutritionEntry
	hits             map[string]int
	queries          map[string]url.Values
	failNext         map[string][]int
	failAlways       map[string]int
}

func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		FatSecretURL:     "https://www.fatsecret.com/oauth/authorize?oauth_token=fake",
		nextID:           100,
		accounts:         map[string]*account{},
		workoutExercises: map[int][]model.WorkoutExercise{},
		nutrition:        map[string][]model.NutritionEntry{},
		hits:             map[string]int{},
		queries:          map[string]url.Values{},
		failNext:         map[string][]int{},
		failAlways:       map[string]int{},
	}
	f.Server = httptest.NewServer(f.routes())
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the API base URL, including the /api/v1 prefix.
func (f *FakeAPI) URL() string {
	return f.Server.URL + "/api/v1"
}

func key(method, pattern string) string {
	return method + " " + pattern
}

// FailNext makes the next request to method+pattern answer status.
func (f *FakeAPI) FailNext(method, pattern string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(method, pattern)
	f.failNext[k] = append(f.failNext[k], status)
}

// FailAlways makes every request to method+pattern answer status; 0 clears it.
func (f *FakeAPI) FailAlways(method, pattern string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status == 0 {
		delete(f.failAlways, key(method, pattern))
		return
	}
	f.failAlways[key(method, pattern)] = status
}

func (f *FakeAPI) Hits(method, pattern string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[key(method, pattern)]
}

// LastQuery returns the query string of the latest request to method+pattern.
func (f *FakeAPI) LastQuery(method, pattern string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[key(method, pattern)]
}

func (f *FakeAPI) id() int {
	f.nextID++
	return f.nextID
}

func (f *FakeAPI) AddUser(email, password, username string, roles ...string) model.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc := &account{
		user:     model.User{ID: f.id(), Email: email, Username: username, CreatedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)},
		password: password,
	}
	for i, name := range roles {
		acc.roles = append(acc.roles, model.Role{ID: i + 1, Name: name})
	}
	f.accounts[email] = acc
	return acc.user
}

func (f *FakeAPI) AddCategory(name, description string) model.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := model.Category{ID: f.id(), Name: name, Description: description}
	f.categories = append(f.categories, c)
	return c
}

func (f *FakeAPI) AddExercise(name string, categoryID int) model.Exercise {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	e := model.Exercise{ID: f.id(), Name: name, CategoryID: categoryID, CreatedAt: now, UpdatedAt: now}
	f.exercises = append(f.exercises, e)
	return e
}

func (f *FakeAPI) AddWorkout(userID int, date time.Time, notes string) model.Workout {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := model.Workout{ID: f.id(), UserID: userID, Date: date, Notes: notes, CreatedAt: date, UpdatedAt: date}
	f.workouts = append(f.workouts, w)
	return w
}

func (f *FakeAPI) AddNutrition(date string, entry model.NutritionEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = f.id()
	f.nutrition[date] = append(f.nutrition[date], entry)
}

func (f *FakeAPI) WorkoutExercises(workoutID int) []model.WorkoutExercise {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.WorkoutExercise(nil), f.workoutExercises[workoutID]...)
}

func (f *FakeAPI) routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", f.handle(http.MethodGet, "/health", false, f.health))
		r.Post("/register", f.handle(http.MethodPost, "/register", false, f.register))
		r.Post("/login", f.handle(http.MethodPost, "/login", false, f.login))
		r.Post("/logout", f.handle(http.MethodPost, "/logout", true, f.logout))
		r.Get("/users/me", f.handle(http.MethodGet, "/users/me", true, f.me))
		r.Get("/users/{id}/roles", f.handle(http.MethodGet, "/users/{id}/roles", true, f.userRoles))
		r.Post("/users/{id}/roles", f.handle(http.MethodPost, "/users/{id}/roles", true, f.grantRole))

		r.Get("/exercises", f.handle(http.MethodGet, "/exercises", true, f.listExercises))
		r.Post("/exercises", f.handle(http.MethodPost, "/exercises", true, f.createExercise))
		r.Get("/exercises/{id}", f.handle(http.MethodGet, "/exercises/{id}", true, f.getExercise))
		r.Put("/exercises/{id}", f.handle(http.MethodPut, "/exercises/{id}", true, f.updateExercise))
		r.Delete("/exercises/{id}", f.handle(http.MethodDelete, "/exercises/{id}", true, f.deleteExercise))

		r.Get("/categories", f.handle(http.MethodGet, "/categories", true, f.listCategories))
		r.Post("/categories", f.handle(http.MethodPost, "/categories", true, f.createCategory))
		r.Get("/categories/{id}", f.handle(http.MethodGet, "/categories/{id}", true, f.getCategory))
		r.Put("/categories/{id}", f.handle(http.MethodPut, "/categories/{id}", true, f.updateCategory))
		r.Delete("/categories/{id}", f.handle(http.MethodDelete, "/categories/{id}", true, f.deleteCategory))

		r.Get("/workouts", f.handle(http.MethodGet, "/workouts", true, f.listWorkouts))
		r.Post("/workouts", f.handle(http.MethodPost, "/workouts", true, f.createWorkout))
		r.Get("/workouts/{id}", f.handle(http.MethodGet, "/workouts/{id}", true, f.getWorkout))
		r.Put("/workouts/{id}", f.handle(http.MethodPut, "/workouts/{id}", true, f.updateWorkout))
		r.Delete("/workouts/{id}", f.handle(http.MethodDelete, "/workouts/{id}", true, f.deleteWorkout))
		r.Get("/workouts/{id}/exercises", f.handle(http.MethodGet, "/workouts/{id}/exercises", true, f.listWorkoutExercises))
		r.Post("/workouts/{id}/exercises", f.handle(http.MethodPost, "/workouts/{id}/exercises", true, f.addWorkoutExercise))
		r.Put("/workouts/{id}/exercises/{exerciseId}", f.handle(http.MethodPut, "/workouts/{id}/exercises/{exerciseId}", true, f.updateWorkoutExercise))
		r.Delete("/workouts/{id}/exercises/{exerciseId}", f.handle(http.MethodDelete, "/workouts/{id}/exercises/{exerciseId}", true, f.deleteWorkoutExercise))

		r.Get("/nutritions/{date}", f.handle(http.MethodGet, "/nutritions/{date}", true, f.dailyNutrition))
		r.Get("/connect/fatsecret", f.handle(http.MethodGet, "/connect/fatsecret", true, f.connectFatSecret))
	})
	return r
}

type handlerFunc func(w http.ResponseWriter, r *http.Request, userID int)

// handle counts the hit, applies injected failures and, for protected routes,
// resolves the session cookie before calling h with f.mu held.
func (f *FakeAPI) handle(method, pattern string, protected bool, h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		k := key(method, pattern)
		f.hits[k]++
		f.queries[k] = r.URL.Query()
		if queue := f.failNext[k]; len(queue) > 0 {
			f.failNext[k] = queue[1:]
			writeError(w, http.StatusText(queue[0]), queue[0])
			return
		}
		if status, ok := f.failAlways[k]; ok {
			writeError(w, http.StatusText(status), status)
			return
		}
		userID := 0
		if protected {
			cookie, err := r.Cookie(CookieName)
			if err != nil {
				writeError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			id, err := parseToken(cookie.Value)
			if err != nil {
				writeError(w, "Invalid token", http.StatusForbidden)
				return
			}
			userID = id
		}
		h(w, r, userID)
	}
}

type claims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token the way the backend does.
func IssueToken(userID int, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID:           userID,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiresAt)},
	})
	return token.SignedString([]byte(jwtSecret))
}

func parseToken(raw string) (int, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return []byte(jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return 0, err
	}
	return c.UserID, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, model.ErrorResponse{Message: message, Code: status})
}

func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	return id, err == nil && id > 0
}

func (f *FakeAPI) health(w http.ResponseWriter, _ *http.Request, _ int) {
	writeJSON(w, http.StatusOK, model.Health{Status: "up", Timestamp: time.Now().UTC(), Details: map[string]string{"postgres": "up"}})
}

func (f *FakeAPI) register(w http.ResponseWriter, r *http.Request, _ int) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if _, exists := f.accounts[req.Email]; exists {
		writeError(w, "Email already exists", http.StatusConflict)
		return
	}
	acc := &account{
		user:     model.User{ID: f.id(), Email: req.Email, Username: req.Username, CreatedAt: time.Now().UTC()},
		password: req.Password,
	}
	f.accounts[req.Email] = acc
	writeJSON(w, http.StatusCreated, acc.user)
}

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request, _ int) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	acc, ok := f.accounts[req.Email]
	if !ok {
		writeError(w, "User not found", http.StatusNotFound)
		return
	}
	if acc.password != req.Password {
		writeError(w, "Invalid password", http.StatusBadRequest)
		return
	}
	token, err := IssueToken(acc.user.ID, time.Now().Add(tokenTTL))
	if err != nil {
		writeError(w, "Failed to login user", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/api",
		MaxAge:   int(tokenTTL.Seconds()),
	})
	writeJSON(w, http.StatusOK, acc.user)
}

func (f *FakeAPI) logout(w http.ResponseWriter, _ *http.Request, _ int) {
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/api", MaxAge: -1})
	w.WriteHeader(http.StatusOK)
}

func (f *FakeAPI) accountByID(id int) *account {
	for _, acc := range f.accounts {
		if acc.user.ID == id {
			return acc
		}
	}
	return nil
}

func (f *FakeAPI) me(w http.ResponseWriter, _ *http.Request, userID int) {
	acc := f.accountByID(userID)
	if acc == nil {
		writeError(w, "User not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, acc.user)
}

func (f *FakeAPI) userRoles(w http.ResponseWriter, r *http.Request, _ int) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Incorrect id", http.StatusBadRequest)
		return
	}
	acc := f.accountByID(id)
	if acc == nil {
		writeError(w, "User not found", http.StatusNotFound)
		return
	}
	roles := acc.roles
	if roles == nil {
		roles = []model.Role{}
	}
	writeJSON(w, http.StatusOK, roles)
}

func (f *FakeAPI) grantRole(w http.ResponseWriter, r *http.Request, userID int) {
	caller := f.accountByID(userID)
	if caller == nil || !hasRole(caller.roles, "admin") {
		writeError(w, "Forbidden", http.StatusForbidden)
		return
	}
	id, ok := pathID(r, "id")
	target := f.accountByID(id)
	if !ok || target == nil {
		writeError(w, "User not found", http.StatusNotFound)
		return
	}
	var req model.RoleGrant
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RoleID <= 0 {
		writeError(w, "Incorrect role id", http.StatusBadRequest)
		return
	}
	names := map[int]string{1: "admin", 2: "moderator", 3: "user"}
	target.roles = append(target.roles, model.Role{ID: req.RoleID, Name: names[req.RoleID]})
	writeJSON(w, http.StatusOK, target.user)
}

func hasRole(roles []model.Role, name string) bool {
	for _, r := range roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

func (f *FakeAPI) listExercises(w http.ResponseWriter, r *http.Request, _ int) {
	q := r.URL.Query()
	search := strings.ToLower(q.Get("search"))
	categoryID, _ := strconv.Atoi(q.Get("category_id"))
	matched := make([]model.Exercise, 0)
	for _, e := range f.exercises {
		if search != "" && !strings.Contains(strings.ToLower(e.Name), search) {
			continue
		}
		if categoryID > 0 && e.CategoryID != categoryID {
			continue
		}
		matched = append(matched, e)
	}
	desc := q.Get("sort_order") == "desc"
	sort.SliceStable(matched, func(i, j int) bool {
		if desc {
			return matched[i].Name > matched[j].Name
		}
		return matched[i].Name < matched[j].Name
	})
	if len(matched) == 0 {
		writeError(w, "Exercises not found", http.StatusNotFound)
		return
	}
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	end := start + limit
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}
	writeJSON(w, http.StatusOK, model.ExerciseList{Exercises: matched[start:end], Total: len(matched), Page: page, Limit: limit})
}

func (f *FakeAPI) findExercise(id int) int {
	for i, e := range f.exercises {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (f *FakeAPI) getExercise(w http.ResponseWriter, r *http.Request, _ int) {
	id, _ := pathID(r, "id")
	i := f.findExercise(id)
	if i < 0 {
		writeError(w, "Exercise not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, f.exercises[i])
}

func (f *FakeAPI) createExercise(w http.ResponseWriter, r *http.Request, _ int) {
	var in model.ExerciseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || len(strings.TrimSpace(in.Name)) < 2 {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	now := time.Now().UTC()
	e := model.Exercise{ID: f.id(), Name: in.Name, Description: in.Description, CategoryID: in.CategoryID, CreatedAt: now, UpdatedAt: now}
	f.exercises = append(f.exercises, e)
	writeJSON(w, http.StatusCreated, e)
}

func (f *FakeAPI) updateExercise(w http.ResponseWriter, r *http.Request, _ int) {
	id, _ := pathID(r, "id")
	i := f.findExercise(id)
	if i < 0 {
		writeError(w, "Exercise not found", http.StatusNotFound)
		return
	}
	var in model.ExerciseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	e := &f.exercises[i]
	e.Name, e.Description, e.CategoryID, e.UpdatedAt = in.Name, in.Description, in.CategoryID, time.Now().UTC()
	writeJSON(w, http.StatusOK, *e)
}

func (f *FakeAPI) deleteExercise(w http.ResponseWriter, r *http.Request, _ int) {
	id, _ := pathID(r, "id")
	i := f.findExercise(id)
	if i < 0 {
		writeError(w, "Exercise not found", http.StatusNotFound)
		return
	}
	f.exercises = append(f.exercises[:i], f.exercises[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) findCategory(id int) int {
	for i, c := range f.categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (f *FakeAPI) listCategories(w http.ResponseWriter, _ *http.Request, _ int) {
	if len(f.categories) == 0 {
		writeError(w, "Categories not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, f.categories)
}

func (f *FakeAPI) getCategory(w http.ResponseWriter, r *http.Request, _ int) {
	id, _ := pathID(r, "id")
	i := f.findCategory(id)
	if i < 0 {
		writeError(w, "Category not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, f.categories[i])
}

func (f *FakeAPI) createCategory(w http.ResponseWriter, r *http.Request, _ int) {
	var in model.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Name) == "" {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	c := model.Category{ID: f.id(), Name: in.Name, Description: in.Description}
	f.categories = append(f.categories, c)
	writeJSON(w, http.StatusCreated, c)
}

func (f *FakeAPI) updateCategory(w http.ResponseWriter, r *http.Request, _ int) {
	id, _ := pathID(r, "id")
	i := f.findCategory(id)
	if i < 0 {
		writeError(w, "Category not found", http.StatusNotFound)
		return
	}
	var in model.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	f.categories[i].Name, f.categories[i].Description = in.Name, in.Description
	writeJSON(w, http.StatusOK, f.categories[i])
}

func (f *FakeAPI) deleteCategory(w http.ResponseWriter, r *http.Request, _ int) {
	id, _ := pathID(r, "id")
	i := f.findCategory(id)
	if i < 0 {
		writeError(w, "Category not found", http.StatusNotFound)
		return
	}
	f.categories = append(f.categories[:i], f.categories[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) findWorkout(id, userID int) int {
	for i, wk := range f.workouts {
		if wk.ID == id && wk.UserID == userID {
			return i
		}
	}
	return -1
}

func (f *FakeAPI) listWorkouts(w http.ResponseWriter, _ *http.Request, userID int) {
	out := make([]model.Workout, 0)
	for _, wk := range f.workouts {
		if wk.UserID == userID {
			out = append(out, wk)
		}
	}
	if len(out) == 0 {
		writeError(w, "Workouts not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) getWorkout(w http.ResponseWriter, r *http.Request, userID int) {
	id, _ := pathID(r, "id")
	i := f.findWorkout(id, userID)
	if i < 0 {
		writeError(w, "Workout not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, f.workouts[i])
}

func (f *FakeAPI) createWorkout(w http.ResponseWriter, r *http.Request, userID int) {
	var in model.WorkoutInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Date.IsZero() {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	now := time.Now().UTC()
	wk := model.Workout{ID: f.id(), UserID: userID, Date: in.Date, Notes: in.Notes, CreatedAt: now, UpdatedAt: now}
	f.workouts = append(f.workouts, wk)
	writeJSON(w, http.StatusCreated, wk)
}

func (f *FakeAPI) updateWorkout(w http.ResponseWriter, r *http.Request, userID int) {
	id, _ := pathID(r, "id")
	i := f.findWorkout(id, userID)
	if i < 0 {
		writeError(w, "Workout not found", http.StatusNotFound)
		return
	}
	var in model.WorkoutInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	f.workouts[i].Date, f.workouts[i].Notes, f.workouts[i].UpdatedAt = in.Date, in.Notes, time.Now().UTC()
	writeJSON(w, http.StatusOK, f.workouts[i])
}

func (f *FakeAPI) deleteWorkout(w http.ResponseWriter, r *http.Request, userID int) {
	id, _ := pathID(r, "id")
	i := f.findWorkout(id, userID)
	if i < 0 {
		writeError(w, "Workout not found", http.StatusNotFound)
		return
	}
	f.workouts = append(f.workouts[:i], f.workouts[i+1:]...)
	delete(f.workoutExercises, id)
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) listWorkoutExercises(w http.ResponseWriter, r *http.Request, _ int) {
	id, _ := pathID(r, "id")
	items := f.workoutExercises[id]
	if len(items) == 0 {
		writeError(w, "Exercises not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (f *FakeAPI) addWorkoutExercise(w http.ResponseWriter, r *http.Request, userID int) {
	id, _ := pathID(r, "id")
	if f.findWorkout(id, userID) < 0 {
		writeError(w, "Workout not found", http.StatusNotFound)
		return
	}
	var in model.WorkoutExerciseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	ei := f.findExercise(in.ExerciseID)
	if ei < 0 {
		writeError(w, "Exercise not found", http.StatusNotFound)
		return
	}
	ex := f.exercises[ei]
	we := model.WorkoutExercise{
		ID: f.id(), WorkoutID: id, ExerciseID: in.ExerciseID,
		Sets: in.Sets, Reps: in.Reps, Weight: in.Weight, Notes: in.Notes,
		CreatedAt: time.Now().UTC(),
		Exercise:  &model.WorkoutExerciseItem{ID: ex.ID, Name: ex.Name, Description: ex.Description},
	}
	f.workoutExercises[id] = append(f.workoutExercises[id], we)
	writeJSON(w, http.StatusCreated, we)
}

func (f *FakeAPI) findWorkoutExercise(workoutID, id int) int {
	for i, we := range f.workoutExercises[workoutID] {
		if we.ID == id {
			return i
		}
	}
	return -1
}

func (f *FakeAPI) updateWorkoutExercise(w http.ResponseWriter, r *http.Request, _ int) {
	workoutID, _ := pathID(r, "id")
	id, _ := pathID(r, "exerciseId")
	i := f.findWorkoutExercise(workoutID, id)
	if i < 0 {
		writeError(w, "Exercise not found", http.StatusNotFound)
		return
	}
	var in model.WorkoutExerciseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	we := &f.workoutExercises[workoutID][i]
	we.ExerciseID, we.Sets, we.Reps, we.Weight, we.Notes = in.ExerciseID, in.Sets, in.Reps, in.Weight, in.Notes
	writeJSON(w, http.StatusOK, *we)
}

func (f *FakeAPI) deleteWorkoutExercise(w http.ResponseWriter, r *http.Request, _ int) {
	workoutID, _ := pathID(r, "id")
	id, _ := pathID(r, "exerciseId")
	i := f.findWorkoutExercise(workoutID, id)
	if i < 0 {
		writeError(w, "Exercise not found", http.StatusNotFound)
		return
	}
	items := f.workoutExercises[workoutID]
	f.workoutExercises[workoutID] = append(items[:i], items[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) dailyNutrition(w http.ResponseWriter, r *http.Request, _ int) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, "Invalid date format", http.StatusBadRequest)
		return
	}
	items := f.nutrition[date]
	if len(items) == 0 {
		writeError(w, "No food entries for this date", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (f *FakeAPI) connectFatSecret(w http.ResponseWriter, r *http.Request, _ int) {
	http.Redirect(w, r, f.FatSecretURL, http.StatusFound)
}
