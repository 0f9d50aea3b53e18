package model

import "time"

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Exercise struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CategoryID  int       `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ExerciseList is the paginated payload returned by GET /exercises.
type ExerciseList struct {
	Exercises []Exercise `json:"exercises"`
	Total     int        `json:"total"`
	Page      int        `json:"page"`
	Limit     int        `json:"limit"`
}

type Workout struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Date      time.Time `json:"date"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkoutExerciseItem is the exercise summary the backend embeds in a set row.
type WorkoutExerciseItem struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type WorkoutExercise struct {
	ID         int                  `json:"id"`
	WorkoutID  int                  `json:"workout_id"`
	ExerciseID int                  `json:"exercise_id"`
	Sets       int                  `json:"sets"`
	Reps       int                  `json:"reps"`
	Weight     float64              `json:"weight"`
	Notes      string               `json:"notes"`
	CreatedAt  time.Time            `json:"created_at"`
	Exercise   *WorkoutExerciseItem `json:"exercise,omitempty"`
}

type NutritionEntry struct {
	ID       int       `json:"id"`
	FoodName string    `json:"food_name"`
	Calories float64   `json:"calories"`
	Protein  float64   `json:"protein"`
	Carbs    float64   `json:"carbs"`
	Fat      float64   `json:"fat"`
	Date     time.Time `json:"date"`
}

type Health struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Details   map[string]string `json:"details,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type ExerciseInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  int    `json:"category_id"`
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type WorkoutInput struct {
	Date  time.Time `json:"date"`
	Notes string    `json:"notes"`
}

type WorkoutExerciseInput struct {
	ExerciseID int     `json:"exercise_id"`
	Sets       int     `json:"sets"`
	Reps       int     `json:"reps"`
	Weight     float64 `json:"weight"`
	Notes      string  `json:"notes"`
}

type RoleGrant struct {
	RoleID int `json:"role_id"`
}

// ErrorResponse is the JSON error body written by the backend.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
