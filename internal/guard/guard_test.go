package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shester1kov/go-online-workout-tracker/internal/model"
	"github.com/shester1kov/go-online-workout-tracker/internal/session"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		state session.State
		want  Decision
	}{
		{session.StateUnknown, Decision{Action: Loading}},
		{session.StateChecking, Decision{Action: Loading}},
		{session.StateAnonymous, Decision{Action: Redirect, Target: "/login"}},
		{session.StateAuthenticated, Decision{Action: Render}},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.state))
		})
	}
}

func TestRequire(t *testing.T) {
	assert.NoError(t, Require(session.StateAuthenticated))
	assert.ErrorIs(t, Require(session.StateAnonymous), ErrLoginRequired)
	assert.ErrorIs(t, Require(session.StateUnknown), ErrLoginRequired)
}

func TestCapabilities(t *testing.T) {
	admin := []model.Role{{ID: 1, Name: "admin"}}
	moderator := []model.Role{{ID: 2, Name: "Moderator"}}
	user := []model.Role{{ID: 3, Name: "user"}}

	assert.Equal(t, Capabilities{ManageCategories: true, ManageExercises: true}, CapabilitiesFor(admin))
	assert.Equal(t, Capabilities{ManageExercises: true}, CapabilitiesFor(moderator))
	assert.Equal(t, Capabilities{}, CapabilitiesFor(user))
	assert.Equal(t, Capabilities{}, CapabilitiesFor(nil))
	assert.True(t, HasRole(moderator, "moderator"))
	assert.False(t, HasRole(user, "admin"))
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "redirect", Redirect.String())
	assert.Equal(t, "render", Render.String())
}
