// Package guard decides whether a protected operation may run for the current
// session, and which management actions to offer for a set of roles.
package guard

import (
	"errors"
	"strings"

	"github.com/shester1kov/go-online-workout-tracker/internal/model"
	"github.com/shester1kov/go-online-workout-tracker/internal/session"
)

const LoginPath = "/login"

var ErrLoginRequired = errors.New("login required: run `tracker login` first")

type Action int

const (
	// Loading means the session has not been resolved yet; show nothing.
	Loading Action = iota
	Redirect
	Render
)

func (a Action) String() string {
	switch a {
	case Redirect:
		return "redirect"
	case Render:
		return "render"
	default:
		return "loading"
	}
}

type Decision struct {
	Action Action
	// Target is set for Redirect.
	Target string
}

func Decide(state session.State) Decision {
	switch state {
	case session.StateAuthenticated:
		return Decision{Action: Render}
	case session.StateAnonymous:
		return Decision{Action: Redirect, Target: LoginPath}
	default:
		return Decision{Action: Loading}
	}
}

// Require turns a decision into an error for callers that cannot wait or redirect.
func Require(state session.State) error {
	if Decide(state).Action == Render {
		return nil
	}
	return ErrLoginRequired
}

const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

func HasRole(roles []model.Role, name string) bool {
	for _, r := range roles {
		if strings.EqualFold(r.Name, name) {
			return true
		}
	}
	return false
}

// Capabilities controls what the client offers. The backend still authorizes every
// request on its own.
type Capabilities struct {
	ManageCategories bool
	ManageExercises  bool
}

func CapabilitiesFor(roles []model.Role) Capabilities {
	admin := HasRole(roles, RoleAdmin)
	return Capabilities{
		ManageCategories: admin,
		ManageExercises:  admin || HasRole(roles, RoleModerator),
	}
}
