package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/shester1kov/go-online-workout-tracker/internal/model"
)

func (c *Client) Login(ctx context.Context, email, password string) (model.User, error) {
	var user model.User
	err := c.do(ctx, request{
		method: http.MethodPost,
		route:  "/login",
		path:   "/login",
		body:   model.LoginRequest{Email: strings.TrimSpace(email), Password: password},
	}, &user)
	return user, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodPost, route: "/logout", path: "/logout"}, nil)
}

func (c *Client) Register(ctx context.Context, in model.RegisterRequest) (model.User, error) {
	var user model.User
	err := c.do(ctx, request{
		method: http.MethodPost,
		route:  "/register",
		path:   "/register",
		body:   in,
	}, &user)
	return user, err
}

// Me returns the user bound to the current session cookie.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var user model.User
	err := c.do(ctx, request{method: http.MethodGet, route: "/users/me", path: "/users/me"}, &user)
	return user, err
}

func (c *Client) UserRoles(ctx context.Context, userID int) ([]model.Role, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("user id must be > 0")
	}
	roles := make([]model.Role, 0)
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/users/{id}/roles",
		path:   fmt.Sprintf("/users/%d/roles", userID),
	}, &roles)
	return roles, err
}

// GrantRole attaches a role to a user. The backend only accepts this from admins.
func (c *Client) GrantRole(ctx context.Context, userID, roleID int) (model.User, error) {
	var user model.User
	if userID <= 0 || roleID <= 0 {
		return user, fmt.Errorf("user id and role id must be > 0")
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		route:  "/users/{id}/roles",
		path:   fmt.Sprintf("/users/%d/roles", userID),
		body:   model.RoleGrant{RoleID: roleID},
	}, &user)
	return user, err
}
