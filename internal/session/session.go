// Package session tracks who the backend thinks is logged in.
//
// The session itself is the backend's access_token cookie. The store only mirrors
// the user returned by GET /users/me and never holds the token.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/shester1kov/go-online-workout-tracker/internal/api"
	"github.com/shester1kov/go-online-workout-tracker/internal/model"
	"github.com/shester1kov/go-online-workout-tracker/internal/observability"
)

type State int

const (
	StateUnknown State = iota
	StateChecking
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

var ErrInvalidCredentials = errors.New("invalid email or password")

// Backend is the subset of the API client the store talks to.
type Backend interface {
	Me(ctx context.Context) (model.User, error)
	Login(ctx context.Context, email, password string) (model.User, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, in model.RegisterRequest) (model.User, error)
}

// CookieClearer drops locally stored cookies. *store.CookieJar satisfies it.
type CookieClearer interface {
	Clear() error
}

type Store struct {
	backend Backend
	cookies CookieClearer
	logger  *slog.Logger

	mu          sync.Mutex
	state       State
	user        *model.User
	subscribers []func(State, *model.User)
}

type Option func(*Store)

// WithCookieClearer makes Logout also wipe local cookies, whatever the backend answers.
func WithCookieClearer(c CookieClearer) Option {
	return func(s *Store) { s.cookies = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func New(backend Backend, opts ...Option) *Store {
	s := &Store{backend: backend, logger: observability.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns a copy of the current user, or nil when nobody is logged in.
func (s *Store) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Subscribe registers fn to be called after every state change.
func (s *Store) Subscribe(fn func(State, *model.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) set(state State, user *model.User) {
	s.mu.Lock()
	s.state = state
	s.user = user
	subs := make([]func(State, *model.User), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		var u *model.User
		if user != nil {
			cp := *user
			u = &cp
		}
		fn(state, u)
	}
}

// Check asks the backend who owns the current cookie. Any failure leaves the store
// anonymous; the error is returned for callers that want to report it.
// Only the first check passes through StateChecking; a re-check keeps the
// resolved state until the backend answers.
func (s *Store) Check(ctx context.Context) (*model.User, error) {
	if s.State() == StateUnknown {
		s.set(StateChecking, nil)
	}
	user, err := s.backend.Me(ctx)
	if err != nil {
		s.logger.Debug("session check failed", "error", err)
		s.set(StateAnonymous, nil)
		return nil, err
	}
	s.set(StateAuthenticated, &user)
	return &user, nil
}

// Login exchanges credentials for a session cookie and then re-checks the session.
// A rejected login leaves the store as it was.
func (s *Store) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if _, err := s.backend.Login(ctx, email, password); err != nil {
		var se *api.StatusError
		if errors.As(err, &se) {
			s.logger.Debug("login rejected", "status", se.Status, "message", se.Message)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	user, err := s.Check(ctx)
	if err != nil {
		return nil, fmt.Errorf("login succeeded but the session could not be confirmed: %w", err)
	}
	return user, nil
}

// Logout ends the session. The store ends up anonymous even if the request fails.
func (s *Store) Logout(ctx context.Context) error {
	err := s.backend.Logout(ctx)
	if err != nil {
		s.logger.Debug("logout request failed", "error", err)
	}
	if s.cookies != nil {
		if cerr := s.cookies.Clear(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("clear cookies: %w", cerr))
		}
	}
	s.set(StateAnonymous, nil)
	return err
}

// Register creates an account and logs straight into it.
func (s *Store) Register(ctx context.Context, email, password, username string) (*model.User, error) {
	in := model.RegisterRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
		Username: strings.TrimSpace(username),
	}
	if in.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if in.Username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if in.Password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if _, err := s.backend.Register(ctx, in); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return s.Login(ctx, in.Email, in.Password)
}
