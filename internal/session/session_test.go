package session_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shester1kov/go-online-workout-tracker/internal/api"
	"github.com/shester1kov/go-online-workout-tracker/internal/model"
	"github.com/shester1kov/go-online-workout-tracker/internal/session"
	"github.com/shester1kov/go-online-workout-tracker/internal/testsupport"
)

type fixture struct {
	fake   *testsupport.FakeAPI
	jar    http.CookieJar
	client *api.Client
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	fake := testsupport.NewFakeAPI(t)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return fixture{fake: fake, jar: jar, client: api.New(fake.URL(), jar, 2*time.Second)}
}

type countingClearer struct{ calls int }

func (c *countingClearer) Clear() error {
	c.calls++
	return nil
}

func TestLoginStoresReturnedUser(t *testing.T) {
	fx := newFixture(t)
	want := fx.fake.AddUser("ann@example.com", "secret", "ann")
	s := session.New(fx.client)

	user, err := s.Login(context.Background(), "ann@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, want.ID, user.ID)
	assert.Equal(t, session.StateAuthenticated, s.State())
	require.NotNil(t, s.User())
	assert.Equal(t, "ann", s.User().Username)
	assert.Equal(t, 1, fx.fake.Hits(http.MethodGet, "/users/me"))
}

func TestLoginFailureIsGenericAndKeepsState(t *testing.T) {
	fx := newFixture(t)
	fx.fake.AddUser("ann@example.com", "secret", "ann")
	s := session.New(fx.client)

	_, err := s.Login(context.Background(), "ann@example.com", "wrong")
	require.ErrorIs(t, err, session.ErrInvalidCredentials)
	assert.Equal(t, session.StateUnknown, s.State())
	assert.Nil(t, s.User())

	_, err = s.Login(context.Background(), "nobody@example.com", "secret")
	require.ErrorIs(t, err, session.ErrInvalidCredentials)
	assert.Zero(t, fx.fake.Hits(http.MethodGet, "/users/me"))
}

func TestLoginNetworkFailureIsNotCredentials(t *testing.T) {
	client := api.New("http://127.0.0.1:1/api/v1", nil, time.Second)
	s := session.New(client)

	_, err := s.Login(context.Background(), "ann@example.com", "secret")
	require.Error(t, err)
	assert.False(t, errors.Is(err, session.ErrInvalidCredentials))
	var netErr *api.NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestLoginValidatesInput(t *testing.T) {
	fx := newFixture(t)
	s := session.New(fx.client)

	_, err := s.Login(context.Background(), "  ", "secret")
	require.EqualError(t, err, "email is required")
	_, err = s.Login(context.Background(), "ann@example.com", "")
	require.EqualError(t, err, "password is required")
	assert.Zero(t, fx.fake.Hits(http.MethodPost, "/login"))
}

func TestCheckWithoutCookieIsAnonymous(t *testing.T) {
	fx := newFixture(t)
	s := session.New(fx.client)

	user, err := s.Check(context.Background())
	require.Error(t, err)
	assert.Nil(t, user)
	assert.Equal(t, session.StateAnonymous, s.State())
	assert.Nil(t, s.User())
}

func TestFailedCheckDropsAuthenticatedUser(t *testing.T) {
	fx := newFixture(t)
	fx.fake.AddUser("ann@example.com", "secret", "ann")
	s := session.New(fx.client)
	_, err := s.Login(context.Background(), "ann@example.com", "secret")
	require.NoError(t, err)

	fx.fake.FailNext(http.MethodGet, "/users/me", http.StatusInternalServerError)
	_, err = s.Check(context.Background())
	require.Error(t, err)
	assert.Equal(t, session.StateAnonymous, s.State())
	assert.Nil(t, s.User())
}

func TestLogoutClearsUserWhateverTheResponse(t *testing.T) {
	fx := newFixture(t)
	fx.fake.AddUser("ann@example.com", "secret", "ann")
	clearer := &countingClearer{}
	s := session.New(fx.client, session.WithCookieClearer(clearer))
	_, err := s.Login(context.Background(), "ann@example.com", "secret")
	require.NoError(t, err)

	fx.fake.FailNext(http.MethodPost, "/logout", http.StatusInternalServerError)
	err = s.Logout(context.Background())
	require.Error(t, err)
	assert.Equal(t, session.StateAnonymous, s.State())
	assert.Nil(t, s.User())
	assert.Equal(t, 1, clearer.calls)
}

func TestLogoutExpiresCookie(t *testing.T) {
	fx := newFixture(t)
	fx.fake.AddUser("ann@example.com", "secret", "ann")
	s := session.New(fx.client)
	_, err := s.Login(context.Background(), "ann@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, s.Logout(context.Background()))
	_, err = s.Check(context.Background())
	require.True(t, api.IsUnauthorized(err))
	_, err = session.Token(fx.jar, fx.fake.URL())
	assert.ErrorIs(t, err, session.ErrNoToken)
}

func TestRegisterLogsIn(t *testing.T) {
	fx := newFixture(t)
	s := session.New(fx.client)

	user, err := s.Register(context.Background(), "bob@example.com", "pw", "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", user.Email)
	assert.Equal(t, session.StateAuthenticated, s.State())
	assert.Equal(t, 1, fx.fake.Hits(http.MethodPost, "/login"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	fx := newFixture(t)
	fx.fake.AddUser("bob@example.com", "pw", "bob")
	s := session.New(fx.client)

	_, err := s.Register(context.Background(), "bob@example.com", "pw", "bob")
	require.Error(t, err)
	assert.True(t, api.HasStatus(err, http.StatusConflict))
	assert.Zero(t, fx.fake.Hits(http.MethodPost, "/login"))
}

func TestSubscribersSeeTransitions(t *testing.T) {
	fx := newFixture(t)
	fx.fake.AddUser("ann@example.com", "secret", "ann")
	s := session.New(fx.client)
	var seen []session.State
	s.Subscribe(func(st session.State, _ *model.User) { seen = append(seen, st) })

	_, err := s.Login(context.Background(), "ann@example.com", "secret")
	require.NoError(t, err)
	require.NoError(t, s.Logout(context.Background()))

	assert.Equal(t, []session.State{session.StateChecking, session.StateAuthenticated, session.StateAnonymous}, seen)
}

// observingBackend records the store's state while a session check is in flight.
type observingBackend struct {
	session.Backend
	store    *session.Store
	duringMe []session.State
}

func (b *observingBackend) Me(ctx context.Context) (model.User, error) {
	b.duringMe = append(b.duringMe, b.store.State())
	return b.Backend.Me(ctx)
}

func TestRecheckKeepsAuthenticatedUntilAnswered(t *testing.T) {
	fx := newFixture(t)
	fx.fake.AddUser("ann@example.com", "secret", "ann")
	backend := &observingBackend{Backend: fx.client}
	s := session.New(backend)
	backend.store = s

	_, err := s.Login(context.Background(), "ann@example.com", "secret")
	require.NoError(t, err)

	var seen []session.State
	s.Subscribe(func(st session.State, _ *model.User) { seen = append(seen, st) })
	_, err = s.Check(context.Background())
	require.NoError(t, err)

	fx.fake.FailNext(http.MethodGet, "/users/me", http.StatusUnauthorized)
	_, err = s.Check(context.Background())
	require.Error(t, err)

	assert.Equal(t, []session.State{session.StateChecking, session.StateAuthenticated, session.StateAuthenticated}, backend.duringMe)
	assert.Equal(t, []session.State{session.StateAuthenticated, session.StateAnonymous}, seen)
	assert.NotContains(t, seen, session.StateChecking)
	assert.Nil(t, s.User())
}

func TestTokenReadsCookieClaims(t *testing.T) {
	fx := newFixture(t)
	want := fx.fake.AddUser("ann@example.com", "secret", "ann")
	s := session.New(fx.client)
	_, err := s.Login(context.Background(), "ann@example.com", "secret")
	require.NoError(t, err)

	info, err := session.Token(fx.jar, fx.fake.URL())
	require.NoError(t, err)
	assert.Equal(t, want.ID, info.UserID)
	assert.False(t, info.Expired(time.Now()))
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), info.ExpiresAt, time.Minute)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := session.ParseToken("not-a-jwt")
	require.Error(t, err)

	raw, err := testsupport.IssueToken(7, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	info, err := session.ParseToken(raw)
	require.NoError(t, err)
	assert.Equal(t, 7, info.UserID)
	assert.True(t, info.Expired(time.Now()))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unknown", session.StateUnknown.String())
	assert.Equal(t, "checking", session.StateChecking.String())
	assert.Equal(t, "authenticated", session.StateAuthenticated.String())
	assert.Equal(t, "anonymous", session.StateAnonymous.String())
}
