package tracker

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/shester1kov/go-online-workout-tracker/internal/api"
	"github.com/shester1kov/go-online-workout-tracker/internal/config"
	"github.com/shester1kov/go-online-workout-tracker/internal/guard"
	"github.com/shester1kov/go-online-workout-tracker/internal/observability"
	"github.com/shester1kov/go-online-workout-tracker/internal/remote"
	"github.com/shester1kov/go-online-workout-tracker/internal/resource"
	"github.com/shester1kov/go-online-workout-tracker/internal/session"
	"github.com/shester1kov/go-online-workout-tracker/internal/store"
)

const defaultAPIURLHint = api.DefaultBaseURL

// runtime is everything a networked command needs. It is opened once per
// invocation and closed by run.
type runtime struct {
	db       *sql.DB
	jar      *store.CookieJar
	client   *api.Client
	session  *session.Store
	logger   *slog.Logger
	metrics  *observability.Metrics
	apiURL   string
	debounce time.Duration
}

var active *runtime

func (rt *runtime) resourceOptions() resource.Options {
	return resource.Options{Metrics: rt.metrics, Logger: rt.logger, Debounce: rt.debounce}
}

func openRuntime(cmd *cobra.Command) (*runtime, error) {
	if active != nil {
		return active, nil
	}
	if err := config.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg := config.Load()

	sqldb, err := openDB()
	if err != nil {
		return nil, err
	}
	storedURL, _, err := store.GetConfig(sqldb, store.ConfigAPIURL)
	if err != nil {
		sqldb.Close()
		return nil, err
	}
	storedLevel, _, err := store.GetConfig(sqldb, store.ConfigLogLevel)
	if err != nil {
		sqldb.Close()
		return nil, err
	}

	logger, err := observability.NewLogger(cmd.ErrOrStderr(), config.FirstNonEmpty(logLevel, cfg.LogLevel, storedLevel))
	if err != nil {
		sqldb.Close()
		return nil, err
	}
	jar, err := store.NewCookieJar(sqldb)
	if err != nil {
		sqldb.Close()
		return nil, err
	}

	rt := &runtime{
		db:       sqldb,
		jar:      jar,
		logger:   logger,
		metrics:  observability.NewMetrics(),
		apiURL:   config.FirstNonEmpty(apiURLFlag, cfg.APIURL, storedURL, api.DefaultBaseURL),
		debounce: cfg.Debounce,
	}
	rt.client = api.New(rt.apiURL, jar, cfg.HTTPTimeout)
	rt.client.Logger = logger
	rt.client.Metrics = rt.metrics
	rt.session = session.New(rt.client, session.WithCookieClearer(jar), session.WithLogger(logger))
	active = rt
	logger.Debug("runtime ready", "api_url", rt.apiURL)
	return rt, nil
}

func closeRuntime() error {
	rt := active
	active = nil
	if rt == nil {
		return nil
	}
	var errs []error
	if metricsFile != "" {
		errs = append(errs, rt.metrics.WriteTextfile(metricsFile))
	}
	if err := rt.jar.Err(); err != nil {
		errs = append(errs, fmt.Errorf("save session cookies: %w", err))
	}
	errs = append(errs, rt.db.Close())
	return errors.Join(errs...)
}

// requireLogin is the PersistentPreRunE of every command that needs a session.
// It checks the session once and refuses to run for anonymous users.
func requireLogin(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	if _, err := rt.session.Check(cmd.Context()); err != nil {
		var netErr *api.NetworkError
		if errors.As(err, &netErr) {
			return fmt.Errorf("check session: %w", err)
		}
	}
	return guard.Require(rt.session.State())
}

// withRuntime runs fn for commands that talk to the API without needing a session.
func withRuntime(cmd *cobra.Command, fn func(*runtime) error) error {
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	return fn(rt)
}

// current returns the runtime opened by requireLogin.
func current(cmd *cobra.Command) (*runtime, error) {
	return openRuntime(cmd)
}

// reportResync turns a failed reload after a successful change into a warning:
// the change is saved, only the listing is out of date. reloaded is false in that
// case, so callers skip printing the stale listing.
func reportResync(cmd *cobra.Command, err error) (reloaded bool, _ error) {
	var resync *remote.ResyncError
	if errors.As(err, &resync) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		return false, nil
	}
	return err == nil, err
}
