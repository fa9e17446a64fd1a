// ABOUTME: Session-scoped wiring of every routine service.
// ABOUTME: Built once at session start and closed at session end; nothing is global.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/routines/internal/cache"
	"github.com/harperreed/routines/internal/compat"
	"github.com/harperreed/routines/internal/config"
	"github.com/harperreed/routines/internal/insight"
	"github.com/harperreed/routines/internal/journal"
	"github.com/harperreed/routines/internal/logging"
	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/profile"
	"github.com/harperreed/routines/internal/routines"
	"github.com/harperreed/routines/internal/session"
	"github.com/harperreed/routines/internal/storage"
	"github.com/harperreed/routines/internal/streak"
	"github.com/harperreed/routines/internal/timeline"
	"github.com/harperreed/routines/internal/usage"
	"github.com/harperreed/routines/internal/versions"
)

// hydrateTimeout bounds the session-start reconcile with the remote store.
const hydrateTimeout = 10 * time.Second

// App holds the services of one session.
type App struct {
	Session  *session.Session
	Logger   *log.Logger
	Remote   storage.Remote
	Cache    cache.Cache
	Routines *routines.Store
	Versions *versions.Store
	Usage    *usage.Log
	Journal  *journal.Journal
	Streaks  *streak.Engine
	Insights *insight.Engine
	Oracle   compat.Oracle
	Profile  profile.Provider
	Timeline *timeline.Builder

	closers []io.Closer
}

// Deps are the collaborators New wires together.
type Deps struct {
	Session *session.Session
	Logger  *log.Logger
	Remote  storage.Remote
	Cache   cache.Cache
	Profile profile.Provider
	Oracle  compat.Oracle
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// New wires the services over already-open collaborators.
func New(d Deps) (*App, error) {
	if d.Session == nil || d.Remote == nil || d.Cache == nil {
		return nil, errors.New("app: session, remote and cache are required")
	}
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.Profile == nil {
		d.Profile = profile.Static(profile.Default())
	}
	if d.Oracle == nil {
		rs, err := compat.Default()
		if err != nil {
			return nil, err
		}
		d.Oracle = rs
	}

	a := &App{
		Session:  d.Session,
		Logger:   d.Logger,
		Remote:   d.Remote,
		Cache:    d.Cache,
		Oracle:   d.Oracle,
		Profile:  d.Profile,
		Streaks:  streak.New(d.Clock),
		Insights: insight.New(),
	}
	a.Usage = usage.New(d.Remote, d.Logger)
	a.Versions = versions.New(d.Remote, d.Session, d.Logger)
	a.Journal = journal.New(d.Remote, d.Session, d.Logger)
	a.Routines = routines.New(d.Cache, d.Remote, d.Session, d.Logger,
		routines.WithSnapshots(a.Versions),
		routines.WithEvents(a.Usage),
		routines.WithClock(d.Clock),
	)
	a.Timeline = timeline.NewBuilder(a.Versions, a.Journal, a.Usage, d.Logger)
	return a, nil
}

// Open builds an App from configuration: opens the remote store and the
// local cache, resolves the signed-in user and hydrates the cache once.
func Open(cfg *config.Config, logger *log.Logger) (*App, error) {
	remote, err := cfg.OpenRemote()
	if err != nil {
		return nil, fmt.Errorf("open remote store: %w", err)
	}

	c, err := cache.Open(cfg.CacheDir())
	if err != nil {
		_ = remote.Close()
		return nil, err
	}
	if cache.IsDetached(c) {
		logger.Warn("local cache is in use by another process, local changes will not persist", "dir", cfg.CacheDir())
	}

	userID, err := cfg.ResolveUserID(remote)
	if err != nil {
		logger.Warn("continuing as guest", "err", err)
		userID = ""
	}
	sess := session.New(userID)
	if sess.IsGuest() {
		logger.Debug("guest session, remote writes disabled")
	}

	a, err := New(Deps{
		Session: sess,
		Logger:  logger,
		Remote:  remote,
		Cache:   c,
		Profile: profile.NewFileProvider(config.ProfilePath()),
	})
	if err != nil {
		_ = c.Close()
		_ = remote.Close()
		return nil, err
	}
	a.closers = append(a.closers, c, remote)

	ctx, cancel := context.WithTimeout(context.Background(), hydrateTimeout)
	defer cancel()
	if err := a.Hydrate(ctx); err != nil {
		logger.Warn("hydrate failed, using cached routines", "err", err)
	}
	return a, nil
}

// Hydrate reconciles the cached routines with the remote store.
// Guests keep the cache as is.
func (a *App) Hydrate(ctx context.Context) error {
	if a.Session.IsGuest() {
		return nil
	}
	_, err := a.Routines.Hydrate(ctx)
	return err
}

// Close ends the session, waits for pending event writes and closes what Open opened.
func (a *App) Close() error {
	a.Session.End()
	a.Usage.Wait()

	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// ProductStreaks computes streaks from the cached routines and completions.
func (a *App) ProductStreaks() ([]models.ProductStreak, error) {
	list, rErr := a.Routines.ReadLocal()
	done, cErr := a.Routines.Completions()
	return a.Streaks.Compute(list, done), errors.Join(rErr, cErr)
}

// GenerateInsights evaluates the insight rules over the current session state.
// Sources that fail contribute their empty fallback; the failures are returned joined.
func (a *App) GenerateInsights(ctx context.Context) ([]models.Insight, error) {
	list, rErr := a.Routines.ReadLocal()
	streaks, sErr := a.ProductStreaks()
	notes, nErr := a.Journal.Count(ctx, nil)
	prof, pErr := a.Profile.Profile()

	out := a.Insights.Generate(&insight.Context{
		Routines:  list,
		Streaks:   streaks,
		NoteCount: notes,
		Profile:   prof,
		Oracle:    a.Oracle,
	})
	return out, errors.Join(rErr, sErr, nErr, pErr)
}
