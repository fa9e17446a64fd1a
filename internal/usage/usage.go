// ABOUTME: Best-effort usage event log over the remote store.
// ABOUTME: Inserts are fire-and-forget; reads are newest first and capped.
package usage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/routines/internal/models"
)

// MaxEvents caps how many events LoadEvents returns.
const MaxEvents = 50

// insertTimeout bounds a single detached insert.
const insertTimeout = 10 * time.Second

// Store is the subset of storage.Remote the log needs.
type Store interface {
	InsertEvent(ctx context.Context, e *models.UsageEvent) error
	ListEvents(ctx context.Context, userID string, routineID *string, limit int) ([]*models.UsageEvent, error)
}

// Log records usage events without blocking callers.
type Log struct {
	store   Store
	logger  *log.Logger
	pending sync.WaitGroup
}

// New creates a usage log writing to store.
func New(store Store, logger *log.Logger) *Log {
	return &Log{store: store, logger: logger}
}

// LogEvent inserts an event in the background. Failures are logged and dropped.
// An empty userID (guest) records nothing.
func (l *Log) LogEvent(userID string, routineID *string, action models.Action) {
	if userID == "" {
		l.logger.Debug("skip usage event for guest", "action", action)
		return
	}
	e := models.NewUsageEvent(userID, routineID, action)

	l.pending.Add(1)
	go func() {
		defer l.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
		defer cancel()
		if err := l.store.InsertEvent(ctx, e); err != nil {
			l.logger.Warn("usage event dropped", "action", e.Action, "err", err)
		}
	}()
}

// Wait blocks until every in-flight insert has finished.
func (l *Log) Wait() {
	l.pending.Wait()
}

// LoadEvents returns up to MaxEvents of the user's events, newest first.
// On failure it returns an empty list together with the error.
func (l *Log) LoadEvents(ctx context.Context, userID string, routineID *string) ([]*models.UsageEvent, error) {
	if userID == "" {
		return []*models.UsageEvent{}, nil
	}
	events, err := l.store.ListEvents(ctx, userID, routineID, MaxEvents)
	if err != nil {
		l.logger.Warn("load usage events failed", "err", err)
		return []*models.UsageEvent{}, err
	}

	// Backends may not order; enforce it here.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
	if len(events) > MaxEvents {
		events = events[:MaxEvents]
	}
	return events, nil
}
