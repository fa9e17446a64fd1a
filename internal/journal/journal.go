// ABOUTME: Journal of free-form notes kept in the remote store.
// ABOUTME: Notes need a signed-in user; guests read an empty journal.
package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/session"
)

// ErrEmptyNote is returned when adding a note without content.
var ErrEmptyNote = errors.New("note content is required")

// Remote is the subset of storage.Remote the journal needs.
type Remote interface {
	InsertNote(ctx context.Context, n *models.Note) error
	ListNotes(ctx context.Context, userID string, routineID *string, limit int) ([]*models.Note, error)
	CountNotes(ctx context.Context, userID string, routineID *string) (int, error)
}

// Journal reads and writes the session user's notes.
type Journal struct {
	remote   Remote
	identity session.Identity
	logger   *log.Logger
	now      func() time.Time
}

// New creates a journal.
func New(remote Remote, identity session.Identity, logger *log.Logger) *Journal {
	return &Journal{remote: remote, identity: identity, logger: logger, now: time.Now}
}

// Add writes a note, optionally tied to a routine.
func (j *Journal) Add(ctx context.Context, content string, routineID *string) (*models.Note, error) {
	userID, ok := j.identity.UserID()
	if !ok {
		return nil, session.ErrGuest
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyNote
	}

	n := models.NewNote(userID, content)
	n.CreatedAt = j.now()
	if routineID != nil && *routineID != "" {
		n.WithRoutine(*routineID)
	}
	if err := j.remote.InsertNote(ctx, n); err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}
	return n, nil
}

// List returns notes newest first. A limit of 0 means no limit.
// Guests get an empty list; failures return an empty list and the error.
func (j *Journal) List(ctx context.Context, routineID *string, limit int) ([]*models.Note, error) {
	userID, ok := j.identity.UserID()
	if !ok {
		return []*models.Note{}, nil
	}
	notes, err := j.remote.ListNotes(ctx, userID, routineID, limit)
	if err != nil {
		j.logger.Warn("list notes failed", "err", err)
		return []*models.Note{}, err
	}
	if notes == nil {
		notes = []*models.Note{}
	}
	return notes, nil
}

// Count returns how many notes the user has, 0 for guests or on error.
func (j *Journal) Count(ctx context.Context, routineID *string) (int, error) {
	userID, ok := j.identity.UserID()
	if !ok {
		return 0, nil
	}
	n, err := j.remote.CountNotes(ctx, userID, routineID)
	if err != nil {
		j.logger.Warn("count notes failed", "err", err)
		return 0, err
	}
	return n, nil
}
