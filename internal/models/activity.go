// ABOUTME: Completion records, usage events and notes.
// ABOUTME: These describe what the user did with a routine and when.
package models

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// DateLayout is the calendar-day format used for completion dates.
const DateLayout = "2006-01-02"

// Completion records that a routine was performed on a given day.
type Completion struct {
	RoutineID   string    `json:"routine_id" yaml:"routine_id"`
	Date        string    `json:"date" yaml:"date"`
	CompletedAt time.Time `json:"completed_at" yaml:"completed_at"`
}

// NewCompletion creates a completion for the calendar day of t.
func NewCompletion(routineID string, t time.Time) Completion {
	return Completion{
		RoutineID:   routineID,
		Date:        t.Format(DateLayout),
		CompletedAt: t,
	}
}

// Action is the kind of user action a usage event records.
type Action string

const (
	ActionCreated         Action = "created"
	ActionUpdated         Action = "updated"
	ActionDeleted         Action = "deleted"
	ActionViewed          Action = "viewed"
	ActionNotesOpened     Action = "notes_opened"
	ActionProgressUpdated Action = "progress_updated"
)

// AllActions lists every valid usage action.
var AllActions = []Action{
	ActionCreated, ActionUpdated, ActionDeleted,
	ActionViewed, ActionNotesOpened, ActionProgressUpdated,
}

// IsValidAction checks if a string is a valid usage action.
func IsValidAction(s string) bool {
	for _, a := range AllActions {
		if string(a) == s {
			return true
		}
	}
	return false
}

// UsageEvent is a best-effort telemetry entry for a user action.
type UsageEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	RoutineID *string   `json:"routine_id,omitempty"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUsageEvent creates a usage event stamped with the current time.
func NewUsageEvent(userID string, routineID *string, action Action) *UsageEvent {
	now := time.Now()
	return &UsageEvent{
		ID:        ulid.Make().String(),
		UserID:    userID,
		RoutineID: routineID,
		Action:    action,
		Timestamp: now,
	}
}

// Note is a free-form journal entry, optionally tied to a routine.
type Note struct {
	ID        string    `json:"id" yaml:"id"`
	UserID    string    `json:"user_id" yaml:"user_id"`
	RoutineID *string   `json:"routine_id,omitempty" yaml:"routine_id,omitempty"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewNote creates a note with a time-sortable ID.
func NewNote(userID, content string) *Note {
	return &Note{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// WithRoutine ties the note to a routine.
func (n *Note) WithRoutine(routineID string) *Note {
	n.RoutineID = &routineID
	return n
}
