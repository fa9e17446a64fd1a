// ABOUTME: RoutineVersion model for append-only routine history.
// ABOUTME: A version holds a full snapshot of a routine's content at save time.
package models

import "time"

// Snapshot is the routine content captured by a version.
type Snapshot struct {
	Name      string        `json:"name" yaml:"name"`
	TimeOfDay TimeOfDay     `json:"time_of_day" yaml:"time_of_day"`
	Steps     []RoutineStep `json:"steps" yaml:"steps"`
}

// SnapshotOf captures the versioned content of a routine.
func SnapshotOf(r *Routine) Snapshot {
	c := r.Clone()
	return Snapshot{
		Name:      c.Name,
		TimeOfDay: c.TimeOfDay,
		Steps:     c.Steps,
	}
}

// RoutineVersion is an immutable, numbered copy of a routine.
type RoutineVersion struct {
	RoutineID     string    `json:"routine_id" yaml:"routine_id"`
	VersionNumber int       `json:"version_number" yaml:"version_number"`
	Label         *string   `json:"label,omitempty" yaml:"label,omitempty"`
	Snapshot      Snapshot  `json:"snapshot" yaml:"snapshot"`
	ChangeSummary string    `json:"change_summary" yaml:"change_summary"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
}

// CopySteps returns a deep copy of the snapshot's steps.
func (s Snapshot) CopySteps() []RoutineStep {
	return cloneSteps(s.Steps)
}
