// ABOUTME: Routine, RoutineStep and Product models for skincare routines.
// ABOUTME: Routines hold an ordered list of steps tagged to a time of day.
package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimeOfDay tags when a routine or step is performed.
type TimeOfDay string

const (
	Morning TimeOfDay = "morning"
	Evening TimeOfDay = "evening"
	Both    TimeOfDay = "both"
)

// IsValidTimeOfDay checks if a string is a valid time of day.
func IsValidTimeOfDay(s string) bool {
	switch TimeOfDay(s) {
	case Morning, Evening, Both:
		return true
	}
	return false
}

// CoversMorning reports whether the value includes the morning slot.
func (t TimeOfDay) CoversMorning() bool { return t == Morning || t == Both }

// CoversEvening reports whether the value includes the evening slot.
func (t TimeOfDay) CoversEvening() bool { return t == Evening || t == Both }

// Product is a reference to a skincare product attached to a step.
type Product struct {
	ID       string            `json:"id" yaml:"id"`
	Name     string            `json:"name" yaml:"name"`
	Brand    string            `json:"brand,omitempty" yaml:"brand,omitempty"`
	Image    string            `json:"image,omitempty" yaml:"image,omitempty"`
	Category string            `json:"category,omitempty" yaml:"category,omitempty"`
	Purchase map[string]string `json:"purchase,omitempty" yaml:"purchase,omitempty"`
	Source   string            `json:"source,omitempty" yaml:"source,omitempty"`
}

// NewProduct creates a Product with a generated ID.
func NewProduct(name, brand string) *Product {
	return &Product{
		ID:     uuid.New().String(),
		Name:   name,
		Brand:  brand,
		Source: "user",
	}
}

// Key returns the lowercased product name used to group usage.
func (p *Product) Key() string {
	return strings.ToLower(strings.TrimSpace(p.Name))
}

// RoutineStep is one action in a routine, optionally bound to a product.
type RoutineStep struct {
	ID          string    `json:"id" yaml:"id"`
	StepNumber  int       `json:"step_number" yaml:"step_number"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	TimeOfDay   TimeOfDay `json:"time_of_day" yaml:"time_of_day"`
	Product     *Product  `json:"product,omitempty" yaml:"product,omitempty"`
	Recommended bool      `json:"recommended,omitempty" yaml:"recommended,omitempty"`
}

// Label returns the display label of the step, e.g. "Step 2: Serum".
func (s RoutineStep) Label() string {
	return fmt.Sprintf("Step %d: %s", s.StepNumber, s.Title)
}

// Routine is a saved skincare routine definition.
type Routine struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Description *string       `json:"description,omitempty" yaml:"description,omitempty"`
	TimeOfDay   TimeOfDay     `json:"time_of_day" yaml:"time_of_day"`
	Steps       []RoutineStep `json:"steps" yaml:"steps"`
	StepCount   int           `json:"step_count" yaml:"step_count"`
	Thumbnail   *string       `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
	CreatedAt   time.Time     `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" yaml:"updated_at"`
}

// NewRoutine creates a new Routine with generated UUID and current timestamps.
func NewRoutine(name string, timeOfDay TimeOfDay) *Routine {
	now := time.Now()
	return &Routine{
		ID:        uuid.New().String(),
		Name:      name,
		TimeOfDay: timeOfDay,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithDescription sets the routine description.
func (r *Routine) WithDescription(desc string) *Routine {
	r.Description = &desc
	return r
}

// WithThumbnail sets the routine thumbnail.
func (r *Routine) WithThumbnail(thumb string) *Routine {
	r.Thumbnail = &thumb
	return r
}

// AddStep appends a step after the current last step.
// The step inherits the routine's time of day when it has none.
func (r *Routine) AddStep(title string, product *Product) *Routine {
	step := RoutineStep{
		ID:         uuid.New().String(),
		StepNumber: len(r.Steps) + 1,
		Title:      title,
		TimeOfDay:  r.TimeOfDay,
		Product:    product,
	}
	r.Steps = append(r.Steps, step)
	r.StepCount = len(r.Steps)
	return r
}

// Normalize orders steps by step number and keeps StepCount in sync.
func (r *Routine) Normalize() {
	sort.SliceStable(r.Steps, func(i, j int) bool {
		return r.Steps[i].StepNumber < r.Steps[j].StepNumber
	})
	r.StepCount = len(r.Steps)
}

// Validate checks the fields a routine must carry before it is saved.
func (r *Routine) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("routine id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("routine name is required")
	}
	if !IsValidTimeOfDay(string(r.TimeOfDay)) {
		return fmt.Errorf("invalid time of day: %q", r.TimeOfDay)
	}
	return nil
}

// ProductNames returns the lowercased names of products attached to steps, in step order.
func (r *Routine) ProductNames() []string {
	return ProductNames(r.Steps)
}

// ProductNames returns the lowercased names of products attached to the given steps.
func ProductNames(steps []RoutineStep) []string {
	var names []string
	for _, s := range steps {
		if s.Product != nil && s.Product.Key() != "" {
			names = append(names, s.Product.Key())
		}
	}
	return names
}

// Clone returns a deep copy of the routine.
func (r *Routine) Clone() *Routine {
	c := *r
	c.Steps = cloneSteps(r.Steps)
	return &c
}

func cloneSteps(steps []RoutineStep) []RoutineStep {
	out := make([]RoutineStep, len(steps))
	for i, s := range steps {
		if s.Product != nil {
			p := *s.Product
			s.Product = &p
		}
		out[i] = s
	}
	return out
}
