// ABOUTME: Fixed clock helper for deterministic date-based tests.
// ABOUTME: Day offsets are calendar days relative to a reference date.
package testutil

import (
	"time"

	"github.com/harperreed/routines/internal/models"
)

// Today is the reference date used by streak and insight tests.
var Today = time.Date(2025, time.March, 15, 9, 30, 0, 0, time.UTC)

// FixedClock returns a clock function that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Day returns the date string offset days from Today.
func Day(offset int) string {
	return Today.AddDate(0, 0, offset).Format(models.DateLayout)
}
