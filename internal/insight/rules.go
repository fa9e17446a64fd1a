// ABOUTME: Built-in insight rules.
// ABOUTME: Each rule looks at one aspect of the context and fires at most once.
package insight

import (
	"fmt"

	"github.com/harperreed/routines/internal/compat"
	"github.com/harperreed/routines/internal/models"
)

const (
	consistencyDays  = 7
	brokenStreakDays = 5
	adjustmentDays   = 14
	activeJournal    = 5
)

var (
	retinolKeywords  = []string{"retinol"}
	vitaminCKeywords = []string{"vitamin c", "vitaminc", "vitc", "ascorbic", "ascorbyl"}
)

const fallbackResolution = "Consider using these products at different times of day."

func consistencyStreak(c *Context) *models.Insight {
	for _, s := range c.Streaks {
		if s.CurrentStreak >= consistencyDays {
			return &models.Insight{
				ID:          "consistency-streak",
				Type:        models.InsightConsistency,
				Title:       fmt.Sprintf("%d-day streak", s.CurrentStreak),
				Description: fmt.Sprintf("You've used %s %d days in a row. Keep it up!", s.ProductName, s.CurrentStreak),
				Severity:    models.SeverityPositive,
			}
		}
	}
	return nil
}

func brokenStreak(c *Context) *models.Insight {
	for _, s := range c.Streaks {
		if s.CurrentStreak == 0 && s.LongestStreak >= brokenStreakDays {
			return &models.Insight{
				ID:          "streak-broken",
				Type:        models.InsightConsistency,
				Title:       "Streak interrupted",
				Description: fmt.Sprintf("You used %s for %d days straight but haven't lately.", s.ProductName, s.LongestStreak),
				Severity:    models.SeverityWarning,
			}
		}
	}
	return nil
}

// ingredientConflict reports the first avoid verdict across routines in order.
func ingredientConflict(c *Context) *models.Insight {
	if c.Oracle == nil {
		return nil
	}
	for _, r := range c.Routines {
		names := r.ProductNames()
		if len(names) < 2 {
			continue
		}
		for _, v := range c.Oracle.Check(names) {
			if v.Level != compat.Avoid {
				continue
			}
			resolution := v.Resolution
			if resolution == "" {
				resolution = fallbackResolution
			}
			return &models.Insight{
				ID:          "conflict-" + r.ID,
				Type:        models.InsightConflict,
				Title:       "Ingredient conflict",
				Description: fmt.Sprintf("%s has %s and %s together. %s", r.Name, v.A, v.B, resolution),
				Severity:    models.SeverityWarning,
			}
		}
	}
	return nil
}

func retinolAdjustment(c *Context) *models.Insight {
	if !c.Profile.HasConcern("aging") {
		return nil
	}
	for _, s := range c.Streaks {
		if compat.Mentions(s.ProductName, retinolKeywords...) && s.CurrentStreak >= adjustmentDays {
			return &models.Insight{
				ID:          "retinol-adjustment",
				Type:        models.InsightProduct,
				Title:       "Retinol adjustment period",
				Description: fmt.Sprintf("After %d days of %s your skin is past the usual adjustment period. Results for fine lines build over 8-12 weeks.", s.CurrentStreak, s.ProductName),
				Severity:    models.SeverityNeutral,
			}
		}
	}
	return nil
}

func vitaminCBrightening(c *Context) *models.Insight {
	if !c.Profile.HasConcern("hyperpigmentation") {
		return nil
	}
	for _, s := range c.Streaks {
		if compat.Mentions(s.ProductName, vitaminCKeywords...) {
			return &models.Insight{
				ID:          "vitamin-c-brightening",
				Type:        models.InsightProgress,
				Title:       "Brightening progress",
				Description: fmt.Sprintf("%s targets hyperpigmentation. Keep pairing it with daily sunscreen.", s.ProductName),
				Severity:    models.SeverityPositive,
			}
		}
	}
	return nil
}

func journaling(c *Context) *models.Insight {
	switch {
	case c.NoteCount >= activeJournal:
		return &models.Insight{
			ID:          "active-journal",
			Type:        models.InsightProgress,
			Title:       "Active journal",
			Description: fmt.Sprintf("%d notes logged. Tracking observations makes changes easier to spot.", c.NoteCount),
			Severity:    models.SeverityPositive,
		}
	case c.NoteCount == 0 && len(c.Routines) > 0:
		return &models.Insight{
			ID:          "start-tracking",
			Type:        models.InsightProgress,
			Title:       "Start tracking observations",
			Description: "Add a note about how your skin looks and feels to see progress over time.",
			Severity:    models.SeverityNeutral,
		}
	}
	return nil
}

func routineBalance(c *Context) *models.Insight {
	morning, evening := false, false
	for _, r := range c.Routines {
		morning = morning || r.TimeOfDay.CoversMorning()
		evening = evening || r.TimeOfDay.CoversEvening()
	}
	switch {
	case morning && evening:
		return &models.Insight{
			ID:          "balanced-routine",
			Type:        models.InsightConsistency,
			Title:       "Balanced routine",
			Description: "You have both a morning and an evening routine.",
			Severity:    models.SeverityPositive,
		}
	case morning:
		return &models.Insight{
			ID:          "add-evening-routine",
			Type:        models.InsightConsistency,
			Title:       "Add an evening routine",
			Description: "Evenings are when skin repairs itself. An evening routine completes the day.",
			Severity:    models.SeverityNeutral,
		}
	}
	return nil
}

