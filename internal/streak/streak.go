// ABOUTME: Streak engine: consecutive-day product usage from completion history.
// ABOUTME: Pure computation against an injectable "today".
package streak

import (
	"sort"
	"time"

	"github.com/harperreed/routines/internal/models"
)

// MaxLookback bounds the backward walk for the current streak.
const MaxLookback = 365

// AttentionThreshold is the shortest past run that makes a broken streak worth flagging.
const AttentionThreshold = 3

// Clock returns the reference time for "today".
type Clock func() time.Time

// Engine computes product streaks.
type Engine struct {
	now Clock
}

// New creates an engine. A nil clock uses time.Now.
func New(now Clock) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

type productRef struct {
	key       string
	name      string
	brand     string
	stepLabel string
}

type usage struct {
	ref   productRef
	dates map[string]bool
}

// Compute returns a streak per product used by the given completions,
// sorted by current streak descending, ties by product key.
func (e *Engine) Compute(routines []*models.Routine, completions []models.Completion) []models.ProductStreak {
	byRoutine := make(map[string][]productRef, len(routines))
	for _, r := range routines {
		if r == nil {
			continue
		}
		for _, s := range r.Steps {
			if s.Product == nil || s.Product.Key() == "" {
				continue
			}
			byRoutine[r.ID] = append(byRoutine[r.ID], productRef{
				key:       s.Product.Key(),
				name:      s.Product.Name,
				brand:     s.Product.Brand,
				stepLabel: s.Label(),
			})
		}
	}

	byProduct := make(map[string]*usage)
	for _, c := range completions {
		for _, ref := range byRoutine[c.RoutineID] {
			u, ok := byProduct[ref.key]
			if !ok {
				u = &usage{ref: ref, dates: make(map[string]bool)}
				byProduct[ref.key] = u
			}
			u.dates[c.Date] = true
		}
	}

	today := e.now()
	streaks := make([]models.ProductStreak, 0, len(byProduct))
	for _, u := range byProduct {
		streaks = append(streaks, models.ProductStreak{
			ProductName:   u.ref.name,
			Brand:         u.ref.brand,
			StepLabel:     u.ref.stepLabel,
			CurrentStreak: current(u.dates, today),
			LongestStreak: longest(u.dates),
			LastUsedDate:  lastUsed(u.dates),
			IsActive:      u.dates[today.Format(models.DateLayout)],
		})
	}

	sort.Slice(streaks, func(i, j int) bool {
		if streaks[i].CurrentStreak != streaks[j].CurrentStreak {
			return streaks[i].CurrentStreak > streaks[j].CurrentStreak
		}
		return key(streaks[i]) < key(streaks[j])
	})
	return streaks
}

// current walks back from today while each day is present.
func current(dates map[string]bool, today time.Time) int {
	n := 0
	for n < MaxLookback && dates[today.AddDate(0, 0, -n).Format(models.DateLayout)] {
		n++
	}
	return n
}

// longest finds the longest run of consecutive days.
func longest(dates map[string]bool) int {
	days := make([]time.Time, 0, len(dates))
	for d := range dates {
		t, err := time.Parse(models.DateLayout, d)
		if err != nil {
			continue
		}
		days = append(days, t)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	best, run := 0, 0
	for i, d := range days {
		if i > 0 && d.Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

func lastUsed(dates map[string]bool) string {
	last := ""
	for d := range dates {
		if d > last {
			last = d
		}
	}
	return last
}

func key(s models.ProductStreak) string {
	return (&models.Product{Name: s.ProductName}).Key()
}

// Summary aggregates a list of streaks.
type Summary struct {
	ActiveCount    int                    `json:"active_count"`
	LongestCurrent *models.ProductStreak  `json:"longest_current,omitempty"`
	NeedsAttention []models.ProductStreak `json:"needs_attention"`
}

// Summarize counts active products, picks the longest current streak and
// lists broken streaks that once ran at least AttentionThreshold days.
func Summarize(streaks []models.ProductStreak) Summary {
	sum := Summary{NeedsAttention: []models.ProductStreak{}}
	for i := range streaks {
		s := streaks[i]
		if s.IsActive {
			sum.ActiveCount++
		}
		if s.CurrentStreak > 0 && (sum.LongestCurrent == nil || s.CurrentStreak > sum.LongestCurrent.CurrentStreak) {
			sum.LongestCurrent = &s
		}
		if s.CurrentStreak == 0 && s.LongestStreak >= AttentionThreshold {
			sum.NeedsAttention = append(sum.NeedsAttention, s)
		}
	}
	return sum
}
