// ABOUTME: Tests for streak computation and summaries.
// ABOUTME: Uses a fixed "today" so dates are deterministic.
package streak

import (
	"testing"

	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engine() *Engine {
	return New(testutil.FixedClock(testutil.Today))
}

func routine(products ...string) *models.Routine {
	r := models.NewRoutine("PM", models.Evening)
	for _, p := range products {
		r.AddStep(p, models.NewProduct(p, "Brand"))
	}
	return r
}

func completions(routineID string, offsets ...int) []models.Completion {
	var out []models.Completion
	for _, o := range offsets {
		out = append(out, models.NewCompletion(routineID, testutil.Today.AddDate(0, 0, o)))
	}
	return out
}

func TestThreeDayStreak(t *testing.T) {
	r := routine("Retinol Serum")
	streaks := engine().Compute([]*models.Routine{r}, completions(r.ID, 0, -1, -2))

	require.Len(t, streaks, 1)
	s := streaks[0]
	assert.Equal(t, "Retinol Serum", s.ProductName)
	assert.Equal(t, "Step 1: Retinol Serum", s.StepLabel)
	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 3, s.LongestStreak)
	assert.True(t, s.IsActive)
	assert.Equal(t, testutil.Day(0), s.LastUsedDate)
}

func TestBrokenStreakNeedsAttention(t *testing.T) {
	r := routine("Vitamin C")
	streaks := engine().Compute([]*models.Routine{r}, completions(r.ID, -5, -4, -3))

	require.Len(t, streaks, 1)
	assert.Equal(t, 0, streaks[0].CurrentStreak)
	assert.Equal(t, 3, streaks[0].LongestStreak)
	assert.False(t, streaks[0].IsActive)

	sum := Summarize(streaks)
	assert.Equal(t, 0, sum.ActiveCount)
	assert.Nil(t, sum.LongestCurrent)
	require.Len(t, sum.NeedsAttention, 1)
	assert.Equal(t, "Vitamin C", sum.NeedsAttention[0].ProductName)
}

func TestMissingTodayMeansZero(t *testing.T) {
	r := routine("Toner")
	offsets := []int{}
	for i := -1; i >= -30; i-- {
		offsets = append(offsets, i)
	}
	streaks := engine().Compute([]*models.Routine{r}, completions(r.ID, offsets...))
	require.Len(t, streaks, 1)
	assert.Equal(t, 0, streaks[0].CurrentStreak)
	assert.Equal(t, 30, streaks[0].LongestStreak)
}

func TestLongestAtLeastCurrent(t *testing.T) {
	r := routine("A", "B")
	history := completions(r.ID, 0, -1, -3, -4, -5, -6, -10)
	for _, s := range engine().Compute([]*models.Routine{r}, history) {
		assert.GreaterOrEqual(t, s.LongestStreak, s.CurrentStreak)
		assert.Equal(t, 2, s.CurrentStreak)
		assert.Equal(t, 4, s.LongestStreak)
	}
}

func TestCurrentStreakCapped(t *testing.T) {
	r := routine("Sunscreen")
	var offsets []int
	for i := 0; i < MaxLookback+20; i++ {
		offsets = append(offsets, -i)
	}
	streaks := engine().Compute([]*models.Routine{r}, completions(r.ID, offsets...))
	require.Len(t, streaks, 1)
	assert.Equal(t, MaxLookback, streaks[0].CurrentStreak)
	assert.Equal(t, MaxLookback+20, streaks[0].LongestStreak)
}

func TestProductSharedAcrossRoutines(t *testing.T) {
	am := routine("Cleanser")
	pm := routine("cleanser", "Retinol")
	history := append(completions(am.ID, 0, -2), completions(pm.ID, -1)...)

	streaks := engine().Compute([]*models.Routine{am, pm}, history)
	require.Len(t, streaks, 2)
	assert.Equal(t, 3, streaks[0].CurrentStreak, "one completion counts for every product it contains")
	assert.Equal(t, "Retinol", streaks[1].ProductName)
	assert.Equal(t, 0, streaks[1].CurrentStreak)
}

func TestDuplicateAndUnknownCompletions(t *testing.T) {
	r := routine("Serum")
	history := completions(r.ID, 0, 0, 0)
	history = append(history, completions("deleted-routine", 0)...)

	streaks := engine().Compute([]*models.Routine{r}, history)
	require.Len(t, streaks, 1)
	assert.Equal(t, 1, streaks[0].CurrentStreak)
}

func TestOrderingIsDeterministic(t *testing.T) {
	r := routine("Zinc", "Aloe", "Mist")
	other := routine("Oil")
	history := append(completions(r.ID, -3), completions(other.ID, 0, -1)...)

	streaks := engine().Compute([]*models.Routine{r, other}, history)
	var names []string
	for _, s := range streaks {
		names = append(names, s.ProductName)
	}
	assert.Equal(t, []string{"Oil", "Aloe", "Mist", "Zinc"}, names)
}

func TestSummarize(t *testing.T) {
	streaks := []models.ProductStreak{
		{ProductName: "A", CurrentStreak: 4, LongestStreak: 4, IsActive: true},
		{ProductName: "B", CurrentStreak: 9, LongestStreak: 9, IsActive: true},
		{ProductName: "C", CurrentStreak: 0, LongestStreak: 2},
		{ProductName: "D", CurrentStreak: 0, LongestStreak: 12},
	}
	sum := Summarize(streaks)
	assert.Equal(t, 2, sum.ActiveCount)
	require.NotNil(t, sum.LongestCurrent)
	assert.Equal(t, "B", sum.LongestCurrent.ProductName)
	require.Len(t, sum.NeedsAttention, 1)
	assert.Equal(t, "D", sum.NeedsAttention[0].ProductName)

	empty := Summarize(nil)
	assert.Nil(t, empty.LongestCurrent)
	assert.Empty(t, empty.NeedsAttention)
}
