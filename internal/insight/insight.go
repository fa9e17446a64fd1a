// ABOUTME: Rule-based insight engine over routines, streaks, notes and the skin profile.
// ABOUTME: Rules run in a fixed order and the output is capped at MaxInsights.
package insight

import (
	"github.com/harperreed/routines/internal/compat"
	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/profile"
)

// MaxInsights is the most insights Generate returns.
const MaxInsights = 5

// Context is everything a rule may read.
type Context struct {
	Routines  []*models.Routine
	Streaks   []models.ProductStreak
	NoteCount int
	Profile   profile.SkinProfile
	Oracle    compat.Oracle
}

// Rule produces at most one insight from the context.
type Rule interface {
	Evaluate(c *Context) *models.Insight
}

// RuleFunc adapts a function to Rule.
type RuleFunc func(c *Context) *models.Insight

// Evaluate calls f.
func (f RuleFunc) Evaluate(c *Context) *models.Insight { return f(c) }

// Engine evaluates an ordered rule list.
type Engine struct {
	rules []Rule
}

// New creates an engine. Without rules it uses DefaultRules.
func New(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Engine{rules: rules}
}

// DefaultRules returns the built-in rules in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		RuleFunc(consistencyStreak),
		RuleFunc(brokenStreak),
		RuleFunc(ingredientConflict),
		RuleFunc(retinolAdjustment),
		RuleFunc(vitaminCBrightening),
		RuleFunc(journaling),
		RuleFunc(routineBalance),
	}
}

// Generate returns the insights of every rule that fires, in rule order,
// truncated to MaxInsights.
func (e *Engine) Generate(c *Context) []models.Insight {
	out := make([]models.Insight, 0, MaxInsights)
	for _, r := range e.rules {
		if len(out) == MaxInsights {
			break
		}
		if in := r.Evaluate(c); in != nil {
			out = append(out, *in)
		}
	}
	return out
}
