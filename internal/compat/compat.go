// ABOUTME: Ingredient compatibility oracle over a keyword rule set.
// ABOUTME: The default rules are embedded YAML parsed at first use.
package compat

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Level is the severity of a pairwise verdict.
type Level string

const (
	Avoid   Level = "avoid"
	Caution Level = "caution"
)

// Verdict is the oracle's judgement on one pair of product names.
type Verdict struct {
	A          string `json:"a"`
	B          string `json:"b"`
	Level      Level  `json:"level"`
	Resolution string `json:"resolution,omitempty"`
}

// Oracle returns verdicts for the pairs in a set of lowercased product names.
// Pairs with nothing to report are omitted.
type Oracle interface {
	Check(names []string) []Verdict
}

// Rule flags any pair where one name contains an A keyword and the other a B keyword.
type Rule struct {
	A          []string `yaml:"a"`
	B          []string `yaml:"b"`
	Level      Level    `yaml:"level"`
	Resolution string   `yaml:"resolution"`
}

// RuleSet is an Oracle backed by an ordered list of rules; the first matching rule wins.
type RuleSet struct {
	Version int    `yaml:"version"`
	Rules   []Rule `yaml:"rules"`
}

var _ Oracle = (*RuleSet)(nil)

//go:embed rules.yaml
var defaultRules []byte

var (
	defaultOnce sync.Once
	defaultSet  *RuleSet
	defaultErr  error
)

// Default returns the embedded rule set.
func Default() (*RuleSet, error) {
	defaultOnce.Do(func() {
		defaultSet, defaultErr = Parse(defaultRules)
	})
	return defaultSet, defaultErr
}

// Parse reads a rule set from YAML.
func Parse(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parse compatibility rules: %w", err)
	}
	for i := range rs.Rules {
		r := &rs.Rules[i]
		if len(r.A) == 0 || len(r.B) == 0 {
			return nil, fmt.Errorf("rule %d: both keyword lists are required", i+1)
		}
		switch r.Level {
		case Avoid, Caution:
		default:
			return nil, fmt.Errorf("rule %d: unknown level %q", i+1, r.Level)
		}
		r.A = normalizeAll(r.A)
		r.B = normalizeAll(r.B)
	}
	return &rs, nil
}

// Check returns a verdict for every unordered pair matched by a rule.
// Pairs are visited in input order; duplicate names are checked once.
func (rs *RuleSet) Check(names []string) []Verdict {
	uniq := dedupe(names)
	var out []Verdict
	for i := 0; i < len(uniq); i++ {
		for j := i + 1; j < len(uniq); j++ {
			if v, ok := rs.match(uniq[i], uniq[j]); ok {
				out = append(out, v)
			}
		}
	}
	return out
}

func (rs *RuleSet) match(a, b name) (Verdict, bool) {
	for _, r := range rs.Rules {
		if (containsAny(a.key, r.A) && containsAny(b.key, r.B)) || (containsAny(a.key, r.B) && containsAny(b.key, r.A)) {
			return Verdict{A: a.display, B: b.display, Level: r.Level, Resolution: r.Resolution}, true
		}
	}
	return Verdict{}, false
}

var separators = strings.NewReplacer("-", " ", "_", " ", "/", " ")

// Normalize lowercases a product name and folds separators to single
// spaces, so "Vitamin-C" and "vitamin  c" compare equal.
func Normalize(s string) string {
	return strings.Join(strings.Fields(separators.Replace(strings.ToLower(s))), " ")
}

// Mentions reports whether the normalized product name contains any keyword.
func Mentions(product string, keywords ...string) bool {
	return containsAny(Normalize(product), normalizeAll(keywords))
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// name pairs the lowercased name reported in verdicts with its match key.
type name struct {
	display string
	key     string
}

func dedupe(names []string) []name {
	seen := make(map[string]bool, len(names))
	out := make([]name, 0, len(names))
	for _, n := range names {
		display := strings.ToLower(strings.TrimSpace(n))
		key := Normalize(display)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name{display: display, key: key})
	}
	return out
}

func normalizeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = Normalize(s)
	}
	return out
}
