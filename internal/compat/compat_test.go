// ABOUTME: Tests for the ingredient compatibility rule set.
// ABOUTME: Covers the embedded rules, pair matching and YAML validation.
package compat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRulesLoad(t *testing.T) {
	rs, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, rs.Rules)
	assert.Equal(t, 1, rs.Version)
}

func TestRetinolAndVitaminC(t *testing.T) {
	rs, err := Default()
	require.NoError(t, err)

	verdicts := rs.Check([]string{"vitamin c serum", "gentle cleanser", "retinol 0.5%"})
	require.Len(t, verdicts, 1)
	v := verdicts[0]
	assert.Equal(t, "vitamin c serum", v.A)
	assert.Equal(t, "retinol 0.5%", v.B)
	assert.Equal(t, Avoid, v.Level)
	assert.NotEmpty(t, v.Resolution)
}

func TestNoVerdictForSafePairs(t *testing.T) {
	rs, err := Default()
	require.NoError(t, err)
	assert.Empty(t, rs.Check([]string{"gentle cleanser", "moisturizer", "spf 50"}))
	assert.Empty(t, rs.Check([]string{"retinol"}))
	assert.Empty(t, rs.Check(nil))
}

func TestDuplicatesCheckedOnce(t *testing.T) {
	rs, err := Default()
	require.NoError(t, err)
	verdicts := rs.Check([]string{"Retinol", "retinol", "Glycolic Toner"})
	require.Len(t, verdicts, 1)
	assert.Equal(t, "retinol", verdicts[0].A)
}

func TestVitaminCSpellings(t *testing.T) {
	rs, err := Default()
	require.NoError(t, err)

	for _, product := range []string{"Vitamin-C Serum", "VitC Booster", "vitamin_c drops", "VitaminC Glow", "Ascorbyl Glucoside Serum"} {
		verdicts := rs.Check([]string{product, "Retinol"})
		require.Len(t, verdicts, 1, product)
		assert.Equal(t, Avoid, verdicts[0].Level, product)
		assert.Equal(t, strings.ToLower(product), verdicts[0].A)
	}
}

func TestSpellingsDedupeTogether(t *testing.T) {
	rs, err := Default()
	require.NoError(t, err)
	verdicts := rs.Check([]string{"Vitamin-C", "vitamin c", "Retinol"})
	require.Len(t, verdicts, 1)
	assert.Equal(t, "vitamin-c", verdicts[0].A)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "vitamin c serum", Normalize("  Vitamin-C   Serum "))
	assert.Equal(t, "l ascorbic acid", Normalize("L_Ascorbic/Acid"))
	assert.True(t, Mentions("Super VitC", "vitc"))
	assert.False(t, Mentions("Revitalising Cream", "vitc", "vitamin c"))
}

func TestParseRejectsBadRules(t *testing.T) {
	_, err := Parse([]byte("rules:\n  - a: [x]\n    level: avoid\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("rules:\n  - a: [x]\n    b: [y]\n    level: never\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("rules: ["))
	assert.Error(t, err)
}

func TestFirstMatchingRuleWins(t *testing.T) {
	rs, err := Parse([]byte(`
rules:
  - a: [Acid]
    b: [Oil]
    level: caution
    resolution: first
  - a: [acid]
    b: [oil]
    level: avoid
    resolution: second
`))
	require.NoError(t, err)
	verdicts := rs.Check([]string{"face oil", "acid toner"})
	require.Len(t, verdicts, 1)
	assert.Equal(t, Caution, verdicts[0].Level)
	assert.Equal(t, "first", verdicts[0].Resolution)
}
