// ABOUTME: Tests for skin profile parsing, migration and file storage.
// ABOUTME: Legacy camelCase and comma-string concerns migrate to schema 1.
package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrentSchema(t *testing.T) {
	p, err := Parse([]byte("schema_version: 1\nskin_type: oily\nconcerns: [Acne, aging]\n"))
	require.NoError(t, err)
	assert.Equal(t, Oily, p.SkinType)
	assert.Equal(t, []string{"acne", "aging"}, p.Concerns)
	assert.True(t, p.HasConcern("Aging"))
	assert.False(t, p.HasConcern("redness"))
}

func TestParseLegacyShape(t *testing.T) {
	p, err := Parse([]byte(`{"skinType": "Dry", "concerns": "hyperpigmentation, Aging ,"}`))
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, p.SchemaVersion)
	assert.Equal(t, Dry, p.SkinType)
	assert.Equal(t, []string{"aging", "hyperpigmentation"}, p.Concerns)
}

func TestParseDefaults(t *testing.T) {
	p, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), p)

	p, err = Parse([]byte("concerns: [redness]\n"))
	require.NoError(t, err)
	assert.Equal(t, Normal, p.SkinType)
	assert.Equal(t, []string{"redness"}, p.Concerns)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown skin type": "skin_type: scaly\n",
		"future schema":     "schema_version: 9\n",
		"concerns map":      "concerns: {a: b}\n",
		"broken yaml":       "skin_type: [",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			p, err := Parse([]byte(data))
			assert.ErrorIs(t, err, ErrInvalidProfile)
			assert.Equal(t, Default(), p)
		})
	}
}

func TestFileProviderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "profile.yaml")
	f := NewFileProvider(path)

	p, err := f.Profile()
	require.NoError(t, err)
	assert.Equal(t, Default(), p)

	require.NoError(t, f.Save(SkinProfile{SkinType: Combination, Concerns: []string{"Aging", "aging"}}))
	p, err = f.Profile()
	require.NoError(t, err)
	assert.Equal(t, SkinProfile{SchemaVersion: 1, SkinType: Combination, Concerns: []string{"aging"}}, p)

	assert.Error(t, f.Save(SkinProfile{SkinType: "scaly"}))
}

func TestFileProviderMigratesLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("skinType: sensitive\nconcerns: redness\n"), 0600))

	p, err := NewFileProvider(path).Profile()
	require.NoError(t, err)
	assert.Equal(t, Sensitive, p.SkinType)
	assert.Equal(t, []string{"redness"}, p.Concerns)
}
