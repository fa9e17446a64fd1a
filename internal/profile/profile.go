// ABOUTME: Skin profile: validated, versioned schema with legacy migration.
// ABOUTME: Read by the insight engine; stored as YAML next to the config file.
package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is the current profile schema.
const SchemaVersion = 1

// SkinType is the user's skin type.
type SkinType string

const (
	Normal      SkinType = "normal"
	Dry         SkinType = "dry"
	Oily        SkinType = "oily"
	Combination SkinType = "combination"
	Sensitive   SkinType = "sensitive"
)

// SkinTypes lists the accepted skin types.
var SkinTypes = []SkinType{Normal, Dry, Oily, Combination, Sensitive}

// ErrInvalidProfile is returned for profile data that cannot be accepted.
var ErrInvalidProfile = errors.New("invalid skin profile")

// SkinProfile is the current profile schema.
type SkinProfile struct {
	SchemaVersion int      `json:"schema_version" yaml:"schema_version"`
	SkinType      SkinType `json:"skin_type" yaml:"skin_type"`
	Concerns      []string `json:"concerns" yaml:"concerns"`
}

// Default returns an empty profile.
func Default() SkinProfile {
	return SkinProfile{SchemaVersion: SchemaVersion, SkinType: Normal, Concerns: []string{}}
}

// HasConcern reports whether the profile lists concern, case-insensitively.
func (p SkinProfile) HasConcern(concern string) bool {
	concern = strings.ToLower(strings.TrimSpace(concern))
	for _, c := range p.Concerns {
		if c == concern {
			return true
		}
	}
	return false
}

// Provider supplies the current user's skin profile.
type Provider interface {
	Profile() (SkinProfile, error)
}

// Static is a Provider returning a fixed profile.
type Static SkinProfile

// Profile returns the fixed profile.
func (s Static) Profile() (SkinProfile, error) { return SkinProfile(s), nil }

// rawProfile accepts both the current schema and the legacy camelCase shape,
// where concerns may be a comma-separated string.
type rawProfile struct {
	SchemaVersion  int       `yaml:"schema_version"`
	SkinType       string    `yaml:"skin_type"`
	LegacySkinType string    `yaml:"skinType"`
	Concerns       yaml.Node `yaml:"concerns"`
}

// Parse decodes profile YAML (or JSON), migrating legacy shapes to the current schema.
func Parse(data []byte) (SkinProfile, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Default(), nil
	}

	var raw rawProfile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Default(), fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	if raw.SchemaVersion > SchemaVersion {
		return Default(), fmt.Errorf("%w: schema version %d is newer than %d", ErrInvalidProfile, raw.SchemaVersion, SchemaVersion)
	}

	skinType := raw.SkinType
	if raw.SchemaVersion == 0 && skinType == "" {
		skinType = raw.LegacySkinType
	}

	concerns, err := decodeConcerns(&raw.Concerns)
	if err != nil {
		return Default(), err
	}

	p := SkinProfile{SchemaVersion: SchemaVersion, SkinType: SkinType(strings.ToLower(strings.TrimSpace(skinType))), Concerns: concerns}
	if p.SkinType == "" {
		p.SkinType = Normal
	}
	if err := p.Validate(); err != nil {
		return Default(), err
	}
	return p, nil
}

func decodeConcerns(node *yaml.Node) ([]string, error) {
	var items []string
	switch node.Kind {
	case 0:
	case yaml.ScalarNode:
		items = strings.Split(node.Value, ",")
	case yaml.SequenceNode:
		if err := node.Decode(&items); err != nil {
			return nil, fmt.Errorf("%w: concerns: %v", ErrInvalidProfile, err)
		}
	default:
		return nil, fmt.Errorf("%w: concerns must be a list or a comma-separated string", ErrInvalidProfile)
	}
	return NormalizeConcerns(items), nil
}

// NormalizeConcerns lowercases, trims, drops empties and dedupes concern tags, sorted.
func NormalizeConcerns(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := []string{}
	for _, c := range items {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Validate checks the skin type.
func (p SkinProfile) Validate() error {
	for _, t := range SkinTypes {
		if p.SkinType == t {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown skin type %q", ErrInvalidProfile, p.SkinType)
}

// FileProvider reads and writes a profile YAML file.
type FileProvider struct {
	path string
}

var _ Provider = (*FileProvider)(nil)

// NewFileProvider creates a provider for the file at path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// Path returns the profile file location.
func (f *FileProvider) Path() string { return f.path }

// Profile loads the profile. A missing file is the default profile.
func (f *FileProvider) Profile() (SkinProfile, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("read profile: %w", err)
	}
	return Parse(data)
}

// Save writes p in the current schema.
func (f *FileProvider) Save(p SkinProfile) error {
	p.SchemaVersion = SchemaVersion
	p.Concerns = NormalizeConcerns(p.Concerns)
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0750); err != nil {
		return fmt.Errorf("create profile directory: %w", err)
	}
	return os.WriteFile(f.path, data, 0600)
}
