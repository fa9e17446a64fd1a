// ABOUTME: Export and import functionality for routine data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats over any Remote.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/routines/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for a user's routine data.
type ExportData struct {
	Version     string                   `json:"version" yaml:"version"`
	ExportedAt  time.Time                `json:"exported_at" yaml:"exported_at"`
	Tool        string                   `json:"tool" yaml:"tool"`
	Routines    []*models.Routine        `json:"routines" yaml:"routines"`
	Versions    []*models.RoutineVersion `json:"versions" yaml:"versions"`
	Notes       []*models.Note           `json:"notes" yaml:"notes"`
	Completions []models.Completion      `json:"completions,omitempty" yaml:"completions,omitempty"`
}

// GetAllData collects a user's routines with their versions and notes.
func GetAllData(ctx context.Context, r Remote, userID string) (*ExportData, error) {
	routines, err := r.ListRoutines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}

	var versions []*models.RoutineVersion
	for _, rt := range routines {
		vs, err := r.ListVersions(ctx, userID, rt.ID)
		if err != nil {
			return nil, fmt.Errorf("list versions of %s: %w", rt.ID, err)
		}
		versions = append(versions, vs...)
	}

	notes, err := r.ListNotes(ctx, userID, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "routines",
		Routines:   routines,
		Versions:   versions,
		Notes:      notes,
	}, nil
}

// ImportData writes exported routines, versions and notes into dst for userID.
// Versions whose numbers already exist are skipped.
func ImportData(ctx context.Context, dst Remote, userID string, data *ExportData) error {
	for _, rt := range data.Routines {
		if err := dst.UpsertRoutine(ctx, userID, rt); err != nil {
			return fmt.Errorf("import routine %s: %w", rt.ID, err)
		}
	}
	for _, v := range data.Versions {
		if err := dst.InsertVersion(ctx, userID, v); err != nil && !isConflict(err) {
			return fmt.Errorf("import version %d of %s: %w", v.VersionNumber, v.RoutineID, err)
		}
	}
	for _, n := range data.Notes {
		n.UserID = userID
		if err := dst.InsertNote(ctx, n); err != nil {
			return fmt.Errorf("import note %s: %w", n.ID, err)
		}
	}
	return nil
}

// ExportJSON encodes the export as indented JSON.
func ExportJSON(data *ExportData) ([]byte, error) {
	return json.MarshalIndent(data, "", "  ")
}

// ImportJSON decodes an export produced by ExportJSON.
func ImportJSON(raw []byte) (*ExportData, error) {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return &data, nil
}

// ExportYAML encodes the export as YAML with routines flattened for reading.
func ExportYAML(data *ExportData) ([]byte, error) {
	yamlData := struct {
		Version    string        `yaml:"version"`
		ExportedAt string        `yaml:"exported_at"`
		Tool       string        `yaml:"tool"`
		Routines   []yamlRoutine `yaml:"routines"`
		Notes      []yamlNote    `yaml:"notes,omitempty"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Routines:   make([]yamlRoutine, 0, len(data.Routines)),
	}

	versionCount := make(map[string]int)
	for _, v := range data.Versions {
		if v.VersionNumber > versionCount[v.RoutineID] {
			versionCount[v.RoutineID] = v.VersionNumber
		}
	}

	for _, rt := range data.Routines {
		yr := yamlRoutine{
			ID:        shortID(rt.ID),
			Name:      rt.Name,
			TimeOfDay: string(rt.TimeOfDay),
			UpdatedAt: rt.UpdatedAt.Format(time.RFC3339),
			Versions:  versionCount[rt.ID],
		}
		for _, s := range rt.Steps {
			ys := yamlStep{Title: s.Title}
			if s.Product != nil {
				ys.Product = s.Product.Name
				ys.Brand = s.Product.Brand
			}
			yr.Steps = append(yr.Steps, ys)
		}
		yamlData.Routines = append(yamlData.Routines, yr)
	}

	for _, n := range data.Notes {
		yamlData.Notes = append(yamlData.Notes, yamlNote{
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
			Content:   n.Content,
		})
	}

	return yaml.Marshal(yamlData)
}

type yamlRoutine struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	TimeOfDay string     `yaml:"time_of_day"`
	UpdatedAt string     `yaml:"updated_at"`
	Versions  int        `yaml:"versions,omitempty"`
	Steps     []yamlStep `yaml:"steps,omitempty"`
}

type yamlStep struct {
	Title   string `yaml:"title"`
	Product string `yaml:"product,omitempty"`
	Brand   string `yaml:"brand,omitempty"`
}

type yamlNote struct {
	CreatedAt string `yaml:"created_at"`
	Content   string `yaml:"content"`
}

// ExportMarkdown renders the export as a Markdown document.
func ExportMarkdown(data *ExportData) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Routines Export - %s\n\n", data.ExportedAt.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", data.ExportedAt.Format(time.RFC3339)))

	for _, rt := range data.Routines {
		sb.WriteString(fmt.Sprintf("## %s (%s)\n\n", rt.Name, rt.TimeOfDay))
		sb.WriteString("| Step | Title | Product |\n")
		sb.WriteString("|------|-------|---------|\n")
		for _, s := range rt.Steps {
			product := ""
			if s.Product != nil {
				product = strings.TrimSpace(s.Product.Brand + " " + s.Product.Name)
			}
			sb.WriteString(fmt.Sprintf("| %d | %s | %s |\n", s.StepNumber, s.Title, product))
		}
		sb.WriteString("\n")
	}

	if len(data.Notes) > 0 {
		sb.WriteString("## Notes\n\n")
		for _, n := range data.Notes {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", n.CreatedAt.Format("2006-01-02 15:04"), n.Content))
		}
	}

	return sb.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
