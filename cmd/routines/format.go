// ABOUTME: Output helpers shared by CLI commands.
// ABOUTME: Truncation, padding, short ids and date parsing.
package main

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/harperreed/routines/internal/models"
)

var (
	faint = color.New(color.Faint)
	bold  = color.New(color.Bold)
)

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxLen-3]) + "..."
}

func padRight(s string, length int) string {
	n := utf8.RuneCountInString(s)
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// parseDate accepts YYYY-MM-DD, "today" and "yesterday". Empty means today.
func parseDate(s string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}
	t, err := time.ParseInLocation(models.DateLayout, s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return t, nil
}

// parseStep splits "Title:Product[:Brand]" into a title and an optional product.
func parseStep(raw string) (string, *models.Product, error) {
	parts := strings.SplitN(raw, ":", 3)
	title := strings.TrimSpace(parts[0])
	if title == "" {
		return "", nil, fmt.Errorf("step %q has no title", raw)
	}
	if len(parts) == 1 || strings.TrimSpace(parts[1]) == "" {
		return title, nil, nil
	}
	brand := ""
	if len(parts) == 3 {
		brand = strings.TrimSpace(parts[2])
	}
	return title, models.NewProduct(strings.TrimSpace(parts[1]), brand), nil
}

func severityColor(s models.Severity) *color.Color {
	switch s {
	case models.SeverityPositive:
		return color.New(color.FgGreen)
	case models.SeverityWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}
