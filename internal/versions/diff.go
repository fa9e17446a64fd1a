// ABOUTME: Step diffing used to summarise the change between two versions.
// ABOUTME: Compares product-name sets, then step counts.
package versions

import (
	"fmt"
	"strings"

	"github.com/harperreed/routines/internal/models"
)

const genericSummary = "Routine updated"

// Changes returns product names present only in newer (added) and only in older (removed).
// Names compare case-insensitively; each list keeps step order and has no duplicates.
func Changes(older, newer []models.RoutineStep) (added, removed []string) {
	oldSet := productSet(older)
	newSet := productSet(newer)

	seen := make(map[string]bool)
	for _, s := range newer {
		if s.Product == nil || s.Product.Key() == "" || seen[s.Product.Key()] {
			continue
		}
		seen[s.Product.Key()] = true
		if !oldSet[s.Product.Key()] {
			added = append(added, s.Product.Name)
		}
	}

	seen = make(map[string]bool)
	for _, s := range older {
		if s.Product == nil || s.Product.Key() == "" || seen[s.Product.Key()] {
			continue
		}
		seen[s.Product.Key()] = true
		if !newSet[s.Product.Key()] {
			removed = append(removed, s.Product.Name)
		}
	}
	return added, removed
}

// Diff summarises the change from older to newer steps in one line.
func Diff(older, newer []models.RoutineStep) string {
	added, removed := Changes(older, newer)

	var parts []string
	if len(added) > 0 {
		parts = append(parts, "Added "+strings.Join(added, ", "))
	}
	if len(removed) > 0 {
		parts = append(parts, "Removed "+strings.Join(removed, ", "))
	}
	if len(parts) > 0 {
		return strings.Join(parts, "; ")
	}

	if len(older) != len(newer) {
		return fmt.Sprintf("Steps changed from %d to %d", len(older), len(newer))
	}
	return genericSummary
}

func productSet(steps []models.RoutineStep) map[string]bool {
	set := make(map[string]bool)
	for _, name := range models.ProductNames(steps) {
		set[name] = true
	}
	return set
}
