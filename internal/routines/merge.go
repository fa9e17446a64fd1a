// ABOUTME: Local/remote merge of routine lists.
// ABOUTME: Remote wins on id collisions; local-only routines are kept.
package routines

import "github.com/harperreed/routines/internal/models"

// Merge returns the union of local and remote keyed by id. Remote entries come
// first and take precedence; local entries follow when their id is absent from
// remote. Input order is preserved within each group.
func Merge(local, remote []*models.Routine) []*models.Routine {
	byID := make(map[string]*models.Routine, len(local)+len(remote))
	order := make([]string, 0, len(local)+len(remote))

	for _, r := range remote {
		if r == nil {
			continue
		}
		if _, ok := byID[r.ID]; !ok {
			order = append(order, r.ID)
		}
		byID[r.ID] = r
	}
	for _, r := range local {
		if r == nil {
			continue
		}
		if _, ok := byID[r.ID]; ok {
			continue
		}
		byID[r.ID] = r
		order = append(order, r.ID)
	}

	merged := make([]*models.Routine, 0, len(order))
	for _, id := range order {
		merged = append(merged, byID[id])
	}
	return merged
}
