// ABOUTME: Routine lookup by id prefix or name.
// ABOUTME: Used by the CLI and MCP tools to accept short references.
package routines

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/routines/internal/models"
)

// ErrAmbiguous is returned when a reference matches more than one routine.
var ErrAmbiguous = errors.New("ambiguous routine reference")

// Find returns the routine whose id equals ref, else the single routine whose
// id starts with ref or whose name equals ref case-insensitively, else the
// single routine whose name starts with ref.
func Find(list []*models.Routine, ref string) (*models.Routine, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrNotFound)
	}

	var matches []*models.Routine
	for _, r := range list {
		if r.ID == ref {
			return r, nil
		}
		if strings.HasPrefix(r.ID, ref) || strings.EqualFold(r.Name, ref) {
			matches = append(matches, r)
		}
	}

	if len(matches) == 0 {
		lower := strings.ToLower(ref)
		for _, r := range list {
			if strings.HasPrefix(strings.ToLower(r.Name), lower) {
				matches = append(matches, r)
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches %d routines", ErrAmbiguous, ref, len(matches))
	}
}

// Lookup resolves ref against the local cache.
func (s *Store) Lookup(ref string) (*models.Routine, error) {
	list, _ := s.ReadLocal()
	return Find(list, ref)
}
