// ABOUTME: Local completion history for routines.
// ABOUTME: One record per routine per day, kept in the local cache only.
package routines

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/harperreed/routines/internal/cache"
	"github.com/harperreed/routines/internal/models"
)

// Completions returns the cached completion history, oldest day first.
// Corrupt data is an empty list plus ErrCorruptCache.
func (s *Store) Completions() ([]models.Completion, error) {
	data, ok, err := s.cache.Get(cache.CompletionsKey)
	if err != nil {
		s.logger.Warn("read completions failed", "err", err)
		return []models.Completion{}, err
	}
	if !ok || len(data) == 0 {
		return []models.Completion{}, nil
	}
	var list []models.Completion
	if err := json.Unmarshal(data, &list); err != nil {
		s.logger.Warn("completion cache is corrupt, treating as empty", "err", err)
		return []models.Completion{}, fmt.Errorf("%w: %v", ErrCorruptCache, err)
	}
	return list, nil
}

// MarkComplete records that routineID was done on the day of at.
// It reports false when that day was already recorded. Completions live only
// in the local cache, so a detached cache refuses them with cache.ErrReadOnly.
func (s *Store) MarkComplete(routineID string, at time.Time) (bool, error) {
	if routineID == "" {
		return false, fmt.Errorf("%w: empty routine id", ErrInvalidRoutine)
	}
	if err := s.localOnly(); err != nil {
		return false, err
	}
	if at.IsZero() {
		at = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, _ := s.Completions()
	c := models.NewCompletion(routineID, at)
	for _, existing := range list {
		if existing.RoutineID == c.RoutineID && existing.Date == c.Date {
			return false, nil
		}
	}
	list = append(list, c)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date < list[j].Date })

	data, err := json.Marshal(list)
	if err != nil {
		return false, fmt.Errorf("marshal completions: %w", err)
	}
	if err := s.cache.Set(cache.CompletionsKey, data); err != nil {
		return false, fmt.Errorf("write completions: %w", err)
	}

	userID, _ := s.identity.UserID()
	s.logEvent(userID, &routineID, models.ActionProgressUpdated)
	return true, nil
}
