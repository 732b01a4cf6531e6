package refresh

import (
	"fmt"
	"log"
)

// CleanupOrphans deletes every series that has no active followers left,
// cascading its follow rows. One pass over a snapshot is enough: removing a
// series never changes another series' follower count. This runs before the
// refresh job so retired series don't waste catalog calls.
func (s *Service) CleanupOrphans() (int, error) {
	all, err := s.st.ListSeries()
	if err != nil {
		return 0, fmt.Errorf("listing series for cleanup: %w", err)
	}

	removed := 0
	for _, series := range all {
		followers, err := s.st.ActiveFollowersOf(series.ID)
		if err != nil {
			return removed, fmt.Errorf("counting followers of '%s': %w", series.Name, err)
		}
		if len(followers) > 0 {
			continue
		}
		log.Printf("'%s' has 0 followers. Removing it from the database.", series.Name)
		if err := s.st.DeleteSeries(series.ID); err != nil {
			return removed, err
		}
		removed++
	}

	if removed > 0 {
		log.Printf("Cleanup retired %d series.", removed)
	}
	return removed, nil
}
