// Package watchlist implements the follow/unfollow workflow: resolving
// subscribers and series (creating either lazily) and driving the follow
// ledger in the store.
package watchlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/vrsandeep/telly-go/internal/catalog"
	"github.com/vrsandeep/telly-go/internal/core"
	"github.com/vrsandeep/telly-go/internal/models"
	"github.com/vrsandeep/telly-go/internal/store"
)

// Outcome is the result of a follow or unfollow action, used to pick the
// confirmation text shown to the subscriber.
type Outcome int

const (
	OutcomeNewlyFollowed Outcome = iota // first follow for this pair
	OutcomeRefollowed                   // followed again after an unfollow
	OutcomeAlreadyFollowing
	OutcomeUnfollowed
	OutcomeNotFollowing // unfollowed something never/no longer followed
)

// Service holds the dependencies for the follow/unfollow workflow.
type Service struct {
	st      *store.Store
	catalog *catalog.Client

	// Per-pair locks so two rapid toggles for the same (subscriber, series)
	// serialize without blocking unrelated pairs. Entries are reference
	// counted and evicted once the last holder unlocks.
	mu    sync.Mutex
	locks map[string]*pairLock
}

type pairLock struct {
	mu   sync.Mutex
	refs int
}

// NewService creates a new watchlist workflow service.
func NewService(app *core.App, client *catalog.Client) *Service {
	return &Service{
		st:      store.New(app.DB()),
		catalog: client,
		locks:   make(map[string]*pairLock),
	}
}

// Follow subscribes a user to a series by its catalog id. A previously
// unseen series is fetched from the catalog and created first; if that
// lookup fails, nothing is written and the error surfaces to the caller.
func (s *Service) Follow(ctx context.Context, platformID, displayName string, tvmazeID int64) (Outcome, *models.Series, error) {
	unlock := s.lockPair(platformID, tvmazeID)
	defer unlock()

	series, err := s.st.GetSeriesByExternalID(tvmazeID)
	if errors.Is(err, sql.ErrNoRows) {
		series, err = s.createSeriesFromCatalog(ctx, tvmazeID)
	}
	if err != nil {
		return 0, nil, err
	}

	subscriber, err := s.st.GetOrCreateSubscriber(platformID, displayName)
	if err != nil {
		return 0, nil, err
	}

	prev, err := s.st.SetFollowing(subscriber.ID, series.ID, true)
	if errors.Is(err, store.ErrAlreadyInState) {
		return OutcomeAlreadyFollowing, series, nil
	}
	if err != nil {
		return 0, nil, err
	}
	if prev == store.FollowStateNotFollowing {
		return OutcomeRefollowed, series, nil
	}
	return OutcomeNewlyFollowed, series, nil
}

// Unfollow removes a user's subscription to a series. Unfollowing a series
// that was never followed (or isn't even tracked) is not an error.
func (s *Service) Unfollow(ctx context.Context, platformID string, tvmazeID int64) (Outcome, *models.Series, error) {
	unlock := s.lockPair(platformID, tvmazeID)
	defer unlock()

	series, err := s.st.GetSeriesByExternalID(tvmazeID)
	if errors.Is(err, sql.ErrNoRows) {
		return OutcomeNotFollowing, nil, nil
	}
	if err != nil {
		return 0, nil, err
	}

	subscriber, err := s.st.GetSubscriberByPlatformID(platformID)
	if errors.Is(err, sql.ErrNoRows) {
		return OutcomeNotFollowing, series, nil
	}
	if err != nil {
		return 0, nil, err
	}

	_, err = s.st.SetFollowing(subscriber.ID, series.ID, false)
	if errors.Is(err, store.ErrAlreadyInState) {
		return OutcomeNotFollowing, series, nil
	}
	if err != nil {
		return 0, nil, err
	}
	return OutcomeUnfollowed, series, nil
}

// Watchlist returns the series a subscriber actively follows.
func (s *Service) Watchlist(platformID string) ([]*models.Series, error) {
	subscriber, err := s.st.GetSubscriberByPlatformID(platformID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.st.FollowedSeriesOf(subscriber.ID)
}

// createSeriesFromCatalog fetches the full series record plus its next
// episode and stores it. Called only for series nobody tracked before.
func (s *Service) createSeriesFromCatalog(ctx context.Context, tvmazeID int64) (*models.Series, error) {
	show, err := s.catalog.GetShowByID(ctx, tvmazeID)
	if err != nil {
		return nil, fmt.Errorf("looking up series %d: %w", tvmazeID, err)
	}

	next, err := s.catalog.NextEpisodeOf(ctx, show)
	if err != nil {
		return nil, err
	}

	log.Printf("Series '%s' (catalog id %d) was not tracked yet. Creating it now.", show.Name, tvmazeID)
	return s.st.UpsertSeries(tvmazeID, store.SeriesFields{
		Name:        show.Name,
		Status:      show.Status,
		APIURL:      show.APIURL,
		WebURL:      show.URL,
		NextEpisode: next,
	})
}

func (s *Service) lockPair(platformID string, tvmazeID int64) func() {
	key := fmt.Sprintf("%s/%d", platformID, tvmazeID)
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &pairLock{}
		s.locks[key] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}
