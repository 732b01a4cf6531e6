package digest

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/vrsandeep/telly-go/internal/core"
	"github.com/vrsandeep/telly-go/internal/notify"
	"github.com/vrsandeep/telly-go/internal/store"
)

// Service builds the per-subscriber digest reports and hands them to the
// notifier. Delivery success is the notifier's problem, not ours.
type Service struct {
	st       *store.Store
	notifier notify.Notifier
}

// NewService creates a new digest service.
func NewService(app *core.App, notifier notify.Notifier) *Service {
	return &Service{
		st:       store.New(app.DB()),
		notifier: notifier,
	}
}

// BuildAll produces one report per subscriber with at least one active
// follow, keyed by their platform id. All reports in a run share the same
// "today" so they are mutually consistent.
func (s *Service) BuildAll() (map[string]string, error) {
	subscribers, err := s.st.SubscribersWithActiveFollows()
	if err != nil {
		return nil, err
	}

	today := time.Now()
	reports := make(map[string]string, len(subscribers))
	for _, sub := range subscribers {
		followed, err := s.st.FollowedSeriesOf(sub.ID)
		if err != nil {
			return nil, err
		}
		reports[sub.PlatformID] = BuildReport(followed, today)
	}
	return reports, nil
}

// BuildFor renders the on-demand report for a single subscriber. A
// subscriber who follows nothing (or was never seen) gets the hint text,
// not an error.
func (s *Service) BuildFor(platformID string) (string, error) {
	subscriber, err := s.st.GetSubscriberByPlatformID(platformID)
	if errors.Is(err, sql.ErrNoRows) {
		return EmptyWatchlistText, nil
	}
	if err != nil {
		return "", err
	}

	followed, err := s.st.FollowedSeriesOf(subscriber.ID)
	if err != nil {
		return "", err
	}
	if len(followed) == 0 {
		return EmptyWatchlistText, nil
	}
	return BuildReport(followed, time.Now()), nil
}

// SendAll builds every report and delivers them. A delivery failure for one
// subscriber is logged and does not block the others.
func (s *Service) SendAll(ctx context.Context) error {
	reports, err := s.BuildAll()
	if err != nil {
		return err
	}

	log.Printf("Sending watchlist reports to %d subscribers.", len(reports))
	for platformID, report := range reports {
		if err := s.notifier.SendReport(ctx, platformID, report); err != nil {
			log.Printf("Report delivery to %s failed: %v", platformID, err)
		}
	}
	return nil
}
