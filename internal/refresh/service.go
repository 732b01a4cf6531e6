// Package refresh implements the batch jobs that keep local series state in
// step with the upstream catalog: the episode refresh job and the cleanup
// pass that retires series nobody follows anymore.
package refresh

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/vrsandeep/telly-go/internal/catalog"
	"github.com/vrsandeep/telly-go/internal/core"
	"github.com/vrsandeep/telly-go/internal/models"
	"github.com/vrsandeep/telly-go/internal/store"
)

// Summary reports how a refresh run went. Refreshed + Failed always equals
// the number of series in the snapshot the run started from.
type Summary struct {
	Refreshed int
	Failed    int
}

// Service holds the dependencies for the refresh and cleanup jobs.
type Service struct {
	st      *store.Store
	catalog *catalog.Client
	workers int
}

// NewService creates a new refresh service.
func NewService(app *core.App, client *catalog.Client) *Service {
	workers := app.Config().Refresh.Workers
	if workers <= 0 {
		workers = 4
	}
	return &Service{
		st:      store.New(app.DB()),
		catalog: client,
		workers: workers,
	}
}

// RefreshAll re-fetches every tracked series from the catalog with bounded
// parallelism and reconciles the local records. A failure on one series is
// logged and counted, never fatal for the rest of the batch; the series
// keeps its last known state until the next successful refresh.
func (s *Service) RefreshAll(ctx context.Context) (Summary, error) {
	all, err := s.st.ListSeries()
	if err != nil {
		return Summary{}, fmt.Errorf("listing series for refresh: %w", err)
	}

	log.Printf("Starting episode refresh for %d series.", len(all))

	var mu sync.Mutex
	var summary Summary

	p := pool.New().WithMaxGoroutines(s.workers)
	for _, series := range all {
		series := series
		p.Go(func() {
			err := s.refreshOne(ctx, series)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed++
				log.Printf("Refresh error: skipping '%s': %v", series.Name, err)
				return
			}
			summary.Refreshed++
		})
	}
	p.Wait()

	log.Printf("Finished episode refresh: %d refreshed, %d failed.", summary.Refreshed, summary.Failed)
	return summary, nil
}

// refreshOne reconciles a single series against the catalog. The status and
// the next-episode unit are written together in one upsert.
func (s *Service) refreshOne(ctx context.Context, series *models.Series) error {
	var (
		show *catalog.Show
		err  error
	)
	if series.APIURL != "" {
		show, err = s.catalog.GetShowByURL(ctx, series.APIURL)
	} else {
		show, err = s.catalog.GetShowByID(ctx, series.TVMazeID)
	}
	if err != nil {
		return err
	}

	next, err := s.catalog.NextEpisodeOf(ctx, show)
	if err != nil {
		return err
	}

	_, err = s.st.UpsertSeries(series.TVMazeID, store.SeriesFields{
		Name:        show.Name,
		Status:      show.Status,
		APIURL:      show.APIURL,
		WebURL:      show.URL,
		NextEpisode: next,
	})
	return err
}
