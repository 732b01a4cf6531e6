package refresh_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/vrsandeep/telly-go/internal/models"
	"github.com/vrsandeep/telly-go/internal/refresh"
	"github.com/vrsandeep/telly-go/internal/store"
	"github.com/vrsandeep/telly-go/internal/testutil"
)

func setupService(t *testing.T) (*refresh.Service, *testutil.FakeCatalog, *store.Store) {
	t.Helper()
	fc := testutil.NewFakeCatalog(t)
	app := testutil.SetupTestAppWithCatalog(t, fc)
	return refresh.NewService(app, fc.Client()), fc, store.New(app.DB())
}

// trackSeries seeds a tracked series the way a follow would, pointing its
// api_url at the fake catalog.
func trackSeries(t *testing.T, st *store.Store, fc *testutil.FakeCatalog, show *testutil.FakeShow) *models.Series {
	t.Helper()
	fc.AddShow(show)
	series, err := st.UpsertSeries(show.ID, store.SeriesFields{
		Name:   show.Name,
		Status: show.Status,
		APIURL: fmt.Sprintf("%s/shows/%d", fc.Server.URL, show.ID),
	})
	if err != nil {
		t.Fatalf("UpsertSeries failed: %v", err)
	}
	return series
}

func TestRefreshAllUpdatesNextEpisodes(t *testing.T) {
	svc, fc, st := setupService(t)
	trackSeries(t, st, fc, &testutil.FakeShow{
		ID: 1, Name: "Game of Thrones",
		Next: &testutil.FakeEpisode{Season: 8, Number: 1, Name: "Winterfell", AirDate: "2019-04-14"},
	})

	summary, err := svc.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("RefreshAll failed: %v", err)
	}
	if summary.Refreshed != 1 || summary.Failed != 0 {
		t.Errorf("Expected 1 refreshed / 0 failed, got %+v", summary)
	}

	series, err := st.GetSeriesByExternalID(1)
	if err != nil {
		t.Fatalf("GetSeriesByExternalID failed: %v", err)
	}
	if series.NextEpisode == nil || series.NextEpisode.Name != "Winterfell" {
		t.Errorf("Expected the next episode to be stored, got %+v", series.NextEpisode)
	}
}

func TestRefreshAllSkipsFailingSeries(t *testing.T) {
	svc, fc, st := setupService(t)
	trackSeries(t, st, fc, &testutil.FakeShow{ID: 1, Name: "First"})
	broken := trackSeries(t, st, fc, &testutil.FakeShow{ID: 2, Name: "Second", Status: "Ended"})
	trackSeries(t, st, fc, &testutil.FakeShow{ID: 3, Name: "Third"})
	fc.FailShow(2, 500)

	summary, err := svc.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("RefreshAll failed: %v", err)
	}
	if summary.Refreshed != 2 || summary.Failed != 1 {
		t.Errorf("Expected 2 refreshed / 1 failed, got %+v", summary)
	}

	// The failing series keeps its last known state.
	kept, err := st.GetSeriesByID(broken.ID)
	if err != nil {
		t.Fatalf("GetSeriesByID failed: %v", err)
	}
	if kept.Name != "Second" || kept.Status != "Ended" {
		t.Errorf("Expected the failing series to stay untouched, got %+v", kept)
	}
}

func TestRefreshAllClearsRetiredNextEpisode(t *testing.T) {
	svc, fc, st := setupService(t)
	show := &testutil.FakeShow{
		ID: 1, Name: "Game of Thrones",
		Next: &testutil.FakeEpisode{Season: 8, Number: 6, Name: "The Iron Throne", AirDate: "2019-05-19"},
	}
	trackSeries(t, st, fc, show)

	if _, err := svc.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll failed: %v", err)
	}

	// The catalog drops the nextepisode link once the finale airs.
	show.Next = nil
	show.Status = "Ended"
	fc.AddShow(show)

	if _, err := svc.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll failed: %v", err)
	}

	series, err := st.GetSeriesByExternalID(1)
	if err != nil {
		t.Fatalf("GetSeriesByExternalID failed: %v", err)
	}
	if series.NextEpisode != nil {
		t.Errorf("Expected the next episode to be cleared, got %+v", series.NextEpisode)
	}
	if series.Status != "Ended" {
		t.Errorf("Expected status 'Ended', got %q", series.Status)
	}
}
