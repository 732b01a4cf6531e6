// This test file covers the series side of the data access layer.
// It uses an in-memory SQLite database to ensure tests are fast and isolated.

package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vrsandeep/telly-go/internal/models"
	"github.com/vrsandeep/telly-go/internal/testutil"
)

func sampleFields(name string) SeriesFields {
	return SeriesFields{
		Name:   name,
		Status: models.StatusRunning,
		APIURL: "https://api.tvmaze.com/shows/1",
		WebURL: "https://www.tvmaze.com/shows/1/" + name,
	}
}

func TestUpsertSeries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	created, err := s.UpsertSeries(82, sampleFields("Game of Thrones"))
	if err != nil {
		t.Fatalf("UpsertSeries (create) failed: %v", err)
	}
	if created.ID == 0 {
		t.Error("Expected created series to have an ID")
	}
	if created.NextEpisode != nil {
		t.Error("Expected no next episode on a bare upsert")
	}

	// Upserting the same catalog id must update the row in place.
	next := &models.NextEpisode{
		Season:  8,
		Number:  1,
		Name:    "Winterfell",
		AirDate: time.Date(2019, 4, 14, 0, 0, 0, 0, time.UTC),
		APIURL:  "https://api.tvmaze.com/episodes/1623968",
	}
	updated, err := s.UpsertSeries(82, SeriesFields{
		Name:        "Game of Thrones",
		Status:      models.StatusEnded,
		APIURL:      created.APIURL,
		WebURL:      created.WebURL,
		NextEpisode: next,
	})
	if err != nil {
		t.Fatalf("UpsertSeries (update) failed: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("Expected update to keep ID %d, got %d", created.ID, updated.ID)
	}
	if updated.Status != models.StatusEnded {
		t.Errorf("Expected status to be updated, got %q", updated.Status)
	}
	if updated.NextEpisode == nil || updated.NextEpisode.Name != "Winterfell" {
		t.Errorf("Expected next episode to be stored, got %+v", updated.NextEpisode)
	}
	if !updated.NextEpisode.AirDate.Equal(next.AirDate) {
		t.Errorf("Expected air date %v, got %v", next.AirDate, updated.NextEpisode.AirDate)
	}

	var count int
	db.QueryRow("SELECT COUNT(*) FROM series").Scan(&count)
	if count != 1 {
		t.Errorf("Expected a single series row, got %d", count)
	}
}

func TestUpsertSeriesClearsNextEpisode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	fields := sampleFields("Westworld")
	fields.NextEpisode = &models.NextEpisode{
		Season:  3,
		Number:  5,
		Name:    "Genre",
		AirDate: time.Date(2020, 4, 12, 0, 0, 0, 0, time.UTC),
		APIURL:  "https://api.tvmaze.com/episodes/1798290",
	}
	if _, err := s.UpsertSeries(1371, fields); err != nil {
		t.Fatalf("UpsertSeries failed: %v", err)
	}

	// A refresh that finds no scheduled episode blanks all five columns.
	fields.NextEpisode = nil
	series, err := s.UpsertSeries(1371, fields)
	if err != nil {
		t.Fatalf("UpsertSeries (clear) failed: %v", err)
	}
	if series.NextEpisode != nil {
		t.Errorf("Expected next episode to be cleared, got %+v", series.NextEpisode)
	}
}

func TestGetSeriesByExternalID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	if _, err := s.UpsertSeries(82, sampleFields("Game of Thrones")); err != nil {
		t.Fatalf("UpsertSeries failed: %v", err)
	}

	series, err := s.GetSeriesByExternalID(82)
	if err != nil {
		t.Fatalf("GetSeriesByExternalID failed: %v", err)
	}
	if series.Name != "Game of Thrones" {
		t.Errorf("Expected name 'Game of Thrones', got %q", series.Name)
	}

	if _, err := s.GetSeriesByExternalID(999); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows for unknown catalog id, got %v", err)
	}
}

func TestDeleteSeriesCascadesFollows(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	series, err := s.UpsertSeries(82, sampleFields("Game of Thrones"))
	if err != nil {
		t.Fatalf("UpsertSeries failed: %v", err)
	}
	sub, err := s.GetOrCreateSubscriber("U123", "jon")
	if err != nil {
		t.Fatalf("GetOrCreateSubscriber failed: %v", err)
	}
	if _, err := s.SetFollowing(sub.ID, series.ID, true); err != nil {
		t.Fatalf("SetFollowing failed: %v", err)
	}

	if err := s.DeleteSeries(series.ID); err != nil {
		t.Fatalf("DeleteSeries failed: %v", err)
	}

	if _, err := s.GetSeriesByID(series.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected series to be gone, got %v", err)
	}
	var count int
	db.QueryRow("SELECT COUNT(*) FROM follows WHERE series_id = ?", series.ID).Scan(&count)
	if count != 0 {
		t.Errorf("Expected follow rows to cascade, found %d", count)
	}
}

func TestListSeries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	if _, err := s.UpsertSeries(82, sampleFields("Game of Thrones")); err != nil {
		t.Fatalf("UpsertSeries failed: %v", err)
	}
	if _, err := s.UpsertSeries(1371, sampleFields("Westworld")); err != nil {
		t.Fatalf("UpsertSeries failed: %v", err)
	}

	all, err := s.ListSeries()
	if err != nil {
		t.Fatalf("ListSeries failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 series, got %d", len(all))
	}
}
