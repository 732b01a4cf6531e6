package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vrsandeep/telly-go/internal/digest"
	"github.com/vrsandeep/telly-go/internal/jobs"
	"github.com/vrsandeep/telly-go/internal/notify"
	"github.com/vrsandeep/telly-go/internal/testutil"
	"github.com/vrsandeep/telly-go/internal/watchlist"
)

func setupTestServer(t *testing.T) (*Server, *testutil.FakeCatalog) {
	t.Helper()
	fc := testutil.NewFakeCatalog(t)
	app := testutil.SetupTestAppWithCatalog(t, fc)
	client := fc.Client()
	watchlistSvc := watchlist.NewService(app, client)
	digestSvc := digest.NewService(app, notify.NewRecorder())
	return NewServer(app, client, watchlistSvc, digestSvc), fc
}

func TestHandleHealth(t *testing.T) {
	server, _ := setupTestServer(t)
	router := server.Router()

	req, _ := http.NewRequest("GET", "/api/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
}

func TestHandleSearchShows(t *testing.T) {
	server, fc := setupTestServer(t)
	router := server.Router()
	fc.AddShow(&testutil.FakeShow{ID: 82, Name: "Game of Thrones"})

	t.Run("MissingQuery", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/search", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusBadRequest)
		}
	})

	t.Run("Success", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/search?q=thrones", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
		}
		var results []map[string]interface{}
		if err := json.Unmarshal(rr.Body.Bytes(), &results); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(results) != 1 || results[0]["name"] != "Game of Thrones" {
			t.Errorf("Expected the matching show, got %v", results)
		}
	})

	t.Run("NoMatches", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/search?q=nonexistent", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
		}
		if body := rr.Body.String(); body[0] != '[' {
			t.Errorf("Expected an empty JSON array, got %s", body)
		}
	})
}

func TestHandleGetShowCard(t *testing.T) {
	server, fc := setupTestServer(t)
	router := server.Router()
	fc.AddShow(&testutil.FakeShow{
		ID: 82, Name: "Game of Thrones",
		Next: &testutil.FakeEpisode{Season: 8, Number: 1, Name: "Winterfell", AirDate: "2030-04-14"},
	})

	t.Run("Success", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/shows/82", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
		}
		var card showCard
		if err := json.Unmarshal(rr.Body.Bytes(), &card); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if card.Name != "Game of Thrones" {
			t.Errorf("Expected show name, got %q", card.Name)
		}
		if card.PreviousEpisode != "None" {
			t.Errorf("Expected previous episode placeholder, got %q", card.PreviousEpisode)
		}
		if card.NextEpisode == "Unknown" || card.NextEpisode == "" {
			t.Errorf("Expected a rendered next episode, got %q", card.NextEpisode)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/shows/999", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusNotFound)
		}
	})

	t.Run("BadID", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/shows/abc", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusBadRequest)
		}
	})
}

func TestHandleRunAdminJob(t *testing.T) {
	server, _ := setupTestServer(t)
	router := server.Router()
	server.app.JobManager().Register("noop", "No-op", func(ctx jobs.JobContext) {})

	payload, _ := json.Marshal(map[string]string{"job_id": "noop"})
	req, _ := http.NewRequest("POST", "/api/admin/jobs/run", bytes.NewBuffer(payload))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusAccepted)
	}
}

func TestHandleGetAdminJobsStatus(t *testing.T) {
	server, _ := setupTestServer(t)
	router := server.Router()

	req, _ := http.NewRequest("GET", "/api/admin/jobs/status", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
}
