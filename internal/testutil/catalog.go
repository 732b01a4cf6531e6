// A fake upstream catalog for tests: a TVMaze-shaped JSON API over httptest
// with scriptable shows, episodes and failures.

package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/vrsandeep/telly-go/internal/catalog"
	"github.com/vrsandeep/telly-go/internal/config"
)

type FakeEpisode struct {
	Season  int
	Number  int
	Name    string
	AirDate string // "2006-01-02", empty renders as an episode without a date
}

type FakeShow struct {
	ID     int64
	Name   string
	Status string
	Score  float64
	Next   *FakeEpisode // nil means no nextepisode link
}

// FakeCatalog serves a scriptable catalog API. Safe for concurrent use so
// refresh-job tests can fan out against it.
type FakeCatalog struct {
	Server *httptest.Server

	mu       sync.Mutex
	shows    map[int64]*FakeShow
	failWith map[int64]int // show id -> HTTP status to force
	hits     map[string]int
}

func NewFakeCatalog(t *testing.T) *FakeCatalog {
	t.Helper()
	fc := &FakeCatalog{
		shows:    make(map[int64]*FakeShow),
		failWith: make(map[int64]int),
		hits:     make(map[string]int),
	}
	fc.Server = httptest.NewServer(http.HandlerFunc(fc.handle))
	t.Cleanup(fc.Server.Close)
	return fc
}

// ClientConfig returns a config pointing the catalog client at the fake,
// with a single retry so failure tests stay fast.
func (fc *FakeCatalog) ClientConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Catalog.BaseURL = fc.Server.URL
	cfg.Catalog.TimeoutSeconds = 5
	cfg.Catalog.MinScore = 3.0
	cfg.Catalog.MaxRetries = 1
	cfg.Refresh.Workers = 2
	return cfg
}

// Client returns a catalog client wired to the fake server.
func (fc *FakeCatalog) Client() *catalog.Client {
	return catalog.New(fc.ClientConfig())
}

func (fc *FakeCatalog) AddShow(show *FakeShow) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if show.Status == "" {
		show.Status = "Running"
	}
	fc.shows[show.ID] = show
}

// FailShow makes lookups of the given show id return the HTTP status.
func (fc *FakeCatalog) FailShow(id int64, status int) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.failWith[id] = status
}

// Hits reports how many requests reached the given path.
func (fc *FakeCatalog) Hits(path string) int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.hits[path]
}

func (fc *FakeCatalog) handle(w http.ResponseWriter, r *http.Request) {
	fc.mu.Lock()
	fc.hits[r.URL.Path]++
	fc.mu.Unlock()

	switch {
	case r.URL.Path == "/search/shows":
		fc.handleSearch(w, r)
	case strings.HasPrefix(r.URL.Path, "/shows/"):
		fc.handleShow(w, r)
	case strings.HasPrefix(r.URL.Path, "/episodes/"):
		fc.handleEpisode(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (fc *FakeCatalog) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))
	fc.mu.Lock()
	defer fc.mu.Unlock()

	results := []map[string]interface{}{}
	for _, show := range fc.shows {
		if !strings.Contains(strings.ToLower(show.Name), q) {
			continue
		}
		score := show.Score
		if score == 0 {
			score = 10
		}
		results = append(results, map[string]interface{}{
			"score": score,
			"show":  fc.showJSON(show),
		})
	}
	writeJSON(w, results)
}

func (fc *FakeCatalog) handleShow(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/shows/"), 10, 64)
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if status, ok := fc.failWith[id]; ok {
		w.WriteHeader(status)
		return
	}
	show, ok := fc.shows[id]
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, fc.showJSON(show))
}

func (fc *FakeCatalog) handleEpisode(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/episodes/"), 10, 64)
	fc.mu.Lock()
	defer fc.mu.Unlock()

	show, ok := fc.shows[id]
	if !ok || show.Next == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]interface{}{
		"url":     fmt.Sprintf("%s/episodes/%d", fc.Server.URL, id),
		"name":    show.Next.Name,
		"season":  show.Next.Season,
		"number":  show.Next.Number,
		"airdate": show.Next.AirDate,
	})
}

// showJSON renders the TVMaze wire shape. Episode URLs reuse the show id,
// which keeps the fake's routing trivial.
func (fc *FakeCatalog) showJSON(show *FakeShow) map[string]interface{} {
	links := map[string]interface{}{
		"self": map[string]string{"href": fmt.Sprintf("%s/shows/%d", fc.Server.URL, show.ID)},
	}
	if show.Next != nil {
		links["nextepisode"] = map[string]string{
			"href": fmt.Sprintf("%s/episodes/%d", fc.Server.URL, show.ID),
		}
	}
	return map[string]interface{}{
		"id":     show.ID,
		"name":   show.Name,
		"status": show.Status,
		"url":    fmt.Sprintf("https://example.com/shows/%d", show.ID),
		"_links": links,
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
