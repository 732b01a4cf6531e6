package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vrsandeep/telly-go/internal/catalog"
	"github.com/vrsandeep/telly-go/internal/models"
)

// rateLimitedMessage is shown when the upstream catalog throttles us.
const rateLimitedMessage = "The servers are busy. Try again in a few seconds."

func (s *Server) handleSearchShows(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		RespondWithError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	results, err := s.catalog.SearchShows(r.Context(), query)
	if errors.Is(err, catalog.ErrRateLimited) {
		RespondWithError(w, http.StatusServiceUnavailable, rateLimitedMessage)
		return
	}
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, "Catalog search failed")
		return
	}
	if results == nil {
		results = []catalog.SearchResult{}
	}
	RespondWithJSON(w, http.StatusOK, results)
}

// showCard is the detail view for a single series, with the neighbouring
// episodes already rendered for display.
type showCard struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Status          string `json:"status"`
	Network         string `json:"network,omitempty"`
	Summary         string `json:"summary,omitempty"`
	URL             string `json:"url,omitempty"`
	ImageURL        string `json:"image_url,omitempty"`
	PreviousEpisode string `json:"previous_episode"`
	NextEpisode     string `json:"next_episode"`
}

func (s *Server) handleGetShowCard(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "tvmazeID"), 10, 64)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid show ID")
		return
	}

	show, err := s.catalog.GetShowByID(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		RespondWithError(w, http.StatusNotFound, "Show not found")
		return
	}
	if errors.Is(err, catalog.ErrRateLimited) {
		RespondWithError(w, http.StatusServiceUnavailable, rateLimitedMessage)
		return
	}
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, "Catalog lookup failed")
		return
	}

	card := showCard{
		ID:              show.ID,
		Name:            show.Name,
		Status:          show.Status,
		Network:         show.Network,
		Summary:         show.Summary,
		URL:             show.URL,
		ImageURL:        show.ImageURL,
		PreviousEpisode: s.episodeSummary(r, show.PrevEpisodeURL, "None"),
		NextEpisode:     s.episodeSummary(r, show.NextEpisodeURL, missingNextText(show.Status)),
	}
	RespondWithJSON(w, http.StatusOK, card)
}

// episodeSummary renders an episode link as "Season N Ep M" plus the air date
// and its distance from today. Lookup failures fall back to the placeholder
// so one flaky episode fetch never fails the whole card.
func (s *Server) episodeSummary(r *http.Request, episodeURL, placeholder string) string {
	if episodeURL == "" {
		return placeholder
	}
	ep, err := s.catalog.GetEpisode(r.Context(), episodeURL)
	if err != nil {
		return placeholder
	}

	days := int(ep.AirDate.Sub(time.Now().UTC().Truncate(24*time.Hour)).Hours() / 24)
	return fmt.Sprintf("Season %d Ep %d\n%s (%d days)", ep.Season, ep.Number, ep.AirDate.Format("2006-01-02"), days)
}

func missingNextText(status string) string {
	if status == models.StatusRunning {
		return "Unknown"
	}
	return "Canceled"
}
