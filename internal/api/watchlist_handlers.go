package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vrsandeep/telly-go/internal/catalog"
	"github.com/vrsandeep/telly-go/internal/models"
	"github.com/vrsandeep/telly-go/internal/watchlist"
)

type followRequest struct {
	SubscriberID   string `json:"subscriber_id"`
	SubscriberName string `json:"subscriber_name"`
	SeriesID       int64  `json:"series_id"`
}

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	var payload followRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.SubscriberID == "" || payload.SeriesID == 0 {
		RespondWithError(w, http.StatusBadRequest, "subscriber_id and series_id are required")
		return
	}

	outcome, series, err := s.watchlist.Follow(r.Context(), payload.SubscriberID, payload.SubscriberName, payload.SeriesID)
	if err != nil {
		respondWithCatalogError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": watchlist.Confirmation(outcome, series),
	})
}

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	var payload followRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.SubscriberID == "" || payload.SeriesID == 0 {
		RespondWithError(w, http.StatusBadRequest, "subscriber_id and series_id are required")
		return
	}

	outcome, series, err := s.watchlist.Unfollow(r.Context(), payload.SubscriberID, payload.SeriesID)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to unfollow series")
		return
	}

	RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": watchlist.Confirmation(outcome, series),
	})
}

func (s *Server) handleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	subscriberID := chi.URLParam(r, "subscriberID")

	report, err := s.digest.BuildFor(subscriberID)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to build watchlist report")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"report": report})
}

// handleGetWatchlistSeries returns the raw series a subscriber follows, for
// clients that want structured data instead of the rendered report.
func (s *Server) handleGetWatchlistSeries(w http.ResponseWriter, r *http.Request) {
	subscriberID := chi.URLParam(r, "subscriberID")

	followed, err := s.watchlist.Watchlist(subscriberID)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to load watchlist")
		return
	}
	if followed == nil {
		followed = []*models.Series{}
	}
	RespondWithJSON(w, http.StatusOK, followed)
}

func (s *Server) handleListSeries(w http.ResponseWriter, r *http.Request) {
	series, err := s.store.ListSeries()
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to list series")
		return
	}
	if series == nil {
		series = []*models.Series{}
	}
	RespondWithJSON(w, http.StatusOK, series)
}

// respondWithCatalogError maps catalog lookup failures during a follow to the
// right status code. Anything else is a server-side failure.
func respondWithCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		RespondWithError(w, http.StatusNotFound, "Show not found")
	case errors.Is(err, catalog.ErrRateLimited):
		RespondWithError(w, http.StatusServiceUnavailable, rateLimitedMessage)
	default:
		RespondWithError(w, http.StatusInternalServerError, "Failed to follow series")
	}
}
