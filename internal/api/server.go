// It defines the API server, sets up the routes (endpoints)
// using chi, and links them to the handler functions.

package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vrsandeep/telly-go/internal/catalog"
	"github.com/vrsandeep/telly-go/internal/core"
	"github.com/vrsandeep/telly-go/internal/digest"
	"github.com/vrsandeep/telly-go/internal/store"
	"github.com/vrsandeep/telly-go/internal/watchlist"
)

// Server holds the dependencies for our API.
type Server struct {
	app       *core.App
	db        *sql.DB
	store     *store.Store
	catalog   *catalog.Client
	watchlist *watchlist.Service
	digest    *digest.Service
}

// NewServer creates a new Server instance.
func NewServer(app *core.App, client *catalog.Client, watchlistSvc *watchlist.Service, digestSvc *digest.Service) *Server {
	return &Server{
		app:       app,
		db:        app.DB(),
		store:     store.New(app.DB()),
		catalog:   client,
		watchlist: watchlistSvc,
		digest:    digestSvc,
	}
}

// Store returns the store instance.
func (s *Server) Store() *store.Store {
	return s.store
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Logs requests to the console
	r.Use(middleware.Recoverer) // Recovers from panics
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleSearchShows)
		r.Get("/shows/{tvmazeID}", s.handleGetShowCard)

		r.Post("/follow", s.handleFollow)
		r.Post("/unfollow", s.handleUnfollow)
		r.Get("/watchlist/{subscriberID}", s.handleGetWatchlist)
		r.Get("/watchlist/{subscriberID}/series", s.handleGetWatchlistSeries)
		r.Get("/series", s.handleListSeries)

		// Admin Job Triggers
		r.Route("/admin", func(r chi.Router) {
			r.Get("/jobs/status", s.handleGetAdminJobsStatus)
			r.Post("/jobs/run", s.handleRunAdminJob)
		})
	})

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		if err := s.db.Ping(); err != nil {
			RespondWithError(w, http.StatusServiceUnavailable, "Database connection failed")
			return
		}
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
