// This file defines the core data structures (models) for our application.
// These structs represent the tracked series, subscribers, and the follow
// relation between them.

package models

import "time"

// Series status values as reported by the upstream catalog.
const (
	StatusRunning       = "Running"
	StatusEnded         = "Ended"
	StatusTBD           = "To Be Determined"
	StatusInDevelopment = "In Development"
	StatusUnknown       = "Unknown"
)

// WatchlistCategory classifies a series for the digest report. It is derived
// at report time and never persisted.
type WatchlistCategory string

const (
	CategoryKnown     WatchlistCategory = "known"     // next air date is known
	CategoryUnknown   WatchlistCategory = "unknown"   // still running, no date announced
	CategoryCancelled WatchlistCategory = "cancelled" // not running, no date announced
)

// NextEpisode holds the schedule of a series' next episode. The five fields
// travel together: a series either has a complete NextEpisode or none at all.
type NextEpisode struct {
	Season  int       `json:"season"`
	Number  int       `json:"number"`
	Name    string    `json:"name"`
	AirDate time.Time `json:"air_date"` // calendar date, midnight UTC
	APIURL  string    `json:"api_url"`
}

// Series represents a single tracked TV series.
type Series struct {
	ID          int64        `json:"id"`
	TVMazeID    int64        `json:"tvmaze_id"`
	Name        string       `json:"name"`
	Status      string       `json:"status"`
	APIURL      string       `json:"api_url"`
	WebURL      string       `json:"web_url,omitempty"`
	NextEpisode *NextEpisode `json:"next_episode,omitempty"` // nil when no next episode is scheduled
	CreatedAt   time.Time    `json:"-"`
	UpdatedAt   time.Time    `json:"-"`
}

// Category derives the watchlist bucket from the series snapshot. A series
// without a next air date counts as cancelled unless the catalog still
// reports it as running.
func (s *Series) Category() WatchlistCategory {
	if s.NextEpisode != nil {
		return CategoryKnown
	}
	if s.Status == StatusRunning {
		return CategoryUnknown
	}
	return CategoryCancelled
}

// IsPremiere reports whether the scheduled next episode opens a season.
func (e *NextEpisode) IsPremiere() bool {
	return e.Number == 1
}

// Subscriber represents a single report recipient, identified by their
// messaging-platform user id.
type Subscriber struct {
	ID          int64     `json:"id"`
	PlatformID  string    `json:"platform_id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"-"`
}

// Follow is the subscription edge between a subscriber and a series.
// Unfollowing flips the flag; the row itself is only removed when a parent
// row cascades.
type Follow struct {
	SubscriberID int64     `json:"subscriber_id"`
	SeriesID     int64     `json:"series_id"`
	IsFollowing  bool      `json:"is_following"`
	UpdatedAt    time.Time `json:"-"`
}
