package catalog

import "time"

// SearchResult is one autocomplete candidate for a series search.
type SearchResult struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	PremiereYear string  `json:"premiere_year,omitempty"`
	Score        float64 `json:"score"`
	Label        string  `json:"label"` // "Name (Year)", ready for display
}

// Show is the catalog's full record for a series.
type Show struct {
	ID             int64
	Name           string
	Status         string
	URL            string // public web page
	APIURL         string // the _links.self href, used for refreshes
	Summary        string // plain text, HTML already stripped
	Network        string
	ImageURL       string
	PrevEpisodeURL string // empty when the catalog lists no previous episode
	NextEpisodeURL string // empty when no next episode is scheduled
}

// Episode is the catalog's record for a single episode.
type Episode struct {
	Season  int
	Number  int
	Name    string
	AirDate time.Time // calendar date, midnight UTC
	URL     string
}

// --- wire shapes (TVMaze JSON) ---

type showResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	URL      string `json:"url"`
	Premiere string `json:"premiered"`
	Summary  string `json:"summary"`
	Image    *struct {
		Medium string `json:"medium"`
	} `json:"image"`
	Network *struct {
		Name string `json:"name"`
	} `json:"network"`
	Links struct {
		Self struct {
			Href string `json:"href"`
		} `json:"self"`
		PrevEpisode *struct {
			Href string `json:"href"`
		} `json:"previousepisode"`
		NextEpisode *struct {
			Href string `json:"href"`
		} `json:"nextepisode"`
	} `json:"_links"`
}

type searchResponse []struct {
	Score float64      `json:"score"`
	Show  showResponse `json:"show"`
}

type episodeResponse struct {
	URL     string `json:"url"`
	Name    string `json:"name"`
	Season  int    `json:"season"`
	Number  int    `json:"number"`
	AirDate string `json:"airdate"`
}
