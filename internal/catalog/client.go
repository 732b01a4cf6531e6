// Package catalog implements the client for the upstream TVMaze API, the
// source of truth for series and episode metadata.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/avast/retry-go/v4"

	"github.com/vrsandeep/telly-go/internal/config"
	"github.com/vrsandeep/telly-go/internal/models"
)

const dateLayout = "2006-01-02"

// Client talks to the catalog API. It is stateless and safe for concurrent use.
type Client struct {
	httpc    *http.Client
	baseURL  string
	minScore float64
	retries  uint
}

// New creates a catalog client from the application configuration.
func New(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Catalog.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	retries := uint(cfg.Catalog.MaxRetries)
	if retries == 0 {
		retries = 3
	}
	return &Client{
		httpc:    &http.Client{Timeout: timeout},
		baseURL:  strings.TrimSuffix(cfg.Catalog.BaseURL, "/"),
		minScore: cfg.Catalog.MinScore,
		retries:  retries,
	}
}

// SearchShows queries the catalog for series matching the text and returns
// candidates at or above the configured confidence score, best match first.
func (c *Client) SearchShows(ctx context.Context, query string) ([]SearchResult, error) {
	u := fmt.Sprintf("%s/search/shows?q=%s", c.baseURL, url.QueryEscape(query))

	var payload searchResponse
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return nil, fmt.Errorf("searching for %q: %w", query, err)
	}

	var results []SearchResult
	for _, match := range payload {
		if match.Score < c.minScore {
			continue
		}
		r := SearchResult{
			ID:    match.Show.ID,
			Name:  match.Show.Name,
			Score: match.Score,
			Label: match.Show.Name,
		}
		if len(match.Show.Premiere) >= 4 {
			r.PremiereYear = match.Show.Premiere[:4]
			r.Label = fmt.Sprintf("%s (%s)", r.Name, r.PremiereYear)
		}
		results = append(results, r)
	}
	return results, nil
}

// GetShowByID fetches the full series record for a catalog id.
func (c *Client) GetShowByID(ctx context.Context, id int64) (*Show, error) {
	u := fmt.Sprintf("%s/shows/%d", c.baseURL, id)
	return c.getShow(ctx, u)
}

// GetShowByURL re-fetches a series from its stored API URL. Used by the
// refresh job, which keeps the _links.self href of every tracked series.
func (c *Client) GetShowByURL(ctx context.Context, apiURL string) (*Show, error) {
	return c.getShow(ctx, apiURL)
}

func (c *Client) getShow(ctx context.Context, u string) (*Show, error) {
	var payload showResponse
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return nil, fmt.Errorf("fetching show %s: %w", u, err)
	}

	show := &Show{
		ID:      payload.ID,
		Name:    payload.Name,
		Status:  payload.Status,
		URL:     payload.URL,
		APIURL:  payload.Links.Self.Href,
		Summary: stripHTML(payload.Summary),
	}
	if show.Status == "" {
		show.Status = models.StatusUnknown
	}
	if payload.Network != nil {
		show.Network = payload.Network.Name
	}
	if payload.Image != nil {
		show.ImageURL = payload.Image.Medium
	}
	if payload.Links.PrevEpisode != nil {
		show.PrevEpisodeURL = payload.Links.PrevEpisode.Href
	}
	if payload.Links.NextEpisode != nil {
		show.NextEpisodeURL = payload.Links.NextEpisode.Href
	}
	return show, nil
}

// GetEpisode fetches a single episode by its API URL. An episode with no
// usable air date is reported as ErrMalformed; callers treat that the same
// as "no scheduled episode".
func (c *Client) GetEpisode(ctx context.Context, episodeURL string) (*Episode, error) {
	var payload episodeResponse
	if err := c.getJSON(ctx, episodeURL, &payload); err != nil {
		return nil, fmt.Errorf("fetching episode %s: %w", episodeURL, err)
	}

	if payload.AirDate == "" {
		return nil, fmt.Errorf("episode %s has no air date: %w", episodeURL, ErrMalformed)
	}
	airDate, err := time.ParseInLocation(dateLayout, payload.AirDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("episode %s has air date %q: %w", episodeURL, payload.AirDate, ErrMalformed)
	}

	return &Episode{
		Season:  payload.Season,
		Number:  payload.Number,
		Name:    payload.Name,
		AirDate: airDate,
		URL:     payload.URL,
	}, nil
}

// NextEpisodeOf resolves a show's next-episode link into the model's
// all-or-nothing unit. A missing link, a vanished episode, or one without an
// air date all mean "nothing scheduled" rather than an error.
func (c *Client) NextEpisodeOf(ctx context.Context, show *Show) (*models.NextEpisode, error) {
	if show.NextEpisodeURL == "" {
		return nil, nil
	}
	ep, err := c.GetEpisode(ctx, show.NextEpisodeURL)
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrMalformed) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolving next episode of %s: %w", show.Name, err)
	}
	return &models.NextEpisode{
		Season:  ep.Season,
		Number:  ep.Number,
		Name:    ep.Name,
		AirDate: ep.AirDate,
		APIURL:  ep.URL,
	}, nil
}

// getJSON performs a GET with retries. Rate limiting and transient failures
// are retried with backoff; a 404 is terminal and returned immediately.
func (c *Client) getJSON(ctx context.Context, u string, out interface{}) error {
	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
			if err != nil {
				return err
			}
			resp, err := c.httpc.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusNotFound:
				return ErrNotFound
			case resp.StatusCode == http.StatusTooManyRequests:
				return ErrRateLimited
			case resp.StatusCode >= 400:
				return fmt.Errorf("catalog: unexpected status %d", resp.StatusCode)
			}

			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.retries),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			// Not-found and malformed payloads will not get better on retry.
			return !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrMalformed)
		}),
	)
}

// stripHTML flattens the catalog's HTML summaries to plain text. On a parse
// failure the original text is returned unchanged.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
