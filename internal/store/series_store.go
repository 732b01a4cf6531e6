package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vrsandeep/telly-go/internal/models"
)

const dateLayout = "2006-01-02"

// SeriesFields holds the mutable attributes written by UpsertSeries. The
// catalog id itself is immutable once a series exists.
type SeriesFields struct {
	Name        string
	Status      string
	APIURL      string
	WebURL      string
	NextEpisode *models.NextEpisode
}

const seriesColumns = `id, tvmaze_id, name, status, api_url, web_url,
	next_episode_season, next_episode_number, next_episode_name,
	next_episode_airdate, next_episode_api_url, created_at, updated_at`

// UpsertSeries creates the series for a catalog id or overwrites its mutable
// fields if it already exists. The five next-episode columns are always
// written together, either all set or all NULL.
func (s *Store) UpsertSeries(tvmazeID int64, f SeriesFields) (*models.Series, error) {
	season, number, epName, airDate, epURL := nextEpisodeValues(f.NextEpisode)

	query := `
		INSERT INTO series (tvmaze_id, name, status, api_url, web_url,
			next_episode_season, next_episode_number, next_episode_name,
			next_episode_airdate, next_episode_api_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(tvmaze_id) DO UPDATE SET
			name = excluded.name,
			status = excluded.status,
			api_url = excluded.api_url,
			web_url = excluded.web_url,
			next_episode_season = excluded.next_episode_season,
			next_episode_number = excluded.next_episode_number,
			next_episode_name = excluded.next_episode_name,
			next_episode_airdate = excluded.next_episode_airdate,
			next_episode_api_url = excluded.next_episode_api_url,
			updated_at = CURRENT_TIMESTAMP
		RETURNING ` + seriesColumns

	row := s.db.QueryRow(query, tvmazeID, f.Name, f.Status, f.APIURL, f.WebURL,
		season, number, epName, airDate, epURL)
	series, err := scanSeries(row)
	if err != nil {
		return nil, fmt.Errorf("upserting series %d: %w", tvmazeID, err)
	}
	return series, nil
}

// GetSeriesByExternalID looks up a series by its catalog id. Returns
// sql.ErrNoRows when the series is not tracked locally.
func (s *Store) GetSeriesByExternalID(tvmazeID int64) (*models.Series, error) {
	row := s.db.QueryRow("SELECT "+seriesColumns+" FROM series WHERE tvmaze_id = ?", tvmazeID)
	return scanSeries(row)
}

// GetSeriesByID looks up a series by its local primary key.
func (s *Store) GetSeriesByID(id int64) (*models.Series, error) {
	row := s.db.QueryRow("SELECT "+seriesColumns+" FROM series WHERE id = ?", id)
	return scanSeries(row)
}

// ListSeries returns every tracked series. Order is not significant; the
// refresh job and digest builder impose their own ordering.
func (s *Store) ListSeries() ([]*models.Series, error) {
	rows, err := s.db.Query("SELECT " + seriesColumns + " FROM series")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []*models.Series
	for rows.Next() {
		series, err := scanSeries(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, series)
	}
	return all, rows.Err()
}

// DeleteSeries removes a series. Its follow rows go with it via the
// ON DELETE CASCADE foreign key.
func (s *Store) DeleteSeries(id int64) error {
	_, err := s.db.Exec("DELETE FROM series WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting series %d: %w", id, err)
	}
	return nil
}

// rowScanner lets scanSeries work with both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSeries(row rowScanner) (*models.Series, error) {
	var series models.Series
	var webURL sql.NullString
	var season, number sql.NullInt64
	var epName, airDate, epURL sql.NullString

	err := row.Scan(&series.ID, &series.TVMazeID, &series.Name, &series.Status,
		&series.APIURL, &webURL, &season, &number, &epName, &airDate, &epURL,
		&series.CreatedAt, &series.UpdatedAt)
	if err != nil {
		return nil, err
	}
	series.WebURL = webURL.String

	// The next-episode group is all-or-nothing; the air date is the witness
	// for the whole unit.
	if airDate.Valid {
		parsed, err := time.ParseInLocation(dateLayout, airDate.String, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("series %d has bad next episode date %q: %w", series.ID, airDate.String, err)
		}
		series.NextEpisode = &models.NextEpisode{
			Season:  int(season.Int64),
			Number:  int(number.Int64),
			Name:    epName.String,
			AirDate: parsed,
			APIURL:  epURL.String,
		}
	}
	return &series, nil
}

func nextEpisodeValues(e *models.NextEpisode) (season, number, name, airDate, apiURL interface{}) {
	if e == nil {
		return nil, nil, nil, nil, nil
	}
	return e.Season, e.Number, e.Name, e.AirDate.Format(dateLayout), e.APIURL
}
