package store

import (
	"errors"
	"fmt"

	"github.com/vrsandeep/telly-go/internal/models"
)

// ErrAlreadyInState signals that SetFollowing was a no-op because the pair
// was already in the requested state (or there was nothing to unfollow).
var ErrAlreadyInState = errors.New("store: follow already in desired state")

// FollowState describes the state of a (subscriber, series) pair before a
// SetFollowing call.
type FollowState int

const (
	FollowStateNone         FollowState = iota // no row has ever existed
	FollowStateFollowing                       // row with is_following = true
	FollowStateNotFollowing                    // row with is_following = false
)

// SetFollowing sets the follow flag for a (subscriber, series) pair and
// returns the previous state. A missing row counts as "not following";
// unfollowing never deletes the row once it exists.
//
// The flip is a single compare-and-set UPDATE, so two racing toggles for the
// same pair resolve to exactly one winner; the loser sees ErrAlreadyInState.
func (s *Store) SetFollowing(subscriberID, seriesID int64, desired bool) (FollowState, error) {
	// Flip only when the row holds the opposite state.
	res, err := s.db.Exec(`
		UPDATE follows SET is_following = ?, updated_at = CURRENT_TIMESTAMP
		WHERE subscriber_id = ? AND series_id = ? AND is_following = ?`,
		desired, subscriberID, seriesID, !desired)
	if err != nil {
		return FollowStateNone, fmt.Errorf("toggling follow (%d,%d): %w", subscriberID, seriesID, err)
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return followState(!desired), nil
	}

	// Nothing flipped: either the row already matches, or it doesn't exist.
	var existing bool
	err = s.db.QueryRow(`
		SELECT is_following FROM follows WHERE subscriber_id = ? AND series_id = ?`,
		subscriberID, seriesID).Scan(&existing)
	if err == nil {
		return followState(existing), ErrAlreadyInState
	}

	if !desired {
		// No row and no desire to follow; nothing to unfollow.
		return FollowStateNone, ErrAlreadyInState
	}

	// First follow for this pair.
	res, err = s.db.Exec(`
		INSERT OR IGNORE INTO follows (subscriber_id, series_id, is_following, updated_at)
		VALUES (?, ?, 1, CURRENT_TIMESTAMP)`,
		subscriberID, seriesID)
	if err != nil {
		return FollowStateNone, fmt.Errorf("creating follow (%d,%d): %w", subscriberID, seriesID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// A concurrent insert won the race; the pair is already following.
		return FollowStateFollowing, ErrAlreadyInState
	}
	return FollowStateNone, nil
}

func followState(isFollowing bool) FollowState {
	if isFollowing {
		return FollowStateFollowing
	}
	return FollowStateNotFollowing
}

// GetFollow returns the follow row for a pair, or sql.ErrNoRows when the
// pair has never interacted.
func (s *Store) GetFollow(subscriberID, seriesID int64) (*models.Follow, error) {
	var f models.Follow
	err := s.db.QueryRow(`
		SELECT subscriber_id, series_id, is_following, updated_at
		FROM follows WHERE subscriber_id = ? AND series_id = ?`,
		subscriberID, seriesID).Scan(&f.SubscriberID, &f.SeriesID, &f.IsFollowing, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ActiveFollowersOf returns the ids of subscribers currently following the
// series. The cleanup job retires any series for which this comes back empty.
func (s *Store) ActiveFollowersOf(seriesID int64) ([]int64, error) {
	rows, err := s.db.Query(
		"SELECT subscriber_id FROM follows WHERE series_id = ? AND is_following = 1", seriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// FollowedSeriesOf returns the series a subscriber actively follows.
func (s *Store) FollowedSeriesOf(subscriberID int64) ([]*models.Series, error) {
	query := `
		SELECT ` + qualifiedSeriesColumns + `
		FROM series s
		JOIN follows f ON f.series_id = s.id
		WHERE f.subscriber_id = ? AND f.is_following = 1
	`
	rows, err := s.db.Query(query, subscriberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var followed []*models.Series
	for rows.Next() {
		series, err := scanSeries(rows)
		if err != nil {
			return nil, err
		}
		followed = append(followed, series)
	}
	return followed, rows.Err()
}

const qualifiedSeriesColumns = `s.id, s.tvmaze_id, s.name, s.status, s.api_url, s.web_url,
	s.next_episode_season, s.next_episode_number, s.next_episode_name,
	s.next_episode_airdate, s.next_episode_api_url, s.created_at, s.updated_at`
