package store

import (
	"fmt"

	"github.com/vrsandeep/telly-go/internal/models"
)

const subscriberColumns = "id, platform_id, display_name, created_at"

// GetOrCreateSubscriber finds a subscriber by their messaging-platform id,
// creating the record on first contact. The display name is refreshed on
// every call since the platform may rename accounts.
func (s *Store) GetOrCreateSubscriber(platformID, displayName string) (*models.Subscriber, error) {
	query := `
		INSERT INTO subscribers (platform_id, display_name, created_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(platform_id) DO UPDATE SET display_name = excluded.display_name
		RETURNING ` + subscriberColumns

	var sub models.Subscriber
	err := s.db.QueryRow(query, platformID, displayName).Scan(
		&sub.ID, &sub.PlatformID, &sub.DisplayName, &sub.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("resolving subscriber %q: %w", platformID, err)
	}
	return &sub, nil
}

// GetSubscriberByPlatformID looks up a subscriber without creating one.
// Returns sql.ErrNoRows when the subscriber is unknown.
func (s *Store) GetSubscriberByPlatformID(platformID string) (*models.Subscriber, error) {
	var sub models.Subscriber
	err := s.db.QueryRow("SELECT "+subscriberColumns+" FROM subscribers WHERE platform_id = ?", platformID).
		Scan(&sub.ID, &sub.PlatformID, &sub.DisplayName, &sub.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// SubscribersWithActiveFollows returns every subscriber who currently
// follows at least one series. This is the digest builder's audience.
func (s *Store) SubscribersWithActiveFollows() ([]*models.Subscriber, error) {
	query := `
		SELECT DISTINCT s.id, s.platform_id, s.display_name, s.created_at
		FROM subscribers s
		JOIN follows f ON f.subscriber_id = s.id
		WHERE f.is_following = 1
		ORDER BY s.id
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*models.Subscriber
	for rows.Next() {
		var sub models.Subscriber
		if err := rows.Scan(&sub.ID, &sub.PlatformID, &sub.DisplayName, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}
