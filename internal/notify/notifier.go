// Package notify delivers digest reports to subscribers. The engine only
// depends on the Notifier interface; Slack is the one real transport.
package notify

import "context"

// Notifier sends a rendered report to one recipient. Implementations own
// delivery semantics entirely; the caller neither retries nor deduplicates.
type Notifier interface {
	SendReport(ctx context.Context, recipientID, report string) error
}
