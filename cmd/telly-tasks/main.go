// telly-tasks runs the daily watchlist pipeline once and exits. It is the
// cron-friendly alternative to the built-in scheduler: cleanup, refresh,
// then the digest reports.
package main

import (
	"context"
	"log"

	"github.com/vrsandeep/telly-go/internal/catalog"
	"github.com/vrsandeep/telly-go/internal/core"
	"github.com/vrsandeep/telly-go/internal/digest"
	"github.com/vrsandeep/telly-go/internal/notify"
	"github.com/vrsandeep/telly-go/internal/refresh"
)

func main() {
	app, err := core.New()
	if err != nil {
		log.Fatalf("Fatal error during application setup: %v", err)
	}
	defer app.Close()

	client := catalog.New(app.Config())
	refreshSvc := refresh.NewService(app, client)
	digestSvc := digest.NewService(app, notify.NewSlackNotifier(app.Config()))

	ctx := context.Background()

	removed, err := refreshSvc.CleanupOrphans()
	if err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}
	log.Printf("Cleanup done, %d series retired.", removed)

	summary, err := refreshSvc.RefreshAll(ctx)
	if err != nil {
		log.Fatalf("Episode refresh failed: %v", err)
	}
	log.Printf("Refresh done: %d refreshed, %d failed.", summary.Refreshed, summary.Failed)

	if err := digestSvc.SendAll(ctx); err != nil {
		log.Fatalf("Report delivery failed: %v", err)
	}
	log.Println("Daily tasks finished.")
}
