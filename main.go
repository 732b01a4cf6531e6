package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/vrsandeep/telly-go/internal/api"
	"github.com/vrsandeep/telly-go/internal/catalog"
	"github.com/vrsandeep/telly-go/internal/core"
	"github.com/vrsandeep/telly-go/internal/digest"
	"github.com/vrsandeep/telly-go/internal/jobs"
	"github.com/vrsandeep/telly-go/internal/notify"
	"github.com/vrsandeep/telly-go/internal/refresh"
	"github.com/vrsandeep/telly-go/internal/watchlist"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize the core application components
	app, err := core.New()
	if err != nil {
		log.Fatalf("Fatal error during application setup: %v", err)
	}
	defer app.Close()

	if logPath := app.Config().Log.Path; logPath != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}

	// Wire the services around the shared catalog client.
	client := catalog.New(app.Config())
	notifier := notify.NewSlackNotifier(app.Config())
	watchlistSvc := watchlist.NewService(app, client)
	refreshSvc := refresh.NewService(app, client)
	digestSvc := digest.NewService(app, notifier)

	registerPipeline(app, refreshSvc, digestSvc)

	// Start the daily schedule in the background.
	jobs.StartJobs(app)

	// Setup the API server
	server := api.NewServer(app, client, watchlistSvc, digestSvc)
	addr := fmt.Sprintf(":%d", app.Config().Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Router(),
	}

	// --- Graceful Shutdown ---
	// Start the server in a goroutine so it doesn't block.
	go func() {
		log.Printf("Starting web server on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not start server: %v", err)
		}
	}()

	// Wait for an interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Create a context with a timeout to allow existing connections to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Attempt a graceful shutdown.
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}

// registerPipeline wires the daily batch: cleanup first so retired series
// don't waste catalog calls, then the refresh, then the reports.
func registerPipeline(app *core.App, refreshSvc *refresh.Service, digestSvc *digest.Service) {
	app.JobManager().Register(jobs.PipelineJobID, "Daily watchlist pipeline", func(jc jobs.JobContext) {
		ctx := context.Background()

		if _, err := refreshSvc.CleanupOrphans(); err != nil {
			log.Printf("Cleanup failed: %v", err)
		}
		if _, err := refreshSvc.RefreshAll(ctx); err != nil {
			log.Printf("Episode refresh failed: %v", err)
		}
		if err := digestSvc.SendAll(ctx); err != nil {
			log.Printf("Report delivery failed: %v", err)
		}
	})
}
