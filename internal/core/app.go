package core

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/vrsandeep/telly-go/internal/config"
	"github.com/vrsandeep/telly-go/internal/db"
	"github.com/vrsandeep/telly-go/internal/jobs"
)

// App holds the core components of the application that are shared between
// the server and the one-shot tasks binary. It implements jobs.JobContext.
type App struct {
	cfg        *config.Config
	database   *sql.DB
	jobManager *jobs.JobManager
}

// New sets up and returns a new App instance. It handles loading the
// configuration, initializing the database connection, and running migrations.
func New() (*App, error) {
	// Load configuration from config.yml
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize the database connection
	database, err := db.InitDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	if err := db.RunMigrations(database); err != nil {
		// We can't proceed without a valid database schema.
		// Close the DB connection before failing.
		database.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	log.Println("Core application setup complete.")
	app := &App{cfg: cfg, database: database}
	app.jobManager = jobs.NewManager(app)
	return app, nil
}

// NewForTesting assembles an App from pre-built components, bypassing config
// files and migrations. Test helpers use this.
func NewForTesting(cfg *config.Config, database *sql.DB) *App {
	app := &App{cfg: cfg, database: database}
	app.jobManager = jobs.NewManager(app)
	return app
}

func (a *App) DB() *sql.DB                  { return a.database }
func (a *App) Config() *config.Config       { return a.cfg }
func (a *App) JobManager() *jobs.JobManager { return a.jobManager }

// Close gracefully closes the application's resources, like the DB connection.
func (a *App) Close() {
	if a.database != nil {
		a.database.Close()
	}
}
