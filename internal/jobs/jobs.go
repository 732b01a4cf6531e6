package jobs

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// PipelineJobID names the daily batch job: cleanup, then refresh, then the
// digest reports, in that order so retired series never waste catalog calls.
const PipelineJobID = "watchlist-daily"

// StartJobs starts the background job scheduler.
func StartJobs(app JobContext) {
	s := gocron.NewScheduler(time.Local)
	s.SingletonModeAll()

	startDailyPipeline(s, app)

	log.Println("Starting background job scheduler...")
	s.StartAsync()
}

func startDailyPipeline(s *gocron.Scheduler, app JobContext) {
	at := app.Config().Digest.At
	if at == "" {
		log.Println("Digest time is unset, the scheduled daily pipeline is disabled.")
		return
	}

	log.Printf("Scheduling job: '%s' to run daily at %s.", PipelineJobID, at)

	_, err := s.Every(1).Day().At(at).Do(func() {
		log.Println("Scheduler is triggering job:", PipelineJobID)
		// Submit the job to the manager instead of running it directly.
		// This prevents conflicts with manually triggered jobs.
		err := app.JobManager().RunJob(PipelineJobID, app)
		if err != nil {
			log.Printf("Scheduled job '%s' could not start: %v", PipelineJobID, err)
		}
	})
	if err != nil {
		log.Printf("Error scheduling '%s' job: %v", PipelineJobID, err)
	}
}
