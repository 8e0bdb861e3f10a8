package utils

import (
	"log"

	"lms/config"
	"lms/database"
	"lms/services"

	"github.com/robfig/cron/v3"
)

// InitializeAggregateScheduler sets up the nightly course-aggregate sweep.
// The sweep is the transparent retry path for recalculations the worker
// dropped or failed: it recomputes every course's rating from scratch.
func InitializeAggregateScheduler() {
	log.Println("[AGGREGATE-SCHEDULER] Initializing aggregate scheduler...")

	c := cron.New()

	_, err := c.AddFunc(config.AppConfig.AggregateSweepCron, func() {
		log.Println("[AGGREGATE-SCHEDULER] Running course aggregate sweep...")
		recomputed, err := services.RecalculateAllCourseRatings(database.Database.Db)
		if err != nil {
			log.Printf("[AGGREGATE-SCHEDULER] Sweep aborted: %v", err)
			return
		}
		log.Printf("[AGGREGATE-SCHEDULER] Sweep finished, %d course(s) recomputed", recomputed)
	})
	if err != nil {
		log.Printf("[AGGREGATE-SCHEDULER] Invalid cron expression %q: %v", config.AppConfig.AggregateSweepCron, err)
		return
	}

	c.Start()
	log.Printf("[AGGREGATE-SCHEDULER] Aggregate scheduler started (%s)", config.AppConfig.AggregateSweepCron)
}
