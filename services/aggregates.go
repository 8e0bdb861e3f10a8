package services

import (
	"log"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// Recalculator recomputes derived course statistics after review mutations.
// It runs decoupled from the triggering write: the write commits first, then
// enqueues the course here. A failed recomputation is logged and swallowed,
// leaving the previous aggregate stale until the next trigger or the nightly
// sweep re-runs it.
type Recalculator struct {
	db    *gorm.DB
	queue chan uint
	done  chan struct{}
}

// Aggregates is the process-wide recalculator, wired up in main
var Aggregates *Recalculator

// InitAggregates starts the recalculation worker and installs it globally
func InitAggregates(db *gorm.DB) *Recalculator {
	Aggregates = NewRecalculator(db)
	Aggregates.Start()
	return Aggregates
}

// NewRecalculator builds a recalculator with a buffered queue
func NewRecalculator(db *gorm.DB) *Recalculator {
	return &Recalculator{
		db:    db,
		queue: make(chan uint, 256),
		done:  make(chan struct{}),
	}
}

// Start launches the worker goroutine
func (r *Recalculator) Start() {
	go func() {
		defer close(r.done)
		for courseID := range r.queue {
			if err := RecalculateCourseRating(r.db, courseID); err != nil {
				log.Printf("[AGGREGATES] Recalculation failed for course %d: %v", courseID, err)
			}
		}
	}()
}

// Stop drains the queue and waits for the worker to exit
func (r *Recalculator) Stop() {
	close(r.queue)
	<-r.done
}

// Enqueue schedules a course for recomputation. Never blocks the caller: if
// the queue is full the request is dropped and the nightly sweep catches up.
func (r *Recalculator) Enqueue(courseID uint) {
	select {
	case r.queue <- courseID:
	default:
		log.Printf("[AGGREGATES] Queue full, deferring course %d to the nightly sweep", courseID)
	}
}

// EnqueueCourseRecalc is a nil-safe convenience for controllers
func EnqueueCourseRecalc(courseID uint) {
	if Aggregates != nil {
		Aggregates.Enqueue(courseID)
	}
}

// RecalculateCourseRating recomputes the course's average rating and review
// count from scratch over approved reviews. Zero approved reviews resets both
// to 0. Recomputing from scratch makes duplicate runs harmless.
func RecalculateCourseRating(db *gorm.DB, courseID uint) error {
	type ratingAggregate struct {
		Average float64
		Total   int64
	}

	var agg ratingAggregate
	err := db.Model(&courseModels.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
		Where("course_id = ? AND is_approved = ? AND deleted_at IS NULL", courseID, true).
		Scan(&agg).Error
	if err != nil {
		return Dependency("Failed to aggregate reviews!", err)
	}

	err = db.Model(&courseModels.Course{}).Where("id = ?", courseID).
		UpdateColumns(map[string]interface{}{
			"average_rating": agg.Average,
			"total_reviews":  agg.Total,
		}).Error
	if err != nil {
		return Dependency("Failed to store course aggregates!", err)
	}
	return nil
}

// RecalculateAllCourseRatings re-sweeps every non-deleted course. Used by the
// cron job as the transparent retry for dropped or failed recalculations.
func RecalculateAllCourseRatings(db *gorm.DB) (int, error) {
	var courseIDs []uint
	err := db.Model(&courseModels.Course{}).
		Where("is_deleted = ?", false).
		Pluck("id", &courseIDs).Error
	if err != nil {
		return 0, Dependency("Failed to list courses!", err)
	}

	recomputed := 0
	for _, id := range courseIDs {
		if err := RecalculateCourseRating(db, id); err != nil {
			log.Printf("[AGGREGATES] Sweep failed for course %d: %v", id, err)
			continue
		}
		recomputed++
	}
	return recomputed, nil
}
