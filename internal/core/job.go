package core

// Job is a single print request moving through the simulated shop. Its
// identity fields are set once by the producer; its lifecycle timestamps
// are filled in, one at a time, by whichever stage currently owns it —
// producer, then queue, then serving printer.
type Job struct {
	ID                   int
	PapersRequired       int
	InterArrivalTimeUS   int64
	ServiceTimeRequested float64 // milliseconds, set on dequeue

	SystemArrivalTimeUS   int64
	QueueArrivalTimeUS    int64
	QueueDepartureTimeUS  int64
	ServiceArrivalTimeUS  int64
	ServiceDepartureTimeUS int64

	// next and prev link this job into the queue's intrusive doubly
	// linked list; both nil when the job is not currently queued.
	next, prev *Job
}

// serviceTimeRequestedMS computes the papers/printingRate service
// duration in milliseconds, per spec.md §4.4.
func serviceTimeRequestedMS(papersRequired int, printingRate float64) float64 {
	return float64(papersRequired) / printingRate * 1000.0
}
