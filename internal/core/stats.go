package core

import (
	"math"
	"sync"
	"time"
)

// MaxPrinters bounds the printer pool and the per-printer stat arrays.
// It mirrors CONFIG_RANGE_CONSUMER_COUNT_MAX in the source.
const MaxPrinters = 5

// PrinterStats holds the per-printer counters of spec.md §4.9.
type PrinterStats struct {
	JobsServed           int64
	PaperUsed            int64
	TotalServiceTimeUS   int64
	PaperEmptyTimeUS     int64
}

// Stats is the simulation's statistics accumulator. All writes are
// serialized by mu (the "stats" lock of spec.md §5); Snapshot takes the
// lock once and returns a value copy so a caller (the emitter, an HTTP
// handler) never observes a torn read.
type Stats struct {
	mu sync.Mutex

	RunID              string
	SimulationStartUS  int64
	simulationEndUS    int64

	TotalJobsArrived int64
	TotalJobsServed  int64
	TotalJobsDropped int64
	TotalJobsRemoved int64

	TotalInterArrivalTimeUS int64

	TotalSystemTimeUS        int64
	SumSystemTimeSquaredUS2  float64
	TotalQueueWaitTimeUS     int64
	AreaNumInQueueUS         int64
	MaxJobQueueLength        int

	Printers       [MaxPrinters]PrinterStats
	MaxPrintersUsed int

	PaperRefillEvents        int64
	TotalRefillServiceTimeUS int64
	PapersRefilled           int64
}

func NewStats(runID string) *Stats {
	return &Stats{RunID: runID, SimulationStartUS: nowUS()}
}

// RecordArrival updates arrival counters under the stats lock; prevArrivalUS
// is 0 for the very first job.
func (s *Stats) RecordArrival(systemArrivalUS, prevArrivalUS int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TotalJobsArrived++
	if prevArrivalUS != 0 {
		s.TotalInterArrivalTimeUS += systemArrivalUS - prevArrivalUS
	}
}

// RecordDrop increments the dropped-job counter.
func (s *Stats) RecordDrop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TotalJobsDropped++
}

// RecordRemoved increments the removed-on-shutdown counter.
func (s *Stats) RecordRemoved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TotalJobsRemoved++
}

// ObserveQueueLength folds a new peak queue length into MaxJobQueueLength.
func (s *Stats) ObserveQueueLength(length int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if length > s.MaxJobQueueLength {
		s.MaxJobQueueLength = length
	}
}

// SyncQueueIntegral pulls the queue's own running integral into the
// accumulator. The integral is owned by TimedQueue (advanced under its
// own lock, per spec.md §9's note that correctness depends on the
// timestamp update happening under the lock that serialized the
// mutation); Stats only mirrors the latest value for reporting.
func (s *Stats) SyncQueueIntegral(areaUS int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if areaUS > s.AreaNumInQueueUS {
		s.AreaNumInQueueUS = areaUS
	}
}

// RecordDeparture folds a served job's timings into the system-time,
// wait-time, and per-printer accumulators.
func (s *Stats) RecordDeparture(job *Job, printerIndex int) {
	systemTimeUS := job.ServiceDepartureTimeUS - job.SystemArrivalTimeUS
	waitTimeUS := job.QueueDepartureTimeUS - job.QueueArrivalTimeUS
	serviceTimeUS := job.ServiceDepartureTimeUS - job.ServiceArrivalTimeUS

	s.mu.Lock()
	defer s.mu.Unlock()

	s.TotalJobsServed++
	s.TotalSystemTimeUS += systemTimeUS
	s.SumSystemTimeSquaredUS2 += float64(systemTimeUS) * float64(systemTimeUS)
	s.TotalQueueWaitTimeUS += waitTimeUS

	p := &s.Printers[printerIndex]
	p.JobsServed++
	p.PaperUsed += int64(job.PapersRequired)
	p.TotalServiceTimeUS += serviceTimeUS

	if printerIndex+1 > s.MaxPrintersUsed {
		s.MaxPrintersUsed = printerIndex + 1
	}
}

// RecordPaperEmpty adds the time a printer spent waiting on a refill.
func (s *Stats) RecordPaperEmpty(printerIndex int, waitedUS int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Printers[printerIndex].PaperEmptyTimeUS += waitedUS
}

// RecordRefill folds a completed refill into the refill counters.
func (s *Stats) RecordRefill(papers int, durationUS int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PaperRefillEvents++
	s.PapersRefilled += int64(papers)
	s.TotalRefillServiceTimeUS += durationUS
}

// Finish stamps the simulation end time. Idempotent beyond the first call.
func (s *Stats) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.simulationEndUS == 0 {
		s.simulationEndUS = nowUS()
	}
}

// Report is the read-time derived-metrics view of spec.md §4.9/§6.
type Report struct {
	RunID              string    `json:"run_id"`
	SimulationStart    time.Time `json:"simulation_start"`
	DurationUS         int64     `json:"duration_us"`

	TotalJobsArrived int64 `json:"total_jobs_arrived"`
	TotalJobsServed  int64 `json:"total_jobs_served"`
	TotalJobsDropped int64 `json:"total_jobs_dropped"`
	TotalJobsRemoved int64 `json:"total_jobs_removed"`

	AvgInterArrivalUS float64 `json:"avg_inter_arrival_us"`
	AvgSystemTimeUS   float64 `json:"avg_system_time_us"`
	SystemTimeStdDevUS float64 `json:"system_time_stddev_us"`
	AvgQueueWaitUS    float64 `json:"avg_queue_wait_us"`
	AvgQueueLength    float64 `json:"avg_queue_length"`
	MaxQueueLength    int     `json:"max_queue_length"`
	ArrivalRatePerSec float64 `json:"arrival_rate_per_sec"`
	DropProbability   float64 `json:"drop_probability"`

	MaxPrintersUsed int              `json:"max_printers_used"`
	Printers        []PrinterReport  `json:"printers"`

	PaperRefillEvents        int64 `json:"paper_refill_events"`
	TotalRefillServiceTimeUS int64 `json:"total_refill_service_time_us"`
	PapersRefilled           int64 `json:"papers_refilled"`
}

// PrinterReport is one entry of Report.Printers, per spec.md §6.
type PrinterReport struct {
	ID                int     `json:"id"`
	JobsServed        int64   `json:"jobs_served"`
	PaperUsed         int64   `json:"paper_used"`
	AvgServiceTimeSec float64 `json:"avg_service_time_sec"`
	Utilization       float64 `json:"utilization"`
}

// Snapshot computes the derived metrics of spec.md §4.9 from the current
// accumulator state. The duration is (now - start) until Finish has been
// called and the frozen (end - start) afterwards, so a report pulled after
// Finish is stable. activePrinters sets the minimum length of
// Report.Printers (raised to MaxPrintersUsed, capped at MaxPrinters).
func (s *Stats) Snapshot(activePrinters int) Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	endUS := s.simulationEndUS
	if endUS == 0 {
		endUS = nowUS()
	}
	durationUS := endUS - s.SimulationStartUS
	durationSec := float64(durationUS) / 1e6
	if durationSec <= 0 {
		durationSec = 1e-6
	}

	r := Report{
		RunID:            s.RunID,
		SimulationStart:  time.UnixMicro(s.SimulationStartUS),
		DurationUS:       durationUS,
		TotalJobsArrived: s.TotalJobsArrived,
		TotalJobsServed:  s.TotalJobsServed,
		TotalJobsDropped: s.TotalJobsDropped,
		TotalJobsRemoved: s.TotalJobsRemoved,
		MaxQueueLength:   s.MaxJobQueueLength,
		MaxPrintersUsed:  s.MaxPrintersUsed,

		PaperRefillEvents:        s.PaperRefillEvents,
		TotalRefillServiceTimeUS: s.TotalRefillServiceTimeUS,
		PapersRefilled:           s.PapersRefilled,
	}

	interArrivalDenom := float64(maxInt64(s.TotalJobsArrived-1, 1))
	r.AvgInterArrivalUS = float64(s.TotalInterArrivalTimeUS) / interArrivalDenom

	if s.TotalJobsServed > 0 {
		r.AvgSystemTimeUS = float64(s.TotalSystemTimeUS) / float64(s.TotalJobsServed)
		r.AvgQueueWaitUS = float64(s.TotalQueueWaitTimeUS) / float64(s.TotalJobsServed)

		meanSq := s.SumSystemTimeSquaredUS2 / float64(s.TotalJobsServed)
		mean := r.AvgSystemTimeUS
		variance := meanSq - mean*mean
		if variance < 0 {
			variance = 0
		}
		r.SystemTimeStdDevUS = math.Sqrt(variance)
	}

	r.AvgQueueLength = float64(s.AreaNumInQueueUS) / float64(durationUS)

	r.ArrivalRatePerSec = float64(s.TotalJobsArrived) / durationSec
	if s.TotalJobsArrived > 0 {
		r.DropProbability = float64(s.TotalJobsDropped) / float64(s.TotalJobsArrived)
	}

	used := activePrinters
	if s.MaxPrintersUsed > used {
		used = s.MaxPrintersUsed
	}
	if used > MaxPrinters {
		used = MaxPrinters
	}
	r.Printers = make([]PrinterReport, used)
	for i := 0; i < used; i++ {
		p := s.Printers[i]
		pr := PrinterReport{
			ID:          i + 1,
			JobsServed:  p.JobsServed,
			PaperUsed:   p.PaperUsed,
			Utilization: float64(p.TotalServiceTimeUS) / (durationSec * 1e6),
		}
		if p.JobsServed > 0 {
			pr.AvgServiceTimeSec = float64(p.TotalServiceTimeUS) / float64(p.JobsServed) / 1e6
		}
		r.Printers[i] = pr
	}

	return r
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
