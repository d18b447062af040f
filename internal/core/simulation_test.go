package core

import (
	"sync"
	"testing"
	"time"
)

// recordingEmitter counts a subset of events for assertions, without
// needing a full mock of every Emitter method.
type recordingEmitter struct {
	NoopEmitter
	mu           sync.Mutex
	arrivals     int
	drops        int
	departures   int
	started      bool
	ended        bool
	stopped      bool
	statsReports int
}

func (e *recordingEmitter) SystemArrival(Job, int64, Report) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.arrivals++
}

func (e *recordingEmitter) DroppedJob(Job, int64, Report) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drops++
}

func (e *recordingEmitter) SystemDeparture(Job, int, Report) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.departures++
}

func (e *recordingEmitter) SimulationStart(Report) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.started = true
}

func (e *recordingEmitter) SimulationEnd(Report) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ended = true
}

func (e *recordingEmitter) SimulationStopped(Report) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopped = true
}

func (e *recordingEmitter) Statistics(Report) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.statsReports++
}

func fastTestParams() Parameters {
	return Parameters{
		NumJobs:              10,
		FixedArrival:         true,
		JobArrivalTimeUS:      1_000,
		PapersRequiredLower:  1,
		PapersRequiredUpper:  3,
		QueueCapacity:        -1,
		PrintingRate:         1_000_000,
		PrinterPaperCapacity: 1_000,
		RefillRate:           1_000_000,
		ConsumerCount:        2,
		AutoScaling:          false,
	}
}

// Scenario: every job arrives, is served, and the simulation ends
// normally (no drops, no removed jobs, every printer idle at the end).
func TestSimulationRunsAllJobsToCompletion(t *testing.T) {
	emitter := &recordingEmitter{}
	sim, err := NewSimulation(fastTestParams(), emitter)
	if err != nil {
		t.Fatalf("NewSimulation failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		sim.Start()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("simulation did not complete in time")
	}

	rep := sim.Statistics()
	if rep.TotalJobsArrived != 10 {
		t.Fatalf("expected 10 arrivals, got %d", rep.TotalJobsArrived)
	}
	if rep.TotalJobsServed != 10 {
		t.Fatalf("expected 10 jobs served, got %d", rep.TotalJobsServed)
	}
	if rep.TotalJobsDropped != 0 {
		t.Fatalf("expected 0 drops, got %d", rep.TotalJobsDropped)
	}
	if !emitter.ended {
		t.Fatal("expected SimulationEnd to be emitted")
	}
	if emitter.stopped {
		t.Fatal("did not expect SimulationStopped on normal completion")
	}
	if sim.Status() != StatusStopped {
		t.Fatalf("expected final status stopped, got %v", sim.Status())
	}
}

// Scenario: a bounded queue drops jobs once full.
func TestSimulationDropsJobsWhenQueueFull(t *testing.T) {
	params := fastTestParams()
	params.NumJobs = 20
	params.QueueCapacity = 1
	params.ConsumerCount = 1
	params.PrintingRate = 1 // very slow service, so the queue backs up

	emitter := &recordingEmitter{}
	sim, err := NewSimulation(params, emitter)
	if err != nil {
		t.Fatalf("NewSimulation failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		sim.Start()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("simulation did not complete in time")
	}

	rep := sim.Statistics()
	if rep.TotalJobsDropped == 0 {
		t.Fatal("expected at least one dropped job with a saturated bounded queue")
	}
	if rep.TotalJobsArrived != rep.TotalJobsServed+rep.TotalJobsDropped {
		t.Fatalf("arrived (%d) should equal served (%d) + dropped (%d)",
			rep.TotalJobsArrived, rep.TotalJobsServed, rep.TotalJobsDropped)
	}
}

// Scenario: RequestStop mid-run cooperatively drains the queue instead of
// serving every remaining job, and emits simulation_stopped rather than
// simulation_end.
func TestSimulationRequestStopDrainsRemainingJobs(t *testing.T) {
	params := fastTestParams()
	params.NumJobs = 1000
	params.JobArrivalTimeUS = 500
	params.ConsumerCount = 1
	params.PrintingRate = 1 // extremely slow, guarantees a backlog exists

	emitter := &recordingEmitter{}
	sim, err := NewSimulation(params, emitter)
	if err != nil {
		t.Fatalf("NewSimulation failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		sim.Start()
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	sim.RequestStop()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("simulation did not stop in time")
	}

	rep := sim.Statistics()
	if rep.TotalJobsArrived < rep.TotalJobsServed {
		t.Fatalf("served (%d) should not exceed arrived (%d)", rep.TotalJobsServed, rep.TotalJobsArrived)
	}
	if !emitter.stopped {
		t.Fatal("expected SimulationStopped to be emitted on RequestStop")
	}
	if emitter.ended {
		t.Fatal("did not expect SimulationEnd when stopped early")
	}
}

// Scenario: RequestStop is safe to call multiple times and concurrently.
func TestSimulationRequestStopIsIdempotent(t *testing.T) {
	sim, err := NewSimulation(fastTestParams(), &recordingEmitter{})
	if err != nil {
		t.Fatalf("NewSimulation failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sim.RequestStop()
		}()
	}
	wg.Wait()
}

// Scenario: a printer low on paper blocks for a refill and still
// completes its job rather than deadlocking.
func TestSimulationHandlesPaperRefillsUnderLoad(t *testing.T) {
	params := fastTestParams()
	params.NumJobs = 5
	params.PrinterPaperCapacity = 4
	params.PapersRequiredLower = 3
	params.PapersRequiredUpper = 3
	params.RefillRate = 1_000_000
	params.ConsumerCount = 1

	emitter := &recordingEmitter{}
	sim, err := NewSimulation(params, emitter)
	if err != nil {
		t.Fatalf("NewSimulation failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		sim.Start()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("simulation with forced refills did not complete in time")
	}

	rep := sim.Statistics()
	if rep.TotalJobsServed != 5 {
		t.Fatalf("expected all 5 jobs eventually served via refills, got %d", rep.TotalJobsServed)
	}
	if rep.PaperRefillEvents == 0 {
		t.Fatal("expected at least one refill event")
	}
}

// Scenario: invalid parameters are rejected before any goroutine starts.
func TestSimulationRejectsInvalidParameters(t *testing.T) {
	params := fastTestParams()
	params.PrintingRate = 0

	_, err := NewSimulation(params, &recordingEmitter{})
	if err == nil {
		t.Fatal("expected a ConfigError for zero printing rate")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
}
