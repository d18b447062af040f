package core

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Status is the coarse-grained lifecycle state a Simulation reports to
// the runtime control surface.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusStopping Status = "stopping"
	StatusStopped  Status = "stopped"
)

// Simulation is the top-level orchestrator of spec.md §4.1/§4.8: it owns
// the shared queue, refill queue, printer pool, producer, refiller, and
// autoscaler, and drives them through start, normal completion, and
// cooperative shutdown.
type Simulation struct {
	RunID  string
	Params Parameters

	queue       *TimedQueue
	refillQueue *RefillQueue
	stats       *Stats
	emit        Emitter
	pool        *Pool
	producer    *Producer
	refiller    *RefillWorker
	autoscaler  *Autoscaler

	terminateNow atomic.Bool

	stopCh   chan struct{}
	stopOnce sync.Once

	statusMu sync.Mutex
	status   Status

	wg sync.WaitGroup
}

// NewSimulation validates params and constructs a Simulation ready to
// Start. It does not start any goroutines.
func NewSimulation(params Parameters, emit Emitter) (*Simulation, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if emit == nil {
		emit = NoopEmitter{}
	}

	s := &Simulation{
		RunID:       uuid.NewString(),
		Params:      params,
		queue:       NewTimedQueue(),
		refillQueue: NewRefillQueue(),
		emit:        emit,
		stopCh:      make(chan struct{}),
		status:      StatusIdle,
	}
	s.stats = NewStats(s.RunID)
	return s, nil
}

// done is the shared termination predicate every worker consults:
// terminate-now (RequestStop called) or the producer has finished AND
// the shared queue is drained.
func (s *Simulation) done() bool {
	if s.terminateNow.Load() {
		return true
	}
	return s.producer != nil && s.producer.AllJobsArrived() && s.queue.IsEmpty()
}

// Start launches the producer, printer pool, refill worker, and
// autoscaler, and blocks until the simulation reaches a terminal state
// (all jobs served, or RequestStop observed and the drain completes).
// Per spec.md §4.1 it emits simulation_parameters and simulation_start
// before any worker runs, and simulation_end/simulation_stopped plus a
// final statistics event before returning.
func (s *Simulation) Start() {
	s.setStatus(StatusRunning)

	s.emit.SimulationParameters(s.Params)
	startReport := s.stats.Snapshot(s.Params.ConsumerCount)
	s.emit.SimulationStart(startReport)

	s.producer = NewProducer(&s.Params, s.queue, s.stats, s.emit, s.stopCh)
	s.pool = NewPool(s.Params.ConsumerCount, s.queue, s.refillQueue, &s.Params, s.stats, s.emit, s.done, s.stopCh)
	s.refiller = NewRefillWorker(s.refillQueue, &s.Params, s.stats, s.emit, s.done, s.stopCh)
	s.autoscaler = NewAutoscaler(s.pool, s.queue, &s.Params, s.done, s.stopCh)

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.producer.Run()
		// Normal completion: wake every blocked worker so it re-checks
		// done() now that all-jobs-arrived holds.
		s.queue.BroadcastNotEmpty()
		s.refillQueue.broadcastAll()
	}()
	go func() {
		defer s.wg.Done()
		s.refiller.Run()
	}()
	go s.autoscaler.Run()

	s.wg.Wait() // producer + refiller done
	s.drainShutdown()

	s.pool.JoinAll()

	wasStopped := s.terminateNow.Load()
	s.stats.Finish()
	s.stats.SyncQueueIntegral(s.queue.AreaNumInQueueUS())
	final := s.stats.Snapshot(s.pool.ActiveCount())
	if wasStopped {
		s.emit.SimulationStopped(final)
		s.setStatus(StatusStopped)
	} else {
		s.emit.SimulationEnd(final)
		s.setStatus(StatusStopped)
	}
	s.emit.Statistics(final)
}

// drainShutdown implements spec.md §4.8's removal pass: once the
// producer and refiller have exited (either because all jobs arrived and
// the queue emptied naturally, or because RequestStop fired), any jobs
// still sitting in the queue are removed and counted rather than served,
// and every blocked printer is woken so it observes done() and exits.
func (s *Simulation) drainShutdown() {
	s.queue.BroadcastNotEmpty()
	s.refillQueue.broadcastAll()

	for _, job := range s.queue.Clear() {
		s.stats.RecordRemoved()
		s.emit.RemovedJob(*job)
	}
}

// RequestStop asks the simulation to stop as soon as possible: the
// producer stops generating new jobs, every printer finishes (or
// abandons, via the drain above) its current job and exits, and the
// refiller exits. Idempotent; safe to call multiple times or
// concurrently with Start.
func (s *Simulation) RequestStop() {
	s.stopOnce.Do(func() {
		s.terminateNow.Store(true)
		s.setStatus(StatusStopping)
		close(s.stopCh)
		s.queue.BroadcastNotEmpty()
		s.refillQueue.broadcastAll()
	})
}

func (s *Simulation) setStatus(st Status) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status = st
}

// Status returns the simulation's current coarse lifecycle state.
func (s *Simulation) Status() Status {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return s.status
}

// Statistics returns a live snapshot of the derived metrics, valid to
// call at any point during or after Start.
func (s *Simulation) Statistics() Report {
	active := s.Params.ConsumerCount
	if s.pool != nil {
		active = s.pool.ActiveCount()
	}
	return s.stats.Snapshot(active)
}

// QueueLength returns the current number of queued, not-yet-serving
// jobs.
func (s *Simulation) QueueLength() int {
	return s.queue.Length()
}

// Printers returns a point-in-time view of each started printer slot.
func (s *Simulation) Printers() []PrinterSnapshot {
	if s.pool == nil {
		return nil
	}
	return s.pool.Snapshot()
}
