// Package runtime is the control surface that sits between a transport
// (HTTP, CLI, terminal dashboard) and a core.Simulation: it owns the
// single current run, accepts start/stop/status requests, and returns
// JSON-friendly Results the way internal/command's executor did for the
// teacher's print commands.
package runtime

import (
	"fmt"
	"sync"

	"github.com/printshop/printsim/internal/core"
)

// StartRequest is the JSON body a start request may carry: a partial
// override of the manager's base Parameters, per spec.md §6's
// partial-override semantics.
type StartRequest struct {
	NumJobs              int     `json:"num_jobs"`
	FixedArrival         bool    `json:"fixed_arrival"`
	JobArrivalTimeUS     int64   `json:"job_arrival_time_us"`
	MinArrivalTimeMS     int64   `json:"min_arrival_time_ms"`
	MaxArrivalTimeMS     int64   `json:"max_arrival_time_ms"`
	PapersRequiredLower  int     `json:"papers_required_lower"`
	PapersRequiredUpper  int     `json:"papers_required_upper"`
	QueueCapacity        int     `json:"queue_capacity"`
	PrintingRate         float64 `json:"printing_rate"`
	PrinterPaperCapacity int     `json:"printer_paper_capacity"`
	RefillRate           float64 `json:"refill_rate"`
	ConsumerCount        int     `json:"consumer_count"`
	AutoScaling          bool    `json:"auto_scaling"`
}

// ToParameters converts the wire request into the core.Parameters
// override Start applies on top of the manager's base configuration.
func (r StartRequest) ToParameters() core.Parameters {
	return core.Parameters{
		NumJobs:              r.NumJobs,
		FixedArrival:         r.FixedArrival,
		JobArrivalTimeUS:     r.JobArrivalTimeUS,
		MinArrivalTimeMS:     r.MinArrivalTimeMS,
		MaxArrivalTimeMS:     r.MaxArrivalTimeMS,
		PapersRequiredLower:  r.PapersRequiredLower,
		PapersRequiredUpper:  r.PapersRequiredUpper,
		QueueCapacity:        r.QueueCapacity,
		PrintingRate:         r.PrintingRate,
		PrinterPaperCapacity: r.PrinterPaperCapacity,
		RefillRate:           r.RefillRate,
		ConsumerCount:        r.ConsumerCount,
		AutoScaling:          r.AutoScaling,
	}
}

// Result is the outcome of a control-surface operation.
type Result struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

func ok(message string, data map[string]interface{}) *Result {
	return &Result{Success: true, Message: message, Data: data}
}

func fail(err error) *Result {
	return &Result{Success: false, Error: err.Error()}
}

// Manager serializes start/stop/status requests against a single
// current simulation run. A new Start replaces the previous run only
// once it has fully stopped; starting while one is already running or
// stopping is rejected rather than queued.
type Manager struct {
	mu      sync.Mutex
	base    core.Parameters
	emitter core.Emitter
	current *core.Simulation
}

func NewManager(base core.Parameters, emitter core.Emitter) *Manager {
	return &Manager{base: base, emitter: emitter}
}

// Start begins a new simulation run, applying override on top of the
// manager's base Parameters. It returns immediately; the run proceeds on
// its own goroutine.
func (m *Manager) Start(override core.Parameters) *Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		switch m.current.Status() {
		case core.StatusIdle, core.StatusRunning, core.StatusStopping:
			return fail(fmt.Errorf("a simulation is already in progress (run_id=%s, status=%s)", m.current.RunID, m.current.Status()))
		}
	}

	params := m.base
	params.Override(override)

	sim, err := core.NewSimulation(params, m.emitter)
	if err != nil {
		return fail(err)
	}

	m.current = sim
	go sim.Start()

	return ok("simulation started", map[string]interface{}{"run_id": sim.RunID})
}

// Stop requests the current simulation stop cooperatively. A no-op,
// reported as a failure, if no simulation is running.
func (m *Manager) Stop() *Result {
	m.mu.Lock()
	sim := m.current
	m.mu.Unlock()

	if sim == nil {
		return fail(fmt.Errorf("no simulation has been started"))
	}
	if sim.Status() == core.StatusStopped {
		return fail(fmt.Errorf("simulation %s has already stopped", sim.RunID))
	}
	sim.RequestStop()
	return ok("stop requested", map[string]interface{}{"run_id": sim.RunID})
}

// Status reports the current run's lifecycle state and queue length.
func (m *Manager) Status() *Result {
	m.mu.Lock()
	sim := m.current
	m.mu.Unlock()

	if sim == nil {
		return ok("idle", map[string]interface{}{"status": core.StatusIdle})
	}
	return ok(string(sim.Status()), map[string]interface{}{
		"status":       sim.Status(),
		"run_id":       sim.RunID,
		"queue_length": sim.QueueLength(),
	})
}

// Statistics returns the current run's derived metrics, or a failure if
// no run has ever started.
func (m *Manager) Statistics() *Result {
	m.mu.Lock()
	sim := m.current
	m.mu.Unlock()

	if sim == nil {
		return fail(fmt.Errorf("no simulation has been started"))
	}
	return ok("statistics", map[string]interface{}{"report": sim.Statistics()})
}

// Printers returns the current run's printer pool snapshot.
func (m *Manager) Printers() *Result {
	m.mu.Lock()
	sim := m.current
	m.mu.Unlock()

	if sim == nil {
		return ok("idle", map[string]interface{}{"printers": []core.PrinterSnapshot{}})
	}
	return ok("printers", map[string]interface{}{"printers": sim.Printers()})
}
