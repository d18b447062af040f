package dashboard

import (
	"fmt"

	"github.com/printshop/printsim/internal/core"
)

// LogFeed is a core.Emitter backend that renders a curated subset of
// simulation events into short human-readable lines and pushes them
// onto a bounded channel for the dashboard's scrolling console. Events
// the dashboard isn't interested in narrating (queue arrivals, printer
// busy/idle toggles) are left as no-ops via the embedded NoopEmitter so
// the console doesn't drown in per-job chatter.
type LogFeed struct {
	core.NoopEmitter

	lines chan string
}

// NewLogFeed returns a LogFeed whose Lines channel buffers up to
// capacity pending lines; once full, further lines are dropped rather
// than blocking the simulation goroutine that emitted them.
func NewLogFeed(capacity int) *LogFeed {
	return &LogFeed{lines: make(chan string, capacity)}
}

// Lines is the channel the dashboard's Update loop drains.
func (f *LogFeed) Lines() <-chan string { return f.lines }

func (f *LogFeed) push(line string) {
	select {
	case f.lines <- line:
	default:
		// Console is behind; drop rather than stall the simulation.
	}
}

func (f *LogFeed) SimulationStart(r core.Report) {
	f.push(fmt.Sprintf("simulation %s started", Truncate(r.RunID, 8)))
}

func (f *LogFeed) SimulationEnd(r core.Report) {
	f.push(fmt.Sprintf("simulation %s completed: %d served, %d dropped", Truncate(r.RunID, 8), r.TotalJobsServed, r.TotalJobsDropped))
}

func (f *LogFeed) SimulationStopped(r core.Report) {
	f.push(fmt.Sprintf("simulation %s stopped early: %d served, %d dropped", Truncate(r.RunID, 8), r.TotalJobsServed, r.TotalJobsDropped))
}

func (f *LogFeed) DroppedJob(j core.Job, _ int64, _ core.Report) {
	f.push(fmt.Sprintf("job %d dropped: queue full", j.ID))
}

func (f *LogFeed) PaperEmpty(printerID, jobID int, _ int64) {
	f.push(fmt.Sprintf("printer %d out of paper (job %d waiting)", printerID, jobID))
}

func (f *LogFeed) PaperRefillStart(printerID, papersNeeded int, durationUS, _ int64) {
	f.push(fmt.Sprintf("printer %d refilling %d sheets (~%.1fs)", printerID, papersNeeded, float64(durationUS)/1e6))
}

func (f *LogFeed) PaperRefillEnd(printerID int, actualDurationUS, _ int64) {
	f.push(fmt.Sprintf("printer %d refill complete (%.1fs)", printerID, float64(actualDurationUS)/1e6))
}

func (f *LogFeed) ScaleUp(newPrinterCount, queueLength int, _ int64) {
	f.push(fmt.Sprintf("scaled up to %d printers (queue=%d)", newPrinterCount, queueLength))
}

func (f *LogFeed) ScaleDown(newPrinterCount, queueLength int, _ int64) {
	f.push(fmt.Sprintf("scaled down to %d printers (queue=%d)", newPrinterCount, queueLength))
}
