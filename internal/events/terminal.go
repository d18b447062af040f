// Package events collects the Emitter backends that turn simulation
// events into observable output: structured logs, Prometheus metrics,
// and (via internal/api) a websocket fan-out.
package events

import (
	"go.uber.org/zap"

	"github.com/printshop/printsim/internal/core"
)

// Terminal is a core.Emitter backend that writes structured log lines
// for the events an operator watching a terminal cares about. It
// deliberately does not implement every Emitter method: per-job
// queue_arrival/queue_departure events are too high-volume to log at
// info level, so Terminal embeds core.NoopEmitter and overrides only
// the events worth a line.
type Terminal struct {
	core.NoopEmitter
	log *zap.Logger
}

func NewTerminal(log *zap.Logger) *Terminal {
	return &Terminal{log: log}
}

func (t *Terminal) SimulationParameters(p core.Parameters) {
	t.log.Info("simulation configured",
		zap.Int("num_jobs", p.NumJobs),
		zap.Int("consumer_count", p.ConsumerCount),
		zap.Bool("auto_scaling", p.AutoScaling),
		zap.Int("queue_capacity", p.QueueCapacity),
	)
}

func (t *Terminal) SimulationStart(r core.Report) {
	t.log.Info("simulation started", zap.String("run_id", r.RunID))
}

func (t *Terminal) SimulationEnd(r core.Report) {
	t.log.Info("simulation finished",
		zap.String("run_id", r.RunID),
		zap.Int64("jobs_served", r.TotalJobsServed),
		zap.Int64("jobs_dropped", r.TotalJobsDropped),
		zap.Int64("duration_us", r.DurationUS),
	)
}

func (t *Terminal) SimulationStopped(r core.Report) {
	t.log.Warn("simulation stopped early",
		zap.String("run_id", r.RunID),
		zap.Int64("jobs_served", r.TotalJobsServed),
		zap.Int64("jobs_removed", r.TotalJobsRemoved),
	)
}

func (t *Terminal) DroppedJob(j core.Job, _ int64, r core.Report) {
	t.log.Warn("job dropped, queue full",
		zap.Int("job_id", j.ID),
		zap.Int64("total_dropped", r.TotalJobsDropped),
	)
}

func (t *Terminal) PaperEmpty(printerID, jobID int, _ int64) {
	t.log.Info("printer out of paper",
		zap.Int("printer_id", printerID),
		zap.Int("job_id", jobID),
	)
}

func (t *Terminal) PaperRefillStart(printerID, papersNeeded int, durationUS, _ int64) {
	t.log.Info("refill started",
		zap.Int("printer_id", printerID),
		zap.Int("papers_needed", papersNeeded),
		zap.Int64("expected_duration_us", durationUS),
	)
}

func (t *Terminal) PaperRefillEnd(printerID int, actualDurationUS, _ int64) {
	t.log.Info("refill finished",
		zap.Int("printer_id", printerID),
		zap.Int64("actual_duration_us", actualDurationUS),
	)
}

func (t *Terminal) ScaleUp(newPrinterCount, queueLength int, _ int64) {
	t.log.Info("scaling up", zap.Int("printer_count", newPrinterCount), zap.Int("queue_length", queueLength))
}

func (t *Terminal) ScaleDown(newPrinterCount, queueLength int, _ int64) {
	t.log.Info("scaling down", zap.Int("printer_count", newPrinterCount), zap.Int("queue_length", queueLength))
}

func (t *Terminal) Statistics(r core.Report) {
	t.log.Info("final statistics",
		zap.String("run_id", r.RunID),
		zap.Float64("avg_system_time_us", r.AvgSystemTimeUS),
		zap.Float64("avg_queue_wait_us", r.AvgQueueWaitUS),
		zap.Float64("avg_queue_length", r.AvgQueueLength),
		zap.Float64("drop_probability", r.DropProbability),
	)
}

// NewLogger builds the zap logger used across the server, matching the
// development/production split the rest of the corpus expects from a
// config layer: console encoding and debug level in dev, JSON and info
// level otherwise.
func NewLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
