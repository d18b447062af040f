package events

import "github.com/printshop/printsim/internal/core"

// Fanout broadcasts every core.Emitter call to a set of registered
// backends, so the terminal logger, the Prometheus exporter, and the
// websocket broadcaster can all observe the same simulation run without
// any of them knowing the others exist. Backends are invoked in
// registration order, synchronously on the caller's goroutine — matching
// the source's vtable-dispatch log router, which never queues.
type Fanout struct {
	backends []core.Emitter
}

func NewFanout(backends ...core.Emitter) *Fanout {
	return &Fanout{backends: backends}
}

// Add registers another backend. Not safe to call concurrently with a
// running simulation; backends are meant to be wired up before Start.
func (f *Fanout) Add(b core.Emitter) {
	f.backends = append(f.backends, b)
}

func (f *Fanout) SimulationParameters(p core.Parameters) {
	for _, b := range f.backends {
		b.SimulationParameters(p)
	}
}

func (f *Fanout) SimulationStart(r core.Report) {
	for _, b := range f.backends {
		b.SimulationStart(r)
	}
}

func (f *Fanout) SimulationEnd(r core.Report) {
	for _, b := range f.backends {
		b.SimulationEnd(r)
	}
}

func (f *Fanout) SimulationStopped(r core.Report) {
	for _, b := range f.backends {
		b.SimulationStopped(r)
	}
}

func (f *Fanout) SystemArrival(j core.Job, prevArrivalUS int64, r core.Report) {
	for _, b := range f.backends {
		b.SystemArrival(j, prevArrivalUS, r)
	}
}

func (f *Fanout) DroppedJob(j core.Job, prevArrivalUS int64, r core.Report) {
	for _, b := range f.backends {
		b.DroppedJob(j, prevArrivalUS, r)
	}
}

func (f *Fanout) RemovedJob(j core.Job) {
	for _, b := range f.backends {
		b.RemovedJob(j)
	}
}

func (f *Fanout) QueueArrival(j core.Job, r core.Report, queueLength int, lastInteractionUS int64) {
	for _, b := range f.backends {
		b.QueueArrival(j, r, queueLength, lastInteractionUS)
	}
}

func (f *Fanout) QueueDeparture(j core.Job, r core.Report, queueLength int, lastInteractionUS int64) {
	for _, b := range f.backends {
		b.QueueDeparture(j, r, queueLength, lastInteractionUS)
	}
}

func (f *Fanout) PrinterArrival(j core.Job, printerID int) {
	for _, b := range f.backends {
		b.PrinterArrival(j, printerID)
	}
}

func (f *Fanout) SystemDeparture(j core.Job, printerID int, r core.Report) {
	for _, b := range f.backends {
		b.SystemDeparture(j, printerID, r)
	}
}

func (f *Fanout) PaperEmpty(printerID, jobID int, nowUS int64) {
	for _, b := range f.backends {
		b.PaperEmpty(printerID, jobID, nowUS)
	}
}

func (f *Fanout) PaperRefillStart(printerID, papersNeeded int, durationUS, nowUS int64) {
	for _, b := range f.backends {
		b.PaperRefillStart(printerID, papersNeeded, durationUS, nowUS)
	}
}

func (f *Fanout) PaperRefillEnd(printerID int, actualDurationUS, nowUS int64) {
	for _, b := range f.backends {
		b.PaperRefillEnd(printerID, actualDurationUS, nowUS)
	}
}

func (f *Fanout) ScaleUp(newPrinterCount, queueLength int, nowUS int64) {
	for _, b := range f.backends {
		b.ScaleUp(newPrinterCount, queueLength, nowUS)
	}
}

func (f *Fanout) ScaleDown(newPrinterCount, queueLength int, nowUS int64) {
	for _, b := range f.backends {
		b.ScaleDown(newPrinterCount, queueLength, nowUS)
	}
}

func (f *Fanout) PrinterIdle(printerID int) {
	for _, b := range f.backends {
		b.PrinterIdle(printerID)
	}
}

func (f *Fanout) PrinterBusy(printerID, jobID int) {
	for _, b := range f.backends {
		b.PrinterBusy(printerID, jobID)
	}
}

func (f *Fanout) PrinterWaitingRefill(printerID, jobID int) {
	for _, b := range f.backends {
		b.PrinterWaitingRefill(printerID, jobID)
	}
}

func (f *Fanout) StatsUpdate(r core.Report, queueLength int) {
	for _, b := range f.backends {
		b.StatsUpdate(r, queueLength)
	}
}

func (f *Fanout) Statistics(r core.Report) {
	for _, b := range f.backends {
		b.Statistics(r)
	}
}
