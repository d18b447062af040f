package core

// Emitter is the polymorphic event sink spec.md §2.10/§6 describes: a
// capability set of typed event methods. Every backend satisfies the
// whole interface; one that cares about only a subset embeds NoopEmitter
// below and overrides just those methods. internal/events.Fanout calls
// every method on every registered backend.
type Emitter interface {
	SimulationParameters(p Parameters)
	SimulationStart(r Report)
	SimulationEnd(r Report)
	SimulationStopped(r Report)
	SystemArrival(j Job, prevArrivalUS int64, r Report)
	DroppedJob(j Job, prevArrivalUS int64, r Report)
	RemovedJob(j Job)
	QueueArrival(j Job, r Report, queueLength int, lastInteractionUS int64)
	QueueDeparture(j Job, r Report, queueLength int, lastInteractionUS int64)
	PrinterArrival(j Job, printerID int)
	SystemDeparture(j Job, printerID int, r Report)
	PaperEmpty(printerID int, jobID int, nowUS int64)
	PaperRefillStart(printerID int, papersNeeded int, durationUS int64, nowUS int64)
	PaperRefillEnd(printerID int, actualDurationUS int64, nowUS int64)
	ScaleUp(newPrinterCount int, queueLength int, nowUS int64)
	ScaleDown(newPrinterCount int, queueLength int, nowUS int64)
	PrinterIdle(printerID int)
	PrinterBusy(printerID int, jobID int)
	PrinterWaitingRefill(printerID int, jobID int)
	StatsUpdate(r Report, queueLength int)
	Statistics(r Report)
}

// NoopEmitter implements Emitter with methods that do nothing. Backends
// embed it so they only need to override the events they care about —
// the "optional methods, tolerate missing" rule of spec.md §6.
type NoopEmitter struct{}

func (NoopEmitter) SimulationParameters(Parameters)                             {}
func (NoopEmitter) SimulationStart(Report)                                      {}
func (NoopEmitter) SimulationEnd(Report)                                        {}
func (NoopEmitter) SimulationStopped(Report)                                    {}
func (NoopEmitter) SystemArrival(Job, int64, Report)                            {}
func (NoopEmitter) DroppedJob(Job, int64, Report)                               {}
func (NoopEmitter) RemovedJob(Job)                                              {}
func (NoopEmitter) QueueArrival(Job, Report, int, int64)                        {}
func (NoopEmitter) QueueDeparture(Job, Report, int, int64)                      {}
func (NoopEmitter) PrinterArrival(Job, int)                                     {}
func (NoopEmitter) SystemDeparture(Job, int, Report)                            {}
func (NoopEmitter) PaperEmpty(int, int, int64)                                  {}
func (NoopEmitter) PaperRefillStart(int, int, int64, int64)                     {}
func (NoopEmitter) PaperRefillEnd(int, int64, int64)                            {}
func (NoopEmitter) ScaleUp(int, int, int64)                                     {}
func (NoopEmitter) ScaleDown(int, int, int64)                                   {}
func (NoopEmitter) PrinterIdle(int)                                            {}
func (NoopEmitter) PrinterBusy(int, int)                                        {}
func (NoopEmitter) PrinterWaitingRefill(int, int)                               {}
func (NoopEmitter) StatsUpdate(Report, int)                                     {}
func (NoopEmitter) Statistics(Report)                                          {}
