package core

// Printer is one service worker in the simulated print shop. Its
// identity (ID, capacity) is fixed at pool-init time; current_paper_count
// is owned jointly by the serving printer (decrements) and the refill
// worker (increments to capacity), and isIdle/lastJobCompletionUS are
// owned by the serving printer's I<->S transitions, all under the
// refill-queue lock (see RefillQueue.markServing/markIdle/isIdle), per
// spec.md §3 and §5.
type Printer struct {
	ID                int
	capacity          int
	currentPaperCount int

	totalPapersUsed     int
	jobsPrintedCount    int
	lastJobCompletionUS int64
	isIdle              bool

	onRefillQueue bool // true while this printer waits on the refill queue
	retired       bool // set by Pool.ScaleDown to force this slot to exit
}

// printerWorker drives one Printer through the I/S/W/X state machine of
// spec.md §4.4. Every printer in the pool runs one instance of this on
// its own goroutine.
type printerWorker struct {
	printer *Printer
	index   int // 0-based pool slot, used for Stats.Printers indexing

	queue       *TimedQueue
	refillQueue *RefillQueue
	params      *Parameters
	stats       *Stats
	emit        Emitter

	// done reports whether this worker should transition to Exiting:
	// terminate-now, or (all-jobs-arrived AND queue empty).
	done   func() bool
	stopCh <-chan struct{}
}

// run is the printer's main loop; it returns when the worker reaches
// state X (Exiting).
func (w *printerWorker) run() {
	for {
		if w.done() {
			return
		}

		w.queue.WaitNotEmptyOrDone(w.done)

		if w.done() {
			return
		}

		w.cycle()
	}
}

// cycle performs one pass of I→(S|W)→I: atomically peek-and-maybe-dequeue
// the queue head, then either serve it or park on the refill queue.
func (w *printerWorker) cycle() {
	job, dequeued, lengthBefore, lastInteractionUS := w.tryTakeHead()
	if job == nil {
		return
	}
	if dequeued {
		w.serve(job, lengthBefore, lastInteractionUS)
		return
	}
	w.waitForRefillThenRetry(job)
}

// tryTakeHead holds the queue lock for the full peek-and-decide critical
// section required to avoid two printers racing over the same head job:
// if the head has enough paper for this printer, it is removed and
// returned (dequeued=true); otherwise the head is returned un-removed so
// the caller can go park on the refill queue.
func (w *printerWorker) tryTakeHead() (job *Job, dequeued bool, lengthBefore int, lastInteractionUS int64) {
	w.queue.mu.Lock()
	defer w.queue.mu.Unlock()

	if w.queue.head == nil {
		return nil, false, 0, 0
	}
	head := w.queue.head

	if head.PapersRequired > w.refillQueue.currentPaper(w.printer) {
		return head, false, 0, 0
	}

	lengthBefore = w.queue.length
	w.queue.touch(lengthBefore)
	head.QueueDepartureTimeUS = nowUS()
	w.queue.removeLocked(head)
	return head, true, lengthBefore, w.queue.lastInteractionUS
}

// serve runs the S state: stamp timestamps, sleep for the service
// duration, consume paper, and transition back to I.
func (w *printerWorker) serve(job *Job, queueLengthBefore int, lastInteractionUS int64) {
	w.stats.SyncQueueIntegral(w.queue.AreaNumInQueueUS())
	rep := w.stats.Snapshot(w.index + 1)
	w.emit.QueueDeparture(*job, rep, queueLengthBefore-1, lastInteractionUS)

	job.ServiceTimeRequested = serviceTimeRequestedMS(job.PapersRequired, w.params.PrintingRate)
	job.ServiceArrivalTimeUS = nowUS()
	w.emit.PrinterArrival(*job, w.printer.ID)

	w.refillQueue.markServing(w.printer)
	w.emit.PrinterBusy(w.printer.ID, job.ID)

	sleepUS(w.stopCh, int64(job.ServiceTimeRequested*1000))

	w.refillQueue.consume(w.printer, job.PapersRequired)
	w.printer.totalPapersUsed += job.PapersRequired
	job.ServiceDepartureTimeUS = nowUS()
	w.refillQueue.markIdle(w.printer, job.ServiceDepartureTimeUS)
	w.emit.PrinterIdle(w.printer.ID)

	w.printer.jobsPrintedCount++
	w.stats.RecordDeparture(job, w.index)
	report := w.stats.Snapshot(w.index + 1)
	w.emit.SystemDeparture(*job, w.printer.ID, report)
}

// waitForRefillThenRetry implements I→W: park this printer on the refill
// queue until job's paper requirement is met or shutdown, then calls
// cycle again to retry whatever is now at the head (which, per spec.md's
// race-based selection, need not still be job itself). Each printer runs
// exactly one worker goroutine and blocks here until the refiller has
// popped and served its request, so it is on the refill queue at most
// once; onRefillQueue only records that state and is not consulted
// before request.
func (w *printerWorker) waitForRefillThenRetry(job *Job) {
	tRefillReqUS := nowUS()
	w.emit.PaperEmpty(w.printer.ID, job.ID, tRefillReqUS)
	w.emit.PrinterWaitingRefill(w.printer.ID, job.ID)

	w.refillQueue.mu.Lock()
	w.printer.onRefillQueue = true
	w.refillQueue.mu.Unlock()
	w.refillQueue.request(w.printer)

	terminated := w.refillQueue.waitForRefill(w.printer, job.PapersRequired, w.done)

	w.refillQueue.mu.Lock()
	w.printer.onRefillQueue = false
	w.refillQueue.mu.Unlock()

	if terminated {
		return
	}

	w.stats.RecordPaperEmpty(w.index, nowUS()-tRefillReqUS)
	w.cycle()
}
