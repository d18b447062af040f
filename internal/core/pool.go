package core

import "sync"

// Pool owns the fixed-size array of printer slots and the goroutines
// running their workers. Slots [0, activeCount) are the live prefix;
// spec.md §4.6 requires the active printers always form a contiguous
// prefix of the array, so scale-up only ever appends at activeCount and
// scale-down only ever retires the slot at activeCount-1.
type Pool struct {
	mu sync.Mutex

	printers [MaxPrinters]*Printer
	workers  [MaxPrinters]*printerWorker
	wg       [MaxPrinters]*sync.WaitGroup

	activeCount int
	minCount    int

	lastScaleTimeUS    int64
	lowQueueStartTimeUS int64 // 0 means "not currently below threshold"

	queue       *TimedQueue
	refillQueue *RefillQueue
	params      *Parameters
	stats       *Stats
	emit        Emitter
	done        func() bool
	stopCh      <-chan struct{}
}

// NewPool allocates MaxPrinters printer slots (unstarted) and starts
// minCount of them running, per spec.md §4.2's init-time pool setup.
func NewPool(minCount int, queue *TimedQueue, refillQueue *RefillQueue, params *Parameters, stats *Stats, emit Emitter, done func() bool, stopCh <-chan struct{}) *Pool {
	p := &Pool{
		minCount:    minCount,
		queue:       queue,
		refillQueue: refillQueue,
		params:      params,
		stats:       stats,
		emit:        emit,
		done:        done,
		stopCh:      stopCh,
	}
	for i := 0; i < MaxPrinters; i++ {
		p.printers[i] = &Printer{
			ID:                i + 1,
			capacity:          params.PrinterPaperCapacity,
			currentPaperCount: params.PrinterPaperCapacity,
			isIdle:            true,
		}
	}
	for i := 0; i < minCount; i++ {
		p.startLocked(i)
	}
	p.activeCount = minCount
	return p
}

// startLocked spawns the worker goroutine for slot i. Caller holds mu.
// The worker's done predicate is wrapped so a scale-down retirement of
// this specific slot also satisfies it, independent of the simulation's
// global shutdown state.
func (p *Pool) startLocked(i int) {
	slotDone := func() bool {
		return p.done() || p.IsSlotRetired(i)
	}
	w := &printerWorker{
		printer:     p.printers[i],
		index:       i,
		queue:       p.queue,
		refillQueue: p.refillQueue,
		params:      p.params,
		stats:       p.stats,
		emit:        p.emit,
		done:        slotDone,
		stopCh:      p.stopCh,
	}
	p.workers[i] = w

	var wg sync.WaitGroup
	wg.Add(1)
	p.wg[i] = &wg
	go func() {
		defer wg.Done()
		w.run()
	}()
}

// ActiveCount returns the number of printer slots currently running.
func (p *Pool) ActiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.activeCount
}

// minCountSnapshot returns the pool's configured floor for scale-down.
func (p *Pool) minCountSnapshot() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.minCount
}

// ScaleUp starts the next inactive slot, if any remain below MaxPrinters,
// and emits ScaleUp. It is a no-op if the pool is already at capacity.
// A slot retired by an earlier ScaleDown is restarted only after its
// previous worker goroutine has returned.
func (p *Pool) ScaleUp(queueLength int, nowUS int64) bool {
	p.mu.Lock()
	if p.activeCount >= MaxPrinters {
		p.mu.Unlock()
		return false
	}
	i := p.activeCount
	if p.printers[i].retired {
		prev := p.wg[i]
		p.mu.Unlock()
		prev.Wait()
		p.mu.Lock()
		if p.activeCount != i {
			p.mu.Unlock()
			return false
		}
		p.printers[i].retired = false
	}
	p.startLocked(i)
	p.activeCount++
	newCount := p.activeCount
	p.lastScaleTimeUS = nowUS
	p.lowQueueStartTimeUS = 0
	p.mu.Unlock()

	p.queue.BroadcastNotEmpty()
	p.emit.ScaleUp(newCount, queueLength, nowUS)
	return true
}

// ScaleDown requests the idle printer at the tail of the active prefix
// (index activeCount-1) exit once it next wakes, by temporarily lowering
// activeCount and relying on the worker's own done() check being
// augmented by IsSlotRetired. The retiring worker's goroutine is left to
// return naturally from run() the next time it observes
// queue-not-empty-or-done; ScaleDown does not block waiting for that.
// A no-op if the pool is already at minCount, or if the victim is not
// idle, or has not been idle for at least idleTimeoutUS (spec.md §4.6's
// should_scale_down hysteresis conjunct).
func (p *Pool) ScaleDown(queueLength int, nowUS int64) bool {
	p.mu.Lock()
	if p.activeCount <= p.minCount {
		p.mu.Unlock()
		return false
	}
	victim := p.activeCount - 1
	victimPrinter := p.printers[victim]
	p.mu.Unlock()

	if !p.refillQueue.isIdle(victimPrinter) {
		return false
	}
	if nowUS-p.refillQueue.idleSince(victimPrinter) < idleTimeoutUS {
		return false
	}

	p.mu.Lock()
	if p.activeCount <= p.minCount || victim != p.activeCount-1 {
		p.mu.Unlock()
		return false
	}
	p.activeCount--
	newCount := p.activeCount
	p.lastScaleTimeUS = nowUS
	p.lowQueueStartTimeUS = 0
	p.mu.Unlock()

	p.retire(victim)

	p.emit.ScaleDown(newCount, queueLength, nowUS)
	return true
}

// retire signals the single worker at index i to exit by setting the
// slot's retired flag, then wakes it. Each worker's done closure (built
// per slot in startLocked) consults that flag via IsSlotRetired.
func (p *Pool) retire(i int) {
	p.mu.Lock()
	p.printers[i].retired = true
	p.mu.Unlock()
	p.queue.BroadcastNotEmpty()
	p.refillQueue.broadcastAll()
}

// IsSlotRetired reports whether the printer at index i has been marked
// for scale-down retirement. Slots below minCount are never retired.
func (p *Pool) IsSlotRetired(i int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.printers[i].retired
}

// LastScaleTimeUS and LowQueueStartTimeUS expose the autoscaler's own
// bookkeeping fields for the cooldown/hysteresis checks in autoscaler.go.
func (p *Pool) LastScaleTimeUS() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastScaleTimeUS
}

func (p *Pool) LowQueueStartTimeUS() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lowQueueStartTimeUS
}

func (p *Pool) SetLowQueueStartTimeUS(t int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lowQueueStartTimeUS = t
}

// JoinAll blocks until every started worker goroutine has returned, per
// spec.md §4.8's join-all-printer-threads shutdown step.
func (p *Pool) JoinAll() {
	p.mu.Lock()
	wgs := make([]*sync.WaitGroup, 0, MaxPrinters)
	for i := 0; i < MaxPrinters; i++ {
		if p.wg[i] != nil {
			wgs = append(wgs, p.wg[i])
		}
	}
	p.mu.Unlock()

	for _, wg := range wgs {
		wg.Wait()
	}
}

// Snapshot returns a point-in-time copy of each started printer's
// identity and paper level, used by the status/dashboard surfaces.
type PrinterSnapshot struct {
	ID                int
	Active            bool
	Idle              bool
	CurrentPaperCount int
	Capacity          int
	TotalPapersUsed   int
	JobsPrintedCount  int
}

func (p *Pool) Snapshot() []PrinterSnapshot {
	p.mu.Lock()
	printers := make([]*Printer, p.activeCount)
	copy(printers, p.printers[:p.activeCount])
	p.mu.Unlock()

	out := make([]PrinterSnapshot, len(printers))
	for i, pr := range printers {
		out[i] = PrinterSnapshot{
			ID:                pr.ID,
			Active:            true,
			Idle:              p.refillQueue.isIdle(pr),
			CurrentPaperCount: p.refillQueue.currentPaper(pr),
			Capacity:          pr.capacity,
			TotalPapersUsed:   pr.totalPapersUsed,
			JobsPrintedCount:  pr.jobsPrintedCount,
		}
	}
	return out
}
