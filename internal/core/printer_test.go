package core

import (
	"testing"
	"time"
)

func newTestWorker(queue *TimedQueue, refillQueue *RefillQueue, params *Parameters, stats *Stats, stopCh <-chan struct{}) *printerWorker {
	return &printerWorker{
		printer:     &Printer{ID: 1, capacity: params.PrinterPaperCapacity, currentPaperCount: params.PrinterPaperCapacity, isIdle: true},
		index:       0,
		queue:       queue,
		refillQueue: refillQueue,
		params:      params,
		stats:       stats,
		emit:        NoopEmitter{},
		done:        func() bool { return false },
		stopCh:      stopCh,
	}
}

func TestPrinterServesJobWithSufficientPaper(t *testing.T) {
	queue := NewTimedQueue()
	refillQueue := NewRefillQueue()
	params := &Parameters{PrintingRate: 1_000_000, PrinterPaperCapacity: 100, RefillRate: 1_000_000}
	stats := NewStats("run-1")
	stopCh := make(chan struct{})

	w := newTestWorker(queue, refillQueue, params, stats, stopCh)
	job := &Job{ID: 1, PapersRequired: 5}
	queue.Enqueue(job)

	w.cycle()

	if queue.Length() != 0 {
		t.Fatalf("expected job to be dequeued, queue length %d", queue.Length())
	}
	if stats.TotalJobsServed != 1 {
		t.Fatalf("expected 1 job served, got %d", stats.TotalJobsServed)
	}
	if w.printer.currentPaperCount != 95 {
		t.Fatalf("expected 95 papers remaining, got %d", w.printer.currentPaperCount)
	}
	if !w.printer.isIdle {
		t.Fatal("expected printer to be idle after serving")
	}
}

func TestPrinterWaitsForRefillThenServes(t *testing.T) {
	queue := NewTimedQueue()
	refillQueue := NewRefillQueue()
	params := &Parameters{PrintingRate: 1_000_000, PrinterPaperCapacity: 10, RefillRate: 1_000_000}
	stats := NewStats("run-1")
	stopCh := make(chan struct{})

	w := newTestWorker(queue, refillQueue, params, stats, stopCh)
	w.printer.currentPaperCount = 2 // below job requirement

	job := &Job{ID: 1, PapersRequired: 5}
	queue.Enqueue(job)

	refiller := NewRefillWorker(refillQueue, params, stats, NoopEmitter{}, func() bool { return false }, stopCh)
	go refiller.Run()
	defer close(stopCh)

	done := make(chan struct{})
	go func() {
		w.cycle()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("printer did not complete refill-then-serve cycle in time")
	}

	if queue.Length() != 0 {
		t.Fatalf("expected job to be served after refill, queue length %d", queue.Length())
	}
	if stats.TotalJobsServed != 1 {
		t.Fatalf("expected 1 job served after refill, got %d", stats.TotalJobsServed)
	}
	if stats.Printers[0].PaperEmptyTimeUS <= 0 {
		t.Fatal("expected paper-empty wait time to be recorded")
	}
}

func TestTryTakeHeadLeavesJobQueuedWhenPaperInsufficient(t *testing.T) {
	queue := NewTimedQueue()
	refillQueue := NewRefillQueue()
	params := &Parameters{PrintingRate: 1_000_000, PrinterPaperCapacity: 10, RefillRate: 1_000_000}
	stats := NewStats("run-1")
	stopCh := make(chan struct{})
	defer close(stopCh)

	w := newTestWorker(queue, refillQueue, params, stats, stopCh)
	w.printer.currentPaperCount = 0
	w.printer.onRefillQueue = true // simulate already on the refill queue

	job := &Job{ID: 1, PapersRequired: 5}
	queue.Enqueue(job)

	done := make(chan struct{})
	go func() {
		_, dequeued, _, _ := w.tryTakeHead()
		if dequeued {
			t.Error("should not have dequeued with insufficient paper")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tryTakeHead did not return")
	}
}
