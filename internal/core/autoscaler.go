package core

import "time"

// Autoscaler thresholds and timings, per spec.md §4.6. Scale-up compares
// the current queue length against a step function of the currently
// active printer count; scale-down requires the queue to have stayed at
// or below scaleDownThreshold for scaleDownWaitUS continuously, with the
// victim printer idle for at least idleTimeoutUS, and a cooldown since
// the last scaling event.
const (
	scaleUpThreshold2 = 10 // active==2: scale up once queue length > 10
	scaleUpThreshold3 = 15 // active==3: scale up once queue length > 15
	scaleUpThreshold4 = 20 // active==4: scale up once queue length > 20
	// active>=5 (MaxPrinters): never scales further, threshold is +inf.

	scaleDownThreshold = 5

	scaleDownWaitUS = int64(5 * time.Second / time.Microsecond)
	cooldownUS      = int64(5 * time.Second / time.Microsecond)
	checkIntervalUS = int64(500 * time.Millisecond / time.Microsecond)

	// idleTimeoutUS is the minimum time a candidate printer must have
	// been idle before it is eligible for scale-down, per spec.md §4.6's
	// IDLE_TIMEOUT_US and the source's CONFIG_AUTOSCALE_IDLE_TIMEOUT_US.
	idleTimeoutUS = int64(5 * time.Second / time.Microsecond)
)

// scaleUpThresholdFor returns the queue-length threshold above which the
// pool should grow from activeCount printers, or -1 if it is already at
// MaxPrinters and cannot grow further.
func scaleUpThresholdFor(activeCount int) int {
	switch activeCount {
	case 1:
		return scaleUpThreshold2
	case 2:
		return scaleUpThreshold2
	case 3:
		return scaleUpThreshold3
	case 4:
		return scaleUpThreshold4
	default:
		return -1
	}
}

// Autoscaler periodically samples queue length and pool state and issues
// ScaleUp/ScaleDown decisions. It runs on its own goroutine, polling at
// checkIntervalUS, and is entirely disabled when Parameters.AutoScaling
// is false (spec.md's fixed ConsumerCount pool then never changes size).
type Autoscaler struct {
	pool   *Pool
	queue  *TimedQueue
	params *Parameters
	done   func() bool
	stopCh <-chan struct{}
}

func NewAutoscaler(pool *Pool, queue *TimedQueue, params *Parameters, done func() bool, stopCh <-chan struct{}) *Autoscaler {
	return &Autoscaler{pool: pool, queue: queue, params: params, done: done, stopCh: stopCh}
}

// Run polls until done() holds. A no-op loop (just waiting for shutdown)
// if AutoScaling is disabled, so callers can always start it
// unconditionally.
func (a *Autoscaler) Run() {
	if !a.params.AutoScaling {
		<-a.stopCh
		return
	}
	for {
		if a.done() {
			return
		}
		sleepUS(a.stopCh, checkIntervalUS)
		if a.done() {
			return
		}
		a.tick()
	}
}

func (a *Autoscaler) tick() {
	length := a.queue.Length()
	active := a.pool.ActiveCount()
	now := nowUS()

	if now-a.pool.LastScaleTimeUS() < cooldownUS {
		return
	}

	if threshold := scaleUpThresholdFor(active); threshold >= 0 && length > threshold {
		a.pool.ScaleUp(length, now)
		return
	}

	if active <= a.pool.minCountSnapshot() {
		return
	}

	if length <= scaleDownThreshold {
		start := a.pool.LowQueueStartTimeUS()
		if start == 0 {
			a.pool.SetLowQueueStartTimeUS(now)
			return
		}
		if now-start >= scaleDownWaitUS {
			a.pool.ScaleDown(length, now)
		}
		return
	}

	a.pool.SetLowQueueStartTimeUS(0)
}
