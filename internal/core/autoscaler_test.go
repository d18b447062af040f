package core

import (
	"testing"
)

func TestScaleUpThresholdFor(t *testing.T) {
	cases := []struct {
		active int
		want   int
	}{
		{1, scaleUpThreshold2},
		{2, scaleUpThreshold2},
		{3, scaleUpThreshold3},
		{4, scaleUpThreshold4},
		{5, -1},
		{6, -1},
	}
	for _, c := range cases {
		if got := scaleUpThresholdFor(c.active); got != c.want {
			t.Errorf("scaleUpThresholdFor(%d) = %d, want %d", c.active, got, c.want)
		}
	}
}

func newTestPool(minCount int) *Pool {
	params := &Parameters{PrinterPaperCapacity: 100}
	stats := NewStats("run-1")
	stopCh := make(chan struct{})
	close(stopCh) // every startLocked worker's done() is true immediately
	return NewPool(minCount, NewTimedQueue(), NewRefillQueue(), params, stats, NoopEmitter{}, func() bool { return true }, stopCh)
}

func TestPoolScaleUpThresholdsAndCapacity(t *testing.T) {
	p := newTestPool(1)

	if !p.ScaleUp(11, 1_000_000) {
		t.Fatal("expected ScaleUp to succeed below MaxPrinters")
	}
	if got := p.ActiveCount(); got != 2 {
		t.Fatalf("expected activeCount 2 after ScaleUp, got %d", got)
	}
	if got := p.LastScaleTimeUS(); got != 1_000_000 {
		t.Fatalf("expected lastScaleTimeUS updated to 1_000_000, got %d", got)
	}

	for p.ActiveCount() < MaxPrinters {
		if !p.ScaleUp(999, 2_000_000) {
			t.Fatal("expected ScaleUp to keep succeeding until MaxPrinters")
		}
	}
	if p.ScaleUp(999, 3_000_000) {
		t.Fatal("expected ScaleUp to fail once at MaxPrinters")
	}
}

func TestPoolScaleDownRequiresIdleAndTimeout(t *testing.T) {
	p := newTestPool(1)
	p.ScaleUp(0, 0) // activeCount 2; victim is slot index 1

	victim := p.printers[1]

	// Not idle: ScaleDown must refuse regardless of timing.
	p.refillQueue.markServing(victim)
	if p.ScaleDown(0, idleTimeoutUS*10) {
		t.Fatal("expected ScaleDown to refuse a busy victim")
	}

	// Idle, but not yet idle for idleTimeoutUS.
	p.refillQueue.markIdle(victim, 0)
	if p.ScaleDown(0, idleTimeoutUS-1) {
		t.Fatal("expected ScaleDown to refuse a victim idle for less than idleTimeoutUS")
	}

	// Idle for exactly idleTimeoutUS: eligible.
	if !p.ScaleDown(0, idleTimeoutUS) {
		t.Fatal("expected ScaleDown to succeed once idle for idleTimeoutUS")
	}
	if got := p.ActiveCount(); got != 1 {
		t.Fatalf("expected activeCount 1 after ScaleDown, got %d", got)
	}
}

func TestPoolScaleDownRespectsMinCount(t *testing.T) {
	p := newTestPool(2)
	if p.ScaleDown(0, idleTimeoutUS*10) {
		t.Fatal("expected ScaleDown to refuse when already at minCount")
	}
}

func TestAutoscalerTickScalesUpAboveThreshold(t *testing.T) {
	p := newTestPool(1)
	queue := NewTimedQueue()
	for i := 0; i <= scaleUpThreshold2; i++ {
		queue.Enqueue(&Job{ID: i + 1, PapersRequired: 1})
	}
	params := &Parameters{}
	a := NewAutoscaler(p, queue, params, func() bool { return true }, make(chan struct{}))

	a.tick()

	if got := p.ActiveCount(); got != 2 {
		t.Fatalf("expected tick to scale up to 2 active printers, got %d", got)
	}
}

func TestAutoscalerTickSuppressedDuringCooldown(t *testing.T) {
	p := newTestPool(1)
	queue := NewTimedQueue()
	for i := 0; i <= scaleUpThreshold2; i++ {
		queue.Enqueue(&Job{ID: i + 1, PapersRequired: 1})
	}
	p.lastScaleTimeUS = nowUS() // a scaling event "just happened"

	params := &Parameters{}
	a := NewAutoscaler(p, queue, params, func() bool { return true }, make(chan struct{}))
	a.tick()

	if got := p.ActiveCount(); got != 1 {
		t.Fatalf("expected cooldown to suppress scale-up, activeCount got %d", got)
	}
}

func TestAutoscalerTickScalesDownOnSustainedLowQueueAndIdleVictim(t *testing.T) {
	p := newTestPool(1)
	p.ScaleUp(0, 0) // activeCount 2

	victim := p.printers[1]
	now := nowUS()
	p.refillQueue.markIdle(victim, now-idleTimeoutUS-1)
	p.lastScaleTimeUS = now - cooldownUS - 1
	p.lowQueueStartTimeUS = now - scaleDownWaitUS - 1

	queue := NewTimedQueue() // empty: well below scaleDownThreshold
	params := &Parameters{}
	a := NewAutoscaler(p, queue, params, func() bool { return true }, make(chan struct{}))
	a.tick()

	if got := p.ActiveCount(); got != 1 {
		t.Fatalf("expected tick to scale down to 1 active printer, got %d", got)
	}
}

func TestAutoscalerTickWithholdsScaleDownWhenVictimRecentlyBusy(t *testing.T) {
	p := newTestPool(1)
	p.ScaleUp(0, 0) // activeCount 2

	victim := p.printers[1]
	now := nowUS()
	p.refillQueue.markIdle(victim, now) // idle, but not for idleTimeoutUS yet
	p.lastScaleTimeUS = now - cooldownUS - 1
	p.lowQueueStartTimeUS = now - scaleDownWaitUS - 1

	queue := NewTimedQueue()
	params := &Parameters{}
	a := NewAutoscaler(p, queue, params, func() bool { return true }, make(chan struct{}))
	a.tick()

	if got := p.ActiveCount(); got != 2 {
		t.Fatalf("expected tick to withhold scale-down while victim is within idleTimeoutUS, got %d", got)
	}
}

func TestAutoscalerTickResetsLowQueueTimerAboveThreshold(t *testing.T) {
	p := newTestPool(1)
	p.ScaleUp(0, 0)
	p.lowQueueStartTimeUS = 12345
	p.lastScaleTimeUS = 0

	queue := NewTimedQueue()
	for i := 0; i < scaleDownThreshold+1; i++ {
		queue.Enqueue(&Job{ID: i + 1, PapersRequired: 1})
	}
	params := &Parameters{}
	a := NewAutoscaler(p, queue, params, func() bool { return true }, make(chan struct{}))
	a.tick()

	if got := p.LowQueueStartTimeUS(); got != 0 {
		t.Fatalf("expected low-queue timer reset above scaleDownThreshold, got %d", got)
	}
}
