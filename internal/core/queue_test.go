package core

import (
	"testing"
	"time"
)

func TestQueueFIFOOrder(t *testing.T) {
	q := NewTimedQueue()
	j1 := &Job{ID: 1}
	j2 := &Job{ID: 2}
	j3 := &Job{ID: 3}

	q.Enqueue(j1)
	q.Enqueue(j2)
	q.Enqueue(j3)

	if got := q.Dequeue(); got.ID != 1 {
		t.Fatalf("expected job 1 first, got %d", got.ID)
	}
	if got := q.Dequeue(); got.ID != 2 {
		t.Fatalf("expected job 2 second, got %d", got.ID)
	}
	if got := q.Dequeue(); got.ID != 3 {
		t.Fatalf("expected job 3 third, got %d", got.ID)
	}
	if got := q.Dequeue(); got != nil {
		t.Fatalf("expected nil on empty queue, got %v", got)
	}
}

func TestQueueLengthTracksMutations(t *testing.T) {
	q := NewTimedQueue()
	if q.Length() != 0 {
		t.Fatalf("new queue should be empty")
	}

	q.Enqueue(&Job{ID: 1})
	q.Enqueue(&Job{ID: 2})
	if q.Length() != 2 {
		t.Fatalf("expected length 2, got %d", q.Length())
	}

	q.Dequeue()
	if q.Length() != 1 {
		t.Fatalf("expected length 1 after dequeue, got %d", q.Length())
	}
}

func TestQueueRemoveMiddle(t *testing.T) {
	q := NewTimedQueue()
	j1 := &Job{ID: 1}
	j2 := &Job{ID: 2}
	j3 := &Job{ID: 3}
	q.Enqueue(j1)
	q.Enqueue(j2)
	q.Enqueue(j3)

	q.Remove(j2)
	if q.Length() != 2 {
		t.Fatalf("expected length 2 after removing middle, got %d", q.Length())
	}
	if got := q.Dequeue(); got.ID != 1 {
		t.Fatalf("expected job 1 first, got %d", got.ID)
	}
	if got := q.Dequeue(); got.ID != 3 {
		t.Fatalf("expected job 3 second after removal, got %d", got.ID)
	}
}

func TestQueueClearReturnsAllInOrder(t *testing.T) {
	q := NewTimedQueue()
	q.Enqueue(&Job{ID: 1})
	q.Enqueue(&Job{ID: 2})
	q.Enqueue(&Job{ID: 3})

	drained := q.Clear()
	if len(drained) != 3 {
		t.Fatalf("expected 3 drained jobs, got %d", len(drained))
	}
	for i, j := range drained {
		if j.ID != i+1 {
			t.Errorf("expected job %d at position %d, got %d", i+1, i, j.ID)
		}
	}
	if q.Length() != 0 {
		t.Fatalf("queue should be empty after Clear, got length %d", q.Length())
	}
}

func TestQueueIntegralIsNonDecreasing(t *testing.T) {
	q := NewTimedQueue()
	q.Enqueue(&Job{ID: 1})
	time.Sleep(2 * time.Millisecond)
	before := q.AreaNumInQueueUS()
	q.Enqueue(&Job{ID: 2})
	after := q.AreaNumInQueueUS()
	if after < before {
		t.Fatalf("queue integral went backwards: %d -> %d", before, after)
	}
}

func TestWaitNotEmptyOrDoneWakesOnEnqueue(t *testing.T) {
	q := NewTimedQueue()
	woke := make(chan struct{})
	go func() {
		q.WaitNotEmptyOrDone(func() bool { return false })
		close(woke)
	}()

	time.Sleep(5 * time.Millisecond)
	q.Enqueue(&Job{ID: 1})

	select {
	case <-woke:
	case <-time.After(time.Second):
		t.Fatal("waiter was not woken by enqueue")
	}
}

func TestWaitNotEmptyOrDoneWakesOnBroadcastDone(t *testing.T) {
	q := NewTimedQueue()
	terminate := false
	woke := make(chan struct{})
	go func() {
		q.WaitNotEmptyOrDone(func() bool { return terminate })
		close(woke)
	}()

	time.Sleep(5 * time.Millisecond)
	terminate = true
	q.BroadcastNotEmpty()

	select {
	case <-woke:
	case <-time.After(time.Second):
		t.Fatal("waiter was not woken by done broadcast")
	}
}
