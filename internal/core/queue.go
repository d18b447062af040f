package core

import "sync"

// TimedQueue is a FIFO of Jobs that records the wall-clock of its most
// recent mutation (enqueue/dequeue/remove/clear) and the queue-length
// time integral those mutations imply. It is the sole owner of the
// intrusive doubly linked list's next/prev pointers.
//
// Lock discipline: every exported method takes mu itself, so callers must
// not already hold it; touch and removeLocked instead require the caller
// to hold mu. mu is the "queue" lock of spec.md §5, and notEmpty is its
// "queue-not-empty" condition variable.
type TimedQueue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond

	head, tail *Job
	length     int

	lastInteractionUS int64
	areaNumInQueueUS  int64
}

func NewTimedQueue() *TimedQueue {
	q := &TimedQueue{lastInteractionUS: nowUS()}
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// touch advances the queue-length integral from lastInteractionUS to now
// using the length observed immediately before the mutation, then stamps
// lastInteractionUS. Must be called with mu held, exactly once per
// mutating operation, per spec.md §3's invariant.
func (q *TimedQueue) touch(lengthBefore int) {
	now := nowUS()
	invariant(now >= q.lastInteractionUS, "timed queue last_interaction_time went backwards")
	q.areaNumInQueueUS += (now - q.lastInteractionUS) * int64(lengthBefore)
	q.lastInteractionUS = now
}

// Length returns the number of queued jobs. Read-only; does not touch.
func (q *TimedQueue) Length() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.length
}

// IsEmpty reports whether the queue holds no jobs.
func (q *TimedQueue) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.length == 0
}

// Enqueue appends job to the tail and broadcasts queue-not-empty.
func (q *TimedQueue) Enqueue(job *Job) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.touch(q.length)

	job.prev, job.next = q.tail, nil
	if q.tail != nil {
		q.tail.next = job
	} else {
		q.head = job
	}
	q.tail = job
	q.length++

	q.notEmpty.Broadcast()
}

// EnqueueFront pushes job to the head of the queue.
func (q *TimedQueue) EnqueueFront(job *Job) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.touch(q.length)

	job.next, job.prev = q.head, nil
	if q.head != nil {
		q.head.prev = job
	} else {
		q.tail = job
	}
	q.head = job
	q.length++

	q.notEmpty.Broadcast()
}

// Dequeue removes and returns the job at the head, or nil if empty.
func (q *TimedQueue) Dequeue() *Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head == nil {
		return nil
	}
	q.touch(q.length)
	job := q.head
	q.removeLocked(job)
	return job
}

// Remove detaches job from wherever it sits in the queue. A no-op if the
// job is not currently linked into this queue.
func (q *TimedQueue) Remove(job *Job) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if job.prev == nil && job.next == nil && q.head != job {
		return
	}
	q.touch(q.length)
	q.removeLocked(job)
}

func (q *TimedQueue) removeLocked(job *Job) {
	if job.prev != nil {
		job.prev.next = job.next
	} else {
		q.head = job.next
	}
	if job.next != nil {
		job.next.prev = job.prev
	} else {
		q.tail = job.prev
	}
	job.next, job.prev = nil, nil
	q.length--
}

// Clear empties the queue and returns the jobs that were removed, in
// FIFO order, so the caller (the shutdown drainer) can account for and
// free each one.
func (q *TimedQueue) Clear() []*Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.length == 0 {
		return nil
	}
	q.touch(q.length)

	drained := make([]*Job, 0, q.length)
	for n := q.head; n != nil; {
		next := n.next
		n.next, n.prev = nil, nil
		drained = append(drained, n)
		n = next
	}
	q.head, q.tail, q.length = nil, nil, 0
	return drained
}

// First returns the head job without removing it. Read-only.
func (q *TimedQueue) First() *Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.head
}

// Last returns the tail job without removing it. Read-only.
func (q *TimedQueue) Last() *Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.tail
}

// Find returns the first job for which pred reports true. Read-only.
func (q *TimedQueue) Find(pred func(*Job) bool) *Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	for n := q.head; n != nil; n = n.next {
		if pred(n) {
			return n
		}
	}
	return nil
}

// Next returns the job following job in the queue, or nil at the tail.
func (q *TimedQueue) Next(job *Job) *Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return job.next
}

// Prev returns the job preceding job in the queue, or nil at the head.
func (q *TimedQueue) Prev(job *Job) *Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return job.prev
}

// LastInteractionUS returns the wall clock of the most recent mutation.
func (q *TimedQueue) LastInteractionUS() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lastInteractionUS
}

// AreaNumInQueueUS returns the running queue-length time integral.
func (q *TimedQueue) AreaNumInQueueUS() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.areaNumInQueueUS
}

// WaitNotEmptyOrDone blocks on the queue-not-empty condition until the
// queue is non-empty or done reports true, re-checking both on every
// wake as spec.md §5 requires for every condition wait. Callers
// (shutdown, and the producer on normal completion) must call
// BroadcastNotEmpty after flipping whatever done observes, or a blocked
// printer will not be woken.
func (q *TimedQueue) WaitNotEmptyOrDone(done func() bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.length == 0 && !done() {
		q.notEmpty.Wait()
	}
}

// BroadcastNotEmpty wakes every printer blocked in WaitNotEmptyOrDone so
// it can re-check its termination predicate.
func (q *TimedQueue) BroadcastNotEmpty() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.notEmpty.Broadcast()
}
