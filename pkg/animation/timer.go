package animation

import (
	"container/heap"
	"time"
)

// Timer is a pending delayed action owned by a [Controller]. Timers fire at
// the start of the first frame whose controller time reaches their deadline,
// on the goroutine that ticks the controller.
type Timer struct {
	ctrl     *Controller
	deadline float64
	seq      uint64
	fn       func()
	index    int
	fired    bool
	canceled bool
}

// Cancel prevents the timer from firing. It reports whether the timer was
// still pending. Canceling a fired or canceled timer does nothing.
func (t *Timer) Cancel() bool {
	if t == nil || t.fired || t.canceled {
		return false
	}
	t.canceled = true
	if t.index >= 0 {
		heap.Remove(&t.ctrl.timers, t.index)
	}
	t.ctrl.updateFrameSource()
	return true
}

// Pending reports whether the timer has neither fired nor been canceled.
func (t *Timer) Pending() bool {
	return t != nil && !t.fired && !t.canceled
}

// Remaining returns the controller time left until the timer fires.
func (t *Timer) Remaining() time.Duration {
	if !t.Pending() {
		return 0
	}
	left := t.deadline - t.ctrl.now
	if left < 0 {
		return 0
	}
	return seconds(left)
}

// timerQueue is a min-heap ordered by deadline, then scheduling order.
type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].deadline != q[j].deadline {
		return q[i].deadline < q[j].deadline
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
