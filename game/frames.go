package game

type queuedFrame struct {
	id FrameID
	fn func(now float64)
}

// FrameQueue is a Scheduler for hosts that tick at a fixed rate. Each Flush
// runs the callbacks that were requested before it started; callbacks
// requested during a Flush wait for the next one.
type FrameQueue struct {
	next    FrameID
	pending []queuedFrame
}

func NewFrameQueue() *FrameQueue {
	return &FrameQueue{}
}

func (q *FrameQueue) RequestFrame(fn func(now float64)) FrameID {
	q.next++
	q.pending = append(q.pending, queuedFrame{id: q.next, fn: fn})
	return q.next
}

func (q *FrameQueue) CancelFrame(id FrameID) {
	for i, f := range q.pending {
		if f.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// Flush runs the queued callbacks with timestamp now and returns how many
// ran.
func (q *FrameQueue) Flush(now float64) int {
	due := q.pending
	q.pending = nil
	for _, f := range due {
		f.fn(now)
	}
	return len(due)
}

func (q *FrameQueue) Len() int { return len(q.pending) }
