package busevent

import (
	"errors"
	"sync"
)

// ErrQueueClosed is returned by Send once the receiving side has gone away.
var ErrQueueClosed = errors.New("event queue closed")

// Sender is the producing half of a Queue.
type Sender interface {
	Send(event SignalEvent) error
}

// Receiver is the consuming half of a Queue.
type Receiver interface {
	TryReceive() (SignalEvent, bool)
	Close()
}

// Queue is an unbounded FIFO hand-off between one producer and one consumer.
// Send never blocks; TryReceive never blocks.
type Queue struct {
	mu     sync.Mutex
	data   []SignalEvent
	closed bool
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Send appends an event. It fails with ErrQueueClosed after Close.
func (q *Queue) Send(event SignalEvent) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	q.data = append(q.data, event)
	return nil
}

// TryReceive pops the oldest pending event, if any.
func (q *Queue) TryReceive() (SignalEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.data) == 0 {
		return SignalEvent{}, false
	}
	event := q.data[0]
	q.data[0] = SignalEvent{}
	q.data = q.data[1:]
	if len(q.data) == 0 {
		q.data = nil
	}
	return event, true
}

// Close drops pending events and makes every later Send fail.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.data = nil
}

// Len reports the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.data)
}

var (
	_ Sender   = (*Queue)(nil)
	_ Receiver = (*Queue)(nil)
)
