package notify

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/talentbridge/internal/common"
)

// MemoryQueue is a bounded in-process queue for single-node setups and tests.
type MemoryQueue struct {
	ch chan Message

	mu   sync.Mutex
	dead []Message
}

func NewMemoryQueue(size int) *MemoryQueue {
	return &MemoryQueue{ch: make(chan Message, size)}
}

// Enqueue never blocks. A full buffer yields common.ErrQueueUnavailable.
func (q *MemoryQueue) Enqueue(ctx context.Context, msg Message) error {
	select {
	case q.ch <- msg:
		return nil
	default:
		return common.ErrQueueUnavailable
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context, wait time.Duration) (*Message, error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case msg := <-q.ch:
		return &msg, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *MemoryQueue) DeadLetter(_ context.Context, msg Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.dead = append(q.dead, msg)
	return nil
}

// Dead returns a copy of the dead-lettered messages.
func (q *MemoryQueue) Dead() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Message(nil), q.dead...)
}

// Len reports the number of pending messages.
func (q *MemoryQueue) Len() int {
	return len(q.ch)
}
