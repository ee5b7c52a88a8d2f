// Package notify decouples outbound email from the request path. Callers
// Enqueue a Message and return immediately; a Worker pool drains the queue
// and delivers through a Sender with retries.
package notify

import (
	"context"
	"time"
)

// Kind classifies a message for logging and metrics.
type Kind string

const (
	KindVerification  Kind = "verification"
	KindPasswordReset Kind = "password_reset"
)

// Message is a single outbound notification. Body may carry secrets and
// must never be logged.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Kind    Kind   `json:"kind"`
}

// Dispatcher accepts messages for asynchronous delivery. A nil error means
// the message will be attempted, not that it was delivered.
type Dispatcher interface {
	Enqueue(ctx context.Context, msg Message) error
}

// Source is the consuming side of a queue.
type Source interface {
	// Dequeue waits up to wait for a message. It returns nil, nil on timeout.
	Dequeue(ctx context.Context, wait time.Duration) (*Message, error)
	// DeadLetter parks a message whose delivery attempts were exhausted.
	DeadLetter(ctx context.Context, msg Message) error
}

// Sender performs the actual delivery.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
