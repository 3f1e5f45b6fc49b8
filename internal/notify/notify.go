package notify

import "sync"

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notification is a non-blocking message shown on the next rendered page.
type Notification struct {
	Kind    Kind   `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message,omitempty"`
}

// Notifier is the write side handed to code that reports action outcomes.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
	Info(title, message string)
}

// Queue is a per-session FIFO of pending notifications.
type Queue struct {
	mu    sync.Mutex
	items []Notification
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Push(n Notification) {
	q.mu.Lock()
	q.items = append(q.items, n)
	q.mu.Unlock()
}

func (q *Queue) Success(title, message string) {
	q.Push(Notification{Kind: KindSuccess, Title: title, Message: message})
}

func (q *Queue) Error(title, message string) {
	q.Push(Notification{Kind: KindError, Title: title, Message: message})
}

func (q *Queue) Info(title, message string) {
	q.Push(Notification{Kind: KindInfo, Title: title, Message: message})
}

// Drain returns every pending notification and empties the queue.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
