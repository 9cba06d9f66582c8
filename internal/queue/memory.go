package queue

import (
	"context"
	"sort"
	"sync"
	"time"
)

type scheduledJob struct {
	job Job
	due time.Time
}

// MemoryQueue implements Delayed in process memory, for dev and tests.
type MemoryQueue struct {
	mu   sync.Mutex
	jobs []scheduledJob
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, job Job, delay time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if delay < 0 {
		delay = 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, scheduledJob{job: job, due: time.Now().UTC().Add(delay)})
	return nil
}

func (q *MemoryQueue) Reserve(ctx context.Context, now time.Time, limit int) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 1
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	sort.Slice(q.jobs, func(i, j int) bool { return q.jobs[i].due.Before(q.jobs[j].due) })

	var due []Job
	var remaining []scheduledJob
	for _, scheduled := range q.jobs {
		if len(due) < limit && !scheduled.due.After(now) {
			due = append(due, scheduled.job)
			continue
		}
		remaining = append(remaining, scheduled)
	}
	q.jobs = remaining
	return due, nil
}

// Len reports the number of jobs still scheduled.
func (q *MemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

var _ Delayed = (*MemoryQueue)(nil)
