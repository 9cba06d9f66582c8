package queue

import (
	"context"
	"testing"
	"time"
)

func TestMemoryQueueDelayGates(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()

	if err := q.Enqueue(ctx, Job{ID: "now"}, 0); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := q.Enqueue(ctx, Job{ID: "later"}, time.Hour); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	jobs, err := q.Reserve(ctx, time.Now().UTC(), 10)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != "now" {
		t.Fatalf("reserved %v, want only job %q", jobs, "now")
	}

	// The delayed job surfaces once its due time passes.
	jobs, err = q.Reserve(ctx, time.Now().UTC().Add(2*time.Hour), 10)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != "later" {
		t.Fatalf("reserved %v, want only job %q", jobs, "later")
	}
	if q.Len() != 0 {
		t.Errorf("queue still holds %d jobs", q.Len())
	}
}

func TestMemoryQueueReserveLimit(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := q.Enqueue(ctx, Job{ID: id}, 0); err != nil {
			t.Fatalf("enqueue %s: %v", id, err)
		}
	}

	jobs, err := q.Reserve(ctx, time.Now().UTC(), 2)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("reserved %d jobs, want 2", len(jobs))
	}
	if q.Len() != 1 {
		t.Errorf("queue holds %d jobs, want 1", q.Len())
	}
}

func TestMemoryQueueReserveEachJobOnce(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()

	if err := q.Enqueue(ctx, Job{ID: "only"}, 0); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	first, err := q.Reserve(ctx, time.Now().UTC(), 10)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	second, err := q.Reserve(ctx, time.Now().UTC(), 10)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if len(first) != 1 || len(second) != 0 {
		t.Fatalf("reserve counts = %d,%d, want 1,0", len(first), len(second))
	}
}
