package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisQueue implements Delayed on Redis: a sorted set orders job ids by due
// time, payloads live under per-job keys. Claiming removes the schedule entry
// and the payload in one script, so each job is reserved at most once even
// with multiple workers.
type RedisQueue struct {
	client *redis.Client
	prefix string
}

// NewRedisQueue creates a Redis-backed delayed queue. Prefix may be empty.
func NewRedisQueue(client *redis.Client, prefix string) *RedisQueue {
	if prefix == "" {
		prefix = "esq:"
	}
	return &RedisQueue{client: client, prefix: prefix}
}

func (q *RedisQueue) scheduleKey() string {
	return q.prefix + "schedule"
}

func (q *RedisQueue) jobKey(id string) string {
	return q.prefix + "job:" + id
}

func (q *RedisQueue) Enqueue(ctx context.Context, job Job, delay time.Duration) error {
	if delay < 0 {
		delay = 0
	}
	payload, err := EncodeJob(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	due := time.Now().UTC().Add(delay)

	pipe := q.client.TxPipeline()
	pipe.Set(ctx, q.jobKey(job.ID), payload, 0)
	pipe.ZAdd(ctx, q.scheduleKey(), redis.Z{
		Score:  float64(due.UnixMilli()),
		Member: job.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("schedule job: %w", err)
	}
	return nil
}

// reserveScript claims up to ARGV[2] jobs due at ARGV[1]: it removes each id
// from the schedule and deletes its payload key, returning the payloads.
var reserveScript = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, tonumber(ARGV[2]))
local out = {}
for i, id in ipairs(due) do
	redis.call('ZREM', KEYS[1], id)
	local key = ARGV[3] .. id
	local payload = redis.call('GET', key)
	if payload then
		redis.call('DEL', key)
		out[#out + 1] = payload
	end
end
return out
`)

func (q *RedisQueue) Reserve(ctx context.Context, now time.Time, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 1
	}
	raw, err := reserveScript.Run(ctx, q.client,
		[]string{q.scheduleKey()},
		now.UnixMilli(), limit, q.prefix+"job:",
	).StringSlice()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("reserve jobs: %w", err)
	}

	jobs := make([]Job, 0, len(raw))
	for _, payload := range raw {
		job, err := DecodeJob([]byte(payload))
		if err != nil {
			// A malformed payload is dropped, not retried: it would
			// never become parseable.
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

var _ Delayed = (*RedisQueue)(nil)
