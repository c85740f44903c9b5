package worker

// Jobs that keep failing get parked instead of dropped: one Redis list
// per source queue ("dead:jobs:audit" and friends) holding the payload
// plus enough context to replay it by hand — LRANGE the list, fix the
// cause, LPUSH the payload back onto the source queue.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const deadLetterPrefix = "dead:"

// DeadLetter is one parked job.
type DeadLetter struct {
	Queue    string          `json:"queue"`
	JobType  string          `json:"job_type"`
	Payload  json.RawMessage `json:"payload"`
	Reason   string          `json:"reason"`
	Attempts int             `json:"attempts"`
	FailedAt time.Time       `json:"failed_at"`
}

// parkDeadLetter moves a job that exhausted its retries onto the dead
// letter list for its queue.
func parkDeadLetter(ctx context.Context, rdb *redis.Client, queue string, job Job, reason string) {
	dl := DeadLetter{
		Queue:    queue,
		JobType:  job.Type,
		Payload:  job.Payload,
		Reason:   reason,
		Attempts: job.Attempts,
		FailedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(dl)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dead letter: marshal failed")
		return
	}
	if err := rdb.LPush(ctx, deadLetterPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dead letter: push failed")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("type", job.Type).
		Str("reason", reason).
		Int("attempts", job.Attempts).
		Msg("job parked on dead letter list")
}

// DeadLetterCounts reports the parked-job backlog per queue.
func DeadLetterCounts(ctx context.Context, rdb *redis.Client, queues ...string) (map[string]int64, error) {
	out := make(map[string]int64, len(queues))
	for _, q := range queues {
		n, err := rdb.LLen(ctx, deadLetterPrefix+q).Result()
		if err != nil {
			return nil, err
		}
		out[q] = n
	}
	return out, nil
}
