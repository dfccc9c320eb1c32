package jobs

import (
	"context"

	"github.com/hibiken/asynq"
)

// Queue enqueues workflow side-effect tasks.
type Queue struct {
	client *asynq.Client
}

// NewQueue wraps an asynq client.
func NewQueue(client *asynq.Client) *Queue {
	return &Queue{client: client}
}

// EnqueueMirror queues a shadow merge write. Mirror writes retry hard: the
// shadow store must eventually converge on the authoritative record.
func (q *Queue) EnqueueMirror(ctx context.Context, key string, fields map[string]any) error {
	task, err := NewMirrorTask(key, fields)
	if err != nil {
		return err
	}
	_, err = q.client.EnqueueContext(ctx, task, asynq.MaxRetry(10), asynq.Queue("mirror"))
	return err
}

// EnqueueMirrorReplace queues a full-document shadow replacement, used when
// the authoritative record was rewritten and stale shadow fields must go.
func (q *Queue) EnqueueMirrorReplace(ctx context.Context, key string, doc map[string]any) error {
	task, err := NewMirrorReplaceTask(key, doc)
	if err != nil {
		return err
	}
	_, err = q.client.EnqueueContext(ctx, task, asynq.MaxRetry(10), asynq.Queue("mirror"))
	return err
}

// EnqueueEmail queues a notification email.
func (q *Queue) EnqueueEmail(ctx context.Context, to, subject, body string) error {
	task, err := NewEmailTask(to, subject, body)
	if err != nil {
		return err
	}
	_, err = q.client.EnqueueContext(ctx, task, asynq.MaxRetry(5), asynq.Queue("mail"))
	return err
}
