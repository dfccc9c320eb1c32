// Package jobs carries the retryable side effects of the travel workflow:
// mirroring writes into the shadow store and sending notification emails.
// Both run on the task queue so a flaky backend never blocks, and never
// rolls back, an authoritative write.
package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	TaskTypeMirrorWrite = "shadow:mirror"
	TaskTypeNotifyEmail = "mail:notify"
)

// MirrorPayload carries one shadow write. Replace swaps the whole document
// instead of merging fields, dropping any stale keys the old copy carried.
type MirrorPayload struct {
	Key     string         `json:"key"`
	Fields  map[string]any `json:"fields"`
	Replace bool           `json:"replace,omitempty"`
}

// EmailPayload carries one notification email.
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewMirrorTask builds a merge-write mirror task.
func NewMirrorTask(key string, fields map[string]any) (*asynq.Task, error) {
	payload, err := json.Marshal(MirrorPayload{Key: key, Fields: fields})
	if err != nil {
		return nil, fmt.Errorf("jobs: marshal mirror payload: %w", err)
	}
	return asynq.NewTask(TaskTypeMirrorWrite, payload), nil
}

// NewMirrorReplaceTask builds a full-document replace mirror task.
func NewMirrorReplaceTask(key string, doc map[string]any) (*asynq.Task, error) {
	payload, err := json.Marshal(MirrorPayload{Key: key, Fields: doc, Replace: true})
	if err != nil {
		return nil, fmt.Errorf("jobs: marshal mirror payload: %w", err)
	}
	return asynq.NewTask(TaskTypeMirrorWrite, payload), nil
}

// NewEmailTask builds the notification email task.
func NewEmailTask(to, subject, body string) (*asynq.Task, error) {
	payload, err := json.Marshal(EmailPayload{To: to, Subject: subject, Body: body})
	if err != nil {
		return nil, fmt.Errorf("jobs: marshal email payload: %w", err)
	}
	return asynq.NewTask(TaskTypeNotifyEmail, payload), nil
}
