package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

// ShadowWriter writes mirror documents into the shadow store.
type ShadowWriter interface {
	SetMerge(ctx context.Context, key string, fields map[string]any) error
	Put(ctx context.Context, key string, doc map[string]any) error
}

// Mailer delivers notification emails.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// Handlers processes the workflow side-effect tasks.
type Handlers struct {
	shadows ShadowWriter
	mailer  Mailer
	logger  *slog.Logger
}

// NewHandlers constructs the task handlers.
func NewHandlers(shadows ShadowWriter, mailer Mailer, logger *slog.Logger) *Handlers {
	return &Handlers{shadows: shadows, mailer: mailer, logger: logger}
}

// HandleMirrorWrite merges the payload's fields into the shadow document.
// A payload that fails to decode is unprocessable and is never retried.
func (h *Handlers) HandleMirrorWrite(ctx context.Context, t *asynq.Task) error {
	var payload MirrorPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("jobs: decode mirror payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.Key == "" {
		return fmt.Errorf("jobs: mirror payload without key: %w", asynq.SkipRetry)
	}
	write := h.shadows.SetMerge
	if payload.Replace {
		write = h.shadows.Put
	}
	if err := write(ctx, payload.Key, payload.Fields); err != nil {
		return fmt.Errorf("jobs: mirror write %s: %w", payload.Key, err)
	}
	if h.logger != nil {
		h.logger.Debug("shadow mirrored", slog.String("key", payload.Key))
	}
	return nil
}

// HandleNotifyEmail sends one notification email.
func (h *Handlers) HandleNotifyEmail(ctx context.Context, t *asynq.Task) error {
	var payload EmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("jobs: decode email payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.To == "" {
		return fmt.Errorf("jobs: email payload without recipient: %w", asynq.SkipRetry)
	}
	if err := h.mailer.SendEmail(ctx, payload.To, payload.Subject, payload.Body); err != nil {
		return fmt.Errorf("jobs: send email to %s: %w", payload.To, err)
	}
	return nil
}

// Mux wires the handlers onto an asynq mux.
func (h *Handlers) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeMirrorWrite, h.HandleMirrorWrite)
	mux.HandleFunc(TaskTypeNotifyEmail, h.HandleNotifyEmail)
	return mux
}
