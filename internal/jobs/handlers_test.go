package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type fakeShadowWriter struct {
	merged   map[string]map[string]any
	replaced map[string]map[string]any
	err      error
}

func (f *fakeShadowWriter) SetMerge(_ context.Context, key string, fields map[string]any) error {
	if f.err != nil {
		return f.err
	}
	if f.merged == nil {
		f.merged = map[string]map[string]any{}
	}
	f.merged[key] = fields
	return nil
}

func (f *fakeShadowWriter) Put(_ context.Context, key string, doc map[string]any) error {
	if f.err != nil {
		return f.err
	}
	if f.replaced == nil {
		f.replaced = map[string]map[string]any{}
	}
	f.replaced[key] = doc
	return nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) SendEmail(_ context.Context, to, _, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func TestHandleMirrorWrite(t *testing.T) {
	shadows := &fakeShadowWriter{}
	h := NewHandlers(shadows, &fakeMailer{}, slog.Default())

	task, err := NewMirrorTask("005-2569", map[string]any{"pdfUrl": "https://x/005.pdf"})
	require.NoError(t, err)
	require.NoError(t, h.HandleMirrorWrite(context.Background(), task))
	require.Equal(t, "https://x/005.pdf", shadows.merged["005-2569"]["pdfUrl"])
}

func TestHandleMirrorReplaceWrite(t *testing.T) {
	shadows := &fakeShadowWriter{}
	h := NewHandlers(shadows, &fakeMailer{}, slog.Default())

	task, err := NewMirrorReplaceTask("005-2569", map[string]any{"purpose": "อบรม"})
	require.NoError(t, err)
	require.NoError(t, h.HandleMirrorWrite(context.Background(), task))
	require.Equal(t, "อบรม", shadows.replaced["005-2569"]["purpose"])
	require.Empty(t, shadows.merged)
}

func TestHandleMirrorWriteBadPayloadSkipsRetry(t *testing.T) {
	h := NewHandlers(&fakeShadowWriter{}, &fakeMailer{}, slog.Default())

	err := h.HandleMirrorWrite(context.Background(), asynq.NewTask(TaskTypeMirrorWrite, []byte("{broken")))
	require.ErrorIs(t, err, asynq.SkipRetry)

	err = h.HandleMirrorWrite(context.Background(), asynq.NewTask(TaskTypeMirrorWrite, []byte(`{"fields":{}}`)))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleMirrorWriteStoreFailureRetries(t *testing.T) {
	shadows := &fakeShadowWriter{err: errors.New("pg down")}
	h := NewHandlers(shadows, &fakeMailer{}, slog.Default())

	task, err := NewMirrorTask("005-2569", nil)
	require.NoError(t, err)
	err = h.HandleMirrorWrite(context.Background(), task)
	require.Error(t, err)
	require.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleNotifyEmail(t *testing.T) {
	mailer := &fakeMailer{}
	h := NewHandlers(&fakeShadowWriter{}, mailer, slog.Default())

	task, err := NewEmailTask("somchai", "เอกสารเสร็จสิ้น", "รายละเอียด")
	require.NoError(t, err)
	require.NoError(t, h.HandleNotifyEmail(context.Background(), task))
	require.Equal(t, []string{"somchai"}, mailer.sent)

	err = h.HandleNotifyEmail(context.Background(), asynq.NewTask(TaskTypeNotifyEmail, []byte(`{}`)))
	require.ErrorIs(t, err, asynq.SkipRetry)
}
