package jobs

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hibiken/asynq"

	"github.com/sarabun-oss/sarabun/internal/platform/httpx"
)

// NewServer builds the worker-side asynq server. The mirror queue gets the
// larger share so shadow convergence keeps pace with workflow writes.
func NewServer(redisAddr string, logger *slog.Logger) *asynq.Server {
	return asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"mirror":  6,
				"mail":    3,
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
				if logger != nil {
					logger.Error("task failed",
						slog.String("type", task.Type()),
						slog.Any("error", err))
				}
			}),
		},
	)
}

// Health reports queue depths for the operations endpoint.
type Health struct {
	inspector *asynq.Inspector
}

// NewHealth constructs a queue health reporter.
func NewHealth(redisAddr string) *Health {
	return &Health{inspector: asynq.NewInspector(asynq.RedisClientOpt{Addr: redisAddr})}
}

type queueInfo struct {
	Name      string `json:"name"`
	Size      int    `json:"size"`
	Pending   int    `json:"pending"`
	Active    int    `json:"active"`
	Retry     int    `json:"retry"`
	Archived  int    `json:"archived"`
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
}

// Handler serves a JSON snapshot of every queue.
func (h *Health) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := h.inspector.Queues()
		if err != nil {
			httpx.Problem(w, http.StatusServiceUnavailable, "Queue Unavailable", err.Error())
			return
		}
		infos := make([]queueInfo, 0, len(names))
		for _, name := range names {
			qi, err := h.inspector.GetQueueInfo(name)
			if err != nil {
				continue
			}
			infos = append(infos, queueInfo{
				Name:      qi.Queue,
				Size:      qi.Size,
				Pending:   qi.Pending,
				Active:    qi.Active,
				Retry:     qi.Retry,
				Archived:  qi.Archived,
				Processed: qi.Processed,
				Failed:    qi.Failed,
			})
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"queues": infos})
	}
}
