package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"phishing-paper-platform/internal/logger"
	"phishing-paper-platform/internal/rag"
)

const TaskReindexContent = "content:reindex"

type ReindexPayload struct {
	RequestedBy string `json:"requested_by,omitempty"`
}

func NewReindexTask(requestedBy string) (*asynq.Task, error) {
	payload, err := json.Marshal(ReindexPayload{RequestedBy: requestedBy})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskReindexContent,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Queue("default"),
	), nil
}

// TaskProcessor runs queued jobs against the retrieval pipeline.
type TaskProcessor struct {
	retriever *rag.Retriever
	log       *slog.Logger
}

func NewTaskProcessor(retriever *rag.Retriever) *TaskProcessor {
	return &TaskProcessor{
		retriever: retriever,
		log:       logger.With("component", "queue"),
	}
}

func (p *TaskProcessor) HandleReindexContent(ctx context.Context, t *asynq.Task) error {
	var payload ReindexPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %w", asynq.SkipRetry)
	}

	p.log.Info("Queued re-index starting", "requested_by", payload.RequestedBy)

	report, err := p.retriever.IngestAll(ctx)
	if err != nil {
		return fmt.Errorf("re-index failed: %w", err)
	}

	if len(report.Failures) > 0 {
		p.log.Warn("Queued re-index finished with failures",
			"documents_processed", report.DocumentsProcessed,
			"failures", len(report.Failures))
	}
	return nil
}
