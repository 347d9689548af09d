package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"modgate/internal/models"
	"modgate/internal/tasks"
)

// Moderator is the slice of the moderation service the worker needs.
type Moderator interface {
	Moderate(ctx context.Context, item models.Item) (*models.Verdict, error)
}

// ModerationDeps bundles the dependencies for the batch moderation handler.
type ModerationDeps struct {
	Moderator Moderator
}

// TaskResultError is the terminal-failure half of a task result.
type TaskResultError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TaskResult is what a finished moderation task stores through the Asynq
// result writer. Exactly one of Verdict and Error is set.
type TaskResult struct {
	BatchID string           `json:"batch_id"`
	Index   int              `json:"index"`
	Item    models.Item      `json:"item"`
	Verdict *models.Verdict  `json:"verdict,omitempty"`
	Error   *TaskResultError `json:"error,omitempty"`
}

// RegisterHandlers attaches the moderation task handlers to the mux.
func RegisterHandlers(mux *asynq.ServeMux, deps ModerationDeps) {
	mux.HandleFunc(tasks.TypeModerationItem, HandleModerationItem(deps))
}

// HandleModerationItem runs one batch item through the moderation pipeline.
// Transport-level generation failures are returned so Asynq retries the
// task; parse and schema failures are terminal and recorded as the task
// result instead, since re-running them is what the orchestrator already
// declined to do.
func HandleModerationItem(deps ModerationDeps) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload tasks.ModerationItemPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal moderation payload: %v: %w", err, asynq.SkipRetry)
		}

		verdict, err := deps.Moderator.Moderate(ctx, payload.Item)
		if err != nil {
			if errors.Is(err, models.ErrUpstreamUnavailable) || errors.Is(err, models.ErrGenerationTimeout) {
				return err // retryable
			}
			log.Warnf("Batch item %s[%d] failed terminally: %v", payload.BatchID, payload.Index, err)
			return writeResult(t, TaskResult{
				BatchID: payload.BatchID,
				Index:   payload.Index,
				Item:    payload.Item,
				Error:   &TaskResultError{Code: models.ErrorCode(err), Message: err.Error()},
			})
		}

		return writeResult(t, TaskResult{
			BatchID: payload.BatchID,
			Index:   payload.Index,
			Item:    payload.Item,
			Verdict: verdict,
		})
	}
}

func writeResult(t *asynq.Task, result TaskResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal task result: %v: %w", err, asynq.SkipRetry)
	}
	// ResultWriter is only attached to tasks dispatched by the server.
	if rw := t.ResultWriter(); rw != nil {
		if _, err := rw.Write(data); err != nil {
			return fmt.Errorf("write task result: %w", err)
		}
	}
	return nil
}
