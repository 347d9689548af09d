package tasks

// Defines constants and payloads for task types used in Asynq.

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"modgate/internal/models"
)

const (
	// TypeModerationItem is the task type for moderating one batch item.
	TypeModerationItem = "moderation:item"
)

// ModerationItemPayload is the payload for a TypeModerationItem task.
type ModerationItemPayload struct {
	BatchID string      `json:"batch_id"`
	Index   int         `json:"index"`
	Item    models.Item `json:"item"`
}

// NewModerationItemTask builds an Asynq task for one item of a batch.
func NewModerationItemTask(payload ModerationItemPayload, opts ...asynq.Option) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeModerationItem, data, opts...), nil
}
