package apihandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"modgate/internal/app"
	"modgate/internal/models"
	"modgate/internal/tasks"
)

// maxBatchItems caps how many items one batch request may enqueue.
const maxBatchItems = 100

type APIHandler struct {
	App *app.App
}

func NewAPIHandler(app *app.App) *APIHandler {
	return &APIHandler{App: app}
}

// ModerateHandler classifies a single item synchronously.
func (h *APIHandler) ModerateHandler(c *gin.Context) {
	item, err := parseItemRequest(c)
	if err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	verdict, err := h.App.ModerationService.Moderate(c.Request.Context(), item)
	if err != nil {
		h.respondModerationError(c, err)
		return
	}
	c.JSON(http.StatusOK, verdict)
}

// parseItemRequest parses and validates the moderation request body.
func parseItemRequest(c *gin.Context) (models.Item, error) {
	var item models.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		return item, err
	}
	if !item.Type.Valid() {
		return item, fmt.Errorf("type must be one of chat, video_title, video_caption, video_frame_auto")
	}
	// Empty text is valid input; it simply fails no precheck.
	return item, nil
}

// respondModerationError maps pipeline error kinds to the HTTP contract:
// 400 malformed item, 502 generation parse failure (with raw output), 500
// schema violation (with the offending object), 503 upstream unavailable,
// 504 generation timeout.
func (h *APIHandler) respondModerationError(c *gin.Context, err error) {
	var parseErr *models.GenerationParseError
	var schemaErr *models.SchemaViolationError
	switch {
	case errors.Is(err, models.ErrMalformedItem):
		BadRequest(c, err.Error())
	case errors.As(err, &parseErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      APIError{Code: models.ErrorCode(err), Message: parseErr.Error()},
			"raw_output": parseErr.RawOutput,
		})
	case errors.As(err, &schemaErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      APIError{Code: models.ErrorCode(err), Message: "generation output failed verdict validation"},
			"object":     schemaErr.Object,
			"violations": schemaErr.Violations,
		})
	case errors.Is(err, models.ErrGenerationTimeout):
		GatewayTimeout(c, models.ErrorCode(err), "generation call exceeded its deadline")
	case errors.Is(err, models.ErrUpstreamUnavailable), errors.Is(err, models.ErrProviderDisabled):
		ServiceUnavailable(c, models.ErrorCode(err), "generation provider is unavailable")
	default:
		Internal(c, fmt.Sprintf("moderation failed: %v", err))
	}
}

// BatchModerateRequest is the JSON body for batch moderation.
type BatchModerateRequest struct {
	Items []models.Item `json:"items"`
}

// BatchModerateHandler enqueues one moderation task per item and returns the
// batch and task identifiers. Requires redis to be configured.
func (h *APIHandler) BatchModerateHandler(c *gin.Context) {
	if h.App.JobClient == nil {
		ServiceUnavailable(c, "batch_disabled", "batch moderation requires redis to be configured")
		return
	}

	var req BatchModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Items) == 0 {
		BadRequest(c, "items must not be empty")
		return
	}
	if len(req.Items) > maxBatchItems {
		BadRequest(c, fmt.Sprintf("at most %d items per batch", maxBatchItems))
		return
	}
	for i, item := range req.Items {
		if !item.Type.Valid() {
			BadRequest(c, fmt.Sprintf("items[%d]: invalid type %q", i, item.Type))
			return
		}
	}

	batchID := uuid.NewString()
	taskIDs := make([]string, 0, len(req.Items))
	for i, item := range req.Items {
		task, err := tasks.NewModerationItemTask(tasks.ModerationItemPayload{
			BatchID: batchID,
			Index:   i,
			Item:    item,
		}, asynq.Retention(app.TaskRetention))
		if err != nil {
			Internal(c, fmt.Sprintf("failed to build task for items[%d]: %v", i, err))
			return
		}
		info, err := h.App.JobClient.EnqueueContext(c.Request.Context(), task)
		if err != nil {
			Internal(c, fmt.Sprintf("failed to enqueue items[%d]: %v", i, err))
			return
		}
		taskIDs = append(taskIDs, info.ID)
	}

	c.JSON(http.StatusAccepted, gin.H{
		"batch_id": batchID,
		"task_ids": taskIDs,
	})
}

// BatchStatusHandler reports the state of one batch task, including its
// stored result once finished.
func (h *APIHandler) BatchStatusHandler(c *gin.Context) {
	if h.App.Inspector == nil {
		ServiceUnavailable(c, "batch_disabled", "batch moderation requires redis to be configured")
		return
	}

	taskID := c.Param("task_id")
	info, err := h.App.Inspector.GetTaskInfo("default", taskID)
	if err != nil {
		NotFound(c, fmt.Sprintf("task not found: %s", taskID))
		return
	}

	resp := gin.H{
		"task_id": info.ID,
		"state":   info.State.String(),
	}
	if len(info.Result) > 0 {
		resp["result"] = json.RawMessage(info.Result)
	}
	if info.LastErr != "" {
		resp["last_error"] = info.LastErr
	}
	c.JSON(http.StatusOK, resp)
}

// UsageHandler returns generation usage totals for this process.
func (h *APIHandler) UsageHandler(c *gin.Context) {
	summary, err := h.App.UsageTracker.Totals(c.Request.Context())
	if err != nil {
		Internal(c, fmt.Sprintf("failed to read usage totals: %v", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": summary})
}
