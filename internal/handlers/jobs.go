package handlers

import (
	"errors"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

func GetJobStatus(c echo.Context) error {
	taskID := c.Param("id")

	info, err := taskStatus(taskID)
	if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Job not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get job status"})
	}

	resp := map[string]interface{}{
		"id":        info.ID,
		"queue":     info.Queue,
		"type":      info.Type,
		"state":     info.State.String(),
		"max_retry": info.MaxRetry,
		"retried":   info.Retried,
	}
	if info.LastErr != "" {
		resp["last_error"] = info.LastErr
	}
	if !info.CompletedAt.IsZero() {
		resp["completed_at"] = info.CompletedAt
	}

	return c.JSON(http.StatusOK, resp)
}
