package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"jsoncompare/internal/auth"
	"jsoncompare/internal/compare"
	"jsoncompare/internal/db"
	"jsoncompare/internal/queue"
)

type CreateComparisonRequest struct {
	LeftID  int64  `json:"left_id" validate:"required,gt=0"`
	RightID int64  `json:"right_id" validate:"required,gt=0"`
	Mode    string `json:"mode" validate:"omitempty,oneof=structure content both"`
}

// CreateComparison queues a comparison of two stored documents.
func CreateComparison(c echo.Context) error {
	var req CreateComparisonRequest
	if err := bindAndValidate(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if req.Mode == "" {
		req.Mode = string(compare.ModeBoth)
	}

	for _, id := range []int64{req.LeftID, req.RightID} {
		if _, err := db.GetDocument(id); err != nil {
			if errors.Is(err, db.ErrDocumentNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": fmt.Sprintf("Document %d not found", id)})
			}
			slog.Error("failed to get document", "error", err, "document_id", id)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create comparison"})
		}
	}

	comparison := &db.Comparison{
		ID:              uuid.NewString(),
		LeftDocumentID:  req.LeftID,
		RightDocumentID: req.RightID,
		Mode:            req.Mode,
	}
	if subject := auth.Subject(c); subject != "" {
		comparison.RequestedBy = &subject
	}

	if err := db.CreateComparison(comparison); err != nil {
		slog.Error("failed to create comparison", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create comparison"})
	}

	taskID, err := enqueueComparison(queue.ComparisonPayload{ComparisonID: comparison.ID})
	if err != nil {
		slog.Error("failed to enqueue comparison", "error", err, "comparison_id", comparison.ID)
		if failErr := db.FailComparison(comparison.ID, "failed to enqueue comparison"); failErr != nil {
			slog.Error("failed to mark comparison failed", "error", failErr, "comparison_id", comparison.ID)
		}
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Failed to queue comparison"})
	}

	if err := db.SetComparisonTask(comparison.ID, taskID); err != nil {
		slog.Warn("failed to record task id", "error", err, "comparison_id", comparison.ID, "task_id", taskID)
	}

	return c.JSON(http.StatusAccepted, map[string]string{
		"comparison_id": comparison.ID,
		"task_id":       taskID,
		"status":        db.StatusQueued,
	})
}

func GetComparison(c echo.Context) error {
	comparison, err := db.GetComparison(c.Param("id"))
	if errors.Is(err, db.ErrComparisonNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Comparison not found"})
	}
	if err != nil {
		slog.Error("failed to get comparison", "error", err, "comparison_id", c.Param("id"))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve comparison"})
	}

	return c.JSON(http.StatusOK, comparison)
}

// GetComparisonMismatches pages through a comparison's stored mismatches,
// optionally filtered by mode and by a path substring.
func GetComparisonMismatches(c echo.Context) error {
	comparisonID := c.Param("id")

	mode := c.QueryParam("mode")
	if mode != "" && mode != string(compare.ModeStructure) && mode != string(compare.ModeContent) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "mode must be structure or content"})
	}

	if _, err := db.GetComparison(comparisonID); err != nil {
		if errors.Is(err, db.ErrComparisonNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Comparison not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve mismatches"})
	}

	page := getPage(c)
	pageSize := getPageSize(c)

	records, total, err := db.GetMismatches(db.MismatchFilter{
		ComparisonID: comparisonID,
		Mode:         mode,
		PathContains: c.QueryParam("path"),
		Limit:        pageSize,
		Offset:       (page - 1) * pageSize,
	})
	if err != nil {
		slog.Error("failed to get mismatches", "error", err, "comparison_id", comparisonID)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve mismatches"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"comparison_id": comparisonID,
		"data":          records,
		"pagination":    pagination(page, pageSize, total),
	})
}
