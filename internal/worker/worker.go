package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"jsoncompare/internal/compare"
	"jsoncompare/internal/db"
	"jsoncompare/internal/queue"
	"jsoncompare/internal/tree"
)

type Worker struct {
	server      *asynq.Server
	concurrency int
}

func NewWorker(redisAddr string, concurrency int) *Worker {
	redisOpt := asynq.RedisClientOpt{
		Addr: redisAddr,
	}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				queue.QueueComparisons: 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(handleTaskError),
		},
	)

	return &Worker{
		server:      server,
		concurrency: concurrency,
	}
}

func (w *Worker) Start(ctx context.Context) error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskCompareDocuments, w.handleComparison)

	slog.Info("Starting worker",
		"queues", []string{queue.QueueComparisons},
		"concurrency", w.concurrency)

	if err := w.server.Start(mux); err != nil {
		return err
	}

	slog.Info("Worker started successfully")

	<-ctx.Done()

	w.server.Shutdown()
	slog.Info("Worker stopped")
	return nil
}

func (w *Worker) handleComparison(ctx context.Context, t *asynq.Task) error {
	var payload queue.ComparisonPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid comparison payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.ComparisonID == "" {
		return fmt.Errorf("comparison payload without id: %w", asynq.SkipRetry)
	}

	return Process(ctx, payload.ComparisonID)
}

func handleTaskError(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	slog.Error("Task failed", "type", task.Type(), "retried", retried, "max_retry", maxRetry, "error", err)

	if task.Type() == queue.TaskCompareDocuments {
		failExhausted(task, err, retried, maxRetry)
	}
}

// failExhausted marks the task's comparison failed once asynq will not run it
// again. SkipRetry errors are left alone: Process has already recorded them.
func failExhausted(task *asynq.Task, err error, retried, maxRetry int) {
	if retried < maxRetry || errors.Is(err, asynq.SkipRetry) {
		return
	}

	var payload queue.ComparisonPayload
	if json.Unmarshal(task.Payload(), &payload) != nil || payload.ComparisonID == "" {
		return
	}

	if failErr := db.FailComparison(payload.ComparisonID, err.Error()); failErr != nil {
		slog.Error("failed to mark comparison failed", "error", failErr, "comparison_id", payload.ComparisonID)
		return
	}
	slog.Warn("Comparison failed after retries", "comparison_id", payload.ComparisonID, "retried", retried)
}

// errPermanent marks failures that a retry cannot fix.
var errPermanent = errors.New("permanent failure")

// Process runs a stored comparison and records its outcome. Database errors
// are returned as is so the task is retried; problems with the documents
// themselves fail the comparison for good.
func Process(ctx context.Context, comparisonID string) error {
	c, err := db.GetComparison(comparisonID)
	if errors.Is(err, db.ErrComparisonNotFound) {
		slog.Warn("Comparison no longer exists", "comparison_id", comparisonID)
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	if err != nil {
		return err
	}

	if c.Status == db.StatusCompleted {
		slog.Info("Comparison already completed", "comparison_id", comparisonID)
		return nil
	}

	if err := db.MarkComparisonRunning(comparisonID); err != nil {
		return err
	}

	results, err := run(ctx, c)
	if errors.Is(err, errPermanent) {
		slog.Error("Comparison failed", "comparison_id", comparisonID, "error", err)
		if failErr := db.FailComparison(comparisonID, err.Error()); failErr != nil {
			return failErr
		}
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	if err != nil {
		return err
	}

	if err := db.CompleteComparison(comparisonID, results); err != nil {
		return err
	}

	attrs := []any{"comparison_id", comparisonID}
	for _, res := range results {
		attrs = append(attrs, string(res.Mode)+"_matched", res.Matched, string(res.Mode)+"_total", res.Total)
	}
	slog.Info("Successfully processed comparison", attrs...)
	return nil
}

func run(ctx context.Context, c *db.Comparison) ([]*compare.Result, error) {
	left, err := loadTree(c.LeftDocumentID)
	if err != nil {
		return nil, err
	}
	right, err := loadTree(c.RightDocumentID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results, err := compare.Run(c.Mode, left, right)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errPermanent, err)
	}
	return results, nil
}

func loadTree(id int64) (*tree.Node, error) {
	doc, err := db.GetDocument(id)
	if errors.Is(err, db.ErrDocumentNotFound) {
		return nil, fmt.Errorf("%w: document %d: %w", errPermanent, id, err)
	}
	if err != nil {
		return nil, err
	}

	node, err := doc.Tree()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errPermanent, err)
	}
	return node, nil
}
