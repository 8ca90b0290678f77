package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	QueueComparisons     = "comparisons"
	TaskCompareDocuments = "comparison:run"
)

type ComparisonPayload struct {
	ComparisonID string `json:"comparison_id"`
}

var (
	client    *asynq.Client
	inspector *asynq.Inspector
)

// Init initializes the Redis connection for Asynq
func Init(redisAddr string) error {
	redisOpt := asynq.RedisClientOpt{
		Addr: redisAddr,
	}

	client = asynq.NewClient(redisOpt)
	inspector = asynq.NewInspector(redisOpt)

	if _, err := inspector.Queues(); err != nil {
		client.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Successfully initialized task queue", "redis_addr", redisAddr)
	return nil
}

// NewComparisonTask builds the task for a stored comparison. The comparison
// id doubles as the task id, so a comparison is queued at most once.
func NewComparisonTask(payload ComparisonPayload) (*asynq.Task, []asynq.Option, error) {
	if payload.ComparisonID == "" {
		return nil, nil, errors.New("comparison id is required")
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	opts := []asynq.Option{
		asynq.TaskID(payload.ComparisonID),
		asynq.Queue(QueueComparisons),
		asynq.MaxRetry(3),
		asynq.Timeout(5 * time.Minute),
		asynq.Retention(24 * time.Hour),
	}
	return asynq.NewTask(TaskCompareDocuments, payloadBytes), opts, nil
}

// EnqueueComparison queues a comparison and returns the task id.
func EnqueueComparison(payload ComparisonPayload) (string, error) {
	if client == nil {
		return "", errors.New("task queue is not initialized")
	}

	task, opts, err := NewComparisonTask(payload)
	if err != nil {
		return "", err
	}

	info, err := client.Enqueue(task, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue task: %w", err)
	}

	slog.Info("Enqueued comparison", "comparison_id", payload.ComparisonID, "task_id", info.ID)
	return info.ID, nil
}

// GetTaskStatus returns the current status of a task
func GetTaskStatus(taskID string) (*asynq.TaskInfo, error) {
	if inspector == nil {
		return nil, errors.New("task queue is not initialized")
	}

	info, err := inspector.GetTaskInfo(QueueComparisons, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task info: %w", err)
	}
	return info, nil
}

// Close closes the Redis connection
func Close() error {
	if inspector != nil {
		inspector.Close()
	}
	if client != nil {
		return client.Close()
	}
	return nil
}
