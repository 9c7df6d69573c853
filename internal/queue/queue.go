package queue

import (
	"context"
	"encoding/json"
	"fmt"
)

// Task is the work-distribution payload: a job reference, never the full
// record. Workers re-read the canonical row before doing anything.
type Task struct {
	JobID   string         `json:"job_id"`
	ModelID string         `json:"model_id"`
	Params  map[string]any `json:"params,omitempty"`
}

// Delivery is one received task plus its acknowledgement hook. Delivery is
// at-least-once: the same job id may arrive more than once and consumers must
// absorb duplicates.
type Delivery struct {
	Task Task
	Ack  func() error
}

// Publisher hands job references to the broker.
type Publisher interface {
	Publish(ctx context.Context, task Task) error
	Close() error
}

// Consumer receives job references from the broker.
type Consumer interface {
	Consume(ctx context.Context) (<-chan Delivery, error)
	Close() error
}

func encodeTask(task Task) ([]byte, error) {
	if task.JobID == "" {
		return nil, fmt.Errorf("queue: task requires a job id")
	}
	return json.Marshal(task)
}

func decodeTask(body []byte) (Task, error) {
	var task Task
	if err := json.Unmarshal(body, &task); err != nil {
		return Task{}, fmt.Errorf("queue: decode task: %w", err)
	}
	if task.JobID == "" {
		return Task{}, fmt.Errorf("queue: task missing job id")
	}
	return task, nil
}
