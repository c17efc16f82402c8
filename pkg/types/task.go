// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// TaskStatus is the lifecycle state of a summarization task.
type TaskStatus string

const (
	TaskQueued     TaskStatus = "queued"
	TaskProcessing TaskStatus = "processing"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
	TaskCancelled  TaskStatus = "cancelled"
)

// Terminal reports whether s is absorbing.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed || s == TaskCancelled
}

// rank orders statuses so transitions can be checked for regression.
func (s TaskStatus) rank() int {
	switch s {
	case TaskQueued:
		return 0
	case TaskProcessing:
		return 1
	default:
		return 2
	}
}

// CanTransition reports whether a task may move from s to next. Terminal
// states accept no transition; processing may repeat to report progress.
func (s TaskStatus) CanTransition(next TaskStatus) bool {
	if s.Terminal() {
		return false
	}
	if s == TaskProcessing && next == TaskProcessing {
		return true
	}
	return next.rank() > s.rank()
}

// Task is a snapshot of one unit of summarization work. Snapshots handed to
// readers are copies; Result is shared but never mutated after completion.
type Task struct {
	// ID is the task identifier returned by Submit.
	ID string `json:"id" yaml:"id"`

	// Status is the lifecycle state.
	Status TaskStatus `json:"status" yaml:"status"`

	// Progress is a percentage in [0,100], non-decreasing over the task's life.
	Progress int `json:"progress" yaml:"progress"`

	// Message describes the current stage.
	Message string `json:"message" yaml:"message"`

	// Result is set only when Status is completed.
	Result *PaperSummary `json:"result,omitempty" yaml:"result,omitempty"`

	// Error is a caller-safe failure description, set only when Status is failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}
