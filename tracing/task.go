package tracing

import "github.com/tgsim/tgsim/kernel"

// A TaskStep represents a milestone in the processing of a task.
type TaskStep struct {
	Time kernel.VTime `json:"time"`
	What string       `json:"what"`
}

// A Task records one unit of traced work, as described by whoever reports
// it: its kind, what it did, where it ran, and when it started and ended.
type Task struct {
	ID         string       `json:"id"`
	ParentID   string       `json:"parent_id"`
	Kind       string       `json:"kind"`
	What       string       `json:"what"`
	Where      string       `json:"where"`
	StartTime  kernel.VTime `json:"start_time"`
	EndTime    kernel.VTime `json:"end_time"`
	Steps      []TaskStep   `json:"steps"`
	ParentTask *Task        `json:"-"`
}

// TaskFilter is a function that can filter interesting tasks. If this
// function returns true, the task is considered useful.
type TaskFilter func(t Task) bool
