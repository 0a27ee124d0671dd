package tracing

// A Tracer collects task traces: the caller reports StartTask when a task
// begins, optionally StepTask at intermediate milestones, and EndTask
// when it ends. Compute vertices and if-vertices do not report to a
// Tracer themselves.
type Tracer interface {
	StartTask(task Task)
	StepTask(task Task)
	EndTask(task Task)
}
