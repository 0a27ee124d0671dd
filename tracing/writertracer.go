package tracing

import "sync"

// A TaskWriter persists a finished Task. SQLiteTraceWriter and
// CSVTraceWriter are the two TaskWriters in this package.
type TaskWriter interface {
	Write(task Task)
}

// WriterTracer adapts a TaskWriter to the Tracer interface: it pairs each
// StartTask with its matching EndTask, the way BackTraceTracer and the
// time tracers in this package all track in-flight tasks by ID, then
// hands the completed Task to the writer.
type WriterTracer struct {
	writer   TaskWriter
	lock     sync.Mutex
	inflight map[string]Task
}

// NewWriterTracer creates a WriterTracer writing completed tasks to w.
func NewWriterTracer(w TaskWriter) *WriterTracer {
	return &WriterTracer{
		writer:   w,
		inflight: make(map[string]Task),
	}
}

// StartTask records the task as in flight.
func (t *WriterTracer) StartTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.inflight[task.ID] = task
}

// StepTask does nothing: WriterTracer only persists completed tasks.
func (t *WriterTracer) StepTask(_ Task) {}

// EndTask closes out the matching in-flight task and writes it.
func (t *WriterTracer) EndTask(task Task) {
	t.lock.Lock()
	original, ok := t.inflight[task.ID]
	if !ok {
		t.lock.Unlock()
		return
	}
	delete(t.inflight, task.ID)
	t.lock.Unlock()

	original.EndTime = task.EndTime
	t.writer.Write(original)
}
