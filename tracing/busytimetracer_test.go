package tracing

import (
	"fmt"

	"github.com/tgsim/tgsim/kernel"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gmeasure"
)

var _ = Describe("BusyTimeTracer", func() {
	var (
		t *BusyTimeTracer
	)

	BeforeEach(func() {
		t = NewBusyTimeTracer(nil)
	})

	It("should track busy time, one task", func() {
		t.StartTask(Task{ID: "1", StartTime: 1})
		t.EndTask(Task{ID: "1", EndTime: 2})

		Expect(t.BusyTime()).To(Equal(kernel.VTime(1.0)))
	})

	It("should track busy time, two tasks", func() {
		t.StartTask(Task{ID: "1", StartTime: 1})
		t.EndTask(Task{ID: "1", EndTime: 2})

		t.StartTask(Task{ID: "2", StartTime: 3})
		t.EndTask(Task{ID: "2", EndTime: 4})

		Expect(t.BusyTime()).To(Equal(kernel.VTime(2.0)))
	})

	It("should track busy time, two tasks adjacent", func() {
		t.StartTask(Task{ID: "1", StartTime: 1})
		t.EndTask(Task{ID: "1", EndTime: 2})

		t.StartTask(Task{ID: "2", StartTime: 2})
		t.EndTask(Task{ID: "2", EndTime: 3})

		Expect(t.BusyTime()).To(Equal(kernel.VTime(2.0)))
	})

	It("should track busy time, two tasks overlap", func() {
		t.StartTask(Task{ID: "1", StartTime: 1})
		t.StartTask(Task{ID: "2", StartTime: 1.5})
		t.EndTask(Task{ID: "1", EndTime: 2})
		t.EndTask(Task{ID: "2", EndTime: 2.5})

		Expect(t.BusyTime()).To(Equal(kernel.VTime(1.5)))
	})

	It("should track busy time, four tasks", func() {
		t.StartTask(Task{ID: "1", StartTime: 1})
		t.StartTask(Task{ID: "2", StartTime: 1.1})
		t.EndTask(Task{ID: "2", EndTime: 1.2})
		t.StartTask(Task{ID: "3", StartTime: 1.9})
		t.EndTask(Task{ID: "1", EndTime: 2})
		t.EndTask(Task{ID: "3", EndTime: 2.1})
		t.StartTask(Task{ID: "4", StartTime: 3.1})
		t.EndTask(Task{ID: "4", EndTime: 3.2})

		Expect(t.BusyTime()).To(BeNumerically("~", 1.2))
	})

	It("should be able to terminate all the tasks", func() {
		t.StartTask(Task{ID: "1", StartTime: 1})
		t.StartTask(Task{ID: "2", StartTime: 1.1})
		t.StartTask(Task{ID: "3", StartTime: 1.9})
		t.EndTask(Task{ID: "3", EndTime: 2.1})

		t.TerminateAllTasks(3.5)

		Expect(t.BusyTime()).To(BeNumerically("~", 2.5, 0.01))
	})

	It("measure busy time tracer", func() {
		experiment := gmeasure.NewExperiment("Busy Time Tracer Performance")
		AddReportEntry(experiment.Name, experiment)

		experiment.MeasureDuration("runtime", func() {
			for i := 0; i < 10000; i++ {
				taskID := fmt.Sprintf("%d", i)

				t.StartTask(Task{
					ID:        taskID,
					StartTime: kernel.VTime(i * 2),
				})

				t.EndTask(Task{
					ID:      taskID,
					EndTime: kernel.VTime(i*2 + 1),
				})
			}

			Expect(t.BusyTime()).To(BeNumerically("~", 10000, 0.01))
		})
	})
})
