package main

import (
	"fmt"

	"github.com/tgsim/tgsim/graph"
	"github.com/tgsim/tgsim/ifvertex"
	"github.com/tgsim/tgsim/interconnect"
	"github.com/tgsim/tgsim/kernel"
	"github.com/tgsim/tgsim/monitoring"
	"github.com/tgsim/tgsim/tracing"
	"github.com/tgsim/tgsim/vertexops"
)

// scenario builds one of the canned example graphs named in
// SPEC_FULL.md §8 and returns a function that kicks off the drivers
// that feed it once the kernel starts running.
type scenario struct {
	name        string
	description string
	build       func(k *kernel.Kernel, m *monitoring.Monitor, tr tracing.Tracer) (drive func(f *kernel.Fiber))
}

var scenarios = map[string]scenario{
	"and-gate":    andGateScenario,
	"arbitration": arbitrationScenario,
	"if-vertex":   ifVertexScenario,
	"interconnect": interconnectScenario,
}

// scenarioNames lists the registered scenarios in a stable order, for
// help text and "unknown scenario" error messages.
func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for _, n := range []string{"and-gate", "arbitration", "if-vertex", "interconnect"} {
		names = append(names, n)
	}
	return names
}

// andGateScenario is end-to-end scenario 1: two sources feed a BitAnd
// vertex; 0xF0 & 0x0F publishes 0x00 five nanoseconds after both
// sources fire.
var andGateScenario = scenario{
	name:        "and-gate",
	description: "two-input AND: S1=0xF0, S2=0x0F into a BitAnd vertex, latency 5ns",
	build: func(k *kernel.Kernel, m *monitoring.Monitor, tr tracing.Tracer) func(f *kernel.Fiber) {
		unit := graph.NewProcessingUnit("U", 0)
		if m != nil {
			m.RegisterProcessingUnit(unit)
		}

		s1 := graph.NewSubject(k.SubjectIDAllocator(), "S1")
		s2 := graph.NewSubject(k.SubjectIDAllocator(), "S2")

		v := unit.AddVertex(k, 0, "V", 0, 5*kernel.Nanosecond, vertexops.BitAnd)
		unit.Connect(s1, v, v.InputObserverID(0), 0)
		unit.Connect(s2, v, v.InputObserverID(1), 1)

		out := kernel.NewEvent("V.out")
		var published any
		v.Subject().Register(graph.NewValueObserver(out, &published), 0)

		k.Spawn("printer", func(f *kernel.Fiber) {
			f.WaitEvent(out)
			fmt.Printf("V published %#02x at t=%v\n", published, f.Kernel().Now())
		})

		return func(f *kernel.Fiber) {
			task := tracing.Task{ID: "and-gate", Kind: "scenario", What: "and-gate", Where: unit.Name(), StartTime: f.Kernel().Now()}
			if tr != nil {
				tr.StartTask(task)
			}

			s1.NotifyObservers(f.Kernel(), 0, uint8(0xF0))
			s2.NotifyObservers(f.Kernel(), 0, uint8(0x0F))

			f.WaitEvent(out)
			task.EndTime = f.Kernel().Now()
			if tr != nil {
				tr.EndTask(task)
			}
		}
	},
}

// arbitrationScenario is end-to-end scenario 2: two vertices on the
// same unit, both ready at t=0; the first elaborated wins the core and
// the second pays both latencies.
var arbitrationScenario = scenario{
	name:        "arbitration",
	description: "two Add vertices sharing a unit, both ready at t=0, 10ns latency each",
	build: func(k *kernel.Kernel, m *monitoring.Monitor, tr tracing.Tracer) func(f *kernel.Fiber) {
		unit := graph.NewProcessingUnit("U", 0)
		if m != nil {
			m.RegisterProcessingUnit(unit)
		}

		s1 := graph.NewSubject(k.SubjectIDAllocator(), "S1")
		s2 := graph.NewSubject(k.SubjectIDAllocator(), "S2")
		s3 := graph.NewSubject(k.SubjectIDAllocator(), "S3")

		v1 := unit.AddVertex(k, 0, "V1", 0, 10*kernel.Nanosecond, vertexops.Add)
		v2 := unit.AddVertex(k, 1, "V2", 0, 10*kernel.Nanosecond, vertexops.Add)

		unit.Connect(s1, v1, v1.InputObserverID(0), 0)
		unit.Connect(s2, v1, v1.InputObserverID(1), 1)
		unit.Connect(s2, v2, v2.InputObserverID(0), 0)
		unit.Connect(s3, v2, v2.InputObserverID(1), 1)

		v1Out := kernel.NewEvent("V1.out")
		v2Out := kernel.NewEvent("V2.out")
		var v1Val, v2Val any
		v1.Subject().Register(graph.NewValueObserver(v1Out, &v1Val), 0)
		v2.Subject().Register(graph.NewValueObserver(v2Out, &v2Val), 0)

		k.Spawn("v1printer", func(f *kernel.Fiber) {
			f.WaitEvent(v1Out)
			fmt.Printf("V1 published %v at t=%v\n", v1Val, f.Kernel().Now())
		})
		k.Spawn("v2printer", func(f *kernel.Fiber) {
			f.WaitEvent(v2Out)
			fmt.Printf("V2 published %v at t=%v\n", v2Val, f.Kernel().Now())
		})

		return func(f *kernel.Fiber) {
			s1.NotifyObservers(f.Kernel(), 0, 1)
			s2.NotifyObservers(f.Kernel(), 0, 2)
			s3.NotifyObservers(f.Kernel(), 0, 3)

			f.Wait(kernel.NewAndList(v1Out, v2Out))
		}
	},
}

// ifVertexScenario is end-to-end scenario 4: an if-vertex whose
// then-path contains a PostDec write-back on slot 0, passthrough on
// slot 1.
var ifVertexScenario = scenario{
	name:        "if-vertex",
	description: "if-vertex with a PostDec then-path write-back on slot 0",
	build: func(k *kernel.Kernel, m *monitoring.Monitor, tr tracing.Tracer) func(f *kernel.Fiber) {
		unit := graph.NewProcessingUnit("U", 0)
		if m != nil {
			m.RegisterProcessingUnit(unit)
		}

		cond := graph.NewSubject(k.SubjectIDAllocator(), "cond")
		iv := ifvertex.New(k, unit, 0, "IV", 0, 0, 2, cond)

		p := iv.AddVertexToThen(k, 0, "P", 0, 2*kernel.Nanosecond, vertexops.PostDec)
		iv.ConnectToThenDependency(0, p.InputObserverID(0), 0)
		iv.RegisterThenOutDependency(0, 0, 0)

		aOut := kernel.NewEvent("IV.a")
		bOut := kernel.NewEvent("IV.b")
		var aVal, bVal any
		iv.Subject().Register(graph.NewValueObserver(aOut, &aVal), 0)
		iv.Subject().Register(graph.NewValueObserver(bOut, &bVal), 1)

		k.Spawn("aprinter", func(f *kernel.Fiber) {
			f.WaitEvent(aOut)
			fmt.Printf("IV slot 0 published %v at t=%v\n", aVal, f.Kernel().Now())
		})
		k.Spawn("bprinter", func(f *kernel.Fiber) {
			f.WaitEvent(bOut)
			fmt.Printf("IV slot 1 published %v at t=%v\n", bVal, f.Kernel().Now())
		})

		return func(f *kernel.Fiber) {
			cond.NotifyObservers(f.Kernel(), 0, true)
			iv.DeliverInput(f.Kernel(), 0, 7)
			iv.DeliverInput(f.Kernel(), 1, 11)

			f.Wait(kernel.NewAndList(aOut, bOut))
		}
	},
}

// interconnectScenario is end-to-end scenario 6: two transactions
// target the same outgoing link, ready simultaneously; the second only
// starts once the first's link occupancy clears.
var interconnectScenario = scenario{
	name:        "interconnect",
	description: "two transactions contend for the same outgoing link",
	build: func(k *kernel.Kernel, m *monitoring.Monitor, tr tracing.Tracer) func(f *kernel.Fiber) {
		ic := interconnect.New(k, "IC", 2, 1, 0, 0, 0, 1*kernel.Nanosecond)
		ic.SetTransmissionData(0, interconnect.TransmissionData{OutLink: 0, DeltaX: 1, DeltaY: 0, DestValueID: 0})
		ic.SetTransmissionData(1, interconnect.TransmissionData{OutLink: 0, DeltaX: 1, DeltaY: 0, DestValueID: 0})

		if m != nil {
			m.RegisterLink("IC.link0", interconnect.NewSocketManager())
		}

		src := graph.NewSubject(k.SubjectIDAllocator(), "src")
		src.Register(ic.Observer(0), 0)
		src.Register(ic.Observer(1), 1)

		return func(f *kernel.Fiber) {
			src.NotifyObservers(f.Kernel(), 0, interconnect.Descriptor{Data: 1, Length: 1})
			src.NotifyObservers(f.Kernel(), 1, interconnect.Descriptor{Data: 2, Length: 1})

			firstLinkID := 0
			queued := ic.RequestLink(f.Kernel(), firstLinkID, kernel.NewEvent("first.go"))
			fmt.Printf("first transaction queued=%v at t=%v\n", queued, f.Kernel().Now())

			secondLinkID := 0
			queued = ic.RequestLink(f.Kernel(), secondLinkID, kernel.NewEvent("second.go"))
			fmt.Printf("second transaction queued=%v at t=%v\n", queued, f.Kernel().Now())

			ic.ReleaseLink(f.Kernel(), firstLinkID)
			fmt.Printf("first transaction released link at t=%v\n", f.Kernel().Now())
		}
	},
}
