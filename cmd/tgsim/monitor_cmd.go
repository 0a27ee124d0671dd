package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/tgsim/tgsim/kernel"
	"github.com/tgsim/tgsim/monitoring"
	"github.com/tgsim/tgsim/tracing"
)

var monitorPort int

var monitorCmd = &cobra.Command{
	Use:       "monitor <scenario>",
	Short:     "Run a canned scenario with the live monitoring dashboard.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: scenarioNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, ok := scenarios[args[0]]
		if !ok {
			return fmt.Errorf("unknown scenario %q, want one of: %s",
				args[0], strings.Join(scenarioNames(), ", "))
		}

		k := kernel.NewKernel()
		m := monitoring.NewMonitor().WithPortNumber(monitorPort)
		m.RegisterKernel(k)

		var tr tracing.Tracer
		if traceDBPath != "" {
			w := tracing.NewSQLiteTraceWriter(traceDBPath)
			w.Init()
			tr = tracing.NewWriterTracer(w)
		}

		drive := sc.build(k, m, tr)

		boundPort := m.StartServer()

		if err := browser.OpenURL("http://localhost:" + strconv.Itoa(boundPort)); err != nil {
			fmt.Fprintf(os.Stderr, "tgsim: opening browser: %s\n", err)
		}

		k.Spawn("driver", drive)
		k.Run()

		fmt.Println("scenario finished; monitoring dashboard stays up until interrupted (Ctrl+C)")

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		return nil
	},
}

func init() {
	defaultPort, _ := strconv.Atoi(os.Getenv("TGSIM_MONITOR_PORT"))

	monitorCmd.Flags().IntVar(&monitorPort, "port", defaultPort,
		"monitoring server port (0 picks a random free port)")

	rootCmd.AddCommand(monitorCmd)
}
