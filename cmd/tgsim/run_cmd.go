package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgsim/tgsim/kernel"
	"github.com/tgsim/tgsim/tracing"
)

var traceDBPath string

var runCmd = &cobra.Command{
	Use:       "run <scenario>",
	Short:     "Build and run a canned scenario to completion.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: scenarioNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, ok := scenarios[args[0]]
		if !ok {
			return fmt.Errorf("unknown scenario %q, want one of: %s",
				args[0], strings.Join(scenarioNames(), ", "))
		}

		k := kernel.NewKernel()

		var tr tracing.Tracer
		if traceDBPath != "" {
			w := tracing.NewSQLiteTraceWriter(traceDBPath)
			w.Init()
			tr = tracing.NewWriterTracer(w)
		}

		drive := sc.build(k, nil, tr)
		k.Spawn("driver", drive)
		k.Run()

		return nil
	},
}

func init() {
	defaultTraceDB := os.Getenv("TGSIM_TRACE_DB")

	runCmd.Flags().StringVar(&traceDBPath, "trace-db", defaultTraceDB,
		"write a SQLite activation trace to this path (empty disables tracing)")

	rootCmd.AddCommand(runCmd)
}
