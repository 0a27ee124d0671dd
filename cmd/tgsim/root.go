package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tgsim",
	Short: "tgsim runs canned task-graph simulation scenarios.",
	Long: `tgsim builds one of a handful of canned task-graph scenarios and ` +
		`drives it to completion through the virtual-time kernel, optionally ` +
		`exposing a live monitoring dashboard while it runs.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Loading .env before Execute lets TGSIM_* overrides
// reach the subcommands' flag defaults.
func Execute() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "tgsim: loading .env: %s\n", err)
	}

	if v, ok := os.LookupEnv("TGSIM_TRACE_DB"); ok {
		traceDBPath = v
	}
	if v, err := strconv.Atoi(os.Getenv("TGSIM_MONITOR_PORT")); err == nil {
		monitorPort = v
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
