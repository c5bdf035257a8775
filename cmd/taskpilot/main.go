// Package main implements the taskpilot command line client. It talks
// to a running taskpilot server over its HTTP API and prints results as
// text or JSON.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &clientOptions{}

	root := &cobra.Command{
		Use:   "taskpilot",
		Short: "Client for the taskpilot task orchestration server",
		Long: `taskpilot drives a running taskpilot server: it can log in,
batch similar tasks into groups, infer task dependencies, reprioritize
the task list, and print a pomodoro schedule.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.serverURL, "server",
		envOr("TASKPILOT_SERVER", "http://localhost:8080"),
		"base URL of the taskpilot server")
	root.PersistentFlags().StringVar(&opts.token, "token",
		os.Getenv("TASKPILOT_TOKEN"),
		"bearer token (defaults to TASKPILOT_TOKEN)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false,
		"print raw JSON responses")

	root.AddCommand(
		newLoginCmd(opts),
		newBatchCmd(opts),
		newDepsCmd(opts),
		newPrioritizeCmd(opts),
		newPomodoroCmd(opts),
	)

	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
