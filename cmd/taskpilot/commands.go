package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"
)

func newLoginCmd(opts *clientOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(opts)

			var resp struct {
				UserID string `json:"user_id"`
				Token  string `json:"token"`
			}
			_, err := client.do(http.MethodPost, "/api/auth/login", map[string]string{
				"email":    email,
				"password": password,
			}, &resp)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newBatchCmd(opts *clientOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "batch",
		Short: "Group batchable tasks into task groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(opts)
			if err := client.requireToken(); err != nil {
				return err
			}

			var groups []struct {
				ID    int64  `json:"id"`
				Name  string `json:"name"`
				Tasks []struct {
					ID    int64  `json:"id"`
					Title string `json:"title"`
				} `json:"tasks"`
			}
			raw, err := client.do(http.MethodPost, "/api/tasks/batch", nil, &groups)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), raw)
			}

			if len(groups) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No batchable tasks.")
				return nil
			}
			for _, g := range groups {
				fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s\n", g.ID, g.Name)
				for _, t := range g.Tasks {
					fmt.Fprintf(cmd.OutOrStdout(), "    #%d %s\n", t.ID, t.Title)
				}
			}
			return nil
		},
	}
}

func newDepsCmd(opts *clientOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "deps <task-id>",
		Short: "Infer and link dependencies for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || taskID <= 0 {
				return fmt.Errorf("invalid task ID %q", args[0])
			}

			client := newAPIClient(opts)
			if err := client.requireToken(); err != nil {
				return err
			}

			var task struct {
				ID           int64  `json:"id"`
				Title        string `json:"title"`
				Dependencies []struct {
					ID    int64  `json:"id"`
					Title string `json:"title"`
				} `json:"dependencies"`
			}
			path := fmt.Sprintf("/api/tasks/%d/dependencies/infer", taskID)
			raw, err := client.do(http.MethodPost, path, nil, &task)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), raw)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "#%d %s depends on:\n", task.ID, task.Title)
			if len(task.Dependencies) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "    (nothing)")
				return nil
			}
			for _, dep := range task.Dependencies {
				fmt.Fprintf(cmd.OutOrStdout(), "    #%d %s\n", dep.ID, dep.Title)
			}
			return nil
		},
	}
}

func newPrioritizeCmd(opts *clientOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "prioritize",
		Short: "Reprioritize tasks and print them in priority order",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(opts)
			if err := client.requireToken(); err != nil {
				return err
			}

			var tasks []struct {
				ID       int64  `json:"id"`
				Title    string `json:"title"`
				Priority string `json:"priority"`
				DueDate  string `json:"due_date"`
			}
			raw, err := client.do(http.MethodPost, "/api/tasks/prioritize", nil, &tasks)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), raw)
			}

			for i, t := range tasks {
				line := fmt.Sprintf("%2d. [%s] #%d %s", i+1, t.Priority, t.ID, t.Title)
				if t.DueDate != "" {
					line += " (due " + t.DueDate + ")"
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func newPomodoroCmd(opts *clientOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pomodoro",
		Short: "Print a pomodoro schedule for active tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(opts)
			if err := client.requireToken(); err != nil {
				return err
			}

			var resp struct {
				Schedule []struct {
					Task struct {
						ID    int64  `json:"id"`
						Title string `json:"title"`
					} `json:"task"`
					PomodoroCount int `json:"pomodoro_count"`
					WorkMinutes   int `json:"work_minutes"`
				} `json:"schedule"`
				TotalWorkMinutes  int `json:"total_work_minutes"`
				TotalBreakMinutes int `json:"total_break_minutes"`
			}
			raw, err := client.do(http.MethodGet, "/api/tasks/pomodoro", nil, &resp)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), raw)
			}

			for i, entry := range resp.Schedule {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. #%d %s: %d pomodoro(s), %d min\n",
					i+1, entry.Task.ID, entry.Task.Title, entry.PomodoroCount, entry.WorkMinutes)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Total: %d min work, %d min break\n",
				resp.TotalWorkMinutes, resp.TotalBreakMinutes)
			return nil
		},
	}
}
