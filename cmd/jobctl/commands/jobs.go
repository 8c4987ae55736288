package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/infra/scheduler"
)

// jobOutput is the filtered view of a job printed by list and get.
type jobOutput struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Error     string    `json:"error,omitempty"`
}

type jobListOutput struct {
	Jobs []jobOutput `json:"jobs"`
}

func init() {
	jobsCmd.AddCommand(listJobsCmd)
	jobsCmd.AddCommand(getJobCmd)
	jobsCmd.AddCommand(createJobCmd)
	jobsCmd.AddCommand(watchJobCmd)

	createJobCmd.Flags().StringArray("set", nil, "Payload field as key=value (repeatable)")
	watchJobCmd.Flags().Duration("interval", scheduler.DefaultPollInterval, "Poll interval")
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage jobs",
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent jobs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobs, err := apiClient.ListJobs(cmd.Context())
		if err != nil {
			return fmt.Errorf("error fetching jobs: %w", err)
		}
		out := jobListOutput{Jobs: make([]jobOutput, len(jobs))}
		for i, j := range jobs {
			out.Jobs[i] = toOutput(j)
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

var getJobCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a specific job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := apiClient.GetJob(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error fetching job: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), toOutput(job))
	},
}

var createJobCmd = &cobra.Command{
	Use:   "create <action>",
	Short: "Enqueue a job",
	Long:  "Enqueue a job. Actions: " + actionList() + ".",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, _ := cmd.Flags().GetStringArray("set")
		fields, err := parseFields(sets)
		if err != nil {
			return err
		}
		id, err := apiClient.CreateJob(cmd.Context(), args[0], fields)
		if err != nil {
			return fmt.Errorf("error creating job: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

var watchJobCmd = &cobra.Command{
	Use:   "watch <id>",
	Short: "Follow a job until it finishes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var last *model.Job
		failed, loading := false, false
		w := cmd.OutOrStdout()
		onUpdate := func(p scheduler.Progress) {
			if p.Unknown {
				if last == nil && !loading {
					fmt.Fprintln(w, p.Label)
					loading = true
				}
				fmt.Fprintln(w, p.Message)
				return
			}
			if p.LogTail != "" {
				fmt.Fprint(w, p.LogTail)
				if !strings.HasSuffix(p.LogTail, "\n") {
					fmt.Fprintln(w)
				}
			}
			if last == nil || last.Status != p.Job.Status {
				fmt.Fprintf(w, "[%d/3] %s\n", p.Step, p.Label)
			}
			last = p.Job
			failed = p.Job.Status == model.JobStatusFailed
		}

		poller := scheduler.NewJobPoller(apiClient, args[0], interval, onUpdate, nil)
		poller.Start(ctx)
		select {
		case <-poller.Done():
		case <-ctx.Done():
		}
		poller.Stop()

		if ctx.Err() != nil {
			return nil
		}
		if failed {
			if last.Error != "" {
				return fmt.Errorf("job failed: %s", last.Error)
			}
			return fmt.Errorf("job failed")
		}
		return nil
	},
}

// GetJobsCmd returns the jobs command
func GetJobsCmd() *cobra.Command {
	return jobsCmd
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// parseFields turns key=value pairs into payload fields. "true"/"false" and
// integers are sent typed; everything else as a string.
func parseFields(sets []string) (map[string]any, error) {
	fields := make(map[string]any, len(sets))
	for _, kv := range sets {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --set %q, want key=value", kv)
		}
		switch {
		case v == "true" || v == "false":
			fields[k] = v == "true"
		default:
			if n, err := strconv.Atoi(v); err == nil && k != "zip" && k != "phone" {
				fields[k] = n
			} else {
				fields[k] = v
			}
		}
	}
	return fields, nil
}

func actionList() string {
	names := make([]string, len(model.JobActions))
	for i, a := range model.JobActions {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

func toOutput(j *model.Job) jobOutput {
	return jobOutput{
		ID:        j.ID,
		Action:    string(j.Action),
		Status:    string(j.Status),
		CreatedAt: j.CreatedAt,
		Error:     j.Error,
	}
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
