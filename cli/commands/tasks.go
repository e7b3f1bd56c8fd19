package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/petal-labs/meili"
)

func (a *App) newTasksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Inspect asynchronous tasks",
	}
	cmd.AddCommand(a.newTasksWaitCommand())
	return cmd
}

func (a *App) newTasksWaitCommand() *cobra.Command {
	var opts meili.WaitOptions
	cmd := &cobra.Command{
		Use:   "wait <task-uid>",
		Short: "Wait for a task to finish",
		Long: `Poll a task until it succeeds, fails or is canceled.
Exits with code 2 when the task fails or the wait times out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || uid < 0 {
				return exitWithCode(ExitValidation, fmt.Errorf("invalid task uid %q", args[0]))
			}

			c, err := a.client()
			if err != nil {
				return err
			}
			task, err := c.Tasks.Wait(cmd.Context(), uid, opts)
			if err != nil {
				return apiFailure(err)
			}

			if a.jsonOutput {
				if err := a.printJSON(task); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(a.stdout, "task %d %s (%s)\n", task.UID, task.Status, task.Type)
			}

			if task.Status != meili.TaskStatusSucceeded {
				msg := string(task.Status)
				if task.Error != nil {
					msg = task.Error.Code + ": " + task.Error.Message
				}
				return exitWithCode(ExitAPI, fmt.Errorf("task %d did not succeed: %s", task.UID, msg))
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", meili.DefaultWaitTimeout, "maximum time to wait")
	cmd.Flags().DurationVar(&opts.Interval, "interval", meili.DefaultWaitInterval, "initial delay between polls")
	cmd.Flags().DurationVar(&opts.MaxInterval, "max-interval", meili.DefaultWaitMaxInterval, "maximum delay between polls")
	return cmd
}
