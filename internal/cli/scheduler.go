package cli

import (
	"context"
	"fmt"

	"github.com/shelfmetrics/stockwatch/pkg/client"
	"github.com/spf13/cobra"
)

func newSchedulerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scheduler",
		Short: "Control the multi-workspace scheduler",
	}

	cmd.AddCommand(newSchedulerRunCmd())

	return cmd
}

func newSchedulerRunCmd() *cobra.Command {
	var workspaceID string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Trigger a scheduler run across all workspaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			run, err := apiClient.Scheduler().Run(ctx, client.RunRequest{
				Manual:      true,
				WorkspaceID: workspaceID,
			})
			if err != nil {
				return fmt.Errorf("failed to trigger scheduler run: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(run)
			}

			fmt.Printf("Run %s (%s)\n", run.RunID, run.Trigger)
			fmt.Printf("  Workspaces checked: %d\n", run.Summary.WorkspacesChecked)
			fmt.Printf("  Successful:         %d\n", run.Summary.SuccessfulChecks)
			fmt.Printf("  Failed:             %d\n", run.Summary.FailedChecks)
			fmt.Printf("  Duration:           %dms\n", run.Summary.DurationMs)

			if run.Summary.FailedChecks > 0 {
				t := NewTable("WORKSPACE", "ATTEMPTS", "ERROR")
				for _, r := range run.Results {
					if r.Success {
						continue
					}
					t.AddRow(r.WorkspaceID, fmt.Sprintf("%d", r.Attempts), truncate(r.Error, 60))
				}
				t.Render()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&workspaceID, "workspace", "", "check a single workspace instead of all")

	return cmd
}
