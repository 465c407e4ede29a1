package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show scheduler status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			status, err := apiClient.Scheduler().Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get scheduler status: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(status)
			}

			fmt.Println("StockWatch Scheduler")
			fmt.Println(strings.Repeat("=", 40))

			fmt.Printf("  Active workspaces:  %d\n", len(status.ActiveWorkspaces))
			fmt.Printf("  Check interval:     %dm\n", status.Configuration.CheckIntervalMinutes)
			fmt.Printf("  Retry attempts:     %d\n", status.Configuration.RetryAttempts)
			fmt.Printf("  Base delay:         %dms\n", status.Configuration.BaseDelayMs)
			fmt.Printf("  Low-stock threshold: %d\n", status.Configuration.LowStockThreshold)

			if len(status.RecentRuns) == 0 {
				fmt.Println("  Recent runs:        (none recorded)")
				return nil
			}

			fmt.Println()
			t := NewTable("RUN", "ACTOR", "AT")
			for _, r := range status.RecentRuns {
				t.AddRow(
					truncate(r.TargetID, 36),
					r.Actor,
					r.CreatedAt.Format("2006-01-02 15:04:05"),
				)
			}
			t.Render()
			return nil
		},
	}
}
