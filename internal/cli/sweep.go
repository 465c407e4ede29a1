package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shelfmetrics/stockwatch/pkg/client"
	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "sweep <workspace-id>",
		Short: "Run an inventory sweep for one workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			result, err := apiClient.Alerts().Sweep(ctx, client.SweepRequest{
				WorkspaceID: args[0],
				Force:       force,
			})
			if err != nil {
				return fmt.Errorf("failed to run sweep: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(result)
			}

			fmt.Printf("Sweep complete: %d products checked, %d alerts created, %d closed\n",
				result.ProductsChecked, result.Created, result.Closed)

			if len(result.Alerts) > 0 {
				t := NewTable("ID", "SKU", "TYPE", "SEVERITY", "MESSAGE")
				for _, a := range result.Alerts {
					t.AddRow(
						strconv.FormatInt(a.ID, 10),
						a.SKU,
						a.Type,
						formatSeverity(a.Severity),
						truncate(a.Message, 50),
					)
				}
				t.Render()
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "force the sweep even if one ran recently")

	return cmd
}
