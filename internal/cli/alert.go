package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shelfmetrics/stockwatch/pkg/client"
	"github.com/spf13/cobra"
)

func newAlertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Manage inventory alerts",
	}

	cmd.AddCommand(newAlertListCmd())
	cmd.AddCommand(newAlertAcknowledgeCmd())

	return cmd
}

func newAlertListCmd() *cobra.Command {
	var workspaceID, severity, status, alertType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a workspace's alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			list, err := apiClient.Alerts().List(ctx, workspaceID, &client.AlertListOptions{
				Status:   status,
				Type:     alertType,
				Severity: severity,
			})
			if err != nil {
				return fmt.Errorf("failed to list alerts: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(list)
			}

			if list.Degraded {
				fmt.Println("WARNING: alert store unreachable, showing cached snapshot")
			}

			t := NewTable("ID", "SKU", "TYPE", "SEVERITY", "STATUS", "MESSAGE")
			for _, a := range list.Alerts {
				t.AddRow(
					strconv.FormatInt(a.ID, 10),
					a.SKU,
					a.Type,
					formatSeverity(a.Severity),
					formatStatus(a.Status),
					truncate(a.Message, 50),
				)
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&workspaceID, "workspace", "", "workspace ID (required)")
	cmd.Flags().StringVar(&severity, "severity", "", "filter by severity")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&alertType, "type", "", "filter by type")
	_ = cmd.MarkFlagRequired("workspace")

	return cmd
}

func newAlertAcknowledgeCmd() *cobra.Command {
	var acknowledgedBy string

	cmd := &cobra.Command{
		Use:   "acknowledge <id>",
		Short: "Acknowledge an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid alert ID: %s", args[0])
			}

			ctx := context.Background()
			alert, err := apiClient.Alerts().Acknowledge(ctx, id, acknowledgedBy)
			if err != nil {
				return fmt.Errorf("failed to acknowledge alert: %w", err)
			}

			fmt.Printf("Alert %d acknowledged by %s\n", alert.ID, acknowledgedBy)
			return nil
		},
	}

	cmd.Flags().StringVar(&acknowledgedBy, "by", "", "acknowledging identity (required)")
	_ = cmd.MarkFlagRequired("by")

	return cmd
}
