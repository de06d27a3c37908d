package main

import (
	"github.com/spf13/cobra"
)

// dashboardCmd prints the report cards and breakdowns
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show inventory totals by category and status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newSessionClient(cmd)
		if err != nil {
			return err
		}
		ctrl := newController(c, cmd.InOrStdin(), cmd.OutOrStdout(), false)
		defer ctrl.Close()

		ctx, cancel := commandContext(cmd)
		defer cancel()
		d, err := ctrl.Dashboard(ctx)
		if err != nil {
			return err
		}
		renderDashboard(cmd.OutOrStdout(), d)
		return nil
	},
}

func registerDashboardCommand() {
	rootCmd.AddCommand(dashboardCmd)
}
