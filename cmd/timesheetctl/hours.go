package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"timesheet/internal/domain/payroll"
	"timesheet/internal/domain/worklog"
)

func newHoursCmd() *cobra.Command {
	var dayOff bool
	cmd := &cobra.Command{
		Use:   "hours <clock-in> <clock-out>",
		Short: "Print the hours a shift is worth",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := worklog.NormalizeClock(args[0])
			if err != nil {
				return fmt.Errorf("clock-in: %w", err)
			}
			out, err := worklog.NormalizeClock(args[1])
			if err != nil {
				return fmt.Errorf("clock-out: %w", err)
			}
			kind := worklog.KindRegular
			if dayOff {
				kind = worklog.KindDayOff
			}
			hours := payroll.ComputeHours(&in, &out, kind)
			suffix := ""
			if kind == worklog.KindRegular && payroll.IsOvernight(&in, &out) {
				suffix = " (overnight)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.2f%s\n", hours, suffix)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dayOff, "day-off", false, "treat the record as a day off")
	return cmd
}
