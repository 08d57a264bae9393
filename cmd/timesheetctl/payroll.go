package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"timesheet/internal/domain/deduction"
	"timesheet/internal/domain/employee"
	"timesheet/internal/domain/payroll"
	"timesheet/internal/domain/worklog"
)

func newPayrollCmd() *cobra.Command {
	var employeeID, month string
	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Compute one employee's pay for a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(employeeID) == "" {
				return fmt.Errorf("--employee is required")
			}
			pool, cfg, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			period, err := payroll.ParseMonth(month, time.Now().In(cfg.Location()))
			if err != nil {
				return err
			}
			policy, err := payroll.ParseNegativeNetPolicy(cfg.NegativeNetPolicy)
			if err != nil {
				return err
			}
			svc := payroll.NewService(
				employee.NewService(employee.NewStore(pool)),
				worklog.NewService(worklog.NewStore(pool)),
				deduction.NewService(deduction.NewStore(pool)),
				payroll.Options{Policy: policy, CompanyName: cfg.CompanyName, Currency: cfg.Currency},
			)
			summary, err := svc.MonthlySummary(cmd.Context(), employeeID, period.Start)
			if err != nil {
				return err
			}
			return printSummary(cmd, summary, cfg.Currency)
		},
	}
	cmd.Flags().StringVar(&employeeID, "employee", "", "employee id")
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (defaults to the current month)")
	return cmd
}

func printSummary(cmd *cobra.Command, summary payroll.Summary, currency string) error {
	res := summary.Result
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Employee\t%s <%s>\n", summary.Employee.Name, summary.Employee.Email)
	fmt.Fprintf(tw, "Period\t%s\n", res.Period.Label)
	fmt.Fprintf(tw, "Hours\t%.2f\n", res.TotalHours)
	fmt.Fprintf(tw, "Gross\t%s %s\n", res.GrossPay.StringFixed(0), currency)
	for _, line := range res.Deductions {
		fmt.Fprintf(tw, "  %s\t-%s\n", line.Name, line.Amount.StringFixed(0))
	}
	fmt.Fprintf(tw, "Net\t%s %s\n", res.NetPay.StringFixed(0), currency)
	if len(res.Warnings) > 0 {
		fmt.Fprintf(tw, "Warnings\t%s\n", strings.Join(res.Warnings, ", "))
	}
	return tw.Flush()
}
