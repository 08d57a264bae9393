package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"timesheet/internal/domain/payroll"
)

type StoreAPI interface {
	VisibleEmployees(ctx context.Context) (int, error)
	EntriesByState(ctx context.Context, from, to time.Time) (map[string]int, error)
	ClockedIn(ctx context.Context, date time.Time) (int, error)
	DaysOff(ctx context.Context, from, to time.Time) (int, error)
}

type PayrollSource interface {
	Rows(ctx context.Context, ref time.Time) ([]payroll.RegisterRow, error)
}

type EmployeePay struct {
	EmployeeID string          `json:"employeeId"`
	Name       string          `json:"name"`
	Hours      float64         `json:"hours"`
	GrossPay   decimal.Decimal `json:"grossPay"`
	NetPay     decimal.Decimal `json:"netPay"`
	Warnings   []string        `json:"warnings"`
}

type Dashboard struct {
	Period          payroll.Period  `json:"period"`
	Employees       int             `json:"employees"`
	PendingEntries  int             `json:"pendingEntries"`
	ApprovedEntries int             `json:"approvedEntries"`
	RejectedEntries int             `json:"rejectedEntries"`
	DaysOff         int             `json:"daysOff"`
	ClockedInToday  int             `json:"clockedInToday"`
	TotalHours      float64         `json:"totalHours"`
	TotalGross      decimal.Decimal `json:"totalGross"`
	TotalNet        decimal.Decimal `json:"totalNet"`
	Payroll         []EmployeePay   `json:"payroll"`
}

type Service struct {
	Store   StoreAPI
	Payroll PayrollSource
}

func NewService(store StoreAPI, payroll PayrollSource) *Service {
	return &Service{Store: store, Payroll: payroll}
}

// Dashboard gathers the month's stats. The store reads and the payroll
// recomputation run concurrently.
func (s *Service) Dashboard(ctx context.Context, ref, today time.Time) (Dashboard, error) {
	period := payroll.MonthPeriod(ref)
	out := Dashboard{Period: period, TotalGross: decimal.Zero, TotalNet: decimal.Zero}

	var states map[string]int
	var rows []payroll.RegisterRow

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.Store.VisibleEmployees(gCtx)
		out.Employees = count
		return err
	})
	g.Go(func() error {
		var err error
		states, err = s.Store.EntriesByState(gCtx, period.Start, period.End)
		return err
	})
	g.Go(func() error {
		y, m, d := today.Date()
		count, err := s.Store.ClockedIn(gCtx, time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
		out.ClockedInToday = count
		return err
	})
	g.Go(func() error {
		count, err := s.Store.DaysOff(gCtx, period.Start, period.End)
		out.DaysOff = count
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.Payroll.Rows(gCtx, ref)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	out.PendingEntries = states["pending"]
	out.ApprovedEntries = states["approved"]
	out.RejectedEntries = states["rejected"]

	out.Payroll = make([]EmployeePay, 0, len(rows))
	for _, row := range rows {
		out.Payroll = append(out.Payroll, EmployeePay{
			EmployeeID: row.Employee.ID,
			Name:       row.Employee.Name,
			Hours:      row.Result.TotalHours,
			GrossPay:   row.Result.GrossPay,
			NetPay:     row.Result.NetPay,
			Warnings:   row.Result.Warnings,
		})
		out.TotalHours += row.Result.TotalHours
		out.TotalGross = out.TotalGross.Add(row.Result.GrossPay)
		out.TotalNet = out.TotalNet.Add(row.Result.NetPay)
	}
	return out, nil
}
