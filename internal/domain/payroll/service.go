package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"timesheet/internal/domain/deduction"
	"timesheet/internal/domain/employee"
	"timesheet/internal/domain/worklog"
)

type EmployeeSource interface {
	Get(ctx context.Context, id string) (employee.Profile, error)
	List(ctx context.Context, includeHidden bool) ([]employee.Profile, error)
}

type WorkLogSource interface {
	ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]worklog.Entry, error)
}

type DeductionSource interface {
	ActiveFor(ctx context.Context, employeeID string) ([]deduction.Rule, error)
	ActiveByEmployee(ctx context.Context) (map[string][]deduction.Rule, error)
}

type Options struct {
	Policy      NegativeNetPolicy
	CompanyName string
	Currency    string
}

// Service fetches the records a view needs and runs the engine over them.
// Nothing it computes is cached.
type Service struct {
	employees  EmployeeSource
	worklogs   WorkLogSource
	deductions DeductionSource
	opts       Options
}

func NewService(employees EmployeeSource, worklogs WorkLogSource, deductions DeductionSource, opts Options) *Service {
	if opts.Policy == "" {
		opts.Policy = PolicyPreserve
	}
	return &Service{employees: employees, worklogs: worklogs, deductions: deductions, opts: opts}
}

func (s *Service) Policy() NegativeNetPolicy {
	return s.opts.Policy
}

// Document is a generated file ready to be served.
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}

func (s *Service) MonthlySummary(ctx context.Context, employeeID string, ref time.Time) (Summary, error) {
	period := MonthPeriod(ref)
	profile, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return Summary{}, err
	}
	entries, err := s.worklogs.ListRange(ctx, employeeID, period.Start, period.End)
	if err != nil {
		return Summary{}, fmt.Errorf("list work logs: %w", err)
	}
	rules, err := s.deductions.ActiveFor(ctx, employeeID)
	if err != nil {
		return Summary{}, fmt.Errorf("list deductions: %w", err)
	}
	return Summary{
		Employee: refOf(profile),
		Result:   ComputePayroll(entries, profile.HourlyWage, rules, period, s.opts.Policy),
		Entries:  Annotate(entries, period),
	}, nil
}

func (s *Service) DayDetail(ctx context.Context, employeeID string, date time.Time) (DayDetail, error) {
	day := DayPeriod(date)
	profile, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return DayDetail{}, err
	}
	entries, err := s.worklogs.ListRange(ctx, employeeID, day.Start, day.End)
	if err != nil {
		return DayDetail{}, fmt.Errorf("list work logs: %w", err)
	}
	rules, err := s.deductions.ActiveFor(ctx, employeeID)
	if err != nil {
		return DayDetail{}, fmt.Errorf("list deductions: %w", err)
	}

	detail := DayDetail{
		Employee: refOf(profile),
		Result:   ComputeDay(entries, day.Start, profile.HourlyWage, rules, s.opts.Policy),
	}
	if views := Annotate(entries, day); len(views) > 0 {
		detail.Entry = &views[0]
	}
	return detail, nil
}

// Preview runs the engine over caller-supplied records without touching storage.
func (s *Service) Preview(entries []worklog.Entry, wage decimal.Decimal, rules []deduction.Rule, ref time.Time) Result {
	return ComputePayroll(entries, wage, rules, MonthPeriod(ref), s.opts.Policy)
}

// Rows computes the month's pay for every visible employee.
func (s *Service) Rows(ctx context.Context, ref time.Time) ([]RegisterRow, error) {
	period := MonthPeriod(ref)
	profiles, err := s.employees.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	entries, err := s.worklogs.ListRange(ctx, "", period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("list work logs: %w", err)
	}
	rules, err := s.deductions.ActiveByEmployee(ctx)
	if err != nil {
		return nil, fmt.Errorf("list deductions: %w", err)
	}

	byEmployee := make(map[string][]worklog.Entry)
	for _, entry := range entries {
		byEmployee[entry.EmployeeID] = append(byEmployee[entry.EmployeeID], entry)
	}

	rows := make([]RegisterRow, 0, len(profiles))
	for _, profile := range profiles {
		rows = append(rows, RegisterRow{
			Employee: refOf(profile),
			Result:   ComputePayroll(byEmployee[profile.ID], profile.HourlyWage, rules[profile.ID], period, s.opts.Policy),
		})
	}
	return rows, nil
}

func (s *Service) Payslip(ctx context.Context, employeeID string, ref time.Time) (Document, error) {
	summary, err := s.MonthlySummary(ctx, employeeID, ref)
	if err != nil {
		return Document{}, err
	}
	content, err := renderPayslip(summary, s.opts)
	if err != nil {
		return Document{}, fmt.Errorf("render payslip: %w", err)
	}
	return Document{
		Filename:    fmt.Sprintf("payslip-%s-%s.pdf", summary.Result.Period.Label, summary.Employee.ID),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

func (s *Service) Register(ctx context.Context, ref time.Time) (Document, error) {
	rows, err := s.Rows(ctx, ref)
	if err != nil {
		return Document{}, err
	}
	period := MonthPeriod(ref)
	content, err := renderRegister(period, rows, s.opts)
	if err != nil {
		return Document{}, fmt.Errorf("render register: %w", err)
	}
	return Document{
		Filename:    fmt.Sprintf("payroll-register-%s.xlsx", period.Label),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     content,
	}, nil
}
