package payroll

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

func money(amount decimal.Decimal, currency string) string {
	return strings.TrimSpace(amount.StringFixed(0) + " " + currency)
}

func clockText(value *string) string {
	if value == nil {
		return "-"
	}
	return *value
}

func renderPayslip(summary Summary, opts Options) ([]byte, error) {
	result := summary.Result

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("%s Payslip", opts.CompanyName))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s", summary.Employee.Name))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Email: %s", summary.Employee.Email))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s to %s", result.Period.Start.Format(dateLayout), result.Period.End.Format(dateLayout)))
	pdf.Ln(10)

	widths := []float64{32, 24, 24, 20, 22, 28, 30}
	headers := []string{"Date", "In", "Out", "Hours", "Night", "Kind", "State"}
	pdf.SetFont("Helvetica", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, view := range summary.Entries {
		night := ""
		if view.Overnight {
			night = "yes"
		}
		cells := []string{
			view.Date.Format(dateLayout),
			clockText(view.ClockIn),
			clockText(view.ClockOut),
			fmt.Sprintf("%.2f", view.Hours),
			night,
			string(view.Kind),
			string(view.State),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Hours: %.2f at %s per hour", result.TotalHours, money(result.HourlyWage, opts.Currency)))
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Gross: %s", money(result.GrossPay, opts.Currency)))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range result.Deductions {
		label := line.Name
		if !line.Rate.IsZero() {
			label = fmt.Sprintf("%s (%s%%)", line.Name, line.Rate.String())
		}
		pdf.Cell(0, 7, fmt.Sprintf("%s: -%s", label, money(line.Amount, opts.Currency)))
		pdf.Ln(6)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Total deductions: %s", money(result.TotalDeductions, opts.Currency)))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net: %s", money(result.NetPay, opts.Currency)))
	pdf.Ln(8)
	if len(result.Warnings) > 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 7, fmt.Sprintf("Warnings: %s", strings.Join(result.Warnings, ", ")))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
