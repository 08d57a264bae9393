package payroll

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

var registerHeaders = []string{
	"Employee", "Email", "Hours", "Hourly wage", "Gross", "Income tax", "Local tax",
	"Other deductions", "Total deductions", "Net", "Warnings",
}

func renderRegister(period Period, rows []RegisterRow, opts Options) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Payroll " + period.Label
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheet); err != nil {
		return nil, err
	}

	for i, header := range registerHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(registerHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, bold); err != nil {
		return nil, err
	}

	for r, row := range rows {
		res := row.Result
		values := []any{
			row.Employee.Name,
			row.Employee.Email,
			res.TotalHours,
			res.HourlyWage.InexactFloat64(),
			res.GrossPay.IntPart(),
			res.IncomeTax.IntPart(),
			res.LocalTax.IntPart(),
			res.OtherDeductions.IntPart(),
			res.TotalDeductions.IntPart(),
			res.NetPay.IntPart(),
			strings.Join(res.Warnings, ", "),
		}
		for c, value := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	footer := len(rows) + 3
	cell, _ := excelize.CoordinatesToCellName(1, footer)
	if err := f.SetCellValue(sheet, cell, opts.CompanyName+" "+opts.Currency); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
