package payroll

import (
	"bytes"
	"fmt"

	"go-payroll/internal/shared/money"

	"github.com/jung-kurt/gofpdf"
)

// RenderPayslipPDF draws a payslip from its stored snapshot only.
func RenderPayslipPDF(p Payslip) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip "+p.PayslipNumber, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Payslip", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, p.PeriodLabel, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	info := [][2]string{
		{"Payslip No", p.PayslipNumber},
		{"Employee", p.EmployeeName},
		{"Employee ID", p.EmployeeID.String()},
		{"Days Worked", fmt.Sprintf("%d", p.DaysWorked)},
		{"Days Absent", fmt.Sprintf("%d", p.DaysAbsent)},
		{"Bank Account", p.BankAccount},
	}
	for _, row := range info {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	writeLines(pdf, "Earnings", p.Earnings, "Gross Earnings", p.GrossEarnings)
	pdf.Ln(3)
	writeLines(pdf, "Deductions", p.Deductions, "Total Deductions", p.TotalDeductions)
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(130, 9, "Net Salary (INR)", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 9, money.Format(p.NetSalary), "1", 1, "R", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, "Generated "+p.GeneratedAt.Format("02 Jan 2006 15:04 MST"), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeLines(pdf *gofpdf.Fpdf, title string, lines []PayslipLine, totalLabel string, total int64) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(130, 7, title, "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 7, "Amount (INR)", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, l := range lines {
		pdf.CellFormat(130, 6, l.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, money.Format(l.Amount), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(130, 7, totalLabel, "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, money.Format(total), "1", 1, "R", false, 0, "")
}
