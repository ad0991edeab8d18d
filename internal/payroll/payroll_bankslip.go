package payroll

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"

	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/money"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatJSON  = "json"
)

const (
	ModeNEFT = "NEFT"
	ModeRTGS = "RTGS"
)

type BankSlipRow struct {
	SerialNo      int    `csv:"S.No" json:"serial_no"`
	EmployeeID    string `csv:"Employee ID" json:"employee_id"`
	EmployeeName  string `csv:"Employee Name" json:"employee_name"`
	BankName      string `csv:"Bank Name" json:"bank_name"`
	AccountNumber string `csv:"Account Number" json:"account_number"`
	IFSC          string `csv:"IFSC" json:"ifsc"`
	Amount        string `csv:"Amount" json:"amount"`
	Mode          string `csv:"Mode" json:"mode"`

	itemID string `csv:"-"`
}

type BankSlip struct {
	Rows               []BankSlipRow
	TotalAmount        int64
	NEFTCount          int
	RTGSCount          int
	SkippedZeroSalary  int
	SkippedMissingBank int
	SkippedOnHold      int
}

func (b BankSlip) ItemIDs() []string {
	ids := make([]string, 0, len(b.Rows))
	for _, r := range b.Rows {
		ids = append(ids, r.itemID)
	}
	return ids
}

type BankSlipSummary struct {
	Rows               []BankSlipRow   `json:"rows"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	NEFTCount          int             `json:"neft_count"`
	RTGSCount          int             `json:"rtgs_count"`
	SkippedZeroSalary  int             `json:"skipped_zero_salary"`
	SkippedMissingBank int             `json:"skipped_missing_bank"`
	SkippedOnHold      int             `json:"skipped_on_hold"`
}

func (b BankSlip) Summary() BankSlipSummary {
	return BankSlipSummary{
		Rows:               b.Rows,
		TotalAmount:        money.ToRupees(b.TotalAmount),
		NEFTCount:          b.NEFTCount,
		RTGSCount:          b.RTGSCount,
		SkippedZeroSalary:  b.SkippedZeroSalary,
		SkippedMissingBank: b.SkippedMissingBank,
		SkippedOnHold:      b.SkippedOnHold,
	}
}

type BankSlipFile struct {
	Filename    string
	ContentType string
	Content     []byte
	Summary     BankSlipSummary
}

// BuildBankSlip selects transferable items. Each in-flight item is excluded
// by the first failing check: zero net, missing bank details, not ready.
// Rows are ordered by employee name then id so repeated exports match.
func BuildBankSlip(items []PayrollItem, rtgsThreshold int64) (BankSlip, error) {
	var slip BankSlip
	candidates := 0

	for _, item := range items {
		if item.PaymentStatus != PaymentPending && item.PaymentStatus != PaymentProcessing {
			continue
		}
		candidates++

		switch {
		case item.NetSalary <= 0:
			slip.SkippedZeroSalary++
			continue
		case !item.HasBankDetails():
			slip.SkippedMissingBank++
			continue
		case item.Readiness != ReadinessReady:
			slip.SkippedOnHold++
			continue
		}

		mode := ModeNEFT
		if item.NetSalary >= rtgsThreshold {
			mode = ModeRTGS
			slip.RTGSCount++
		} else {
			slip.NEFTCount++
		}

		slip.TotalAmount += item.NetSalary
		slip.Rows = append(slip.Rows, BankSlipRow{
			EmployeeID:    item.EmployeeID.String(),
			EmployeeName:  item.EmployeeName,
			BankName:      item.BankName,
			AccountNumber: item.BankAccountNumber,
			IFSC:          item.BankIFSC,
			Amount:        money.Format(item.NetSalary),
			Mode:          mode,
			itemID:        item.ID.String(),
		})
	}

	if len(slip.Rows) == 0 {
		switch {
		case candidates > 0 && slip.SkippedZeroSalary == candidates:
			return slip, payrollerrors.ErrBankSlipAllZeroSalary
		case candidates > 0 && slip.SkippedMissingBank == candidates:
			return slip, payrollerrors.ErrBankSlipAllMissingBank
		case slip.SkippedZeroSalary > 0 && slip.SkippedMissingBank > 0 &&
			slip.SkippedZeroSalary+slip.SkippedMissingBank == candidates:
			return slip, payrollerrors.ErrBankSlipZeroOrMissingBank
		default:
			return slip, payrollerrors.ErrBankSlipNoReadyEmployees
		}
	}

	sort.SliceStable(slip.Rows, func(i, j int) bool {
		if slip.Rows[i].EmployeeName != slip.Rows[j].EmployeeName {
			return slip.Rows[i].EmployeeName < slip.Rows[j].EmployeeName
		}
		return slip.Rows[i].EmployeeID < slip.Rows[j].EmployeeID
	})
	for i := range slip.Rows {
		slip.Rows[i].SerialNo = i + 1
	}

	return slip, nil
}

func (s *service) GenerateBankSlip(ctx context.Context, schoolID, periodID string, format string) (BankSlipFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatExcel && format != FormatJSON {
		return BankSlipFile{}, payrollerrors.ErrInvalidBankSlipFormat
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BankSlipFile{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	period, err := qtx.FindPeriodForUpdate(ctx, schoolID, periodID)
	if err != nil {
		return BankSlipFile{}, mapPeriodError(err)
	}
	if period.IsLocked {
		return BankSlipFile{}, payrollerrors.ErrPeriodLocked
	}
	if !isIssued(period.Status) {
		return BankSlipFile{}, payrollerrors.ErrBankSlipNotAllowed
	}

	items, err := qtx.ListItems(ctx, schoolID, periodID)
	if err != nil {
		return BankSlipFile{}, err
	}

	slip, err := BuildBankSlip(items, s.stat.RTGSThreshold)
	if err != nil {
		return BankSlipFile{}, err
	}

	if err := qtx.MarkItemsProcessing(ctx, schoolID, slip.ItemIDs()); err != nil {
		return BankSlipFile{}, err
	}
	if err := qtx.MarkBankSlipGenerated(ctx, schoolID, periodID, s.now()); err != nil {
		return BankSlipFile{}, err
	}

	file, err := exportBankSlip(slip, format, fmt.Sprintf("bank-slip-%04d-%02d", period.Year, period.Month))
	if err != nil {
		return BankSlipFile{}, err
	}

	if err := tx.Commit(); err != nil {
		return BankSlipFile{}, err
	}
	s.invalidatePeriod(ctx, schoolID, periodID)

	contextutil.GetLogger(ctx, s.logger).Info("bank slip generated",
		zap.String("school_id", schoolID),
		zap.String("period_id", periodID),
		zap.String("format", format),
		zap.Int("rows", len(slip.Rows)),
		zap.Int("skipped_zero_salary", slip.SkippedZeroSalary),
		zap.Int("skipped_missing_bank", slip.SkippedMissingBank),
		zap.Int("skipped_on_hold", slip.SkippedOnHold),
	)

	return file, nil
}

func exportBankSlip(slip BankSlip, format, basename string) (BankSlipFile, error) {
	file := BankSlipFile{Summary: slip.Summary()}

	var err error
	switch format {
	case FormatCSV:
		file.Filename = basename + ".csv"
		file.ContentType = "text/csv"
		file.Content, err = gocsv.MarshalBytes(&slip.Rows)
	case FormatExcel:
		file.Filename = basename + ".xls"
		file.ContentType = "application/vnd.ms-excel"
		file.Content, err = renderSpreadsheetML(slip)
	case FormatJSON:
		file.Filename = basename + ".json"
		file.ContentType = "application/json"
		file.Content, err = json.Marshal(file.Summary)
	default:
		return BankSlipFile{}, payrollerrors.ErrInvalidBankSlipFormat
	}
	if err != nil {
		return BankSlipFile{}, err
	}
	return file, nil
}

type ssWorkbook struct {
	XMLName   xml.Name    `xml:"Workbook"`
	Xmlns     string      `xml:"xmlns,attr"`
	XmlnsSS   string      `xml:"xmlns:ss,attr"`
	Worksheet ssWorksheet `xml:"Worksheet"`
}

type ssWorksheet struct {
	Name  string  `xml:"ss:Name,attr"`
	Table ssTable `xml:"Table"`
}

type ssTable struct {
	Rows []ssRow `xml:"Row"`
}

type ssRow struct {
	Cells []ssCell `xml:"Cell"`
}

type ssCell struct {
	Data ssData `xml:"Data"`
}

type ssData struct {
	Type  string `xml:"ss:Type,attr"`
	Value string `xml:",chardata"`
}

func textCell(v string) ssCell   { return ssCell{Data: ssData{Type: "String", Value: v}} }
func numberCell(v string) ssCell { return ssCell{Data: ssData{Type: "Number", Value: v}} }

// renderSpreadsheetML writes an Excel 2003 XML workbook with one sheet.
func renderSpreadsheetML(slip BankSlip) ([]byte, error) {
	const ns = "urn:schemas-microsoft-com:office:spreadsheet"

	header := ssRow{Cells: []ssCell{
		textCell("S.No"), textCell("Employee ID"), textCell("Employee Name"), textCell("Bank Name"),
		textCell("Account Number"), textCell("IFSC"), textCell("Amount"), textCell("Mode"),
	}}
	rows := []ssRow{header}
	for _, r := range slip.Rows {
		rows = append(rows, ssRow{Cells: []ssCell{
			numberCell(strconv.Itoa(r.SerialNo)),
			textCell(r.EmployeeID),
			textCell(r.EmployeeName),
			textCell(r.BankName),
			textCell(r.AccountNumber),
			textCell(r.IFSC),
			numberCell(r.Amount),
			textCell(r.Mode),
		}})
	}
	rows = append(rows, ssRow{Cells: []ssCell{
		textCell(""), textCell(""), textCell("Total"), textCell(""),
		textCell(""), textCell(""), numberCell(money.Format(slip.TotalAmount)), textCell(""),
	}})

	wb := ssWorkbook{
		Xmlns:     ns,
		XmlnsSS:   ns,
		Worksheet: ssWorksheet{Name: "Bank Slip", Table: ssTable{Rows: rows}},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(`<?mso-application progid="Excel.Sheet"?>` + "\n")
	enc := xml.NewEncoder(&buf)
	enc.Indent("", " ")
	if err := enc.Encode(wb); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
