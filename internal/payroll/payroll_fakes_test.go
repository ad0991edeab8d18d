package payroll_test

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"go-payroll/internal/audit"
	"go-payroll/internal/loan"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	"go-payroll/internal/payrollprofile"
	"go-payroll/internal/salarystructure"
	"go-payroll/internal/shared/counter"

	"gorm.io/gorm"
)

type fakePayrollRepo struct {
	mu          sync.Mutex
	periods     map[string]*payroll.PayrollPeriod
	items       map[string]*payroll.PayrollItem
	adjustments []payroll.PayrollAdjustment
	payslips    map[string]*payroll.Payslip

	createPeriodErr error
	upsertItemFn    func(item *payroll.PayrollItem) error
	refreshCalls    int
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{
		periods:  map[string]*payroll.PayrollPeriod{},
		items:    map[string]*payroll.PayrollItem{},
		payslips: map[string]*payroll.Payslip{},
	}
}

func (f *fakePayrollRepo) addPeriod(p payroll.PayrollPeriod) *payroll.PayrollPeriod {
	f.periods[p.ID.String()] = &p
	return &p
}

func (f *fakePayrollRepo) addItem(i payroll.PayrollItem) {
	f.items[i.ID.String()] = &i
}

func (f *fakePayrollRepo) period(id string) payroll.PayrollPeriod {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.periods[id]
}

func (f *fakePayrollRepo) item(id string) payroll.PayrollItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.items[id]
}

func (f *fakePayrollRepo) WithTx(tx *sql.Tx) payroll.Repository { return f }

func (f *fakePayrollRepo) CreatePeriod(ctx context.Context, period *payroll.PayrollPeriod) error {
	if f.createPeriodErr != nil {
		return f.createPeriodErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *period
	f.periods[period.ID.String()] = &cp
	return nil
}

func (f *fakePayrollRepo) PeriodExists(ctx context.Context, schoolID string, month, year int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.periods {
		if p.SchoolID.String() == schoolID && p.Month == month && p.Year == year {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePayrollRepo) FindPeriod(ctx context.Context, schoolID, id string) (*payroll.PayrollPeriod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.periods[id]
	if !ok || p.SchoolID.String() != schoolID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePayrollRepo) FindPeriodForUpdate(ctx context.Context, schoolID, id string) (*payroll.PayrollPeriod, error) {
	return f.FindPeriod(ctx, schoolID, id)
}

func (f *fakePayrollRepo) ListPeriods(ctx context.Context, schoolID string, year int) ([]payroll.PayrollPeriod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []payroll.PayrollPeriod
	for _, p := range f.periods {
		if p.SchoolID.String() == schoolID && (year == 0 || p.Year == year) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out, nil
}

func (f *fakePayrollRepo) TransitionPeriod(ctx context.Context, schoolID, id, from, to string, fields map[string]any) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.periods[id]
	if !ok || p.IsLocked || p.Status != from {
		return 0, nil
	}
	p.Status = to
	if by, ok := fields["approved_by"].(string); ok {
		p.ApprovedBy = by
	}
	return 1, nil
}

func (f *fakePayrollRepo) LockPeriod(ctx context.Context, schoolID, id, actorID, reason string, at time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.periods[id]
	if !ok || p.IsLocked || p.Status != payroll.StatusPaid {
		return 0, nil
	}
	p.IsLocked = true
	p.LockedAt = &at
	p.LockedBy = actorID
	p.LockReason = reason
	return 1, nil
}

func (f *fakePayrollRepo) UnlockPeriod(ctx context.Context, schoolID, id, actorID, reason string, at time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.periods[id]
	if !ok || !p.IsLocked {
		return 0, nil
	}
	p.IsLocked = false
	p.UnlockedAt = &at
	p.UnlockedBy = actorID
	p.UnlockReason = reason
	return 1, nil
}

func (f *fakePayrollRepo) SettlePeriod(ctx context.Context, schoolID, id, actorID, reference string, at time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.periods[id]
	if !ok || p.IsLocked || (p.Status != payroll.StatusApproved && p.Status != payroll.StatusPaid) {
		return 0, nil
	}
	p.Status = payroll.StatusPaid
	if p.PaidAt == nil {
		p.PaidAt = &at
	}
	p.SettlementConfirmedAt = &at
	p.SettlementConfirmedBy = actorID
	p.BankTransferReference = reference
	return 1, nil
}

func (f *fakePayrollRepo) MarkBankSlipGenerated(ctx context.Context, schoolID, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.periods[id].BankSlipGeneratedAt = &at
	return nil
}

func (f *fakePayrollRepo) RefreshTotals(ctx context.Context, schoolID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	p, ok := f.periods[id]
	if !ok {
		return nil
	}
	p.TotalGross, p.TotalDeductions, p.TotalNet = 0, 0, 0
	p.EmployeeCount, p.ReadyCount, p.OnHoldCount = 0, 0, 0
	for _, i := range f.items {
		if i.PeriodID.String() != id {
			continue
		}
		p.TotalGross += i.GrossEarnings
		p.TotalDeductions += i.TotalDeductions
		p.TotalNet += i.NetSalary
		p.EmployeeCount++
		if i.Readiness == payroll.ReadinessReady {
			p.ReadyCount++
		} else {
			p.OnHoldCount++
		}
	}
	return nil
}

func (f *fakePayrollRepo) UpsertItem(ctx context.Context, item *payroll.PayrollItem) error {
	if f.upsertItemFn != nil {
		if err := f.upsertItemFn(item); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.periods[item.PeriodID.String()]
	if !ok || p.IsLocked || (p.Status != payroll.StatusDraft && p.Status != payroll.StatusProcessing) {
		return payroll.ErrPeriodNotWritable
	}
	for id, existing := range f.items {
		if existing.PeriodID == item.PeriodID && existing.EmployeeID == item.EmployeeID {
			delete(f.items, id)
		}
	}
	cp := *item
	f.items[item.ID.String()] = &cp
	return nil
}

func (f *fakePayrollRepo) SaveItem(ctx context.Context, item *payroll.PayrollItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *item
	f.items[item.ID.String()] = &cp
	return nil
}

func (f *fakePayrollRepo) FindItem(ctx context.Context, schoolID, id string) (*payroll.PayrollItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *i
	return &cp, nil
}

func (f *fakePayrollRepo) FindItemByEmployee(ctx context.Context, schoolID, periodID, employeeID string) (*payroll.PayrollItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, i := range f.items {
		if i.PeriodID.String() == periodID && i.EmployeeID.String() == employeeID {
			cp := *i
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepo) ListItems(ctx context.Context, schoolID, periodID string) ([]payroll.PayrollItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []payroll.PayrollItem
	for _, i := range f.items {
		if i.PeriodID.String() == periodID {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].EmployeeName != out[b].EmployeeName {
			return out[a].EmployeeName < out[b].EmployeeName
		}
		return out[a].ID.String() < out[b].ID.String()
	})
	return out, nil
}

func (f *fakePayrollRepo) CountItems(ctx context.Context, schoolID, periodID string) (int64, error) {
	items, _ := f.ListItems(ctx, schoolID, periodID)
	return int64(len(items)), nil
}

func (f *fakePayrollRepo) MarkItemsProcessing(ctx context.Context, schoolID string, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		if i, ok := f.items[id]; ok && i.PaymentStatus == payroll.PaymentPending {
			i.PaymentStatus = payroll.PaymentProcessing
		}
	}
	return nil
}

func (f *fakePayrollRepo) SettleItems(ctx context.Context, schoolID, periodID string) ([]payroll.PayrollItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []payroll.PayrollItem
	for _, i := range f.items {
		if i.PeriodID.String() != periodID || i.Readiness != payroll.ReadinessReady {
			continue
		}
		if i.PaymentStatus != payroll.PaymentPending && i.PaymentStatus != payroll.PaymentProcessing {
			continue
		}
		i.PaymentStatus = payroll.PaymentProcessed
		out = append(out, *i)
	}
	return out, nil
}

func (f *fakePayrollRepo) UpsertAdjustment(ctx context.Context, adj *payroll.PayrollAdjustment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.adjustments {
		if existing.PeriodID == adj.PeriodID && existing.EmployeeID == adj.EmployeeID && existing.Kind == adj.Kind {
			f.adjustments[i] = *adj
			return nil
		}
	}
	f.adjustments = append(f.adjustments, *adj)
	return nil
}

func (f *fakePayrollRepo) ListAdjustments(ctx context.Context, schoolID, periodID, employeeID string) ([]payroll.PayrollAdjustment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []payroll.PayrollAdjustment
	for _, a := range f.adjustments {
		if a.PeriodID.String() == periodID && (employeeID == "" || a.EmployeeID.String() == employeeID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakePayrollRepo) CreatePayslip(ctx context.Context, payslip *payroll.Payslip) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *payslip
	f.payslips[payslip.ID.String()] = &cp
	return nil
}

func (f *fakePayrollRepo) FindPayslip(ctx context.Context, schoolID, id string) (*payroll.Payslip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payslips[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePayrollRepo) FindPayslipByItem(ctx context.Context, schoolID, itemID string) (*payroll.Payslip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payslips {
		if p.ItemID.String() == itemID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeProfiles struct {
	profiles []payrollprofile.EmployeePayrollProfile
}

func (f *fakeProfiles) FindAll(ctx context.Context, schoolID string, activeOnly bool) ([]payrollprofile.EmployeePayrollProfile, error) {
	var out []payrollprofile.EmployeePayrollProfile
	for _, p := range f.profiles {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProfiles) FindByEmployeeID(ctx context.Context, schoolID, employeeID string) (*payrollprofile.EmployeePayrollProfile, error) {
	for _, p := range f.profiles {
		if p.EmployeeID.String() == employeeID {
			cp := p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeStructures struct {
	structures map[string]*salarystructure.SalaryStructure
	err        error
}

func (f *fakeStructures) FindByID(ctx context.Context, schoolID, id string) (*salarystructure.SalaryStructure, error) {
	if f.err != nil {
		return nil, f.err
	}
	if s, ok := f.structures[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeLoans struct {
	due     map[string][]loan.DueRepayment
	repaid  []string
	markErr error
}

func (f *fakeLoans) DueForPeriod(ctx context.Context, schoolID, employeeID string, month, year int) ([]loan.DueRepayment, error) {
	return f.due[employeeID], nil
}

func (f *fakeLoans) MarkRepaid(ctx context.Context, tx *sql.Tx, schoolID string, repaymentIDs []string, periodID string, paidAt time.Time) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.repaid = append(f.repaid, repaymentIDs...)
	return nil
}

type fakeAttendance struct {
	absent map[string]int
	errs   map[string]error
}

func (f *fakeAttendance) DaysWorked(ctx context.Context, schoolID, employeeID string, from, to time.Time) (payroll.AttendanceSummary, error) {
	if err := f.errs[employeeID]; err != nil {
		return payroll.AttendanceSummary{}, err
	}
	return payroll.AttendanceSummary{Absent: f.absent[employeeID]}, nil
}

type fakeCounter struct {
	mu   sync.Mutex
	next int64
}

func (f *fakeCounter) WithTx(tx *sql.Tx) counter.Repository { return f }

func (f *fakeCounter) GetNextValue(ctx context.Context, schoolID string, counterType string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	return f.next, nil
}

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

type fakeAudit struct {
	mu      sync.Mutex
	entries []audit.AuditLog
}

func (f *fakeAudit) WithTx(tx *sql.Tx) audit.Repository { return f }
func (f *fakeAudit) Create(ctx context.Context, entry audit.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}
