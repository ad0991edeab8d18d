package payroll

import (
	"context"
	"errors"
	"strings"

	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/payrollprofile"
	"go-payroll/internal/salarystructure"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/money"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const computeConcurrency = 4

func (s *service) ComputeItems(ctx context.Context, schoolID, periodID string, employeeIDs []string) (BatchResult, error) {
	period, err := s.repo.FindPeriod(ctx, schoolID, periodID)
	if err != nil {
		return BatchResult{}, mapPeriodError(err)
	}
	if err := checkMutable(period); err != nil {
		return BatchResult{}, err
	}

	profiles, err := s.profiles.FindAll(ctx, schoolID, true)
	if err != nil {
		return BatchResult{}, err
	}
	profiles = filterProfiles(profiles, employeeIDs)

	structures := s.loadStructures(ctx, schoolID, profiles)

	results := make([]ItemResult, len(profiles))
	var g errgroup.Group
	g.SetLimit(computeConcurrency)
	for i, profile := range profiles {
		i, profile := i, profile
		g.Go(func() error {
			results[i] = s.computeProfile(ctx, period, profile, structures[structureKey(profile)])
			return nil
		})
	}
	_ = g.Wait()

	batch := BatchResult{Results: make([]ItemResult, 0, len(results))}
	for _, r := range results {
		batch.add(r)
	}

	// A full run covers every active profile, so anything else in the period
	// is left over from an earlier run.
	if len(employeeIDs) == 0 {
		if err := s.retireStaleItems(ctx, period, results); err != nil {
			return batch, err
		}
	}

	if err := s.repo.RefreshTotals(ctx, schoolID, periodID); err != nil {
		return batch, err
	}
	s.invalidatePeriod(ctx, schoolID, periodID)

	contextutil.GetLogger(ctx, s.logger).Info("payroll items computed",
		zap.String("school_id", schoolID),
		zap.String("period_id", periodID),
		zap.Int("succeeded", batch.Succeeded),
		zap.Int("failed", batch.Failed),
		zap.Int("skipped", batch.Skipped),
	)

	return batch, nil
}

func (s *service) ComputeItem(ctx context.Context, schoolID, periodID, employeeID string) (ItemResponse, error) {
	period, err := s.repo.FindPeriod(ctx, schoolID, periodID)
	if err != nil {
		return ItemResponse{}, mapPeriodError(err)
	}
	if err := checkMutable(period); err != nil {
		return ItemResponse{}, err
	}

	profile, err := s.profiles.FindByEmployeeID(ctx, schoolID, employeeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ItemResponse{}, payrollerrors.ErrProfileNotFound
	}
	if err != nil {
		return ItemResponse{}, err
	}
	if !profile.IsActive {
		if err := s.retireEmployeeItem(ctx, period, employeeID, HoldProfileInactive); err != nil {
			return ItemResponse{}, err
		}
		return ItemResponse{}, payrollerrors.ErrProfileNotFound
	}

	structure, err := s.activeStructure(ctx, schoolID, *profile)
	if errors.Is(err, payrollerrors.ErrNoActiveStructure) {
		if err := s.retireEmployeeItem(ctx, period, employeeID, HoldNoActiveStructure); err != nil {
			return ItemResponse{}, err
		}
	}
	if err != nil {
		return ItemResponse{}, err
	}

	item, err := s.computeAndStore(ctx, period, *profile, structure)
	if err != nil {
		return ItemResponse{}, err
	}

	if err := s.repo.RefreshTotals(ctx, schoolID, periodID); err != nil {
		return ItemResponse{}, err
	}
	s.invalidatePeriod(ctx, schoolID, periodID)

	return mapItemToResponse(*item), nil
}

func (s *service) ListItems(ctx context.Context, schoolID, periodID string) ([]ItemResponse, error) {
	if _, err := s.repo.FindPeriod(ctx, schoolID, periodID); err != nil {
		return nil, mapPeriodError(err)
	}

	items, err := s.repo.ListItems(ctx, schoolID, periodID)
	if err != nil {
		return nil, err
	}

	resp := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, mapItemToResponse(item))
	}
	return resp, nil
}

func (s *service) GetItem(ctx context.Context, schoolID, id string) (ItemResponse, error) {
	item, err := s.repo.FindItem(ctx, schoolID, id)
	if err != nil {
		return ItemResponse{}, mapItemError(err)
	}
	return mapItemToResponse(*item), nil
}

// SetItemHold places or releases a manual hold. Releasing falls back to the
// readiness the computed figures imply.
func (s *service) SetItemHold(ctx context.Context, schoolID, itemID string, hold bool, reason string) (ItemResponse, error) {
	reason = strings.TrimSpace(reason)
	if hold && reason == "" {
		return ItemResponse{}, payrollerrors.ErrHoldReasonRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ItemResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	item, err := qtx.FindItem(ctx, schoolID, itemID)
	if err != nil {
		return ItemResponse{}, mapItemError(err)
	}
	period, err := qtx.FindPeriodForUpdate(ctx, schoolID, item.PeriodID.String())
	if err != nil {
		return ItemResponse{}, mapPeriodError(err)
	}
	if err := checkMutable(period); err != nil {
		return ItemResponse{}, err
	}

	// PROFILE_INACTIVE and NO_ACTIVE_STRUCTURE outrank manual holds; only a
	// recompute with an active profile and structure clears them.
	retired := isRetired(item.HoldReason)
	switch {
	case hold:
		item.ManualHold = true
		item.Readiness = ReadinessOnHold
		if !retired {
			item.HoldReason = reason
		}
	case retired:
		item.ManualHold = false
	default:
		item.ManualHold = false
		item.Readiness, item.HoldReason = readinessFor(item.NetSalary, item.UnrecoveredDeductions, item.BankAccountNumber, item.BankIFSC)
	}

	if err := qtx.SaveItem(ctx, item); err != nil {
		return ItemResponse{}, err
	}
	if err := qtx.RefreshTotals(ctx, schoolID, item.PeriodID.String()); err != nil {
		return ItemResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ItemResponse{}, err
	}
	s.invalidatePeriod(ctx, schoolID, item.PeriodID.String())

	return mapItemToResponse(*item), nil
}

func (s *service) UpsertAdjustment(ctx context.Context, schoolID, periodID, actorID string, req AdjustmentRequest) (AdjustmentResponse, error) {
	kind := strings.ToUpper(strings.TrimSpace(req.Kind))
	switch kind {
	case AdjustmentOvertime, AdjustmentIncentive, AdjustmentArrears:
	default:
		return AdjustmentResponse{}, payrollerrors.ErrInvalidAdjustmentKind
	}
	if req.Amount.IsNegative() {
		return AdjustmentResponse{}, payrollerrors.ErrInvalidAdjustmentAmount
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AdjustmentResponse{}, payrollerrors.ErrProfileNotFound
	}

	period, err := s.repo.FindPeriod(ctx, schoolID, periodID)
	if err != nil {
		return AdjustmentResponse{}, mapPeriodError(err)
	}
	if err := checkMutable(period); err != nil {
		return AdjustmentResponse{}, err
	}

	adj := &PayrollAdjustment{
		ID:         uuid.New(),
		SchoolID:   period.SchoolID,
		PeriodID:   period.ID,
		EmployeeID: employeeUUID,
		Kind:       kind,
		Amount:     money.FromRupees(req.Amount),
		Note:       strings.TrimSpace(req.Note),
		CreatedBy:  actorID,
	}
	if err := s.repo.UpsertAdjustment(ctx, adj); err != nil {
		return AdjustmentResponse{}, err
	}

	return AdjustmentResponse{
		ID:         adj.ID.String(),
		PeriodID:   periodID,
		EmployeeID: req.EmployeeID,
		Kind:       kind,
		Amount:     money.ToRupees(adj.Amount),
		Note:       adj.Note,
	}, nil
}

// computeProfile never returns an error; the outcome is in the result.
func (s *service) computeProfile(ctx context.Context, period *PayrollPeriod, profile payrollprofile.EmployeePayrollProfile, lookup structureLookup) ItemResult {
	result := ItemResult{
		EmployeeID:   profile.EmployeeID.String(),
		EmployeeName: profile.EmployeeName,
	}

	if lookup.err != nil {
		result.Status = ResultFailed
		result.Error = lookup.err.Error()
		return result
	}
	structure := lookup.structure
	if structure == nil || !structure.IsActive {
		result.Status = ResultSkipped
		result.Error = payrollerrors.ErrNoActiveStructure.Message
		return result
	}

	item, err := s.computeAndStore(ctx, period, profile, structure)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("payroll item computation failed",
			zap.String("period_id", period.ID.String()),
			zap.String("employee_id", result.EmployeeID),
			zap.Error(err),
		)
		result.Status = ResultFailed
		result.Error = err.Error()
		return result
	}

	result.Status = ResultComputed
	result.ItemID = item.ID.String()
	return result
}

func (s *service) computeAndStore(ctx context.Context, period *PayrollPeriod, profile payrollprofile.EmployeePayrollProfile, structure *salarystructure.SalaryStructure) (*PayrollItem, error) {
	schoolID := period.SchoolID.String()
	periodID := period.ID.String()
	employeeID := profile.EmployeeID.String()

	var att AttendanceSummary
	if s.attendance != nil {
		var err error
		att, err = s.attendance.DaysWorked(ctx, schoolID, employeeID, period.StartDate, period.EndDate)
		if err != nil {
			return nil, err
		}
	}

	adjustments, err := s.repo.ListAdjustments(ctx, schoolID, periodID, employeeID)
	if err != nil {
		return nil, err
	}

	input := CalcInput{
		Month:             period.Month,
		TotalWorkingDays:  period.TotalWorkingDays,
		DaysAbsent:        att.Absent,
		Structure:         structure.Components(),
		StructureGross:    structure.GrossSalary,
		BankAccountNumber: profile.BankAccountNumber,
		BankIFSC:          profile.BankIFSC,
	}
	for _, adj := range adjustments {
		switch adj.Kind {
		case AdjustmentOvertime:
			input.Overtime += adj.Amount
		case AdjustmentIncentive:
			input.Incentives += adj.Amount
		case AdjustmentArrears:
			input.Arrears += adj.Amount
		}
	}

	if s.loans != nil {
		input.Repayments, err = s.loans.DueForPeriod(ctx, schoolID, employeeID, period.Month, period.Year)
		if err != nil {
			return nil, err
		}
	}

	result, err := s.calc.Calculate(input)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindItemByEmployee(ctx, schoolID, periodID, employeeID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = &PayrollItem{
			ID:            uuid.New(),
			SchoolID:      period.SchoolID,
			PeriodID:      period.ID,
			EmployeeID:    profile.EmployeeID,
			PaymentStatus: PaymentPending,
		}
	case err != nil:
		return nil, err
	}

	item.EmployeeName = profile.EmployeeName
	item.BankName = profile.BankName
	item.BankAccountNumber = profile.BankAccountNumber
	item.BankIFSC = profile.BankIFSC
	result.applyTo(item)
	item.ComputedAt = s.now()

	if err := s.storeItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) storeItem(ctx context.Context, item *PayrollItem) error {
	err := s.repo.UpsertItem(ctx, item)
	if errors.Is(err, ErrPeriodNotWritable) {
		return payrollerrors.ErrComputeNotAllowed
	}
	return err
}

// retireStaleItems puts items of employees this run did not compute on hold:
// profiles that are no longer active and profiles without an active structure.
// Failed employees keep their item so a retry can overwrite it.
func (s *service) retireStaleItems(ctx context.Context, period *PayrollPeriod, results []ItemResult) error {
	reasons := make(map[string]string, len(results))
	for _, r := range results {
		if r.Status == ResultSkipped {
			reasons[r.EmployeeID] = HoldNoActiveStructure
		} else {
			reasons[r.EmployeeID] = ""
		}
	}

	items, err := s.repo.ListItems(ctx, period.SchoolID.String(), period.ID.String())
	if err != nil {
		return err
	}
	for i := range items {
		reason, seen := reasons[items[i].EmployeeID.String()]
		if !seen {
			reason = HoldProfileInactive
		}
		if reason == "" {
			continue
		}
		if err := s.retireItem(ctx, &items[i], reason); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) retireEmployeeItem(ctx context.Context, period *PayrollPeriod, employeeID, reason string) error {
	item, err := s.repo.FindItemByEmployee(ctx, period.SchoolID.String(), period.ID.String(), employeeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.retireItem(ctx, item, reason); err != nil {
		return err
	}
	if err := s.repo.RefreshTotals(ctx, period.SchoolID.String(), period.ID.String()); err != nil {
		return err
	}
	s.invalidatePeriod(ctx, period.SchoolID.String(), period.ID.String())
	return nil
}

func (s *service) retireItem(ctx context.Context, item *PayrollItem, reason string) error {
	if item.Readiness == ReadinessOnHold && item.HoldReason == reason {
		return nil
	}
	item.Readiness = ReadinessOnHold
	item.HoldReason = reason
	if err := s.storeItem(ctx, item); err != nil {
		return err
	}

	contextutil.GetLogger(ctx, s.logger).Info("stale payroll item put on hold",
		zap.String("period_id", item.PeriodID.String()),
		zap.String("employee_id", item.EmployeeID.String()),
		zap.String("reason", reason),
	)
	return nil
}

func isRetired(holdReason string) bool {
	return holdReason == HoldProfileInactive || holdReason == HoldNoActiveStructure
}

func (s *service) activeStructure(ctx context.Context, schoolID string, profile payrollprofile.EmployeePayrollProfile) (*salarystructure.SalaryStructure, error) {
	if profile.SalaryStructureID == nil {
		return nil, payrollerrors.ErrNoActiveStructure
	}
	structure, err := s.structures.FindByID(ctx, schoolID, profile.SalaryStructureID.String())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, payrollerrors.ErrNoActiveStructure
	}
	if err != nil {
		return nil, err
	}
	if !structure.IsActive {
		return nil, payrollerrors.ErrNoActiveStructure
	}
	return structure, nil
}

type structureLookup struct {
	structure *salarystructure.SalaryStructure
	err       error
}

// loadStructures fetches each referenced structure once. A missing structure
// leaves the lookup empty and the profile is skipped; any other error fails
// the profile so the run can be retried.
func (s *service) loadStructures(ctx context.Context, schoolID string, profiles []payrollprofile.EmployeePayrollProfile) map[string]structureLookup {
	out := make(map[string]structureLookup)
	for _, p := range profiles {
		key := structureKey(p)
		if key == "" {
			continue
		}
		if _, ok := out[key]; ok {
			continue
		}
		structure, err := s.structures.FindByID(ctx, schoolID, key)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			out[key] = structureLookup{}
		case err != nil:
			contextutil.GetLogger(ctx, s.logger).Warn("salary structure lookup failed",
				zap.String("structure_id", key),
				zap.Error(err),
			)
			out[key] = structureLookup{err: err}
		default:
			out[key] = structureLookup{structure: structure}
		}
	}
	return out
}

func structureKey(p payrollprofile.EmployeePayrollProfile) string {
	if p.SalaryStructureID == nil {
		return ""
	}
	return p.SalaryStructureID.String()
}

func filterProfiles(profiles []payrollprofile.EmployeePayrollProfile, employeeIDs []string) []payrollprofile.EmployeePayrollProfile {
	if len(employeeIDs) == 0 {
		return profiles
	}
	wanted := make(map[string]struct{}, len(employeeIDs))
	for _, id := range employeeIDs {
		wanted[id] = struct{}{}
	}
	out := make([]payrollprofile.EmployeePayrollProfile, 0, len(employeeIDs))
	for _, p := range profiles {
		if _, ok := wanted[p.EmployeeID.String()]; ok {
			out = append(out, p)
		}
	}
	return out
}

func mapItemToResponse(i PayrollItem) ItemResponse {
	ids := []string(i.DeductedRepaymentIDs)
	if ids == nil {
		ids = []string{}
	}
	return ItemResponse{
		ID:                    i.ID.String(),
		PeriodID:              i.PeriodID.String(),
		EmployeeID:            i.EmployeeID.String(),
		EmployeeName:          i.EmployeeName,
		BankName:              i.BankName,
		BankAccountNumber:     i.BankAccountNumber,
		BankIFSC:              i.BankIFSC,
		BasicEarned:           money.ToRupees(i.BasicEarned),
		HRAEarned:             money.ToRupees(i.HRAEarned),
		DAEarned:              money.ToRupees(i.DAEarned),
		TAEarned:              money.ToRupees(i.TAEarned),
		MedicalEarned:         money.ToRupees(i.MedicalEarned),
		SpecialEarned:         money.ToRupees(i.SpecialEarned),
		OtherEarned:           money.ToRupees(i.OtherEarned),
		Overtime:              money.ToRupees(i.Overtime),
		Incentives:            money.ToRupees(i.Incentives),
		Arrears:               money.ToRupees(i.Arrears),
		GrossEarnings:         money.ToRupees(i.GrossEarnings),
		PFEmployee:            money.ToRupees(i.PFEmployee),
		PFEmployer:            money.ToRupees(i.PFEmployer),
		ESIEmployee:           money.ToRupees(i.ESIEmployee),
		ESIEmployer:           money.ToRupees(i.ESIEmployer),
		ProfessionalTax:       money.ToRupees(i.ProfessionalTax),
		TDS:                   money.ToRupees(i.TDS),
		LoanDeduction:         money.ToRupees(i.LoanDeduction),
		AdvanceDeduction:      money.ToRupees(i.AdvanceDeduction),
		LossOfPay:             money.ToRupees(i.LossOfPay),
		TotalDeductions:       money.ToRupees(i.TotalDeductions),
		UnrecoveredDeductions: money.ToRupees(i.UnrecoveredDeductions),
		NetSalary:             money.ToRupees(i.NetSalary),
		DaysWorked:            i.DaysWorked,
		DaysAbsent:            i.DaysAbsent,
		PaymentStatus:         i.PaymentStatus,
		Readiness:             i.Readiness,
		HoldReason:            i.HoldReason,
		DeductedRepaymentIDs:  ids,
		ComputedAt:            i.ComputedAt,
	}
}
