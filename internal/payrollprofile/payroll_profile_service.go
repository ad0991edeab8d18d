package payrollprofile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"go-payroll/internal/audit"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/notification"
	payrollprofileerrors "go-payroll/internal/payrollprofile/errors"
	"go-payroll/internal/salarystructure"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ifscPattern = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	panPattern  = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

// StructureLookup is satisfied by salarystructure.Repository.
type StructureLookup interface {
	FindByID(ctx context.Context, schoolID, id string) (*salarystructure.SalaryStructure, error)
}

//go:generate mockgen -source=payroll_profile_service.go -destination=mock/payroll_profile_service_mock.go -package=mock
type Service interface {
	Upsert(ctx context.Context, schoolID string, req UpsertProfileRequest) (ProfileResponse, error)
	GetAll(ctx context.Context, schoolID string, activeOnly bool) ([]ProfileResponse, error)
	GetByID(ctx context.Context, schoolID, id string) (ProfileResponse, error)
	SubmitPendingDetails(ctx context.Context, schoolID, employeeID string, req SubmitPendingDetailsRequest) (ProfileResponse, error)
	ApprovePendingDetails(ctx context.Context, schoolID, profileID, actorID string) (ProfileResponse, error)
	RejectPendingDetails(ctx context.Context, schoolID, profileID, actorID, reason string) (ProfileResponse, error)
	Recipients(ctx context.Context, schoolID string, employeeIDs []string) ([]notification.Target, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	structures StructureLookup
	outbox     kafka.OutboxRepository
	auditRepo  audit.Repository
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	structures StructureLookup,
	outbox kafka.OutboxRepository,
	auditRepo audit.Repository,
	logger ...*zap.Logger,
) Service {
	base := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		base = logger[0]
	}
	return &service{
		db:         db,
		repo:       repo,
		structures: structures,
		outbox:     outbox,
		auditRepo:  auditRepo,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     base.Named("payrollprofile.service"),
	}
}

func (s *service) Upsert(ctx context.Context, schoolID string, req UpsertProfileRequest) (ProfileResponse, error) {
	schoolUUID, err := uuid.Parse(schoolID)
	if err != nil {
		return ProfileResponse{}, apperror.InvalidField("school_id")
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return ProfileResponse{}, payrollprofileerrors.ErrInvalidEmployeeID
	}

	bank := normalizeBank(BankDetails{
		BankName:          req.BankName,
		BankAccountNumber: req.BankAccountNumber,
		BankIFSC:          req.BankIFSC,
	})
	ids := normalizeIDs(IDDetails{PAN: req.PAN, Aadhar: req.Aadhar, UAN: req.UAN, ESINumber: req.ESINumber})
	if err := validateBank(bank); err != nil {
		return ProfileResponse{}, err
	}
	if err := validateIDs(ids); err != nil {
		return ProfileResponse{}, err
	}

	structure, err := s.structures.FindByID(ctx, schoolID, req.SalaryStructureID)
	if err != nil || !structure.IsActive {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileResponse{}, err
		}
		return ProfileResponse{}, payrollprofileerrors.ErrStructureUnavailable
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ProfileResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	profile, err := qtx.FindByEmployeeID(ctx, schoolID, req.EmployeeID)
	created := false
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = &EmployeePayrollProfile{
			ID:         uuid.New(),
			SchoolID:   schoolUUID,
			EmployeeID: employeeUUID,
			IsActive:   true,
		}
		created = true
	} else if err != nil {
		return ProfileResponse{}, mapRepositoryError(err)
	}

	structureID := structure.ID
	profile.EmployeeName = strings.TrimSpace(req.EmployeeName)
	profile.Email = strings.TrimSpace(req.Email)
	profile.SalaryStructureID = &structureID
	applyBank(profile, bank)
	applyIDs(profile, ids)
	if req.IsActive != nil {
		profile.IsActive = *req.IsActive
	}

	if created {
		err = qtx.Create(ctx, profile)
	} else {
		err = qtx.Save(ctx, profile)
	}
	if err != nil {
		return ProfileResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return ProfileResponse{}, err
	}

	s.logger.Info("payroll profile saved",
		zap.String("school_id", schoolID),
		zap.String("employee_id", req.EmployeeID),
		zap.Bool("created", created),
	)
	return mapToResponse(*profile), nil
}

func (s *service) GetAll(ctx context.Context, schoolID string, activeOnly bool) ([]ProfileResponse, error) {
	profiles, err := s.repo.FindAll(ctx, schoolID, activeOnly)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	res := make([]ProfileResponse, len(profiles))
	for i, p := range profiles {
		res[i] = mapToResponse(p)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, schoolID, id string) (ProfileResponse, error) {
	profile, err := s.repo.FindByID(ctx, schoolID, id)
	if err != nil {
		return ProfileResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*profile), nil
}

// SubmitPendingDetails stores a self-service change for review. A new
// submission replaces an earlier one and clears any previous rejection.
func (s *service) SubmitPendingDetails(ctx context.Context, schoolID, employeeID string, req SubmitPendingDetailsRequest) (ProfileResponse, error) {
	if req.Bank == nil && req.IDs == nil {
		return ProfileResponse{}, payrollprofileerrors.ErrEmptySubmission
	}

	var bankJSON, idsJSON []byte
	if req.Bank != nil {
		bank := normalizeBank(*req.Bank)
		if bank.BankAccountNumber == "" {
			return ProfileResponse{}, apperror.RequiredField("bank_account_number")
		}
		if bank.BankIFSC == "" {
			return ProfileResponse{}, apperror.RequiredField("bank_ifsc")
		}
		if err := validateBank(bank); err != nil {
			return ProfileResponse{}, err
		}
		bankJSON, _ = json.Marshal(bank)
	}
	if req.IDs != nil {
		ids := normalizeIDs(*req.IDs)
		if err := validateIDs(ids); err != nil {
			return ProfileResponse{}, err
		}
		idsJSON, _ = json.Marshal(ids)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ProfileResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	profile, err := qtx.FindByEmployeeID(ctx, schoolID, employeeID)
	if err != nil {
		return ProfileResponse{}, mapRepositoryError(err)
	}

	now := s.now()
	profile.PendingBankDetails = bankJSON
	profile.PendingIDDetails = idsJSON
	profile.PendingSubmittedAt = &now
	profile.PendingApprovedAt = nil
	profile.PendingRejectedAt = nil
	profile.PendingRejectionReason = ""

	if err := qtx.Save(ctx, profile); err != nil {
		return ProfileResponse{}, mapRepositoryError(err)
	}

	if err := s.queueChange(ctx, tx, *profile, events.EventTypeProfileChangeSubmitted, employeeID, ""); err != nil {
		return ProfileResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ProfileResponse{}, err
	}

	return mapToResponse(*profile), nil
}

func (s *service) ApprovePendingDetails(ctx context.Context, schoolID, profileID, actorID string) (ProfileResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ProfileResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	profile, err := qtx.FindByIDForUpdate(ctx, schoolID, profileID)
	if err != nil {
		return ProfileResponse{}, mapRepositoryError(err)
	}
	if !profile.HasPending() {
		return ProfileResponse{}, payrollprofileerrors.ErrNoPendingDetails
	}

	bank, err := profile.pendingBank()
	if err != nil {
		return ProfileResponse{}, err
	}
	ids, err := profile.pendingIDs()
	if err != nil {
		return ProfileResponse{}, err
	}
	if bank != nil {
		applyBank(profile, *bank)
	}
	if ids != nil {
		applyIDs(profile, *ids)
	}

	now := s.now()
	profile.PendingBankDetails = nil
	profile.PendingIDDetails = nil
	profile.PendingSubmittedAt = nil
	profile.PendingApprovedAt = &now

	if err := qtx.Save(ctx, profile); err != nil {
		return ProfileResponse{}, mapRepositoryError(err)
	}

	if err := s.auditRepo.WithTx(tx).Create(ctx, audit.AuditLog{
		Action:     audit.ActionPendingDetailsApprove,
		Message:    "pending payroll details approved",
		SchoolID:   schoolID,
		ActorID:    actorID,
		EntityType: "payroll_profile",
		EntityID:   profileID,
		Meta:       map[string]any{"bank": bank != nil, "ids": ids != nil},
	}); err != nil {
		return ProfileResponse{}, err
	}

	if err := s.queueChange(ctx, tx, *profile, events.EventTypeProfileChangeApproved, actorID, ""); err != nil {
		return ProfileResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ProfileResponse{}, err
	}

	return mapToResponse(*profile), nil
}

func (s *service) RejectPendingDetails(ctx context.Context, schoolID, profileID, actorID, reason string) (ProfileResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ProfileResponse{}, payrollprofileerrors.ErrRejectionReasonRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ProfileResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	profile, err := qtx.FindByIDForUpdate(ctx, schoolID, profileID)
	if err != nil {
		return ProfileResponse{}, mapRepositoryError(err)
	}
	if !profile.HasPending() {
		return ProfileResponse{}, payrollprofileerrors.ErrNoPendingDetails
	}

	now := s.now()
	profile.PendingBankDetails = nil
	profile.PendingIDDetails = nil
	profile.PendingSubmittedAt = nil
	profile.PendingRejectedAt = &now
	profile.PendingRejectionReason = reason

	if err := qtx.Save(ctx, profile); err != nil {
		return ProfileResponse{}, mapRepositoryError(err)
	}

	if err := s.auditRepo.WithTx(tx).Create(ctx, audit.AuditLog{
		Action:     audit.ActionPendingDetailsReject,
		Message:    "pending payroll details rejected",
		SchoolID:   schoolID,
		ActorID:    actorID,
		EntityType: "payroll_profile",
		EntityID:   profileID,
		Meta:       map[string]any{"reason": reason},
	}); err != nil {
		return ProfileResponse{}, err
	}

	if err := s.queueChange(ctx, tx, *profile, events.EventTypeProfileChangeRejected, actorID, reason); err != nil {
		return ProfileResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ProfileResponse{}, err
	}

	return mapToResponse(*profile), nil
}

// Recipients resolves notification targets; employees without a profile are
// silently skipped.
func (s *service) Recipients(ctx context.Context, schoolID string, employeeIDs []string) ([]notification.Target, error) {
	profiles, err := s.repo.FindByEmployeeIDs(ctx, schoolID, employeeIDs)
	if err != nil {
		return nil, err
	}
	targets := make([]notification.Target, 0, len(profiles))
	for _, p := range profiles {
		if strings.TrimSpace(p.Email) == "" {
			continue
		}
		targets = append(targets, notification.Target{
			EmployeeID: p.EmployeeID.String(),
			Name:       p.EmployeeName,
			Email:      p.Email,
		})
	}
	return targets, nil
}

func (s *service) queueChange(ctx context.Context, tx *sql.Tx, profile EmployeePayrollProfile, eventType, actorID, reason string) error {
	event, err := kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		"payroll_profile",
		profile.ID.String(),
		eventType,
		events.ProfileChangeTopic,
		events.ProfileChangeEvent{
			EventType:  eventType,
			RequestID:  contextutil.GetRequestID(ctx),
			ProfileID:  profile.ID.String(),
			SchoolID:   profile.SchoolID.String(),
			EmployeeID: profile.EmployeeID.String(),
			ActorID:    actorID,
			Reason:     reason,
			OccurredAt: s.now(),
		},
	)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

func normalizeBank(b BankDetails) BankDetails {
	return BankDetails{
		BankName:          strings.TrimSpace(b.BankName),
		BankAccountNumber: strings.ReplaceAll(strings.TrimSpace(b.BankAccountNumber), " ", ""),
		BankIFSC:          strings.ToUpper(strings.TrimSpace(b.BankIFSC)),
	}
}

func normalizeIDs(d IDDetails) IDDetails {
	return IDDetails{
		PAN:       strings.ToUpper(strings.TrimSpace(d.PAN)),
		Aadhar:    strings.TrimSpace(d.Aadhar),
		UAN:       strings.TrimSpace(d.UAN),
		ESINumber: strings.TrimSpace(d.ESINumber),
	}
}

func validateBank(b BankDetails) error {
	if b.BankIFSC != "" && !ifscPattern.MatchString(b.BankIFSC) {
		return payrollprofileerrors.ErrInvalidIFSC
	}
	return nil
}

func validateIDs(d IDDetails) error {
	if d.PAN != "" && !panPattern.MatchString(d.PAN) {
		return payrollprofileerrors.ErrInvalidPAN
	}
	return nil
}

func applyBank(p *EmployeePayrollProfile, b BankDetails) {
	p.BankName = b.BankName
	p.BankAccountNumber = b.BankAccountNumber
	p.BankIFSC = b.BankIFSC
}

// applyIDs only overwrites identifiers that were supplied.
func applyIDs(p *EmployeePayrollProfile, d IDDetails) {
	if d.PAN != "" {
		p.PAN = d.PAN
	}
	if d.Aadhar != "" {
		p.Aadhar = d.Aadhar
	}
	if d.UAN != "" {
		p.UAN = d.UAN
	}
	if d.ESINumber != "" {
		p.ESINumber = d.ESINumber
	}
}

func maskTail(s string, keep int) string {
	if len(s) <= keep {
		return s
	}
	return strings.Repeat("X", len(s)-keep) + s[len(s)-keep:]
}

func mapToResponse(p EmployeePayrollProfile) ProfileResponse {
	resp := ProfileResponse{
		ID:                p.ID.String(),
		EmployeeID:        p.EmployeeID.String(),
		EmployeeName:      p.EmployeeName,
		Email:             p.Email,
		PAN:               p.PAN,
		Aadhar:            maskTail(p.Aadhar, 4),
		UAN:               p.UAN,
		ESINumber:         p.ESINumber,
		BankName:          p.BankName,
		BankAccountNumber: p.BankAccountNumber,
		BankIFSC:          p.BankIFSC,
		HasBankDetails:    p.HasBankDetails(),
		IsActive:          p.IsActive,
		Pending: PendingDetailsResponse{
			SubmittedAt:     p.PendingSubmittedAt,
			ApprovedAt:      p.PendingApprovedAt,
			RejectedAt:      p.PendingRejectedAt,
			RejectionReason: p.PendingRejectionReason,
		},
	}
	if p.SalaryStructureID != nil {
		resp.SalaryStructureID = p.SalaryStructureID.String()
	}
	resp.Pending.Bank, _ = p.pendingBank()
	resp.Pending.IDs, _ = p.pendingIDs()
	return resp
}
