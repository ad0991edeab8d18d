package salarystructure

import (
	"context"
	"database/sql"
	"strings"
	"time"

	salarystructureerrors "go-payroll/internal/salarystructure/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/cache"
	"go-payroll/internal/shared/money"
	"go-payroll/internal/shared/statutory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const cacheTTL = 30 * time.Minute

//go:generate mockgen -source=salary_structure_service.go -destination=mock/salary_structure_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, schoolID string, req CreateSalaryStructureRequest) (SalaryStructureResponse, error)
	Update(ctx context.Context, schoolID, id string, req UpdateSalaryStructureRequest) (SalaryStructureResponse, error)
	GetAll(ctx context.Context, schoolID string, activeOnly bool) ([]SalaryStructureResponse, error)
	GetByID(ctx context.Context, schoolID, id string) (SalaryStructureResponse, error)
	Deactivate(ctx context.Context, schoolID, id string) (DeactivateResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	cache  cache.Cache
	sf     singleflight.Group
	stat   statutory.Config
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, c cache.Cache, stat statutory.Config, logger ...*zap.Logger) Service {
	base := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		base = logger[0]
	}
	if c == nil {
		c = cache.NoopCache{}
	}
	return &service{
		db:     db,
		repo:   repo,
		cache:  c,
		stat:   stat,
		logger: base.Named("salarystructure.service"),
	}
}

func cachePrefix(schoolID string) string {
	return cache.Key("payroll", "structures", schoolID)
}

func (s *service) Create(ctx context.Context, schoolID string, req CreateSalaryStructureRequest) (SalaryStructureResponse, error) {
	schoolUUID, err := uuid.Parse(schoolID)
	if err != nil {
		return SalaryStructureResponse{}, salarystructureerrors.ErrInvalidSchoolID
	}

	structure := &SalaryStructure{
		ID:       uuid.New(),
		SchoolID: schoolUUID,
		IsActive: true,
	}
	if err := s.applyRequest(structure, req); err != nil {
		return SalaryStructureResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SalaryStructureResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, structure); err != nil {
		return SalaryStructureResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return SalaryStructureResponse{}, err
	}

	cache.Invalidate(ctx, s.cache, cachePrefix(schoolID))
	s.logger.Info("salary structure created",
		zap.String("school_id", schoolID),
		zap.String("structure_id", structure.ID.String()),
		zap.Int64("ctc", structure.CTC),
	)

	return mapToResponse(*structure), nil
}

func (s *service) Update(ctx context.Context, schoolID, id string, req UpdateSalaryStructureRequest) (SalaryStructureResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SalaryStructureResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	structure, err := qtx.FindByIDForUpdate(ctx, schoolID, id)
	if err != nil {
		return SalaryStructureResponse{}, mapRepositoryError(err)
	}

	if err := s.applyRequest(structure, req); err != nil {
		return SalaryStructureResponse{}, err
	}

	if err := qtx.Update(ctx, structure); err != nil {
		return SalaryStructureResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return SalaryStructureResponse{}, err
	}

	cache.Invalidate(ctx, s.cache, cachePrefix(schoolID))
	return mapToResponse(*structure), nil
}

func (s *service) GetAll(ctx context.Context, schoolID string, activeOnly bool) ([]SalaryStructureResponse, error) {
	scope := "all"
	if activeOnly {
		scope = "active"
	}
	key := cache.Key(cachePrefix(schoolID), scope)

	return cache.Remember(ctx, s.cache, &s.sf, key, cacheTTL, func(ctx context.Context) ([]SalaryStructureResponse, error) {
		structures, err := s.repo.FindAll(ctx, schoolID, activeOnly)
		if err != nil {
			return nil, mapRepositoryError(err)
		}
		return mapToListResponse(structures), nil
	})
}

func (s *service) GetByID(ctx context.Context, schoolID, id string) (SalaryStructureResponse, error) {
	structure, err := s.repo.FindByID(ctx, schoolID, id)
	if err != nil {
		return SalaryStructureResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*structure), nil
}

// Deactivate soft-deletes a structure still referenced by an active profile
// and hard-deletes it otherwise.
func (s *service) Deactivate(ctx context.Context, schoolID, id string) (DeactivateResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DeactivateResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByIDForUpdate(ctx, schoolID, id); err != nil {
		return DeactivateResponse{}, mapRepositoryError(err)
	}

	inUse, err := qtx.CountActiveProfiles(ctx, schoolID, id)
	if err != nil {
		return DeactivateResponse{}, err
	}

	var resp DeactivateResponse
	if inUse > 0 {
		if err := qtx.Deactivate(ctx, schoolID, id); err != nil {
			return DeactivateResponse{}, mapRepositoryError(err)
		}
		resp.Deactivated = true
	} else {
		if err := qtx.Delete(ctx, schoolID, id); err != nil {
			return DeactivateResponse{}, mapRepositoryError(err)
		}
		resp.Deleted = true
	}

	if err := tx.Commit(); err != nil {
		return DeactivateResponse{}, err
	}

	cache.Invalidate(ctx, s.cache, cachePrefix(schoolID))
	return resp, nil
}

func (s *service) applyRequest(structure *SalaryStructure, req CreateSalaryStructureRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return apperror.RequiredField("name")
	}
	if !req.BasicSalary.IsPositive() {
		return salarystructureerrors.ErrInvalidBasicSalary
	}
	for _, v := range []decimal.Decimal{
		req.HRAPercent, req.DAPercent, req.TAAmount,
		req.MedicalAllowance, req.SpecialAllowance, req.OtherAllowances,
	} {
		if v.IsNegative() {
			return salarystructureerrors.ErrNegativeComponent
		}
	}

	structure.Name = name
	structure.BasicSalary = money.FromRupees(req.BasicSalary)
	structure.HRAPercent = req.HRAPercent
	structure.DAPercent = req.DAPercent
	structure.TAAmount = money.FromRupees(req.TAAmount)
	structure.MedicalAllowance = money.FromRupees(req.MedicalAllowance)
	structure.SpecialAllowance = money.FromRupees(req.SpecialAllowance)
	structure.OtherAllowances = money.FromRupees(req.OtherAllowances)
	structure.applyDerived(s.stat)
	return nil
}

func mapToResponse(s SalaryStructure) SalaryStructureResponse {
	return SalaryStructureResponse{
		ID:               s.ID.String(),
		Name:             s.Name,
		BasicSalary:      money.ToRupees(s.BasicSalary),
		HRAPercent:       s.HRAPercent,
		DAPercent:        s.DAPercent,
		TAAmount:         money.ToRupees(s.TAAmount),
		MedicalAllowance: money.ToRupees(s.MedicalAllowance),
		SpecialAllowance: money.ToRupees(s.SpecialAllowance),
		OtherAllowances:  money.ToRupees(s.OtherAllowances),
		GrossSalary:      money.ToRupees(s.GrossSalary),
		EmployerPF:       money.ToRupees(s.EmployerPF),
		EmployerESI:      money.ToRupees(s.EmployerESI),
		CTC:              money.ToRupees(s.CTC),
		IsActive:         s.IsActive,
	}
}

func mapToListResponse(structures []SalaryStructure) []SalaryStructureResponse {
	res := make([]SalaryStructureResponse, len(structures))
	for i, s := range structures {
		res[i] = mapToResponse(s)
	}
	return res
}
