package salarystructure_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-payroll/internal/salarystructure"
	salarystructureerrors "go-payroll/internal/salarystructure/errors"
	cachemock "go-payroll/internal/shared/cache/mock"
	"go-payroll/internal/shared/statutory"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeStructureRepository struct {
	createFn              func(ctx context.Context, s *salarystructure.SalaryStructure) error
	updateFn              func(ctx context.Context, s *salarystructure.SalaryStructure) error
	findAllFn             func(ctx context.Context, schoolID string, activeOnly bool) ([]salarystructure.SalaryStructure, error)
	findByIDFn            func(ctx context.Context, schoolID, id string) (*salarystructure.SalaryStructure, error)
	countActiveProfilesFn func(ctx context.Context, schoolID, id string) (int64, error)
	deactivated           []string
	deleted               []string
}

func (f *fakeStructureRepository) WithTx(tx *sql.Tx) salarystructure.Repository { return f }

func (f *fakeStructureRepository) Create(ctx context.Context, s *salarystructure.SalaryStructure) error {
	if f.createFn != nil {
		return f.createFn(ctx, s)
	}
	return nil
}

func (f *fakeStructureRepository) Update(ctx context.Context, s *salarystructure.SalaryStructure) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, s)
	}
	return nil
}

func (f *fakeStructureRepository) FindAll(ctx context.Context, schoolID string, activeOnly bool) ([]salarystructure.SalaryStructure, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, schoolID, activeOnly)
	}
	return nil, nil
}

func (f *fakeStructureRepository) FindByID(ctx context.Context, schoolID, id string) (*salarystructure.SalaryStructure, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, schoolID, id)
	}
	return nil, nil
}

func (f *fakeStructureRepository) FindByIDForUpdate(ctx context.Context, schoolID, id string) (*salarystructure.SalaryStructure, error) {
	return f.FindByID(ctx, schoolID, id)
}

func (f *fakeStructureRepository) CountActiveProfiles(ctx context.Context, schoolID, id string) (int64, error) {
	if f.countActiveProfilesFn != nil {
		return f.countActiveProfilesFn(ctx, schoolID, id)
	}
	return 0, nil
}

func (f *fakeStructureRepository) Deactivate(ctx context.Context, schoolID, id string) error {
	f.deactivated = append(f.deactivated, id)
	return nil
}

func (f *fakeStructureRepository) Delete(ctx context.Context, schoolID, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	cache   *cachemock.MockCache
	repo    *fakeStructureRepository
	service salarystructure.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	ctrl := gomock.NewController(t)
	c := cachemock.NewMockCache(ctrl)
	repo := &fakeStructureRepository{}

	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		cache:   c,
		repo:    repo,
		service: salarystructure.NewService(db, repo, c, statutory.Default(), zap.NewNop()),
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestSalaryStructureService_Create(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	schoolID := uuid.New().String()

	t.Run("success derives gross and ctc", func(t *testing.T) {
		expectTx(t, deps.sqlMock, true)
		deps.cache.EXPECT().InvalidatePrefix(gomock.Any(), "payroll:structures:"+schoolID).Return(nil)

		deps.repo.createFn = func(ctx context.Context, s *salarystructure.SalaryStructure) error {
			assert.Equal(t, "Senior Grade A", s.Name)
			assert.Equal(t, int64(3000000), s.BasicSalary)
			assert.Equal(t, int64(5035000), s.GrossSalary)
			assert.Equal(t, int64(5215000), s.CTC)
			assert.True(t, s.IsActive)
			return nil
		}

		resp, err := deps.service.Create(ctx, schoolID, salarystructure.CreateSalaryStructureRequest{
			Name:             " Senior Grade A ",
			BasicSalary:      decimal.NewFromInt(30000),
			HRAPercent:       decimal.NewFromInt(40),
			DAPercent:        decimal.NewFromInt(10),
			TAAmount:         decimal.NewFromInt(1600),
			MedicalAllowance: decimal.NewFromInt(1250),
			SpecialAllowance: decimal.NewFromInt(2000),
			OtherAllowances:  decimal.NewFromInt(500),
		})

		assert.NoError(t, err)
		assert.Equal(t, "50350.00", resp.GrossSalary.StringFixed(2))
		assert.Equal(t, "52150.00", resp.CTC.StringFixed(2))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("zero basic rejected before tx", func(t *testing.T) {
		_, err := deps.service.Create(ctx, schoolID, salarystructure.CreateSalaryStructureRequest{
			Name: "Zero",
		})

		assert.ErrorIs(t, err, salarystructureerrors.ErrInvalidBasicSalary)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative allowance rejected", func(t *testing.T) {
		_, err := deps.service.Create(ctx, schoolID, salarystructure.CreateSalaryStructureRequest{
			Name:        "Neg",
			BasicSalary: decimal.NewFromInt(1000),
			TAAmount:    decimal.NewFromInt(-1),
		})

		assert.ErrorIs(t, err, salarystructureerrors.ErrNegativeComponent)
	})

	t.Run("repo error rolls back", func(t *testing.T) {
		expectTx(t, deps.sqlMock, false)
		deps.repo.createFn = func(ctx context.Context, s *salarystructure.SalaryStructure) error {
			return errors.New("db error")
		}

		_, err := deps.service.Create(ctx, schoolID, salarystructure.CreateSalaryStructureRequest{
			Name:        "X",
			BasicSalary: decimal.NewFromInt(1000),
		})

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestSalaryStructureService_GetAll_ReadThrough(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	schoolID := uuid.New().String()
	key := "payroll:structures:" + schoolID + ":active"

	deps.cache.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(false, nil)
	deps.cache.EXPECT().Set(gomock.Any(), key, gomock.Any(), gomock.Any()).Return(nil)

	calls := 0
	deps.repo.findAllFn = func(ctx context.Context, sid string, activeOnly bool) ([]salarystructure.SalaryStructure, error) {
		calls++
		assert.True(t, activeOnly)
		return []salarystructure.SalaryStructure{{ID: uuid.New(), Name: "A", BasicSalary: 100, IsActive: true}}, nil
	}

	resp, err := deps.service.GetAll(context.Background(), schoolID, true)

	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, 1, calls)
}

func TestSalaryStructureService_Deactivate(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	schoolID := uuid.New().String()
	id := uuid.New().String()

	deps.repo.findByIDFn = func(ctx context.Context, sid, sidID string) (*salarystructure.SalaryStructure, error) {
		return &salarystructure.SalaryStructure{ID: uuid.MustParse(id), IsActive: true}, nil
	}

	t.Run("in use is deactivated", func(t *testing.T) {
		expectTx(t, deps.sqlMock, true)
		deps.cache.EXPECT().InvalidatePrefix(gomock.Any(), gomock.Any()).Return(nil)
		deps.repo.countActiveProfilesFn = func(ctx context.Context, sid, sidID string) (int64, error) { return 2, nil }

		resp, err := deps.service.Deactivate(ctx, schoolID, id)

		assert.NoError(t, err)
		assert.Equal(t, salarystructure.DeactivateResponse{Deactivated: true}, resp)
		assert.Equal(t, []string{id}, deps.repo.deactivated)
		assert.Empty(t, deps.repo.deleted)
	})

	t.Run("unused is deleted", func(t *testing.T) {
		expectTx(t, deps.sqlMock, true)
		deps.cache.EXPECT().InvalidatePrefix(gomock.Any(), gomock.Any()).Return(nil)
		deps.repo.countActiveProfilesFn = func(ctx context.Context, sid, sidID string) (int64, error) { return 0, nil }

		resp, err := deps.service.Deactivate(ctx, schoolID, id)

		assert.NoError(t, err)
		assert.Equal(t, salarystructure.DeactivateResponse{Deleted: true}, resp)
		assert.Equal(t, []string{id}, deps.repo.deleted)
	})

	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}
